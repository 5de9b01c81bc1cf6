// Package rtc extracts wash-cycle events from the RTC (Laguna) interface
// log, an HTML page wrapping entity-escaped XML exchange traces. The
// controller's formatter is unreliable: headers arrive glued together and
// whole exchanges share one physical line.
package rtc

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"washpipe/internal/models"
	"washpipe/internal/normalize"
)

const (
	// rawPayloadLimit bounds the audit copy persisted with each event.
	rawPayloadLimit = 500

	washTSLayout = "Jan 2 2006 15:04:05"
)

var (
	monthAlt = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

	// headerRE anchors candidate-line splitting: each event starts with a
	// "Mon DD YYYY - HH:MM:SS" header.
	headerRE = regexp.MustCompile(`(` + monthAlt + `)\s+\d{1,2}\s+\d{4}\s*-\s*\d{2}:\d{2}:\d{2}`)

	// strictRE is the production pattern: header, source IP, direction, then
	// the exchange payload.
	strictRE = regexp.MustCompile(`^(?P<ts>(?:` + monthAlt + `)\s+\d{2}\s+\d{4})\s*-\s*(?P<hms>\d{2}:\d{2}:\d{2})\s*:\s*(?P<ip>[\d.]+)\s*:\s*(?P<dir>send|recv)(?P<payload>.*)`)

	// Progressively looser fallbacks for firmware revisions whose headers
	// drift from the strict form. Disabled unless explicitly enabled.
	looseDayRE = regexp.MustCompile(`^(?P<ts>(?:` + monthAlt + `)\s+\d{1,2}\s+\d{4})\s*-\s*(?P<hms>\d{1,2}:\d{2}:\d{2})\s*[:\s]\s*(?P<ip>[\d.]+)\s*[:\s]\s*(?P<dir>send|recv)(?P<payload>.*)`)
	looseAnyRE = regexp.MustCompile(`(?P<ts>(?:` + monthAlt + `)\s+\d{1,2}\s+\d{4})\D{0,6}(?P<hms>\d{1,2}:\d{2}:\d{2}).*?(?P<ip>\d{1,3}(?:\.\d{1,3}){3}).*?(?P<dir>send|recv)(?P<payload>.*)`)

	washIDRE     = regexp.MustCompile(`<id>(\d+)</id>`)
	washPkgNumRE = regexp.MustCompile(`<washPkgNum>(\d+)</washPkgNum>`)
)

// patterns used by the extractor, strict first. The fallback chain is the
// resurrected behavior of an earlier parser revision.
func patterns(fallback bool) []*regexp.Regexp {
	if fallback {
		return []*regexp.Regexp{strictRE, looseDayRE, looseAnyRE}
	}
	return []*regexp.Regexp{strictRE}
}

// Extractor turns one RTC log's bytes into events.
type Extractor struct {
	// Fallback enables the permissive pattern cascade for lines the strict
	// pattern cannot read.
	Fallback bool
}

// Extract decodes, cleans and splits the log, then matches each candidate
// line. Lines that match no pattern are dropped; lines without a wash id are
// dropped; an unparseable header timestamp keeps the event with a nil time.
func (e Extractor) Extract(raw []byte) []models.RTCEvent {
	text := normalize.Decode(raw)
	text = normalize.CleanKeepPayload(text)
	text = normalize.RepairCompactTimestamp(text)
	text = normalize.RejoinTimestamp(text)

	var events []models.RTCEvent
	for _, line := range candidateLines(text) {
		ev, ok := e.match(line)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events
}

func (e Extractor) match(line string) (models.RTCEvent, bool) {
	for _, re := range patterns(e.Fallback) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		groups := groupMap(re, m)

		id := washIDRE.FindStringSubmatch(groups["payload"])
		if id == nil {
			continue
		}

		ev := models.RTCEvent{
			WashID:    id[1],
			SourceIP:  groups["ip"],
			Direction: groups["dir"],
			RawXML:    truncate(line, rawPayloadLimit),
		}
		if pkg := washPkgNumRE.FindStringSubmatch(groups["payload"]); pkg != nil {
			if n, err := strconv.ParseInt(pkg[1], 10, 64); err == nil {
				ev.WashPkgNum = &n
			}
		}
		if ts, err := time.Parse(washTSLayout, groups["ts"]+" "+groups["hms"]); err == nil {
			ev.WashTS = &ts
		}
		return ev, true
	}
	return models.RTCEvent{}, false
}

// candidateLines splits the cleaned text into physical lines, then splits
// again wherever a header appears mid-line, since the controller often runs
// several exchanges together.
func candidateLines(text string) []string {
	var out []string
	for _, line := range normalize.Lines(text) {
		idx := headerRE.FindAllStringIndex(line, -1)
		if len(idx) == 0 {
			out = append(out, line)
			continue
		}
		for i, loc := range idx {
			end := len(line)
			if i+1 < len(idx) {
				end = idx[i+1][0]
			}
			candidate := strings.TrimSpace(line[loc[0]:end])
			if candidate != "" {
				out = append(out, candidate)
			}
		}
	}
	return out
}

func groupMap(re *regexp.Regexp, m []string) map[string]string {
	groups := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}
	return groups
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// RecvOnly filters to the recv-direction events worth persisting.
func RecvOnly(events []models.RTCEvent) []models.RTCEvent {
	var out []models.RTCEvent
	for _, ev := range events {
		if ev.Direction == models.DirectionRecv {
			out = append(out, ev)
		}
	}
	return out
}

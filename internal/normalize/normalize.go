// Package normalize cleans the raw vendor log uploads before format-specific
// parsing. The hardware writes 8-bit or 16-bit encodings interchangeably and
// pads lines with markup, entity escapes and odd Unicode punctuation.
package normalize

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// encodingProbeLen bounds how far Decode looks for embedded NUL bytes when
// guessing between a wide and an 8-bit encoding.
const encodingProbeLen = 200

var (
	tagRE        = regexp.MustCompile(`<[^>]+>`)
	multiSpaceRE = regexp.MustCompile(`[ \t]{2,}`)

	monthAlt = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

	// Firmware sometimes splits the header "Nov 04 2025 - 09:15:02" across
	// punctuation noise, or glues it into "Nov042025".
	splitHeaderRE   = regexp.MustCompile(`(` + monthAlt + `)[^0-9\n]{0,6}(\d{1,2})[^0-9\n]{0,6}(\d{4})[^0-9:\n]{0,6}(\d{2}:\d{2}:\d{2})`)
	compactHeaderRE = regexp.MustCompile(`(` + monthAlt + `)(\d{2})(\d{4})`)
)

// Decode converts raw log bytes to text. Wide encodings are detected by
// probing the head of the file for embedded NUL bytes; anything else is read
// as UTF-8 with undecodable bytes dropped.
func Decode(raw []byte) string {
	probe := raw
	if len(probe) > encodingProbeLen {
		probe = probe[:encodingProbeLen]
	}
	if bytes.IndexByte(probe, 0x00) >= 0 {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err == nil {
			return string(out)
		}
		// Truncated surrogate pairs and the like: decode manually, dropping
		// what cannot be paired.
		return decodeUTF16Loose(raw)
	}
	return strings.ToValidUTF8(string(raw), "")
}

func decodeUTF16Loose(raw []byte) string {
	u16 := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		u16 = append(u16, uint16(raw[i])|uint16(raw[i+1])<<8)
	}
	return string(utf16.Decode(u16))
}

// Clean applies the shared cleanup steps in order: entity decode, markup
// strip, dash and space normalization, whitespace collapse. Newlines survive.
func Clean(s string) string {
	s = html.UnescapeString(s)
	s = tagRE.ReplaceAllString(s, "")
	s = normalizePunct(s)
	return multiSpaceRE.ReplaceAllString(s, " ")
}

// CleanKeepPayload is the RTC variant: markup is stripped before entities are
// decoded, so the entity-escaped XML payload (&lt;id&gt;…) survives as literal
// elements for the extractor while real HTML wrapping is removed.
func CleanKeepPayload(s string) string {
	s = tagRE.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = normalizePunct(s)
	return multiSpaceRE.ReplaceAllString(s, " ")
}

func normalizePunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '‐', '‑', '‒', '–', '—', '―', '−', '⁃':
			return '-'
		case ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ',
			' ', ' ', ' ', ' ', ' ', ' ', ' ', '　':
			return ' '
		case '\u200b', '\ufeff':
			return -1
		}
		return r
	}, s)
}

// RejoinTimestamp re-glues a month/day/year/time header that firmware split
// across punctuation into the canonical "Mon D YYYY - HH:MM:SS" form.
func RejoinTimestamp(s string) string {
	return splitHeaderRE.ReplaceAllString(s, "$1 $2 $3 - $4")
}

// RepairCompactTimestamp spaces out "Nov042025" style runs the RTC controller
// emits when its formatter drops separators.
func RepairCompactTimestamp(s string) string {
	return compactHeaderRE.ReplaceAllString(s, "$1 $2 $3")
}

// Lines splits cleaned text into non-empty trimmed lines.
func Lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

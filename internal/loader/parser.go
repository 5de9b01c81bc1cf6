// Package loader parses the tunnel loader controller logs. The controller
// writes one load event as a fixed four-line block; the parser walks blocks
// in stride and can resume past what is already persisted.
package loader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"washpipe/internal/models"
)

// BlockStride is the fixed number of lines per load event.
const BlockStride = 4

var invoiceIDRE = regexp.MustCompile(`Invoice Id (\d+)`)

const logDateLayout = "1/2/2006"

// ParseBlock reads the four-line block starting at index start. It fails when
// the block overruns the file or any field refuses to parse; callers skip
// such blocks and keep walking.
func ParseBlock(lines []string, start int) (models.LoaderRecord, error) {
	var rec models.LoaderRecord
	if start < 0 || start+BlockStride > len(lines) {
		return rec, fmt.Errorf("loader: block at %d overruns file (%d lines)", start, len(lines))
	}

	logDT, logTime, err := parseTimestamp(lines[start])
	if err != nil {
		return rec, fmt.Errorf("loader: block at %d: %w", start, err)
	}

	bill, err := parseInvoiceID(lines[start+1])
	if err != nil {
		return rec, fmt.Errorf("loader: block at %d: bill: %w", start, err)
	}
	// Line 3 carries no fields; the second Invoice Id sits on line 4.
	washifyRec, err := parseInvoiceID(lines[start+3])
	if err != nil {
		return rec, fmt.Errorf("loader: block at %d: washify rec: %w", start, err)
	}

	rec.Bill = bill
	rec.WashifyRec = washifyRec
	rec.LogDT = logDT
	rec.LogTime = logTime
	return rec, nil
}

// parseTimestamp reads "M/D/YYYY H:MM:SS AM,…" up to the first comma and
// normalizes the time part to HH:MM:SS with the AM/PM marker stripped.
func parseTimestamp(line string) (time.Time, string, error) {
	head := line
	if i := strings.IndexByte(head, ','); i >= 0 {
		head = head[:i]
	}
	head = strings.TrimSpace(head)

	datePart, timePart, ok := strings.Cut(head, " ")
	if !ok {
		return time.Time{}, "", fmt.Errorf("timestamp %q lacks time part", head)
	}

	dt, err := time.Parse(logDateLayout, datePart)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("bad date %q: %w", datePart, err)
	}

	timePart = strings.ReplaceAll(timePart, "AM", "")
	timePart = strings.ReplaceAll(timePart, "PM", "")
	timePart = strings.TrimSpace(timePart)

	normalized, err := padClock(timePart)
	if err != nil {
		return time.Time{}, "", err
	}
	return dt, normalized, nil
}

// padClock zero-pads a loose H:MM:SS clock reading to two-digit fields.
func padClock(clock string) (string, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("bad time %q", clock)
	}
	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return "", fmt.Errorf("bad time %q", clock)
		}
		if _, err := strconv.Atoi(p); err != nil {
			return "", fmt.Errorf("bad time %q: %w", clock, err)
		}
		if len(p) == 1 {
			parts[i] = "0" + p
		}
	}
	return strings.Join(parts, ":"), nil
}

func parseInvoiceID(line string) (int64, error) {
	m := invoiceIDRE.FindStringSubmatch(line)
	if m == nil {
		return 0, fmt.Errorf("no invoice id in %q", line)
	}
	return strconv.ParseInt(m[1], 10, 64)
}

// ResumeIndex finds where to restart a file given the most recently persisted
// record. The file is scanned backwards for the last line naming that bill;
// the returned index is aligned down to the block boundary so the matched
// block itself is re-walked (its dependent updates are re-applied, its insert
// is skipped by the existence check). A bill never seen in this file means
// the whole file is processed.
func ResumeIndex(lines []string, latest *models.LoaderRecord) int {
	if latest == nil {
		return 0
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if id, err := parseInvoiceID(lines[i]); err == nil && id == latest.Bill {
			return i - i%BlockStride
		}
	}
	return 0
}

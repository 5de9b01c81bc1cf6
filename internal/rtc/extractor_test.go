package rtc

import (
	"strings"
	"testing"
	"time"
)

const rtcPage = `<html><body>
Nov 04 2025 - 09:15:02 : 192.168.1.50 : recv &lt;washRequest&gt;&lt;id&gt;55019&lt;/id&gt;&lt;washPkgNum&gt;4&lt;/washPkgNum&gt;&lt;/washRequest&gt;
Nov 04 2025 - 09:15:03 : 192.168.1.50 : send &lt;ack&gt;&lt;id&gt;55019&lt;/id&gt;&lt;/ack&gt;
</body></html>`

func TestExtractStrict(t *testing.T) {
	events := Extractor{}.Extract([]byte(rtcPage))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	ev := events[0]
	if ev.WashID != "55019" {
		t.Errorf("WashID = %q", ev.WashID)
	}
	if ev.SourceIP != "192.168.1.50" {
		t.Errorf("SourceIP = %q", ev.SourceIP)
	}
	if ev.Direction != "recv" {
		t.Errorf("Direction = %q", ev.Direction)
	}
	if ev.WashPkgNum == nil || *ev.WashPkgNum != 4 {
		t.Errorf("WashPkgNum = %v, want 4", ev.WashPkgNum)
	}
	want := time.Date(2025, time.November, 4, 9, 15, 2, 0, time.UTC)
	if ev.WashTS == nil || !ev.WashTS.Equal(want) {
		t.Errorf("WashTS = %v, want %v", ev.WashTS, want)
	}
	if !strings.Contains(ev.RawXML, "<id>55019</id>") {
		t.Errorf("RawXML = %q, payload missing", ev.RawXML)
	}

	if events[1].Direction != "send" {
		t.Errorf("second event Direction = %q", events[1].Direction)
	}
	if events[1].WashPkgNum != nil {
		t.Errorf("WashPkgNum = %v, want nil when the element is absent", events[1].WashPkgNum)
	}
}

func TestExtractSplitsGluedExchanges(t *testing.T) {
	line := `noise Nov 04 2025 - 09:15:02 : 10.0.0.9 : recv &lt;id&gt;100&lt;/id&gt; Nov 04 2025 - 09:15:05 : 10.0.0.9 : recv &lt;id&gt;101&lt;/id&gt;`
	events := Extractor{}.Extract([]byte(line))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 from one physical line", len(events))
	}
	if events[0].WashID != "100" || events[1].WashID != "101" {
		t.Errorf("ids = %q, %q", events[0].WashID, events[1].WashID)
	}
}

func TestExtractDropsLinesWithoutWashID(t *testing.T) {
	line := `Nov 04 2025 - 09:15:02 : 10.0.0.9 : recv &lt;status&gt;idle&lt;/status&gt;`
	if events := (Extractor{}).Extract([]byte(line)); len(events) != 0 {
		t.Errorf("got %d events, want 0 without a wash id", len(events))
	}
}

func TestExtractKeepsEventWithUnparseableTimestamp(t *testing.T) {
	// Day 99 survives the strict shape check but not time.Parse.
	line := `Nov 99 2025 - 09:15:02 : 10.0.0.9 : recv &lt;id&gt;7&lt;/id&gt;`
	events := Extractor{}.Extract([]byte(line))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].WashTS != nil {
		t.Errorf("WashTS = %v, want nil", events[0].WashTS)
	}
}

func TestExtractRepairsMangledHeader(t *testing.T) {
	// Glued month run plus punctuation noise around the date.
	line := `Nov042025 - 09:15:02 : 10.0.0.9 : recv &lt;id&gt;8&lt;/id&gt;`
	events := Extractor{}.Extract([]byte(line))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 after header repair", len(events))
	}
	if events[0].WashID != "8" {
		t.Errorf("WashID = %q", events[0].WashID)
	}
}

func TestExtractFallbackCascade(t *testing.T) {
	// Single-digit day with no repairable glue: strict demands two digits.
	line := `Nov 4 2025 - 9:15:02 : 10.0.0.9 : recv &lt;id&gt;9&lt;/id&gt;`

	if events := (Extractor{}).Extract([]byte(line)); len(events) != 0 {
		t.Fatalf("strict-only got %d events, want 0", len(events))
	}

	events := Extractor{Fallback: true}.Extract([]byte(line))
	if len(events) != 1 {
		t.Fatalf("fallback got %d events, want 1", len(events))
	}
	if events[0].WashID != "9" {
		t.Errorf("WashID = %q", events[0].WashID)
	}
}

func TestRecvOnly(t *testing.T) {
	events := Extractor{}.Extract([]byte(rtcPage))
	recv := RecvOnly(events)
	if len(recv) != 1 {
		t.Fatalf("got %d recv events, want 1", len(recv))
	}
	if recv[0].Direction != "recv" {
		t.Errorf("Direction = %q", recv[0].Direction)
	}
}

func TestExtractTruncatesRawPayload(t *testing.T) {
	line := `Nov 04 2025 - 09:15:02 : 10.0.0.9 : recv &lt;id&gt;5&lt;/id&gt;` + strings.Repeat("x", 1000)
	events := Extractor{}.Extract([]byte(line))
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if len(events[0].RawXML) != rawPayloadLimit {
		t.Errorf("RawXML length = %d, want %d", len(events[0].RawXML), rawPayloadLimit)
	}
}

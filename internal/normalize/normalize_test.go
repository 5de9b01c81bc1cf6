package normalize

import (
	"strings"
	"testing"
)

func TestDecodeUTF8(t *testing.T) {
	if got := Decode([]byte("plain ascii line")); got != "plain ascii line" {
		t.Errorf("Decode = %q", got)
	}
}

func TestDecodeDropsInvalidUTF8(t *testing.T) {
	raw := []byte{'o', 'k', 0xff, 0xff, '!'}
	if got := Decode(raw); got != "ok!" {
		t.Errorf("Decode = %q, want invalid bytes dropped", got)
	}
}

func TestDecodeUTF16LE(t *testing.T) {
	// "Hi\n" as UTF-16LE with BOM: the embedded NULs trip the wide probe.
	raw := []byte{0xff, 0xfe, 'H', 0x00, 'i', 0x00, '\n', 0x00}
	if got := Decode(raw); got != "Hi\n" {
		t.Errorf("Decode = %q, want Hi\\n", got)
	}
}

func TestDecodeUTF16NoBOM(t *testing.T) {
	raw := []byte{'H', 0x00, 'i', 0x00}
	if got := Decode(raw); got != "Hi" {
		t.Errorf("Decode = %q, want Hi", got)
	}
}

func TestCleanOrder(t *testing.T) {
	// Entities decode first, then markup strips, so an escaped tag vanishes.
	in := "a &lt;b&gt;bold&lt;/b&gt; move"
	if got := Clean(in); got != "a bold move" {
		t.Errorf("Clean = %q, want %q", got, "a bold move")
	}
}

func TestCleanKeepPayloadPreservesEscapedXML(t *testing.T) {
	in := "<html><body>recv &lt;id&gt;501&lt;/id&gt;</body></html>"
	if got := CleanKeepPayload(in); got != "recv <id>501</id>" {
		t.Errorf("CleanKeepPayload = %q, want escaped payload kept", got)
	}
}

func TestCleanPunctuation(t *testing.T) {
	in := "Nov 04—2025 – 09:15:02   end"
	got := Clean(in)
	if got != "Nov 04-2025 - 09:15:02 end" {
		t.Errorf("Clean = %q", got)
	}
}

func TestRejoinTimestamp(t *testing.T) {
	cases := map[string]string{
		"Nov. 04, 2025 .. 09:15:02 : recv": "Nov 04 2025 - 09:15:02 : recv",
		// Canonical headers pass through unchanged.
		"Nov 04 2025 - 09:15:02 : send": "Nov 04 2025 - 09:15:02 : send",
	}
	for in, want := range cases {
		if got := RejoinTimestamp(in); got != want {
			t.Errorf("RejoinTimestamp(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRepairCompactTimestamp(t *testing.T) {
	in := "Nov042025 - 09:15:02 : recv"
	if got := RepairCompactTimestamp(in); got != "Nov 04 2025 - 09:15:02 : recv" {
		t.Errorf("RepairCompactTimestamp = %q", got)
	}
}

func TestLines(t *testing.T) {
	in := "first\n\n  second  \n\t\nthird\n"
	got := Lines(in)
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("Lines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCleanPreservesNewlines(t *testing.T) {
	in := "a  b\nc\td"
	got := Clean(in)
	if !strings.Contains(got, "\n") {
		t.Errorf("Clean = %q, newline lost", got)
	}
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"washpipe/internal/blob"
	"washpipe/internal/rtc"
)

const rtcQuarantinePrefix = "rtc/unparsed/"

func rtcLine(hms, dir, washID string) string {
	return "Nov 04 2025 - " + hms + " : 192.168.1.50 : " + dir +
		" &lt;washRequest&gt;&lt;id&gt;" + washID + "&lt;/id&gt;&lt;/washRequest&gt;\n"
}

func rtcFile(ids ...string) []byte {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	for i, id := range ids {
		hms := "09:15:0" + string(rune('0'+i))
		b.WriteString(rtcLine(hms, "recv", id))
	}
	b.WriteString("</body></html>\n")
	return []byte(b.String())
}

func newRTCService(blobs blob.Store, store RTCStore) *RTCService {
	return NewRTCService(blobs, store, rtc.Extractor{}, rtcQuarantinePrefix, zap.NewNop())
}

func TestRTCRunInsertsAndDeletesSource(t *testing.T) {
	key := "rtc/RTCInterface.htm"
	blobs := blob.NewMemory()
	blobs.Put(key, rtcFile("100", "101"), time.Now())
	store := newFakeRTCStore()

	if err := newRTCService(blobs, store).Run(context.Background(), key); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ids := store.insertedIDs(); len(ids) != 2 || ids[0] != "100" || ids[1] != "101" {
		t.Errorf("inserted = %v, want [100 101]", ids)
	}
	if keys := blobs.Keys(); len(keys) != 0 {
		t.Errorf("keys = %v, want source deleted", keys)
	}
}

func TestRTCRunStopsAfterConsecutiveKnownEvents(t *testing.T) {
	key := "rtc/RTCInterface.htm"
	blobs := blob.NewMemory()
	blobs.Put(key, rtcFile("1", "2", "3", "4", "5"), time.Now())
	store := newFakeRTCStore()
	store.existing["3"] = true
	store.existing["4"] = true

	if err := newRTCService(blobs, store).Run(context.Background(), key); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ids := store.insertedIDs(); len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("inserted = %v, want [1 2]", ids)
	}
	// Two known events in a row mean the tail was ingested earlier; the last
	// id is never even checked.
	for _, id := range store.checked {
		if id == "5" {
			t.Error("wash id 5 was checked after the early stop")
		}
	}
	if keys := blobs.Keys(); len(keys) != 0 {
		t.Errorf("keys = %v, want source deleted after inserts", keys)
	}
}

func TestRTCRunKnownEventsSeparatedByNewOnesDoNotStop(t *testing.T) {
	key := "rtc/RTCInterface.htm"
	blobs := blob.NewMemory()
	blobs.Put(key, rtcFile("1", "2", "3"), time.Now())
	store := newFakeRTCStore()
	store.existing["1"] = true
	store.existing["3"] = true

	if err := newRTCService(blobs, store).Run(context.Background(), key); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The run of known events resets on every insert, so the whole file walks.
	if ids := store.insertedIDs(); len(ids) != 1 || ids[0] != "2" {
		t.Errorf("inserted = %v, want [2]", ids)
	}
}

func TestRTCRunNothingNewKeepsFile(t *testing.T) {
	key := "rtc/RTCInterface.htm"
	blobs := blob.NewMemory()
	blobs.Put(key, rtcFile("7"), time.Now())
	store := newFakeRTCStore()
	store.existing["7"] = true

	if err := newRTCService(blobs, store).Run(context.Background(), key); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if keys := blobs.Keys(); len(keys) != 1 || keys[0] != key {
		t.Errorf("keys = %v, want file left in place when nothing inserted", keys)
	}
}

func TestRTCRunInsertFailureKeepsFile(t *testing.T) {
	key := "rtc/RTCInterface.htm"
	blobs := blob.NewMemory()
	blobs.Put(key, rtcFile("1", "2"), time.Now())
	store := newFakeRTCStore()
	store.insertErr["2"] = errFakeStore

	if err := newRTCService(blobs, store).Run(context.Background(), key); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ids := store.insertedIDs(); len(ids) != 1 || ids[0] != "1" {
		t.Errorf("inserted = %v, want [1]", ids)
	}
	if keys := blobs.Keys(); len(keys) != 1 {
		t.Errorf("keys = %v, want file kept for retry", keys)
	}
}

func TestRTCRunExistsFailureIsFatal(t *testing.T) {
	key := "rtc/RTCInterface.htm"
	blobs := blob.NewMemory()
	blobs.Put(key, rtcFile("1"), time.Now())
	store := newFakeRTCStore()
	store.existsFails = true

	if err := newRTCService(blobs, store).Run(context.Background(), key); err == nil {
		t.Fatal("expected existence-check error")
	}
	if keys := blobs.Keys(); len(keys) != 1 {
		t.Errorf("keys = %v, want file kept", keys)
	}
}

func TestRTCRunQuarantinesFileWithNoRecvEvents(t *testing.T) {
	key := "rtc/RTCInterface.htm"
	blobs := blob.NewMemory()
	body := "<html><body>\n" + rtcLine("09:15:02", "send", "42") + "</body></html>\n"
	blobs.Put(key, []byte(body), time.Now())
	store := newFakeRTCStore()

	if err := newRTCService(blobs, store).Run(context.Background(), key); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.insertedIDs()) != 0 {
		t.Errorf("inserted = %v, want none", store.insertedIDs())
	}
	keys := blobs.Keys()
	if len(keys) != 1 || keys[0] != rtcQuarantinePrefix+"RTCInterface.htm" {
		t.Errorf("keys = %v, want file quarantined", keys)
	}
}

func TestRTCRunLeavesAlreadyQuarantinedFile(t *testing.T) {
	key := rtcQuarantinePrefix + "RTCInterface.htm"
	blobs := blob.NewMemory()
	blobs.Put(key, []byte("still unreadable"), time.Now())

	if err := newRTCService(blobs, newFakeRTCStore()).Run(context.Background(), key); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if keys := blobs.Keys(); len(keys) != 1 || keys[0] != key {
		t.Errorf("keys = %v, want file left in place", keys)
	}
}

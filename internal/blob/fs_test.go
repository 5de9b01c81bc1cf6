package blob

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	store, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return store
}

func put(t *testing.T, store *FS, key string, data []byte) {
	t.Helper()
	p := store.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFSListFiltersByPrefix(t *testing.T) {
	store := newTestFS(t)
	put(t, store, "kiosks/a.txt", []byte("a"))
	put(t, store, "kiosks/b.txt", []byte("b"))
	put(t, store, "loader1/c.txt", []byte("c"))

	refs, err := store.List(context.Background(), "kiosks/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(refs) != 2 || refs[0].Key != "kiosks/a.txt" || refs[1].Key != "kiosks/b.txt" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestFSGetDeleteRoundTrip(t *testing.T) {
	store := newTestFS(t)
	put(t, store, "kiosks/a.txt", []byte("payload"))

	data, err := store.Get(context.Background(), "kiosks/a.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("data = %q", data)
	}

	if err := store.Delete(context.Background(), "kiosks/a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(context.Background(), "kiosks/a.txt"); err == nil {
		t.Error("Get after Delete succeeded")
	}
}

func TestFSArchiveMovesObject(t *testing.T) {
	store := newTestFS(t)
	put(t, store, "kiosks/a.txt", []byte("payload"))

	if err := store.Archive(context.Background(), "kiosks/a.txt", "kiosks/unparsed/a.txt"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	data, err := store.Get(context.Background(), "kiosks/unparsed/a.txt")
	if err != nil {
		t.Fatalf("Get archived: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}
	if _, err := store.Get(context.Background(), "kiosks/a.txt"); err == nil {
		t.Error("original still readable after Archive")
	}
}

func TestLatestMatching(t *testing.T) {
	store := NewMemory()
	base := time.Date(2025, 11, 4, 8, 0, 0, 0, time.UTC)
	store.Put("kiosks/VM1_FRA_1_Transaction.txt", []byte("old"), base)
	store.Put("kiosks/VM1_FRA_2_Transaction.txt", []byte("new"), base.Add(time.Hour))
	store.Put("kiosks/VM1_FRA_3_Diagnostics.txt", []byte("x"), base.Add(2*time.Hour))

	ref, err := LatestMatching(context.Background(), store, "kiosks/", "Transaction")
	if err != nil {
		t.Fatalf("LatestMatching: %v", err)
	}
	if ref == nil || ref.Key != "kiosks/VM1_FRA_2_Transaction.txt" {
		t.Errorf("ref = %+v, want the newest Transaction file", ref)
	}
}

func TestLatestMatchingEmpty(t *testing.T) {
	ref, err := LatestMatching(context.Background(), NewMemory(), "kiosks/", "Transaction")
	if err != nil {
		t.Fatalf("LatestMatching: %v", err)
	}
	if ref != nil {
		t.Errorf("ref = %+v, want nil", ref)
	}
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"washpipe/internal/models"
)

var errFakeStore = errors.New("store unavailable")

// Hand-rolled store fakes. Errors are injected per key so one failing unit
// can be observed in isolation.

type fakeWashStore struct {
	mu      sync.Mutex
	batches [][]models.WashRecord
	err     error
}

func (f *fakeWashStore) UpsertBatch(ctx context.Context, records []models.WashRecord) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.batches = append(f.batches, records)
	return len(records), nil
}

type fakeLoaderStore struct {
	mu        sync.Mutex
	latest    *models.LoaderRecord
	existing  map[int64]bool
	inserted  []models.LoaderRecord
	insertErr map[int64]error
	existsErr map[int64]error
}

func newFakeLoaderStore() *fakeLoaderStore {
	return &fakeLoaderStore{
		existing:  make(map[int64]bool),
		insertErr: make(map[int64]error),
		existsErr: make(map[int64]error),
	}
}

func (f *fakeLoaderStore) Latest(ctx context.Context) (*models.LoaderRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, nil
}

func (f *fakeLoaderStore) Exists(ctx context.Context, bill int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.existsErr[bill]; err != nil {
		return false, err
	}
	return f.existing[bill], nil
}

func (f *fakeLoaderStore) Insert(ctx context.Context, rec models.LoaderRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.insertErr[rec.Bill]; err != nil {
		return err
	}
	f.inserted = append(f.inserted, rec)
	f.existing[rec.Bill] = true
	return nil
}

func (f *fakeLoaderStore) insertedBills() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	bills := make([]int64, 0, len(f.inserted))
	for _, rec := range f.inserted {
		bills = append(bills, rec.Bill)
	}
	return bills
}

type depsCall struct {
	bill     int64
	logTime  string
	location string
}

type fakeDeps struct {
	mu       sync.Mutex
	super    []depsCall
	tunnel   []depsCall
	superErr map[int64]error
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{superErr: make(map[int64]error)}
}

func (f *fakeDeps) AdvanceSuper(ctx context.Context, bill int64, createdOn time.Time, location, logTime string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.superErr[bill]; err != nil {
		return 0, err
	}
	f.super = append(f.super, depsCall{bill: bill, logTime: logTime, location: location})
	return 1, nil
}

func (f *fakeDeps) MarkTunnelLoaded(ctx context.Context, bill int64, createdOn time.Time, location, logTime string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tunnel = append(f.tunnel, depsCall{bill: bill, logTime: logTime, location: location})
	return 1, nil
}

func (f *fakeDeps) superBills() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	bills := make([]int64, 0, len(f.super))
	for _, c := range f.super {
		bills = append(bills, c.bill)
	}
	return bills
}

type fakeRTCStore struct {
	mu          sync.Mutex
	existing    map[string]bool
	inserted    []models.RTCEvent
	checked     []string
	insertErr   map[string]error
	existsFails bool
}

func newFakeRTCStore() *fakeRTCStore {
	return &fakeRTCStore{
		existing:  make(map[string]bool),
		insertErr: make(map[string]error),
	}
}

func (f *fakeRTCStore) Exists(ctx context.Context, washID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsFails {
		return false, errFakeStore
	}
	f.checked = append(f.checked, washID)
	return f.existing[washID], nil
}

func (f *fakeRTCStore) Insert(ctx context.Context, ev models.RTCEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.insertErr[ev.WashID]; err != nil {
		return err
	}
	f.inserted = append(f.inserted, ev)
	f.existing[ev.WashID] = true
	return nil
}

func (f *fakeRTCStore) insertedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.inserted))
	for _, ev := range f.inserted {
		ids = append(ids, ev.WashID)
	}
	return ids
}

type fakeHeartbeat struct {
	mu      sync.Mutex
	sources []string
	err     error
}

func (f *fakeHeartbeat) Beat(ctx context.Context, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sources = append(f.sources, source)
	return nil
}

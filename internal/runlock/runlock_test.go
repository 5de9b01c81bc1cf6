package runlock

import (
	"context"
	"testing"
	"time"
)

func TestNilLockAlwaysGrants(t *testing.T) {
	var l *Lock
	for i := 0; i < 3; i++ {
		release, ok, err := l.TryAcquire(context.Background(), "kiosk")
		if err != nil {
			t.Fatalf("TryAcquire: %v", err)
		}
		if !ok {
			t.Fatal("nil lock must always grant")
		}
		release()
	}
}

func TestNewWithoutClientIsNil(t *testing.T) {
	if l := New(nil, time.Minute); l != nil {
		t.Errorf("New(nil) = %v, want nil lock", l)
	}
}

// Package blob abstracts the object store the on-site hardware uploads into.
package blob

import (
	"context"
	"path"
	"strings"
	"time"
)

// ObjectRef identifies one stored object.
type ObjectRef struct {
	Key          string
	LastModified time.Time
}

// Store lists, fetches and removes uploaded log files.
type Store interface {
	List(ctx context.Context, prefix string) ([]ObjectRef, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Archive copies the object to newKey and removes the original.
	Archive(ctx context.Context, key, newKey string) error
}

// LatestMatching returns the newest object under prefix whose basename contains
// match. Returns nil when nothing qualifies.
func LatestMatching(ctx context.Context, store Store, prefix, match string) (*ObjectRef, error) {
	refs, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var newest *ObjectRef
	for i := range refs {
		ref := refs[i]
		if !strings.Contains(path.Base(ref.Key), match) {
			continue
		}
		if newest == nil || ref.LastModified.After(newest.LastModified) {
			newest = &ref
		}
	}
	return newest, nil
}

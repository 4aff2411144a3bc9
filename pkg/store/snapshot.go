package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/drawgraph/pkg/document"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
)

// Save writes snap under key.
func Save(ctx context.Context, st Store, key string, snap document.Snapshot, ttl time.Duration) error {
	if err := errs.ValidateStoreKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode snapshot")
	}
	if err := st.Set(ctx, key, data, ttl); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "save %s", key)
	}
	return nil
}

// Load reads the snapshot stored under key. A missing key returns an error
// matching both [ErrNotFound] and errors.ErrCodeNotFound.
func Load(ctx context.Context, st Store, key string) (document.Snapshot, error) {
	if err := errs.ValidateStoreKey(key); err != nil {
		return document.Snapshot{}, err
	}
	data, ok, err := st.Get(ctx, key)
	if err != nil {
		return document.Snapshot{}, errs.Wrap(errs.ErrCodeStore, err, "load %s", key)
	}
	if !ok {
		return document.Snapshot{}, errs.Wrap(errs.ErrCodeNotFound, ErrNotFound, "document %s", key)
	}
	return Decode(data)
}

// Decode parses a JSON snapshot and checks its version.
func Decode(data []byte) (document.Snapshot, error) {
	var snap document.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return document.Snapshot{}, errs.Wrap(errs.ErrCodeInvalidRecord, err, "decode snapshot")
	}
	if snap.Version > document.SnapshotVersion {
		return document.Snapshot{}, errs.New(errs.ErrCodeUnsupported,
			"snapshot version %d is newer than %d", snap.Version, document.SnapshotVersion)
	}
	return snap, nil
}

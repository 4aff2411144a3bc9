package store

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/drawgraph/pkg/config"
	"github.com/matzehuels/drawgraph/pkg/document"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreBasics(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := st.Get(ctx, "missing"); ok || err != nil {
				t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
			}
			if err := st.Set(ctx, "a", []byte(`{"x":1}`), 0); err != nil {
				t.Fatal(err)
			}
			if err := st.Set(ctx, "b", []byte("not json"), 0); err != nil {
				t.Fatal(err)
			}
			got, ok, err := st.Get(ctx, "b")
			if err != nil || !ok || string(got) != "not json" {
				t.Errorf("Get(b) = %q, %v, %v", got, ok, err)
			}

			keys, err := st.(Lister).Keys(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
				t.Errorf("Keys() = %v, want [a b]", keys)
			}

			if err := st.Delete(ctx, "a"); err != nil {
				t.Fatal(err)
			}
			if err := st.Delete(ctx, "a"); err != nil {
				t.Errorf("second Delete = %v, want nil", err)
			}
			if _, ok, _ := st.Get(ctx, "a"); ok {
				t.Error("deleted key still present")
			}
		})
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	mem := NewMemoryStore()
	mem.now = clock
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fs.now = clock

	for name, st := range map[string]Store{"memory": mem, "file": fs} {
		t.Run(name, func(t *testing.T) {
			if err := st.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := st.Get(ctx, "k"); !ok {
				t.Fatal("entry missing before expiry")
			}
			now = now.Add(2 * time.Minute)
			if _, ok, _ := st.Get(ctx, "k"); ok {
				t.Error("entry present after expiry")
			}
			now = now.Add(-2 * time.Minute)
		})
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs.Path("k"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := fs.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get(corrupt) = ok %v, err %v; want miss", ok, err)
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	quiet := log.New(io.Discard)

	src := document.New(document.Options{Logger: quiet})
	a := shape.NewNode(0, 0, 20, "a")
	b := shape.NewNode(100, 0, 20, "b")
	for _, s := range []shape.Shape{a, b, shape.NewEdge(a.ID(), b.ID(), nil), shape.NewRectangle(5, 5, 10, 10)} {
		if err := src.Append(s); err != nil {
			t.Fatal(err)
		}
	}

	st := NewMemoryStore()
	if err := Save(ctx, st, "doc", src.Snapshot(), 0); err != nil {
		t.Fatal(err)
	}
	snap, err := Load(ctx, st, "doc")
	if err != nil {
		t.Fatal(err)
	}

	dst := document.New(document.Options{Logger: quiet})
	if err := dst.FromSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	if got, want := dst.Order(), src.Order(); len(got) != len(want) {
		t.Fatalf("Order() = %v, want %v", got, want)
	}
	if err := dst.Registry().Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if len(dst.Edges()) != 1 || dst.Edges()[0].Path().Empty() {
		t.Error("edge not routed after load")
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	_ = st.Set(ctx, "garbage", []byte("{"), 0)
	_ = st.Set(ctx, "future", []byte(`{"version":99,"shapes":[]}`), 0)

	tests := []struct {
		key  string
		code errs.Code
	}{
		{"missing", errs.ErrCodeNotFound},
		{"garbage", errs.ErrCodeInvalidRecord},
		{"future", errs.ErrCodeUnsupported},
		{"../etc", errs.ErrCodeInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := Load(ctx, st, tt.key)
			if !errs.Is(err, tt.code) {
				t.Errorf("Load(%q) = %v, want %s", tt.key, err, tt.code)
			}
		})
	}

	_, err := Load(ctx, st, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) does not match ErrNotFound: %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		want    string
	}{
		{config.BackendMemory, "*store.MemoryStore"},
		{config.BackendNone, "store.NullStore"},
		{config.BackendFile, "*store.FileStore"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			st, err := Open(ctx, config.Store{Backend: tt.backend, Dir: t.TempDir()})
			if err != nil {
				t.Fatal(err)
			}
			defer st.Close()
			if got := typeName(st); got != tt.want {
				t.Errorf("Got = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := Open(ctx, config.Store{Backend: "s3"}); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("Open(s3) = %v, want INVALID_CONFIG", err)
	}
}

func typeName(st Store) string {
	switch st.(type) {
	case *MemoryStore:
		return "*store.MemoryStore"
	case NullStore:
		return "store.NullStore"
	case *FileStore:
		return "*store.FileStore"
	}
	return "?"
}

func TestRedisKeyMapping(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	s := NewRedisStoreFromClient(client, RedisOptions{DefaultTTL: time.Hour})
	if got := s.redisKey("roadmap"); got != "drawgraph:doc:roadmap" {
		t.Errorf("redisKey = %q", got)
	}
	if got := s.storeKey("drawgraph:doc:roadmap"); got != "roadmap" {
		t.Errorf("storeKey = %q", got)
	}
	if got := s.ttl(0); got != time.Hour {
		t.Errorf("ttl(0) = %v, want default 1h", got)
	}
	if got := s.ttl(time.Minute); got != time.Minute {
		t.Errorf("ttl(1m) = %v, want 1m", got)
	}

	custom := NewRedisStoreFromClient(client, RedisOptions{Prefix: "x:"})
	if got := custom.redisKey("k"); got != "x:k" {
		t.Errorf("custom redisKey = %q", got)
	}
}

func TestMongoEntry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	forever := newMongoEntry("k", []byte("v"), 0, now)
	raw, err := bson.Marshal(forever)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bson.Raw(raw).LookupErr("expires_at"); err == nil {
		t.Error("entry without ttl should omit expires_at")
	}

	expiring := newMongoEntry("k", []byte("v"), time.Hour, now)
	raw, err = bson.Marshal(expiring)
	if err != nil {
		t.Fatal(err)
	}
	var back mongoEntry
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Key != "k" || string(back.Data) != "v" {
		t.Errorf("Got = %+v", back)
	}
	if back.ExpiresAt == nil || !back.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want %v", back.ExpiresAt, now.Add(time.Hour))
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	transient := errors.New("connection refused")

	calls := 0
	err := retryWithBackoff(ctx, func() error {
		calls++
		if calls < 3 {
			return retryable(transient)
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("Got err %v after %d calls, want nil after 3", err, calls)
	}

	calls = 0
	permanent := errors.New("auth failed")
	err = retryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("Got err %v after %d calls, want permanent after 1", err, calls)
	}
}

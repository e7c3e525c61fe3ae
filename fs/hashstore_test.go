package fs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

func newHashStore(t *testing.T, path string) (*fs.HashStore, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	store := fs.NewHashStore(path, logger)
	store.Now = func() time.Time { return fixedNow }
	return store, &logs
}

func TestHashStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing store is empty and not an error", func(t *testing.T) {
		t.Parallel()

		// Given no persisted state
		store, logs := newHashStore(t, filepath.Join(t.TempDir(), "raw_data", "content_hashes.json"))

		// When I load
		got, err := store.Load(context.Background())

		// Then the mapping is empty and nothing is logged
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, logs.String())
	})

	t.Run("corrupted store is logged and treated as empty", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "hashes.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"https://a": "abc`), 0o644))
		store, logs := newHashStore(t, path)

		got, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Contains(t, logs.String(), "fingerprint store corrupted")
		assert.Contains(t, logs.String(), "code=corrupt")
	})

	t.Run("non object json is treated as corrupted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "hashes.json")
		require.NoError(t, os.WriteFile(path, []byte(`["a","b"]`), 0o644))
		store, logs := newHashStore(t, path)

		got, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Contains(t, logs.String(), "corrupted")
	})

	t.Run("skips reserved keys and placeholder values", func(t *testing.T) {
		t.Parallel()

		hello := sdkdoc.FingerprintString("hello")
		path := filepath.Join(t.TempDir(), "hashes.json")
		content := `{
  "https://a": "` + hello.Hex() + `",
  "https://b": "placeholder_hash_https://b",
  "https://c": 42,
  "last_update": "2024-01-02T03:04:05Z",
  "lastUpdate": "2024-01-02T03:04:05Z"
}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		store, logs := newHashStore(t, path)

		got, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, sdkdoc.Fingerprints{"https://a": hello}, got)
		assert.Contains(t, logs.String(), "id=https://b")
		assert.Contains(t, logs.String(), "id=https://c")
	})

	t.Run("unreadable store is a persistence error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store, _ := newHashStore(t, dir)

		_, err := store.Load(context.Background())

		assert.Equal(t, sdkdoc.EPERSIST, sdkdoc.ErrorCode(err))
	})
}

func TestHashStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("writes sorted indented json with timestamp", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "hashes.json")
		store, _ := newHashStore(t, path)

		err := store.Save(context.Background(), sdkdoc.Fingerprints{
			"https://b": sdkdoc.FingerprintString("b"),
			"https://a": sdkdoc.FingerprintString("a"),
		})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		want := "{\n" +
			`  "https://a": "` + sdkdoc.FingerprintString("a").Hex() + "\",\n" +
			`  "https://b": "` + sdkdoc.FingerprintString("b").Hex() + "\",\n" +
			`  "lastUpdate": "2026-05-04T03:02:01Z"` + "\n" +
			"}\n"
		assert.Equal(t, want, string(data))
	})

	t.Run("drops unknown digests", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "hashes.json")
		store, _ := newHashStore(t, path)

		require.NoError(t, store.Save(context.Background(), sdkdoc.Fingerprints{"https://pending": {}}))

		got, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("replaces a corrupted store", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "hashes.json")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
		store, _ := newHashStore(t, path)

		want := sdkdoc.Fingerprints{"A": sdkdoc.FingerprintString("hello")}
		require.NoError(t, store.Save(context.Background(), want))

		got, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("leaves no temporary files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store, _ := newHashStore(t, filepath.Join(dir, "hashes.json"))

		require.NoError(t, store.Save(context.Background(), sdkdoc.Fingerprints{"A": sdkdoc.FingerprintString("a")}))
		require.NoError(t, store.Save(context.Background(), sdkdoc.Fingerprints{"B": sdkdoc.FingerprintString("b")}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "hashes.json", entries[0].Name())
	})

	t.Run("fails with persistence error when directory cannot be created", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o644))
		store, _ := newHashStore(t, filepath.Join(blocker, "hashes.json"))

		err := store.Save(context.Background(), sdkdoc.Fingerprints{})

		assert.Equal(t, sdkdoc.EPERSIST, sdkdoc.ErrorCode(err))
	})
}

func TestHashStore_SaveLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hashes.json")
	store, _ := newHashStore(t, path)
	ctx := context.Background()

	orig := sdkdoc.Fingerprints{
		"https://developer.x-plane.com/sdk/XPLMCamera/":  sdkdoc.FingerprintString("camera"),
		"https://developer.x-plane.com/sdk/XPLMDisplay/": sdkdoc.FingerprintString("display"),
	}
	require.NoError(t, store.Save(ctx, orig))

	first, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, first))
	second, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, orig, first)
	assert.Equal(t, first, second)
}

func TestHashStore_Initialize(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hashes.json")
	store, _ := newHashStore(t, path)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sdkdoc.Fingerprints{"A": sdkdoc.FingerprintString("a")}))

	// Initialize discards fingerprints and is safe to repeat
	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.Initialize(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]string{"lastUpdate": "2026-05-04T03:02:01Z"}, doc)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHashStore_LastUpdate(t *testing.T) {
	t.Parallel()

	t.Run("zero for missing store", func(t *testing.T) {
		t.Parallel()
		store, _ := newHashStore(t, filepath.Join(t.TempDir(), "hashes.json"))
		got, err := store.LastUpdate(context.Background())
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("reads saved timestamp", func(t *testing.T) {
		t.Parallel()
		store, _ := newHashStore(t, filepath.Join(t.TempDir(), "hashes.json"))
		require.NoError(t, store.Initialize(context.Background()))
		got, err := store.LastUpdate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fixedNow, got)
	})

	t.Run("reads legacy key", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "hashes.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"last_update": "2024-01-02T03:04:05Z"}`), 0o644))
		store, _ := newHashStore(t, path)
		got, err := store.LastUpdate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), got)
	})
}

func TestHashStore_LoadThenLastUpdateReadsOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hashes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store, logs := newHashStore(t, path)
	ctx := context.Background()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	last, err := store.LastUpdate(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("fingerprint store corrupted")))
}

func TestHashStore_SaveSkipsReservedIdentifiers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hashes.json")
	store, logs := newHashStore(t, path)

	err := store.Save(context.Background(), sdkdoc.Fingerprints{
		"last_update": sdkdoc.FingerprintString("x"),
		"XPLMCamera":  sdkdoc.FingerprintString("camera"),
	})

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]string{
		"lastUpdate": "2026-05-04T03:02:01Z",
		"XPLMCamera": sdkdoc.FingerprintString("camera").Hex(),
	}, doc)
	assert.Contains(t, logs.String(), "skipping reserved identifier")
}

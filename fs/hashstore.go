// Package fs provides file-based storage for fingerprints, catalogs and
// the generated documentation tree.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Ensure HashStore implements sdkdoc.FingerprintStore at compile time.
var _ sdkdoc.FingerprintStore = (*HashStore)(nil)

// Reserved keys holding the update timestamp. LegacyUpdateKey is accepted
// on load so stores written by earlier tooling keep their fingerprints.
const (
	UpdateKey       = "lastUpdate"
	LegacyUpdateKey = "last_update"
)

// TimestampFormat is the layout of the update timestamp.
const TimestampFormat = "2006-01-02T15:04:05Z"

// HashStore persists fingerprints as a flat JSON object mapping each
// identifier to its hex digest, plus the update timestamp. Keys are
// sorted and indented so diffs stay readable. Identifiers equal to
// UpdateKey or LegacyUpdateKey cannot be stored and are skipped on Save.
//
// The timestamp seen by Load is kept, so a following LastUpdate does not
// read the file again.
type HashStore struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
	last   time.Time

	// Now returns the time stamped on save. Defaults to time.Now.
	Now func() time.Time
}

// NewHashStore returns a store backed by the file at path.
func NewHashStore(path string, logger *slog.Logger) *HashStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HashStore{path: path, logger: logger, Now: time.Now}
}

func (s *HashStore) Load(ctx context.Context) (sdkdoc.Fingerprints, error) {
	raw, ok, err := s.read()
	if err != nil {
		return nil, err
	}
	s.remember(lastUpdate(raw))
	out := make(sdkdoc.Fingerprints, len(raw))
	if !ok {
		return out, nil
	}

	for id, value := range raw {
		if id == UpdateKey || id == LegacyUpdateKey {
			continue
		}
		var hex string
		if err := json.Unmarshal(value, &hex); err != nil {
			s.logger.Warn("skipping fingerprint", "path", s.path, "id", id, "code", sdkdoc.ECORRUPT, "err", err)
			continue
		}
		d, err := sdkdoc.ParseDigest(hex)
		if err != nil {
			s.logger.Warn("skipping fingerprint", "path", s.path, "id", id, "code", sdkdoc.ECORRUPT, "err", sdkdoc.ErrorMessage(err))
			continue
		}
		out[id] = d
	}
	return out, nil
}

// read returns the raw JSON members of the store. ok is false when the
// store is missing or unparseable; only the latter is logged.
func (s *HashStore) read() (map[string]json.RawMessage, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, sdkdoc.Errorf(sdkdoc.EPERSIST, "reading fingerprint store %s: %v", s.path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err == nil {
			err = errors.New("store is not a JSON object")
		}
		s.logger.Warn("fingerprint store corrupted, treating as empty",
			"path", s.path, "code", sdkdoc.ECORRUPT, "err", err)
		return nil, false, nil
	}
	return raw, true, nil
}

func (s *HashStore) Save(ctx context.Context, f sdkdoc.Fingerprints) error {
	now := s.Now().UTC().Truncate(time.Second)
	doc := make(map[string]string, len(f)+1)
	for id, d := range f {
		if id == UpdateKey || id == LegacyUpdateKey {
			s.logger.Warn("skipping reserved identifier", "path", s.path, "id", id)
			continue
		}
		if !d.Known() {
			continue
		}
		doc[id] = d.Hex()
	}
	doc[UpdateKey] = now.Format(TimestampFormat)

	// encoding/json sorts map keys.
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "encoding fingerprint store: %v", err)
	}
	data = append(data, '\n')

	if err := WriteFileAtomic(s.path, data, 0o644); err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "saving fingerprint store %s: %v", s.path, err)
	}
	s.remember(now)
	return nil
}

func (s *HashStore) Initialize(ctx context.Context) error {
	return s.Save(ctx, nil)
}

func (s *HashStore) LastUpdate(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	loaded, last := s.loaded, s.last
	s.mu.Unlock()
	if loaded {
		return last, nil
	}

	raw, _, err := s.read()
	if err != nil {
		return time.Time{}, err
	}
	return lastUpdate(raw), nil
}

func (s *HashStore) remember(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded, s.last = true, t
}

// lastUpdate parses the timestamp member of raw, or returns the zero time.
func lastUpdate(raw map[string]json.RawMessage) time.Time {
	for _, key := range []string{UpdateKey, LegacyUpdateKey} {
		value, exists := raw[key]
		if !exists {
			continue
		}
		var stamp string
		if err := json.Unmarshal(value, &stamp); err != nil {
			continue
		}
		if t, err := time.Parse(TimestampFormat, stamp); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, creating parent directories as needed. Readers see either
// the old file or the new one.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

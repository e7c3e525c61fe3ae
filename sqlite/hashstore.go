package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Compile-time interface verification.
var _ sdkdoc.FingerprintStore = (*HashStore)(nil)

// updateKey is the store_meta key holding the last save time.
const updateKey = "lastUpdate"

// HashStore implements sdkdoc.FingerprintStore using SQLite. Each Save
// replaces the whole table in one transaction.
type HashStore struct {
	db     *DB
	logger *slog.Logger

	// Now returns the time stamped on save. Defaults to time.Now.
	Now func() time.Time
}

// NewHashStore creates a new HashStore.
func NewHashStore(db *DB, logger *slog.Logger) *HashStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HashStore{db: db, logger: logger, Now: time.Now}
}

func (s *HashStore) Load(ctx context.Context) (sdkdoc.Fingerprints, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, digest FROM fingerprints")
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.EPERSIST, "read fingerprints: %v", err)
	}
	defer rows.Close()

	out := make(sdkdoc.Fingerprints)
	for rows.Next() {
		var id, hex string
		if err := rows.Scan(&id, &hex); err != nil {
			return nil, sdkdoc.Errorf(sdkdoc.EPERSIST, "read fingerprints: %v", err)
		}
		d, err := sdkdoc.ParseDigest(hex)
		if err != nil {
			s.logger.Warn("skipping fingerprint", "id", id, "code", sdkdoc.ECORRUPT, "err", sdkdoc.ErrorMessage(err))
			continue
		}
		out[id] = d
	}
	if err := rows.Err(); err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.EPERSIST, "read fingerprints: %v", err)
	}
	return out, nil
}

func (s *HashStore) Save(ctx context.Context, f sdkdoc.Fingerprints) error {
	if err := s.save(ctx, f); err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "save fingerprints: %v", err)
	}
	return nil
}

func (s *HashStore) save(ctx context.Context, f sdkdoc.Fingerprints) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fingerprints"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO fingerprints (id, digest) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for id, d := range f {
		if !d.Known() {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, d.Hex()); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO store_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, updateKey, formatTime(s.Now())); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *HashStore) Initialize(ctx context.Context) error {
	return s.Save(ctx, nil)
}

func (s *HashStore) LastUpdate(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM store_meta WHERE key = ?", updateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	} else if err != nil {
		return time.Time{}, sdkdoc.Errorf(sdkdoc.EPERSIST, "read update time: %v", err)
	}
	return parseRFC3339(value, updateKey)
}

package sdkdoc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Digest is the content fingerprint of a processed page.
// The zero value is Unknown: the content has not been hashed yet.
type Digest struct {
	hex string
}

// Fingerprint returns the SHA-256 digest of content.
func Fingerprint(content []byte) Digest {
	sum := sha256.Sum256(content)
	return Digest{hex: hex.EncodeToString(sum[:])}
}

// FingerprintString returns the digest of the UTF-8 encoding of text.
// It is equal to Fingerprint([]byte(text)).
func FingerprintString(text string) Digest {
	return Fingerprint([]byte(text))
}

// ParseDigest parses a hex encoded SHA-256 digest as persisted by a store.
func ParseDigest(s string) (Digest, error) {
	if len(s) != sha256.Size*2 {
		return Digest{}, Errorf(EINVALID, "digest must be %d hex characters, got %d", sha256.Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, Errorf(EINVALID, "digest is not hex: %v", err)
	}
	return Digest{hex: hex.EncodeToString(b)}, nil
}

// Known reports whether the digest holds a computed hash.
func (d Digest) Known() bool {
	return d.hex != ""
}

// String returns the lowercase hex form, or "unknown".
func (d Digest) String() string {
	if d.hex == "" {
		return "unknown"
	}
	return d.hex
}

// Hex returns the lowercase hex form, empty when unknown.
func (d Digest) Hex() string {
	return d.hex
}

// Fingerprints maps an identifier to the digest of its last successfully
// processed content.
type Fingerprints map[string]Digest

// Clone returns a shallow copy of f. A nil map clones to an empty map.
func (f Fingerprints) Clone() Fingerprints {
	out := make(Fingerprints, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// FingerprintStore persists fingerprints between runs.
// A store is owned by one pipeline run at a time.
type FingerprintStore interface {
	// Load returns the persisted fingerprints. A missing store yields an
	// empty map. A store that exists but cannot be parsed is logged and
	// also yields an empty map, so every identifier is processed again.
	// Returns EPERSIST when the store cannot be read at all.
	Load(ctx context.Context) (Fingerprints, error)

	// Save replaces the persisted state with f and a fresh update time.
	// Readers never observe a partially written store.
	// Returns EPERSIST on failure.
	Save(ctx context.Context, f Fingerprints) error

	// Initialize replaces the persisted state with an empty store.
	Initialize(ctx context.Context) error

	// LastUpdate returns when the store was last saved, or the zero
	// time if it never was.
	LastUpdate(ctx context.Context) (time.Time, error)
}

// MarshalText encodes the digest as hex; unknown digests encode as "".
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.hex), nil
}

// UnmarshalText decodes a hex digest; "" decodes to unknown.
func (d *Digest) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

package sdkdoc_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("matches known sha256", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, helloSHA256, sdkdoc.FingerprintString("hello").Hex())
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, sdkdoc.FingerprintString("same"), sdkdoc.FingerprintString("same"))
	})

	t.Run("text and bytes agree", func(t *testing.T) {
		t.Parallel()
		text := "Überschrift – ünïcödé"
		assert.Equal(t, sdkdoc.Fingerprint([]byte(text)), sdkdoc.FingerprintString(text))
	})

	t.Run("single byte difference changes digest", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, sdkdoc.FingerprintString("hello"), sdkdoc.FingerprintString("hellp"))
	})

	t.Run("no collisions across generated corpus", func(t *testing.T) {
		t.Parallel()
		seen := make(map[sdkdoc.Digest]string, 5000)
		for i := 0; i < 5000; i++ {
			content := fmt.Sprintf("page-%d:%s", i, strings.Repeat("x", i%17))
			d := sdkdoc.FingerprintString(content)
			prev, dup := seen[d]
			require.False(t, dup, "collision between %q and %q", prev, content)
			seen[d] = content
		}
	})
}

func TestDigest(t *testing.T) {
	t.Parallel()

	t.Run("zero value is unknown", func(t *testing.T) {
		t.Parallel()
		var d sdkdoc.Digest
		assert.False(t, d.Known())
		assert.Equal(t, "unknown", d.String())
		assert.Empty(t, d.Hex())
	})

	t.Run("parse round trips", func(t *testing.T) {
		t.Parallel()
		d, err := sdkdoc.ParseDigest(helloSHA256)
		require.NoError(t, err)
		assert.True(t, d.Known())
		assert.Equal(t, sdkdoc.FingerprintString("hello"), d)
	})

	t.Run("parse normalizes case", func(t *testing.T) {
		t.Parallel()
		d, err := sdkdoc.ParseDigest(strings.ToUpper(helloSHA256))
		require.NoError(t, err)
		assert.Equal(t, helloSHA256, d.Hex())
	})

	t.Run("parse rejects placeholder values", func(t *testing.T) {
		t.Parallel()
		_, err := sdkdoc.ParseDigest("placeholder_hash_abc")
		assert.Equal(t, sdkdoc.EINVALID, sdkdoc.ErrorCode(err))
	})

	t.Run("parse rejects non hex", func(t *testing.T) {
		t.Parallel()
		_, err := sdkdoc.ParseDigest(strings.Repeat("z", 64))
		assert.Equal(t, sdkdoc.EINVALID, sdkdoc.ErrorCode(err))
	})
}

func TestFingerprints_Clone(t *testing.T) {
	t.Parallel()

	orig := sdkdoc.Fingerprints{"a": sdkdoc.FingerprintString("a")}
	clone := orig.Clone()
	clone["b"] = sdkdoc.FingerprintString("b")

	assert.Len(t, orig, 1)
	assert.Len(t, clone, 2)

	var nilMap sdkdoc.Fingerprints
	assert.NotNil(t, nilMap.Clone())
}

func TestDigest_Text(t *testing.T) {
	t.Parallel()

	t.Run("known digest round trips", func(t *testing.T) {
		t.Parallel()
		d := sdkdoc.FingerprintString("hello")
		text, err := d.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, helloSHA256, string(text))

		var got sdkdoc.Digest
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, d, got)
	})

	t.Run("empty text is unknown", func(t *testing.T) {
		t.Parallel()
		var got sdkdoc.Digest
		require.NoError(t, got.UnmarshalText(nil))
		assert.False(t, got.Known())
	})
}

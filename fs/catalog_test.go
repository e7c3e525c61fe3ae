package fs_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Enumerate(t *testing.T) {
	t.Parallel()

	filter := &sdkdoc.URLFilter{
		Host:       "developer.x-plane.com",
		PathPrefix: "/sdk/",
		Exclude:    sdkdoc.DefaultExcludes("/sdk/"),
	}

	t.Run("reads urls in order skipping comments and rejects", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sdk_map.txt")
		content := "# X-Plane SDK\n\nhttps://developer.x-plane.com/sdk/XPLMDisplay/\n" +
			"https://developer.x-plane.com/sdk/XPLMCamera/\n" +
			"https://developer.x-plane.com/sdk/\n" +
			"https://example.com/sdk/Other/\n" +
			"https://developer.x-plane.com/sdk/XPLMDisplay/\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		var logs bytes.Buffer
		catalog := fs.NewCatalog(path, filter, slog.New(slog.NewTextHandler(&logs, nil)))

		urls, err := catalog.Enumerate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://developer.x-plane.com/sdk/XPLMDisplay/",
			"https://developer.x-plane.com/sdk/XPLMCamera/",
		}, urls)
		assert.Contains(t, logs.String(), "rejected=2")
	})

	t.Run("missing catalog is not found", func(t *testing.T) {
		t.Parallel()

		catalog := fs.NewCatalog(filepath.Join(t.TempDir(), "nope.txt"), filter, nil)

		_, err := catalog.Enumerate(context.Background())

		assert.Equal(t, sdkdoc.ENOTFOUND, sdkdoc.ErrorCode(err))
	})
}

func TestWriteCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "catalog.txt")
	urls := []string{"https://a.example/x", "https://a.example/y"}

	require.NoError(t, fs.WriteCatalog(path, urls))

	got, err := fs.NewCatalog(path, nil, nil).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, urls, got)
}

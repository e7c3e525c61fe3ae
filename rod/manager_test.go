//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/sdkdoc/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Browser(t *testing.T) {
	t.Parallel()

	t.Run("recycles after max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(3))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		require.NotNil(t, first)
		for range 3 {
			manager.IncrementPageCount()
		}

		second := manager.Browser()

		require.NotNil(t, second)
		assert.NotSame(t, first, second)
		assert.Equal(t, 1, manager.Recycled())
	})

	t.Run("keeps browser below max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		manager.IncrementPageCount()
		manager.IncrementPageCount()

		assert.Same(t, first, manager.Browser())
		assert.Zero(t, manager.Recycled())
	})

	t.Run("reports no launcher after close", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		require.NotZero(t, manager.LauncherPID())

		require.NoError(t, manager.Close())

		assert.Zero(t, manager.LauncherPID())
	})
}

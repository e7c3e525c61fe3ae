package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/sdkdoc/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://developer.x-plane.com/sdk/XPLMCamera/"))

	f.Add("https://developer.x-plane.com/sdk/XPLMCamera/")

	assert.True(t, f.Test("https://developer.x-plane.com/sdk/XPLMCamera/"))
	assert.False(t, f.Test("https://developer.x-plane.com/sdk/XPLMDisplay/"))
}

func TestFilter_IgnoresFragments(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	f.Add("https://developer.x-plane.com/sdk/XPLMCamera/#XPLMControlCamera")

	assert.True(t, f.Test("https://developer.x-plane.com/sdk/XPLMCamera/"))
	assert.True(t, f.Test("https://developer.x-plane.com/sdk/XPLMCamera/#XPLMReadCameraPosition"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("https://developer.x-plane.com/sdk/XPLMMenus/"))
	assert.True(t, f.TestAndAdd("https://developer.x-plane.com/sdk/XPLMMenus/"))
	assert.True(t, f.TestAndAdd("https://developer.x-plane.com/sdk/XPLMMenus/#top"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("https://developer.x-plane.com/sdk/XPLMCamera/")
	f.Add("https://developer.x-plane.com/sdk/XPLMDisplay/")
	f.Add("https://developer.x-plane.com/sdk/XPLMGraphics/")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/a", bloom.Normalize("https://example.com/a#b"))
	assert.Equal(t, "https://example.com/a", bloom.Normalize("https://example.com/a"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("https://developer.x-plane.com/sdk/added/%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("https://developer.x-plane.com/sdk/notadded/%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}

package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Push(t *testing.T) {
	t.Parallel()

	t.Run("rejects duplicate URLs", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.01)
		link := sdkdoc.DiscoveredLink{URL: "https://developer.x-plane.com/sdk/XPLMCamera/", Priority: sdkdoc.PriorityNavigation}

		assert.True(t, f.Push(link))
		assert.False(t, f.Push(link))
	})

	t.Run("treats fragments as the same page", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.01)

		assert.True(t, f.Push(sdkdoc.DiscoveredLink{URL: "https://developer.x-plane.com/sdk/XPLMCamera/#XPLMControlCamera"}))
		assert.False(t, f.Push(sdkdoc.DiscoveredLink{URL: "https://developer.x-plane.com/sdk/XPLMCamera/"}))

		link, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, "https://developer.x-plane.com/sdk/XPLMCamera/", link.URL)
	})
}

func TestFrontier_Pop(t *testing.T) {
	t.Parallel()

	t.Run("returns highest priority first", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.01)
		f.Push(sdkdoc.DiscoveredLink{URL: "https://example.com/footer", Priority: sdkdoc.PriorityFooter})
		f.Push(sdkdoc.DiscoveredLink{URL: "https://example.com/nav", Priority: sdkdoc.PriorityNavigation})
		f.Push(sdkdoc.DiscoveredLink{URL: "https://example.com/content", Priority: sdkdoc.PriorityContent})
		f.Push(sdkdoc.DiscoveredLink{URL: "https://example.com/toc", Priority: sdkdoc.PriorityTOC})

		var got []sdkdoc.LinkPriority
		for {
			link, ok := f.Pop()
			if !ok {
				break
			}
			got = append(got, link.Priority)
		}
		assert.Equal(t, []sdkdoc.LinkPriority{
			sdkdoc.PriorityTOC, sdkdoc.PriorityNavigation, sdkdoc.PriorityContent, sdkdoc.PriorityFooter,
		}, got)
	})

	t.Run("keeps push order within a priority", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(1000, 0.01)
		for i := range 5 {
			f.Push(sdkdoc.DiscoveredLink{URL: fmt.Sprintf("https://example.com/%d", i), Priority: sdkdoc.PriorityContent})
		}

		for i := range 5 {
			link, ok := f.Pop()
			assert.True(t, ok)
			assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), link.URL)
		}
	})
}

func TestFrontier_Len_and_Seen(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	assert.Equal(t, 0, f.Len())
	assert.False(t, f.Seen("https://example.com/page"))

	f.Push(sdkdoc.DiscoveredLink{URL: "https://example.com/page", Priority: sdkdoc.PriorityContent})
	assert.Equal(t, 1, f.Len())

	f.Pop()
	assert.Equal(t, 0, f.Len())
	assert.True(t, f.Seen("https://example.com/page"), "popped URL should still be seen")
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const workers = 10
	const ops = 100

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range ops {
				f.Push(sdkdoc.DiscoveredLink{URL: fmt.Sprintf("https://example.com/%d/%d", i, j), Priority: sdkdoc.PriorityContent})
			}
		}()
		go func() {
			defer wg.Done()
			for range ops {
				f.Pop()
				f.Len()
			}
		}()
	}
	wg.Wait()

	for i := range workers {
		for j := range ops {
			url := fmt.Sprintf("https://example.com/%d/%d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}

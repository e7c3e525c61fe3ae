package diffmatchpatch_test

import (
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/diffmatchpatch"
	"github.com/stretchr/testify/assert"
)

func TestDiffer_Diff(t *testing.T) {
	t.Parallel()

	before := "# XPLMCamera\n\n### XPLMControlCamera\n\nTakes control of the camera.\n"

	tests := []struct {
		name  string
		after string
		want  sdkdoc.DiffStats
	}{
		{
			name:  "identical content",
			after: before,
			want:  sdkdoc.DiffStats{Unchanged: 5},
		},
		{
			name:  "appended section",
			after: before + "\n### XPLMDontControlCamera\n",
			want:  sdkdoc.DiffStats{Insertions: 2, Unchanged: 5},
		},
		{
			name:  "rewritten line",
			after: "# XPLMCamera\n\n### XPLMControlCamera\n\nTakes over the camera.\n",
			want:  sdkdoc.DiffStats{Insertions: 1, Deletions: 1, Unchanged: 4},
		},
		{
			name:  "emptied page",
			after: "",
			want:  sdkdoc.DiffStats{Deletions: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := diffmatchpatch.NewDiffer().Diff(before, tt.after)

			assert.Equal(t, tt.want, got)
		})
	}
}

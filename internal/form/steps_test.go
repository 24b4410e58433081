package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/internal/assessment"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		wantSteps int
		wantLast  int
	}{
		{"single question", 1, 2, 1},
		{"exact page", 3, 2, 3},
		{"spill into second page", 4, 3, 1},
		{"two full pages", 6, 3, 3},
		{"seven questions", 7, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &assessment.Assessment{}
			for i := 0; i < tt.questions; i++ {
				a.Questions = append(a.Questions, assessment.Question{ID: i + 1, Type: assessment.QuestionTypeText})
			}

			steps := partition(a)
			require.Len(t, steps, tt.wantSteps)

			assert.True(t, steps[0].Info, "step 0 is the info step")
			assert.Empty(t, steps[0].Questions)
			assert.Equal(t, "Your Information", steps[0].Title)

			// every question index appears exactly once, in order
			var seen []int
			for _, s := range steps[1:] {
				assert.False(t, s.Info)
				assert.LessOrEqual(t, len(s.Questions), questionsPerStep)
				seen = append(seen, s.Questions...)
			}
			require.Len(t, seen, tt.questions)
			for i, idx := range seen {
				assert.Equal(t, i, idx)
			}

			assert.Len(t, steps[len(steps)-1].Questions, tt.wantLast)
		})
	}
}

func TestPartitionSectionTitles(t *testing.T) {
	a := &assessment.Assessment{}
	for i := 0; i < 5; i++ {
		a.Questions = append(a.Questions, assessment.Question{ID: i + 1, Type: assessment.QuestionTypeText})
	}

	steps := partition(a)
	require.Len(t, steps, 3)
	assert.Equal(t, "Section 1", steps[1].Title)
	assert.Equal(t, "Section 2", steps[2].Title)
}

package form

import (
	"fmt"

	"github.com/assesskit/assesskit/internal/assessment"
)

// questionsPerStep is how many questions share a wizard page.
const questionsPerStep = 3

// Step is one page of the wizard: either the respondent-info page or a
// run of up to questionsPerStep consecutive questions.
type Step struct {
	Title string
	// Info marks the respondent-information step, always step 0.
	Info bool
	// Questions holds indexes into the assessment's question slice.
	Questions []int
}

// partition computes the step sequence for an assessment. Step 0 is the
// info step; question steps cover every question exactly once, in order.
func partition(a *assessment.Assessment) []Step {
	steps := []Step{{Title: "Your Information", Info: true}}

	for start := 0; start < len(a.Questions); start += questionsPerStep {
		end := start + questionsPerStep
		if end > len(a.Questions) {
			end = len(a.Questions)
		}

		idx := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			idx = append(idx, i)
		}
		steps = append(steps, Step{
			Title:     fmt.Sprintf("Section %d", len(steps)),
			Questions: idx,
		})
	}

	return steps
}

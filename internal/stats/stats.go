package stats

import (
	"sort"
	"strings"

	"github.com/assesskit/assesskit/internal/assessment"
)

// QuestionStat summarizes the answers one question received.
type QuestionStat struct {
	QuestionID int                     `json:"question_id"`
	Text       string                  `json:"question_text"`
	Type       assessment.QuestionType `json:"question_type"`
	// Answered counts responses that gave this question a non-empty answer.
	Answered int `json:"answered"`
	// Distribution counts selections per choice token. Only set for
	// choice-bearing questions; checkbox answers contribute one count
	// per selected token.
	Distribution map[string]int `json:"answer_distribution,omitempty"`
	// Average is the mean scale rating. Only set for scale questions
	// with at least one answer.
	Average float64 `json:"average,omitempty"`
}

// TopChoice returns the most selected token, ties broken
// alphabetically. Empty when nothing was selected.
func (q QuestionStat) TopChoice() string {
	top, best := "", 0
	keys := make([]string, 0, len(q.Distribution))
	for k := range q.Distribution {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if q.Distribution[k] > best {
			top, best = k, q.Distribution[k]
		}
	}
	return top
}

// Report is the aggregate view of an assessment's responses, either
// decoded from the backend's stats endpoint or computed locally from a
// response list.
type Report struct {
	Assessment     int            `json:"assessment"`
	Title          string         `json:"title"`
	TotalResponses int            `json:"total_responses"`
	// CompletionRate is the mean fraction of questions answered per
	// response, in [0,1].
	CompletionRate float64        `json:"completion_rate"`
	Questions      []QuestionStat `json:"question_stats"`
}

// Aggregate computes a report from raw responses. The backend offers
// the same rollup server-side; this local path covers exported data
// and keeps the two views comparable.
func Aggregate(a *assessment.Assessment, responses []assessment.Response) Report {
	r := Report{
		Assessment:     a.ID,
		Title:          a.Title,
		TotalResponses: len(responses),
	}

	type acc struct {
		answered int
		dist     map[string]int
		scaleSum int
		scaleN   int
	}
	accs := make(map[int]*acc, len(a.Questions))
	for _, q := range a.Questions {
		accs[q.ID] = &acc{}
	}

	var completionSum float64
	for _, resp := range responses {
		answered := 0
		for _, wa := range resp.Answers {
			q := a.QuestionByID(wa.Question)
			if q == nil || strings.TrimSpace(wa.AnswerText) == "" {
				continue
			}
			answered++
			ac := accs[q.ID]
			ac.answered++

			v := assessment.ValueFromWire(q.Type, wa.AnswerText)
			switch q.Type {
			case assessment.QuestionTypeMultipleChoice:
				if ac.dist == nil {
					ac.dist = map[string]int{}
				}
				ac.dist[v.Text()]++
			case assessment.QuestionTypeCheckbox:
				if ac.dist == nil {
					ac.dist = map[string]int{}
				}
				for _, tok := range v.Tokens() {
					ac.dist[tok]++
				}
			case assessment.QuestionTypeScale:
				ac.scaleSum += v.Scale()
				ac.scaleN++
			}
		}
		if len(a.Questions) > 0 {
			completionSum += float64(answered) / float64(len(a.Questions))
		}
	}

	if len(responses) > 0 {
		r.CompletionRate = completionSum / float64(len(responses))
	}

	r.Questions = make([]QuestionStat, 0, len(a.Questions))
	for _, q := range a.Questions {
		ac := accs[q.ID]
		qs := QuestionStat{
			QuestionID:   q.ID,
			Text:         q.Text,
			Type:         q.Type,
			Answered:     ac.answered,
			Distribution: ac.dist,
		}
		if ac.scaleN > 0 {
			qs.Average = float64(ac.scaleSum) / float64(ac.scaleN)
		}
		r.Questions = append(r.Questions, qs)
	}
	return r
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/assesskit/assesskit/internal/assessment"
	"github.com/assesskit/assesskit/internal/stats"
)

// ListAssessments fetches every assessment visible to the caller.
func (c *Client) ListAssessments(ctx context.Context) ([]assessment.Assessment, error) {
	var out []assessment.Assessment
	if err := c.do(ctx, http.MethodGet, "assessments/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAssessment fetches one assessment with its full question list.
func (c *Client) GetAssessment(ctx context.Context, id int) (*assessment.Assessment, error) {
	var out assessment.Assessment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("assessments/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAssessmentStats fetches the server-side response rollup for an
// assessment. Admin only.
func (c *Client) GetAssessmentStats(ctx context.Context, id int) (*stats.Report, error) {
	var out stats.Report
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("assessments/%d/stats/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

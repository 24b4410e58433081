package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/assesskit/assesskit/internal/assessment"
)

// SubmitResponse delivers a finished submission. This is the terminal
// write of a form session; the matching saved draft is removed by the
// backend.
func (c *Client) SubmitResponse(ctx context.Context, sub assessment.Submission) (*assessment.Response, error) {
	var out assessment.Response
	if err := c.do(ctx, http.MethodPost, "responses/", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResponse fetches one submitted response with its answers. Admin only.
func (c *Client) GetResponse(ctx context.Context, id int) (*assessment.Response, error) {
	var out assessment.Response
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("responses/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListResponses fetches submitted responses, optionally filtered to one
// assessment (0 means all). Admin only.
func (c *Client) ListResponses(ctx context.Context, assessmentID int) ([]assessment.Response, error) {
	path := "responses/list/"
	if assessmentID != 0 {
		path = fmt.Sprintf("responses/list/?assessment=%d", assessmentID)
	}

	var out []assessment.Response
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/assesskit/assesskit/internal/assessment"
)

// SavePartial creates or updates a saved draft. A zero id creates a
// fresh draft and returns its id; a non-zero id updates in place. The
// returned id feeds the autosave coordinator so later saves update the
// same row.
func (c *Client) SavePartial(ctx context.Context, id int, p assessment.PartialResponse) (int, error) {
	var out assessment.PartialResponse
	if id == 0 {
		if err := c.do(ctx, http.MethodPost, "partial-responses/", p, &out); err != nil {
			return 0, err
		}
		return out.ID, nil
	}

	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("partial-responses/%d/", id), p, &out); err != nil {
		return 0, err
	}
	return id, nil
}

// FindPartial looks up the saved draft for (assessment, respondent
// email). Returns nil with no error when none exists; drafts are keyed
// by that pair, so at most one comes back.
func (c *Client) FindPartial(ctx context.Context, assessmentID int, email string) (*assessment.PartialResponse, error) {
	path := fmt.Sprintf("partial-responses/?assessment=%d&respondent_email=%s",
		assessmentID, url.QueryEscape(email))

	var out []assessment.PartialResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// DeletePartial removes a saved draft, typically after its submission
// landed.
func (c *Client) DeletePartial(ctx context.Context, id int) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("partial-responses/%d/", id), nil, nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/assesskit/assesskit/internal/assessment"
)

// Admin endpoints mirror the backend's management surface. The guard
// package keeps non-admin sessions away from the commands that call
// these; the backend enforces the same rule with a 403.

// AdminUser is an account row in the user management list.
type AdminUser struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	IsStaff  bool   `json:"is_staff"`
	IsActive bool   `json:"is_active"`
}

// AssessmentDraft is the writable shape of an assessment.
type AssessmentDraft struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	TimeLimitMinutes int    `json:"time_limit_minutes,omitempty"`
}

// QuestionDraft is the writable shape of a question.
type QuestionDraft struct {
	Assessment int                     `json:"assessment"`
	Text       string                  `json:"question_text"`
	Type       assessment.QuestionType `json:"question_type"`
	Required   bool                    `json:"required"`
	Order      int                     `json:"order,omitempty"`
}

// ChoiceDraft is the writable shape of a choice.
type ChoiceDraft struct {
	Question int    `json:"question"`
	Text     string `json:"choice_text"`
	Value    string `json:"value"`
	Order    int    `json:"order,omitempty"`
}

// CreateAssessment creates an assessment shell; questions come after.
func (c *Client) CreateAssessment(ctx context.Context, d AssessmentDraft) (*assessment.Assessment, error) {
	var out assessment.Assessment
	if err := c.do(ctx, http.MethodPost, "admin/assessments/", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAssessment rewrites an assessment's own fields.
func (c *Client) UpdateAssessment(ctx context.Context, id int, d AssessmentDraft) (*assessment.Assessment, error) {
	var out assessment.Assessment
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("admin/assessments/%d/", id), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssessment removes an assessment and everything under it.
func (c *Client) DeleteAssessment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("admin/assessments/%d/", id), nil, nil)
}

// CreateQuestion adds a question to an assessment.
func (c *Client) CreateQuestion(ctx context.Context, d QuestionDraft) (*assessment.Question, error) {
	var out assessment.Question
	if err := c.do(ctx, http.MethodPost, "admin/questions/", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuestion rewrites a question.
func (c *Client) UpdateQuestion(ctx context.Context, id int, d QuestionDraft) (*assessment.Question, error) {
	var out assessment.Question
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("admin/questions/%d/", id), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuestion removes a question and its choices.
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("admin/questions/%d/", id), nil, nil)
}

// CreateChoice adds a choice to a question.
func (c *Client) CreateChoice(ctx context.Context, d ChoiceDraft) (*assessment.Choice, error) {
	var out assessment.Choice
	if err := c.do(ctx, http.MethodPost, "admin/choices/", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateChoice rewrites a choice.
func (c *Client) UpdateChoice(ctx context.Context, id int, d ChoiceDraft) (*assessment.Choice, error) {
	var out assessment.Choice
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("admin/choices/%d/", id), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteChoice removes a choice.
func (c *Client) DeleteChoice(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("admin/choices/%d/", id), nil, nil)
}

// ListQuestions fetches the questions of one assessment in order.
func (c *Client) ListQuestions(ctx context.Context, assessmentID int) ([]assessment.Question, error) {
	var out []assessment.Question
	path := fmt.Sprintf("admin/questions/?assessment=%d", assessmentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers fetches the account list.
func (c *Client) ListUsers(ctx context.Context) ([]AdminUser, error) {
	var out []AdminUser
	if err := c.do(ctx, http.MethodGet, "admin/users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches one account.
func (c *Client) GetUser(ctx context.Context, id int) (*AdminUser, error) {
	var out AdminUser
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("admin/users/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser rewrites one account's flags.
func (c *Client) UpdateUser(ctx context.Context, id int, fields map[string]any) (*AdminUser, error) {
	var out AdminUser
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("admin/users/%d/", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("admin/users/%d/", id), nil, nil)
}

// BulkUpdateUsers applies the same field changes to a set of accounts
// in one call.
func (c *Client) BulkUpdateUsers(ctx context.Context, ids []int, fields map[string]any) error {
	return c.do(ctx, http.MethodPost, "admin/users/bulk-update/", map[string]any{
		"ids":    ids,
		"fields": fields,
	}, nil)
}

package assessment

import "time"

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeCheckbox       QuestionType = "checkbox"
	QuestionTypeScale          QuestionType = "scale"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeMultipleChoice, QuestionTypeCheckbox, QuestionTypeScale:
		return true
	}
	return false
}

// HasChoices reports whether questions of this type carry a choice list.
func (t QuestionType) HasChoices() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeCheckbox
}

// Choice is a selectable option of a multiple_choice or checkbox question.
// Value is the token stored as the answer; Text is what the respondent sees.
type Choice struct {
	ID    int    `json:"id"`
	Text  string `json:"choice_text"`
	Value string `json:"value"`
}

// Question is a single question within an assessment.
type Question struct {
	ID       int          `json:"id"`
	Text     string       `json:"question_text"`
	Type     QuestionType `json:"question_type"`
	Required bool         `json:"required"`
	Choices  []Choice     `json:"choices,omitempty"`
	Order    int          `json:"order,omitempty"`
}

// Assessment is a survey definition composed of ordered questions.
type Assessment struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitMinutes int        `json:"time_limit_minutes,omitempty"`
	Questions        []Question `json:"questions"`
	CreatedAt        time.Time  `json:"created_at,omitempty"`
}

// QuestionByID returns the question with the given id, or nil.
func (a *Assessment) QuestionByID(id int) *Question {
	for i := range a.Questions {
		if a.Questions[i].ID == id {
			return &a.Questions[i]
		}
	}
	return nil
}

// WireAnswer is the answer shape exchanged with the backend: the answer
// value flattened to a single string (checkbox sets comma-joined).
type WireAnswer struct {
	Question   int    `json:"question"`
	AnswerText string `json:"answer_text"`
}

// Submission is the final-response payload for POST /responses/.
type Submission struct {
	Assessment      int          `json:"assessment"`
	RespondentEmail string       `json:"respondent_email"`
	Answers         []WireAnswer `json:"answers"`
}

// Response is a completed submission as returned by the backend.
type Response struct {
	ID              int          `json:"id"`
	Assessment      int          `json:"assessment"`
	RespondentEmail string       `json:"respondent_email"`
	Answers         []WireAnswer `json:"answers"`
	SubmittedAt     time.Time    `json:"submitted_at,omitempty"`
}

// PartialResponse is a persisted, resumable snapshot of in-progress
// answers, keyed by (assessment, respondent email).
type PartialResponse struct {
	ID              int          `json:"id,omitempty"`
	Assessment      int          `json:"assessment"`
	RespondentEmail string       `json:"respondent_email"`
	Answers         []WireAnswer `json:"answers"`
	UpdatedAt       time.Time    `json:"updated_at,omitempty"`
}

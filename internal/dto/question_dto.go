package dto

const (
	StatusPending = "pending"
	StatusReady   = "ready"
)

// PendingMessage is returned in answer_text while generation is still running.
const PendingMessage = "Your question is being processed. Please check back shortly."

type AskRequest struct {
	QuestionText string `json:"question_text" binding:"required"`
}

// QuestionResponse is returned right after submission, before any answer exists.
type QuestionResponse struct {
	QuestionID uint   `json:"question_id"`
	Status     string `json:"status"`
	AnswerText string `json:"answer_text"`
}

type AnswerResponse struct {
	QuestionID uint   `json:"question_id"`
	Status     string `json:"status"`
	AnswerText string `json:"answer_text,omitempty"`
}

// QuestionSummary is one row of the caller's question history.
type QuestionSummary struct {
	QuestionID   uint   `json:"question_id"`
	QuestionText string `json:"question_text"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateResponse struct {
	Answer string `json:"answer"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

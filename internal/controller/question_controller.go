package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// Ask godoc
// @Summary Submit a question for asynchronous answering
// @Description Persists the question and dispatches it to the worker pool. Returns immediately with a pending status; poll GET /answer/{question_id} for the result.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.AskRequest true "Question text"
// @Success 202 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Failed to persist or dispatch the question"
// @Router /ask [post]
func (c *QuestionController) Ask(ctx *gin.Context) {
	user, ok := CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	var req dto.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.questionService.SubmitQuestion(ctx.Request.Context(), user.ID, req.QuestionText)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Ask: Service error")
		respondError(ctx, err)
		return
	}

	// 202: the answer is produced out of band.
	ctx.JSON(http.StatusAccepted, resp)
}

// GetAnswer godoc
// @Summary Poll for the answer to a question
// @Description Cache-aside read: checks the cache, falls back to the relational store, and repopulates the cache on a store hit. Reports pending while generation is still running.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid question id"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Question belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Unknown question id"
// @Router /answer/{question_id} [get]
func (c *QuestionController) GetAnswer(ctx *gin.Context) {
	user, ok := CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	questionID, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question id"})
		return
	}

	resp, err := c.questionService.GetAnswer(ctx.Request.Context(), user.ID, uint(questionID))
	if err != nil {
		log.Warn().Err(err).Uint64("questionID", questionID).Uint("userID", user.ID).Msg("GetAnswer: Service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListQuestions godoc
// @Summary List the caller's submitted questions
// @Description Returns the authenticated user's question history, newest first, with each question's current status.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuestionSummary
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	user, ok := CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	summaries, err := c.questionService.ListQuestions(ctx.Request.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("ListQuestions: Service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Quokkas/internal/apperr"
	"github.com/lshigami/Quokkas/internal/cache"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/queue"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuestionService owns the submit/poll lifecycle: persist the question,
// dispatch it for generation, and serve the cache-aside read path while the
// client polls.
type QuestionService interface {
	SubmitQuestion(ctx context.Context, userID uint, text string) (*dto.QuestionResponse, error)
	GetAnswer(ctx context.Context, userID, questionID uint) (*dto.AnswerResponse, error)
	ListQuestions(ctx context.Context, userID uint) ([]dto.QuestionSummary, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	answerCache  cache.AnswerCache
	taskQueue    queue.TaskQueue
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	answerCache cache.AnswerCache,
	taskQueue queue.TaskQueue,
) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		answerCache:  answerCache,
		taskQueue:    taskQueue,
	}
}

// SubmitQuestion persists the question and enqueues its id, returning before
// generation starts. The zero-answer state it leaves behind is the steady
// state, not an error.
func (s *questionService) SubmitQuestion(ctx context.Context, userID uint, text string) (*dto.QuestionResponse, error) {
	question := &model.Question{Text: text, UserID: userID}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to persist question: %w", err)
	}

	if err := s.taskQueue.Enqueue(ctx, question.ID); err != nil {
		// The row exists but no worker will ever pick it up; surface the failure
		// instead of leaving the client polling forever.
		log.Error().Err(err).Uint("questionID", question.ID).Msg("SubmitQuestion: Failed to dispatch task")
		return nil, fmt.Errorf("failed to dispatch question %d: %w", question.ID, err)
	}

	log.Info().Uint("questionID", question.ID).Uint("userID", userID).Msg("Question submitted and dispatched")
	return &dto.QuestionResponse{
		QuestionID: question.ID,
		Status:     dto.StatusPending,
		AnswerText: dto.PendingMessage,
	}, nil
}

// GetAnswer checks the cache first, falls back to the relational store, and
// repopulates the cache on a store hit. A question with no answer yet reports
// pending; polling is the expected client pattern.
func (s *questionService) GetAnswer(ctx context.Context, userID, questionID uint) (*dto.AnswerResponse, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", questionID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}
	if question.UserID != userID {
		return nil, fmt.Errorf("question %d belongs to another user: %w", questionID, apperr.ErrForbidden)
	}

	text, hit, err := s.answerCache.Get(ctx, questionID)
	if err != nil {
		// A broken cache degrades to store reads; it must not fail the request.
		log.Warn().Err(err).Uint("questionID", questionID).Msg("GetAnswer: Cache read failed, falling back to store")
	}
	if hit {
		return &dto.AnswerResponse{QuestionID: questionID, Status: dto.StatusReady, AnswerText: text}, nil
	}

	answer, err := s.answerRepo.FindByQuestionID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.AnswerResponse{QuestionID: questionID, Status: dto.StatusPending}, nil
		}
		return nil, fmt.Errorf("failed to load answer for question %d: %w", questionID, err)
	}

	if err := s.answerCache.Set(ctx, questionID, answer.Text); err != nil {
		log.Warn().Err(err).Uint("questionID", questionID).Msg("GetAnswer: Failed to repopulate cache")
	}
	return &dto.AnswerResponse{QuestionID: questionID, Status: dto.StatusReady, AnswerText: answer.Text}, nil
}

// ListQuestions returns the caller's submission history, newest first.
func (s *questionService) ListQuestions(ctx context.Context, userID uint) ([]dto.QuestionSummary, error) {
	questions, err := s.questionRepo.FindAllByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for user %d: %w", userID, err)
	}

	summaries := make([]dto.QuestionSummary, 0, len(questions))
	for _, q := range questions {
		status := dto.StatusPending
		answered, err := s.answerRepo.ExistsByQuestionID(q.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check answer for question %d: %w", q.ID, err)
		}
		if answered {
			status = dto.StatusReady
		}
		summaries = append(summaries, dto.QuestionSummary{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Status:       status,
			CreatedAt:    q.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return summaries, nil
}

package service

import (
	"context"
	"testing"

	"github.com/lshigami/Quokkas/internal/apperr"
	"github.com/lshigami/Quokkas/internal/cache"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/queue"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type questionFixture struct {
	svc          QuestionService
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	answerCache  *cache.MemoryCache
	taskQueue    *queue.MemoryQueue
}

func newQuestionFixture(t *testing.T) *questionFixture {
	t.Helper()
	db := newTestDB(t)
	f := &questionFixture{
		questionRepo: repository.NewQuestionRepository(db),
		answerRepo:   repository.NewAnswerRepository(db),
		answerCache:  cache.NewMemoryCache(),
		taskQueue:    queue.NewMemoryQueue(16),
	}
	f.svc = NewQuestionService(f.questionRepo, f.answerRepo, f.answerCache, f.taskQueue)
	return f
}

func TestSubmitQuestionReturnsPendingAndDispatches(t *testing.T) {
	f := newQuestionFixture(t)

	resp, err := f.svc.SubmitQuestion(context.Background(), 1, "What is 2+2?")
	require.NoError(t, err)
	assert.NotZero(t, resp.QuestionID)
	assert.Equal(t, dto.StatusPending, resp.Status)
	assert.Equal(t, dto.PendingMessage, resp.AnswerText)
	assert.Equal(t, 1, f.taskQueue.Len())

	// Immediately after submission there is no answer row: pending, not an error.
	answer, err := f.svc.GetAnswer(context.Background(), 1, resp.QuestionID)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusPending, answer.Status)
	assert.Empty(t, answer.AnswerText)
}

func TestGetAnswerStoreHitPopulatesCache(t *testing.T) {
	f := newQuestionFixture(t)

	question := &model.Question{Text: "What is 2+2?", UserID: 1}
	require.NoError(t, f.questionRepo.Create(question))
	require.NoError(t, f.answerRepo.Create(&model.Answer{QuestionID: question.ID, Text: "4"}))

	resp, err := f.svc.GetAnswer(context.Background(), 1, question.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusReady, resp.Status)
	assert.Equal(t, "4", resp.AnswerText)

	// Store hit writes through to the cache.
	text, hit, err := f.answerCache.Get(context.Background(), question.ID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "4", text)

	// Idempotence: a second read returns the same text and does not grow the cache.
	again, err := f.svc.GetAnswer(context.Background(), 1, question.ID)
	require.NoError(t, err)
	assert.Equal(t, "4", again.AnswerText)
	assert.Equal(t, 1, f.answerCache.Len())
}

func TestGetAnswerServedFromCache(t *testing.T) {
	f := newQuestionFixture(t)

	question := &model.Question{Text: "What is 2+2?", UserID: 1}
	require.NoError(t, f.questionRepo.Create(question))
	require.NoError(t, f.answerCache.Set(context.Background(), question.ID, "4"))

	// No answer row exists; the cache alone serves the read.
	resp, err := f.svc.GetAnswer(context.Background(), 1, question.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusReady, resp.Status)
	assert.Equal(t, "4", resp.AnswerText)
}

func TestGetAnswerForbiddenForOtherUsers(t *testing.T) {
	f := newQuestionFixture(t)

	question := &model.Question{Text: "mine", UserID: 1}
	require.NoError(t, f.questionRepo.Create(question))

	_, err := f.svc.GetAnswer(context.Background(), 2, question.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestListQuestionsReportsPerQuestionStatus(t *testing.T) {
	f := newQuestionFixture(t)

	answered := &model.Question{Text: "answered", UserID: 1}
	require.NoError(t, f.questionRepo.Create(answered))
	require.NoError(t, f.answerRepo.Create(&model.Answer{QuestionID: answered.ID, Text: "yes"}))

	open := &model.Question{Text: "open", UserID: 1}
	require.NoError(t, f.questionRepo.Create(open))

	foreign := &model.Question{Text: "foreign", UserID: 2}
	require.NoError(t, f.questionRepo.Create(foreign))

	history, err := f.svc.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 2)

	byText := map[string]dto.QuestionSummary{}
	for _, item := range history {
		byText[item.QuestionText] = item
	}
	assert.Equal(t, dto.StatusReady, byText["answered"].Status)
	assert.Equal(t, dto.StatusPending, byText["open"].Status)
}

func TestGetAnswerUnknownQuestion(t *testing.T) {
	f := newQuestionFixture(t)

	_, err := f.svc.GetAnswer(context.Background(), 1, 424242)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

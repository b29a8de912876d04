package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/cache"
	"github.com/lshigami/Quokkas/internal/llm"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/queue"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Status string

const (
	// StatusDone: answer generated, persisted and cached.
	StatusDone Status = "done"
	// StatusSkipped: an answer already existed, the duplicate delivery was dropped.
	StatusSkipped Status = "skipped"
	// StatusFailed: the question is missing, generation failed, or persistence
	// failed. The question stays pending from the client's point of view.
	StatusFailed Status = "failed"
)

// Result is the typed outcome of one task, handed to the observer so that a
// monitoring collaborator can watch failures instead of grepping logs.
type Result struct {
	QuestionID uint
	Status     Status
	Err        error
}

// Pool consumes question ids from the task queue and runs the
// fetch → generate → persist → cache sequence for each. Failures never stop
// the pool; the affected question simply remains answer-less.
type Pool struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	answerCache  cache.AnswerCache
	taskQueue    queue.TaskQueue
	generator    llm.Generator
	concurrency  int
	genTimeout   time.Duration

	mu       sync.Mutex
	observer func(Result)
	wg       sync.WaitGroup
}

func NewPool(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	answerCache cache.AnswerCache,
	taskQueue queue.TaskQueue,
	generator llm.Generator,
	cfg *config.Config,
) *Pool {
	concurrency := cfg.Worker.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pool{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		answerCache:  answerCache,
		taskQueue:    taskQueue,
		generator:    generator,
		concurrency:  concurrency,
		genTimeout:   time.Duration(cfg.Generator.TimeoutSeconds) * time.Second,
	}
}

// SetObserver registers a callback invoked with every task result.
func (p *Pool) SetObserver(fn func(Result)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = fn
}

func (p *Pool) observe(res Result) {
	p.mu.Lock()
	fn := p.observer
	p.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

// Start launches the executor goroutines. They run until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	log.Info().Int("concurrency", p.concurrency).Msg("Worker pool starting")
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

// Wait blocks until all executors have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		questionID, err := p.taskQueue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("Worker: Dequeue failed, backing off")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		res := p.Process(ctx, questionID)
		p.observe(res)

		switch res.Status {
		case StatusDone:
			log.Info().Uint("questionID", res.QuestionID).Msg("Worker: Question answered")
		case StatusSkipped:
			log.Info().Uint("questionID", res.QuestionID).Msg("Worker: Duplicate delivery skipped")
		case StatusFailed:
			log.Error().Err(res.Err).Uint("questionID", res.QuestionID).Msg("Worker: Task failed, question stays pending")
		}
	}
}

// Process runs the full lifecycle for one question id. The store write is
// authoritative; the cache write comes after it and is best-effort, so a crash
// between the two self-heals on the next read.
func (p *Pool) Process(ctx context.Context, questionID uint) Result {
	question, err := p.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Permanently invalid id, nothing to retry.
			return Result{QuestionID: questionID, Status: StatusFailed, Err: fmt.Errorf("question %d not found", questionID)}
		}
		return Result{QuestionID: questionID, Status: StatusFailed, Err: fmt.Errorf("failed to load question %d: %w", questionID, err)}
	}

	// At-least-once delivery: the question id is the natural dedup key.
	exists, err := p.answerRepo.ExistsByQuestionID(questionID)
	if err != nil {
		return Result{QuestionID: questionID, Status: StatusFailed, Err: fmt.Errorf("failed to check for existing answer: %w", err)}
	}
	if exists {
		return Result{QuestionID: questionID, Status: StatusSkipped}
	}

	genCtx, cancel := context.WithTimeout(ctx, p.genTimeout)
	defer cancel()
	text, err := p.generator.Generate(genCtx, question.Text)
	if err != nil {
		return Result{QuestionID: questionID, Status: StatusFailed, Err: fmt.Errorf("generation failed: %w", err)}
	}

	answer := &model.Answer{QuestionID: questionID, Text: text}
	if err := p.answerRepo.Create(answer); err != nil {
		return Result{QuestionID: questionID, Status: StatusFailed, Err: fmt.Errorf("failed to persist answer: %w", err)}
	}

	if err := p.answerCache.Set(ctx, questionID, text); err != nil {
		// Store is written; the next GetAnswer repopulates the cache.
		log.Warn().Err(err).Uint("questionID", questionID).Msg("Worker: Cache write failed after persist")
	}

	return Result{QuestionID: questionID, Status: StatusDone}
}

package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/cache"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/queue"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/lshigami/Quokkas/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiFixture struct {
	router     *gin.Engine
	answerRepo repository.AnswerRepository
	taskQueue  *queue.MemoryQueue
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Question{}, &model.Answer{}))

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLMinutes = 30

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	answerCache := cache.NewMemoryCache()
	taskQueue := queue.NewMemoryQueue(16)

	authService := service.NewAuthService(userRepo, cfg)
	questionService := service.NewQuestionService(questionRepo, answerRepo, answerCache, taskQueue)

	authCtrl := NewAuthController(authService)
	questionCtrl := NewQuestionController(questionService)

	router := gin.New()
	router.Use(RequestID())
	api := router.Group("/api")
	api.POST("/register", authCtrl.Register)
	api.POST("/login", authCtrl.Login)
	authed := api.Group("")
	authed.Use(RequireAuth(authService))
	authed.POST("/ask", questionCtrl.Ask)
	authed.GET("/answer/:question_id", questionCtrl.GetAnswer)
	authed.GET("/questions", questionCtrl.ListQuestions)

	return &apiFixture{router: router, answerRepo: answerRepo, taskQueue: taskQueue}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{Username: username, Password: password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.Equal(t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{Username: "alice", Password: "password1"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{Username: "alice", Password: "password2"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginWrongPasswordReturnsUnauthorized(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{Username: "bob", Password: "password1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "bob", Password: "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAskRequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/ask", "", dto.AskRequest{QuestionText: "What is 2+2?"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/ask", "garbage-token", dto.AskRequest{QuestionText: "What is 2+2?"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAskThenPollLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "carol", "password1")

	rec := f.do(t, http.MethodPost, "/api/ask", token, dto.AskRequest{QuestionText: "What is 2+2?"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var submitted dto.QuestionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.NotZero(t, submitted.QuestionID)
	assert.Equal(t, dto.StatusPending, submitted.Status)
	assert.Equal(t, 1, f.taskQueue.Len())

	// Polling before the worker has run reports pending.
	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/answer/%d", submitted.QuestionID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending dto.AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Equal(t, dto.StatusPending, pending.Status)

	// Simulate the worker persisting the generated answer.
	require.NoError(t, f.answerRepo.Create(&model.Answer{QuestionID: submitted.QuestionID, Text: "4"}))

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/answer/%d", submitted.QuestionID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ready dto.AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, dto.StatusReady, ready.Status)
	assert.Equal(t, "4", ready.AnswerText)
}

func TestAnswerOfAnotherUserIsForbidden(t *testing.T) {
	f := newAPIFixture(t)
	ownerToken := f.registerAndLogin(t, "dave", "password1")
	otherToken := f.registerAndLogin(t, "eve", "password1")

	rec := f.do(t, http.MethodPost, "/api/ask", ownerToken, dto.AskRequest{QuestionText: "my secret question"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var submitted dto.QuestionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/answer/%d", submitted.QuestionID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAnswerUnknownQuestionReturnsNotFound(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "frank", "password1")

	rec := f.do(t, http.MethodGet, "/api/answer/424242", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListQuestionsReturnsOwnHistory(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "heidi", "password1")
	otherToken := f.registerAndLogin(t, "ivan", "password1")

	rec := f.do(t, http.MethodPost, "/api/ask", token, dto.AskRequest{QuestionText: "first"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var first dto.QuestionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = f.do(t, http.MethodPost, "/api/ask", token, dto.AskRequest{QuestionText: "second"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/ask", otherToken, dto.AskRequest{QuestionText: "not yours"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.NoError(t, f.answerRepo.Create(&model.Answer{QuestionID: first.QuestionID, Text: "done"}))

	rec = f.do(t, http.MethodGet, "/api/questions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []dto.QuestionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)

	byText := map[string]dto.QuestionSummary{}
	for _, item := range history {
		byText[item.QuestionText] = item
	}
	assert.Equal(t, dto.StatusReady, byText["first"].Status)
	assert.Equal(t, dto.StatusPending, byText["second"].Status)
	assert.NotContains(t, byText, "not yours")
}

func TestResponsesCarryRequestID(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{Username: "grace", Password: "password1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	httpHandler "github.com/Aathi-pr/collaborative-code-editor/internal/handler/http"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository/mocks"
	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
)

type saveCodeTestEnv struct {
	router      *gin.Engine
	roomRepo    *mocks.RoomRepository
	sessionRepo *mocks.SessionRepository
	codeRepo    *mocks.CodeRepository
}

func newSaveCodeEnv(t *testing.T) *saveCodeTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	roomRepo := new(mocks.RoomRepository)
	sessionRepo := new(mocks.SessionRepository)
	codeRepo := new(mocks.CodeRepository)
	fileRepo := new(mocks.FileRepository)
	chatRepo := new(mocks.ChatRepository)
	presenceRepo := new(mocks.PresenceRepository)

	roomService := service.NewRoomService(roomRepo, sessionRepo, codeRepo, presenceRepo)
	registry := service.NewSessionService(roomRepo, sessionRepo, codeRepo, fileRepo, chatRepo, presenceRepo)
	handler := httpHandler.NewCodeHandler(roomService, registry)

	router := gin.New()
	// 模拟 Auth 中间件的效果
	router.POST("/api/rooms/:roomID/code", func(c *gin.Context) {
		c.Set("user_id", uint(9))
	}, handler.SaveCode)

	return &saveCodeTestEnv{router: router, roomRepo: roomRepo, sessionRepo: sessionRepo, codeRepo: codeRepo}
}

func (env *saveCodeTestEnv) post(roomID, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+roomID+"/code", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func TestSaveCode_Success(t *testing.T) {
	env := newSaveCodeEnv(t)
	env.roomRepo.On("FindByRoomID", mock.Anything, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 9}, nil)
	env.codeRepo.On("Append", mock.Anything, mock.MatchedBy(func(s *domain.CodeSnapshot) bool {
		assert.Equal(t, "print('hi')", s.CodeContent)
		assert.Equal(t, uint(9), s.CreatedBy)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.CodeSnapshot).Version = 3
		}).
		Return(nil).
		Once()
	env.roomRepo.On("TouchLastActive", mock.Anything, uint(1)).Return(nil)

	w := env.post("abcd1234", `{"code":"print('hi')","language":"python"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":3`)
	assert.Contains(t, w.Body.String(), `"language":"python"`)
	env.codeRepo.AssertExpectations(t)
}

func TestSaveCode_DefaultsLanguage(t *testing.T) {
	env := newSaveCodeEnv(t)
	env.roomRepo.On("FindByRoomID", mock.Anything, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 9}, nil)
	env.codeRepo.On("Append", mock.Anything, mock.MatchedBy(func(s *domain.CodeSnapshot) bool {
		return s.Language == "python"
	})).Return(nil).Once()
	env.roomRepo.On("TouchLastActive", mock.Anything, uint(1)).Return(nil)

	w := env.post("abcd1234", `{"code":"print('hi')"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"language":"python"`)
}

func TestSaveCode_MissingCode(t *testing.T) {
	env := newSaveCodeEnv(t)

	w := env.post("abcd1234", `{"language":"python"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.codeRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSaveCode_NonMemberForbidden(t *testing.T) {
	env := newSaveCodeEnv(t)
	env.roomRepo.On("FindByRoomID", mock.Anything, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil)
	env.sessionRepo.On("Find", mock.Anything, uint(9), uint(1)).
		Return(nil, repository.ErrSessionNotFound)

	w := env.post("abcd1234", `{"code":"x"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env.codeRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

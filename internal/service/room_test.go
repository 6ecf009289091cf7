package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository/mocks"
	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
)

func newRoomService(t *testing.T) (*service.RoomService, *mocks.RoomRepository, *mocks.SessionRepository, *mocks.CodeRepository, *mocks.PresenceRepository) {
	t.Helper()
	roomRepo := new(mocks.RoomRepository)
	sessionRepo := new(mocks.SessionRepository)
	codeRepo := new(mocks.CodeRepository)
	presenceRepo := new(mocks.PresenceRepository)
	svc := service.NewRoomService(roomRepo, sessionRepo, codeRepo, presenceRepo)
	return svc, roomRepo, sessionRepo, codeRepo, presenceRepo
}

// --- 测试 CreateRoom ---

func TestRoomService_CreateRoom_Success(t *testing.T) {
	svc, roomRepo, sessionRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("Save", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		assert.Len(t, room.RoomID, 8, "房间标识应为 8 位")
		assert.Equal(t, uint(42), room.CreatorID)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 1
		}).
		Return(nil).
		Once()
	// 创建者被登记为第一个参与者
	sessionRepo.On("Upsert", ctx, uint(42), uint(1)).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, 42, "pair programming", true)

	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, uint(1), room.ID)
	assert.True(t, room.IsPublic)
	roomRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_RetriesOnDuplicateRoomID(t *testing.T) {
	svc, roomRepo, sessionRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	// 第一次保存撞上唯一约束，第二次换新标识后成功
	roomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).
		Return(repository.ErrDuplicateEntry).
		Once()
	roomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 2
		}).
		Return(nil).
		Once()
	sessionRepo.On("Upsert", ctx, uint(7), uint(2)).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, 7, "", true)

	require.NoError(t, err)
	assert.Equal(t, uint(2), room.ID)
	roomRepo.AssertExpectations(t)
}

// --- 测试 Authorize ---

func TestRoomService_Authorize_Creator(t *testing.T) {
	svc, roomRepo, sessionRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil).
		Once()

	room, err := svc.Authorize(ctx, "abcd1234", 42)

	require.NoError(t, err)
	assert.Equal(t, uint(1), room.ID)
	// 创建者不需要参与记录即可访问
	sessionRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomService_Authorize_MemberViaSession(t *testing.T) {
	svc, roomRepo, sessionRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil).
		Once()
	// 曾经加入过的参与记录 (即使失活) 仍授予访问权限
	sessionRepo.On("Find", ctx, uint(9), uint(1)).
		Return(&domain.UserSession{UserID: 9, RoomID: 1, IsActive: false}, nil).
		Once()

	room, err := svc.Authorize(ctx, "abcd1234", 9)

	require.NoError(t, err)
	assert.NotNil(t, room)
}

func TestRoomService_Authorize_Denied(t *testing.T) {
	svc, roomRepo, sessionRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil).
		Once()
	sessionRepo.On("Find", ctx, uint(9), uint(1)).
		Return(nil, repository.ErrSessionNotFound).
		Once()

	_, err := svc.Authorize(ctx, "abcd1234", 9)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAccessDenied))
}

func TestRoomService_Authorize_RoomNotFound(t *testing.T) {
	svc, roomRepo, _, _, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "missing1").
		Return(nil, repository.ErrRoomNotFound).
		Once()

	_, err := svc.Authorize(ctx, "missing1", 9)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRoomNotFound))
}

// --- 测试 DeleteRoom ---

func TestRoomService_DeleteRoom_CreatorOnly(t *testing.T) {
	svc, roomRepo, _, _, presenceRepo := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil).
		Once()

	err := svc.DeleteRoom(ctx, "abcd1234", 9)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAccessDenied))
	roomRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	presenceRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestRoomService_DeleteRoom_Success(t *testing.T) {
	svc, roomRepo, _, _, presenceRepo := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil).
		Once()
	roomRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	presenceRepo.On("Clear", ctx, "abcd1234").Return(nil).Once()

	err := svc.DeleteRoom(ctx, "abcd1234", 42)

	require.NoError(t, err)
	roomRepo.AssertExpectations(t)
	presenceRepo.AssertExpectations(t)
}

func TestRoomService_DeleteRoom_PresenceClearFailureIsNotFatal(t *testing.T) {
	svc, roomRepo, _, _, presenceRepo := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil).
		Once()
	roomRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	presenceRepo.On("Clear", ctx, "abcd1234").Return(errors.New("redis down")).Once()

	err := svc.DeleteRoom(ctx, "abcd1234", 42)

	assert.NoError(t, err, "在线状态清理失败不应影响删除结果")
}

// --- 测试 GetRoomDetail ---

func TestRoomService_GetRoomDetail(t *testing.T) {
	svc, roomRepo, sessionRepo, codeRepo, _ := newRoomService(t)
	ctx := context.Background()

	roomRepo.On("FindByRoomID", ctx, "abcd1234").
		Return(&domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}, nil).
		Once()
	sessionRepo.On("ListByRoom", ctx, uint(1)).
		Return([]domain.UserSession{{UserID: 42, RoomID: 1, IsActive: true}}, nil).
		Once()
	codeRepo.On("ListByRoom", ctx, uint(1)).
		Return([]domain.CodeSnapshot{{RoomID: 1, Version: 1}}, nil).
		Once()

	detail, err := svc.GetRoomDetail(ctx, "abcd1234", 42)

	require.NoError(t, err)
	assert.Len(t, detail.Participants, 1)
	assert.Len(t, detail.Snapshots, 1)
}

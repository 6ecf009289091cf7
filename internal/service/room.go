package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
)

// RoomService 负责房间生命周期管理 (创建/删除/详情) 以及房间访问授权。
type RoomService struct {
	roomRepo     repository.RoomRepository
	sessionRepo  repository.SessionRepository
	codeRepo     repository.CodeRepository
	presenceRepo repository.PresenceRepository
}

// NewRoomService 创建 RoomService 实例。
func NewRoomService(
	roomRepo repository.RoomRepository,
	sessionRepo repository.SessionRepository,
	codeRepo repository.CodeRepository,
	presenceRepo repository.PresenceRepository,
) *RoomService {
	if roomRepo == nil || sessionRepo == nil || codeRepo == nil || presenceRepo == nil {
		panic("all repositories must be non-nil for RoomService")
	}
	return &RoomService{
		roomRepo:     roomRepo,
		sessionRepo:  sessionRepo,
		codeRepo:     codeRepo,
		presenceRepo: presenceRepo,
	}
}

// CreateRoom 创建一个新房间，并把创建者登记为第一个参与者。
// 房间标识取 UUID 的前 8 位，与邀请链接中使用的形式一致。
func (s *RoomService) CreateRoom(ctx context.Context, creatorID uint, description string, isPublic bool) (*domain.Room, error) {
	logCtx := logrus.WithField("creator_id", creatorID)

	room := &domain.Room{
		RoomID:      uuid.NewString()[:8],
		CreatorID:   creatorID,
		Description: description,
		IsPublic:    isPublic,
		LastActive:  time.Now().UTC(),
	}

	err := s.roomRepo.Save(ctx, room)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// 8 位前缀撞车的概率很低，但撞上了就重试一次
			room.RoomID = uuid.NewString()[:8]
			err = s.roomRepo.Save(ctx, room)
		}
		if err != nil {
			logCtx.WithError(err).Error("Failed to save new room")
			return nil, ErrInternalServer
		}
	}

	if err := s.sessionRepo.Upsert(ctx, creatorID, room.ID); err != nil {
		logCtx.WithError(err).Error("Failed to create creator session for new room")
		return nil, ErrInternalServer
	}

	logCtx.WithField("room_id", room.RoomID).Info("Room created")
	return room, nil
}

// Authorize 解析房间并检查用户的访问权限。
// 允许访问的条件：用户是房间创建者，或者已经有该房间的参与记录
// (曾经加入过即可，失活不收回权限)。
func (s *RoomService) Authorize(ctx context.Context, roomID string, userID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to look up room for authorization")
		return nil, ErrInternalServer
	}

	if room.CreatorID == userID {
		return room, nil
	}

	_, err = s.sessionRepo.Find(ctx, userID, room.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrAccessDenied
		}
		logrus.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			Error("Failed to look up session for authorization")
		return nil, ErrInternalServer
	}
	return room, nil
}

// RoomDetail 聚合了房间详情视图需要的数据。
type RoomDetail struct {
	Room         *domain.Room          `json:"room"`
	Participants []domain.UserSession  `json:"participants"`
	Snapshots    []domain.CodeSnapshot `json:"snapshots"`
}

// GetRoomDetail 返回房间详情，仅成员可见。
func (s *RoomService) GetRoomDetail(ctx context.Context, roomID string, requesterID uint) (*RoomDetail, error) {
	room, err := s.Authorize(ctx, roomID, requesterID)
	if err != nil {
		return nil, err
	}

	participants, err := s.sessionRepo.ListByRoom(ctx, room.ID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to list participants")
		return nil, ErrInternalServer
	}
	snapshots, err := s.codeRepo.ListByRoom(ctx, room.ID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to list code snapshots")
		return nil, ErrInternalServer
	}

	return &RoomDetail{Room: room, Participants: participants, Snapshots: snapshots}, nil
}

// DeleteRoom 删除房间。仅创建者可以删除；级联移除房间的全部关联数据。
func (s *RoomService) DeleteRoom(ctx context.Context, roomID string, requesterID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "requester_id": requesterID})

	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to look up room for deletion")
		return ErrInternalServer
	}

	if room.CreatorID != requesterID {
		logCtx.Warn("Room deletion denied: requester is not the creator")
		return ErrAccessDenied
	}

	if err := s.roomRepo.Delete(ctx, room.ID); err != nil {
		logCtx.WithError(err).Error("Failed to delete room")
		return ErrInternalServer
	}

	// 在线状态清理失败不影响删除结果，key 自身会过期
	if err := s.presenceRepo.Clear(ctx, roomID); err != nil {
		logCtx.WithError(err).Warn("Failed to clear presence state for deleted room")
	}

	logCtx.Info("Room deleted")
	return nil
}

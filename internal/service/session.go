package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
)

// ActiveWindow 定义"活跃参与者"的滑动窗口：最后活动在 5 分钟以内算活跃。
const ActiveWindow = 5 * time.Minute

// DefaultLanguage 是房间还没有任何代码快照时的默认语言。
const DefaultLanguage = "python"

// SessionService 是房间实时状态的读写门面 (Room Registry)：
// Hub 和 HTTP 层对参与记录、代码快照、文件、聊天的所有操作都经过它。
// 每个操作都以房间为作用域，单次仓库调用具有行级原子性。
type SessionService struct {
	roomRepo     repository.RoomRepository
	sessionRepo  repository.SessionRepository
	codeRepo     repository.CodeRepository
	fileRepo     repository.FileRepository
	chatRepo     repository.ChatRepository
	presenceRepo repository.PresenceRepository
}

// NewSessionService 创建 SessionService 实例。
func NewSessionService(
	roomRepo repository.RoomRepository,
	sessionRepo repository.SessionRepository,
	codeRepo repository.CodeRepository,
	fileRepo repository.FileRepository,
	chatRepo repository.ChatRepository,
	presenceRepo repository.PresenceRepository,
) *SessionService {
	if roomRepo == nil || sessionRepo == nil || codeRepo == nil ||
		fileRepo == nil || chatRepo == nil || presenceRepo == nil {
		panic("all repositories must be non-nil for SessionService")
	}
	return &SessionService{
		roomRepo:     roomRepo,
		sessionRepo:  sessionRepo,
		codeRepo:     codeRepo,
		fileRepo:     fileRepo,
		chatRepo:     chatRepo,
		presenceRepo: presenceRepo,
	}
}

// Join 把用户登记为房间的活跃参与者：首次加入创建参与记录，
// 重连时重新激活，同时刷新房间活跃时间和在线状态。
func (s *SessionService) Join(ctx context.Context, room *domain.Room, userID uint) error {
	if err := s.sessionRepo.Upsert(ctx, userID, room.ID); err != nil {
		return err
	}
	if err := s.roomRepo.TouchLastActive(ctx, room.ID); err != nil {
		logrus.WithError(err).WithField("room_id", room.RoomID).Warn("Failed to touch room last_active on join")
	}
	if err := s.presenceRepo.Touch(ctx, room.RoomID, userID, time.Now().UTC()); err != nil {
		logrus.WithError(err).WithField("room_id", room.RoomID).Warn("Failed to touch presence on join")
	}
	return nil
}

// Leave 把参与记录标记为不活跃。记录保留，权限不收回。
func (s *SessionService) Leave(ctx context.Context, room *domain.Room, userID uint) error {
	return s.sessionRepo.Deactivate(ctx, userID, room.ID)
}

// TouchActivity 刷新用户在房间内的最后活动时间 (DB 行 + Redis 在线状态)。
func (s *SessionService) TouchActivity(ctx context.Context, room *domain.Room, userID uint) error {
	if err := s.sessionRepo.Touch(ctx, userID, room.ID); err != nil {
		return err
	}
	if err := s.presenceRepo.Touch(ctx, room.RoomID, userID, time.Now().UTC()); err != nil {
		logrus.WithError(err).WithField("room_id", room.RoomID).Warn("Failed to touch presence")
	}
	return nil
}

// ActiveCount 返回房间当前的活跃参与者数量。
// 优先走 Redis 在线状态；Redis 不可用时回退到 DB 的 last_activity 列。
func (s *SessionService) ActiveCount(ctx context.Context, room *domain.Room) (int64, error) {
	count, err := s.presenceRepo.ActiveCount(ctx, room.RoomID, ActiveWindow)
	if err == nil {
		return count, nil
	}
	logrus.WithError(err).WithField("room_id", room.RoomID).Warn("Presence count via Redis failed, falling back to DB")
	return s.sessionRepo.CountActive(ctx, room.ID, ActiveWindow)
}

// SaveCode 持久化一个新的代码快照并返回它。版本号由仓库层分配 (最大版本 + 1)。
func (s *SessionService) SaveCode(ctx context.Context, room *domain.Room, userID uint, code, language string) (*domain.CodeSnapshot, error) {
	if language == "" {
		language = DefaultLanguage
	}
	snapshot := &domain.CodeSnapshot{
		RoomID:      room.ID,
		CreatedBy:   userID,
		CodeContent: code,
		Language:    language,
	}
	if err := s.codeRepo.Append(ctx, snapshot); err != nil {
		if !errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, err
		}
		// 两个并发保存抢到了同一个版本号：重试一次，版本在仓库事务内重新分配
		snapshot.ID = 0
		snapshot.Version = 0
		if err := s.codeRepo.Append(ctx, snapshot); err != nil {
			return nil, err
		}
	}
	if err := s.roomRepo.TouchLastActive(ctx, room.ID); err != nil {
		logrus.WithError(err).WithField("room_id", room.RoomID).Warn("Failed to touch room last_active on code save")
	}
	return snapshot, nil
}

// LatestCode 返回房间当前的代码和语言。
// 还没有任何快照时返回空代码和默认语言，这不是错误。
func (s *SessionService) LatestCode(ctx context.Context, room *domain.Room) (code, language string, err error) {
	snapshot, err := s.codeRepo.Latest(ctx, room.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", DefaultLanguage, nil
		}
		return "", "", err
	}
	return snapshot.CodeContent, snapshot.Language, nil
}

// RecordExecutionResult 把执行结果回填到房间的最新快照。
// 房间还没有快照时静默跳过 (执行先于第一次保存是合法的)。
func (s *SessionService) RecordExecutionResult(ctx context.Context, room *domain.Room, result string) error {
	err := s.codeRepo.AttachExecutionResult(ctx, room.ID, result)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// UpsertFile 按文件名创建或更新房间内的文件。
func (s *SessionService) UpsertFile(ctx context.Context, room *domain.Room, userID uint, filename, content string) error {
	if filename == "" {
		return ErrValidation
	}
	entry := &domain.FileEntry{
		RoomID:    room.ID,
		Filename:  filename,
		Content:   content,
		CreatedBy: userID,
	}
	return s.fileRepo.Upsert(ctx, entry)
}

// DeleteFile 删除房间内的文件。
func (s *SessionService) DeleteFile(ctx context.Context, room *domain.Room, filename string) error {
	if filename == "" {
		return ErrValidation
	}
	return s.fileRepo.Delete(ctx, room.ID, filename)
}

// RenameFile 原地重命名房间内的文件。
func (s *SessionService) RenameFile(ctx context.Context, room *domain.Room, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return ErrValidation
	}
	return s.fileRepo.Rename(ctx, room.ID, oldName, newName)
}

// ListFiles 返回房间的文件名到内容的映射。
func (s *SessionService) ListFiles(ctx context.Context, room *domain.Room) (map[string]string, error) {
	entries, err := s.fileRepo.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		files[entry.Filename] = entry.Content
	}
	return files, nil
}

// AppendChat 持久化一条聊天消息。消息在去除首尾空白后不能为空。
func (s *SessionService) AppendChat(ctx context.Context, room *domain.Room, userID uint, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrValidation
	}
	msg := &domain.ChatMessage{
		RoomID:    room.ID,
		UserID:    userID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	return s.chatRepo.Append(ctx, msg)
}

// RecentChat 返回房间最近的聊天历史，从新到旧。
func (s *SessionService) RecentChat(ctx context.Context, room *domain.Room, limit int) ([]repository.ChatHistoryEntry, error) {
	return s.chatRepo.Recent(ctx, room.ID, limit)
}

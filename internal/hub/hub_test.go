package hub

import (
	"encoding/json"
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

type hubMocks struct {
	roomRepo     *mocks.RoomRepository
	sessionRepo  *mocks.SessionRepository
	codeRepo     *mocks.CodeRepository
	fileRepo     *mocks.FileRepository
	chatRepo     *mocks.ChatRepository
	presenceRepo *mocks.PresenceRepository
}

func newTestHub(t *testing.T) (*Hub, *hubMocks) {
	t.Helper()
	m := &hubMocks{
		roomRepo:     new(mocks.RoomRepository),
		sessionRepo:  new(mocks.SessionRepository),
		codeRepo:     new(mocks.CodeRepository),
		fileRepo:     new(mocks.FileRepository),
		chatRepo:     new(mocks.ChatRepository),
		presenceRepo: new(mocks.PresenceRepository),
	}
	registry := service.NewSessionService(m.roomRepo, m.sessionRepo, m.codeRepo, m.fileRepo, m.chatRepo, m.presenceRepo)
	return NewHub(registry), m
}

func hubTestRoom() *domain.Room {
	return &domain.Room{ID: 1, RoomID: "abcd1234", CreatorID: 42}
}

// addClient 直接把客户端放进房间集合，绕过 register 的持久化副作用。
func addClient(h *Hub, room *domain.Room, userID uint, username string) *Client {
	client := NewClient(h, nil, room, userID, username)
	if _, ok := h.rooms[room.RoomID]; !ok {
		h.rooms[room.RoomID] = make(map[*Client]bool)
	}
	h.rooms[room.RoomID][client] = true
	return client
}

// receive 非阻塞地取出发给客户端的下一条消息并解析。
func receive(t *testing.T, client *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-client.send:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	default:
		t.Fatal("expected a message for client, got none")
		return nil
	}
}

func assertNoMessage(t *testing.T, client *Client) {
	t.Helper()
	select {
	case raw := <-client.send:
		t.Fatalf("expected no message for client, got: %s", raw)
	default:
	}
}

// --- code_update ---

func TestHub_CodeUpdate_BroadcastsToAllIncludingSender(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")
	other := addClient(h, room, 10, "bob")

	m.codeRepo.On("Append", mock.Anything, mock.MatchedBy(func(s *domain.CodeSnapshot) bool {
		return s.RoomID == 1 && s.CreatedBy == 9 && s.CodeContent == "print('hi')"
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.CodeSnapshot).Version = 2
		}).
		Return(nil).
		Once()
	m.roomRepo.On("TouchLastActive", mock.Anything, uint(1)).Return(nil).Maybe()

	raw := []byte(`{"type":"code_update","code":"print('hi')","language":"python"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	// 发送者自己也收到广播
	senderMsg := receive(t, sender)
	assert.Equal(t, "code_update", senderMsg["type"])
	assert.Equal(t, "print('hi')", senderMsg["code"])
	assert.Equal(t, "alice", senderMsg["user"])
	assert.NotEmpty(t, senderMsg["timestamp"])

	otherMsg := receive(t, other)
	assert.Equal(t, "code_update", otherMsg["type"])
	assert.Equal(t, "python", otherMsg["language"])

	m.codeRepo.AssertExpectations(t)
}

func TestHub_CodeUpdate_PersistFailureRepliesOnlyToSender(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")
	other := addClient(h, room, 10, "bob")

	m.codeRepo.On("Append", mock.Anything, mock.AnythingOfType("*domain.CodeSnapshot")).
		Return(errors.New("db down")).
		Once()

	raw := []byte(`{"type":"code_update","code":"x","language":"python"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	// 持久化失败：错误只回给发送者，不广播未落盘的状态
	errMsg := receive(t, sender)
	assert.Equal(t, "error", errMsg["type"])
	assert.Equal(t, "Failed to update code", errMsg["message"])
	assertNoMessage(t, other)
}

// --- chat_message ---

func TestHub_ChatMessage_BlankIsSilentlyIgnored(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")
	other := addClient(h, room, 10, "bob")

	raw := []byte(`{"type":"chat_message","message":"   "}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	// 空白消息：不持久化、不广播、也不回错误
	assertNoMessage(t, sender)
	assertNoMessage(t, other)
	m.chatRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestHub_ChatMessage_PersistsBeforeBroadcast(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")
	other := addClient(h, room, 10, "bob")

	m.chatRepo.On("Append", mock.Anything, mock.MatchedBy(func(msg *domain.ChatMessage) bool {
		return msg.RoomID == 1 && msg.UserID == 9 && msg.Message == "hello"
	})).Return(nil).Once()

	raw := []byte(`{"type":"chat_message","message":"hello"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	senderMsg := receive(t, sender)
	assert.Equal(t, "chat_message", senderMsg["type"])
	assert.Equal(t, "hello", senderMsg["message"])
	assert.Equal(t, "alice", senderMsg["user"])

	otherMsg := receive(t, other)
	assert.Equal(t, "hello", otherMsg["message"])
	m.chatRepo.AssertExpectations(t)
}

// --- file_update ---

func TestHub_FileUpdate_RenameRequiresNewFilename(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")
	other := addClient(h, room, 10, "bob")

	raw := []byte(`{"type":"file_update","action":"rename","filename":"old.py"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	errMsg := receive(t, sender)
	assert.Equal(t, "error", errMsg["type"])
	assert.Equal(t, "New filename is required for rename", errMsg["message"])
	assertNoMessage(t, other)
	m.fileRepo.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHub_FileUpdate_MissingFilename(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")

	raw := []byte(`{"type":"file_update","action":"create","content":"x"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	errMsg := receive(t, sender)
	assert.Equal(t, "error", errMsg["type"])
	assert.Equal(t, "Filename is required", errMsg["message"])
	m.fileRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestHub_FileUpdate_DeleteMissingFileRepliesError(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")
	other := addClient(h, room, 10, "bob")

	m.fileRepo.On("Delete", mock.Anything, uint(1), "ghost.py").
		Return(repository.ErrFileNotFound).Once()

	raw := []byte(`{"type":"file_update","action":"delete","filename":"ghost.py"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	errMsg := receive(t, sender)
	assert.Equal(t, "error", errMsg["type"])
	assertNoMessage(t, other)
}

func TestHub_FileUpdate_CreateBroadcasts(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")
	other := addClient(h, room, 10, "bob")

	m.fileRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(entry *domain.FileEntry) bool {
		return entry.RoomID == 1 && entry.Filename == "util.py" && entry.Content == "pass" && entry.CreatedBy == 9
	})).Return(nil).Once()

	raw := []byte(`{"type":"file_update","action":"create","filename":"util.py","content":"pass"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	msg := receive(t, other)
	assert.Equal(t, "file_update", msg["type"])
	assert.Equal(t, "create", msg["action"])
	assert.Equal(t, "util.py", msg["filename"])
	assert.Equal(t, "alice", msg["user"])
	receive(t, sender) // 发送者同样收到
	m.fileRepo.AssertExpectations(t)
}

// --- request_latest / 初始状态 ---

func TestHub_RequestLatest_SendsRoomState(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")

	m.codeRepo.On("Latest", mock.Anything, uint(1)).
		Return(&domain.CodeSnapshot{RoomID: 1, CodeContent: "print('hi')", Language: "python", Version: 3}, nil).
		Once()
	m.fileRepo.On("ListByRoom", mock.Anything, uint(1)).
		Return([]domain.FileEntry{{Filename: "main.py", Content: "print('hi')"}}, nil).
		Once()

	raw := []byte(`{"type":"request_latest"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	msg := receive(t, sender)
	assert.Equal(t, "room_state", msg["type"])
	assert.Equal(t, "print('hi')", msg["code"])
	assert.Equal(t, "python", msg["language"])
}

func TestHub_InitialState_EmptyRoomDefaults(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	client := addClient(h, room, 9, "alice")

	m.codeRepo.On("Latest", mock.Anything, uint(1)).Return(nil, repository.ErrNotFound).Once()
	m.chatRepo.On("Recent", mock.Anything, uint(1), chatHistoryLimit).
		Return([]repository.ChatHistoryEntry{}, nil).Once()
	m.fileRepo.On("ListByRoom", mock.Anything, uint(1)).
		Return([]domain.FileEntry{}, nil).Once()

	h.sendInitialState(client)

	msg := receive(t, client)
	assert.Equal(t, "initial_state", msg["type"])
	assert.Equal(t, "", msg["code"], "空房间的初始代码应为空串")
	assert.Equal(t, "python", msg["language"], "空房间应回退到默认语言")
	assert.Equal(t, "", msg["currentFile"], "没有文件时 currentFile 为空")
}

func TestHub_UnknownEventType_IsIgnored(t *testing.T) {
	h, _ := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")

	raw := []byte(`{"type":"mystery"}`)
	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: raw})

	assertNoMessage(t, sender)
}

func TestHub_InvalidJSON_RepliesError(t *testing.T) {
	h, _ := newTestHub(t)
	room := hubTestRoom()
	sender := addClient(h, room, 9, "alice")

	h.handleClientEvent(HubMessage{Type: "event", Client: sender, RawData: []byte("{not json")})

	errMsg := receive(t, sender)
	assert.Equal(t, "error", errMsg["type"])
	assert.Equal(t, "Invalid JSON format", errMsg["message"])
}

// --- currentFile 选择 ---

func TestPickCurrentFile(t *testing.T) {
	assert.Equal(t, "", pickCurrentFile(nil))
	assert.Equal(t, "main.py", pickCurrentFile(map[string]string{
		"zebra.py": "", "main.py": "", "alpha.py": "",
	}), "main.py 存在时优先选中")
	assert.Equal(t, "alpha.py", pickCurrentFile(map[string]string{
		"zebra.py": "", "alpha.py": "",
	}), "没有 main.py 时按名称排序取第一个")
}

// --- 注销 ---

func TestHub_UnregisterRemovesClientAndDeactivates(t *testing.T) {
	h, m := newTestHub(t)
	room := hubTestRoom()
	client := addClient(h, room, 9, "alice")

	m.sessionRepo.On("Deactivate", mock.Anything, uint(9), uint(1)).Return(nil).Once()

	h.unregisterClient(client)

	assert.NotContains(t, h.rooms, room.RoomID, "最后一个客户端离开后房间集合应被移除")
	_, open := <-client.send
	assert.False(t, open, "注销应关闭客户端的发送通道")
	m.sessionRepo.AssertExpectations(t)
}

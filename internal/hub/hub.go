// Package hub 实现每房间的实时事件分发与广播 (Session Hub)。
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	// 代码更新会携带完整文件内容，所以比纯聊天应用的上限大得多。
	maxMessageSize = 512 * 1024
)

// chatHistoryLimit 是发给新连接的聊天历史条数。
const chatHistoryLimit = 50

// canonicalFile 是 currentFile 选择时优先采用的文件名。
const canonicalFile = "main.py"

// HubMessage 定义了在 Hub 内部通道传递的消息类型
type HubMessage struct {
	Type    string  // "register", "unregister", "event"
	Client  *Client // 消息来源的客户端
	RawData []byte  // 仅用于 event (原始 WebSocket 消息)
}

// clientEvent 是客户端事件的 JSON 信封。
// type 字段决定其余哪些字段有意义。
type clientEvent struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Message     string `json:"message"`
	Action      string `json:"action"`
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	NewFilename string `json:"newFilename"`
}

// Hub 维护活跃客户端集合并协调事件处理。
// 每个房间对应一个订阅者集合；事件先持久化再广播，
// 持久化失败只回错误给发送者，不影响其他参与者。
type Hub struct {
	// 内部通道，处理所有来自 Client 的消息
	messageChan chan HubMessage

	// 客户端集合，按房间标识组织 map[roomID]map[*Client]bool
	rooms   map[string]map[*Client]bool
	roomsMu sync.RWMutex

	// 注入的 Registry 门面，承接所有房间状态读写
	registry *service.SessionService
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(registry *service.SessionService) *Hub {
	if registry == nil {
		panic("SessionService cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		rooms:       make(map[string]map[*Client]bool),
		registry:    registry,
	}
}

// Run 启动 Hub 的主事件处理循环。应在单独的 goroutine 中运行。
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		case "event":
			// 异步处理客户端事件，避免阻塞 Hub 主循环。
			// 单个事件内部仍然保证"先持久化、后广播"的顺序。
			go h.handleClientEvent(msg)
		default:
			log.Warnf("Hub: received unknown internal message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down...")
}

// QueueMessage 将消息放入 Hub 的处理队列 (非阻塞)。
// 返回 true 如果消息成功入队，false 如果队列已满。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// Close 关闭 Hub 的消息通道，令 Run 退出。
func (h *Hub) Close() {
	close(h.messageChan)
}

// registerClient 处理客户端注册：登记参与记录、加入房间集合并发送初始状态。
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"user_id": client.UserID(),
		"action":  "registerClient",
	})

	// 先持久化参与状态，再加入广播组：保证广播组里的连接都有参与记录
	if err := h.registry.Join(context.Background(), client.Room(), client.UserID()); err != nil {
		logCtx.WithError(err).Error("Failed to mark participant active on register")
		h.sendError(client, "Failed to join room session")
		// 连接保留：参与记录已在授权时确认存在，这里只是活跃标记失败
	}

	h.roomsMu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
		logCtx.Info("Client list created for new room")
	}
	h.rooms[roomID][client] = true
	h.roomsMu.Unlock()
	logCtx.Info("Client registered to Hub")

	// 异步发送初始状态给新客户端 (只发给本连接)
	go h.sendInitialState(client)
}

// unregisterClient 处理客户端注销：移出房间集合并失活参与记录。
// ReadPump 的 defer 保证所有退出路径 (正常关闭、错误、超时) 都会走到这里。
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"user_id": client.UserID(),
		"action":  "unregisterClient",
	})

	h.roomsMu.Lock()
	if roomClients, roomExists := h.rooms[roomID]; roomExists {
		if _, clientExists := roomClients[client]; clientExists {
			delete(roomClients, client)

			// 关闭此客户端的 send 通道，这将导致其 WritePump 退出。
			// map 成员检查保证每个客户端最多关闭一次
			close(client.send)

			if len(roomClients) == 0 {
				delete(h.rooms, roomID)
				logCtx.Info("Room empty, removed from Hub")
			}
		} else {
			logCtx.Warn("Client not found in room during unregister")
		}
	} else {
		logCtx.Warn("Room not found during client unregister")
	}
	h.roomsMu.Unlock()

	// 参与记录只失活，不删除：重新加入时复用同一行
	if err := h.registry.Leave(context.Background(), client.Room(), client.UserID()); err != nil {
		logCtx.WithError(err).Error("Failed to deactivate participant on unregister")
	}
	logCtx.Info("Client unregistered from Hub")
}

// handleClientEvent 解析并分发一个客户端事件。
// 任何失败都只产生发给来源连接的 error 回复，绝不断开连接或影响他人。
func (h *Hub) handleClientEvent(msg HubMessage) {
	client := msg.Client
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": client.RoomID(),
		"user_id": client.UserID(),
	})

	var event clientEvent
	if err := json.Unmarshal(msg.RawData, &event); err != nil {
		logCtx.WithError(err).Warn("Invalid JSON received from client")
		h.sendError(client, "Invalid JSON format")
		return
	}

	switch event.Type {
	case "request_latest":
		h.sendRoomState(client)
	case "code_update":
		h.handleCodeUpdate(client, event, logCtx)
	case "chat_message":
		h.handleChatMessage(client, event, logCtx)
	case "file_update":
		h.handleFileUpdate(client, event, logCtx)
	default:
		logCtx.Warnf("Unknown event type from client: %s", event.Type)
	}
}

// handleCodeUpdate 持久化一个新的代码快照并广播给房间内所有参与者 (含发送者)。
func (h *Hub) handleCodeUpdate(client *Client, event clientEvent, logCtx *logrus.Entry) {
	ctx := context.Background()

	snapshot, err := h.registry.SaveCode(ctx, client.Room(), client.UserID(), event.Code, event.Language)
	if err != nil {
		logCtx.WithError(err).Error("Failed to save code snapshot")
		h.sendError(client, "Failed to update code")
		return // 持久化失败：不广播未落盘的状态
	}

	h.broadcast(client.RoomID(), map[string]interface{}{
		"type":      "code_update",
		"code":      snapshot.CodeContent,
		"language":  snapshot.Language,
		"user":      client.Username(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	logCtx.WithField("version", snapshot.Version).Debug("Code update persisted and broadcast")
}

// handleChatMessage 持久化并广播一条聊天消息。
// 空白消息静默忽略：不持久化、不广播、不回错误。
func (h *Hub) handleChatMessage(client *Client, event clientEvent, logCtx *logrus.Entry) {
	ctx := context.Background()

	err := h.registry.AppendChat(ctx, client.Room(), client.UserID(), event.Message)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return // 空消息
		}
		logCtx.WithError(err).Error("Failed to save chat message")
		h.sendError(client, "Failed to send message")
		return
	}

	h.broadcast(client.RoomID(), map[string]interface{}{
		"type":      "chat_message",
		"message":   event.Message,
		"user":      client.Username(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleFileUpdate 按 action 修改文件存储并广播变更。
// 校验失败或持久化失败只回错误给发送者，不产生任何广播。
func (h *Hub) handleFileUpdate(client *Client, event clientEvent, logCtx *logrus.Entry) {
	ctx := context.Background()

	if event.Filename == "" {
		h.sendError(client, "Filename is required")
		return
	}

	var err error
	switch event.Action {
	case "create", "update":
		err = h.registry.UpsertFile(ctx, client.Room(), client.UserID(), event.Filename, event.Content)
	case "delete":
		err = h.registry.DeleteFile(ctx, client.Room(), event.Filename)
	case "rename":
		if event.NewFilename == "" {
			h.sendError(client, "New filename is required for rename")
			return
		}
		err = h.registry.RenameFile(ctx, client.Room(), event.Filename, event.NewFilename)
	default:
		h.sendError(client, "Unknown file action: "+event.Action)
		return
	}

	if err != nil {
		logCtx.WithError(err).WithFields(logrus.Fields{
			"file_action": event.Action,
			"filename":    event.Filename,
		}).Error("Failed to apply file update")
		h.sendError(client, "Failed to update file")
		return
	}

	h.broadcast(client.RoomID(), map[string]interface{}{
		"type":        "file_update",
		"action":      event.Action,
		"filename":    event.Filename,
		"content":     event.Content,
		"newFilename": event.NewFilename,
		"user":        client.Username(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// sendInitialState 发送完整的初始房间状态给新连接的客户端。
// 包含当前代码、最近 50 条聊天历史 (从新到旧)、完整文件表和当前文件选择。
func (h *Hub) sendInitialState(client *Client) {
	if client == nil {
		return
	}
	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":   client.RoomID(),
		"user_id":   client.UserID(),
		"operation": "sendInitialState",
	})

	code, language, err := h.registry.LatestCode(ctx, client.Room())
	if err != nil {
		logCtx.WithError(err).Error("Failed to load latest code for initial state")
		h.sendError(client, "Failed to load initial room state")
		return
	}

	history, err := h.registry.RecentChat(ctx, client.Room(), chatHistoryLimit)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load chat history for initial state")
		h.sendError(client, "Failed to load initial room state")
		return
	}

	files, err := h.registry.ListFiles(ctx, client.Room())
	if err != nil {
		logCtx.WithError(err).Error("Failed to load files for initial state")
		h.sendError(client, "Failed to load initial room state")
		return
	}

	h.sendJSON(client, map[string]interface{}{
		"type":         "initial_state",
		"code":         code,
		"language":     language,
		"chat_history": history,
		"files":        files,
		"currentFile":  pickCurrentFile(files),
	})
	logCtx.Info("Initial state sent")
}

// sendRoomState 发送当前房间状态 (代码 + 语言 + 文件表) 给请求的客户端。
func (h *Hub) sendRoomState(client *Client) {
	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": client.RoomID(),
		"user_id": client.UserID(),
	})

	code, language, err := h.registry.LatestCode(ctx, client.Room())
	if err != nil {
		logCtx.WithError(err).Error("Failed to load latest code for room state")
		h.sendError(client, "Failed to load room state")
		return
	}
	files, err := h.registry.ListFiles(ctx, client.Room())
	if err != nil {
		logCtx.WithError(err).Error("Failed to load files for room state")
		h.sendError(client, "Failed to load room state")
		return
	}

	h.sendJSON(client, map[string]interface{}{
		"type":     "room_state",
		"code":     code,
		"language": language,
		"files":    files,
	})
}

// pickCurrentFile 决定初始状态里的"当前文件"：
// 优先 main.py，其次按名称排序的第一个文件，没有文件则为空。
func pickCurrentFile(files map[string]string) string {
	if len(files) == 0 {
		return ""
	}
	if _, ok := files[canonicalFile]; ok {
		return canonicalFile
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

// broadcast 将消息发送给指定房间的所有客户端 (包括发送者)。
func (h *Hub) broadcast(roomID string, payload map[string]interface{}) {
	message, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to marshal broadcast payload")
		return
	}

	h.roomsMu.RLock()
	roomClients, ok := h.rooms[roomID]
	// 创建接收者副本，避免发送期间长时间持有锁
	clientsToSend := make([]*Client, 0, len(roomClients))
	if ok {
		for client := range roomClients {
			clientsToSend = append(clientsToSend, client)
		}
	}
	h.roomsMu.RUnlock()

	if len(clientsToSend) == 0 {
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":         roomID,
		"message_size":    len(message),
		"recipient_count": len(clientsToSend),
	})
	logCtx.Debug("Broadcasting message to clients")

	for _, client := range clientsToSend {
		// 非阻塞发送：慢客户端或已断开的客户端不会拖住其他人
		select {
		case client.send <- message:
		default:
			logCtx.WithField("receiver_user_id", client.UserID()).
				Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}

// sendJSON 序列化并发送消息给单个客户端 (非阻塞)。
func (h *Hub) sendJSON(client *Client, payload map[string]interface{}) {
	message, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal message for client")
		return
	}
	select {
	case client.send <- message:
	default:
		logrus.WithFields(logrus.Fields{
			"room_id": client.RoomID(),
			"user_id": client.UserID(),
		}).Warn("Client send channel full, message dropped")
	}
}

// sendError 发送 error 消息给单个客户端。错误只发给来源连接，从不广播。
func (h *Hub) sendError(client *Client, message string) {
	h.sendJSON(client, map[string]interface{}{
		"type":      "error",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

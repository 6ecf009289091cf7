// Package tasks 定义后台任务类型与负载结构。
package tasks

import (
	"encoding/json"

	"github.com/Aathi-pr/collaborative-code-editor/internal/sandbox"
)

// 任务类型常量
const (
	TypeExecutionRecord = "execution:record" // 把执行结果附加到最新代码快照
	TypeSessionCleanup  = "session:cleanup"  // 失活长时间无心跳的参与记录
)

// ExecutionRecordPayload 是执行结果记录任务的负载。
type ExecutionRecordPayload struct {
	RoomID string         `json:"room_id"`
	UserID uint           `json:"user_id"`
	Result sandbox.Result `json:"result"`
}

// NewExecutionRecordPayload 序列化一个执行结果记录任务的负载。
func NewExecutionRecordPayload(roomID string, userID uint, result sandbox.Result) ([]byte, error) {
	return json.Marshal(ExecutionRecordPayload{
		RoomID: roomID,
		UserID: userID,
		Result: result,
	})
}

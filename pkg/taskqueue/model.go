package taskqueue

import (
	"encoding/json"
	"time"
)

// TaskType 任务类型
type TaskType string

const (
	// TaskDocumentSummarize 文档摘要任务：解析、切句、摘要和关键词抽取
	TaskDocumentSummarize TaskType = "document_summarize"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	// StatusPending 等待处理
	StatusPending TaskStatus = "pending"
	// StatusProcessing 处理中
	StatusProcessing TaskStatus = "processing"
	// StatusCompleted 已完成
	StatusCompleted TaskStatus = "completed"
	// StatusFailed 处理失败
	StatusFailed TaskStatus = "failed"
)

// IsTerminal 是否为终态
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task 任务基础结构
type Task struct {
	ID          string          `json:"id"`           // 任务唯一标识符
	Type        TaskType        `json:"type"`         // 任务类型
	DocumentID  string          `json:"document_id"`  // 关联的文档ID
	Status      TaskStatus      `json:"status"`       // 任务状态
	Payload     json.RawMessage `json:"payload"`      // 任务载荷数据
	Result      json.RawMessage `json:"result"`       // 任务结果数据
	Error       string          `json:"error"`        // 错误信息
	CreatedAt   time.Time       `json:"created_at"`   // 创建时间
	UpdatedAt   time.Time       `json:"updated_at"`   // 更新时间
	StartedAt   *time.Time      `json:"started_at"`   // 开始处理时间
	CompletedAt *time.Time      `json:"completed_at"` // 完成时间
	Attempts    int             `json:"attempts"`     // 尝试次数
	MaxRetries  int             `json:"max_retries"`  // 最大重试次数
}

// SummarizePayload 文档摘要任务载荷
type SummarizePayload struct {
	DocumentID string `json:"document_id"`          // 文档ID
	StorageID  string `json:"storage_id"`           // 存储服务中的文件ID
	FilePath   string `json:"file_path"`            // 文件存储路径
	FileName   string `json:"file_name"`            // 文件名
	Percentage *int   `json:"percentage,omitempty"` // 摘要比例，为空表示使用默认值
}

// SummarizeResult 文档摘要任务结果
type SummarizeResult struct {
	DocumentID    string   `json:"document_id"`    // 文档ID
	SentenceCount int      `json:"sentence_count"` // 句子数量
	Selection     []int    `json:"selection"`      // 选中的句子下标
	Keywords      []string `json:"keywords"`       // 关键词
	Percentage    int      `json:"percentage"`     // 实际使用的摘要比例
	Warnings      []string `json:"warnings"`       // 非致命警告
}

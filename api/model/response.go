package model

import (
	"time"

	"github.com/fyerfyer/doc-summarizer/internal/models"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// KeywordsResponse 关键词抽取响应
type KeywordsResponse struct {
	Keywords []string `json:"keywords"` // 关键词，按得分降序
	Joined   string   `json:"joined"`   // 逗号分隔的关键词
}

// DocumentUploadResponse 文档上传响应
type DocumentUploadResponse struct {
	FileID   string `json:"file_id"`           // 文档ID
	FileName string `json:"filename"`          // 文件名
	Status   string `json:"status"`            // 文档状态
	TaskID   string `json:"task_id,omitempty"` // 异步任务ID
}

// DocumentStatusResponse 文档状态查询响应
type DocumentStatusResponse struct {
	FileID        string `json:"file_id"`                // 文档ID
	Status        string `json:"status"`                 // 处理状态
	FileName      string `json:"filename"`               // 文件名
	Progress      int    `json:"progress"`               // 处理进度
	Stage         string `json:"stage,omitempty"`        // 当前处理阶段
	Error         string `json:"error,omitempty"`        // 错误信息
	SentenceCount int    `json:"sentence_count"`         // 句子数量
	TaskID        string `json:"task_id,omitempty"`      // 当前任务ID
	CreatedAt     string `json:"created_at"`             // 创建时间
	UpdatedAt     string `json:"updated_at"`             // 更新时间
	ProcessedAt   string `json:"processed_at,omitempty"` // 处理完成时间
}

// NewDocumentStatusResponse 从文档模型构建状态响应
func NewDocumentStatusResponse(doc *models.Document) DocumentStatusResponse {
	resp := DocumentStatusResponse{
		FileID:        doc.ID,
		Status:        string(doc.Status),
		FileName:      doc.FileName,
		Progress:      doc.Progress,
		Stage:         string(doc.CurrentStage),
		Error:         doc.Error,
		SentenceCount: doc.SentenceCount,
		TaskID:        doc.CurrentTaskID,
		CreatedAt:     doc.UploadedAt.Format(time.RFC3339),
		UpdatedAt:     doc.UpdatedAt.Format(time.RFC3339),
	}
	if doc.ProcessedAt != nil {
		resp.ProcessedAt = doc.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}

// DocumentInfo 文档信息
type DocumentInfo struct {
	FileID        string    `json:"file_id"`        // 文档ID
	FileName      string    `json:"filename"`       // 文件名
	FileType      string    `json:"file_type"`      // 文件类型
	FileSize      int64     `json:"file_size"`      // 文件大小
	Status        string    `json:"status"`         // 状态
	Tags          string    `json:"tags"`           // 标签
	UploadTime    time.Time `json:"upload_time"`    // 上传时间
	SentenceCount int       `json:"sentence_count"` // 句子数量
	Percentage    int       `json:"percentage"`     // 摘要比例
}

// NewDocumentInfo 从文档模型构建列表项
func NewDocumentInfo(doc *models.Document) DocumentInfo {
	return DocumentInfo{
		FileID:        doc.ID,
		FileName:      doc.FileName,
		FileType:      doc.FileType,
		FileSize:      doc.FileSize,
		Status:        string(doc.Status),
		Tags:          doc.Tags,
		UploadTime:    doc.UploadedAt,
		SentenceCount: doc.SentenceCount,
		Percentage:    doc.Percentage,
	}
}

// DocumentListResponse 文档列表响应
type DocumentListResponse struct {
	Total     int64          `json:"total"`     // 总数量
	Page      int            `json:"page"`      // 当前页码
	PageSize  int            `json:"page_size"` // 每页大小
	Documents []DocumentInfo `json:"documents"` // 文档列表
}

// DocumentDeleteResponse 文档删除响应
type DocumentDeleteResponse struct {
	Success bool   `json:"success"` // 是否成功
	FileID  string `json:"file_id"` // 文档ID
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string `json:"status"`
	Queue  bool   `json:"queue"`
}

package model

import (
	"mime/multipart"
	"time"
)

// PaginationRequest 分页请求参数
type PaginationRequest struct {
	Page     int `form:"page" json:"page" binding:"omitempty,min=1"`           // 当前页码，从1开始
	PageSize int `form:"page_size" json:"page_size" binding:"omitempty,min=1"` // 每页记录数
}

// GetPage 获取页码，默认为1
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页记录数，默认为10，最大为100
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 10
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// SummarizeRequest 文本摘要请求
// Percentage为空时使用服务默认比例
type SummarizeRequest struct {
	Text       string `json:"text" binding:"required"`
	Percentage *int   `json:"percentage" binding:"omitempty,min=0,max=100"`
}

// GetPercentage 返回请求的摘要比例，未指定时返回nil
func (r *SummarizeRequest) GetPercentage() *int {
	return r.Percentage
}

// KeywordsRequest 关键词抽取请求
type KeywordsRequest struct {
	Text  string `json:"text" binding:"required"`
	Limit int    `json:"limit" binding:"omitempty,min=1,max=200"`
}

// DocumentUploadRequest 文档上传请求
type DocumentUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
	// 文档标签，逗号分隔
	Tags string `form:"tags" binding:"omitempty"`
	// 摘要比例
	Percentage *int `form:"percentage" binding:"omitempty,min=0,max=100"`
}

// GetPercentage 返回上传时指定的摘要比例，未指定时返回nil
func (r *DocumentUploadRequest) GetPercentage() *int {
	return r.Percentage
}

// DocumentIDRequest 文档ID路径参数
type DocumentIDRequest struct {
	ID string `uri:"id" binding:"required"` // 文档ID
}

// TaskIDRequest 任务ID路径参数
type TaskIDRequest struct {
	ID string `uri:"id" binding:"required"` // 任务ID
}

// DocumentListRequest 文档列表请求
type DocumentListRequest struct {
	PaginationRequest
	StartTime *time.Time `form:"start_time" time_format:"2006-01-02T15:04:05Z07:00" binding:"omitempty"`
	EndTime   *time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00" binding:"omitempty"`
	Status    string     `form:"status" binding:"omitempty,oneof=uploaded processing completed failed"`
	Tags      string     `form:"tags" binding:"omitempty"`
	FileName  string     `form:"file_name" binding:"omitempty"`
}

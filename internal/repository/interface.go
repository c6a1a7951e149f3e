package repository

import (
	"context"

	"github.com/fyerfyer/doc-summarizer/internal/models"
)

// DocumentRepository 文档仓储接口
// 负责文档元数据、摘要结果和句子明细的存储和检索
type DocumentRepository interface {
	// Create 创建文档记录
	Create(doc *models.Document) error

	// Update 更新文档记录
	Update(doc *models.Document) error

	// GetByID 根据ID获取文档
	GetByID(id string) (*models.Document, error)

	// List 列出文档列表，支持分页和筛选
	List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error)

	// Delete 删除文档及其句子记录
	Delete(id string) error

	// UpdateStatus 更新文档状态
	UpdateStatus(id string, status models.DocumentStatus, errorMsg string) error

	// UpdateProgress 更新文档处理进度
	UpdateProgress(id string, progress int) error

	// UpdateStage 更新文档当前处理阶段
	UpdateStage(id string, stage models.ProcessStage) error

	// UpdateTaskID 更新文档关联的任务ID
	UpdateTaskID(id string, taskID string) error

	// ReplaceSentences 替换文档的全部句子记录
	ReplaceSentences(docID string, sentences []*models.DocumentSentence) error

	// GetSentences 获取文档的所有句子，按位置排序
	GetSentences(docID string) ([]*models.DocumentSentence, error)

	// CountSentences 统计文档的句子数量
	CountSentences(docID string) (int, error)

	// WithContext 返回绑定上下文的仓储
	WithContext(ctx context.Context) DocumentRepository
}

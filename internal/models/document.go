package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentStatus 文档处理状态类型
type DocumentStatus string

const (
	// DocStatusUploaded 文档已上传，等待处理
	DocStatusUploaded DocumentStatus = "uploaded"
	// DocStatusProcessing 文档处理中
	DocStatusProcessing DocumentStatus = "processing"
	// DocStatusCompleted 文档处理完成
	DocStatusCompleted DocumentStatus = "completed"
	// DocStatusFailed 文档处理失败
	DocStatusFailed DocumentStatus = "failed"
)

// ProcessStage 文档处理阶段
type ProcessStage string

const (
	// StageParsing 解析阶段
	StageParsing ProcessStage = "parsing"
	// StageSegmenting 句子切分阶段
	StageSegmenting ProcessStage = "segmenting"
	// StageSummarizing 摘要和关键词计算阶段
	StageSummarizing ProcessStage = "summarizing"
	// StageCompleted 处理完成
	StageCompleted ProcessStage = "completed"
)

// Document 文档数据模型
// 存储文档元数据以及摘要、关键词结果
type Document struct {
	ID            string         `gorm:"primaryKey"`         // 文档ID，主键
	FileName      string         `gorm:"not null"`           // 文件名
	FileType      string         `gorm:"not null"`           // 文件类型
	FilePath      string         `gorm:"not null"`           // 文件存储路径
	StorageID     string         `gorm:"size:64;index"`      // 存储服务中的文件ID
	FileSize      int64          `gorm:"not null"`           // 文件大小（字节）
	Status        DocumentStatus `gorm:"not null;index"`     // 处理状态
	UploadedAt    time.Time      `gorm:"not null;index"`     // 上传时间
	ProcessedAt   *time.Time     `gorm:"index"`              // 处理完成时间
	UpdatedAt     time.Time      `gorm:"not null;index"`     // 更新时间
	Progress      int            `gorm:"not null;default:0"` // 处理进度（0-100）
	Error         string         `gorm:"type:text"`          // 错误信息
	Percentage    int            `gorm:"not null;default:0"` // 摘要比例
	SentenceCount int            `gorm:"not null;default:0"` // 句子数量
	Summary       string         `gorm:"type:text"`          // 摘要文本
	Keywords      string         `gorm:"type:text"`          // 关键词，逗号分隔
	Selection     datatypes.JSON `gorm:"type:json"`          // 摘要句子下标，JSON数组
	Tags          string         `gorm:"type:varchar(255)"`  // 标签，逗号分隔
	Metadata      datatypes.JSON `gorm:"type:json"`          // 元数据，JSON格式
	CurrentStage  ProcessStage   `gorm:"size:20"`            // 当前处理阶段
	CurrentTaskID string         `gorm:"size:50;index"`      // 当前关联的任务ID
	RetryCount    int            `gorm:"default:0"`          // 重试次数
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	d.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (d *Document) BeforeUpdate(tx *gorm.DB) (err error) {
	d.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (Document) TableName() string {
	return "documents"
}

// SelectionIndices 解析摘要句子下标
func (d *Document) SelectionIndices() []int {
	indices := []int{}
	if len(d.Selection) == 0 {
		return indices
	}
	if err := json.Unmarshal(d.Selection, &indices); err != nil {
		return []int{}
	}
	return indices
}

// SetSelection 设置摘要句子下标
func (d *Document) SetSelection(indices []int) {
	if indices == nil {
		indices = []int{}
	}
	data, _ := json.Marshal(indices)
	d.Selection = datatypes.JSON(data)
}

// DocumentSentence 文档句子数据模型
// 记录每个句子的原文、得分以及是否被选入摘要
type DocumentSentence struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"` // 主键ID
	DocumentID string    `gorm:"not null;index"`           // 所属文档ID
	Position   int       `gorm:"not null"`                 // 句子位置
	Text       string    `gorm:"type:text;not null"`       // 句子原文
	Score      float64   `gorm:"not null;default:0"`       // 综合得分
	Selected   bool      `gorm:"not null;default:false"`   // 是否被选入摘要
	CreatedAt  time.Time `gorm:"not null"`                 // 创建时间
	UpdatedAt  time.Time `gorm:"not null"`                 // 更新时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (ds *DocumentSentence) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	ds.CreatedAt = now
	ds.UpdatedAt = now
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (ds *DocumentSentence) BeforeUpdate(tx *gorm.DB) (err error) {
	ds.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (DocumentSentence) TableName() string {
	return "document_sentences"
}

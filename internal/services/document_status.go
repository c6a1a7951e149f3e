package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fyerfyer/doc-summarizer/internal/keyword"
	"github.com/fyerfyer/doc-summarizer/internal/models"
	"github.com/fyerfyer/doc-summarizer/internal/repository"
	"github.com/sirupsen/logrus"
)

// validTransitions 文档状态的合法转换
var validTransitions = map[models.DocumentStatus][]models.DocumentStatus{
	models.DocStatusUploaded: {
		models.DocStatusProcessing,
		models.DocStatusFailed,
	},
	models.DocStatusProcessing: {
		models.DocStatusCompleted,
		models.DocStatusFailed,
	},
	// 重新生成摘要
	models.DocStatusCompleted: {models.DocStatusProcessing},
	// 重试
	models.DocStatusFailed: {models.DocStatusProcessing},
}

// DocumentStatusManager 文档状态管理器
// 负责管理文档处理的生命周期状态
type DocumentStatusManager struct {
	repo   repository.DocumentRepository // 文档仓储接口
	logger *logrus.Logger                // 日志记录器
	mu     sync.Mutex                    // 互斥锁，保证状态转换的原子性
}

// NewDocumentStatusManager 创建文档状态管理器
func NewDocumentStatusManager(repo repository.DocumentRepository, logger *logrus.Logger) *DocumentStatusManager {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	return &DocumentStatusManager{
		repo:   repo,
		logger: logger,
	}
}

// MarkAsUploaded 创建文档记录并标记为已上传状态
func (m *DocumentStatusManager) MarkAsUploaded(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"doc_id":   doc.ID,
		"filename": doc.FileName,
	}).Info("Marking document as uploaded")

	if doc.FileType == "" {
		doc.FileType = getFileType(doc.FileName)
	}
	doc.Status = models.DocStatusUploaded
	doc.Progress = 0
	doc.UploadedAt = time.Now()

	return m.repo.WithContext(ctx).Create(doc)
}

// MarkAsProcessing 将文档标记为处理中状态
// taskID为空表示同步处理
func (m *DocumentStatusManager) MarkAsProcessing(ctx context.Context, docID string, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo := m.repo.WithContext(ctx)
	doc, err := repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := m.ValidateStateTransition(doc.Status, models.DocStatusProcessing); err != nil {
		return fmt.Errorf("document %s: %w", docID, err)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id":  docID,
		"task_id": taskID,
	}).Info("Marking document as processing")

	if doc.Status == models.DocStatusFailed {
		doc.RetryCount++
	}
	doc.Status = models.DocStatusProcessing
	doc.Error = ""
	doc.Progress = 0
	doc.ProcessedAt = nil
	doc.CurrentStage = models.StageParsing
	doc.CurrentTaskID = taskID
	return repo.Update(doc)
}

// MarkAsCompleted 保存分析结果并将文档标记为处理完成状态
func (m *DocumentStatusManager) MarkAsCompleted(ctx context.Context, docID string, analysis *Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo := m.repo.WithContext(ctx)
	doc, err := repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := m.ValidateStateTransition(doc.Status, models.DocStatusCompleted); err != nil {
		return fmt.Errorf("document %s: %w", docID, err)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id":         docID,
		"sentence_count": analysis.SentenceCount,
		"selected":       len(analysis.Selection),
	}).Info("Marking document as completed")

	sentences := make([]*models.DocumentSentence, len(analysis.Sentences))
	for i, s := range analysis.Sentences {
		sentences[i] = &models.DocumentSentence{
			Position: s.Index,
			Text:     s.Text,
			Score:    s.Score,
			Selected: s.Selected,
		}
	}
	if err := repo.ReplaceSentences(docID, sentences); err != nil {
		return fmt.Errorf("failed to save sentences: %w", err)
	}

	now := time.Now()
	doc.Status = models.DocStatusCompleted
	doc.Error = ""
	doc.Progress = 100
	doc.ProcessedAt = &now
	doc.CurrentStage = models.StageCompleted
	doc.Summary = analysis.Summary
	doc.Keywords = keyword.JoinKeywords(analysis.Keywords)
	doc.SentenceCount = analysis.SentenceCount
	doc.Percentage = analysis.Percentage
	doc.SetSelection(analysis.Selection)
	return repo.Update(doc)
}

// MarkAsFailed 将文档标记为处理失败状态
func (m *DocumentStatusManager) MarkAsFailed(ctx context.Context, docID string, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo := m.repo.WithContext(ctx)
	if _, err := repo.GetByID(docID); err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id": docID,
		"error":  errorMsg,
	}).Error("Marking document as failed")

	return repo.UpdateStatus(docID, models.DocStatusFailed, errorMsg)
}

// UpdateStage 更新文档处理阶段和进度
func (m *DocumentStatusManager) UpdateStage(ctx context.Context, docID string, stage models.ProcessStage, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo := m.repo.WithContext(ctx)
	doc, err := repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	// 只有处理中的文档才能更新进度
	if doc.Status != models.DocStatusProcessing {
		return fmt.Errorf("cannot update progress: document %s is not in processing state", docID)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id":   docID,
		"stage":    stage,
		"progress": progress,
	}).Debug("Updating document stage")

	if err := repo.UpdateStage(docID, stage); err != nil {
		return err
	}
	return repo.UpdateProgress(docID, progress)
}

// GetStatus 获取文档当前状态
func (m *DocumentStatusManager) GetStatus(ctx context.Context, docID string) (models.DocumentStatus, error) {
	doc, err := m.repo.WithContext(ctx).GetByID(docID)
	if err != nil {
		return "", fmt.Errorf("failed to get document status: %w", err)
	}
	return doc.Status, nil
}

// GetDocument 获取完整的文档对象
func (m *DocumentStatusManager) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	return m.repo.WithContext(ctx).GetByID(docID)
}

// ListDocuments 获取文档列表
func (m *DocumentStatusManager) ListDocuments(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	return m.repo.WithContext(ctx).List(offset, limit, filters)
}

// DeleteDocument 删除文档状态记录
func (m *DocumentStatusManager) DeleteDocument(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithField("doc_id", docID).Info("Deleting document status record")
	return m.repo.WithContext(ctx).Delete(docID)
}

// ValidateStateTransition 验证状态转换的有效性
func (m *DocumentStatusManager) ValidateStateTransition(from, to models.DocumentStatus) error {
	for _, validTo := range validTransitions[from] {
		if validTo == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", models.ErrInvalidDocumentStatus, from, to)
}

// getFileType 根据文件名获取文件类型
func getFileType(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

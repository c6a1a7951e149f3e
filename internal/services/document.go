package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fyerfyer/doc-summarizer/internal/cache"
	"github.com/fyerfyer/doc-summarizer/internal/document"
	"github.com/fyerfyer/doc-summarizer/internal/models"
	"github.com/fyerfyer/doc-summarizer/internal/repository"
	"github.com/fyerfyer/doc-summarizer/pkg/storage"
	"github.com/fyerfyer/doc-summarizer/pkg/taskqueue"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrAsyncDisabled 未启用异步处理
var ErrAsyncDisabled = errors.New("async processing not enabled")

// DocumentSummary 已处理文档的摘要结果
type DocumentSummary struct {
	DocumentID    string     `json:"document_id"`
	FileName      string     `json:"file_name"`
	Summary       string     `json:"summary"`
	Keywords      []string   `json:"keywords"`
	Selection     []int      `json:"selection"`
	SentenceCount int        `json:"sentence_count"`
	Percentage    int        `json:"percentage"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// DocumentService 文档服务
// 负责协调文件存储、解析、摘要计算和结果持久化
type DocumentService struct {
	storage       storage.Storage               // 文件存储服务
	summarizer    *SummaryService               // 摘要服务
	repo          repository.DocumentRepository // 文档元数据存储
	statusManager *DocumentStatusManager        // 文档状态管理器
	taskQueue     taskqueue.Queue               // 任务队列
	cache         cache.Cache                   // 摘要缓存
	cacheTTL      time.Duration                 // 摘要缓存过期时间
	asyncEnabled  bool                          // 是否启用异步处理
	timeout       time.Duration                 // 处理超时时间
	logger        *logrus.Logger                // 日志记录器
}

// DocumentOption 文档服务配置选项
type DocumentOption func(*DocumentService)

// NewDocumentService 创建一个新的文档服务
func NewDocumentService(store storage.Storage, summarizer *SummaryService, opts ...DocumentOption) *DocumentService {
	srv := &DocumentService{
		storage:    store,
		summarizer: summarizer,
		cacheTTL:   time.Hour,
		timeout:    time.Minute * 5,
		logger:     logrus.New(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	if srv.repo == nil {
		srv.repo = repository.NewDocumentRepository()
	}
	if srv.statusManager == nil {
		srv.statusManager = NewDocumentStatusManager(srv.repo, srv.logger)
	}

	return srv
}

// WithTimeout 设置处理超时时间
func WithTimeout(timeout time.Duration) DocumentOption {
	return func(s *DocumentService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) DocumentOption {
	return func(s *DocumentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDocumentRepository 设置文档仓储
func WithDocumentRepository(repo repository.DocumentRepository) DocumentOption {
	return func(s *DocumentService) {
		s.repo = repo
	}
}

// WithStatusManager 设置状态管理器
func WithStatusManager(manager *DocumentStatusManager) DocumentOption {
	return func(s *DocumentService) {
		s.statusManager = manager
	}
}

// WithTaskQueue 设置任务队列
func WithTaskQueue(queue taskqueue.Queue) DocumentOption {
	return func(s *DocumentService) {
		s.taskQueue = queue
		s.asyncEnabled = queue != nil
	}
}

// WithAsyncProcessing 设置是否启用异步处理
func WithAsyncProcessing(enabled bool) DocumentOption {
	return func(s *DocumentService) {
		s.asyncEnabled = enabled
	}
}

// WithCache 设置摘要缓存
func WithCache(c cache.Cache, ttl time.Duration) DocumentOption {
	return func(s *DocumentService) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// AsyncEnabled 是否使用任务队列处理文档
func (s *DocumentService) AsyncEnabled() bool {
	return s.asyncEnabled && s.taskQueue != nil
}

// UploadDocument 保存上传的文件并创建文档记录
func (s *DocumentService) UploadDocument(ctx context.Context, reader io.Reader, filename string, tags string) (*models.Document, error) {
	if !document.IsSupported(filename) {
		return nil, fmt.Errorf("%w: %s", document.ErrUnsupportedFormat, filename)
	}

	info, err := s.storage.Save(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	doc := &models.Document{
		ID:        uuid.New().String(),
		FileName:  info.Name,
		FilePath:  info.Path,
		StorageID: info.ID,
		FileSize:  info.Size,
		Tags:      tags,
	}

	if err := s.statusManager.MarkAsUploaded(ctx, doc); err != nil {
		if delErr := s.storage.Delete(info.ID); delErr != nil {
			s.logger.WithError(delErr).Warn("Failed to remove stored file after upload failure")
		}
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id":     doc.ID,
		"file_name":  doc.FileName,
		"file_size":  doc.FileSize,
		"storage_id": doc.StorageID,
	}).Info("Document uploaded")

	return doc, nil
}

// ProcessDocument 为文档生成摘要和关键词
// percentage为nil时使用摘要服务的默认比例
// 异步模式下返回任务ID，同步模式下返回空字符串
func (s *DocumentService) ProcessDocument(ctx context.Context, docID string, percentage *int) (string, error) {
	if docID == "" {
		return "", errors.New("docID cannot be empty")
	}

	doc, err := s.statusManager.GetDocument(ctx, docID)
	if err != nil {
		return "", err
	}

	s.invalidateSummary(docID)

	if s.AsyncEnabled() {
		return s.processDocumentAsync(ctx, doc, percentage)
	}

	if err := s.statusManager.MarkAsProcessing(ctx, docID, ""); err != nil {
		return "", err
	}
	if _, err := s.runPipeline(ctx, doc, percentage); err != nil {
		return "", err
	}
	return "", nil
}

// processDocumentAsync 将摘要任务加入队列并立即返回
func (s *DocumentService) processDocumentAsync(ctx context.Context, doc *models.Document, percentage *int) (string, error) {
	if err := s.statusManager.MarkAsProcessing(ctx, doc.ID, ""); err != nil {
		return "", err
	}

	payload := &taskqueue.SummarizePayload{
		DocumentID: doc.ID,
		StorageID:  doc.StorageID,
		FilePath:   doc.FilePath,
		FileName:   doc.FileName,
		Percentage: percentage,
	}

	taskID, err := s.taskQueue.Enqueue(ctx, taskqueue.TaskDocumentSummarize, doc.ID, payload)
	if err != nil {
		s.failDocument(ctx, doc.ID, fmt.Sprintf("failed to enqueue summarize task: %v", err))
		return "", fmt.Errorf("failed to enqueue summarize task: %w", err)
	}

	if err := s.repo.WithContext(ctx).UpdateTaskID(doc.ID, taskID); err != nil {
		s.logger.WithError(err).Warn("Failed to record task id on document")
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id":  doc.ID,
		"task_id": taskID,
	}).Info("Document summarize task enqueued")

	return taskID, nil
}

// runPipeline 读取文件并完成摘要计算，文档需已处于处理中状态
func (s *DocumentService) runPipeline(ctx context.Context, doc *models.Document, percentage *int) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := s.logger.WithFields(logrus.Fields{
		"doc_id":    doc.ID,
		"file_name": doc.FileName,
	})
	log.Info("Starting document processing")

	text, err := s.readDocument(doc)
	if err != nil {
		s.failDocument(ctx, doc.ID, err.Error())
		return nil, err
	}

	s.updateStage(ctx, doc.ID, models.StageSummarizing, 50)

	analysis, err := s.summarizer.Analyze(ctx, text, percentage)
	if err != nil {
		s.failDocument(ctx, doc.ID, fmt.Sprintf("failed to analyze document: %v", err))
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}

	if err := s.statusManager.MarkAsCompleted(ctx, doc.ID, analysis); err != nil {
		s.failDocument(ctx, doc.ID, fmt.Sprintf("failed to save summary: %v", err))
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	log.WithFields(logrus.Fields{
		"sentence_count": analysis.SentenceCount,
		"selected":       len(analysis.Selection),
	}).Info("Document processing completed")

	return analysis, nil
}

// readDocument 从存储读取文件并解析为纯文本
func (s *DocumentService) readDocument(doc *models.Document) (string, error) {
	parser, err := document.ParserFactory(doc.FileName)
	if err != nil {
		return "", fmt.Errorf("failed to create parser: %w", err)
	}

	reader, err := s.storage.Get(doc.StorageID)
	if err != nil {
		return "", fmt.Errorf("failed to get file from storage: %w", err)
	}
	defer reader.Close()

	text, err := parser.ParseReader(reader, doc.FileName)
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	return text, nil
}

// GetDocument 获取文档信息
func (s *DocumentService) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	return s.statusManager.GetDocument(ctx, docID)
}

// GetSummary 获取文档摘要，优先读取缓存
func (s *DocumentService) GetSummary(ctx context.Context, docID string) (*DocumentSummary, error) {
	key := cache.SummaryKey(docID)

	if s.cache != nil {
		var cached DocumentSummary
		found, err := cache.GetJSON(s.cache, key, &cached)
		if err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to read summary cache")
		} else if found {
			return &cached, nil
		}
	}

	doc, err := s.statusManager.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocStatusCompleted {
		return nil, fmt.Errorf("%w: document %s is %s", models.ErrSummaryNotReady, docID, doc.Status)
	}

	result := &DocumentSummary{
		DocumentID:    doc.ID,
		FileName:      doc.FileName,
		Summary:       doc.Summary,
		Keywords:      splitKeywords(doc.Keywords),
		Selection:     doc.SelectionIndices(),
		SentenceCount: doc.SentenceCount,
		Percentage:    doc.Percentage,
		ProcessedAt:   doc.ProcessedAt,
	}

	if s.cache != nil {
		if err := cache.SetJSON(s.cache, key, result, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to write summary cache")
		}
	}

	return result, nil
}

// GetSentences 获取文档的句子得分明细
func (s *DocumentService) GetSentences(ctx context.Context, docID string) ([]*models.DocumentSentence, error) {
	if _, err := s.statusManager.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	return s.repo.WithContext(ctx).GetSentences(docID)
}

// ListDocuments 分页获取文档列表，page从1开始
func (s *DocumentService) ListDocuments(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.statusManager.ListDocuments(ctx, (page-1)*pageSize, pageSize, filters)
}

// DeleteDocument 删除文档及其相关数据
func (s *DocumentService) DeleteDocument(ctx context.Context, docID string) error {
	doc, err := s.statusManager.GetDocument(ctx, docID)
	if err != nil {
		return err
	}

	s.logger.WithField("doc_id", docID).Info("Deleting document")

	if err := s.storage.Delete(doc.StorageID); err != nil {
		// 文件可能已被删除，记录错误但不中断流程
		s.logger.WithError(err).Warn("Failed to delete file from storage")
	}

	if err := s.statusManager.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	s.invalidateSummary(docID)
	return nil
}

// GetTask 获取任务信息
func (s *DocumentService) GetTask(ctx context.Context, taskID string) (*taskqueue.Task, error) {
	if s.taskQueue == nil {
		return nil, ErrAsyncDisabled
	}
	return s.taskQueue.GetTask(ctx, taskID)
}

// GetDocumentTasks 获取文档相关的任务
func (s *DocumentService) GetDocumentTasks(ctx context.Context, docID string) ([]*taskqueue.Task, error) {
	if s.taskQueue == nil {
		return nil, ErrAsyncDisabled
	}
	return s.taskQueue.GetTasksByDocument(ctx, docID)
}

// GetStatusManager 返回文档状态管理器实例
func (s *DocumentService) GetStatusManager() *DocumentStatusManager {
	return s.statusManager
}

// updateStage 更新处理阶段，失败只记录日志
func (s *DocumentService) updateStage(ctx context.Context, docID string, stage models.ProcessStage, progress int) {
	if err := s.statusManager.UpdateStage(ctx, docID, stage, progress); err != nil {
		s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to update document stage")
	}
}

// invalidateSummary 删除缓存的摘要
func (s *DocumentService) invalidateSummary(docID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(cache.SummaryKey(docID)); err != nil {
		s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to invalidate summary cache")
	}
}

// failDocument 将文档标记为失败状态
func (s *DocumentService) failDocument(ctx context.Context, docID string, errorMsg string) {
	// 超时后仍需写入失败状态
	ctx = context.WithoutCancel(ctx)
	if err := s.statusManager.MarkAsFailed(ctx, docID, errorMsg); err != nil {
		s.logger.WithFields(logrus.Fields{
			"doc_id": docID,
			"error":  err,
		}).Error("Failed to mark document as failed")
	}
}

// splitKeywords 拆分逗号分隔的关键词
func splitKeywords(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{}
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

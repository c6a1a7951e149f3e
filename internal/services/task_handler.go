package services

import (
	"context"
	"fmt"

	"github.com/fyerfyer/doc-summarizer/internal/models"
	"github.com/fyerfyer/doc-summarizer/pkg/taskqueue"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// SummarizeTaskHandler 处理 document_summarize 任务
type SummarizeTaskHandler struct {
	service *DocumentService
	logger  *logrus.Logger
}

// NewSummarizeTaskHandler 创建摘要任务处理器
func NewSummarizeTaskHandler(service *DocumentService, logger *logrus.Logger) *SummarizeTaskHandler {
	if logger == nil {
		logger = service.logger
	}
	return &SummarizeTaskHandler{
		service: service,
		logger:  logger,
	}
}

// GetTaskTypes 返回支持的任务类型
func (h *SummarizeTaskHandler) GetTaskTypes() []taskqueue.TaskType {
	return []taskqueue.TaskType{taskqueue.TaskDocumentSummarize}
}

// ProcessTask 读取文件、计算摘要并保存结果
func (h *SummarizeTaskHandler) ProcessTask(ctx context.Context, task *taskqueue.Task) (interface{}, error) {
	var payload taskqueue.SummarizePayload
	if err := taskqueue.UnmarshalPayload(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v: %w", taskqueue.ErrInvalidPayload, err, asynq.SkipRetry)
	}
	if payload.DocumentID == "" {
		payload.DocumentID = task.DocumentID
	}

	log := h.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"doc_id":  payload.DocumentID,
	})
	log.Info("Processing summarize task")

	doc, err := h.service.GetDocument(ctx, payload.DocumentID)
	if err != nil {
		// 文档已被删除时不再重试
		return nil, fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	// 重试时文档处于失败状态，需要重新进入处理中
	if doc.Status != models.DocStatusProcessing {
		if err := h.service.statusManager.MarkAsProcessing(ctx, doc.ID, task.ID); err != nil {
			return nil, fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
	}

	analysis, err := h.service.runPipeline(ctx, doc, payload.Percentage)
	if err != nil {
		return nil, err
	}

	return &taskqueue.SummarizeResult{
		DocumentID:    doc.ID,
		SentenceCount: analysis.SentenceCount,
		Selection:     analysis.Selection,
		Keywords:      analysis.Keywords,
		Percentage:    analysis.Percentage,
		Warnings:      analysis.Warnings,
	}, nil
}

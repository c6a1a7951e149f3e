package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fyerfyer/doc-summarizer/internal/models"
	"github.com/fyerfyer/doc-summarizer/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStatusManager(t *testing.T) *DocumentStatusManager {
	db, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewDocumentStatusManager(repository.NewDocumentRepositoryWithDB(db), logger)
}

// TestDocumentStatusManager_BasicFlow 测试文档状态管理基本流程
func TestDocumentStatusManager_BasicFlow(t *testing.T) {
	m := newTestStatusManager(t)
	ctx := context.Background()
	docID := "status-doc-1"

	require.NoError(t, m.MarkAsUploaded(ctx, &models.Document{
		ID:       docID,
		FileName: "Report.PDF",
		FilePath: "storage/Report.PDF",
		FileSize: 2048,
	}))

	doc, err := m.GetDocument(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusUploaded, doc.Status)
	assert.Equal(t, "pdf", doc.FileType)

	require.NoError(t, m.MarkAsProcessing(ctx, docID, "task-1"))
	require.NoError(t, m.UpdateStage(ctx, docID, models.StageSummarizing, 50))

	doc, err = m.GetDocument(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusProcessing, doc.Status)
	assert.Equal(t, models.StageSummarizing, doc.CurrentStage)
	assert.Equal(t, 50, doc.Progress)
	assert.Equal(t, "task-1", doc.CurrentTaskID)

	analysis := &Analysis{
		Summary:       "First.",
		Selection:     []int{0},
		Keywords:      []string{"first", "second"},
		SentenceCount: 2,
		Percentage:    50,
		Sentences: []SentenceScore{
			{Index: 0, Text: "First. ", Score: 2.1, Selected: true},
			{Index: 1, Text: "Second.", Score: 0.4},
		},
	}
	require.NoError(t, m.MarkAsCompleted(ctx, docID, analysis))

	doc, err = m.GetDocument(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusCompleted, doc.Status)
	assert.Equal(t, "First.", doc.Summary)
	assert.Equal(t, "first, second", doc.Keywords)
	assert.Equal(t, []int{0}, doc.SelectionIndices())
	assert.Equal(t, 100, doc.Progress)

	status, err := m.GetStatus(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusCompleted, status)

	// 完成后不能直接更新进度
	assert.Error(t, m.UpdateStage(ctx, docID, models.StageParsing, 10))

	require.NoError(t, m.DeleteDocument(ctx, docID))
	_, err = m.GetStatus(ctx, docID)
	assert.True(t, errors.Is(err, models.ErrDocumentNotFound))
}

// TestDocumentStatusManager_InvalidTransitions 测试非法状态转换
func TestDocumentStatusManager_InvalidTransitions(t *testing.T) {
	m := newTestStatusManager(t)
	ctx := context.Background()

	require.NoError(t, m.MarkAsUploaded(ctx, &models.Document{ID: "status-doc-2", FileName: "a.txt", FilePath: "a.txt"}))

	// 未进入处理中不能直接完成
	err := m.MarkAsCompleted(ctx, "status-doc-2", &Analysis{})
	assert.True(t, errors.Is(err, models.ErrInvalidDocumentStatus))

	require.NoError(t, m.MarkAsProcessing(ctx, "status-doc-2", ""))
	err = m.MarkAsProcessing(ctx, "status-doc-2", "")
	assert.True(t, errors.Is(err, models.ErrInvalidDocumentStatus))

	// 失败后允许重试
	require.NoError(t, m.MarkAsFailed(ctx, "status-doc-2", "boom"))
	require.NoError(t, m.MarkAsProcessing(ctx, "status-doc-2", ""))

	doc, err := m.GetDocument(ctx, "status-doc-2")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.RetryCount)
	assert.Empty(t, doc.Error)

	assert.Error(t, m.MarkAsProcessing(ctx, "missing", ""))
	assert.Error(t, m.MarkAsFailed(ctx, "missing", "x"))
}

// TestValidateStateTransition 测试状态转换表
func TestValidateStateTransition(t *testing.T) {
	m := NewDocumentStatusManager(nil, nil)

	valid := [][2]models.DocumentStatus{
		{models.DocStatusUploaded, models.DocStatusProcessing},
		{models.DocStatusUploaded, models.DocStatusFailed},
		{models.DocStatusProcessing, models.DocStatusCompleted},
		{models.DocStatusProcessing, models.DocStatusFailed},
		{models.DocStatusCompleted, models.DocStatusProcessing},
		{models.DocStatusFailed, models.DocStatusProcessing},
	}
	for _, tr := range valid {
		assert.NoError(t, m.ValidateStateTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	invalid := [][2]models.DocumentStatus{
		{models.DocStatusUploaded, models.DocStatusCompleted},
		{models.DocStatusCompleted, models.DocStatusFailed},
		{models.DocStatusFailed, models.DocStatusCompleted},
	}
	for _, tr := range invalid {
		assert.Error(t, m.ValidateStateTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

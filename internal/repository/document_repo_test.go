package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fyerfyer/doc-summarizer/internal/database"
	"github.com/fyerfyer/doc-summarizer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	// 使用唯一的内存数据库标识符
	dbName := fmt.Sprintf("file:memdb_%d?mode=memory", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")

	// 内存数据库每个连接独立，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "Failed to run migrations")

	originalDB := database.DB
	database.DB = db

	cleanup := func() {
		database.DB = originalDB
		sqlDB.Close()
	}
	return db, cleanup
}

func newTestDocument(id string) *models.Document {
	return &models.Document{
		ID:       id,
		FileName: id + ".txt",
		FileType: "txt",
		FilePath: "/path/to/" + id + ".txt",
		FileSize: 1024,
		Status:   models.DocStatusUploaded,
	}
}

func TestDocumentRepository_CreateAndGet(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	doc := newTestDocument("doc-1")
	doc.Tags = "news,test"
	require.NoError(t, repo.Create(doc))

	saved, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.txt", saved.FileName)
	assert.Equal(t, models.DocStatusUploaded, saved.Status)
	assert.False(t, saved.UploadedAt.IsZero())

	// 空ID
	assert.Error(t, repo.Create(&models.Document{}))

	// 不存在的文档
	missing, err := repo.GetByID("non-existing")
	assert.Nil(t, missing)
	assert.True(t, errors.Is(err, models.ErrDocumentNotFound))
}

func TestDocumentRepository_UpdateSummary(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	doc := newTestDocument("doc-2")
	require.NoError(t, repo.Create(doc))

	doc.Summary = "The cat sat."
	doc.Keywords = "cat, sat"
	doc.SentenceCount = 2
	doc.Percentage = 50
	doc.SetSelection([]int{0})
	require.NoError(t, repo.Update(doc))

	saved, err := repo.GetByID("doc-2")
	require.NoError(t, err)
	assert.Equal(t, "The cat sat.", saved.Summary)
	assert.Equal(t, "cat, sat", saved.Keywords)
	assert.Equal(t, []int{0}, saved.SelectionIndices())
	assert.Equal(t, 50, saved.Percentage)
}

func TestDocumentRepository_StatusProgressStage(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	require.NoError(t, repo.Create(newTestDocument("doc-3")))

	require.NoError(t, repo.UpdateStatus("doc-3", models.DocStatusProcessing, ""))
	require.NoError(t, repo.UpdateProgress("doc-3", 150))
	require.NoError(t, repo.UpdateStage("doc-3", models.StageSegmenting))
	require.NoError(t, repo.UpdateTaskID("doc-3", "task-9"))

	doc, err := repo.GetByID("doc-3")
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusProcessing, doc.Status)
	assert.Equal(t, 100, doc.Progress)
	assert.Equal(t, models.StageSegmenting, doc.CurrentStage)
	assert.Equal(t, "task-9", doc.CurrentTaskID)
	assert.Nil(t, doc.ProcessedAt)

	require.NoError(t, repo.UpdateStatus("doc-3", models.DocStatusFailed, "parse error"))
	doc, err = repo.GetByID("doc-3")
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, doc.Status)
	assert.Equal(t, "parse error", doc.Error)
	assert.NotNil(t, doc.ProcessedAt)
}

func TestDocumentRepository_List(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	for i := 0; i < 5; i++ {
		doc := newTestDocument(fmt.Sprintf("list-%d", i))
		doc.UploadedAt = time.Now().Add(time.Duration(i) * time.Minute)
		if i%2 == 0 {
			doc.Status = models.DocStatusCompleted
		}
		require.NoError(t, repo.Create(doc))
	}

	docs, total, err := repo.List(0, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, docs, 5)
	// 按上传时间倒序
	assert.Equal(t, "list-4", docs[0].ID)

	docs, total, err = repo.List(0, 2, map[string]interface{}{"status": models.DocStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, docs, 2)

	docs, total, err = repo.List(0, 10, map[string]interface{}{"file_name": "list-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "list-1", docs[0].ID)
}

func TestDocumentRepository_Sentences(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository().WithContext(context.Background())
	require.NoError(t, repo.Create(newTestDocument("doc-4")))

	first := []*models.DocumentSentence{
		{Position: 1, Text: "Second.", Score: 0.5},
		{Position: 0, Text: "First.", Score: 2.3, Selected: true},
	}
	require.NoError(t, repo.ReplaceSentences("doc-4", first))

	sentences, err := repo.GetSentences("doc-4")
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.Equal(t, "First.", sentences[0].Text)
	assert.True(t, sentences[0].Selected)
	assert.Equal(t, "doc-4", sentences[1].DocumentID)

	// 再次写入会替换旧记录
	require.NoError(t, repo.ReplaceSentences("doc-4", []*models.DocumentSentence{{Position: 0, Text: "Only."}}))
	count, err := repo.CountSentences("doc-4")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentRepository_Delete(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	require.NoError(t, repo.Create(newTestDocument("doc-5")))
	require.NoError(t, repo.ReplaceSentences("doc-5", []*models.DocumentSentence{{Position: 0, Text: "A."}}))

	require.NoError(t, repo.Delete("doc-5"))

	_, err := repo.GetByID("doc-5")
	assert.True(t, errors.Is(err, models.ErrDocumentNotFound))
	count, err := repo.CountSentences("doc-5")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.True(t, errors.Is(repo.Delete("doc-5"), models.ErrDocumentNotFound))
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/fyerfyer/doc-summarizer/api/middleware"
	"github.com/fyerfyer/doc-summarizer/api/model"
	"github.com/fyerfyer/doc-summarizer/internal/document"
	"github.com/fyerfyer/doc-summarizer/internal/models"
	"github.com/fyerfyer/doc-summarizer/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DocumentHandler 处理文档相关的API请求
type DocumentHandler struct {
	documentService *services.DocumentService // 文档服务
	maxFileSize     int64                     // 上传文件大小上限，0表示不限制
	logger          *logrus.Logger            // 日志记录器
}

// NewDocumentHandler 创建新的文档处理器
func NewDocumentHandler(documentService *services.DocumentService, maxFileSize int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxFileSize:     maxFileSize,
		logger:          middleware.GetLogger(),
	}
}

// UploadDocument 处理文档上传请求，上传后立即开始摘要处理
// POST /api/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	var req model.DocumentUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Invalid document upload request")
		middleware.HandleError(c, middleware.NewValidationError("无效的请求参数", err.Error()))
		return
	}

	filename := req.File.Filename
	if !document.IsSupported(filename) {
		middleware.HandleError(c, middleware.NewValidationError("不支持的文件类型，仅支持 .pdf, .md, .markdown, .txt"))
		return
	}

	if h.maxFileSize > 0 && req.File.Size > h.maxFileSize {
		middleware.HandleError(c, middleware.NewValidationError(
			fmt.Sprintf("文件大小超过限制（%d字节）", h.maxFileSize),
		))
		return
	}

	file, err := req.File.Open()
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"error":    err.Error(),
			"filename": filename,
		}).Error("Failed to open uploaded file")
		middleware.HandleError(c, middleware.NewInternalError("无法打开上传的文件"))
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	doc, err := h.documentService.UploadDocument(ctx, file, filename, req.Tags)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	taskID, err := h.documentService.ProcessDocument(ctx, doc.ID, req.GetPercentage())
	if err != nil {
		// 上传已成功，处理失败的原因写入文档状态
		h.logger.WithFields(logrus.Fields{
			"error":   err.Error(),
			"file_id": doc.ID,
		}).Warn("Document processing failed after upload")
	}

	status := models.DocStatusFailed
	if current, statusErr := h.documentService.GetStatusManager().GetStatus(ctx, doc.ID); statusErr == nil {
		status = current
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentUploadResponse{
		FileID:   doc.ID,
		FileName: doc.FileName,
		Status:   string(status),
		TaskID:   taskID,
	}))
}

// GetDocumentStatus 获取文档处理状态
// GET /api/documents/:id/status
func (h *DocumentHandler) GetDocumentStatus(c *gin.Context) {
	var req model.DocumentIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("无效的文档ID"))
		return
	}

	doc, err := h.documentService.GetDocument(c.Request.Context(), req.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentStatusResponse(doc)))
}

// GetDocumentSummary 获取已完成文档的摘要和关键词
// GET /api/documents/:id/summary
func (h *DocumentHandler) GetDocumentSummary(c *gin.Context) {
	var req model.DocumentIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("无效的文档ID"))
		return
	}

	result, err := h.documentService.GetSummary(c.Request.Context(), req.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(result))
}

// ListDocuments 获取文档列表
// GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req model.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("无效的查询参数", err.Error()))
		return
	}

	filters := make(map[string]interface{})
	if req.Status != "" {
		filters["status"] = models.DocumentStatus(req.Status)
	}
	if req.Tags != "" {
		filters["tags"] = req.Tags
	}
	if req.FileName != "" {
		filters["file_name"] = req.FileName
	}
	if req.StartTime != nil {
		filters["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		filters["end_time"] = *req.EndTime
	}

	page, pageSize := req.GetPage(), req.GetPageSize()
	docs, total, err := h.documentService.ListDocuments(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	items := make([]model.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		items = append(items, model.NewDocumentInfo(doc))
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentListResponse{
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		Documents: items,
	}))
}

// DeleteDocument 删除文档
// DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	var req model.DocumentIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("无效的文档ID"))
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), req.ID); err != nil {
		middleware.HandleError(c, err)
		return
	}

	h.logger.WithField("file_id", req.ID).Info("Document deleted")
	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DocumentDeleteResponse{
		Success: true,
		FileID:  req.ID,
	}))
}

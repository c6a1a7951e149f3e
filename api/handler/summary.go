package handler

import (
	"net/http"

	"github.com/fyerfyer/doc-summarizer/api/middleware"
	"github.com/fyerfyer/doc-summarizer/api/model"
	"github.com/fyerfyer/doc-summarizer/internal/keyword"
	"github.com/fyerfyer/doc-summarizer/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SummaryHandler 处理纯文本摘要和关键词请求
type SummaryHandler struct {
	summaryService *services.SummaryService // 摘要服务
	logger         *logrus.Logger           // 日志记录器
}

// NewSummaryHandler 创建新的摘要处理器
func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		logger:         middleware.GetLogger(),
	}
}

// Summarize 对请求中的文本生成摘要
// POST /api/summarize
func (h *SummaryHandler) Summarize(c *gin.Context) {
	var req model.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid summarize request")
		middleware.HandleError(c, middleware.NewValidationError("无效的请求参数", err.Error()))
		return
	}

	analysis, err := h.summaryService.Analyze(c.Request.Context(), req.Text, req.GetPercentage())
	if err != nil {
		h.logger.WithError(err).Error("Failed to summarize text")
		middleware.HandleError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"sentence_count": analysis.SentenceCount,
		"selected":       len(analysis.Selection),
		"percentage":     analysis.Percentage,
	}).Info("Text summarized")

	c.JSON(http.StatusOK, model.NewSuccessResponse(analysis))
}

// ExtractKeywords 抽取请求文本的关键词
// POST /api/keywords
func (h *SummaryHandler) ExtractKeywords(c *gin.Context) {
	var req model.KeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid keywords request")
		middleware.HandleError(c, middleware.NewValidationError("无效的请求参数", err.Error()))
		return
	}

	keywords, err := h.summaryService.ExtractKeywords(c.Request.Context(), req.Text, req.Limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to extract keywords")
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.KeywordsResponse{
		Keywords: keywords,
		Joined:   keyword.JoinKeywords(keywords),
	}))
}

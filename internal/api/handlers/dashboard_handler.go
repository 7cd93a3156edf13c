package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/service"
	"github.com/channelpulse/backend-go/pkg/logger"
)

type DashboardHandler struct {
	upload    *service.UploadService
	analytics *service.AnalyticsService
}

func NewDashboardHandler(upload *service.UploadService, analytics *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{upload: upload, analytics: analytics}
}

func (h *DashboardHandler) parseFilter(c *gin.Context) domain.RecordFilter {
	filter := domain.RecordFilter{
		DateFrom:      strings.TrimSpace(c.Query("date_from")),
		DateTo:        strings.TrimSpace(c.Query("date_to")),
		Distributors:  listParam(c, "distributor", "distributors"),
		Models:        listParam(c, "model", "models"),
		Chipsets:      listParam(c, "chipset", "chipsets"),
		CategoryTypes: listParam(c, "category_type", "category_types"),
		Dealers:       listParam(c, "dealer", "dealers"),
		Products:      listParam(c, "product", "products"),
	}
	filter.WindowWeeks = intParam(c, "window_weeks")
	filter.TargetWeeks = intParam(c, "target_weeks")
	return filter
}

// Upload ingests one dashboard workbook (multipart field "file").
func (h *DashboardHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "missing file field")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "cannot open uploaded file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}

	summary, err := h.upload.IngestWorkbook(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetAnalysis(c *gin.Context) {
	view, err := h.analytics.Analysis(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DashboardHandler) GetTrend(c *gin.Context) {
	mode := c.DefaultQuery("mode", "month")
	compare := listParam(c, "compare", "comparison")

	points, err := h.analytics.Trend(c.Request.Context(), h.parseFilter(c), compare, mode)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode, "points": points})
}

func (h *DashboardHandler) GetTotals(c *gin.Context) {
	groupBy := c.DefaultQuery("group_by", "model")

	totals, err := h.analytics.Totals(c.Request.Context(), h.parseFilter(c), groupBy)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"group_by": groupBy, "totals": totals})
}

func (h *DashboardHandler) GetOptions(c *gin.Context) {
	opts, err := h.analytics.Options(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *DashboardHandler) GetDocument(c *gin.Context) {
	doc, err := h.analytics.Document(c.Request.Context(), boolParam(c, "refresh"))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, doc)
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	logger.Log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

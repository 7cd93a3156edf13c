package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/service"
)

type MarketHandler struct {
	upload *service.UploadService
	market *service.MarketService
}

func NewMarketHandler(upload *service.UploadService, market *service.MarketService) *MarketHandler {
	return &MarketHandler{upload: upload, market: market}
}

func (h *MarketHandler) parseFilter(c *gin.Context) domain.MarketFilter {
	return domain.MarketFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Brands:   listParam(c, "brand", "brands"),
		Chipsets: listParam(c, "chipset", "chipsets"),
		Models:   listParam(c, "model", "models"),
	}
}

// Upload ingests a batch of market price workbooks (multipart field
// "files", repeatable) with an optional "date" form value used when a
// filename carries no date token.
func (h *MarketHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid multipart form")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		errorResponse(c, http.StatusBadRequest, "no files uploaded")
		return
	}

	files := make([]service.MarketFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "cannot open uploaded file "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "cannot read uploaded file "+fh.Filename)
			return
		}
		files = append(files, service.MarketFile{Name: fh.Filename, Data: data})
	}

	results, err := h.upload.IngestMarketFiles(c.Request.Context(), files, strings.TrimSpace(c.PostForm("date")))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *MarketHandler) GetHistory(c *gin.Context) {
	history, err := h.market.History(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *MarketHandler) GetLatest(c *gin.Context) {
	prices, err := h.market.LatestPrices(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, prices)
}

func (h *MarketHandler) GetMovers(c *gin.Context) {
	movers, err := h.market.Movers(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, movers)
}

func (h *MarketHandler) GetBrandAverages(c *gin.Context) {
	averages, err := h.market.BrandAverages(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, averages)
}

func (h *MarketHandler) GetBrandTrend(c *gin.Context) {
	trend, err := h.market.BrandTrend(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, trend)
}

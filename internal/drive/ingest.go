package drive

import (
	"context"

	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/excel"
	"github.com/channelpulse/backend-go/internal/service"
	"github.com/channelpulse/backend-go/pkg/logger"
)

// Ingestor downloads spreadsheets from a Drive folder and routes them to
// the upload service. Files whose name maps to a market category go into
// the price history; everything else is treated as a dashboard workbook.
type Ingestor struct {
	drive  *Service
	upload *service.UploadService
}

func NewIngestor(drive *Service, upload *service.UploadService) *Ingestor {
	return &Ingestor{drive: drive, upload: upload}
}

// Run ingests the whole folder once. One broken file does not stop the
// rest; its failure is reported in the result list.
func (i *Ingestor) Run(ctx context.Context, folderID string) ([]domain.UploadResult, error) {
	files, err := i.drive.ListSpreadsheets(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var (
		results     []domain.UploadResult
		marketFiles []service.MarketFile
	)
	for _, f := range files {
		data, err := i.drive.Download(ctx, f.ID)
		if err != nil {
			results = append(results, domain.UploadResult{Name: f.Name, Status: "error", Msg: err.Error()})
			continue
		}

		if excel.DetectCategory(f.Name) != "UNKNOWN" {
			marketFiles = append(marketFiles, service.MarketFile{Name: f.Name, Data: data})
			continue
		}

		summary, err := i.upload.IngestWorkbook(ctx, f.Name, data)
		if err != nil {
			results = append(results, domain.UploadResult{Name: f.Name, Status: "error", Msg: err.Error()})
			continue
		}
		logger.Log.Info().
			Str("file", f.Name).
			Int("merged_rows", summary.MergedRows).
			Str("reference_week", summary.ReferenceWeek).
			Msg("drive workbook ingested")
		results = append(results, domain.UploadResult{Name: f.Name, Status: "success", Msg: summary.ReferenceWeek})
	}

	if len(marketFiles) > 0 {
		marketResults, err := i.upload.IngestMarketFiles(ctx, marketFiles, "")
		if err != nil {
			return append(results, marketResults...), err
		}
		results = append(results, marketResults...)
	}
	return results, nil
}

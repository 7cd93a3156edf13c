package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/channelpulse/backend-go/internal/cache"
	"github.com/channelpulse/backend-go/internal/config"
	"github.com/channelpulse/backend-go/internal/drive"
	"github.com/channelpulse/backend-go/internal/repository"
	"github.com/channelpulse/backend-go/internal/service"
	"github.com/channelpulse/backend-go/internal/storage"
	"github.com/channelpulse/backend-go/pkg/logger"
)

func newUploadService(ctx context.Context) (*service.UploadService, error) {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, err := storage.NewMinioClient(connectCtx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	analysisCache, err := cache.NewAnalysisCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("analysis cache unavailable, continuing without caching")
		analysisCache = cache.NewNoopAnalysisCache()
	}

	return service.NewUploadService(
		repository.NewDashboardRepository(store),
		repository.NewMarketRepository(store),
		analysisCache,
	), nil
}

func ingestDashboard(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: ingest dashboard <file.xlsx> [more files...]", 1)
	}
	upload, err := newUploadService(c.Context)
	if err != nil {
		return err
	}

	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		summary, err := upload.IngestWorkbook(c.Context, filepath.Base(path), data)
		if err != nil {
			return err
		}
		logger.Log.Info().
			Str("file", path).
			Int("sales_rows", summary.SalesRows).
			Int("merged_rows", summary.MergedRows).
			Str("reference_week", summary.ReferenceWeek).
			Msg("dashboard workbook ingested")
	}
	return nil
}

func ingestMarket(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: ingest market [--date YYYY-MM-DD] <file.xlsx> [more files...]", 1)
	}
	upload, err := newUploadService(c.Context)
	if err != nil {
		return err
	}

	files := make([]service.MarketFile, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, service.MarketFile{Name: filepath.Base(path), Data: data})
	}

	results, err := upload.IngestMarketFiles(c.Context, files, c.String("date"))
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.Log.Info().Str("file", r.Name).Str("status", r.Status).Msg(r.Msg)
	}
	return nil
}

func ingestDrive(c *cli.Context) error {
	cfg := config.Load()
	folderID := c.String("folder")
	if folderID == "" {
		folderID = cfg.Drive.FolderID
	}
	credentials := c.String("credentials")
	if credentials == "" {
		credentials = cfg.Drive.CredentialsFile
	}
	if credentials == "" {
		return cli.Exit("drive credentials file required (--credentials or DRIVE_CREDENTIALS_FILE)", 1)
	}

	upload, err := newUploadService(c.Context)
	if err != nil {
		return err
	}
	driveSvc, err := drive.NewService(c.Context, credentials)
	if err != nil {
		return err
	}

	results, err := drive.NewIngestor(driveSvc, upload).Run(c.Context, folderID)
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.Log.Info().Str("file", r.Name).Str("status", r.Status).Msg(r.Msg)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "ingest",
		Usage: "Load spreadsheet exports into the dashboard store from the command line",
		Commands: []*cli.Command{
			{
				Name:      "dashboard",
				Usage:     "Ingest sales/inventory/backlog workbooks",
				ArgsUsage: "<file.xlsx>...",
				Action:    ingestDashboard,
			},
			{
				Name:      "market",
				Usage:     "Ingest market price list workbooks",
				ArgsUsage: "<file.xlsx>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "Fallback upload date (YYYY-MM-DD) for files without a date token",
					},
				},
				Action: ingestMarket,
			},
			{
				Name:  "drive",
				Usage: "Ingest every spreadsheet in a Google Drive folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "folder",
						Usage:   "Drive folder ID",
						EnvVars: []string{"DRIVE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:    "credentials",
						Usage:   "Service-account credentials JSON file",
						EnvVars: []string{"DRIVE_CREDENTIALS_FILE"},
					},
				},
				Action: ingestDrive,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("ingest failed")
	}
}

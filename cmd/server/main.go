package main

import (
	"fmt"
	"log"

	"remitex/internal/config"
	"remitex/internal/handler"
	"remitex/internal/pdfext"
	"remitex/internal/router"
	"remitex/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize extractor
	pages := pdfext.New(pdfext.Config{
		RowTolerance:     cfg.Extract.RowTolerance,
		WordGapFactor:    cfg.Extract.WordGapFactor,
		ColumnGapMin:     cfg.Extract.ColumnGapMin,
		ColumnSupportPct: cfg.Extract.ColumnSupportPct,
	})

	// Initialize services
	extractSvc := service.NewExtractService(pages)

	// Initialize handlers
	parseH := handler.NewParseHandler(extractSvc, cfg.Server.MaxUploadSizeMB)
	healthH := handler.NewHealthHandler()

	// Setup router
	r := router.Setup(parseH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
	"github.com/anime-shed/image-diagnostics-go/internal/logger"
	"github.com/anime-shed/image-diagnostics-go/internal/observer"
	"github.com/anime-shed/image-diagnostics-go/internal/repository"
	"github.com/anime-shed/image-diagnostics-go/internal/service"
	"github.com/anime-shed/image-diagnostics-go/internal/storage"
	"github.com/anime-shed/image-diagnostics-go/pkg/models"
)

var (
	fFilename   string
	fKernel     int
	fSaturation float64
	fBorder     float64
	fResidual   string
	fWorkers    int
	fVerbose    bool
)

func init() {
	flag.StringVar(&fFilename, "filename", "", "image file or http(s) URL to diagnose (required)")
	flag.IntVar(&fKernel, "k", analyzer.DefaultKernelSize, "box blur kernel size for the noise estimate (odd)")
	flag.Float64Var(&fSaturation, "saturation", analyzer.DefaultSaturationThreshold, "channel value counted as saturated")
	flag.Float64Var(&fBorder, "border", analyzer.DefaultBorderThreshold, "core minus border mean above which the border is dark")
	flag.StringVar(&fResidual, "residual", "", "write the residual (noise) map as PNG to this file")
	flag.IntVar(&fWorkers, "workers", 0, "analysis goroutines, 0 means one per CPU")
	flag.BoolVar(&fVerbose, "v", false, "log pipeline events to stderr")
}

func main() {
	flag.Parse()
	if fFilename == "" {
		fmt.Fprintln(os.Stderr, "diagnostics: -filename is required")
		flag.Usage()
		os.Exit(2)
	}

	logger.Logger.SetOutput(os.Stderr)
	if fVerbose {
		logger.SetLevel("debug")
	} else {
		logger.SetLevel("warn")
	}

	report, err := run(context.Background())
	if err != nil {
		logger.WithError(err).WithField("filename", fFilename).Error("Diagnostics failed")
		os.Exit(1)
	}
	fmt.Print(report.Text())
}

func run(ctx context.Context) (*models.Report, error) {
	fetcher, source, err := openSource(fFilename)
	if err != nil {
		return nil, err
	}

	diagnostician := analyzer.NewDiagnostician(fWorkers)
	defer diagnostician.Close()

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))

	svc := service.NewDiagnosticsService(
		repository.NewRasterRepository(fetcher),
		repository.NewMemoryReportRepository(1),
		diagnostician,
		nil,
		events,
		service.Settings{Defaults: analyzer.DefaultOptions()},
	)

	req := models.DiagnoseRequest{
		URL:                 source,
		KernelSize:          &fKernel,
		SaturationThreshold: &fSaturation,
		BorderThreshold:     &fBorder,
		KeepResidual:        fResidual != "",
	}
	report, err := svc.Diagnose(ctx, req)
	if err != nil {
		return nil, err
	}

	if fResidual != "" {
		data, err := svc.ResidualPreview(ctx, report.ID)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(fResidual, data, 0o644); err != nil {
			return nil, fmt.Errorf("write residual: %w", err)
		}
		logger.WithFields(logrus.Fields{"path": fResidual}).Info("Residual map written")
	}
	return report, nil
}

// openSource picks a fetcher for name: URLs go over HTTP, anything else is a
// file read relative to its own directory.
func openSource(name string) (storage.ImageFetcher, string, error) {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return storage.NewHTTPImageFetcher(0, nil), name, nil
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, "", err
	}
	fetcher, err := storage.NewLocalFileFetcher(filepath.Dir(abs))
	if err != nil {
		return nil, "", err
	}
	return fetcher, filepath.Base(abs), nil
}

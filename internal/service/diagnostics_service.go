package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-diagnostics-go/internal/errors"
	"github.com/anime-shed/image-diagnostics-go/internal/logger"
	"github.com/anime-shed/image-diagnostics-go/internal/observer"
	"github.com/anime-shed/image-diagnostics-go/internal/raster"
	"github.com/anime-shed/image-diagnostics-go/internal/repository"
	"github.com/anime-shed/image-diagnostics-go/internal/storage"
	"github.com/anime-shed/image-diagnostics-go/internal/visualize"
	"github.com/anime-shed/image-diagnostics-go/pkg/models"
	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

// DiagnosticsService runs diagnostics on image sources and keeps the results
type DiagnosticsService interface {
	Diagnose(ctx context.Context, req models.DiagnoseRequest) (*models.Report, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ResidualPreview(ctx context.Context, id string) ([]byte, error)
}

// Settings holds the server-wide defaults applied to every request
type Settings struct {
	Defaults        analyzer.Options
	AnalysisTimeout time.Duration
}

type diagnosticsService struct {
	rasters       repository.RasterRepository
	reports       repository.ReportRepository
	diagnostician analyzer.Diagnostician
	validator     *validation.ReportValidator
	events        observer.Subject
	settings      Settings
}

// NewDiagnosticsService creates a new diagnostics service
func NewDiagnosticsService(
	rasters repository.RasterRepository,
	reports repository.ReportRepository,
	diagnostician analyzer.Diagnostician,
	validator *validation.ReportValidator,
	events observer.Subject,
	settings Settings,
) DiagnosticsService {
	if validator == nil {
		validator = validation.NewReportValidator()
	}
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &diagnosticsService{
		rasters:       rasters,
		reports:       reports,
		diagnostician: diagnostician,
		validator:     validator,
		events:        events,
		settings:      settings,
	}
}

func (s *diagnosticsService) Diagnose(ctx context.Context, req models.DiagnoseRequest) (*models.Report, error) {
	start := time.Now()
	options := s.options(req)
	log := logger.WithFields(logrus.Fields{
		"source":      req.URL,
		"backend":     s.rasters.Backend(),
		"kernel_size": options.KernelSize,
	})

	if err := analyzer.CheckKernelSize(options.KernelSize); err != nil {
		return nil, apperrors.NewValidationError("kernel_size must be odd and positive", err)
	}
	if err := s.rasters.ValidateSource(req.URL); err != nil {
		return nil, asValidationError(err)
	}

	s.events.NotifyObservers(ctx, observer.DiagnosisEvent{EventType: observer.DiagnosisStarted, Source: req.URL})

	r, err := s.rasters.LoadRaster(ctx, req.URL)
	if err != nil {
		appErr := fetchError(err)
		s.events.NotifyObservers(ctx, observer.DiagnosisEvent{
			EventType:      observer.ImageFetchFailed,
			Source:         req.URL,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		s.fail(ctx, req.URL, start, appErr)
		log.WithError(err).Warn("Image fetch failed")
		return nil, appErr
	}
	s.events.NotifyObservers(ctx, observer.DiagnosisEvent{
		EventType:      observer.ImageFetched,
		Source:         req.URL,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"width": r.Width(), "height": r.Height()},
	})

	report, err := s.run(ctx, r, options)
	if err != nil {
		appErr := apperrors.FromDiagnosticsError(err)
		s.fail(ctx, req.URL, start, appErr)
		log.WithError(err).Warn("Diagnosis failed")
		return nil, appErr
	}

	record := &repository.ReportRecord{
		Source:         req.URL,
		ProcessingTime: time.Since(start),
		Report:         report,
		Issues:         s.validator.Validate(reportMetrics(report)),
	}
	if _, err := s.reports.Save(ctx, record); err != nil {
		appErr := apperrors.NewInternalError("failed to store report", err)
		s.fail(ctx, req.URL, start, appErr)
		return nil, appErr
	}

	s.events.NotifyObservers(ctx, observer.DiagnosisEvent{
		EventType:      observer.DiagnosisCompleted,
		Source:         req.URL,
		ProcessingTime: record.ProcessingTime,
		Success:        true,
		Metadata: map[string]interface{}{
			"report_id":   record.ID,
			"noise_sigma": report.NoiseSigma,
			"issues":      len(record.Issues),
		},
	})
	log.WithFields(logrus.Fields{
		"report_id":        record.ID,
		"noise_sigma":      report.NoiseSigma,
		"saturation_ratio": report.SaturationRatio,
		"border_dark":      report.BorderDark,
		"duration_ms":      record.ProcessingTime.Milliseconds(),
	}).Info("Diagnosis stored")

	return toReport(record), nil
}

// run executes the analyzer under the analysis timeout. The analyzer itself is
// not cancellable; on timeout its result is discarded.
func (s *diagnosticsService) run(ctx context.Context, r *analyzer.Raster, options analyzer.Options) (analyzer.DiagnosticsReport, error) {
	if s.settings.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.AnalysisTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return analyzer.DiagnosticsReport{}, err
	}

	type result struct {
		report analyzer.DiagnosticsReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := s.diagnostician.Diagnose(r, options)
		done <- result{report, err}
	}()

	select {
	case res := <-done:
		return res.report, res.err
	case <-ctx.Done():
		return analyzer.DiagnosticsReport{}, fmt.Errorf("diagnose: %w", ctx.Err())
	}
}

func (s *diagnosticsService) fail(ctx context.Context, source string, start time.Time, err error) {
	s.events.NotifyObservers(ctx, observer.DiagnosisEvent{
		EventType:      observer.DiagnosisFailed,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
}

// options overlays request parameters on the server defaults
func (s *diagnosticsService) options(req models.DiagnoseRequest) analyzer.Options {
	options := s.settings.Defaults
	if req.KernelSize != nil {
		options = options.WithKernelSize(*req.KernelSize)
	}
	saturation, border := options.SaturationThreshold, options.BorderThreshold
	if req.SaturationThreshold != nil {
		saturation = *req.SaturationThreshold
	}
	if req.BorderThreshold != nil {
		border = *req.BorderThreshold
	}
	options = options.WithThresholds(saturation, border)
	if req.KeepResidual {
		options = options.WithResidual()
	}
	return options
}

func (s *diagnosticsService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	record, err := s.record(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReport(record), nil
}

func (s *diagnosticsService) ResidualPreview(ctx context.Context, id string) ([]byte, error) {
	record, err := s.record(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Report.Residual == nil {
		return nil, apperrors.NewNotFoundError("residual was not kept for this report", repository.ErrResidualUnavailable)
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("Residual (noise) map  sigma=%.4f", record.Report.NoiseSigma)
	if err := visualize.WriteResidualPNG(&buf, record.Report.Residual, title); err != nil {
		return nil, apperrors.NewInternalError("failed to render residual", err)
	}
	return buf.Bytes(), nil
}

func (s *diagnosticsService) record(ctx context.Context, id string) (*repository.ReportRecord, error) {
	record, err := s.reports.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, apperrors.NewNotFoundError("report not found", err)
		}
		return nil, apperrors.NewInternalError("failed to load report", err)
	}
	return record, nil
}

func asValidationError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewValidationError("invalid image source", err)
}

func fetchError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, storage.ErrSourceNotFound):
		return apperrors.NewNotFoundError("image source not found", err)
	case errors.Is(err, raster.ErrTooManyPixels):
		return apperrors.NewProcessingError("image exceeds pixel limit", err)
	case errors.Is(err, storage.ErrImageDecode):
		return apperrors.NewInvalidRasterError("image could not be decoded", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("image fetch timed out", err)
	default:
		return apperrors.NewNetworkError("failed to fetch image", err)
	}
}

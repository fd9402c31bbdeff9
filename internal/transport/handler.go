package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/image-diagnostics-go/internal/config"
	apperrors "github.com/anime-shed/image-diagnostics-go/internal/errors"
	"github.com/anime-shed/image-diagnostics-go/internal/logger"
	"github.com/anime-shed/image-diagnostics-go/internal/observer"
	"github.com/anime-shed/image-diagnostics-go/internal/service"
	"github.com/anime-shed/image-diagnostics-go/pkg/models"
)

// ReportCounter reports how many diagnostics are currently stored
type ReportCounter interface {
	Len() int
}

// Dependencies are the components the HTTP layer serves
type Dependencies struct {
	Service service.DiagnosticsService
	Metrics *observer.MetricsObserver
	Reports ReportCounter
	Backend string
}

func NewHandler(deps Dependencies, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck(deps))
	r.GET("/metrics", metrics(deps.Metrics))
	r.POST("/diagnose", diagnose(deps.Service, cfg.RequestTimeout))
	r.GET("/reports/:id", getReport(deps.Service))
	r.GET("/reports/:id/residual.png", getResidual(deps.Service))

	return r
}

func diagnose(svc service.DiagnosticsService, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		var req models.DiagnoseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(c, http.StatusRequestEntityTooLarge, "request body too large", err)
				return
			}
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"source":        req.URL,
			"keep_residual": req.KeepResidual,
			"ip":            c.ClientIP(),
		}).Debug("Diagnose request accepted")

		report, err := svc.Diagnose(ctx, req)
		if err != nil {
			respondError(c, determineStatusCode(err), "diagnosis failed", err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

func getReport(svc service.DiagnosticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.GetReport(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, determineStatusCode(err), "report lookup failed", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func getResidual(svc service.DiagnosticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := svc.ResidualPreview(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, determineStatusCode(err), "residual preview failed", err)
			return
		}
		c.Data(http.StatusOK, "image/png", data)
	}
}

func healthCheck(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.HealthResponse{Status: "available", Backend: deps.Backend}
		if deps.Reports != nil {
			resp.Reports = deps.Reports.Len()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func metrics(m *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.JSON(http.StatusOK, observer.Metrics{})
			return
		}
		c.JSON(http.StatusOK, m.GetMetrics())
	}
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		}).Info("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	resp := models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		if appErr.Cause != nil {
			resp.Details = appErr.Cause.Error()
		}
	}
	c.AbortWithStatusJSON(code, resp)
}

package validation

import "fmt"

// Issue severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ReportThresholds defines configurable limits for judging a diagnostics report
type ReportThresholds struct {
	// Residual standard deviation above which the image is considered noisy
	MaxNoiseSigma float64
	// Residual standard deviation above which noise is reported as an error
	SevereNoiseSigma float64

	// Fraction of clipped pixels tolerated before warning / failing
	MaxSaturationRatio    float64
	SevereSaturationRatio float64

	// Per-channel max-min spread below which the channel is flagged as flat
	MinChannelRange float64
}

// DefaultReportThresholds returns the default report thresholds
func DefaultReportThresholds() ReportThresholds {
	return ReportThresholds{
		MaxNoiseSigma:         0.02,
		SevereNoiseSigma:      0.08,
		MaxSaturationRatio:    0.01,
		SevereSaturationRatio: 0.10,
		MinChannelRange:       0.05,
	}
}

// ChannelRange holds the spread of a single channel
type ChannelRange struct {
	Name string
	Min  float64
	Max  float64
}

// ReportMetrics is the subset of a diagnostics report the validator looks at
type ReportMetrics struct {
	NoiseSigma      float64
	SaturationRatio float64
	BorderDark      bool
	BorderMean      float64
	CoreMean        float64
	Channels        []ChannelRange
}

// Issue is a single finding about a report
type Issue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"`
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// ReportValidator turns raw diagnostics into human readable issues
type ReportValidator struct {
	thresholds ReportThresholds
}

// NewReportValidator creates a report validator with default thresholds
func NewReportValidator() *ReportValidator {
	return &ReportValidator{thresholds: DefaultReportThresholds()}
}

// NewReportValidatorWithThresholds creates a report validator with custom thresholds
func NewReportValidatorWithThresholds(thresholds ReportThresholds) *ReportValidator {
	return &ReportValidator{thresholds: thresholds}
}

// Thresholds returns the thresholds in use
func (rv *ReportValidator) Thresholds() ReportThresholds {
	return rv.thresholds
}

// Validate returns the issues found in metrics, most severe checks first
func (rv *ReportValidator) Validate(metrics ReportMetrics) []Issue {
	var issues []Issue

	switch {
	case metrics.NoiseSigma >= rv.thresholds.SevereNoiseSigma:
		issues = append(issues, Issue{
			Type:        "high_noise",
			Message:     "Residual noise is very high. Check sensor gain or render sample count.",
			Severity:    SeverityError,
			ActualValue: metrics.NoiseSigma,
			Threshold:   rv.thresholds.SevereNoiseSigma,
		})
	case metrics.NoiseSigma >= rv.thresholds.MaxNoiseSigma:
		issues = append(issues, Issue{
			Type:        "noise",
			Message:     "Image shows visible noise.",
			Severity:    SeverityWarning,
			ActualValue: metrics.NoiseSigma,
			Threshold:   rv.thresholds.MaxNoiseSigma,
		})
	}

	switch {
	case metrics.SaturationRatio >= rv.thresholds.SevereSaturationRatio:
		issues = append(issues, Issue{
			Type:        "clipped_highlights",
			Message:     "A large share of pixels is clipped at full intensity.",
			Severity:    SeverityError,
			ActualValue: metrics.SaturationRatio,
			Threshold:   rv.thresholds.SevereSaturationRatio,
		})
	case metrics.SaturationRatio >= rv.thresholds.MaxSaturationRatio:
		issues = append(issues, Issue{
			Type:        "saturation",
			Message:     "Some highlights are clipped.",
			Severity:    SeverityWarning,
			ActualValue: metrics.SaturationRatio,
			Threshold:   rv.thresholds.MaxSaturationRatio,
		})
	}

	if metrics.BorderDark {
		issues = append(issues, Issue{
			Type:        "dark_border",
			Message:     fmt.Sprintf("Border is darker than the interior (%.4f vs %.4f). Possible vignetting or padding.", metrics.BorderMean, metrics.CoreMean),
			Severity:    SeverityWarning,
			ActualValue: metrics.CoreMean - metrics.BorderMean,
		})
	}

	for _, ch := range metrics.Channels {
		spread := ch.Max - ch.Min
		if spread < rv.thresholds.MinChannelRange {
			issues = append(issues, Issue{
				Type:        "flat_channel",
				Message:     fmt.Sprintf("Channel %s has almost no dynamic range.", ch.Name),
				Severity:    SeverityInfo,
				ActualValue: spread,
				Threshold:   rv.thresholds.MinChannelRange,
			})
		}
	}

	return issues
}

// HasErrors reports whether any issue has error severity
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

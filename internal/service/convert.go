package service

import (
	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
	"github.com/anime-shed/image-diagnostics-go/internal/repository"
	"github.com/anime-shed/image-diagnostics-go/pkg/models"
	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

func toReport(record *repository.ReportRecord) *models.Report {
	r := record.Report
	return &models.Report{
		ID:                record.ID,
		Source:            record.Source,
		Timestamp:         record.CreatedAt,
		ProcessingTimeSec: record.ProcessingTime.Seconds(),
		Width:             r.Width,
		Height:            r.Height,
		Channels: models.Channels{
			R: toSummary(r.Channels.R),
			G: toSummary(r.Channels.G),
			B: toSummary(r.Channels.B),
		},
		NoiseSigma:      r.NoiseSigma,
		SaturationRatio: r.SaturationRatio,
		BorderDark:      r.BorderDark,
		BorderMean:      r.BorderMean,
		CoreMean:        r.CoreMean,
		Parameters: models.Parameters{
			KernelSize:          r.Options.KernelSize,
			SaturationThreshold: r.Options.SaturationThreshold,
			BorderThreshold:     r.Options.BorderThreshold,
		},
		ResidualAvailable: r.Residual != nil,
		Issues:            record.Issues,
	}
}

func toSummary(s analyzer.ChannelStats) models.ChannelSummary {
	return models.ChannelSummary{Mean: s.Mean, Std: s.Std, Min: s.Min, Max: s.Max}
}

// reportMetrics extracts what the report validator needs
func reportMetrics(r analyzer.DiagnosticsReport) validation.ReportMetrics {
	metrics := validation.ReportMetrics{
		NoiseSigma:      r.NoiseSigma,
		SaturationRatio: r.SaturationRatio,
		BorderDark:      r.BorderDark,
		BorderMean:      r.BorderMean,
		CoreMean:        r.CoreMean,
	}
	for i, name := range analyzer.ChannelNames {
		s := r.Channels.ByIndex(i)
		metrics.Channels = append(metrics.Channels, validation.ChannelRange{Name: name, Min: s.Min, Max: s.Max})
	}
	return metrics
}

package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

// ChannelSummary holds the statistics of one colour channel
type ChannelSummary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Channels groups the R, G and B summaries
type Channels struct {
	R ChannelSummary `json:"R"`
	G ChannelSummary `json:"G"`
	B ChannelSummary `json:"B"`
}

// Parameters records the settings a report was computed with
type Parameters struct {
	KernelSize          int     `json:"kernel_size"`
	SaturationThreshold float64 `json:"saturation_threshold"`
	BorderThreshold     float64 `json:"border_threshold"`
}

// Report is the public form of a diagnostics run
type Report struct {
	ID                string             `json:"id,omitempty"`
	Source            string             `json:"source"`
	Timestamp         time.Time          `json:"timestamp"`
	ProcessingTimeSec float64            `json:"processing_time_sec"`
	Width             int                `json:"width"`
	Height            int                `json:"height"`
	Channels          Channels           `json:"channels"`
	NoiseSigma        float64            `json:"noise_sigma"`
	SaturationRatio   float64            `json:"saturation_ratio"`
	BorderDark        bool               `json:"border_dark"`
	BorderMean        float64            `json:"border_mean"`
	CoreMean          float64            `json:"core_mean"`
	Parameters        Parameters         `json:"parameters"`
	ResidualAvailable bool               `json:"residual_available"`
	Issues            []validation.Issue `json:"issues,omitempty"`
}

// Text renders the report in the plain layout used by the command line tool
func (r *Report) Text() string {
	var b strings.Builder

	b.WriteString("== Basic RGB stats ==\n")
	for _, ch := range []struct {
		name string
		s    ChannelSummary
	}{{"R", r.Channels.R}, {"G", r.Channels.G}, {"B", r.Channels.B}} {
		fmt.Fprintf(&b, "%s: {'mean': %s, 'std': %s, 'min': %s, 'max': %s}\n",
			ch.name, formatFloat(ch.s.Mean), formatFloat(ch.s.Std), formatFloat(ch.s.Min), formatFloat(ch.s.Max))
	}

	fmt.Fprintf(&b, "\nApprox. noise σ : %.4f\n", r.NoiseSigma)
	fmt.Fprintf(&b, "Saturated ratio : %.2f%%\n", r.SaturationRatio*100)
	fmt.Fprintf(&b, "Border too dark : %s\n", formatBool(r.BorderDark))

	if len(r.Issues) > 0 {
		b.WriteString("\n== Issues ==\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "[%s] %s: %s\n", issue.Severity, issue.Type, issue.Message)
		}
	}
	return b.String()
}

// formatFloat renders v the way the text report has always shown floats:
// shortest round-trip digits, positional for exponents in [-4, 16) and
// scientific otherwise, with a trailing ".0" on whole numbers.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

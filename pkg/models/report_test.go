package models

import (
	"math"
	"strings"
	"testing"

	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

func TestReportText(t *testing.T) {
	report := &Report{
		Channels: Channels{
			R: ChannelSummary{Mean: 0.5, Std: 0.25, Min: 0, Max: 1},
			G: ChannelSummary{Mean: 0.125, Std: 0, Min: 0.125, Max: 0.125},
			B: ChannelSummary{Mean: 1, Std: 0, Min: 1, Max: 1},
		},
		NoiseSigma:      0.012345,
		SaturationRatio: 0.0375,
		BorderDark:      true,
	}

	want := "== Basic RGB stats ==\n" +
		"R: {'mean': 0.5, 'std': 0.25, 'min': 0.0, 'max': 1.0}\n" +
		"G: {'mean': 0.125, 'std': 0.0, 'min': 0.125, 'max': 0.125}\n" +
		"B: {'mean': 1.0, 'std': 0.0, 'min': 1.0, 'max': 1.0}\n" +
		"\nApprox. noise σ : 0.0123\n" +
		"Saturated ratio : 3.75%\n" +
		"Border too dark : True\n"

	if got := report.Text(); got != want {
		t.Errorf("Text() mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestReportText_Issues(t *testing.T) {
	report := &Report{
		Issues: []validation.Issue{{Type: "noise", Severity: "warning", Message: "Image shows visible noise."}},
	}

	text := report.Text()
	if !strings.Contains(text, "Border too dark : False") {
		t.Errorf("Expected False border line, got %q", text)
	}
	if !strings.Contains(text, "[warning] noise: Image shows visible noise.") {
		t.Errorf("Expected issue line, got %q", text)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{20, "20.0"},
		{255, "255.0"},
		{0.1, "0.1"},
		{1.0 / 3, "0.3333333333333333"},
		{1e6, "1000000.0"},
		{1234567.25, "1234567.25"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1.5e-7, "1.5e-07"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

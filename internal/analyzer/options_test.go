package analyzer

import "testing"

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.KernelSize != 5 {
		t.Errorf("Expected kernel size 5, got %d", opts.KernelSize)
	}
	if opts.SaturationThreshold != 0.98 {
		t.Errorf("Expected saturation threshold 0.98, got %f", opts.SaturationThreshold)
	}
	if opts.BorderThreshold != 1e-3 {
		t.Errorf("Expected border threshold 1e-3, got %g", opts.BorderThreshold)
	}
	if opts.KeepResidual {
		t.Error("Expected residual to be dropped by default")
	}
}

func TestOptionsBuilders(t *testing.T) {
	base := DefaultOptions()
	opts := base.WithKernelSize(7).WithThresholds(0.9, 0.05).WithResidual()

	if opts.KernelSize != 7 {
		t.Errorf("Expected kernel size 7, got %d", opts.KernelSize)
	}
	if opts.SaturationThreshold != 0.9 || opts.BorderThreshold != 0.05 {
		t.Errorf("Expected thresholds 0.9/0.05, got %f/%f", opts.SaturationThreshold, opts.BorderThreshold)
	}
	if !opts.KeepResidual {
		t.Error("Expected residual to be kept")
	}

	// builders work on copies
	if base.KernelSize != 5 || base.KeepResidual {
		t.Error("Expected base options to be unchanged")
	}
}

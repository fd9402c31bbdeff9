package analyzer

// Options configures a diagnostics run
type Options struct {
	// Noise estimation window, odd and no larger than the raster
	KernelSize int

	// Thresholds
	SaturationThreshold float64
	BorderThreshold     float64

	// Keep the residual raster in the report for later visualisation
	KeepResidual bool
}

// DefaultOptions returns the standard parameters: 5x5 kernel, 0.98 saturation
// threshold and 1e-3 border margin.
func DefaultOptions() Options {
	return Options{
		KernelSize:          DefaultKernelSize,
		SaturationThreshold: DefaultSaturationThreshold,
		BorderThreshold:     DefaultBorderThreshold,
		KeepResidual:        false,
	}
}

// WithKernelSize sets the noise estimation window
func (opts Options) WithKernelSize(k int) Options {
	opts.KernelSize = k
	return opts
}

// WithThresholds sets the saturation and border thresholds
func (opts Options) WithThresholds(saturation, border float64) Options {
	opts.SaturationThreshold = saturation
	opts.BorderThreshold = border
	return opts
}

// WithResidual keeps the residual raster in the report
func (opts Options) WithResidual() Options {
	opts.KeepResidual = true
	return opts
}

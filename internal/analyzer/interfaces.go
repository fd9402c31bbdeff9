package analyzer

// Diagnostician runs the full diagnostics suite over a raster
type Diagnostician interface {
	Diagnose(r *Raster, options Options) (DiagnosticsReport, error)

	// Lifecycle management
	Close() error
}

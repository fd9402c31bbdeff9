package analyzer

// DiagnosticsReport aggregates the four analyses of one raster. It is built
// once and not modified afterwards.
type DiagnosticsReport struct {
	Width           int
	Height          int
	Channels        ChannelSet
	NoiseSigma      float64
	SaturationRatio float64
	BorderDark      bool
	BorderMean      float64
	CoreMean        float64
	Options         Options

	// Residual is set only when Options.KeepResidual is true
	Residual *ResidualRaster
}

package analyzer

import (
	"errors"
	"fmt"
)

// coreAnalyzer implements Diagnostician on top of a shared worker pool
type coreAnalyzer struct {
	workerPool *WorkerPool
}

// NewDiagnostician creates an analyzer backed by a pool of maxWorkers
// goroutines (0 means one per CPU).
func NewDiagnostician(maxWorkers int) Diagnostician {
	workerPool := NewWorkerPool(maxWorkers)
	workerPool.Start()

	return &coreAnalyzer{workerPool: workerPool}
}

// Diagnose runs statistics, noise estimation, saturation and border analyses
// concurrently and aggregates them. The four jobs only read the raster and each
// writes its own variables, so no locking is needed. If any analysis fails the
// whole call fails and no report is returned.
func (ca *coreAnalyzer) Diagnose(r *Raster, options Options) (DiagnosticsReport, error) {
	if r.Empty() {
		return DiagnosticsReport{}, fmt.Errorf("diagnose: %w", ErrEmptyRaster)
	}

	var (
		channels             ChannelSet
		sigma, saturation    float64
		residual             *ResidualRaster
		borderMean, coreMean float64
		errStats, errNoise   error
		errSat, errBorder    error
	)

	group := ca.workerPool.Group()
	group.Submit(func() {
		channels, errStats = ComputeStats(r)
	})
	group.Submit(func() {
		sigma, residual, errNoise = EstimateNoise(r, options.KernelSize)
	})
	group.Submit(func() {
		saturation, errSat = SaturationRatio(r, options.SaturationThreshold)
	})
	group.Submit(func() {
		borderMean, coreMean, errBorder = BorderMeans(r)
	})
	group.Wait()

	if err := errors.Join(errStats, errNoise, errSat, errBorder); err != nil {
		return DiagnosticsReport{}, fmt.Errorf("diagnose: %w", err)
	}

	report := DiagnosticsReport{
		Width:           r.Width(),
		Height:          r.Height(),
		Channels:        channels,
		NoiseSigma:      sigma,
		SaturationRatio: saturation,
		BorderDark:      coreMean-borderMean > options.BorderThreshold,
		BorderMean:      borderMean,
		CoreMean:        coreMean,
		Options:         options,
	}
	if options.KeepResidual {
		report.Residual = residual
	}
	return report, nil
}

// Close shuts the worker pool down
func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}

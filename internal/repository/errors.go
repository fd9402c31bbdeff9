package repository

import "errors"

var (
	// ErrReportNotFound indicates no stored report has the requested ID
	ErrReportNotFound = errors.New("report not found")

	// ErrResidualUnavailable indicates the report was stored without its residual
	ErrResidualUnavailable = errors.New("residual not retained for report")

	// ErrInvalidReport indicates a report that cannot be stored
	ErrInvalidReport = errors.New("invalid report")
)

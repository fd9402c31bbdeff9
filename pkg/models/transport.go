package models

// DiagnoseRequest asks for diagnostics of one image source. URL is interpreted by
// the configured storage backend: an http(s) URL, a blob path or a file path.
// Omitted parameters fall back to the server defaults.
type DiagnoseRequest struct {
	URL                 string   `json:"url" binding:"required"`
	KernelSize          *int     `json:"kernel_size,omitempty"`
	SaturationThreshold *float64 `json:"saturation_threshold,omitempty"`
	BorderThreshold     *float64 `json:"border_threshold,omitempty"`
	KeepResidual        bool     `json:"keep_residual,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Reports int    `json:"reports"`
}

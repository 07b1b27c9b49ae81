package chi

import "time"

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeUnauthorized       = "unauthorized"
	codeIndexNotReady      = "index_not_ready"
	codeBuildInProgress    = "index_build_in_progress"
	codeStorageUnavailable = "storage_unavailable"
	codeNotFound           = "not_found"
	codeInternalError      = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecommendationRequest is the JSON body of POST /v1/recommendations.
type RecommendationRequest struct {
	Destinations      []string   `json:"destinations,omitempty"`
	DestinationGroups [][]string `json:"destination_groups,omitempty"`
	StartLocation     string     `json:"start_location,omitempty"`
	EndLocation       string     `json:"end_location,omitempty"`
	Region            string     `json:"region,omitempty"`
	Countries         []string   `json:"countries,omitempty"`
	TripTypes         []string   `json:"trip_types,omitempty"`
	DurationMin       *int       `json:"duration_min,omitempty"`
	DurationMax       *int       `json:"duration_max,omitempty"`
	Tier              string     `json:"tier,omitempty"`
	DepartureType     string     `json:"departure_type,omitempty"`
	NameQuery         string     `json:"name_query,omitempty"`
	Query             string     `json:"query,omitempty"`
	Limit             int        `json:"limit,omitempty"`
	Sort              string     `json:"sort,omitempty"`
}

// PackageResult is one recommended package in the response.
type PackageResult struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	URL            string   `json:"url,omitempty"`
	Score          float64  `json:"score"`
	Similarity     float64  `json:"similarity,omitempty"`
	Reasons        []string `json:"reasons"`
	Countries      []string `json:"countries,omitempty"`
	Cities         []string `json:"cities,omitempty"`
	Regions        []string `json:"regions,omitempty"`
	TripTypes      []string `json:"trip_types,omitempty"`
	DurationNights int      `json:"duration_nights,omitempty"`
	Tier           string   `json:"tier,omitempty"`
	DepartureType  string   `json:"departure_type,omitempty"`
	PriceCents     int64    `json:"price_cents,omitempty"`
}

// RecommendationResponse is the JSON body returned by POST /v1/recommendations.
type RecommendationResponse struct {
	Results        []PackageResult `json:"results"`
	TotalMatched   int             `json:"total_matched"`
	Returned       int             `json:"returned"`
	RelaxedFilters []string        `json:"relaxed_filters,omitempty"`
	Summary        string          `json:"summary"`
}

// IndexBuildResponse is returned by POST /v1/admin/index/build.
type IndexBuildResponse struct {
	IndexedItems int `json:"indexed_items"`
}

// IndexStatusResponse is returned by GET /v1/admin/index/status.
type IndexStatusResponse struct {
	Ready     bool       `json:"ready"`
	ItemCount int        `json:"item_count"`
	VocabSize int        `json:"vocab_size"`
	BuiltAt   *time.Time `json:"built_at,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

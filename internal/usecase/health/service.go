package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the database answered.
	Healthy Status = "ok"
	// Unhealthy indicates the database check failed.
	Unhealthy Status = "error"
)

// DatabaseState describes database connectivity.
type DatabaseState string

const (
	// Connected indicates the count query succeeded.
	Connected DatabaseState = "connected"
	// Disconnected indicates the count query failed.
	Disconnected DatabaseState = "disconnected"
)

// Report is the outcome of a health check.
type Report struct {
	Status   Status
	Database DatabaseState
	Records  int64
	Err      error
}

// Service coordinates health checks.
type Service struct {
	counter RecordCounter
}

// New creates a Service.
func New(counter RecordCounter) *Service {
	return &Service{counter: counter}
}

// Check counts records. Any failure yields an Unhealthy report carrying the cause.
func (s *Service) Check(ctx context.Context) Report {
	n, err := s.counter.Count(ctx)
	if err != nil {
		return Report{Status: Unhealthy, Database: Disconnected, Err: err}
	}
	return Report{Status: Healthy, Database: Connected, Records: n}
}

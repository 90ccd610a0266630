package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates the store cannot serve requests.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Engines int
}

// Service coordinates health checks.
type Service struct {
	store EngineLister
}

// New creates a Service.
func New(store EngineLister) *Service {
	return &Service{store: store}
}

// Check verifies the store and reports the number of engines.
func (s *Service) Check(ctx context.Context) Report {
	engines, err := s.store.ListEngines(ctx)
	if err != nil {
		return Report{Status: Unhealthy, Checks: map[string]CheckResult{"store": CheckError}}
	}
	return Report{
		Status:  Healthy,
		Checks:  map[string]CheckResult{"store": CheckOK},
		Engines: len(engines),
	}
}

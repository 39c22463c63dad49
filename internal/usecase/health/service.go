package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// ProviderChecker verifies LLM provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	provider ProviderChecker
}

// New creates a Service. provider may be nil (no credential configured);
// the service then reports degraded rather than failing.
func New(provider ProviderChecker) *Service {
	return &Service{provider: provider}
}

// Check runs health checks against all components. A provider failure
// degrades the report: queries still fall back to raw answers where
// possible, but new index materialization will fail.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.provider == nil {
		checks["llm_provider"] = CheckError
		status = Degraded
	} else if err := s.provider.HealthCheck(ctx); err != nil {
		checks["llm_provider"] = CheckError
		status = Degraded
	} else {
		checks["llm_provider"] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}

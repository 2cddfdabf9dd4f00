package ports

import "context"

// HealthChecker verifies one dependency is reachable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

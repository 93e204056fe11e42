package clusters

import (
	"errors"
	"fmt"
)

// Common errors for cluster providers.
var (
	// ErrNetwork wraps transport failures (DNS, connection, timeout, cancellation).
	ErrNetwork = errors.New("cluster service unreachable")
	// ErrService marks a response the backend produced but we cannot use.
	ErrService = errors.New("cluster service error")
	// ErrUnauthorized is returned for 401/403 responses. It is also an ErrService.
	ErrUnauthorized = fmt.Errorf("%w: unauthorized (invalid API token)", ErrService)
)

// ServiceError carries the status and body of a non-200 response.
type ServiceError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("cluster service %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrService) true for every ServiceError.
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

package sitegraph

import (
	"fmt"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
)

// Sentinel errors shared with the device description checks.
var (
	ErrUndeclaredReference = device.ErrUndeclaredReference
	ErrInvalidPip          = device.ErrInvalidPip
	ErrDuplicateName       = device.ErrDuplicateName
)

// BuildError reports why the graph of a site type could not be built.
type BuildError struct {
	SiteType string
	Part     string // offending wire or pip
	Cause    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("build site graph %s (%s): %v", e.SiteType, e.Part, e.Cause)
	}
	return fmt.Sprintf("build site graph %s: %v", e.SiteType, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

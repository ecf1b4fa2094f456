package device

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrUndeclaredReference = errors.New("undeclared reference")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrInvalidPip          = errors.New("invalid site pip")
	ErrInvalidAttachment   = errors.New("invalid wire attachment")
	ErrInvalidState        = errors.New("invalid state reference")
	ErrUnsupportedFormat   = errors.New("unsupported device file format")
)

// DeviceError locates a problem inside a device description.
type DeviceError struct {
	Entity string // e.g. "site type", "tile type", "tile"
	Name   string // name of the entity
	Part   string // element inside the entity, if any (e.g. "wire O6")
	Cause  error
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("%s %s, %s: %v", e.Entity, e.Name, e.Part, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Entity, e.Name, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DeviceError) Unwrap() error {
	return e.Cause
}

// LoadError reports a device file that could not be read or decoded.
type LoadError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load device %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

func siteErr(st *SiteType, part string, cause error) error {
	return &DeviceError{Entity: "site type", Name: st.Name, Part: part, Cause: cause}
}

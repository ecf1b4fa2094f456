package preprocess

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTileType is returned when a selection names a tile type the
// device does not have.
var ErrUnknownTileType = errors.New("unknown tile type")

// Stages at which a tile type can fail.
const (
	StageRoute  = "route"
	StageExport = "export"
	StagePanic  = "panic"
)

// TileError is the failure of one tile type. Other tile types are not
// affected by it.
type TileError struct {
	TileType string
	Stage    string
	Cause    error
}

// Error implements the error interface.
func (e *TileError) Error() string {
	return fmt.Sprintf("tile type %s: %s: %v", e.TileType, e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *TileError) Unwrap() error {
	return e.Cause
}

// RunError aggregates the tile types that failed in a run.
type RunError struct {
	Failed []*TileError
	Total  int
}

// Error implements the error interface.
func (e *RunError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d of %d tile types failed: %s", len(e.Failed), e.Total, strings.Join(parts, "; "))
}

// Unwrap exposes every tile error to errors.Is and errors.As.
func (e *RunError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}

// TileTypes returns the names of the failed tile types.
func (e *RunError) TileTypes() []string {
	names := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		names[i] = f.TileType
	}
	return names
}

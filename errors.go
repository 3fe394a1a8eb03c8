package inkview

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound is matched by errors.Is for unknown or released
	// offscreen surface handles.
	ErrResourceNotFound = errors.New("inkview: resource not found")

	// ErrAllocation is matched by errors.Is when a surface cannot be allocated.
	ErrAllocation = errors.New("inkview: allocation failed")

	// ErrInvalidZoom is returned for zoom factors that would make the view
	// scale non-positive.
	ErrInvalidZoom = errors.New("inkview: zoom factor must be positive")

	// ErrNoContent is returned by operations that need loaded content.
	ErrNoContent = errors.New("inkview: no content loaded")
)

// ResourceNotFoundError reports a surface handle that is not registered.
type ResourceNotFoundError struct {
	Handle SurfaceHandle
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("inkview: offscreen surface %d not found", e.Handle)
}

// Is makes errors.Is(err, ErrResourceNotFound) succeed.
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// AllocationError reports a surface the backend could not create.
type AllocationError struct {
	Width, Height int
	Err           error
}

func (e *AllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inkview: allocate %dx%d surface: %v", e.Width, e.Height, e.Err)
	}
	return fmt.Sprintf("inkview: allocate %dx%d surface", e.Width, e.Height)
}

// Is makes errors.Is(err, ErrAllocation) succeed.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

package shared

import "fmt"

var (
	// Property model errors
	ErrSchema          = fmt.Errorf("schema error")
	ErrUnknownProperty = fmt.Errorf("unknown property")
	ErrInvalidValue    = fmt.Errorf("invalid property value")

	// Platform errors
	ErrConnection      = fmt.Errorf("native surface unreachable")
	ErrUnsupported     = fmt.Errorf("unsupported operation")
	ErrUnknownPlatform = fmt.Errorf("unknown platform")
	ErrAlreadyStarted  = fmt.Errorf("adapter already started")

	// Dispatch errors
	ErrStopped = fmt.Errorf("dispatcher stopped")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

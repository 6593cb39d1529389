package shared

import "fmt"

var (
	// Configuration errors
	ErrConfiguration = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthExchange = fmt.Errorf("authentication failed")
	ErrAuthRequired = fmt.Errorf("please login first")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest    = fmt.Errorf("API request failed")
	ErrSearchFailed  = fmt.Errorf("track search failed")
	ErrTrackNotFound = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

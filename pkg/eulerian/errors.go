package eulerian

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidBand is returned when the low cutoff is not below the high cutoff.
	ErrInvalidBand = errors.New("eulerian: low cutoff must be below high cutoff")

	// ErrInvalidAmplification is returned for a non-positive amplification factor.
	ErrInvalidAmplification = errors.New("eulerian: amplification must be positive")

	// ErrInvalidLevels is returned for a non-positive pyramid level count.
	ErrInvalidLevels = errors.New("eulerian: pyramid levels must be positive")

	// ErrInvalidFrameRate is returned for a non-positive nominal frame rate.
	ErrInvalidFrameRate = errors.New("eulerian: frame rate must be positive")

	// ErrEmptyFrame is returned when Process is called with an empty image.
	ErrEmptyFrame = errors.New("eulerian: empty frame")
)

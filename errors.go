package gan_utils

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfiguration BatchAssembler can't be built from provided arguments
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidArgument Requested number of samples is not positive
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrGeneration Generator failed or returned malformed output
	ErrGeneration = errors.New("generation failed")
)

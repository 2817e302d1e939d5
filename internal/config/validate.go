package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxExecutableLength bounds the configured editor executable.
const MaxExecutableLength = 500

// ErrUnsafeExecutable is returned for editor executables that could inject commands.
var ErrUnsafeExecutable = errors.New("unsafe editor executable")

// dangerousChars may not appear in an editor executable path.
const dangerousChars = "&|;`$()<>\n\r"

// ValidateExecutable rejects empty, oversized, or shell-significant executable paths.
func ValidateExecutable(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrUnsafeExecutable)
	}
	if len(path) > MaxExecutableLength {
		return fmt.Errorf("%w: path exceeds %d characters", ErrUnsafeExecutable, MaxExecutableLength)
	}
	if i := strings.IndexAny(path, dangerousChars); i >= 0 {
		return fmt.Errorf("%w: forbidden character %q in %q", ErrUnsafeExecutable, path[i], path)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	//nolint:errcheck // RegisterValidation only fails on empty tags or nil funcs
	v.RegisterValidation("safeexec", func(fl validator.FieldLevel) bool {
		return ValidateExecutable(fl.Field().String()) == nil
	})
	return v
}

package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FieldError is one failed check of a configuration field.
type FieldError struct {
	Field string // dotted path, e.g. "config.json.prefix"
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// ConfigValidator collects failed checks of a configuration value. Checks
// chain, and Validate reports all of them at once.
type ConfigValidator struct {
	root string
	errs []error
}

// NewConfigValidator starts a validator whose field paths are rooted at root.
func NewConfigValidator(root string) *ConfigValidator {
	return &ConfigValidator{root: root}
}

func (cv *ConfigValidator) add(field string, err error) {
	cv.errs = append(cv.errs, &FieldError{Field: cv.root + "." + field, Err: err})
}

func (cv *ConfigValidator) addf(field, format string, args ...any) {
	cv.add(field, fmt.Errorf(format, args...))
}

// Required fails when value is empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.addf(field, "must be set")
	}
	return cv
}

// NonNegative fails when value < 0. Zero usually means "use the default".
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.addf(field, "%d is negative", value)
	}
	return cv
}

// Unique fails once per repeated value.
func (cv *ConfigValidator) Unique(field string, values []string) *ConfigValidator {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			cv.addf(field, "%q listed twice", v)
			continue
		}
		seen[v] = struct{}{}
	}
	return cv
}

// Identifiers fails for every value that is neither an identifier nor one of
// the extra keywords.
func (cv *ConfigValidator) Identifiers(field string, values []string, keywords ...string) *ConfigValidator {
next:
	for _, v := range values {
		for _, k := range keywords {
			if v == k {
				continue next
			}
		}
		if !IsIdentifier(v) {
			cv.addf(field, "%q is not a valid name", v)
		}
	}
	return cv
}

// Location accepts an output location: empty (working directory), a local
// path, or s3://bucket[/prefix].
func (cv *ConfigValidator) Location(field, value string) *ConfigValidator {
	if !strings.Contains(value, "://") {
		return cv
	}
	u, err := url.Parse(value)
	switch {
	case err != nil:
		cv.add(field, err)
	case u.Scheme != "s3":
		cv.addf(field, "scheme %q is not supported", u.Scheme)
	case u.Host == "":
		cv.addf(field, "%q has no bucket", value)
	}
	return cv
}

// Check records err, if any, against field.
func (cv *ConfigValidator) Check(field string, err error) *ConfigValidator {
	if err != nil {
		cv.add(field, err)
	}
	return cv
}

// When runs fn only if cond holds.
func (cv *ConfigValidator) When(cond bool, fn func(*ConfigValidator)) *ConfigValidator {
	if cond {
		fn(cv)
	}
	return cv
}

// Validate returns nil, the single failure, or all failures joined.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errs) {
	case 0:
		return nil
	case 1:
		return cv.errs[0]
	}
	return fmt.Errorf("%s: %d problems: %w", cv.root, len(cv.errs), errors.Join(cv.errs...))
}

// DefaultOrInt returns value when positive and def otherwise.
func DefaultOrInt(value, def int) int {
	if value > 0 {
		return value
	}
	return def
}

package errors

// RequirePositive returns an INVALID_PARAMETER error unless v > 0.
// name is the parameter name as the caller knows it (e.g. "slice width").
func RequirePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidParameter, "%s must be positive, got %d", name, v)
	}
	return nil
}

// RequireNonNegative returns an INVALID_PARAMETER error when v < 0.
func RequireNonNegative(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidParameter, "%s must not be negative, got %d", name, v)
	}
	return nil
}

// FirstError returns the first non-nil error, so a group of parameter checks
// reads as a single expression.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

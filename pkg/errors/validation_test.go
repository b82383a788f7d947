package errors

import (
	"testing"
)

func TestRequirePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"one", 1, false},
		{"large", 4096, false},
		{"zero", 0, true},
		{"negative", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequirePositive("slice width", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("RequirePositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParameter) {
				t.Errorf("RequirePositive(%d) returned wrong error code: %v", tt.value, err)
			}
		})
	}
}

func TestRequireNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 7, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireNonNegative("border width", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("RequireNonNegative(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestFirstError(t *testing.T) {
	if err := FirstError(nil, nil); err != nil {
		t.Errorf("FirstError(nil, nil) = %v, want nil", err)
	}

	first := RequirePositive("a", 0)
	second := RequirePositive("b", 0)
	if got := FirstError(nil, first, second); got != first {
		t.Errorf("FirstError returned %v, want %v", got, first)
	}
}

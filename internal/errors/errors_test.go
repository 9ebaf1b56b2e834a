package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  &AppError{Code: ErrCodeValidation, Message: "Plant code is required"},
			want: "Plant code is required",
		},
		{
			name: "with cause",
			err:  &AppError{Code: ErrCodeDataSource, Message: "load plants", Cause: errors.New("connection refused")},
			want: "load plants: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("plantCode", "Plant code is required")
	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if err.Field != "plantCode" {
		t.Errorf("Field = %q, want plantCode", err.Field)
	}
}

func TestInvalidSelectionf(t *testing.T) {
	err := InvalidSelectionf("Plant '%s' not found", "XYZ")
	if !IsInvalidSelection(err) {
		t.Fatalf("expected invalid selection, got %v", GetCode(err))
	}
	if err.Message != "Plant 'XYZ' not found" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestStateUnavailable_NilCause(t *testing.T) {
	err := StateUnavailable(nil, "session is not available")
	if !IsStateUnavailable(err) {
		t.Fatalf("expected state unavailable, got %v", GetCode(err))
	}
	if err.Error() != "session is not available" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestDataSource(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := DataSource(cause, "query plants")
	if !IsDataSource(err) {
		t.Fatalf("expected data source, got %v", GetCode(err))
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be preserved")
	}
	if DataSource(nil, "x") != nil {
		t.Error("DataSource(nil) should be nil")
	}
}

func TestWrap_NilError(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestIsHelpers_ThroughFmtWrap(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", Validation("bad"), IsValidation},
		{"invalid selection", InvalidSelectionf("missing %s", "A"), IsInvalidSelection},
		{"state unavailable", StateUnavailable(nil, "no session"), IsStateUnavailable},
		{"data source", DataSource(errors.New("x"), "down"), IsDataSource},
		{"not found", NotFoundf("user %s", "1"), IsNotFound},
		{"conflict", &AppError{Code: ErrCodeConflict}, IsConflict},
		{"timeout", &AppError{Code: ErrCodeTimeout}, IsTimeout},
		{"canceled", &AppError{Code: ErrCodeCanceled}, IsCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("helper did not match wrapped %v", tt.err)
			}
			if tt.check(errors.New("plain")) {
				t.Error("helper matched a plain error")
			}
			if tt.check(nil) {
				t.Error("helper matched nil")
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(Internal("x")); got != ErrCodeInternal {
		t.Errorf("GetCode = %v, want internal", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	outer := Wrap(Validation("inner"), ErrCodeDataSource, "outer")
	if got := GetCode(outer); got != ErrCodeDataSource {
		t.Errorf("outermost code should win, got %v", got)
	}
}

func TestGetField(t *testing.T) {
	if got := GetField(ValidationField("email", "bad")); got != "email" {
		t.Errorf("GetField = %q", got)
	}
	if got := GetField(errors.New("plain")); got != "" {
		t.Errorf("GetField(plain) = %q", got)
	}
}

package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("event", "id", "abc-123")
	if !IsNotFound(err) {
		t.Error("IsNotFound = false")
	}
	if IsBusiness(err) {
		t.Error("IsBusiness = true for a not-found error")
	}
	want := "event not found with id: abc-123"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBusiness(t *testing.T) {
	err := Business("vendor %s is not active", "Acme")
	if !IsBusiness(err) {
		t.Error("IsBusiness = false")
	}
	if IsNotFound(err) {
		t.Error("IsNotFound = true for a business error")
	}
	if err.Error() != "vendor Acme is not active" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIOWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := IO("upload invoice", cause)
	if !errors.Is(err, cause) {
		t.Error("IO error does not unwrap to its cause")
	}
	if IsNotFound(err) || IsBusiness(err) {
		t.Error("IO error misclassified")
	}
}

func TestClassifiersThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NotFound("payment", "id", 7))
	if !IsNotFound(err) {
		t.Error("IsNotFound = false through fmt.Errorf wrapping")
	}
}

package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeInsufficientStock, http.StatusBadRequest},
		{CodeIdempotency, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("MetadataFor(%s) status = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "saving order")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should match the cause")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	typed := New(CodeInsufficientStock, "not enough stock for belt").
		WithDetails(map[string]any{"product": "belt"})
	wrapped := fmt.Errorf("creating order: %w", typed)

	found := As(wrapped)
	if found == nil {
		t.Fatal("expected typed error in chain")
	}
	if found.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code %s", found.Code())
	}
	if found.Details() == nil {
		t.Fatal("details lost through wrapping")
	}
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain error should not match")
	}
	if As(nil) != nil {
		t.Fatal("nil error should not match")
	}
}

func TestDumpErrorCollectsChain(t *testing.T) {
	inner := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, inner, "pinging database")

	d := DumpError(err)
	if d.Code != CodeDependency {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %d entries", len(d.Chain))
	}
}

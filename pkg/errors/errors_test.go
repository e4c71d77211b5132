package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor_KnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeIdempotency, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataFor_UnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("WHATEVER"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code mapped to %d, want 500", meta.HTTPStatus)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("row not found")
	err := Wrap(CodeNotFound, cause, "product lookup failed")

	if err.Code() != CodeNotFound {
		t.Fatalf("code = %s, want %s", err.Code(), CodeNotFound)
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should match its cause via errors.Is")
	}
}

func TestAs_FindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeValidation, "quantity must be positive").WithDetails(map[string]any{"quantity": -2})
	outer := fmt.Errorf("commit order: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("As should unwrap to the typed error")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("code = %s, want %s", typed.Code(), CodeValidation)
	}
	if typed.Details() == nil {
		t.Fatal("details were lost through wrapping")
	}
}

func TestAs_NilForPlainErrors(t *testing.T) {
	if As(stdErrors.New("boom")) != nil {
		t.Fatal("plain error should not convert")
	}
	if As(nil) != nil {
		t.Fatal("nil error should not convert")
	}
}

func TestDump_CollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, fmt.Errorf("dial tcp: refused"), "redis ping failed")
	d := Dump(err)

	if d.Code != CodeDependency {
		t.Fatalf("dump code = %s, want %s", d.Code, CodeDependency)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("chain length = %d, want at least 2", len(d.Chain))
	}
}

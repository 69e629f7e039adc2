package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCodeGRPCCode(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeFieldRequired, codes.InvalidArgument},
		{CodeValueRequired, codes.InvalidArgument},
		{CodeUnknownField, codes.InvalidArgument},
		{CodeInvalidSchema, codes.InvalidArgument},
		{CodeIDFormat, codes.InvalidArgument},
		{CodeInvalidValue, codes.InvalidArgument},
		{CodePageToken, codes.InvalidArgument},
		{CodeFormat, codes.DataLoss},
		{CodeNotConnected, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeUnknown, codes.Internal},
		{Code("SOMETHING_ELSE"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.GRPCCode(); got != tt.want {
				t.Fatalf("GRPCCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeFormat, "decode uuid", fmt.Errorf("invalid length"))
	if got, want := err.Error(), "decode uuid: invalid length"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if got, want := New(CodeNotFound, "row not found").Error(), "row not found"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("get field: %w", New(CodeFormat, "bad text"))
	if !stderrors.Is(err, New(CodeFormat, "")) {
		t.Fatal("expected errors.Is to match on code")
	}
	if stderrors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected errors.Is to reject a different code")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := WrapWithMetadata(CodeFormat, "decode", map[string]string{"field": "name"}, cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	inner := New(CodeFormat, "bad")
	outer := Wrap(CodeUnknownField, "outer", inner)
	wrapped := fmt.Errorf("context: %w", outer)

	if !HasCode(wrapped, CodeUnknownField) {
		t.Fatal("expected outer code to match")
	}
	if !HasCode(wrapped, CodeFormat) {
		t.Fatal("expected nested code to match")
	}
	if HasCode(wrapped, CodeNotFound) {
		t.Fatal("expected unrelated code to miss")
	}
	if HasCode(stderrors.New("plain"), CodeFormat) {
		t.Fatal("expected plain error to miss")
	}
	if got := GetCode(wrapped); got != CodeUnknownField {
		t.Fatalf("GetCode() = %q, want %q", got, CodeUnknownField)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("GetCode() = %q, want %q", got, CodeUnknown)
	}
}

func TestGRPCStatusCarriesErrorInfo(t *testing.T) {
	err := WithMetadata(CodeUnknownField, "unknown field", map[string]string{"field": "level"})

	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("expected status.FromError to recognize domain error")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.InvalidArgument)
	}
	if st.Message() != "unknown field" {
		t.Fatalf("status message = %q, want %q", st.Message(), "unknown field")
	}

	var info *errdetails.ErrorInfo
	for _, detail := range st.Details() {
		if d, ok := detail.(*errdetails.ErrorInfo); ok {
			info = d
		}
	}
	if info == nil {
		t.Fatal("expected ErrorInfo detail")
	}
	if info.Reason != string(CodeUnknownField) {
		t.Fatalf("reason = %q, want %q", info.Reason, CodeUnknownField)
	}
	if info.Domain != Domain {
		t.Fatalf("domain = %q, want %q", info.Domain, Domain)
	}
	if info.Metadata["field"] != "level" {
		t.Fatalf("metadata field = %q, want %q", info.Metadata["field"], "level")
	}
}

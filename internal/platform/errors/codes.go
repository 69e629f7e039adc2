// Package errors provides structured error handling for sqlib storage.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Argument errors
	CodeFieldRequired Code = "FIELD_REQUIRED"
	CodeValueRequired Code = "VALUE_REQUIRED"
	CodeInvalidValue  Code = "INVALID_VALUE"
	CodeUnknownField  Code = "UNKNOWN_FIELD"
	CodeInvalidSchema Code = "INVALID_SCHEMA"
	CodeIDFormat      Code = "ID_FORMAT"
	CodePageToken     Code = "INVALID_PAGE_TOKEN"

	// Stored data errors
	CodeFormat Code = "FORMAT_ERROR"

	// Connection errors
	CodeNotConnected Code = "NOT_CONNECTED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - caller supplied something unusable
	case CodeFieldRequired,
		CodeValueRequired,
		CodeInvalidValue,
		CodeUnknownField,
		CodeInvalidSchema,
		CodeIDFormat,
		CodePageToken:
		return codes.InvalidArgument

	// DataLoss - stored text no longer decodes as its declared type
	case CodeFormat:
		return codes.DataLoss

	// FailedPrecondition - database not in a usable state
	case CodeNotConnected:
		return codes.FailedPrecondition

	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}

package rpc

import (
	"errors"
	"net/http"
)

// Code is the machine-readable error class sent to the client
type Code string

const (
	CodeParseError         Code = "PARSE_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

var codeTable = map[Code]struct {
	jsonRPC    int
	httpStatus int
}{
	CodeParseError:         {-32700, http.StatusBadRequest},
	CodeBadRequest:         {-32600, http.StatusBadRequest},
	CodeUnauthorized:       {-32001, http.StatusUnauthorized},
	CodeForbidden:          {-32003, http.StatusForbidden},
	CodeNotFound:           {-32004, http.StatusNotFound},
	CodeMethodNotSupported: {-32005, http.StatusMethodNotAllowed},
	CodeTooManyRequests:    {-32029, http.StatusTooManyRequests},
	CodeInternal:           {-32603, http.StatusInternalServerError},
}

// HTTPStatus maps a code to the HTTP status used on the wire
func (c Code) HTTPStatus() int {
	if entry, ok := codeTable[c]; ok {
		return entry.httpStatus
	}
	return http.StatusInternalServerError
}

// JSONRPCCode maps a code to its JSON-RPC 2.0 numeric counterpart
func (c Code) JSONRPCCode() int {
	if entry, ok := codeTable[c]; ok {
		return entry.jsonRPC
	}
	return codeTable[CodeInternal].jsonRPC
}

// Error is the typed failure every procedure returns to its caller
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// NewError creates a typed procedure error
func NewError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AsError converts any error into a typed procedure error; untyped errors become internal errors
func AsError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return NewError(CodeInternal, "", err)
}

// Errors
var (
	ErrProcedureNotFound = errors.New("procedure not found")
)

package rpc

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin/binding"
)

// Typed adapts a function with a decoded, validated input to a Handler.
// Inputs are validated with the `binding` struct tags gin uses for request bodies.
func Typed[In any, Out any](fn func(ctx *Context, input In) (Out, error)) Handler {
	return func(ctx *Context, raw json.RawMessage) (any, error) {
		var input In

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &input); err != nil {
				return nil, NewError(CodeParseError, "Invalid JSON input", err)
			}
		}

		if err := binding.Validator.ValidateStruct(&input); err != nil {
			return nil, NewError(CodeBadRequest, "Invalid input", err)
		}

		return fn(ctx, input)
	}
}

// NoInput is the input type of procedures that take none
type NoInput struct{}

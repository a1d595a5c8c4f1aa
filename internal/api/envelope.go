package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version stamped on every response.
// Clients pin on this; bump only with a coordinated client release.
const envelopeVersion = "1"

// Envelope is the response wrapper shared by every endpoint. Success
// responses carry data; errors carry either a bare error string or a
// structured code/message/details triple.
type Envelope struct {
	V       string `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps huma response bodies in the versioned envelope.
// Registered on the huma config so every operation shares the same shape.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		env := &Envelope{V: envelopeVersion, Success: false}
		if apiErr.Code != "" {
			env.Code = apiErr.Code
			env.Message = apiErr.Message
			env.Details = apiErr.Details
		} else {
			env.Error = apiErr.Message
		}
		return env, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: code < 400,
		Data:    v,
	}, nil
}

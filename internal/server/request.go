package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// orchestrateRequest is the POST /api/orchestrate body.
// InputText stays raw so that a non-string value can be told apart from a
// missing one.
type orchestrateRequest struct {
	InputText json.RawMessage `json:"inputText"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the GET /healthz body.
type healthResponse struct {
	Status string `json:"status"`
}

// TrimInput applies the boundary rule shared by HTTP and the CLI:
// surrounding whitespace is removed and an empty result is rejected.
func TrimInput(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	return trimmed, nil
}

// decodeOrchestrateRequest reads and validates the request body.
// It returns the trimmed input text. The body must hold exactly one JSON
// value; a value that is not an object carries no inputText and is rejected
// as empty input.
func decodeOrchestrateRequest(body io.Reader) (string, error) {
	dec := json.NewDecoder(body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return "", bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", bodyError(err)
		}
		return "", fmt.Errorf("%w: trailing data after JSON value", ErrInvalidBody)
	}

	if raw[0] != '{' {
		return "", fmt.Errorf("%w: body is not a JSON object", ErrEmptyInput)
	}

	var req orchestrateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if len(req.InputText) == 0 {
		return "", ErrEmptyInput
	}

	var text string
	if err := json.Unmarshal(req.InputText, &text); err != nil {
		return "", fmt.Errorf("%w: inputText must be a string", ErrEmptyInput)
	}

	return TrimInput(text)
}

// bodyError maps a decode failure to ErrBodyTooLarge or ErrInvalidBody.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %w", ErrInvalidBody, err)
}

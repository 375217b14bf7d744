package tui

import (
	"encoding/json"
	"errors"
	"io"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/repository"
)

// JSONOutput writes every message as one JSON object per line, for scripts
// and non-TTY environments.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w, encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type jsonLines struct {
	Title string   `json:"title,omitempty"`
	Lines []string `json:"lines"`
}

// Success writes {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error writes the error with the wrapped cause as details and the
// suggested action, when known.
func (o *JSONOutput) Error(err error) {
	if err == nil {
		return
	}
	je := jsonError{Type: "error", Message: err.Error()}
	if wrapped := errors.Unwrap(err); wrapped != nil {
		je.Details = wrapped.Error()
	}
	_, je.Suggestion = gmerrors.Actionable(err)

	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(je)
}

// Warning writes {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info writes {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// JSON writes v as indented JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeIndented(o.w, v)
}

// Outcome writes the flattened OutcomeView.
func (o *JSONOutput) Outcome(out *repository.Outcome) error {
	return encodeIndented(o.w, NewOutcomeView(out))
}

// State writes the snapshot as is.
func (o *JSONOutput) State(st *repository.State) error {
	return encodeIndented(o.w, st)
}

// Lines writes {"title":...,"lines":[...]}.
func (o *JSONOutput) Lines(title string, lines []string) error {
	if lines == nil {
		lines = []string{}
	}
	return encodeIndented(o.w, jsonLines{Title: title, Lines: lines})
}

var (
	_ Output = (*TTYOutput)(nil)
	_ Output = (*JSONOutput)(nil)
)

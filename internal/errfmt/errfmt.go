// Package errfmt turns the backend's error bodies into messages for the user.
//
// The backend answers failed requests with
//
//	{"detail": "text"}
//
// or, for request validation failures,
//
//	{"detail": [{"type": "string_too_short", "loc": ["body", "user_pass"], "msg": "...", "ctx": {"min_length": 8}}]}
//
// Formatting never fails: anything missing or malformed degrades to a
// fallback message.
package errfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is one entry of a validation detail list. Decoding is
// tolerant: fields with an unexpected shape keep their zero value.
type ValidationError struct {
	Type string
	Loc  []string
	Msg  string
	// MinLength is ctx.min_length, zero when absent.
	MinLength int
	hasMin    bool
}

func (e *ValidationError) UnmarshalJSON(b []byte) error {
	e.decode(b)
	return nil
}

func (e *ValidationError) decode(b []byte) {
	var raw map[string]any
	if json.Unmarshal(b, &raw) != nil {
		return
	}

	e.Type, _ = raw["type"].(string)
	e.Msg, _ = raw["msg"].(string)

	if loc, ok := raw["loc"].([]any); ok {
		for _, part := range loc {
			e.Loc = append(e.Loc, stringify(part))
		}
	}

	if ctx, ok := raw["ctx"].(map[string]any); ok {
		if n, ok := ctx["min_length"].(float64); ok {
			e.MinLength = int(n)
			e.hasMin = true
		}
	}
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Detail holds either a plain message or a list of validation errors. Like
// ValidationError, it decodes anything else to its zero value.
type Detail struct {
	Text   string
	Errors []ValidationError
	IsList bool
}

func (d *Detail) UnmarshalJSON(b []byte) error {
	d.decode(b)
	return nil
}

func (d *Detail) decode(b []byte) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return
	}

	switch b[0] {
	case '"':
		var text string
		if json.Unmarshal(b, &text) == nil {
			d.Text = text
		}
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(b, &items) != nil {
			return
		}

		d.IsList = true
		d.Errors = make([]ValidationError, len(items))
		for i, item := range items {
			d.Errors[i].decode(item)
		}
	}
}

type ErrorPayload struct {
	Detail Detail `json:"detail"`
}

// Parse decodes an error body. The returned payload is usable even when err
// is not nil.
func Parse(body []byte) (ErrorPayload, error) {
	var payload ErrorPayload

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return payload, err
	}

	if detail, ok := obj["detail"]; ok {
		payload.Detail.decode(detail)
	}

	return payload, nil
}

// Messages are the strings used to build error messages.
type Messages struct {
	Fallback string
	// TooShort receives the field name and the minimum length.
	TooShort string
}

var English = Messages{
	Fallback: "An error occurred",
	TooShort: `Field "%s" must contain at least %d characters.`,
}

var Russian = Messages{
	Fallback: "Произошла ошибка",
	TooShort: `Поле "%s" должно содержать минимум %d символов.`,
}

func (m Messages) Format(payload ErrorPayload) string {
	detail := payload.Detail

	if detail.IsList {
		if len(detail.Errors) == 0 {
			return m.Fallback
		}

		lines := make([]string, 0, len(detail.Errors))
		for _, e := range detail.Errors {
			lines = append(lines, m.line(e))
		}

		return strings.Join(lines, "\n")
	}

	if detail.Text != "" {
		return detail.Text
	}

	return m.Fallback
}

func (m Messages) line(e ValidationError) string {
	if e.Type == "string_too_short" && len(e.Loc) > 1 && e.hasMin {
		return fmt.Sprintf(m.TooShort, e.Loc[1], e.MinLength)
	}

	if e.Msg != "" {
		return e.Msg
	}

	return m.Fallback
}

// FormatBody parses body and formats it. Bodies that are not JSON objects
// yield the fallback message.
func (m Messages) FormatBody(body []byte) string {
	payload, _ := Parse(body)
	return m.Format(payload)
}

func Format(payload ErrorPayload) string {
	return English.Format(payload)
}

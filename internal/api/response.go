package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/formsend/client-go/internal/apierrors"
)

const maxBodySnippet = 256

// decodeResponse validates the body and applies the provider's error
// conventions. An "error" member wins over an "errors" member.
func decodeResponse(statusCode int, body []byte, returnKey string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}

	var decoded any
	if err := sonic.Unmarshal(trimmed, &decoded); err != nil {
		return nil, &apierrors.DecodeError{StatusCode: statusCode, Body: snippet(trimmed), Err: err}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return json.RawMessage(trimmed), nil
	}

	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(trimmed, &fields); err != nil {
		return nil, &apierrors.DecodeError{StatusCode: statusCode, Body: snippet(trimmed), Err: err}
	}

	if obj["error"] != nil {
		return nil, &apierrors.ProviderError{
			StatusCode: statusCode,
			Message:    singleErrorMessage(fields["error"]),
		}
	}

	if obj["errors"] != nil {
		msg, err := joinErrors(fields["errors"])
		if err != nil {
			return nil, &apierrors.DecodeError{StatusCode: statusCode, Body: snippet(trimmed), Err: err}
		}
		return nil, &apierrors.ProviderError{StatusCode: statusCode, Message: msg}
	}

	if returnKey != "" && obj[returnKey] != nil {
		return fields[returnKey], nil
	}

	return json.RawMessage(trimmed), nil
}

// singleErrorMessage extracts the message of an {"error": {...}} body.
func singleErrorMessage(raw json.RawMessage) string {
	var obj map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &obj); err == nil {
		if msg, ok := obj["message"]; ok {
			return renderValue(msg)
		}
	}
	return renderValue(raw)
}

// joinErrors flattens an "errors" member into one message. Each entry of
// a list (or member of an object) contributes its values in document
// order; every value is separated by ";".
func joinErrors(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if !isContainer(trimmed) {
		return renderValue(trimmed), nil
	}

	entries, err := members(trimmed)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(entries)*2)
	for _, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if !isContainer(entry) {
			parts = append(parts, renderValue(entry))
			continue
		}
		values, err := members(entry)
		if err != nil {
			return "", err
		}
		for _, v := range values {
			parts = append(parts, renderValue(v))
		}
	}

	return strings.Join(parts, ";"), nil
}

// members returns the elements of a JSON array, or the member values of a
// JSON object, in document order. Decoding into a map would lose the order.
func members(raw []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, fmt.Errorf("expected array or object, got %v", tok)
	}

	var out []json.RawMessage
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// renderValue turns a JSON value into message text: strings verbatim,
// numbers in shortest form, true as "1", false and null as "", and
// containers as compact JSON.
func renderValue(raw json.RawMessage) string {
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}

	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return ""
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	}
}

func isContainer(raw []byte) bool {
	return len(raw) > 0 && (raw[0] == '[' || raw[0] == '{')
}

func snippet(body []byte) string {
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet])
	}
	return string(body)
}

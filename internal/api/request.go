package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/formsend/client-go/internal/apierrors"
)

// Request describes a single call against the API.
type Request struct {
	// Action is the path relative to the base URL, e.g. "mail/send".
	Action string
	// Options become the query string for GET and the JSON body otherwise.
	// GET accepts nil, url.Values, map[string]string or map[string]any.
	Options any
	// Method defaults to GET.
	Method string
	// ReturnKey selects a single member of an object response.
	ReturnKey string
}

// Response is a normalized API response.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body is the selected JSON value: the whole body, or the ReturnKey
	// member when present. An empty body yields "null".
	Body json.RawMessage
}

// Do performs the request and normalizes the response. It never retries.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	requestURL := c.baseURL + req.Action
	r := c.resty.R().SetContext(ctx)

	if method == http.MethodGet {
		query, err := encodeQuery(req.Options)
		if err != nil {
			return nil, err
		}
		// The "?" is kept even when there are no parameters.
		requestURL += "?" + query
	} else {
		options := req.Options
		if options == nil {
			options = map[string]any{}
		}
		body, err := sonic.Marshal(options)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		r.SetBody(body)
	}

	start := time.Now()
	resp, err := r.Execute(method, requestURL)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(req.Action, method, outcomeTransportError, elapsed)
		c.logger.Debug("sendgrid request failed",
			zap.String("method", method),
			zap.String("action", req.Action),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, &apierrors.TransportError{Err: err, URL: requestURL}
	}

	c.logger.Debug("sendgrid request",
		zap.String("method", method),
		zap.String("action", req.Action),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", elapsed),
	)

	body, err := decodeResponse(resp.StatusCode(), resp.Body(), req.ReturnKey)
	c.metrics.observe(req.Action, method, outcomeOf(err), elapsed)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       body,
	}, nil
}

func encodeQuery(options any) (string, error) {
	switch o := options.(type) {
	case nil:
		return "", nil
	case url.Values:
		return o.Encode(), nil
	case map[string]string:
		values := make(url.Values, len(o))
		for k, v := range o {
			values.Set(k, v)
		}
		return values.Encode(), nil
	case map[string]any:
		values := make(url.Values, len(o))
		for k, v := range o {
			addQueryValue(values, k, v)
		}
		return values.Encode(), nil
	default:
		return "", fmt.Errorf("unsupported query options type %T", options)
	}
}

// addQueryValue follows form-encoding conventions: nil is skipped,
// booleans become 1/0 and slices repeat the key.
func addQueryValue(values url.Values, key string, v any) {
	switch t := v.(type) {
	case nil:
	case string:
		values.Add(key, t)
	case bool:
		if t {
			values.Add(key, "1")
		} else {
			values.Add(key, "0")
		}
	case int:
		values.Add(key, strconv.Itoa(t))
	case int64:
		values.Add(key, strconv.FormatInt(t, 10))
	case float64:
		values.Add(key, strconv.FormatFloat(t, 'f', -1, 64))
	case []string:
		for _, s := range t {
			values.Add(key, s)
		}
	case []any:
		for _, e := range t {
			addQueryValue(values, key, e)
		}
	case fmt.Stringer:
		values.Add(key, t.String())
	default:
		values.Add(key, fmt.Sprint(t))
	}
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/brainbuddy/portal/core"
)

// APIError is a non-2xx response from the BrainBuddy API, with the most
// useful message we could dig out of the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsAPIError returns the *APIError wrapped in err, if any.
func IsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}

// Client talks to the remote BrainBuddy API. It owns no state beyond the
// base URL; the bearer token is passed per call since it lives in the
// visitor's cookie.
type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.API.Timeout},
		logger:  logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequest(ctx context.Context, method, path, token, contentType string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes req and returns the raw body. Non-2xx responses come back as
// *APIError; transport failures are wrapped as-is.
func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", req.URL.Path)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, decodeAPIError(res.StatusCode, data)
	}
	return data, nil
}

// doJSON executes req and decodes the JSON body into out, which may be a
// *interface{} when the shape is not contractually fixed.
func (c *Client) doJSON(req *http.Request, out interface{}) error {
	data, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s response", req.URL.Path)
	}
	return nil
}

// postJSON sends body as JSON and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path, token string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "encoding %s request", path)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, token, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func marshalBody(body interface{}) (io.Reader, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encoding request body")
	}
	return bytes.NewReader(data), nil
}

// GetJSON fetches path with the bearer token and returns the loosely-typed
// decoded body. Used by the class-link resolver's endpoint probes.
func (c *Client) GetJSON(ctx context.Context, path, token string) (interface{}, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, "", nil)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeAPIError surfaces the most specific message the API body carries:
// a FastAPI-style `detail` validation array (each item's msg joined by
// newlines), a plain `detail` string, a `message` field, or the raw text.
func decodeAPIError(status int, body []byte) *APIError {
	text := strings.TrimSpace(string(body))

	var probe struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err == nil {
		if len(probe.Detail) > 0 {
			var items []struct {
				Msg string `json:"msg"`
			}
			if err := json.Unmarshal(probe.Detail, &items); err == nil {
				msgs := make([]string, 0, len(items))
				for _, item := range items {
					if item.Msg != "" {
						msgs = append(msgs, item.Msg)
					}
				}
				if len(msgs) > 0 {
					return &APIError{Status: status, Message: strings.Join(msgs, "\n")}
				}
			}
			var s string
			if err := json.Unmarshal(probe.Detail, &s); err == nil && s != "" {
				return &APIError{Status: status, Message: s}
			}
		}
		if probe.Message != "" {
			return &APIError{Status: status, Message: probe.Message}
		}
	}

	if text == "" {
		text = http.StatusText(status)
	}
	return &APIError{Status: status, Message: text}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/protodesk/internal/common"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/google/uuid"
)

type request struct {
	method   string
	baseURL  string
	endpoint string
	headers  map[string]string
	query    url.Values
	json     any
	body     io.Reader

	doer   *http.Client
	logger logging.Logger
}

func newRequest(doer *http.Client, logger logging.Logger, method, baseURL, endpoint string) *request {
	return &request{
		method:   method,
		baseURL:  baseURL,
		endpoint: endpoint,
		doer:     doer,
		logger:   logger,
	}
}

func (r *request) Header(key, value string) *request {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

func (r *request) Auth(token string) *request {
	return r.Header("Authorization", "Bearer "+token)
}

func (r *request) JSON(data any) *request {
	r.json = data
	return r
}

func (r *request) Body(body io.Reader) *request {
	r.body = body
	return r
}

// Params merges query parameters into the request. Empty values are skipped
// so optional filters can be passed unconditionally.
func (r *request) Params(values url.Values) *request {
	for k, vs := range values {
		for _, v := range vs {
			r.Param(k, v)
		}
	}
	return r
}

func (r *request) Param(key, value string) *request {
	if value == "" {
		return r
	}
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Add(key, value)
	return r
}

// Process sends the request and hands a 2xx response body to resultHandler.
func (r *request) Process(ctx context.Context, resultHandler func(io.Reader) error) error {
	fullURL, err := url.JoinPath(r.baseURL, r.endpoint)
	if err != nil {
		return fmt.Errorf("error formatting url for endpoint %s: %w", r.endpoint, err)
	}

	if r.json != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(r.json); err != nil {
			return fmt.Errorf("error encoding json body for endpoint %s: %w", r.endpoint, err)
		}
		r.body = buf
		r.Header("Content-Type", "application/json")
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullURL, r.body)
	if err != nil {
		return fmt.Errorf("error creating %s request for endpoint %s: %w", r.method, r.endpoint, err)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.query != nil {
		req.URL.RawQuery = r.query.Encode()
	}

	start := time.Now()
	res, err := r.doer.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, r.method, r.endpoint, err)
	}
	defer res.Body.Close()

	r.logger.Debug(ctx, "api request",
		"method", r.method,
		"endpoint", r.endpoint,
		"status", res.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", requestID,
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		content, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
		return &APIError{
			Method:   r.method,
			Endpoint: r.endpoint,
			Status:   res.StatusCode,
			Message:  extractMessage(content),
		}
	}

	if resultHandler != nil {
		if err := resultHandler(res.Body); err != nil {
			return fmt.Errorf("error processing %s response from endpoint %s: %w", r.method, r.endpoint, err)
		}
	}
	return nil
}

// Do sends the request and decodes a JSON response into result (if non-nil).
func (r *request) Do(ctx context.Context, result any) error {
	return r.Process(ctx, func(body io.Reader) error {
		if result == nil {
			return nil
		}
		if err := json.NewDecoder(body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	})
}

// Bytes sends the request and returns the raw response body.
func (r *request) Bytes(ctx context.Context) ([]byte, error) {
	var out []byte
	err := r.Process(ctx, func(body io.Reader) error {
		b, err := io.ReadAll(body)
		out = b
		return err
	})
	return out, err
}

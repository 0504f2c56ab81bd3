// Package lmsapi talks to the LMS backend: login, course listing and
// engagement event submission.
package lmsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"lms-engagement-client/internal/models"
)

type Client struct {
	http *resty.Client
}

// New builds a client for baseURL (e.g. http://localhost:8010/api). Each call
// is a single attempt: retries are off and no timeout is set beyond the
// transport's own.
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	return &Client{http: rc}
}

func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	var out models.LoginResult
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out models.CourseList
	if err := c.do(ctx, http.MethodGet, "/courses/", nil, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// SubmitEvent posts one event. Missing fields in a successful answer are
// left empty rather than treated as an error.
func (c *Client) SubmitEvent(ctx context.Context, event models.EngagementEvent) (*models.ForwardResult, error) {
	var out models.ForwardResult
	if err := c.do(ctx, http.MethodPost, "/events/", event, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if body != nil {
		req.SetBody(body)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := req.Execute(method, path)
	if err != nil {
		return &RequestError{Err: err}
	}

	status := statusText(resp)
	if !resp.IsSuccess() {
		return &RequestError{
			StatusCode: resp.StatusCode(),
			Status:     status,
			Detail:     extractDetail(resp.Body(), status),
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &RequestError{
			StatusCode: resp.StatusCode(),
			Status:     status,
			Detail:     "malformed response body",
			Err:        err,
		}
	}
	return nil
}

// RequestError is any failed LMS call: a transport error (StatusCode 0), a
// non-2xx answer, or a 2xx answer whose body is not JSON.
type RequestError struct {
	StatusCode int
	Status     string
	Detail     string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return e.Err.Error()
		}
		return "request failed"
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Detail)
}

func (e *RequestError) Unwrap() error { return e.Err }

func statusText(resp *resty.Response) string {
	code := resp.StatusCode()
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status(), strconv.Itoa(code)))
	if text == "" {
		text = http.StatusText(code)
	}
	return text
}

// extractDetail prefers a string "detail" field, then any other detail value
// or the whole body as compact JSON, and finally the fallback when the body
// does not parse.
func extractDetail(body []byte, fallback string) string {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		return fallback
	}
	if obj, ok := data.(map[string]interface{}); ok {
		switch d := obj["detail"].(type) {
		case string:
			if d != "" {
				return d
			}
		case nil:
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fallback
	}
	return string(b)
}

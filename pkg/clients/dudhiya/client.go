package dudhiya

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const collectionsPath = "/collector/collections/"

// DefaultPageSize matches the collector app's page size.
const DefaultPageSize = 50

// Client exposes the read-only backend operations used by reconciliation.
type Client interface {
	ListCollections(ctx context.Context, page, pageSize int) (*CollectionPage, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a backend client. token is sent as a bearer token when set.
func NewClient(baseURL, token string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)
	if token != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	return &APIClient{httpClient: restyClient}
}

// APIError represents a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
}

// errorBody is the backend's error payload.
type errorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// ListCollections fetches one page of collection records.
func (c *APIClient) ListCollections(ctx context.Context, page, pageSize int) (*CollectionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	result := new(CollectionPage)
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      strconv.Itoa(page),
			"page_size": strconv.Itoa(pageSize),
		}).
		SetResult(result).
		SetError(apiErr).
		Get(collectionsPath)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, newAPIError(resp, apiErr)
	}
	return result, nil
}

func newAPIError(resp *resty.Response, body *errorBody) *APIError {
	message := resp.Status()
	if body != nil {
		switch {
		case body.Detail != "":
			message = body.Detail
		case body.Error != "":
			message = body.Error
		}
	}

	e := &APIError{StatusCode: resp.StatusCode(), Code: "API_ERROR", Message: message}
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		e.Code = "UNAUTHORIZED"
	case http.StatusForbidden:
		e.Code = "FORBIDDEN"
	case http.StatusNotFound:
		e.Code = "NOT_FOUND"
	case http.StatusTooManyRequests:
		e.Code = "RATE_LIMIT_EXCEEDED"
		e.RetryAfter = resp.Header().Get("Retry-After")
	}
	return e
}

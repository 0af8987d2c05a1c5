package didar

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Didar API root.
const DefaultBaseURL = "https://app.didar.me/api/"

const requestTimeout = 30 * time.Second

// Contact represents a contact record as returned by the Didar API.
type Contact struct {
	ID          int64  `json:"Id"`
	Email       string `json:"Email"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	MobilePhone string `json:"MobilePhone"`
}

// Client is a Didar CRM API client. All calls are synchronous with a 30s
// timeout and TLS certificate validation on. The client performs no retries;
// retry policy belongs to the caller.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a new Didar API client. An empty baseURL selects the
// production API.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type saveResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID int64 `json:"Id"`
	} `json:"data"`
}

type searchRequest struct {
	Criteria map[string]interface{} `json:"Criteria"`
	From     int                    `json:"From"`
	Limit    int                    `json:"Limit"`
}

type searchResponse struct {
	List []Contact `json:"List"`
}

// SaveContact creates or updates a contact and returns the identifier the CRM
// assigned to it.
func (c *Client) SaveContact(ctx context.Context, payload map[string]string) (int64, error) {
	const op = "contact/save"
	body, err := c.post(ctx, op, payload)
	if err != nil {
		return 0, err
	}
	var result saveResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, &ParseError{Op: op, Err: err}
	}
	if !result.Success {
		return 0, &APIError{Op: op, StatusCode: http.StatusOK, Body: string(body)}
	}
	return result.Data.ID, nil
}

// SearchContacts fetches one page of the full contact set. hasMore is true
// iff the page is full; callers treat a short page as end-of-data.
func (c *Client) SearchContacts(ctx context.Context, offset, limit int) ([]Contact, bool, error) {
	const op = "contact/search"
	body, err := c.post(ctx, op, searchRequest{
		Criteria: map[string]interface{}{},
		From:     offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, false, err
	}
	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, false, &ParseError{Op: op, Err: err}
	}
	return result.List, len(result.List) == limit, nil
}

func (c *Client) post(ctx context.Context, op string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &ParseError{Op: op, Err: err}
	}

	reqURL := c.baseURL + op + "?apikey=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

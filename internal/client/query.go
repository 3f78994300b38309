package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// QueryClient talks to the external retrieval/QA service. The core trusts
// it as a collaborator; responses pass through unmodified.
type QueryClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewQueryClient(baseURL, apiKey string) *QueryClient {
	return &QueryClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *QueryClient) Query(ctx context.Context, query string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.callEndpoint(ctx, "/query", params)
}

func (c *QueryClient) Feedback(ctx context.Context, score, comment, runID string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("score", score)
	params.Set("comment", comment)
	params.Set("run_id", runID)
	return c.callEndpoint(ctx, "/feedback", params)
}

func (c *QueryClient) callEndpoint(ctx context.Context, endpoint string, params url.Values) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("query service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result, nil
}

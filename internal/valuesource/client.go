// Package valuesource pulls lookup values from the client's HR system so
// mapping configurations can reconcile against live data instead of
// hand-typed lists.
package valuesource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// endpoint binds one mapping category to the API call that serves it.
type endpoint struct {
	category string
	path     string
	decode   func([]byte) ([]string, error)
}

// Client is an HTTP client for the HR source system. It satisfies the
// mapping package's Source interface.
type Client struct {
	config    Config
	http      *http.Client
	logger    *slog.Logger
	endpoints []endpoint
}

// New creates a source client from the given configuration.
func New(config Config, logger *slog.Logger) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.TimeoutDuration()},
		logger: logger.With("system", "valuesource"),
		endpoints: []endpoint{
			{"leave_types", "/v1/timeoff/policy-types", decodePolicyTypes},
			{"locations", "/v1/company/named-lists/site", decodeNamedList},
			{"employment_contracts", "/v1/company/named-lists/employment-contract", decodeNamedList},
			{"pay_categories", "/v1/company/named-lists/pay-category", decodeNamedList},
		},
	}
}

// PullValues fetches every category the source serves. A failed endpoint
// becomes a warning so a partial pull still lands; only a fully failed
// pull is an error.
func (c *Client) PullValues(ctx context.Context) (map[string][]string, []string, error) {
	if c.config.Disabled {
		return nil, nil, fmt.Errorf("source system disabled")
	}

	values := make(map[string][]string, len(c.endpoints))
	warnings := make([]string, 0)

	for _, e := range c.endpoints {
		list, err := c.fetch(ctx, e)
		if err != nil {
			c.logger.Warn("source endpoint failed",
				"category", e.category,
				"path", e.path,
				"error", err,
			)
			warnings = append(warnings, fmt.Sprintf("%s: %v", e.category, err))
			continue
		}
		values[e.category] = list
	}

	if len(values) == 0 {
		return nil, nil, fmt.Errorf("all source endpoints failed")
	}
	return values, warnings, nil
}

func (c *Client) fetch(ctx context.Context, e endpoint) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+e.path, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.config.ServiceUserID, c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return e.decode(body)
}

func decodePolicyTypes(data []byte) ([]string, error) {
	var payload struct {
		PolicyTypes []string `json:"policyTypes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload.PolicyTypes, nil
}

func decodeNamedList(data []byte) ([]string, error) {
	var payload struct {
		Values []struct {
			Name string `json:"name"`
		} `json:"values"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(payload.Values))
	for _, v := range payload.Values {
		if v.Name != "" {
			names = append(names, v.Name)
		}
	}
	return names, nil
}

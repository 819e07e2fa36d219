// Package databricks calls the Databricks vector search query endpoint.
package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/retaildex/internal/domain"
)

const (
	// DefaultIDColumn is the index column holding the product id.
	DefaultIDColumn = "Retailer_Product_ID"
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 4 << 10
)

// Config holds vector search endpoint settings.
type Config struct {
	Host     string
	Index    string
	Token    string
	IDColumn string
	Timeout  time.Duration
}

// Client implements search.VectorSearcher over the Databricks REST API.
type Client struct {
	endpoint   string
	token      string
	idColumn   string
	httpClient *http.Client
	logger     *zap.Logger
}

type queryRequest struct {
	NumResults int      `json:"num_results"`
	Columns    []string `json:"columns"`
	QueryText  string   `json:"query_text"`
}

type queryResponse struct {
	Manifest struct {
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
	} `json:"manifest"`
	Result struct {
		RowCount  int     `json:"row_count"`
		DataArray [][]any `json:"data_array"`
	} `json:"result"`
}

// New creates a vector search client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Host == "" || cfg.Index == "" {
		return nil, errors.New("databricks: host and index are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	host := strings.TrimSuffix(cfg.Host, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	idColumn := cfg.IDColumn
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   fmt.Sprintf("%s/api/2.0/vector-search/indexes/%s/query", host, url.PathEscape(cfg.Index)),
		token:      cfg.Token,
		idColumn:   idColumn,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Search returns product ids ordered by similarity to the query text.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]string, error) {
	body, err := json.Marshal(queryRequest{
		NumResults: numResults,
		Columns:    []string{c.idColumn},
		QueryText:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", domain.ErrVectorSearchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrVectorSearchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorSearchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s",
			domain.ErrVectorSearchFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrVectorSearchFailed, err)
	}

	col := c.columnIndex(parsed)
	ids := make([]string, 0, len(parsed.Result.DataArray))
	for _, row := range parsed.Result.DataArray {
		if col >= len(row) {
			continue
		}
		if id := cellString(row[col]); id != "" {
			ids = append(ids, id)
		}
	}
	c.logger.Debug("vector search",
		zap.Int("row_count", parsed.Result.RowCount),
		zap.Int("ids", len(ids)),
	)
	return ids, nil
}

// columnIndex locates the id column in the manifest, defaulting to the first column.
func (c *Client) columnIndex(resp queryResponse) int {
	for i, col := range resp.Manifest.Columns {
		if strings.EqualFold(col.Name, c.idColumn) {
			return i
		}
	}
	return 0
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

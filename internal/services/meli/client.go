package meli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidkarp94/Pagina-ML/internal/logger"
)

const (
	defaultBaseURL = "https://api.mercadolibre.com"

	// The multiget endpoint caps ids per request at 20.
	detailBatchSize = 20
)

// TokenProvider yields a valid access token before every marketplace call.
type TokenProvider interface {
	EnsureValidToken(ctx context.Context) (string, error)
}

type Client struct {
	baseURL    string
	userID     string
	tokens     TokenProvider
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(userID string, tokens TokenProvider, logger *logger.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		userID:  userID,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchAllItemIDs walks the seller's inventory with scan-search pagination and
// returns the deduplicated ID set in first-seen order. A maxItems of 0 means
// no ceiling; otherwise the result is truncated once the ceiling is reached.
func (c *Client) FetchAllItemIDs(ctx context.Context, maxItems int) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	scrollID := ""

	for {
		page, err := c.fetchIDPage(ctx, scrollID)
		if err != nil {
			return nil, err
		}

		for _, id := range page.Results {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		c.logger.Debug("scan search: %d ids so far", len(ids))

		if maxItems > 0 && len(ids) >= maxItems {
			ids = ids[:maxItems]
			break
		}
		if len(page.Results) == 0 || page.ScrollID == "" {
			break
		}
		scrollID = page.ScrollID
	}

	return ids, nil
}

func (c *Client) fetchIDPage(ctx context.Context, scrollID string) (*ScanSearchResponse, error) {
	token, err := c.tokens.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/users/%s/items/search", c.baseURL, c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Op: "scan search", Batch: -1, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Set("search_type", "scan")
	if scrollID != "" {
		q.Set("scroll_id", scrollID)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "scan search", Batch: -1, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &FetchError{
			Op:     "scan search",
			Batch:  -1,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	var page ScanSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &FetchError{Op: "scan search", Batch: -1, Err: err}
	}

	return &page, nil
}

// FetchItemDetails resolves item IDs into raw items via the multiget endpoint,
// 20 IDs per request. Only envelopes with code 200 are unwrapped; any failed
// batch aborts the whole fetch.
func (c *Client) FetchItemDetails(ctx context.Context, ids []string) ([]RawItem, error) {
	items := make([]RawItem, 0, len(ids))

	for batch := 0; batch*detailBatchSize < len(ids); batch++ {
		start := batch * detailBatchSize
		end := start + detailBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		envelopes, err := c.fetchDetailBatch(ctx, batch, ids[start:end])
		if err != nil {
			return nil, err
		}

		for _, env := range envelopes {
			if env.Code != http.StatusOK {
				c.logger.Warn("multiget: item %s returned code %d, skipping", env.Body.ID, env.Code)
				continue
			}
			items = append(items, env.Body)
		}
	}

	return items, nil
}

func (c *Client) fetchDetailBatch(ctx context.Context, batch int, ids []string) ([]ItemEnvelope, error) {
	token, err := c.tokens.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/items?ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Op: "multiget", Batch: batch, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "multiget", Batch: batch, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &FetchError{
			Op:     "multiget",
			Batch:  batch,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	var envelopes []ItemEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelopes); err != nil {
		return nil, &FetchError{Op: "multiget", Batch: batch, Err: err}
	}

	return envelopes, nil
}

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// DefaultSearchPageSize is the search paging window used when
// SearchQuery.Size is zero.
const DefaultSearchPageSize = 25

// SearchQuery describes one free-text driveItem search.
type SearchQuery struct {
	Query  string
	Region string // required for app-only search (e.g. "IND", "NAM", "EUR")
	From   int
	Size   int // defaults to DefaultSearchPageSize
}

// searchRequestBody mirrors the POST /search/query request envelope.
type searchRequestBody struct {
	Requests []searchRequest `json:"requests"`
}

type searchRequest struct {
	EntityTypes []string        `json:"entityTypes"`
	Region      string          `json:"region,omitempty"`
	Query       searchQueryText `json:"query"`
	From        int             `json:"from"`
	Size        int             `json:"size"`
}

type searchQueryText struct {
	QueryString string `json:"queryString"`
}

// searchResponseBody mirrors the nested search result envelope:
// value → hitsContainers → hits → resource (a driveItem).
type searchResponseBody struct {
	Value []searchResponse `json:"value"`
}

type searchResponse struct {
	HitsContainers []hitsContainer `json:"hitsContainers"`
}

type hitsContainer struct {
	Hits []searchHit `json:"hits"`
}

type searchHit struct {
	HitID    string            `json:"hitId"`
	Resource driveItemResponse `json:"resource"`
}

// Search issues a single driveItem search and returns the hit resources,
// flattened across responses and hit containers in service order, as
// normalized Items. It is one request; callers wanting more than one page
// window issue further calls with an advanced From.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Item, error) {
	size := q.Size
	if size == 0 {
		size = DefaultSearchPageSize
	}

	c.logger.Info("searching drive items",
		slog.String("query", q.Query),
		slog.String("region", q.Region),
		slog.Int("from", q.From),
		slog.Int("size", size),
	)

	reqBody := searchRequestBody{
		Requests: []searchRequest{{
			EntityTypes: []string{"driveItem"},
			Region:      q.Region,
			Query:       searchQueryText{QueryString: q.Query},
			From:        q.From,
			Size:        size,
		}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("graph: marshaling search request: %w", err)
	}

	resp, err := c.Do(ctx, http.MethodPost, "/search/query", bodyBytes)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var srb searchResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&srb); err != nil {
		return nil, fmt.Errorf("graph: decoding search response: %w", err)
	}

	var items []Item

	for i := range srb.Value {
		for j := range srb.Value[i].HitsContainers {
			hits := srb.Value[i].HitsContainers[j].Hits
			for k := range hits {
				items = append(items, hits[k].Resource.toItem(c.logger))
			}
		}
	}

	c.logger.Debug("search complete",
		slog.String("query", q.Query),
		slog.Int("hits", len(items)),
	)

	return items, nil
}

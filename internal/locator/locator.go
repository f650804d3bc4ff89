// Package locator finds the drive folder to mirror: one search query,
// one exact name+webUrl match.
package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/penikalapati-pavan/DownloadOneDriveFolder/internal/graph"
)

// ErrNoMatch is returned when the search completed but no hit matched both
// the requested name and webUrl.
var ErrNoMatch = errors.New("locator: no matching folder found")

// ErrSearchFailed wraps a search-call failure. Kept distinct from ErrNoMatch
// so callers can tell "nothing there" from "could not look".
var ErrSearchFailed = errors.New("locator: search failed")

// Match is the (drive-id, item-id) pair identifying the located folder.
// Computed once per run and consumed once; never retained.
type Match struct {
	DriveID string
	ItemID  string
}

// Searcher is the slice of the Graph client the locator needs.
type Searcher interface {
	Search(ctx context.Context, q graph.SearchQuery) ([]graph.Item, error)
}

// Locate issues a single driveItem search for folderName and selects the
// first hit whose name and webUrl both equal the requested values. Later
// hits never overwrite an established match; further exact matches on the
// same page are ignored with a warning (webUrls are expected unique per
// item, but the service does not guarantee it).
//
// Every visited hit's drive id and name are logged, matching or not.
func Locate(ctx context.Context, client Searcher, folderName, webURL, region string, logger *slog.Logger) (Match, error) {
	if logger == nil {
		logger = slog.Default()
	}

	hits, err := client.Search(ctx, graph.SearchQuery{
		Query:  folderName,
		Region: region,
		From:   0,
		Size:   graph.DefaultSearchPageSize,
	})
	if err != nil {
		return Match{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	var (
		match      Match
		found      bool
		duplicates int
	)

	for i := range hits {
		logger.Info("search hit",
			slog.String("drive_id", hits[i].DriveID),
			slog.String("name", hits[i].Name),
		)

		if hits[i].Name != folderName || hits[i].WebURL != webURL {
			continue
		}

		if found {
			duplicates++
			continue
		}

		match = Match{DriveID: hits[i].DriveID, ItemID: hits[i].ID}
		found = true

		logger.Info("matching folder found",
			slog.String("drive_id", match.DriveID),
			slog.String("item_id", match.ItemID),
		)
	}

	if duplicates > 0 {
		logger.Warn("ignoring duplicate exact matches",
			slog.String("name", folderName),
			slog.Int("ignored", duplicates),
		)
	}

	if !found {
		return Match{}, ErrNoMatch
	}

	return match, nil
}

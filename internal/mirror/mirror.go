// Package mirror materializes a remote folder subtree on local disk:
// a depth-first walk over paginated child listings, creating directories
// and streaming file content as it goes.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/penikalapati-pavan/DownloadOneDriveFolder/internal/graph"
)

// Client is the slice of the Graph client the mirror needs.
type Client interface {
	ListChildren(ctx context.Context, driveID, parentID string) ([]graph.Item, error)
	Download(ctx context.Context, item graph.Item, w io.Writer) (int64, error)
}

// Config controls traversal policy.
type Config struct {
	// KeepGoing logs and counts per-item failures instead of aborting the
	// walk on the first one. Default (false) is fail-fast: one bad item
	// aborts the remaining traversal. Either way, files already written
	// stay on disk — there is no rollback.
	KeepGoing bool

	// Transfers bounds concurrent sibling file downloads within one
	// directory. 1 (the default) keeps the walk strictly sequential with
	// at most one outstanding remote call. Folder recursion is always
	// sequential so a directory exists before anything is written under it.
	Transfers int

	// OnFile, if set, is called after each file is fully written.
	OnFile func(localPath string, size int64)
}

// Stats summarizes a completed (or aborted) walk. Failed is only ever
// nonzero with KeepGoing set.
type Stats struct {
	Files   int64
	Folders int64
	Bytes   int64
	Failed  int64
}

// Mirror downloads a remote folder tree to local disk. Safe for a single
// Download call at a time.
type Mirror struct {
	client Client
	cfg    Config
	logger *slog.Logger

	files   atomic.Int64
	folders atomic.Int64
	bytes   atomic.Int64
	failed  atomic.Int64
}

// New creates a Mirror. Transfers below 1 is treated as 1.
func New(client Client, cfg Config, logger *slog.Logger) *Mirror {
	if cfg.Transfers < 1 {
		cfg.Transfers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Mirror{client: client, cfg: cfg, logger: logger}
}

// Download mirrors the remote folder identified by (driveID, itemID) into
// localDir, creating localDir itself first. Directory creation is
// idempotent; existing files are truncated and rewritten.
func (m *Mirror) Download(ctx context.Context, driveID, itemID, localDir string) (Stats, error) {
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return m.stats(), fmt.Errorf("mirror: creating %s: %w", localDir, err)
	}

	err := m.walk(ctx, driveID, itemID, localDir)

	return m.stats(), err
}

func (m *Mirror) stats() Stats {
	return Stats{
		Files:   m.files.Load(),
		Folders: m.folders.Load(),
		Bytes:   m.bytes.Load(),
		Failed:  m.failed.Load(),
	}
}

// walk lists one directory and processes its children: files first
// (possibly concurrently), then subfolders in listing order.
func (m *Mirror) walk(ctx context.Context, driveID, itemID, localDir string) error {
	children, err := m.client.ListChildren(ctx, driveID, itemID)
	if err != nil {
		return fmt.Errorf("mirror: listing %s: %w", localDir, err)
	}

	var files, folders []graph.Item

	for _, child := range children {
		switch {
		case child.IsPackage:
			// OneNote packages are compound objects with no downloadable
			// content; the content endpoint rejects them.
			m.logger.Debug("skipping package item",
				slog.String("item_id", child.ID),
				slog.String("name", child.Name),
			)
		case child.IsFolder:
			folders = append(folders, child)
		default:
			files = append(files, child)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Transfers)

	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := m.downloadFile(gctx, f, localDir); err != nil {
				if m.cfg.KeepGoing {
					m.failed.Add(1)
					m.logger.Error("file download failed, continuing",
						slog.String("name", f.Name),
						slog.String("error", err.Error()),
					)

					return nil
				}

				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, d := range folders {
		path, err := childPath(localDir, d.Name)
		if err != nil {
			if m.cfg.KeepGoing {
				m.failed.Add(1)
				m.logger.Error("skipping folder with unsafe name",
					slog.String("name", d.Name),
					slog.String("error", err.Error()),
				)

				continue
			}

			return err
		}

		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("mirror: creating %s: %w", path, err)
		}

		m.folders.Add(1)

		if err := m.walk(ctx, driveID, d.ID, path); err != nil {
			if m.cfg.KeepGoing {
				m.failed.Add(1)
				m.logger.Error("subtree failed, continuing",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)

				continue
			}

			return err
		}
	}

	return nil
}

// downloadFile streams one file into localDir, creating or truncating the
// destination. The file is written in full before being closed.
func (m *Mirror) downloadFile(ctx context.Context, item graph.Item, localDir string) error {
	path, err := childPath(localDir, item.Name)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mirror: creating %s: %w", path, err)
	}

	n, dlErr := m.client.Download(ctx, item, f)

	closeErr := f.Close()

	if dlErr != nil {
		return fmt.Errorf("mirror: downloading %s: %w", path, dlErr)
	}

	if closeErr != nil {
		return fmt.Errorf("mirror: closing %s: %w", path, closeErr)
	}

	m.files.Add(1)
	m.bytes.Add(n)

	m.logger.Info("downloaded file",
		slog.String("path", path),
		slog.Int64("bytes", n),
	)

	if m.cfg.OnFile != nil {
		m.cfg.OnFile(path, n)
	}

	return nil
}

// childPath joins a normalized remote name onto dir, rejecting names that
// would escape it. Remote names should never contain separators, but the
// service's output is not trusted with filesystem access.
func childPath(dir, name string) (string, error) {
	clean := graph.NormalizeName(name)

	if clean == "" || clean == "." || clean == ".." ||
		strings.ContainsAny(clean, `/\`) {
		return "", fmt.Errorf("mirror: unsafe item name %q: %w", name, errUnsafeName)
	}

	return filepath.Join(dir, clean), nil
}

var errUnsafeName = errors.New("mirror: item name not usable as a path component")

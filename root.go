package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// Flags, bound in newRootCmd().
var (
	flagConfigPath   string
	flagClientID     string
	flagClientSecret string
	flagTenantID     string
	flagFolderName   string
	flagWebURL       string
	flagDownloadPath string
	flagRegion       string
	flagTransfers    int
	flagKeepGoing    bool
	flagVerbose      bool
	flagQuiet        bool
)

// httpClientTimeout bounds each HTTP request so a hung connection cannot
// stall the run indefinitely. Large files stream within this window; it is
// a per-request ceiling, not a whole-run one.
const httpClientTimeout = 10 * time.Minute

// defaultHTTPClient returns an HTTP client with a sensible timeout.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}

// newRootCmd builds the root command. The tool is single-purpose, so the
// root command runs the download itself rather than dispatching subcommands.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download-onedrive-folder",
		Short: "Search OneDrive for a folder and download its contents",
		Long: `Authenticates to Azure AD with application (client credentials) auth,
searches Microsoft Graph for a drive folder matching both --folder_name and
--web_url, and recursively downloads the folder's contents into
<download_path>/<folder_name>.`,
		Version: version,
		// Silence Cobra's default error/usage printing — main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runDownload,
	}

	cmd.Flags().StringVar(&flagConfigPath, "config", "", "TOML config file path")
	cmd.Flags().StringVar(&flagClientID, "client_id", "", "Azure AD application client ID")
	cmd.Flags().StringVar(&flagClientSecret, "client_secret", "", "Azure AD application client secret")
	cmd.Flags().StringVar(&flagTenantID, "tenant_id", "", "Azure AD tenant ID")
	cmd.Flags().StringVar(&flagFolderName, "folder_name", "", "name of the folder to download")
	cmd.Flags().StringVar(&flagWebURL, "web_url", "", "webUrl of the OneDrive folder (shown in the folder's details pane)")
	cmd.Flags().StringVar(&flagDownloadPath, "download_path", "", "local path to save the downloaded folder (defaults to current directory)")
	cmd.Flags().StringVar(&flagRegion, "region", "", "search region restriction (e.g. IND, NAM, EUR)")
	cmd.Flags().IntVar(&flagTransfers, "transfers", 1, "max concurrent sibling file downloads (1 = strictly sequential)")
	cmd.Flags().BoolVar(&flagKeepGoing, "keep-going", false, "log per-item failures and continue instead of aborting the walk")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	// folder_name and web_url have no env/config fallback, so cobra can
	// enforce them directly. Credentials are checked after the merge.
	_ = cmd.MarkFlagRequired("folder_name")
	_ = cmd.MarkFlagRequired("web_url")

	return cmd
}

// buildLogger creates an slog.Logger configured by the CLI flags.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/penikalapati-pavan/DownloadOneDriveFolder/internal/config"
	"github.com/penikalapati-pavan/DownloadOneDriveFolder/internal/graph"
	"github.com/penikalapati-pavan/DownloadOneDriveFolder/internal/locator"
	"github.com/penikalapati-pavan/DownloadOneDriveFolder/internal/mirror"
)

// resolveSettings merges the three configuration layers:
// config file -> environment -> flags. Flags only override when set, so a
// transfers value from the file survives an unset --transfers.
func resolveSettings(cmd *cobra.Command) (*config.Settings, error) {
	cfgPath := flagConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv(config.EnvConfig)
	}

	settings, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	config.ApplyEnv(settings)

	if flagClientID != "" {
		settings.ClientID = flagClientID
	}

	if flagClientSecret != "" {
		settings.ClientSecret = flagClientSecret
	}

	if flagTenantID != "" {
		settings.TenantID = flagTenantID
	}

	if flagRegion != "" {
		settings.Region = flagRegion
	}

	if flagDownloadPath != "" {
		settings.DownloadPath = flagDownloadPath
	}

	if cmd.Flags().Changed("transfers") {
		settings.Transfers = flagTransfers
	}

	if flagKeepGoing {
		settings.KeepGoing = true
	}

	if settings.DownloadPath == "" {
		cwd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("determining working directory: %w", wdErr)
		}

		settings.DownloadPath = cwd
	}

	if err := config.Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// runDownload is the whole program: authenticate once, locate the folder
// once, then walk and mirror its subtree.
func runDownload(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := buildLogger()

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	ts := graph.NewClientCredentialsSource(ctx, settings.TenantID, settings.ClientID, settings.ClientSecret, logger)
	client := graph.NewClient(graph.BaseURL, defaultHTTPClient(), ts, logger)

	match, err := locator.Locate(ctx, client, flagFolderName, flagWebURL, settings.Region, logger)
	if errors.Is(err, locator.ErrNoMatch) {
		// A clean no-match is a normal completion, not a failure.
		statusf(flagQuiet, "No matching folder found for query: %s and webUrl: %s\n", flagFolderName, flagWebURL)
		return nil
	}

	if err != nil {
		return fmt.Errorf("locating folder %q: %w", flagFolderName, err)
	}

	dest := filepath.Join(settings.DownloadPath, flagFolderName)

	m := mirror.New(client, mirror.Config{
		KeepGoing: settings.KeepGoing,
		Transfers: settings.Transfers,
		OnFile:    fileProgress(flagQuiet),
	}, logger)

	stats, err := m.Download(ctx, match.DriveID, match.ItemID, dest)
	if err != nil {
		return fmt.Errorf("downloading %q: %w", flagFolderName, err)
	}

	statusf(flagQuiet, "Downloaded %d files (%s) in %d folders to %s\n",
		stats.Files, formatSize(stats.Bytes), stats.Folders+1, dest)

	if stats.Failed > 0 {
		return fmt.Errorf("%d items failed to download", stats.Failed)
	}

	return nil
}

package graph

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"
)

// defaultScope requests the application permissions granted to the app
// registration. App-only auth always uses the .default scope.
const defaultScope = "https://graph.microsoft.com/.default"

// NewClientCredentialsSource builds a TokenSource for app-only (client
// credentials) authentication against the given tenant. Tokens are acquired
// lazily, cached in memory, and refreshed by the oauth2 library before
// expiry; nothing is ever persisted. Acquisition failures (bad secret,
// tenant mismatch, network) surface from Token() on first use.
//
// ctx must outlive the TokenSource — it is bound to the underlying oauth2
// source and canceling it breaks later token refreshes.
func NewClientCredentialsSource(ctx context.Context, tenantID, clientID, clientSecret string, logger *slog.Logger) TokenSource {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     microsoft.AzureADEndpoint(tenantID).TokenURL,
		Scopes:       []string{defaultScope},
	}

	logger.Debug("configured client credentials flow",
		slog.String("tenant_id", tenantID),
		slog.String("client_id", clientID),
	)

	return &tokenBridge{src: cfg.TokenSource(ctx), logger: logger}
}

// tokenBridge adapts oauth2.TokenSource to graph.TokenSource.
// Logs acquisitions at debug so refresh activity is visible; the token
// itself is never logged.
type tokenBridge struct {
	src    oauth2.TokenSource
	logger *slog.Logger
}

func (b *tokenBridge) Token() (string, error) {
	t, err := b.src.Token()
	if err != nil {
		b.logger.Warn("token acquisition failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("graph: obtaining token: %w", err)
	}

	b.logger.Debug("token acquired",
		slog.Time("expiry", t.Expiry),
		slog.Bool("valid", t.Valid()),
	)

	return t.AccessToken, nil
}

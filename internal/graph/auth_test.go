package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// erroringSource is an oauth2.TokenSource that always fails.
type erroringSource struct{}

func (erroringSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("invalid_client")
}

func TestTokenBridge_ReturnsAccessToken(t *testing.T) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc123"})
	bridge := &tokenBridge{src: src, logger: discardLogger()}

	tok, err := bridge.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)
}

func TestTokenBridge_WrapsAcquisitionError(t *testing.T) {
	bridge := &tokenBridge{src: erroringSource{}, logger: discardLogger()}

	_, err := bridge.Token()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client")
}

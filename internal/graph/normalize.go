package graph

import (
	"net/url"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName prepares a remote item name for use as a local path
// component. The Graph API sometimes returns percent-encoded names
// (e.g. "my%20file.txt"), particularly for items in shared folders, and
// mixes NFC/NFD Unicode forms across endpoints; both are normalized so the
// same remote item always maps to the same local path.
func NormalizeName(name string) string {
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	return norm.NFC.String(name)
}

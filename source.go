package visitfacts

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultDownloadBase is the direct-download endpoint share links resolve to.
const DefaultDownloadBase = "https://drive.google.com/uc?export=download"

// ResolveDownloadURL turns a share link such as
// https://drive.google.com/file/d/<id>/view?usp=drive_link into a direct
// download URL on base. The identifier is the second-to-last path segment,
// unless the link already carries an id query parameter.
func ResolveDownloadURL(shareURL, base string) (string, error) {
	id, err := ShareLinkID(shareURL)
	if err != nil {
		return "", err
	}
	if base == "" {
		base = DefaultDownloadBase
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("download base %q: %w", base, err)
	}
	q := u.Query()
	q.Set("id", id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ShareLinkID extracts the file identifier from a share link.
func ShareLinkID(shareURL string) (string, error) {
	u, err := url.Parse(shareURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidShareLink, err)
	}

	if id := u.Query().Get("id"); id != "" {
		return id, nil
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return "", fmt.Errorf("%w: %s", ErrInvalidShareLink, shareURL)
	}
	id := segments[len(segments)-2]
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidShareLink, shareURL)
	}
	return id, nil
}

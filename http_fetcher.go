package visitfacts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ShareLinkFetcher downloads datasets published as share links.
type ShareLinkFetcher struct {
	BaseFetcher
	client       *http.Client
	downloadBase string
	userAgent    string
}

type ShareLinkOption func(*ShareLinkFetcher)

func ShareLinkWithDownloadBase(base string) ShareLinkOption {
	return func(f *ShareLinkFetcher) {
		if base != "" {
			f.downloadBase = base
		}
	}
}

func ShareLinkWithUserAgent(ua string) ShareLinkOption {
	return func(f *ShareLinkFetcher) {
		f.userAgent = ua
	}
}

func NewShareLinkFetcher(client *http.Client, opts ...ShareLinkOption) *ShareLinkFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &ShareLinkFetcher{
		BaseFetcher:  NewBaseFetcher("share_link", 10),
		client:       client,
		downloadBase: DefaultDownloadBase,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ShareLinkFetcher) CanHandle(ds Dataset) bool {
	u, err := url.Parse(ds.Location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func (f *ShareLinkFetcher) Fetch(ctx context.Context, ds Dataset) (*Table, error) {
	downloadURL, err := ResolveDownloadURL(ds.Location, f.downloadBase)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieveFailed, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieveFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrRetrieveFailed, downloadURL, resp.Status)
	}

	t, err := ReadCSV(resp.Body, ds.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return t, nil
}

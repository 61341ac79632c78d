package visitfacts

import (
	"context"
	"fmt"
	"net/url"
	"os"
)

// FileFetcher reads datasets from file:// URLs and plain local paths.
type FileFetcher struct {
	BaseFetcher
}

func NewFileFetcher() *FileFetcher {
	return &FileFetcher{BaseFetcher: NewBaseFetcher("file", 20)}
}

func (f *FileFetcher) CanHandle(ds Dataset) bool {
	_, ok := localPath(ds.Location)
	return ok
}

func (f *FileFetcher) Fetch(ctx context.Context, ds Dataset) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := localPath(ds.Location)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a local path", ErrRetrieveFailed, ds.Location)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieveFailed, err)
	}
	defer fh.Close()

	t, err := ReadCSV(fh, ds.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return t, nil
}

func localPath(location string) (string, bool) {
	u, err := url.Parse(location)
	if err != nil {
		return location, location != ""
	}
	switch u.Scheme {
	case "file":
		return u.Path, u.Path != ""
	case "":
		return location, location != ""
	default:
		// Windows drive letters parse as a one-letter scheme.
		if len(u.Scheme) == 1 {
			return location, true
		}
		return "", false
	}
}

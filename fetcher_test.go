package visitfacts_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulllvoid/visitfacts"
)

func TestBaseFetcher(t *testing.T) {
	t.Parallel()

	fetcher := visitfacts.NewBaseFetcher("test_fetcher", 3)

	assert.Equal(t, "test_fetcher", fetcher.Name())
	assert.Equal(t, 3, fetcher.Priority())
	assert.True(t, fetcher.CanHandle(visitfacts.Dataset{}), "BaseFetcher.CanHandle should return true by default")
}

func newDriveServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uc" || r.URL.Query().Get("export") != "download" {
			http.NotFound(w, r)
			return
		}
		body, ok := files[r.URL.Query().Get("id")]
		if !ok {
			http.Error(w, "no such file", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestShareLinkFetcher_CanHandle(t *testing.T) {
	t.Parallel()

	f := visitfacts.NewShareLinkFetcher(nil)

	assert.True(t, f.CanHandle(visitfacts.Dataset{Location: "https://drive.google.com/file/d/x/view"}))
	assert.True(t, f.CanHandle(visitfacts.Dataset{Location: "http://example.com/file/d/x/view"}))
	assert.False(t, f.CanHandle(visitfacts.Dataset{Location: "/tmp/patients.csv"}))
	assert.False(t, f.CanHandle(visitfacts.Dataset{Location: "file:///tmp/patients.csv"}))
}

func TestShareLinkFetcher_Fetch(t *testing.T) {
	t.Parallel()

	srv := newDriveServer(t, map[string]string{
		"pat":    patientsCSV,
		"broken": "a,b\n1,2,3\n",
	})
	f := visitfacts.NewShareLinkFetcher(srv.Client(),
		visitfacts.ShareLinkWithDownloadBase(srv.URL+"/uc?export=download"),
	)

	t.Run("downloads and parses", func(t *testing.T) {
		t.Parallel()
		tbl, err := f.Fetch(context.Background(), visitfacts.Dataset{
			Name:     visitfacts.DatasetPatients,
			Location: "https://drive.google.com/file/d/pat/view?usp=drive_link",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Len())
		assert.Equal(t, visitfacts.DatasetPatients, tbl.Name)
	})

	t.Run("http error status", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(context.Background(), visitfacts.Dataset{
			Name:     "missing",
			Location: "https://drive.google.com/file/d/nope/view",
		})
		assert.ErrorIs(t, err, visitfacts.ErrRetrieveFailed)
	})

	t.Run("parse error", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(context.Background(), visitfacts.Dataset{
			Name:     "broken",
			Location: "https://drive.google.com/file/d/broken/view",
		})
		assert.ErrorIs(t, err, visitfacts.ErrParseFailed)
	})

	t.Run("invalid share link", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(context.Background(), visitfacts.Dataset{Name: "x", Location: "https://drive.google.com/"})
		assert.ErrorIs(t, err, visitfacts.ErrInvalidShareLink)
	})
}

func TestShareLinkFetcher_UserAgent(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.UserAgent()
		_, _ = w.Write([]byte("id\n1\n"))
	}))
	defer srv.Close()

	f := visitfacts.NewShareLinkFetcher(srv.Client(),
		visitfacts.ShareLinkWithDownloadBase(srv.URL+"/uc"),
		visitfacts.ShareLinkWithUserAgent("visitfacts-test"),
	)
	_, err := f.Fetch(context.Background(), visitfacts.Dataset{Name: "x", Location: "https://h/file/d/a/view"})
	require.NoError(t, err)
	assert.Equal(t, "visitfacts-test", <-agents)
}

func TestFileFetcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTempFile(t, dir, "doctors.csv", doctorsCSV)
	f := visitfacts.NewFileFetcher()

	t.Run("plain path", func(t *testing.T) {
		t.Parallel()
		ds := visitfacts.Dataset{Name: visitfacts.DatasetDoctors, Location: path}
		require.True(t, f.CanHandle(ds))
		tbl, err := f.Fetch(context.Background(), ds)
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Len())
	})

	t.Run("file url", func(t *testing.T) {
		t.Parallel()
		ds := visitfacts.Dataset{Name: visitfacts.DatasetDoctors, Location: "file://" + filepath.ToSlash(path)}
		require.True(t, f.CanHandle(ds))
		_, err := f.Fetch(context.Background(), ds)
		require.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(context.Background(), visitfacts.Dataset{Name: "x", Location: filepath.Join(dir, "nope.csv")})
		assert.ErrorIs(t, err, visitfacts.ErrRetrieveFailed)
	})

	t.Run("rejects http", func(t *testing.T) {
		t.Parallel()
		assert.False(t, f.CanHandle(visitfacts.Dataset{Location: "https://example.com/a.csv"}))
	})
}

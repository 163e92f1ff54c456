// nolint: funlen
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartelera/movie"
	"cartelera/pkg/config"
)

func newListingUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	page, err := os.ReadFile(filepath.Join("..", "..", "vandyck", "testdata", "cartelera.html"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/cartelera", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(page)
	})
	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)
	return upstream
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScrapeCommand(t *testing.T) {
	upstream := newListingUpstream(t)
	t.Setenv("LISTING_URL", upstream.URL+"/cartelera")

	t.Run("prints movie records as JSON", func(t *testing.T) {
		out, err := runCmd(t, "scrape")

		require.NoError(t, err)
		var movies []movie.Movie
		require.NoError(t, json.Unmarshal([]byte(out), &movies))
		require.Len(t, movies, 2)
		assert.Equal(t, 166, movies[0].Length)
	})

	t.Run("prints condensed strings", func(t *testing.T) {
		out, err := runCmd(t, "scrape", "--simple")

		require.NoError(t, err)
		var summaries []string
		require.NoError(t, json.Unmarshal([]byte(out), &summaries))
		assert.Equal(t, []string{"Dune: Parte Dos -> ['17:00', '20:15']", "Wonka -> ['16:00']"}, summaries)
	})

	t.Run("prints a table", func(t *testing.T) {
		out, err := runCmd(t, "scrape", "--table")

		require.NoError(t, err)
		assert.Contains(t, out, "Dune: Parte Dos")
		assert.Contains(t, out, "17:00 20:15")
		assert.Contains(t, out, "Ciencia ficción, Aventura")
	})

	t.Run("rejects both output modes", func(t *testing.T) {
		_, err := runCmd(t, "scrape", "--simple", "--table")

		assert.Error(t, err)
	})

	t.Run("fails on upstream error", func(t *testing.T) {
		t.Setenv("LISTING_URL", upstream.URL+"/missing")

		_, err := runCmd(t, "scrape")

		var upstreamErr *movie.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusNotFound, upstreamErr.StatusCode)
	})
}

func TestServeCommandRejectsInvalidConfig(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("port=8080\nhost=127.0.0.1\n"), 0o600))

		_, err := runCmd(t, "serve", "--env-file", path)

		var missing *config.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "backlog", missing.Field)
	})

	t.Run("invalid type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "backlog=10\ndebug=false\nhost=127.0.0.1\nlog_level=info\nport=http\nreload=false\ntimeout_keep_alive=5\nworkers=1\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := runCmd(t, "--env-file", path)

		var invalid *config.InvalidFieldTypeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "port", invalid.Field)
	})
}

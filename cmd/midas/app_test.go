package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jaywantadh/midasclient/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeConfig(t *testing.T, baseURL, journalPath string) string {
	t.Setenv("HISTORICAL_URL", "")
	t.Setenv("MIDAS_BASE_URL", "")

	dir := t.TempDir()
	yaml := "base_url: " + baseURL + "\ntimeout: 5s\n"
	if journalPath != "" {
		yaml += "journal_path: " + journalPath + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	return dir
}

func TestDownloadCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "records")
	}))
	defer srv.Close()

	cfgDir := writeConfig(t, srv.URL, "")
	out := filepath.Join(t.TempDir(), "out.bin")

	app := newApp()
	var stdout bytes.Buffer
	app.Writer = &stdout

	err := app.Run([]string{"midas", "--config", cfgDir, "download",
		"--symbols", "AAPL", "--start", "2024-01-01", "--end", "2024-01-02", "--out", out})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "records", string(got))
	assert.Contains(t, stdout.String(), "success (200)")
}

func TestUploadCommandRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"failed","code":500,"message":"duplicate key","data":""}`)
	}))
	defer srv.Close()

	cfgDir := writeConfig(t, srv.URL, "")
	file := filepath.Join(t.TempDir(), "in.bin")
	require.NoError(t, os.WriteFile(file, []byte{1, 2, 3}, 0644))

	app := newApp()
	var stdout bytes.Buffer
	app.Writer = &stdout
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run([]string{"midas", "--config", cfgDir, "upload", "--file", file})
	assert.Error(t, err)
	assert.Contains(t, stdout.String(), "duplicate key")
}

func TestFormatRecord(t *testing.T) {
	r := journal.Record{
		Op:        "get_records_to_file",
		Status:    "success",
		Code:      200,
		Bytes:     2048,
		Target:    "bbo.bin",
		StartedAt: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
	}
	line := formatRecord(r)

	assert.Contains(t, line, "2024-01-03 10:00:00")
	assert.Contains(t, line, "get_records_to_file")
	assert.Contains(t, line, "2.0 kB")
	assert.Contains(t, line, "bbo.bin")
}

package cloudapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileInfo_KnownAndUnknownPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "app-1", r.FormValue("app_id"))

		if r.FormValue("target_path") == "habits.json" {
			json.NewEncoder(w).Encode(RemoteFile{Path: "habits.json", Hash: "h2", Size: 10})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "A"})

	info, err := c.FileInfo(context.Background(), "app-1", "habits.json")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "h2", info.Hash)

	// server has no record: not an error
	info, err = c.FileInfo(context.Background(), "app-1", "unknown.json")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestFileInfo_NotFoundWithNonEnvelopeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such file"))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "A"})
	info, err := c.FileInfo(context.Background(), "app-1", "unknown.json")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSyncFile_UploadsContentAndHash(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "habits.json")
	require.NoError(t, os.WriteFile(localPath, []byte(`{"habits":[]}`), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "app-1", r.FormValue("app_id"))
		assert.Equal(t, "habits.json", r.FormValue("target_path"))
		assert.Equal(t, "h1", r.FormValue("file_hash"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		json.NewEncoder(w).Encode(SyncFileResponse{Path: "habits.json", Hash: "h1"})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "A"})
	ack, err := c.SyncFile(context.Background(), "app-1", "habits.json", "h1", localPath)
	require.NoError(t, err)
	assert.Equal(t, "h1", ack.Hash)
}

func TestListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app-1", r.URL.Query().Get("app_id"))
		json.NewEncoder(w).Encode([]*RemoteFile{
			{Path: "habits.json", Hash: "h1"},
			{Path: "notes/a.txt", Hash: "h2"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "A"})
	files, err := c.ListFiles(context.Background(), "app-1")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "notes/a.txt", files[1].Path)
}

func TestDownloadFile_WritesAndCreatesParents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("target_path") == "notes/a.txt" {
			w.Write([]byte("note body"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "A"})
	destPath := filepath.Join(t.TempDir(), "nested", "notes", "a.txt")

	require.NoError(t, c.DownloadFile(context.Background(), "app-1", "notes/a.txt", destPath))
	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "note body", string(data))
}

func TestDownloadFile_ErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "A"})
	destPath := filepath.Join(t.TempDir(), "a.txt")

	err := c.DownloadFile(context.Background(), "app-1", "a.txt", destPath)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.NoFileExists(t, destPath)
}

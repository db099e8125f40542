package cloud

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itachi2230/fxHabit/internal/hashutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func loggedInService(t *testing.T, f *fakeCloud) *Service {
	t.Helper()
	s := newTestService(t, f.srv.URL)
	require.Equal(t, AuthOK, s.Login(context.Background(), "user@test.io", "x"))
	return s
}

func TestSyncAll_UploadsChangedThenReportsUpToDate(t *testing.T) {
	f := newFakeCloud(t)
	s := loggedInService(t, f)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "local content")
	manifest := []ManifestEntry{{LocalPath: dir, RemotePath: "", IsDir: true}}

	// server has a different recorded hash for a.txt
	f.mu.Lock()
	f.hashes["app-test/a.txt"] = "h2"
	f.files["app-test/a.txt"] = []byte("stale remote")
	f.mu.Unlock()

	report := s.SyncAll(context.Background(), manifest)

	wantHash := hashutil.Bytes([]byte("local content"))
	f.mu.Lock()
	uploads := append([]string(nil), f.uploads...)
	f.mu.Unlock()
	require.Len(t, uploads, 1, "exactly one upload")
	assert.Equal(t, "a.txt#"+wantHash, uploads[0])

	assert.Equal(t, 1, report.Counts.Uploaded)
	assert.Zero(t, report.Counts.Failed)
	assert.Contains(t, report.Lines, "uploaded: a.txt")

	// second immediate sync of the unchanged file: zero uploads
	report2 := s.SyncAll(context.Background(), manifest)
	f.mu.Lock()
	uploadsAfter := len(f.uploads)
	f.mu.Unlock()
	assert.Equal(t, 1, uploadsAfter)
	assert.Equal(t, 1, report2.Counts.Unchanged)
	assert.Zero(t, report2.Counts.Uploaded)
	assert.Contains(t, report2.Lines, "up to date: a.txt")
}

func TestSyncAll_UploadsWhenServerHasNoRecord(t *testing.T) {
	f := newFakeCloud(t)
	s := loggedInService(t, f)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "habits.json"), `{"habits":[]}`)

	report := s.SyncAll(context.Background(), []ManifestEntry{
		{LocalPath: filepath.Join(dir, "habits.json"), RemotePath: "habits.json"},
	})

	assert.Equal(t, 1, report.Counts.Uploaded)
	f.mu.Lock()
	assert.Equal(t, hashutil.Bytes([]byte(`{"habits":[]}`)), f.hashes["app-test/habits.json"])
	f.mu.Unlock()
}

func TestSyncAll_DownloadsMissingRemoteFiles(t *testing.T) {
	f := newFakeCloud(t)
	s := loggedInService(t, f)

	dir := t.TempDir()
	manifest := []ManifestEntry{{LocalPath: dir, RemotePath: "", IsDir: true}}

	remoteContent := []byte("written on another machine")
	f.mu.Lock()
	f.files["app-test/notes/b.txt"] = remoteContent
	f.hashes["app-test/notes/b.txt"] = hashutil.Bytes(remoteContent)
	f.mu.Unlock()

	report := s.SyncAll(context.Background(), manifest)

	assert.Equal(t, 1, report.Counts.Downloaded)
	data, err := os.ReadFile(filepath.Join(dir, "notes", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, remoteContent, data)

	// stamped after the run
	p := s.CachedProfile()
	require.NotNil(t, p)
	assert.NotNil(t, p.LastSync)
}

func TestSyncAll_PerItemFailureIsolation(t *testing.T) {
	f := newFakeCloud(t)
	s := loggedInService(t, f)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.txt"), "fails")
	writeFile(t, filepath.Join(dir, "good.txt"), "succeeds")

	f.mu.Lock()
	f.failPaths["bad.txt"] = true
	f.mu.Unlock()

	report := s.SyncAll(context.Background(), []ManifestEntry{
		{LocalPath: dir, RemotePath: "", IsDir: true},
	})

	assert.Equal(t, 1, report.Counts.Failed)
	assert.Equal(t, 1, report.Counts.Uploaded)
	assert.Contains(t, report.Lines, "uploaded: good.txt")

	var failedLine string
	for _, line := range report.Lines {
		if strings.HasPrefix(line, "failed: bad.txt") {
			failedLine = line
		}
	}
	assert.NotEmpty(t, failedLine, "failure must surface its cause in the report")
}

func TestSyncAll_AbortsWhenNotReady(t *testing.T) {
	f := newFakeCloud(t)
	s := newTestService(t, f.srv.URL) // not logged in

	report := s.SyncAll(context.Background(), s.DefaultManifest())

	assert.Len(t, report.Lines, 1)
	assert.Contains(t, report.Lines[0], "sync aborted")
	assert.Zero(t, report.Counts.Uploaded)
}

func TestSyncAll_Cancellation(t *testing.T) {
	f := newFakeCloud(t)
	s := loggedInService(t, f)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "1")
	writeFile(t, filepath.Join(dir, "b.txt"), "2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := s.SyncAll(ctx, []ManifestEntry{{LocalPath: dir, RemotePath: "", IsDir: true}})

	// never misreported as a connectivity problem
	assert.Equal(t, []string{"sync canceled"}, report.Lines)
	assert.Zero(t, report.Counts.Uploaded)

	f.mu.Lock()
	uploads := len(f.uploads)
	f.mu.Unlock()
	assert.Zero(t, uploads)
}

func TestExpandEntry_RecursesWithRelativePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "habits.json"), "{}")
	writeFile(t, filepath.Join(dir, "notes", "deep", "c.txt"), "c")

	items, err := expandEntry(ManifestEntry{LocalPath: dir, RemotePath: "backup", IsDir: true})
	require.NoError(t, err)

	var remotes []string
	for _, it := range items {
		remotes = append(remotes, it.remotePath)
	}
	assert.ElementsMatch(t, []string{"backup/habits.json", "backup/notes/deep/c.txt"}, remotes)
}

func TestResolveLocal(t *testing.T) {
	manifest := []ManifestEntry{
		{LocalPath: "/data/habits.json", RemotePath: "habits.json"},
		{LocalPath: "/data/notes", RemotePath: "notes", IsDir: true},
	}

	assert.Equal(t, "/data/habits.json", resolveLocal(manifest, "habits.json"))
	assert.Equal(t, filepath.Join("/data/notes", "a", "b.txt"), resolveLocal(manifest, "notes/a/b.txt"))
	assert.Empty(t, resolveLocal(manifest, "elsewhere/x.txt"))
}

func TestResolveLocal_RejectsEscapingPaths(t *testing.T) {
	manifest := []ManifestEntry{
		{LocalPath: "/data", RemotePath: "", IsDir: true},
		{LocalPath: "/data/notes", RemotePath: "notes", IsDir: true},
	}

	for _, remote := range []string{
		"../../etc/passwd",
		"..",
		"notes/../../x",
		"/etc/passwd",
	} {
		assert.Empty(t, resolveLocal(manifest, remote), remote)
	}
}

func TestSyncAll_SkipsEscapingRemotePaths(t *testing.T) {
	f := newFakeCloud(t)
	s := loggedInService(t, f)

	dir := t.TempDir()
	evil := []byte("planted")
	f.mu.Lock()
	f.files["app-test/../../evil.txt"] = evil
	f.hashes["app-test/../../evil.txt"] = hashutil.Bytes(evil)
	f.mu.Unlock()

	report := s.SyncAll(context.Background(), []ManifestEntry{
		{LocalPath: dir, RemotePath: "", IsDir: true},
	})

	assert.Zero(t, report.Counts.Downloaded)
	assert.Contains(t, report.Lines, "skipped (no local mapping): ../../evil.txt")
	assert.NoFileExists(t, filepath.Join(dir, "..", "..", "evil.txt"))
}

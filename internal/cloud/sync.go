package cloud

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/itachi2230/fxHabit/internal/hashutil"
	"github.com/itachi2230/fxHabit/internal/netcheck"
)

// ManifestEntry declares one local path this installation keeps mirrored
// with the server. Directories expand at sync time to one item per
// contained file, relative path preserved.
type ManifestEntry struct {
	LocalPath  string
	RemotePath string
	IsDir      bool
}

// SyncCounts is the structured tally of a sync run, one bucket per item
// outcome. Callers read these instead of parsing report lines.
type SyncCounts struct {
	Unchanged  int
	Uploaded   int
	Downloaded int
	Failed     int
}

// SyncReport aggregates per-item outcome lines, in processing order, along
// with structured counts. Lines are suitable for direct display.
type SyncReport struct {
	Lines  []string
	Counts SyncCounts
}

func (r *SyncReport) unchanged(remotePath string) {
	r.Counts.Unchanged++
	r.Lines = append(r.Lines, "up to date: "+remotePath)
}

func (r *SyncReport) uploaded(remotePath string) {
	r.Counts.Uploaded++
	r.Lines = append(r.Lines, "uploaded: "+remotePath)
}

func (r *SyncReport) downloaded(remotePath string) {
	r.Counts.Downloaded++
	r.Lines = append(r.Lines, "downloaded: "+remotePath)
}

func (r *SyncReport) failed(remotePath string, err error) {
	r.Counts.Failed++
	r.Lines = append(r.Lines, fmt.Sprintf("failed: %s: %v", remotePath, err))
}

func (r *SyncReport) note(line string) {
	r.Lines = append(r.Lines, line)
}

// syncItem is one file to reconcile, after directory expansion.
type syncItem struct {
	localPath  string
	remotePath string
}

// DefaultManifest mirrors the habit data directory as a whole.
func (s *Service) DefaultManifest() []ManifestEntry {
	return []ManifestEntry{
		{LocalPath: s.cfg.DataDir, RemotePath: "", IsDir: true},
	}
}

// SyncAll reconciles the manifest with the server: the upload phase runs
// first so the subsequent remote listing reflects our own just-uploaded
// changes, then the download phase pulls what is missing or stale locally.
// Each item's failure is isolated; the run is best-effort, never
// all-or-nothing.
func (s *Service) SyncAll(ctx context.Context, manifest []ManifestEntry) (report *SyncReport) {
	report = &SyncReport{}
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("sync panic", "recovered", rec)
			report.Counts.Failed++
			report.note(fmt.Sprintf("critical failure: %v", rec))
		}
	}()

	// a canceled context makes the reachability probe fail as if offline,
	// so cancellation is checked before the status is interpreted
	st := s.Status(ctx)
	if ctx.Err() != nil {
		report.note("sync canceled")
		return report
	}
	if st != netcheck.Ready {
		report.note("sync aborted: " + st.String())
		return report
	}

	s.uploadPhase(ctx, manifest, report)
	if ctx.Err() == nil {
		s.downloadPhase(ctx, manifest, report)
	}
	if ctx.Err() != nil {
		report.note("sync canceled")
		return report
	}

	if err := s.store.SetLastSync(time.Now()); err != nil {
		slog.Warn("last sync timestamp", "error", err)
	}

	slog.Info("sync done",
		"unchanged", report.Counts.Unchanged,
		"uploaded", report.Counts.Uploaded,
		"downloaded", report.Counts.Downloaded,
		"failed", report.Counts.Failed)
	return report
}

func (s *Service) uploadPhase(ctx context.Context, manifest []ManifestEntry, report *SyncReport) {
	for _, entry := range manifest {
		items, err := expandEntry(entry)
		if err != nil {
			report.failed(entry.RemotePath, err)
			continue
		}
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			s.syncFile(ctx, item, report)
		}
	}
}

// syncFile uploads one file unless the server already holds identical
// content. Equality is decided by content hash only; timestamps are never
// trusted.
func (s *Service) syncFile(ctx context.Context, item syncItem, report *SyncReport) {
	hash, err := hashutil.FileHash(item.localPath)
	if err != nil {
		report.failed(item.remotePath, err)
		return
	}

	info, err := s.api.FileInfo(ctx, s.cfg.AppID, item.remotePath)
	if err != nil {
		report.failed(item.remotePath, err)
		return
	}
	if info != nil && info.Hash == hash {
		report.unchanged(item.remotePath)
		return
	}

	if _, err := s.api.SyncFile(ctx, s.cfg.AppID, item.remotePath, hash, item.localPath); err != nil {
		report.failed(item.remotePath, err)
		return
	}
	report.uploaded(item.remotePath)
}

func (s *Service) downloadPhase(ctx context.Context, manifest []ManifestEntry, report *SyncReport) {
	remote, err := s.api.ListFiles(ctx, s.cfg.AppID)
	if err != nil {
		report.failed("remote listing", err)
		return
	}

	for _, rf := range remote {
		if ctx.Err() != nil {
			return
		}

		localPath := resolveLocal(manifest, rf.Path)
		if localPath == "" {
			report.note("skipped (no local mapping): " + rf.Path)
			continue
		}

		localHash, err := hashutil.FileHash(localPath)
		if err == nil && localHash == rf.Hash {
			continue // already reconciled during the upload phase
		}
		// missing or stale locally; last writer wins

		if err := s.api.DownloadFile(ctx, s.cfg.AppID, rf.Path, localPath); err != nil {
			report.failed(rf.Path, err)
			continue
		}
		report.downloaded(rf.Path)
	}
}

// expandEntry turns a manifest entry into concrete file items. Directory
// entries enumerate every contained file recursively.
func expandEntry(entry ManifestEntry) ([]syncItem, error) {
	if !entry.IsDir {
		return []syncItem{{localPath: entry.LocalPath, remotePath: entry.RemotePath}}, nil
	}

	var items []syncItem
	err := filepath.WalkDir(entry.LocalPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(entry.LocalPath, p)
		if err != nil {
			return err
		}
		items = append(items, syncItem{
			localPath:  p,
			remotePath: path.Join(entry.RemotePath, filepath.ToSlash(rel)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// resolveLocal maps a server-side path back to a local path via the
// manifest. Returns "" when no entry covers it. The server's manifest is
// not trusted to name paths outside the mirrored roots.
func resolveLocal(manifest []ManifestEntry, remotePath string) string {
	if p := path.Clean(remotePath); path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
		return ""
	}
	for _, entry := range manifest {
		if !entry.IsDir {
			if entry.RemotePath == remotePath {
				return entry.LocalPath
			}
			continue
		}
		if entry.RemotePath == "" {
			return filepath.Join(entry.LocalPath, filepath.FromSlash(remotePath))
		}
		if rest, ok := strings.CutPrefix(remotePath, entry.RemotePath+"/"); ok {
			return filepath.Join(entry.LocalPath, filepath.FromSlash(rest))
		}
	}
	return ""
}

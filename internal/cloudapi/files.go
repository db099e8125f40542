package cloudapi

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/imroc/req/v3"

	"github.com/itachi2230/fxHabit/internal/utils"
)

// FileInfo asks the server for its recorded state of one synced file.
// Returns (nil, nil) when the server has no record for the path.
func (c *Client) FileInfo(ctx context.Context, appID, targetPath string) (*RemoteFile, error) {
	var info RemoteFile
	var apiErr APIError

	resp, err := c.Do(ctx, func(r *req.Request) (*req.Response, error) {
		return r.SetFormData(map[string]string{
			"app_id":      appID,
			"target_path": targetPath,
		}).
			EnableForceMultipart().
			SetSuccessResult(&info).
			SetErrorResult(&apiErr).
			Post(epFileInfo)
	})

	if httpStatus(resp) == http.StatusNotFound {
		return nil, nil
	}
	if err := checkAPIError(resp, err, "file info"); err != nil {
		return nil, err
	}
	return &info, nil
}

// SyncFile uploads one file's full content along with its hash as metadata.
func (c *Client) SyncFile(ctx context.Context, appID, targetPath, hash, localPath string) (*SyncFileResponse, error) {
	var ack SyncFileResponse
	var apiErr APIError

	resp, err := c.Do(ctx, func(r *req.Request) (*req.Response, error) {
		return r.SetFormData(map[string]string{
			"app_id":      appID,
			"target_path": targetPath,
			"file_hash":   hash,
		}).
			SetFile("file", localPath).
			SetSuccessResult(&ack).
			SetErrorResult(&apiErr).
			Post(epSyncFile)
	})

	if err := checkAPIError(resp, err, "file upload"); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ListFiles fetches the server's full manifest of known files for this
// installation.
func (c *Client) ListFiles(ctx context.Context, appID string) ([]*RemoteFile, error) {
	var files []*RemoteFile
	var apiErr APIError

	resp, err := c.Do(ctx, func(r *req.Request) (*req.Response, error) {
		return r.SetQueryParam("app_id", appID).
			SetSuccessResult(&files).
			SetErrorResult(&apiErr).
			Get(epList)
	})

	if err := checkAPIError(resp, err, "file list"); err != nil {
		return nil, err
	}
	return files, nil
}

// DownloadFile fetches one remote file's bytes into destPath, creating any
// missing parent directories. The write goes through a temp file so a failed
// download never leaves a half-written file at destPath.
func (c *Client) DownloadFile(ctx context.Context, appID, targetPath, destPath string) error {
	if err := utils.EnsureParent(destPath); err != nil {
		return err
	}
	tmpPath := filepath.Join(filepath.Dir(destPath), "."+filepath.Base(destPath)+".part")

	resp, err := c.Do(ctx, func(r *req.Request) (*req.Response, error) {
		return r.SetQueryParams(map[string]string{
			"app_id":      appID,
			"target_path": targetPath,
		}).
			DisableAutoReadResponse().
			SetOutputFile(tmpPath).
			Get(epDownload)
	})

	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	if resp.IsErrorState() {
		os.Remove(tmpPath)
		if resp.StatusCode == http.StatusNotFound {
			return ErrFileNotFound
		}
		return checkAPIError(resp, nil, "file download")
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

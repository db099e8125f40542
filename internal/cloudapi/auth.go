package cloudapi

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/itachi2230/fxHabit/internal/utils"
)

// Login exchanges credentials for a token pair. The identifier may be an
// email address or a phone number. An unauthorized response maps to
// ErrBadCredentials.
func (c *Client) Login(ctx context.Context, identifier, password string) (*TokenResponse, error) {
	var tok TokenResponse
	var apiErr APIError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&loginRequest{Username: identifier, Password: password}).
		SetSuccessResult(&tok).
		SetErrorResult(&apiErr).
		Post(epLogin)

	if httpStatus(resp) == http.StatusUnauthorized {
		return nil, ErrBadCredentials
	}
	if err := checkAPIError(resp, err, "login"); err != nil {
		return nil, err
	}
	if tok.Token == "" {
		return nil, ErrNoAccessToken
	}
	return &tok, nil
}

// Register creates an account. It yields no session; the caller logs in
// afterwards to obtain tokens. A conflict response maps to
// ErrDuplicateAccount.
func (c *Client) Register(ctx context.Context, params *RegisterParams) error {
	var apiErr APIError

	r := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email":       params.Email,
			"phoneNumber": params.Phone,
			"password":    params.Password,
			"fullName":    params.FullName,
			"bio":         params.Bio,
		}).
		EnableForceMultipart().
		SetErrorResult(&apiErr)

	if err := attachImage(r, params.ImagePath); err != nil {
		return err
	}

	resp, err := r.Post(epRegister)
	if httpStatus(resp) == http.StatusConflict {
		return ErrDuplicateAccount
	}
	return checkAPIError(resp, err, "register")
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (*UserInfo, error) {
	var user UserInfo
	var apiErr APIError

	resp, err := c.Do(ctx, func(r *req.Request) (*req.Response, error) {
		return r.SetSuccessResult(&user).SetErrorResult(&apiErr).Get(epMe)
	})
	if err := checkAPIError(resp, err, "profile fetch"); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile submits changed profile fields, with an optional replacement
// picture.
func (c *Client) UpdateProfile(ctx context.Context, params *ProfileParams) (*UserInfo, error) {
	var user UserInfo
	var apiErr APIError

	resp, err := c.Do(ctx, func(r *req.Request) (*req.Response, error) {
		r.SetFormData(map[string]string{
			"fullName":    params.FullName,
			"phoneNumber": params.Phone,
			"bio":         params.Bio,
		}).
			EnableForceMultipart().
			SetSuccessResult(&user).
			SetErrorResult(&apiErr)
		if err := attachImage(r, params.ImagePath); err != nil {
			return nil, err
		}
		return r.Post(epUserUpdate)
	})
	if err := checkAPIError(resp, err, "profile update"); err != nil {
		return nil, err
	}
	return &user, nil
}

// DownloadProfileImage fetches the named profile picture into destDir and
// returns the local path. No credential is required for this endpoint.
func (c *Client) DownloadProfileImage(ctx context.Context, fileName, destDir string) (string, error) {
	if err := utils.EnsureDir(destDir); err != nil {
		return "", err
	}
	destPath := filepath.Join(destDir, filepath.Base(fileName))
	tmpPath := destPath + ".part"

	resp, err := c.http.R().
		SetContext(ctx).
		DisableAutoReadResponse().
		SetOutputFile(tmpPath).
		Get(epProfileImage + fileName)

	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if resp.IsErrorState() {
		// the error body landed in the output file; discard it
		os.Remove(tmpPath)
		if resp.StatusCode == http.StatusNotFound {
			return "", ErrFileNotFound
		}
		return "", checkAPIError(resp, nil, "profile image download")
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return destPath, nil
}

// attachImage adds an optional image to a multipart request with a
// content type derived from the file extension.
func attachImage(r *req.Request, imagePath string) error {
	if imagePath == "" {
		return nil
	}
	if !utils.FileExists(imagePath) {
		return ErrFileNotFound
	}

	contentType := "image/jpeg"
	if strings.EqualFold(filepath.Ext(imagePath), ".png") {
		contentType = "image/png"
	}

	r.SetFileUpload(req.FileUpload{
		ParamName:   "profilePicture",
		FileName:    filepath.Base(imagePath),
		ContentType: contentType,
		GetFileContent: func() (io.ReadCloser, error) {
			return os.Open(imagePath)
		},
	})
	return nil
}

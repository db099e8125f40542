package cloudapi

import "time"

// TokenResponse is the success envelope for login and refresh. The refresh
// token is optional; its absence is tolerated, not fatal.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type loginRequest struct {
	// The auth layer identifies users by "username", which accepts either
	// email or phone number.
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterParams is the multipart payload for account creation.
type RegisterParams struct {
	Email     string
	Phone     string
	Password  string
	FullName  string
	Bio       string
	ImagePath string // optional profile picture
}

// ProfileParams is the multipart payload for a profile update.
type ProfileParams struct {
	FullName  string
	Phone     string
	Bio       string
	ImagePath string // optional replacement picture
}

// UserInfo is the server's view of the signed-in user.
type UserInfo struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phoneNumber"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// RemoteFile describes the server's record of one synced file.
type RemoteFile struct {
	Path         string    `json:"path"`
	Hash         string    `json:"hash"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// SyncFileResponse acknowledges an upload.
type SyncFileResponse struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

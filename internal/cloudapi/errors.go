package cloudapi

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

var (
	ErrBadCredentials   = errors.New("cloudapi: invalid credentials")
	ErrDuplicateAccount = errors.New("cloudapi: account already exists")
	ErrNoAccessToken    = errors.New("cloudapi: response missing access token")
	ErrNoRefreshToken   = errors.New("cloudapi: refresh token missing")
	ErrFileNotFound     = errors.New("cloudapi: file not found")
)

// APIError is the JSON error envelope returned by the server.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: %s - %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status %d - %s", e.Status, e.Message)
}

// checkAPIError folds the transport error and the server error envelope into
// a single error value for the given operation. An error status on the
// response wins over requestErr: a malformed or empty error body fails to
// unmarshal and surfaces as a request-level error, but the status code is
// still the authoritative signal.
func checkAPIError(resp *req.Response, requestErr error, operation string) error {
	if httpStatus(resp) != 0 && resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*APIError); ok && (apiErr.Code != "" || apiErr.Message != "") {
			apiErr.Status = resp.StatusCode
			return fmt.Errorf("%s: %w", operation, apiErr)
		}
		return fmt.Errorf("%s: %w", operation, &APIError{
			Status:  resp.StatusCode,
			Message: resp.Status,
		})
	}

	if requestErr != nil {
		return fmt.Errorf("http request error: %s: %w", operation, requestErr)
	}
	return nil
}

// httpStatus reads the status code off a response that may be absent.
func httpStatus(resp *req.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

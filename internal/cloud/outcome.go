package cloud

import (
	"errors"

	"github.com/itachi2230/fxHabit/internal/cloudapi"
	"github.com/itachi2230/fxHabit/internal/netcheck"
)

// AuthOutcome is the closed result type for auth operations. Callers switch
// on it instead of comparing message strings.
type AuthOutcome int

const (
	AuthOK AuthOutcome = iota
	AuthNoInternet
	AuthServerUnreachable
	AuthBadCredentials
	AuthDuplicateAccount
	AuthServerError
	AuthUnknown
)

func (o AuthOutcome) OK() bool {
	return o == AuthOK
}

// Message returns a human-readable description suitable for direct display.
func (o AuthOutcome) Message() string {
	switch o {
	case AuthOK:
		return "success"
	case AuthNoInternet:
		return "no internet connection"
	case AuthServerUnreachable:
		return "server unreachable"
	case AuthBadCredentials:
		return "invalid credentials"
	case AuthDuplicateAccount:
		return "an account with this email or phone already exists"
	case AuthServerError:
		return "server error"
	default:
		return "unknown error"
	}
}

func (o AuthOutcome) String() string {
	return o.Message()
}

// statusOutcome translates a failed connectivity probe into an outcome.
// Returns AuthOK when the status allows the operation to proceed.
func statusOutcome(st netcheck.Status) AuthOutcome {
	switch st {
	case netcheck.NoInternet:
		return AuthNoInternet
	case netcheck.ServerUnreachable:
		return AuthServerUnreachable
	default:
		return AuthOK
	}
}

// errOutcome maps an API error onto the closed outcome set.
func errOutcome(err error) AuthOutcome {
	switch {
	case err == nil:
		return AuthOK
	case errors.Is(err, cloudapi.ErrBadCredentials):
		return AuthBadCredentials
	case errors.Is(err, cloudapi.ErrDuplicateAccount):
		return AuthDuplicateAccount
	default:
		var apiErr *cloudapi.APIError
		if errors.As(err, &apiErr) {
			return AuthServerError
		}
		return AuthUnknown
	}
}

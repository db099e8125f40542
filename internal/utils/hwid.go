package utils

import (
	"github.com/denisbrodbeck/machineid"
)

// HWID is a stable, app-scoped identifier for this machine. Empty when the
// platform does not expose one.
var HWID = func() string {
	id, err := machineid.ProtectedID("fxhabit")
	if err != nil {
		return ""
	}
	return id
}()

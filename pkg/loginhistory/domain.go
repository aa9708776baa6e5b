// Package loginhistory records successful sign-ins and lists them back to
// the account owner: which browser, OS, and device type signed in, from
// which address, and when.
package loginhistory

import (
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps listings when the caller does not ask for a page size.
const DefaultListLimit = 20

// LoginEvent is one recorded sign-in.
type LoginEvent struct {
	ID         uuid.UUID
	Identity   string
	Browser    string
	OS         string
	DeviceType string
	IPAddress  string
	CreatedAt  time.Time
}

// RecordEventParams carries the fields for storing a login event.
type RecordEventParams struct {
	Identity   string
	Browser    string
	OS         string
	DeviceType string
	IPAddress  string
}

// Package otp issues the short numeric codes that gate waypoint
// verification. Codes are generated and checked in-process; a deployment
// with a real trust boundary would move issuance behind a server that
// signs geofence-entry events, which is why the generator is a swappable
// func rather than a package call.
package otp

import (
	"math/rand"
	"strconv"
)

// Generator produces a one-time code.
type Generator func() string

// NewCode returns a random 4-digit code uniformly chosen in [1000, 9999].
func NewCode() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}

// Matches reports whether the user-entered input matches the issued code.
// An empty issued code never matches.
func Matches(issued, input string) bool {
	return issued != "" && issued == input
}

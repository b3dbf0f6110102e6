package domain

import "time"

// Account is the identity provider's view of a user.
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	Disabled      bool
	EmailVerified bool
	CreatedAt     time.Time
}

// Caller is the verified principal behind a request. A nil *Caller means
// the request carried no valid credentials.
type Caller struct {
	UID   string
	Email string
}

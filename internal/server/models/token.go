package models

// Token is a bearer token record, keyed in the "tokens" collection by ID.
// It authorizes actions on the user identified by Phone until Expires
// (unix milliseconds) passes. Expiry is checked lazily at verification
// time; there is no background reaper.
type Token struct {
	ID      string `json:"id"`
	Phone   string `json:"phone"`
	Expires int64  `json:"expires"`
}

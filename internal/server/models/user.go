// Package models defines the records persisted by the record store. JSON
// tags define the stored document shape and the wire shape returned to
// clients.
package models

// User is an account record, keyed in the "users" collection by Phone.
// Phone is immutable after creation.
type User struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Phone          string   `json:"phone"`
	HashedPassword string   `json:"hashedPassword,omitempty"`
	TosAgreement   bool     `json:"tosAgreement"`
	Checks         []string `json:"checks"`
}

// Public returns a copy safe to hand to clients, with the password digest
// stripped.
func (u User) Public() User {
	u.HashedPassword = ""
	return u
}

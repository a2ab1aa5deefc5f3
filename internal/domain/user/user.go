package user

import "strings"

// User is an account. The core only reads ID and Name; the rest belongs
// to the account flow.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
}

// NormalizeEmail lower-cases and trims an email address before it is
// stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Standing is one row of the leaderboard as read from the store.
type Standing struct {
	Name       string
	TotalTests int
}

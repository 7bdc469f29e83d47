package model

// AccountSummary is one row of the account listing.
type AccountSummary struct {
	Owner  string
	Branch string
	Number int
}

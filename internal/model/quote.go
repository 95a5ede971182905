package model

// Quote is a quotation fetched from the quote source
type Quote struct {
	Text   string `json:"quote"`
	Author string `json:"author"`
}

// PendingQuote is a fetched quote waiting to be delivered.
// Lower IDs were queued first.
type PendingQuote struct {
	ID     int64  `db:"id" json:"id"`
	Quote  string `db:"quote" json:"quote"`
	Author string `db:"author" json:"author"`
}

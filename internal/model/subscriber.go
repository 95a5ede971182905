package model

// Subscriber is an email address that receives the daily quote
type Subscriber struct {
	ID      int64  `db:"id" json:"id"`
	Address string `db:"address" json:"address"`
}

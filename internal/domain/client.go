package domain

// Client represents a customer account
type Client struct {
	ID    int64  `json:"id" db:"id"`
	Nom   string `json:"nom" db:"nom"`
	Email string `json:"email" db:"email"`
	VIP   bool   `json:"vip" db:"vip"`
}

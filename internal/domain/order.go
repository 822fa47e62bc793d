package domain

import "time"

// VAT multiplier applied to every pre-tax amount (fixed 20% rate).
const TTCMultiplier = 1.2

// OrderSummary is an order header with totals aggregated from its
// lines at read time. Totals are derived from current product prices,
// never stored.
type OrderSummary struct {
	ID         int64     `json:"id" db:"id"`
	ClientID   int64     `json:"client_id" db:"client_id"`
	ClientNom  string    `json:"client_nom" db:"client_nom"`
	Date       time.Time `json:"date" db:"date"`
	Statut     string    `json:"statut" db:"statut"`
	TotalHT   float64   `json:"total_ht" db:"total_ht"`
	TotalTTC  float64   `json:"total_ttc" db:"total_ttc"`
}

// Order is an order header without totals, as returned by the
// single-order lookup.
type Order struct {
	ID        int64     `json:"id" db:"id"`
	ClientID  int64     `json:"client_id" db:"client_id"`
	ClientNom string    `json:"client_nom" db:"client_nom"`
	Date      time.Time `json:"date" db:"date"`
	Statut    string    `json:"statut" db:"statut"`
}

// OrderLine is a single priced line of an order. LineHT and LineTTC
// are computed against the product's current price.
type OrderLine struct {
	ID        int64   `json:"id" db:"id"`
	ProduitID int64   `json:"produit_id" db:"produit_id"`
	Titre     string  `json:"titre" db:"titre"`
	Qte       int     `json:"qte" db:"qte"`
	Prix      float64 `json:"prix" db:"prix"`
	LineHT    float64 `json:"line_ht" db:"line_ht"`
	LineTTC   float64 `json:"line_ttc" db:"line_ttc"`
}

// OrderFilter holds the optional, conjunctive filters of the order
// listing. Nil fields impose no constraint.
type OrderFilter struct {
	ClientID *int64
	Statut   *string
	DateMin  *time.Time
	DateMax  *time.Time
}

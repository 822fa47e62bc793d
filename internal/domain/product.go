package domain

// Product represents a product in the catalog. Stock is never written
// directly by callers; it only changes through the stock-adjust path.
type Product struct {
	ID        int64   `json:"id" db:"id"`
	Titre     string  `json:"titre" db:"titre"`
	Categorie string  `json:"categorie" db:"categorie"`
	Prix      float64 `json:"prix" db:"prix"`
	Stock     int     `json:"stock" db:"stock"`
}

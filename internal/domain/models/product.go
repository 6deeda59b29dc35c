package models

// Product представляет товар каталога, полученный из удалённого API
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"` // цена за единицу в песо
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Rating      float64  `json:"rating"`
	Reviews     []string `json:"reviews"`
	Category    string   `json:"category,omitempty"`
}

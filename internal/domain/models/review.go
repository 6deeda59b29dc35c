package models

// Review: отзыв пользователя о товаре
type Review struct {
	ID          int64  `json:"id"`
	ProductCode string `json:"productCode"`
	UserID      string `json:"-"` // автор, только он может менять отзыв
	Username    string `json:"username"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

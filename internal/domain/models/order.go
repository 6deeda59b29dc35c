package models

import "time"

// OrderItem: позиция заказа с ценой на момент покупки
type OrderItem struct {
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	PricePerUnit int64  `json:"pricePerUnit"`
}

// Order представляет заказ, созданный при успешном оформлении корзины
type Order struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Items       []OrderItem `json:"items"`
	TotalAmount int64       `json:"totalAmount"`
	UserID      string      `json:"userId"`
}

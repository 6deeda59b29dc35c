package models

import "sort"

// MaxItemQuantity: предел количества одной позиции в корзине
const MaxItemQuantity = 999

// Cart представляет корзину пользователя: productID -> количество
type Cart struct {
	Items      map[int]int `json:"items"`
	CouponCode string      `json:"couponCode,omitempty"` // применённый ручной купон
}

// NewCart создаёт пустую корзину
func NewCart() *Cart {
	return &Cart{Items: make(map[int]int)}
}

// Add увеличивает количество товара в корзине.
// Возвращает false и не меняет корзину, если итог превысит MaxItemQuantity.
func (c *Cart) Add(productID, quantity int) bool {
	if quantity <= 0 || quantity > MaxItemQuantity {
		return false
	}
	if c.Items == nil {
		c.Items = make(map[int]int)
	}
	if c.Items[productID]+quantity > MaxItemQuantity {
		return false
	}
	c.Items[productID] += quantity
	return true
}

// Subtract снимает quantity единиц позиции, при нуле позиция удаляется
func (c *Cart) Subtract(productID, quantity int) {
	qty, ok := c.Items[productID]
	if !ok || quantity <= 0 {
		return
	}
	if qty > quantity {
		c.Items[productID] = qty - quantity
		return
	}
	delete(c.Items, productID)
}

// Decrease уменьшает количество на единицу, при нуле позиция удаляется
func (c *Cart) Decrease(productID int) {
	qty, ok := c.Items[productID]
	if !ok {
		return
	}
	if qty > 1 {
		c.Items[productID] = qty - 1
		return
	}
	delete(c.Items, productID)
}

// Remove удаляет позицию целиком
func (c *Cart) Remove(productID int) {
	delete(c.Items, productID)
}

// Count возвращает общее количество единиц товара
func (c *Cart) Count() int {
	total := 0
	for _, qty := range c.Items {
		total += qty
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs возвращает идентификаторы товаров в стабильном порядке
func (c *Cart) ProductIDs() []int {
	ids := make([]int, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

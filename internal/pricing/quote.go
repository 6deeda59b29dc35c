package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrAmountOverflow: сумма корзины не помещается в int64
var ErrAmountOverflow = errors.New("cart amount out of range")

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Line: позиция корзины для расчёта
type Line struct {
	ProductID int
	Name      string
	UnitPrice float64
	Quantity  int
}

func (l Line) amount() decimal.Decimal {
	if l.Quantity <= 0 || l.UnitPrice <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))).Truncate(0)
}

// Total считает стоимость позиции, дробная часть отбрасывается.
// Значение вне int64 насыщается до math.MaxInt64.
func (l Line) Total() int64 {
	a := l.amount()
	if a.GreaterThan(maxAmount) {
		return math.MaxInt64
	}
	return a.IntPart()
}

// Subtotal суммирует позиции до скидок
func Subtotal(lines []Line) (int64, error) {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.amount())
	}
	if sum.GreaterThan(maxAmount) {
		return 0, ErrAmountOverflow
	}
	return sum.IntPart(), nil
}

// Quote: итог корзины со скидками
type Quote struct {
	Subtotal          int64  `json:"subtotal"`
	AutomaticDiscount int64  `json:"automaticDiscount"`
	ManualDiscount    int64  `json:"manualDiscount"` // фактически применённая часть купона
	Total             int64  `json:"total"`
	CouponCode        string `json:"couponCode,omitempty"`
}

// ApplyDiscounts сводит скидки к итогу.
// Ручная скидка ограничена суммой после автоматической, итог не бывает отрицательным.
func ApplyDiscounts(subtotal, automatic, manual int64) Quote {
	if subtotal < 0 {
		subtotal = 0
	}
	automatic = capAt(automatic, subtotal)

	provisional := subtotal - automatic
	effectiveManual := capAt(manual, provisional)

	total := provisional - effectiveManual
	if total < 0 {
		total = 0
	}

	return Quote{
		Subtotal:          subtotal,
		AutomaticDiscount: automatic,
		ManualDiscount:    effectiveManual,
		Total:             total,
	}
}

// Quote считает итог корзины для пользователя с почтой email и ручным купоном couponCode
func (m *CouponManager) Quote(lines []Line, email, couponCode string) (Quote, error) {
	subtotal, err := Subtotal(lines)
	if err != nil {
		return Quote{}, err
	}
	automatic := m.AutomaticDiscount(subtotal, email)

	var manual int64
	coupon, ok := m.ParseCoupon(couponCode)
	if ok {
		manual = coupon.Value.IntPart()
	}

	q := ApplyDiscounts(subtotal, automatic, manual)
	if manual > 0 {
		q.CouponCode = coupon.Code
	}
	return q, nil
}

// UnitPesos возвращает цену за единицу в целых песо
func (l Line) UnitPesos() int64 {
	if l.UnitPrice <= 0 {
		return 0
	}
	return decimal.NewFromFloat(l.UnitPrice).IntPart()
}

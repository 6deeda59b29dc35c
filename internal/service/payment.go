package service

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// поля формы оплаты
const (
	FieldHolderName = "holderName"
	FieldCardNumber = "cardNumber"
	FieldExpiry     = "expiry"
	FieldCVC        = "cvc"
)

type PaymentDetails struct {
	HolderName string `json:"holderName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"` // MMYY
	CVC        string `json:"cvc"`
}

// digitsOnly оставляет только цифры, как поле ввода карты
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Validate проверяет поля карты и возвращает ошибки по полям, пустой результат означает валидные данные
func (p PaymentDetails) Validate(now time.Time) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(p.HolderName) == "" {
		errs[FieldHolderName] = "El nombre del titular es obligatorio"
	}
	if len(digitsOnly(p.CardNumber)) != 16 {
		errs[FieldCardNumber] = "El número de tarjeta debe tener 16 dígitos"
	}
	if !validExpiry(digitsOnly(p.Expiry), now) {
		errs[FieldExpiry] = "Fecha de vencimiento inválida"
	}
	if len(digitsOnly(p.CVC)) != 3 {
		errs[FieldCVC] = "El CVC debe tener 3 dígitos"
	}
	return errs
}

// validExpiry принимает MMYY, месяц 1..12, не раньше текущего месяца
func validExpiry(mmyy string, now time.Time) bool {
	if len(mmyy) != 4 {
		return false
	}
	month, err := strconv.Atoi(mmyy[:2])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(mmyy[2:])
	if err != nil {
		return false
	}
	year += 2000

	currentYear, currentMonth := now.Year(), int(now.Month())
	return year > currentYear || (year == currentYear && month >= currentMonth)
}

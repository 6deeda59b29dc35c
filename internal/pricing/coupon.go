package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// значения по умолчанию для правил скидок
const (
	DefaultInstitutionalDomain = "@duocuc.cl"
	DefaultAutomaticRate       = 0.20
	DefaultCouponPrefix        = "LEVELUP"
)

type CouponKind string

const (
	KindFixedAmount CouponKind = "fixed_amount"
	KindPercentage  CouponKind = "percentage"
)

// Coupon описывает скидку: фиксированную сумму или процент
type Coupon struct {
	Code  string          `json:"code"`
	Kind  CouponKind      `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Discount возвращает размер скидки для суммы base, скидка никогда не превышает base
func (c Coupon) Discount(base int64) int64 {
	if base <= 0 || c.Value.Sign() <= 0 {
		return 0
	}

	var amount int64
	switch c.Kind {
	case KindPercentage:
		amount = decimal.NewFromInt(base).Mul(c.Value).Round(0).IntPart()
	case KindFixedAmount:
		amount = c.Value.IntPart()
	default:
		return 0
	}
	return capAt(amount, base)
}

// Rules: настраиваемые параметры скидок
type Rules struct {
	InstitutionalDomain string
	AutomaticRate       float64
	CouponPrefix        string
}

func DefaultRules() Rules {
	return Rules{
		InstitutionalDomain: DefaultInstitutionalDomain,
		AutomaticRate:       DefaultAutomaticRate,
		CouponPrefix:        DefaultCouponPrefix,
	}
}

// CouponManager считает автоматическую скидку по домену почты и расшифровывает ручные купоны.
// Состояния не хранит, все методы чистые.
type CouponManager struct {
	domain string
	rate   decimal.Decimal
	prefix string
}

// NewCouponManager создаёт менеджер, пустые поля rules заменяются значениями по умолчанию
func NewCouponManager(rules Rules) *CouponManager {
	def := DefaultRules()
	if strings.TrimSpace(rules.InstitutionalDomain) == "" {
		rules.InstitutionalDomain = def.InstitutionalDomain
	}
	if rules.AutomaticRate <= 0 {
		rules.AutomaticRate = def.AutomaticRate
	}
	if strings.TrimSpace(rules.CouponPrefix) == "" {
		rules.CouponPrefix = def.CouponPrefix
	}
	return &CouponManager{
		domain: strings.ToLower(strings.TrimSpace(rules.InstitutionalDomain)),
		rate:   decimal.NewFromFloat(rules.AutomaticRate),
		prefix: strings.ToUpper(strings.TrimSpace(rules.CouponPrefix)),
	}
}

// AutomaticDiscount возвращает скидку для институциональной почты.
// На любом нераспознанном входе скидка нулевая.
func (m *CouponManager) AutomaticDiscount(subtotal int64, email string) int64 {
	if subtotal <= 0 || email == "" {
		return 0
	}
	if !m.IsInstitutional(email) {
		return 0
	}
	c := Coupon{Kind: KindPercentage, Value: m.rate}
	return c.Discount(subtotal)
}

// IsInstitutional проверяет домен нормализованной почты
func (m *CouponManager) IsInstitutional(email string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), m.domain)
}

// ManualCoupon расшифровывает код вида LEVELUP<сумма>, для невалидного кода возвращает 0
func (m *CouponManager) ManualCoupon(code string) int64 {
	c, ok := m.ParseCoupon(code)
	if !ok {
		return 0
	}
	return c.Value.IntPart()
}

// ParseCoupon возвращает купон с фиксированной суммой, если код синтаксически верен.
// Реестра купонов нет: любой код с числовым суффиксом считается валидным.
func (m *CouponManager) ParseCoupon(code string) (Coupon, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !strings.HasPrefix(normalized, m.prefix) {
		return Coupon{}, false
	}

	// сумма купона ограничена 32 битами, больший суффикс считается невалидным
	amount, err := strconv.ParseInt(strings.TrimPrefix(normalized, m.prefix), 10, 32)
	if err != nil || amount < 0 {
		return Coupon{}, false
	}

	return Coupon{
		Code:  normalized,
		Kind:  KindFixedAmount,
		Value: decimal.NewFromInt(amount),
	}, true
}

// CouponCode собирает код купона для обмена баллов
func (m *CouponManager) CouponCode(amount int64) string {
	return m.prefix + strconv.FormatInt(amount, 10)
}

func capAt(amount, limit int64) int64 {
	if amount < 0 {
		return 0
	}
	if amount > limit {
		return limit
	}
	return amount
}

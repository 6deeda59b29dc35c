package pricing_test

import (
	"testing"

	"github.com/linemk/levelup-shop/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAutomaticDiscount(t *testing.T) {
	m := pricing.NewCouponManager(pricing.DefaultRules())

	tests := []struct {
		name     string
		subtotal int64
		email    string
		want     int64
	}{
		{"institutional email", 2500, "alumno@duocuc.cl", 500},
		{"upper case and spaces", 1000, "  ALUMNO@DUOCUC.CL ", 200},
		{"rounds to nearest peso", 29993, "a@duocuc.cl", 5999},
		{"other domain", 2500, "gamer@gmail.com", 0},
		{"domain only in the middle", 2500, "a@duocuc.cl.fake.com", 0},
		{"empty email", 2500, "", 0},
		{"zero subtotal", 0, "a@duocuc.cl", 0},
		{"negative subtotal", -100, "a@duocuc.cl", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.AutomaticDiscount(tt.subtotal, tt.email))
		})
	}
}

func TestAutomaticDiscount_NeverExceedsSubtotal(t *testing.T) {
	m := pricing.NewCouponManager(pricing.DefaultRules())
	for subtotal := int64(-50); subtotal <= 5000; subtotal += 7 {
		d := m.AutomaticDiscount(subtotal, "x@duocuc.cl")
		assert.GreaterOrEqual(t, d, int64(0))
		if subtotal > 0 {
			assert.LessOrEqual(t, d, subtotal)
		}
	}
}

func TestManualCoupon(t *testing.T) {
	m := pricing.NewCouponManager(pricing.DefaultRules())

	tests := []struct {
		code string
		want int64
	}{
		{"LEVELUP5000", 5000},
		{" levelup250 ", 250},
		{"LEVELUP", 0},
		{"LEVELUP0", 0},
		{"LEVELUP-10", 0},
		{"LEVELUPABC", 0},
		{"LEVELUP2147483647", 2147483647},
		{"LEVELUP2147483648", 0},
		{"LEVELUP9999999999", 0},
		{"ABC123", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ManualCoupon(tt.code))
		})
	}
}

func TestParseCoupon(t *testing.T) {
	m := pricing.NewCouponManager(pricing.DefaultRules())

	c, ok := m.ParseCoupon("levelup1500")
	assert.True(t, ok)
	assert.Equal(t, "LEVELUP1500", c.Code)
	assert.Equal(t, pricing.KindFixedAmount, c.Kind)
	assert.True(t, c.Value.Equal(decimal.NewFromInt(1500)))

	_, ok = m.ParseCoupon("PROMO1500")
	assert.False(t, ok)
}

func TestCouponDiscount(t *testing.T) {
	fixed := pricing.Coupon{Kind: pricing.KindFixedAmount, Value: decimal.NewFromInt(9000)}
	assert.Equal(t, int64(2000), fixed.Discount(2000), "fixed amount is capped at base")
	assert.Equal(t, int64(9000), fixed.Discount(10000))

	percent := pricing.Coupon{Kind: pricing.KindPercentage, Value: decimal.NewFromFloat(0.1)}
	assert.Equal(t, int64(250), percent.Discount(2500))
	assert.Equal(t, int64(0), percent.Discount(0))

	unknown := pricing.Coupon{Kind: "bogus", Value: decimal.NewFromInt(10)}
	assert.Equal(t, int64(0), unknown.Discount(100))
}

func TestCustomRules(t *testing.T) {
	m := pricing.NewCouponManager(pricing.Rules{
		InstitutionalDomain: "@Example.Edu",
		AutomaticRate:       0.5,
		CouponPrefix:        "promo",
	})

	assert.Equal(t, int64(50), m.AutomaticDiscount(100, "student@example.edu"))
	assert.Equal(t, int64(30), m.ManualCoupon("PROMO30"))
	assert.Equal(t, int64(0), m.ManualCoupon("LEVELUP30"))
	assert.Equal(t, "PROMO30", m.CouponCode(30))
}

func TestCouponCode(t *testing.T) {
	m := pricing.NewCouponManager(pricing.DefaultRules())
	code := m.CouponCode(5000)
	assert.Equal(t, "LEVELUP5000", code)
	// код, выданный за баллы, должен расшифровываться обратно
	assert.Equal(t, int64(5000), m.ManualCoupon(code))
}

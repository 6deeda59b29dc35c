package models

// User представляет пользователя магазина
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PassHash      []byte `json:"passHash"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	LevelUpPoints int64  `json:"levelUpPoints"` // бонусные баллы
	ReferralCode  string `json:"referralCode"`
}

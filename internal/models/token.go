package models

import "time"

// TokenSlotID is the primary key of the single tokens row. The service talks
// to one seller account, so the table never holds more than one record.
const TokenSlotID = 1

// Token holds the OAuth credentials for the marketplace API. ExpiresAt is
// epoch milliseconds and always reflects the true expiry of AccessToken at
// the time of the last refresh.
type Token struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	AccessToken  string    `json:"access_token" gorm:"not null"`
	RefreshToken string    `json:"refresh_token" gorm:"not null"`
	ExpiresAt    int64     `json:"expires_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Expired reports whether the access token is missing or inside the skew
// window before its real expiry.
func (t *Token) Expired(now time.Time, skew time.Duration) bool {
	if t.AccessToken == "" {
		return true
	}
	return now.Add(skew).UnixMilli() >= t.ExpiresAt
}

package model

import "time"

// User owns tasks and tags. ExternalID carries whatever identity the
// transport provides (a WeChat openid, an OAuth subject, ...).
type User struct {
	ID         uint   `gorm:"primaryKey"`
	ExternalID string `gorm:"uniqueIndex"`
	Nickname   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package model

import "time"

// PushSubscription is an operator browser that receives new quote request alerts.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	Label     string    `json:"label"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

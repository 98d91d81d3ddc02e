package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Subscribers pick the outlets they want to hear about.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Outlets []*Outlet `gorm:"many2many:subscription_outlet_mapping;joinForeignKey:push_subscription_endpoint;joinReferences:outlet_id"`
}

package domain

import "time"

type Customer struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	PhoneNumber  string     `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

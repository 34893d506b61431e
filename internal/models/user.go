package models

import "time"

// Role values understood by the authorization layer.
const (
	RoleAdmin    = "Admin"
	RoleChairman = "Chairman"
	RoleReadOnly = "ReadOnly"
	RolePublic   = "Public"
)

// User is a club member or administrator. Identities are minted by the
// external identity provider; this service only reads them for audit
// attribution and chairman assignment.
type User struct {
	ID        string    `gorm:"type:text;primaryKey"`
	Username  string    `gorm:"type:text;uniqueIndex;not null"`
	Name      string    `gorm:"type:text"`
	Surname   string    `gorm:"type:text"`
	Role      string    `gorm:"type:text;not null;default:'ReadOnly'"`
	Active    bool      `gorm:"not null;default:true"`
	Email     string    `gorm:"type:text;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (User) TableName() string { return "users" }

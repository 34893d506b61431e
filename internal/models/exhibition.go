package models

import "time"

// Exhibition is a show organized by a club.
type Exhibition struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:text;not null"`
	Location    string    `gorm:"type:text"`
	HeldAt      time.Time `gorm:"type:timestamptz;not null"`
	ClubID      uint      `gorm:"not null;index"`
	CreatedByID *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`

	Club      Club  `gorm:"foreignKey:ClubID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedBy *User `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Exhibition) TableName() string { return "exhibitions" }

package models

import "time"

// Club represents a registered canine association and its governance data.
type Club struct {
	ID                  uint       `gorm:"primaryKey;autoIncrement"`
	Name                string     `gorm:"type:varchar(200);uniqueIndex;not null"`
	RegistrationNumber  *string    `gorm:"type:text"`
	Address             *string    `gorm:"type:text"`
	Email               *string    `gorm:"type:text"`
	Phone               *string    `gorm:"type:text"`
	Guidelines          *string    `gorm:"type:text"`
	GuidelinesUpdatedAt *time.Time `gorm:"type:timestamptz"`
	ChairmanID          *string    `gorm:"type:text;index"`
	CreatedAt           time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`

	Chairman *User `gorm:"foreignKey:ChairmanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Club) TableName() string { return "clubs" }

package models

import "time"

// Dog is a registered animal. Dogs are plain records, not audit-tracked.
type Dog struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	Name      string     `gorm:"type:text;not null"`
	Breed     string     `gorm:"type:text"`
	BirthDate *time.Time `gorm:"type:timestamptz"`
	OwnerID   *string    `gorm:"type:text;index"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Dog) TableName() string { return "dogs" }

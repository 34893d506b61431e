package models

import "time"

// ExhibitionResult ties a dog's placement to an exhibition.
type ExhibitionResult struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	ExhibitionID uint      `gorm:"not null;index"`
	DogID        uint      `gorm:"not null;index"`
	Placement    int       `gorm:"not null"`
	Notes        string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`

	Exhibition Exhibition `gorm:"foreignKey:ExhibitionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Dog        Dog        `gorm:"foreignKey:DogID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ExhibitionResult) TableName() string { return "exhibition_results" }

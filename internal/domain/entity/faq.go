package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FAQ struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Question    string    `gorm:"type:varchar(500);not null"`
	Answer      string    `gorm:"type:text;not null"`
	Category    string    `gorm:"type:varchar(100);index"`
	SortOrder   int       `gorm:"default:0"`
	IsPublished *bool     `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (FAQ) TableName() string {
	return "faqs"
}

func (f *FAQ) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

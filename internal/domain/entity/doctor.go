package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doctor is an entry of the public doctor directory. KhanzaCode is the
// dokter.kd_dokter used when registering visits in Khanza.
type Doctor struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Slug           string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_doctors_slug,where:deleted_at IS NULL" json:"slug"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	ClinicSlug     string         `gorm:"type:varchar(50);not null;index" json:"clinic_slug"`
	Specialization string         `gorm:"type:varchar(100);not null" json:"specialization"`
	KhanzaCode     string         `gorm:"type:varchar(20)" json:"khanza_code,omitempty"`
	Biography      string         `gorm:"type:text" json:"biography,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

package repository

import (
	"patient-portal/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FAQRepository interface {
	Create(db *gorm.DB, faq *entity.FAQ) error
	FindAll(db *gorm.DB, publishedOnly bool, limit, offset int) ([]entity.FAQ, int64, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.FAQ, error)
	Update(db *gorm.DB, faq *entity.FAQ) error
	Delete(db *gorm.DB, id uuid.UUID) error
}

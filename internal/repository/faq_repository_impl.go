package repository

import (
	"errors"

	"patient-portal/internal/domain/entity"
	domainRepo "patient-portal/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type faqRepository struct{}

func NewFAQRepository() domainRepo.FAQRepository {
	return &faqRepository{}
}

func (r *faqRepository) Create(db *gorm.DB, faq *entity.FAQ) error {
	return db.Create(faq).Error
}

func (r *faqRepository) FindAll(db *gorm.DB, publishedOnly bool, limit, offset int) ([]entity.FAQ, int64, error) {
	var faqs []entity.FAQ
	var total int64

	query := db.Model(&entity.FAQ{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("sort_order ASC, created_at DESC").Limit(limit).Offset(offset).Find(&faqs).Error; err != nil {
		return nil, 0, err
	}

	return faqs, total, nil
}

func (r *faqRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.FAQ, error) {
	var faq entity.FAQ
	err := db.Where("id = ?", id).First(&faq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &faq, nil
}

func (r *faqRepository) Update(db *gorm.DB, faq *entity.FAQ) error {
	return db.Save(faq).Error
}

func (r *faqRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.FAQ{}).Error
}

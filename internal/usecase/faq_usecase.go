package usecase

import (
	"context"
	"errors"

	"patient-portal/internal/converter"
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/delivery/http/middleware"
	"patient-portal/internal/domain/entity"
	"patient-portal/internal/domain/repository"
	"patient-portal/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrFAQNotFound = errors.New("faq not found")
)

type FAQUsecase interface {
	Create(ctx context.Context, req *dto.CreateFAQRequest) (*dto.FAQResponse, error)
	GetAll(ctx context.Context, publishedOnly bool, page, limit int) ([]dto.FAQResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.FAQResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFAQRequest) (*dto.FAQResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type faqUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	faqRepo      repository.FAQRepository
	auditService service.AuditService
}

func NewFAQUsecase(db *gorm.DB, log *logrus.Logger, faqRepo repository.FAQRepository, auditService service.AuditService) FAQUsecase {
	return &faqUsecase{
		db:           db,
		log:          log,
		faqRepo:      faqRepo,
		auditService: auditService,
	}
}

func (u *faqUsecase) Create(ctx context.Context, req *dto.CreateFAQRequest) (*dto.FAQResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	faq := &entity.FAQ{
		Question:    req.Question,
		Answer:      req.Answer,
		Category:    req.Category,
		SortOrder:   req.SortOrder,
		IsPublished: publishedOrDefault(req.IsPublished),
	}

	if err := u.faqRepo.Create(tx, faq); err != nil {
		u.log.Warnf("Failed to create faq: %+v", err)
		return nil, err
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionFAQCreate, "faq", faq.ID.String(), converter.FAQToResponse(faq)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.FAQToResponse(faq), nil
}

func (u *faqUsecase) GetAll(ctx context.Context, publishedOnly bool, page, limit int) ([]dto.FAQResponse, int64, error) {
	_, limit, offset := paginate(page, limit)

	faqs, total, err := u.faqRepo.FindAll(u.db.WithContext(ctx), publishedOnly, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find faqs: %+v", err)
		return nil, 0, err
	}

	return converter.FAQsToResponses(faqs), total, nil
}

func (u *faqUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.FAQResponse, error) {
	faq, err := u.faqRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, ErrFAQNotFound
	}

	return converter.FAQToResponse(faq), nil
}

func (u *faqUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateFAQRequest) (*dto.FAQResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	faq, err := u.faqRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, ErrFAQNotFound
	}
	oldValue := converter.FAQToResponse(faq)

	faq.Question = req.Question
	faq.Answer = req.Answer
	faq.Category = req.Category
	faq.SortOrder = req.SortOrder
	if req.IsPublished != nil {
		faq.IsPublished = req.IsPublished
	}

	if err := u.faqRepo.Update(tx, faq); err != nil {
		u.log.Warnf("Failed to update faq: %+v", err)
		return nil, err
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionFAQUpdate, "faq", faq.ID.String(), oldValue, converter.FAQToResponse(faq)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.FAQToResponse(faq), nil
}

func (u *faqUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	faq, err := u.faqRepo.FindByID(tx, id)
	if err != nil {
		return err
	}
	if faq == nil {
		return ErrFAQNotFound
	}

	if err := u.faqRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete faq: %+v", err)
		return err
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionFAQDelete, "faq", id.String(), converter.FAQToResponse(faq)); err != nil {
		return err
	}

	return tx.Commit().Error
}

func publishedOrDefault(published *bool) *bool {
	if published != nil {
		return published
	}
	v := true
	return &v
}

// paginate clamps page and limit and returns the matching offset
func paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

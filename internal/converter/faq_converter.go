package converter

import (
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
)

func FAQToResponse(faq *entity.FAQ) *dto.FAQResponse {
	if faq == nil {
		return nil
	}

	return &dto.FAQResponse{
		ID:          faq.ID,
		Question:    faq.Question,
		Answer:      faq.Answer,
		Category:    faq.Category,
		SortOrder:   faq.SortOrder,
		IsPublished: faq.IsPublished == nil || *faq.IsPublished,
		CreatedAt:   faq.CreatedAt,
		UpdatedAt:   faq.UpdatedAt,
	}
}

func FAQsToResponses(faqs []entity.FAQ) []dto.FAQResponse {
	responses := make([]dto.FAQResponse, len(faqs))
	for i := range faqs {
		responses[i] = *FAQToResponse(&faqs[i])
	}
	return responses
}

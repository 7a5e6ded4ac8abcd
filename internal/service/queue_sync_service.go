package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"patient-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// QueueCounterSeeder reports the highest ticket already issued for a clinic on
// a visit day. A Redis counter that went missing resumes after it.
type QueueCounterSeeder interface {
	HighestQueueNumber(ctx context.Context, clinicSlug string, visitDate time.Time) (int, error)
}

// QueueSyncService rebuilds queue counters from the appointments in PostgreSQL.
type QueueSyncService struct {
	db              *gorm.DB
	appointmentRepo repository.AppointmentRepository
	log             *logrus.Logger
}

func NewQueueSyncService(db *gorm.DB, appointmentRepo repository.AppointmentRepository, log *logrus.Logger) *QueueSyncService {
	return &QueueSyncService{
		db:              db,
		appointmentRepo: appointmentRepo,
		log:             log,
	}
}

// HighestQueueNumber scans every stored ticket for the clinic and day. Local
// and Khanza-issued numbers share the PREFIX-NNN shape, so both count.
func (s *QueueSyncService) HighestQueueNumber(ctx context.Context, clinicSlug string, visitDate time.Time) (int, error) {
	numbers, err := s.appointmentRepo.FindQueueNumbers(s.db.WithContext(ctx), clinicSlug, visitDate)
	if err != nil {
		s.log.Warnf("Failed to query queue numbers for %s on %s: %+v", clinicSlug, visitDate.Format("2006-01-02"), err)
		return 0, fmt.Errorf("query queue numbers for %s: %w", clinicSlug, err)
	}

	highest := 0
	for _, number := range numbers {
		if seq, ok := queueSequence(number); ok && seq > highest {
			highest = seq
		}
	}

	s.log.Debugf("Highest persisted queue number for %s on %s: %d", clinicSlug, visitDate.Format("2006-01-02"), highest)
	return highest, nil
}

// queueSequence extracts NNN from PREFIX-NNN.
func queueSequence(number string) (int, bool) {
	i := strings.LastIndex(number, "-")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(number[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

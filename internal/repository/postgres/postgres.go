package postgres

import (
	"database/sql"

	"dealdesk-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRequestRepository
	repository.PublicLinkRepository
	repository.CalendarEventRepository
	repository.NotificationRepository
	repository.AuditLogRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		BookingRequestRepository: NewBookingRequestRepository(db),
		PublicLinkRepository:     NewPublicLinkRepository(db),
		CalendarEventRepository:  NewCalendarEventRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
		AuditLogRepository:       NewAuditLogRepository(db),
	}
}

package repository

import (
	"context"

	"github.com/Ansh-Mishra04/project/internal/entity"
)

type EventRepository interface {
	// GetAll returns every event ordered by start date ascending.
	GetAll(ctx context.Context) ([]*entity.Event, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, registration *entity.Registration) error
	GetByPaymentID(ctx context.Context, paymentID string) (*entity.Registration, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}

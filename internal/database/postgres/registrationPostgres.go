package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ansh-Mishra04/project/internal/entity"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create inserts a single completed registration row. There is no
// update path: a registration either exists or it does not.
func (r *registrationRepository) Create(ctx context.Context, registration *entity.Registration) error {
	query := `
		INSERT INTO registrations (event_id, payment_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		registration.EventID,
		registration.PaymentID,
		registration.Status,
		time.Now(),
	).Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}

	return nil
}

func (r *registrationRepository) GetByPaymentID(ctx context.Context, paymentID string) (*entity.Registration, error) {
	query := `
		SELECT id, event_id, COALESCE(user_id::text, ''), payment_id, status, created_at
		FROM registrations
		WHERE payment_id = $1
	`

	var registration entity.Registration
	err := r.db.QueryRowContext(ctx, query, paymentID).Scan(
		&registration.ID,
		&registration.EventID,
		&registration.UserID,
		&registration.PaymentID,
		&registration.Status,
		&registration.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration by payment: %w", err)
	}

	return &registration, nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID, entity.RegistrationStatusCompleted).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	return count, nil
}

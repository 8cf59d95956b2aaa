package service

import (
	"context"

	"github.com/Ansh-Mishra04/project/internal/entity"
)

// EventService хранит снимок каталога событий и отвечает на запросы
// листинга без обращений к базе
type EventService interface {
	// Основные операции
	LoadEvents(ctx context.Context) error
	ReloadEvents(ctx context.Context) error
	GetEventsByWindow(window entity.EventWindow) ([]*entity.EventListing, error)
	GetEvent(id int64) (*entity.Event, error)

	// Дополнительные операции
	GetEventDetails(ctx context.Context, id int64) (*EventDetails, error)
	SnapshotInfo() *SnapshotInfo
}

// RegistrationService определяет интерфейс платной регистрации на событие
type RegistrationService interface {
	// Основные операции
	BeginCheckout(ctx context.Context, eventID int64, req *RegisterRequest) (*entity.CheckoutOrder, error)
	CompleteRegistration(ctx context.Context, req *PaymentCallbackRequest) (*entity.Registration, error)

	// Сверка подтвержденных платежей без строки регистрации
	ReconcileUnrecorded(ctx context.Context) (*ReconcileReport, error)
}

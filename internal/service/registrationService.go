package service

import (
	"context"
	"fmt"
	"log"
	"time"

	repository "github.com/Ansh-Mishra04/project/internal/database/postgres"
	"github.com/Ansh-Mishra04/project/internal/database/redis"
	"github.com/Ansh-Mishra04/project/internal/entity"
	"github.com/Ansh-Mishra04/project/pkg/checkout"
	"github.com/Ansh-Mishra04/project/pkg/telegram"

	"github.com/google/uuid"
)

// RegisterRequest представляет данные формы регистрации на событие
type RegisterRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Email string `json:"email" binding:"required,email"`
}

// PaymentCallbackRequest представляет подтверждение оплаты от виджета
type PaymentCallbackRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// ReconcileReport представляет итог одного прохода сверки
type ReconcileReport struct {
	CheckedAt   time.Time                 `json:"checked_at"`
	Resolved    int                       `json:"resolved"`
	Outstanding []*entity.CheckoutSession `json:"outstanding"`
}

type registrationService struct {
	events           EventService
	registrationRepo repository.RegistrationRepository
	sessions         redis.SessionStore
	gateway          checkout.Gateway
	telegramBot      *telegram.Bot
	currency         string
}

// NewRegistrationService создает новый экземпляр RegistrationService
func NewRegistrationService(
	events EventService,
	registrationRepo repository.RegistrationRepository,
	sessions redis.SessionStore,
	gateway checkout.Gateway,
	telegramBot *telegram.Bot,
	currency string,
) RegistrationService {
	return &registrationService{
		events:           events,
		registrationRepo: registrationRepo,
		sessions:         sessions,
		gateway:          gateway,
		telegramBot:      telegramBot,
		currency:         currency,
	}
}

// BeginCheckout открывает оплату регистрации на предстоящее событие
func (s *registrationService) BeginCheckout(ctx context.Context, eventID int64, req *RegisterRequest) (*entity.CheckoutOrder, error) {
	// Событие берется из снимка каталога
	event, err := s.events.GetEvent(eventID)
	if err != nil {
		return nil, err
	}

	if !event.RegistrationOpen(time.Now()) {
		return nil, entity.ErrRegistrationClosed
	}

	// Сумма проверяется до обращения к платежному шлюзу
	amount, err := event.PaymentAmount()
	if err != nil {
		return nil, err
	}

	registrant := entity.Registrant{Name: req.Name, Email: req.Email}

	order, err := s.gateway.CreateOrder(ctx, &entity.CheckoutRequest{
		Amount:      amount,
		Currency:    s.currency,
		Receipt:     "rcpt_" + uuid.New().String(),
		Description: event.Title,
		Registrant:  registrant,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCheckoutUnavailable, err)
	}

	// Без сессии колбэк оплаты не сможет завершить регистрацию,
	// поэтому виджет в этом случае не открывается
	session := &entity.CheckoutSession{
		OrderID:    order.OrderID,
		EventID:    event.ID,
		EventTitle: event.Title,
		Amount:     amount,
		Currency:   order.Currency,
		Registrant: registrant,
		State:      entity.CheckoutStatePresented,
		CreatedAt:  time.Now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCheckoutUnavailable, err)
	}

	log.Printf("Чекаут открыт: order=%s, event=%d, amount=%d %s",
		order.OrderID, event.ID, amount, order.Currency)

	return order, nil
}

// CompleteRegistration завершает регистрацию после подтверждения оплаты
func (s *registrationService) CompleteRegistration(ctx context.Context, req *PaymentCallbackRequest) (*entity.Registration, error) {
	session, err := s.sessions.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, entity.ErrInvalidSignature
	}

	if session.State == entity.CheckoutStateUnrecorded {
		// Оплата уже подтверждалась, строки регистрации так и нет;
		// повторная вставка не выполняется
		return nil, entity.ErrRegistrationNotRecorded
	}

	// Поставщик может повторить колбэк, строка тогда уже существует
	existing, err := s.registrationRepo.GetByPaymentID(ctx, req.PaymentID)
	if err == nil {
		if delErr := s.sessions.Delete(ctx, req.OrderID); delErr != nil {
			log.Printf("Не удалось удалить сессию %s: %v", req.OrderID, delErr)
		}
		return existing, nil
	}
	if err != entity.ErrRegistrationNotFound {
		return nil, s.registrationNotRecorded(ctx, session, req.PaymentID, err)
	}

	registration := &entity.Registration{
		EventID:   session.EventID,
		PaymentID: req.PaymentID,
		Status:    entity.RegistrationStatusCompleted,
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		return nil, s.registrationNotRecorded(ctx, session, req.PaymentID, err)
	}

	if err := s.sessions.Delete(ctx, req.OrderID); err != nil {
		log.Printf("Регистрация записана, но сессия %s не удалена: %v", req.OrderID, err)
	}

	log.Printf("Регистрация записана: event=%d, payment=%s",
		registration.EventID, registration.PaymentID)

	return registration, nil
}

// registrationNotRecorded фиксирует подтвержденный платеж, оставшийся без
// строки регистрации. Деньги уже списаны, поэтому сессия сохраняется для
// ручной сверки, а поддержка получает уведомление.
func (s *registrationService) registrationNotRecorded(ctx context.Context, session *entity.CheckoutSession, paymentID string, cause error) error {
	log.Printf("Платеж %s подтвержден, но регистрация не записана: %v", paymentID, cause)

	session.PaymentID = paymentID
	if err := s.sessions.MarkUnrecorded(ctx, session); err != nil {
		log.Printf("Не удалось пометить сессию %s: %v", session.OrderID, err)
	}

	if s.telegramBot != nil {
		go s.notifyUnrecorded(session)
	}

	return fmt.Errorf("%w: %v", entity.ErrRegistrationNotRecorded, cause)
}

// notifyUnrecorded отправляет уведомление поддержке о несверенном платеже
func (s *registrationService) notifyUnrecorded(session *entity.CheckoutSession) {
	message := fmt.Sprintf(
		"⚠️ Оплата получена, запись о регистрации не создана\n\n"+
			"Мероприятие: %s (id %d)\n"+
			"Заказ: %s\n"+
			"Платеж: %s\n"+
			"Сумма: %d %s\n"+
			"Участник: %s <%s>\n\n"+
			"Требуется ручная сверка.",
		session.EventTitle, session.EventID,
		session.OrderID,
		session.PaymentID,
		session.Amount, session.Currency,
		session.Registrant.Name, session.Registrant.Email,
	)

	if err := s.telegramBot.Notify(message); err != nil {
		log.Printf("Ошибка при отправке Telegram уведомления: %v", err)
	}
}

// ReconcileUnrecorded перепроверяет несверенные сессии. Появившиеся после
// ручной сверки строки закрывают сессию, остальные попадают в отчет.
// Никакие вставки здесь не выполняются.
func (s *registrationService) ReconcileUnrecorded(ctx context.Context) (*ReconcileReport, error) {
	sessions, err := s.sessions.Unrecorded(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unrecorded sessions: %w", err)
	}

	report := &ReconcileReport{CheckedAt: time.Now()}

	for _, session := range sessions {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		_, err := s.registrationRepo.GetByPaymentID(ctx, session.PaymentID)
		if err == entity.ErrRegistrationNotFound {
			report.Outstanding = append(report.Outstanding, session)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check registration for payment %s: %w", session.PaymentID, err)
		}

		// Строка появилась, сессия больше не нужна
		if err := s.sessions.Delete(ctx, session.OrderID); err != nil {
			log.Printf("Не удалось удалить выверенную сессию %s: %v", session.OrderID, err)
			continue
		}
		report.Resolved++
	}

	return report, nil
}

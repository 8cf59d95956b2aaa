package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Ansh-Mishra04/project/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	sessions map[string]*entity.CheckoutSession
	saveErr  error
	listErr  error
	marked   []string
	deleted  []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*entity.CheckoutSession)}
}

func (f *fakeSessionStore) Save(ctx context.Context, session *entity.CheckoutSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *session
	f.sessions[session.OrderID] = &copied
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, orderID string) (*entity.CheckoutSession, error) {
	session, ok := f.sessions[orderID]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, orderID string) error {
	delete(f.sessions, orderID)
	f.deleted = append(f.deleted, orderID)
	return nil
}

func (f *fakeSessionStore) MarkUnrecorded(ctx context.Context, session *entity.CheckoutSession) error {
	session.State = entity.CheckoutStateUnrecorded
	copied := *session
	f.sessions[session.OrderID] = &copied
	f.marked = append(f.marked, session.OrderID)
	return nil
}

func (f *fakeSessionStore) Unrecorded(ctx context.Context) ([]*entity.CheckoutSession, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	sessions := make([]*entity.CheckoutSession, 0)
	for _, session := range f.sessions {
		if session.State == entity.CheckoutStateUnrecorded {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	return sessions, nil
}

type fakeGateway struct {
	requests  []*entity.CheckoutRequest
	createErr error
	signature string
	orderSeq  int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutOrder, error) {
	copied := *req
	f.requests = append(f.requests, &copied)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.orderSeq++
	return &entity.CheckoutOrder{
		OrderID:     fmt.Sprintf("order_test_%d", f.orderSeq),
		Key:         "rzp_test_key",
		Amount:      req.Amount,
		Currency:    req.Currency,
		Name:        "City Events",
		Description: req.Description,
		Prefill:     req.Registrant,
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == f.signature
}

type registrationFixture struct {
	svc      RegistrationService
	repo     *fakeRegistrationRepo
	sessions *fakeSessionStore
	gateway  *fakeGateway
}

func newRegistrationFixture(t *testing.T, events []*entity.Event) *registrationFixture {
	t.Helper()

	repo := &fakeRegistrationRepo{}
	eventService := NewEventService(&fakeEventRepo{events: events}, repo)
	require.NoError(t, eventService.LoadEvents(context.Background()))

	sessions := newFakeSessionStore()
	gateway := &fakeGateway{signature: "sig_valid"}

	return &registrationFixture{
		svc:      NewRegistrationService(eventService, repo, sessions, gateway, nil, "INR"),
		repo:     repo,
		sessions: sessions,
		gateway:  gateway,
	}
}

func checkoutEvents(now time.Time) []*entity.Event {
	return []*entity.Event{
		{ID: 1, Title: "tech meetup", Price: 500, StartDate: now.Add(24 * time.Hour), EndDate: now.Add(26 * time.Hour)},
		{ID: 2, Title: "open air", Price: 250, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{ID: 3, Title: "retro expo", Price: 100, StartDate: now.Add(-72 * time.Hour), EndDate: now.Add(-48 * time.Hour)},
		{ID: 4, Title: "charity run", Price: -500, StartDate: now.Add(24 * time.Hour), EndDate: now.Add(26 * time.Hour)},
	}
}

// TestBeginCheckout тестирует открытие оплаты на предстоящее событие
func TestBeginCheckout(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	order, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	// Цена в целых единицах, шлюзу уходят сотые доли
	require.Len(t, fx.gateway.requests, 1)
	sent := fx.gateway.requests[0]
	assert.Equal(t, int64(50000), sent.Amount)
	assert.Equal(t, "INR", sent.Currency)
	assert.Equal(t, "tech meetup", sent.Description)
	assert.True(t, strings.HasPrefix(sent.Receipt, "rcpt_"))

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, "rzp_test_key", order.Key)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "Asha Rao", order.Prefill.Name)

	// Сессия ждет колбэк оплаты
	session, err := fx.sessions.Get(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.EventID)
	assert.Equal(t, entity.CheckoutStatePresented, session.State)
	assert.Equal(t, int64(50000), session.Amount)
	assert.Equal(t, "asha@example.com", session.Registrant.Email)
}

// TestBeginCheckoutRejected тестирует отказы до обращения к шлюзу
func TestBeginCheckoutRejected(t *testing.T) {
	tests := []struct {
		name    string
		eventID int64
		wantErr error
	}{
		{
			name:    "неизвестное событие",
			eventID: 99,
			wantErr: entity.ErrEventNotFound,
		},
		{
			name:    "событие уже идет",
			eventID: 2,
			wantErr: entity.ErrRegistrationClosed,
		},
		{
			name:    "событие завершилось",
			eventID: 3,
			wantErr: entity.ErrRegistrationClosed,
		},
		{
			name:    "отрицательная цена",
			eventID: 4,
			wantErr: entity.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

			_, err := fx.svc.BeginCheckout(context.Background(), tt.eventID, &RegisterRequest{
				Name:  "Asha Rao",
				Email: "asha@example.com",
			})

			require.ErrorIs(t, err, tt.wantErr)
			// Шлюз не вызывался, сессия не создавалась
			assert.Empty(t, fx.gateway.requests)
			assert.Empty(t, fx.sessions.sessions)
		})
	}
}

// TestBeginCheckoutGatewayDown тестирует недоступность платежного шлюза
func TestBeginCheckoutGatewayDown(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))
	fx.gateway.createErr = errors.New("gateway timeout")

	_, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})

	require.ErrorIs(t, err, entity.ErrCheckoutUnavailable)
	// Одна попытка, без повторов
	assert.Len(t, fx.gateway.requests, 1)
	assert.Empty(t, fx.sessions.sessions)
}

// TestBeginCheckoutSessionSaveFails тестирует отказ хранилища сессий
func TestBeginCheckoutSessionSaveFails(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))
	fx.sessions.saveErr = errors.New("connection refused")

	_, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})

	require.ErrorIs(t, err, entity.ErrCheckoutUnavailable)
}

// TestCompleteRegistration тестирует запись регистрации после оплаты
func TestCompleteRegistration(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	order, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	registration, err := fx.svc.CompleteRegistration(context.Background(), &PaymentCallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig_valid",
	})
	require.NoError(t, err)

	// Ровно одна строка регистрации
	require.Len(t, fx.repo.created, 1)
	assert.Equal(t, int64(1), registration.EventID)
	assert.Equal(t, "pay_123", registration.PaymentID)
	assert.Equal(t, entity.RegistrationStatusCompleted, registration.Status)

	// Сессия закрыта
	_, err = fx.sessions.Get(context.Background(), order.OrderID)
	require.ErrorIs(t, err, entity.ErrSessionNotFound)
}

// TestCompleteRegistrationInvalidSignature тестирует поддельную подпись
func TestCompleteRegistrationInvalidSignature(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	order, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	_, err = fx.svc.CompleteRegistration(context.Background(), &PaymentCallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig_forged",
	})

	require.ErrorIs(t, err, entity.ErrInvalidSignature)
	assert.Empty(t, fx.repo.created)

	// Сессия остается ждать настоящий колбэк
	session, getErr := fx.sessions.Get(context.Background(), order.OrderID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.CheckoutStatePresented, session.State)
}

// TestCompleteRegistrationUnknownOrder тестирует колбэк без сессии
func TestCompleteRegistrationUnknownOrder(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	_, err := fx.svc.CompleteRegistration(context.Background(), &PaymentCallbackRequest{
		OrderID:   "order_ghost",
		PaymentID: "pay_123",
		Signature: "sig_valid",
	})

	require.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.Empty(t, fx.repo.created)
}

// TestCompleteRegistrationRepeatedCallback тестирует повтор колбэка
// поставщиком, строка регистрации уже существует
func TestCompleteRegistrationRepeatedCallback(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	order, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	callback := &PaymentCallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig_valid",
	}

	first, err := fx.svc.CompleteRegistration(context.Background(), callback)
	require.NoError(t, err)

	// Второй колбэк возвращает ту же строку без новой вставки
	fx.sessions.sessions[order.OrderID] = &entity.CheckoutSession{
		OrderID: order.OrderID,
		EventID: 1,
		State:   entity.CheckoutStatePresented,
	}
	second, err := fx.svc.CompleteRegistration(context.Background(), callback)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fx.repo.created, 1)
}

// TestCompleteRegistrationInsertFailure тестирует подтвержденный платеж,
// который не удалось записать
func TestCompleteRegistrationInsertFailure(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	order, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	fx.repo.createErr = errors.New("connection refused")

	_, err = fx.svc.CompleteRegistration(context.Background(), &PaymentCallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig_valid",
	})
	require.ErrorIs(t, err, entity.ErrRegistrationNotRecorded)

	// Одна попытка вставки, сессия помечена для ручной сверки
	assert.Len(t, fx.repo.created, 1)
	require.Contains(t, fx.sessions.marked, order.OrderID)

	session, getErr := fx.sessions.Get(context.Background(), order.OrderID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.CheckoutStateUnrecorded, session.State)
	assert.Equal(t, "pay_123", session.PaymentID)
}

// TestCompleteRegistrationLookupFailure тестирует недоступность базы
// при проверке существующей строки
func TestCompleteRegistrationLookupFailure(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	order, err := fx.svc.BeginCheckout(context.Background(), 1, &RegisterRequest{
		Name:  "Asha Rao",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	fx.repo.getErr = errors.New("connection refused")

	_, err = fx.svc.CompleteRegistration(context.Background(), &PaymentCallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig_valid",
	})

	// Вставка не предпринималась, платеж уходит на ручную сверку
	require.ErrorIs(t, err, entity.ErrRegistrationNotRecorded)
	assert.Empty(t, fx.repo.created)
	assert.Contains(t, fx.sessions.marked, order.OrderID)
}

// TestCompleteRegistrationUnrecordedReplay тестирует повтор колбэка по
// сессии, уже ожидающей ручную сверку
func TestCompleteRegistrationUnrecordedReplay(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	fx.sessions.sessions["order_stuck"] = &entity.CheckoutSession{
		OrderID:   "order_stuck",
		EventID:   1,
		PaymentID: "pay_123",
		State:     entity.CheckoutStateUnrecorded,
	}

	_, err := fx.svc.CompleteRegistration(context.Background(), &PaymentCallbackRequest{
		OrderID:   "order_stuck",
		PaymentID: "pay_123",
		Signature: "sig_valid",
	})

	require.ErrorIs(t, err, entity.ErrRegistrationNotRecorded)
	// Повторная вставка не выполняется
	assert.Empty(t, fx.repo.created)
}

// TestReconcileUnrecorded тестирует проход сверки несверенных платежей
func TestReconcileUnrecorded(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	fx.sessions.sessions["order_fixed"] = &entity.CheckoutSession{
		OrderID:   "order_fixed",
		EventID:   1,
		PaymentID: "pay_fixed",
		State:     entity.CheckoutStateUnrecorded,
	}
	fx.sessions.sessions["order_stuck"] = &entity.CheckoutSession{
		OrderID:   "order_stuck",
		EventID:   1,
		PaymentID: "pay_stuck",
		State:     entity.CheckoutStateUnrecorded,
	}

	// Строка по первому платежу появилась после ручной сверки
	fx.repo.byPayment = map[string]*entity.Registration{
		"pay_fixed": {ID: 7, EventID: 1, PaymentID: "pay_fixed", Status: entity.RegistrationStatusCompleted},
	}

	report, err := fx.svc.ReconcileUnrecorded(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Resolved)
	require.Len(t, report.Outstanding, 1)
	assert.Equal(t, "order_stuck", report.Outstanding[0].OrderID)
	assert.Contains(t, fx.sessions.deleted, "order_fixed")

	// Выверенная сессия закрыта, застрявшая остается
	_, err = fx.sessions.Get(context.Background(), "order_fixed")
	require.ErrorIs(t, err, entity.ErrSessionNotFound)
	_, err = fx.sessions.Get(context.Background(), "order_stuck")
	require.NoError(t, err)
}

// TestReconcileUnrecordedEmpty тестирует сверку без несверенных сессий
func TestReconcileUnrecordedEmpty(t *testing.T) {
	fx := newRegistrationFixture(t, checkoutEvents(time.Now()))

	report, err := fx.svc.ReconcileUnrecorded(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Resolved)
	assert.Empty(t, report.Outstanding)
	assert.False(t, report.CheckedAt.IsZero())

	// Отказ хранилища сессий поднимается наверх
	fx.sessions.listErr = errors.New("connection refused")
	_, err = fx.svc.ReconcileUnrecorded(context.Background())
	require.Error(t, err)
}

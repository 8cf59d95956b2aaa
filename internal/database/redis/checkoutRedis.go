package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ansh-Mishra04/project/internal/entity"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix = "checkout:session:"
	unrecordedSetKey = "checkout:unrecorded"
)

// SessionStore keeps presented checkout sessions. Sessions are written
// without TTL: a widget that was opened and never resolved stays in the
// presented state until the provider calls back, however late that is.
type SessionStore interface {
	Save(ctx context.Context, session *entity.CheckoutSession) error
	Get(ctx context.Context, orderID string) (*entity.CheckoutSession, error)
	Delete(ctx context.Context, orderID string) error
	MarkUnrecorded(ctx context.Context, session *entity.CheckoutSession) error
	Unrecorded(ctx context.Context) ([]*entity.CheckoutSession, error)
}

type sessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) SessionStore {
	return &sessionStore{client: client}
}

func (s *sessionStore) Save(ctx context.Context, session *entity.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}

	return s.client.Set(ctx, sessionKeyPrefix+session.OrderID, data, 0).Err()
}

func (s *sessionStore) Get(ctx context.Context, orderID string) (*entity.CheckoutSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+orderID).Result()
	if err == redis.Nil {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var session entity.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, orderID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+orderID)
	pipe.SRem(ctx, unrecordedSetKey, orderID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}

	return nil
}

// MarkUnrecorded rewrites the session in the unrecorded state and indexes
// it for the reconciliation report.
func (s *sessionStore) MarkUnrecorded(ctx context.Context, session *entity.CheckoutSession) error {
	session.State = entity.CheckoutStateUnrecorded

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.OrderID, data, 0)
	pipe.SAdd(ctx, unrecordedSetKey, session.OrderID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark checkout session unrecorded: %w", err)
	}

	return nil
}

func (s *sessionStore) Unrecorded(ctx context.Context) ([]*entity.CheckoutSession, error) {
	orderIDs, err := s.client.SMembers(ctx, unrecordedSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list unrecorded sessions: %w", err)
	}

	sessions := make([]*entity.CheckoutSession, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		session, err := s.Get(ctx, orderID)
		if err == entity.ErrSessionNotFound {
			// Индекс может отставать от удаления самой сессии
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

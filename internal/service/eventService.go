package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	repository "github.com/Ansh-Mishra04/project/internal/database/postgres"
	"github.com/Ansh-Mishra04/project/internal/entity"
)

// EventDetails represents one event with live registration numbers
type EventDetails struct {
	entity.EventListing
	Registered int  `json:"registered"`
	SeatsLeft  *int `json:"seats_left,omitempty"`
}

// SnapshotInfo represents the state of the in-memory event snapshot
type SnapshotInfo struct {
	LoadedAt time.Time `json:"loaded_at"`
	Events   int       `json:"events"`
	Healthy  bool      `json:"healthy"`
}

type eventService struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository

	mu       sync.RWMutex
	events   []*entity.Event
	loadedAt time.Time
	loadErr  error
}

// NewEventService creates a new instance of EventService
func NewEventService(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
	}
}

// LoadEvents fetches the full catalog in one attempt and replaces the
// snapshot. On failure an already loaded snapshot is kept as is; the
// error is left for the caller to report.
func (s *eventService) LoadEvents(ctx context.Context) error {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		s.mu.Lock()
		if s.loadedAt.IsZero() {
			s.loadErr = fmt.Errorf("%w: %v", entity.ErrEventsUnavailable, err)
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to load events: %w", err)
	}

	s.mu.Lock()
	s.events = events
	s.loadedAt = time.Now()
	s.loadErr = nil
	s.mu.Unlock()

	log.Printf("Каталог событий загружен: %d", len(events))
	return nil
}

// ReloadEvents повторяет загрузку каталога по ручному запросу
func (s *eventService) ReloadEvents(ctx context.Context) error {
	return s.LoadEvents(ctx)
}

func (s *eventService) GetEventsByWindow(window entity.EventWindow) ([]*entity.EventListing, error) {
	s.mu.RLock()
	events, loadErr := s.events, s.loadErr
	s.mu.RUnlock()

	if loadErr != nil {
		return nil, loadErr
	}

	// Момент времени берется один раз на весь проход
	return entity.FilterByWindow(events, time.Now(), window), nil
}

func (s *eventService) GetEvent(id int64) (*entity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}

	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}

	return nil, entity.ErrEventNotFound
}

func (s *eventService) GetEventDetails(ctx context.Context, id int64) (*EventDetails, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	registered, err := s.registrationRepo.CountByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	now := time.Now()
	details := &EventDetails{
		EventListing: entity.EventListing{
			Event:            *event,
			Window:           event.WindowAt(now),
			RegistrationOpen: event.RegistrationOpen(now),
		},
		Registered: registered,
	}

	// Вместимость информационная, нулевая означает без ограничения
	if event.Capacity > 0 {
		left := event.Capacity - registered
		if left < 0 {
			left = 0
		}
		details.SeatsLeft = &left
	}

	return details, nil
}

func (s *eventService) SnapshotInfo() *SnapshotInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &SnapshotInfo{
		LoadedAt: s.loadedAt,
		Events:   len(s.events),
		Healthy:  s.loadErr == nil,
	}
}

package entity

import (
	"fmt"
	"math"
	"time"
)

type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Venue       string    `json:"venue" db:"venue"`
	Price       int64     `json:"price" db:"price"`
	Capacity    int       `json:"capacity" db:"capacity"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// EventWindow is the time window an event falls into relative to a
// reference instant.
type EventWindow string

const (
	WindowUpcoming EventWindow = "upcoming"
	WindowCurrent  EventWindow = "current"
	WindowEnded    EventWindow = "ended"
)

// ParseEventWindow maps a query-string value onto a known window.
func ParseEventWindow(s string) (EventWindow, error) {
	switch EventWindow(s) {
	case WindowUpcoming, WindowCurrent, WindowEnded:
		return EventWindow(s), nil
	}
	return "", fmt.Errorf("unknown event window %q", s)
}

// WindowAt places the event in exactly one window relative to now.
// Precondition: StartDate <= EndDate. Rows violating that come from the
// administrative path and are not re-validated here; their window is
// undefined.
func (e *Event) WindowAt(now time.Time) EventWindow {
	switch {
	case e.StartDate.After(now):
		return WindowUpcoming
	case e.EndDate.Before(now):
		return WindowEnded
	default:
		return WindowCurrent
	}
}

// RegistrationOpen reports whether the event still accepts registrations.
// Only upcoming events do; an event that has started is closed even while
// it is running.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return e.WindowAt(now) == WindowUpcoming
}

// PaymentAmount converts the stored whole-unit price into the subunit
// amount the payment provider expects (1 unit = 100 subunits).
func (e *Event) PaymentAmount() (int64, error) {
	if e.Price < 0 || e.Price > math.MaxInt64/100 {
		return 0, ErrInvalidPrice
	}
	return e.Price * 100, nil
}

// EventListing is one card of the listing surface: the event plus its
// window membership at the instant the list was built.
type EventListing struct {
	Event
	Window           EventWindow `json:"window"`
	RegistrationOpen bool        `json:"registration_open"`
}

// FilterByWindow returns the subsequence of events falling into the given
// window at now. Order is preserved; now is sampled once by the caller so
// every event in one pass is judged against the same instant.
func FilterByWindow(events []*Event, now time.Time, window EventWindow) []*EventListing {
	listings := make([]*EventListing, 0, len(events))
	for _, e := range events {
		if e.WindowAt(now) != window {
			continue
		}
		listings = append(listings, &EventListing{
			Event:            *e,
			Window:           window,
			RegistrationOpen: e.RegistrationOpen(now),
		})
	}
	return listings
}

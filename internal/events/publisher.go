package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event topics
const (
	TopicChecklist     = "readiness.checklist"
	TopicProfiles      = "readiness.profiles"
	TopicNotifications = "readiness.notifications"
)

// Event types
const (
	EventChecklistProvisioned = "checklist.provisioned"
	EventTaskToggled          = "checklist.task_toggled"
	EventMonthCompleted       = "checklist.month_completed"
	EventProfileUpdated       = "profile.updated"
	EventAnnouncementPosted   = "announcement.posted"
	EventReminderPush         = "reminder.push"
)

// Event is the envelope every published message carries.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with id, source and timestamp filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "readiness-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// MockEventPublisher records events in memory for tests and for
// deployments running without a broker.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	if m.logger != nil {
		m.logger.Debug("Mock event published",
			"topic", topic,
			"event_type", event.Type,
			"event_id", event.ID)
	}
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a snapshot of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]*Event, len(m.events))
	copy(snapshot, m.events)
	return snapshot
}

// ClearEvents drops recorded events between test cases.
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

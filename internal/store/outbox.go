package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrEmailTaken = errors.New("email already registered")
)

const (
	// OutboxStatusPending indicates the event is waiting to be published
	OutboxStatusPending = "pending"
	// OutboxStatusProcessed indicates the event was published
	OutboxStatusProcessed = "processed"
	// OutboxStatusFailed indicates publishing failed (will be retried)
	OutboxStatusFailed = "failed"
	// OutboxStatusDeadLetter indicates the event failed too many times
	OutboxStatusDeadLetter = "dead_letter"

	// MaxRetryCount is the maximum number of retries before moving to dead letter
	MaxRetryCount = 5
)

// OutboxEvent is a catalog change waiting in the store for the relay to
// publish. Keeping it in the same file as the documents makes the append
// atomic with the mutation that produced it.
type OutboxEvent struct {
	ID            uuid.UUID       `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	TargetStream  string          `json:"target_stream"`
	Status        string          `json:"status"`
	RetryCount    int             `json:"retry_count"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	NextRetryAt   time.Time       `json:"next_retry_at"`
}

// AppendEvent adds an event to the outbox.
func (s *Store) AppendEvent(event *OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}
	now := time.Now()
	event.CreatedAt = now
	if event.NextRetryAt.IsZero() {
		event.NextRetryAt = now
	}

	copied := *event
	s.docs.Outbox = append(s.docs.Outbox, &copied)
	return s.save()
}

// GetPendingEvents retrieves events ready for publishing, oldest first.
func (s *Store) GetPendingEvents(limit int) []*OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var out []*OutboxEvent
	for _, e := range s.docs.Outbox {
		if e.Status != OutboxStatusPending && e.Status != OutboxStatusFailed {
			continue
		}
		if e.NextRetryAt.After(now) {
			continue
		}
		copied := *e
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// MarkEventProcessed marks an event as successfully published.
func (s *Store) MarkEventProcessed(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.docs.Outbox {
		if e.ID == id {
			now := time.Now()
			e.Status = OutboxStatusProcessed
			e.ProcessedAt = &now
			return s.save()
		}
	}
	return ErrNotFound
}

// MarkEventFailed records a publish failure with exponential backoff, moving
// the event to dead letter once it exceeds MaxRetryCount.
func (s *Store) MarkEventFailed(id uuid.UUID, publishErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.docs.Outbox {
		if e.ID != id {
			continue
		}
		e.RetryCount++
		e.ErrorMessage = publishErr.Error()
		e.NextRetryAt = nextRetryTime(e.RetryCount)
		if e.RetryCount >= MaxRetryCount {
			e.Status = OutboxStatusDeadLetter
		} else {
			e.Status = OutboxStatusFailed
		}
		return s.save()
	}
	return ErrNotFound
}

// PendingEventCount returns the number of events not yet published.
func (s *Store) PendingEventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.docs.Outbox {
		if e.Status == OutboxStatusPending || e.Status == OutboxStatusFailed {
			count++
		}
	}
	return count
}

// DeadLetterCount returns the number of events that exhausted their retries.
func (s *Store) DeadLetterCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.docs.Outbox {
		if e.Status == OutboxStatusDeadLetter {
			count++
		}
	}
	return count
}

// nextRetryTime backs off exponentially: 2s, 4s, 8s... capped at 5 minutes.
func nextRetryTime(retryCount int) time.Time {
	backoffSeconds := 1 << retryCount
	if backoffSeconds > 300 {
		backoffSeconds = 300
	}
	return time.Now().Add(time.Duration(backoffSeconds) * time.Second)
}

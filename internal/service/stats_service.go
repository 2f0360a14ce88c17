package service

import (
	"context"
	"sync"
	"time"

	"solemate-be/internal/dto"
	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/events"
	pktNats "solemate-be/pkg/nats"
)

type IStatsService interface {
	Start(ctx context.Context) error
	Record(event events.Event)
	Snapshot() *dto.ChatStatsResponse
}

// EventSubscriber is satisfied by the NATS subscriber
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// statsService counts turn events read back from the broker
type statsService struct {
	subscriber EventSubscriber
	logger     logger.ILogger

	mu     sync.Mutex
	counts map[string]int64
	since  time.Time
}

// NewStatsService builds the service. With a nil subscriber Start is a no-op.
func NewStatsService(subscriber EventSubscriber, log logger.ILogger) IStatsService {
	return &statsService{
		subscriber: subscriber,
		logger:     log,
		counts:     make(map[string]int64),
		since:      time.Now(),
	}
}

func (s *statsService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe(ctx, pktNats.Subject("chat.>"), "solemate-stats", func(_ context.Context, event events.Event) error {
		s.Record(event)
		return nil
	})
}

func (s *statsService) Record(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[event.EventType()]++
	if event.EventType() == events.TypeTurnCompleted {
		if c, ok := event.Payload()["classification"].(string); ok && c != "" {
			s.counts["classification."+c]++
		}
	}
}

func (s *statsService) Snapshot() *dto.ChatStatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v
	}
	return &dto.ChatStatsResponse{Counts: counts, Since: s.since}
}

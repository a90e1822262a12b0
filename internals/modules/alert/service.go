package alert

import (
	"context"
	"sync"
	"time"

	"powermon/internals/modules/outage"
	"powermon/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

const publishTimeout = 10 * time.Second

type Publisher interface {
	PublishEvent(ctx context.Context, event rabbitmq.EventPayload) error
}

// AlertService fans outage transitions out to the broker. Without a publisher
// it only logs them.
type AlertService struct {
	// lifecycle
	workerCount int
	workerWG    sync.WaitGroup
	mu          sync.RWMutex
	closed      bool

	// channels
	alertChan chan AlertEvent

	// services
	publisher Publisher // nil when rabbitmq is disabled

	// misc
	logger *zerolog.Logger
}

// DefaultWorkers keeps publishes in transition order.
const DefaultWorkers = 1

func NewAlertService(workerCount int, alertChan chan AlertEvent, publisher Publisher, logger *zerolog.Logger) *AlertService {
	if workerCount < 1 {
		workerCount = 1
	}
	return &AlertService{
		workerCount: workerCount,
		alertChan:   alertChan,
		publisher:   publisher,
		logger:      logger,
	}
}

// Notify enqueues the transition and never blocks the cycle; a full queue drops it.
func (s *AlertService) Notify(ctx context.Context, t outage.Transition) {
	if !t.Happened() {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.alertChan <- AlertEvent{Kind: t.Kind, Outage: t.Outage}:
	default:
		s.logger.Warn().
			Str("outage_id", t.Outage.ID.String()).
			Str("transition", string(t.Kind)).
			Msg("alert queue full, transition dropped")
	}
}

// Start starts the Alert Service
func (s *AlertService) Start() {

	s.workerWG.Add(s.workerCount)

	for range s.workerCount {
		go s.handleAlerts()
	}
}

func (s *AlertService) handleAlerts() {
	defer s.workerWG.Done()

	for alert := range s.alertChan {
		s.handle(alert)
	}
}

func (s *AlertService) handle(alert AlertEvent) {
	log := s.logger.With().
		Str("outage_id", alert.Outage.ID.String()).
		Str("transition", string(alert.Kind)).
		Logger()

	switch alert.Kind {
	case outage.TransitionOpened:
		log.Warn().Int("affected", len(alert.Outage.Affected)).Msg("power outage started")
	case outage.TransitionClosed:
		ev := log.Info()
		if alert.Outage.DurationSeconds != nil {
			ev = ev.Int64("duration_seconds", *alert.Outage.DurationSeconds)
		}
		ev.Msg("power restored")
	}

	if s.publisher == nil {
		return
	}

	event, err := rabbitmq.NewEvent(eventType(alert.Kind), alert.At(), toPayload(alert.Outage))
	if err != nil {
		log.Error().Err(err).Msg("failed to build outage event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		log.Error().Err(err).Msg("failed to publish outage event")
	}
}

func eventType(kind outage.TransitionKind) string {
	if kind == outage.TransitionClosed {
		return rabbitmq.EventOutageClosed
	}
	return rabbitmq.EventOutageOpened
}

// Stop closes the queue; pending alerts are still delivered.
func (s *AlertService) Stop() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.alertChan)
	}
	s.mu.Unlock()
}

// WorkerClosingWait waits for alert workers to complete
func (s *AlertService) WorkerClosingWait() {
	s.workerWG.Wait()
}

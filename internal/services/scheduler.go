package services

import (
	"time"

	"github.com/whanarchyven/drsarha-conf/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduler is the deadline loop behind the session state machine. Phase
// transitions are recorded as durable ScheduledAdvance rows; the loop pops
// entries whose deadline passed and hands them to SessionService.Advance,
// which re-validates session state before acting. There is no cancellation:
// a stale entry simply no-ops.
type Scheduler struct {
	db       *gorm.DB
	sessions *SessionService
	log      *zap.Logger
	tick     time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(db *gorm.DB, sessions *SessionService, log *zap.Logger, tick time.Duration) *Scheduler {
	return &Scheduler{
		db:       db,
		sessions: sessions,
		log:      log,
		tick:     tick,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.processDue(now)
		}
	}
}

// processDue pops every entry whose deadline has passed and advances the
// referenced sessions. Returns the number of entries processed.
func (s *Scheduler) processDue(now time.Time) int {
	var due []models.ScheduledAdvance
	if err := s.db.Where("due_at <= ?", now).Order("due_at ASC").Find(&due).Error; err != nil {
		s.log.Error("scheduler query failed", zap.Error(err))
		return 0
	}

	for _, entry := range due {
		// remove the entry first so a failing advance cannot wedge the loop
		if err := s.db.Delete(&models.ScheduledAdvance{}, entry.ID).Error; err != nil {
			s.log.Error("scheduler delete failed", zap.Error(err), zap.Uint("entry_id", entry.ID))
			continue
		}
		if err := s.sessions.Advance(entry.SessionID); err != nil {
			s.log.Error("session advance failed", zap.Error(err), zap.Uint("session_id", entry.SessionID))
		}
	}
	return len(due)
}

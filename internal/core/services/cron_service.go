package services

import (
	"log"

	"loandesk/internal/adapters/cache"

	"github.com/robfig/cron/v3"
)

// sweeper is implemented by cache drivers that need periodic expiry cleanup
type sweeper interface {
	Sweep() int
}

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron  *cron.Cron
	store cache.Store
}

// NewCronService creates a new cron service
func NewCronService(store cache.Store) *CronService {
	return &CronService{
		cron:  cron.New(),
		store: store,
	}
}

// Start registers and launches all scheduled jobs
func (s *CronService) Start() {
	if sw, ok := s.store.(sweeper); ok {
		// Expiry in the memory driver is lazy; sweep every minute so
		// idle namespaces do not pin memory.
		s.cron.AddFunc("@every 1m", func() {
			if removed := sw.Sweep(); removed > 0 {
				log.Printf("Cache sweep removed %d expired entries", removed)
			}
		})
	}

	s.cron.Start()
	log.Println("CronService started")
}

// Stop stops all scheduled jobs
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("CronService stopped")
}

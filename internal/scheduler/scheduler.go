package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wenwu/saas-platform/pricing-service/internal/allotments"
	"github.com/wenwu/saas-platform/pricing-service/internal/pricing"
)

// Scheduler periodically refreshes every region's catalog and the allotment
// set. A zero interval disables it entirely.
type Scheduler struct {
	cron       *cron.Cron
	pricingSvc *pricing.Service
	allotSvc   *allotments.Service
	interval   time.Duration
	log        *zap.SugaredLogger
}

func New(pricingSvc *pricing.Service, allotSvc *allotments.Service, interval time.Duration, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		pricingSvc: pricingSvc,
		allotSvc:   allotSvc,
		interval:   interval,
		log:        log,
	}
}

// Start registers the refresh job and starts the cron loop. Job failures are
// logged and retried on the next tick, never fatal.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Infow("background sync disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}
	s.cron.Start()
	s.log.Infow("background sync started", "interval", s.interval)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx := context.Background()

	for _, res := range s.pricingSvc.SyncAll(ctx) {
		if !res.Success {
			s.log.Warnw("scheduled pricing sync failed", "region", res.Region, "message", res.Message)
		}
	}

	if res := s.allotSvc.Sync(ctx); !res.Success {
		s.log.Warnw("scheduled allotments sync failed", "message", res.Message)
	}
}

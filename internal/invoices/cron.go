package invoices

import (
	"context"
	"log"
	"time"

	"github.com/atelierhq/agency-backend/internal/realtime"
	"github.com/robfig/cron/v3"
)

// Sweeper flips overdue invoices on a schedule so their status in the table
// matches what the overdue listing computes.
type Sweeper struct {
	repo      *Repo
	broadcast *realtime.Broadcaster
	cron      *cron.Cron
}

func NewSweeper(repo *Repo, broadcast *realtime.Broadcaster) *Sweeper {
	return &Sweeper{
		repo:      repo,
		broadcast: broadcast,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start schedules the nightly sweep at midnight and runs one pass right away
// to catch invoices that went overdue while the service was down.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	marked, err := s.repo.MarkOverdue(ctx)
	if err != nil {
		log.Printf("invoice overdue sweep failed: %v", err)
		return
	}
	if len(marked) == 0 {
		return
	}

	log.Printf("invoice overdue sweep marked %d invoice(s)", len(marked))
	for i := range marked {
		s.broadcast.Publish(ctx, realtime.EventInvoiceOverdue, &marked[i])
	}
}

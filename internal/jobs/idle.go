package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const runTimeout = 30 * time.Second

// Deactivator flags sessions last updated before a cutoff as inactive.
type Deactivator interface {
	DeactivateIdle(ctx context.Context, before time.Time) (int64, error)
}

// IdleSessionJob periodically marks sessions inactive once they have gone
// idleAfter without a new message.
type IdleSessionJob struct {
	store     Deactivator
	idleAfter time.Duration
	interval  time.Duration
	now       func() time.Time
	done      chan struct{}
}

func NewIdleSessionJob(store Deactivator, idleAfter, interval time.Duration) *IdleSessionJob {
	return &IdleSessionJob{
		store:     store,
		idleAfter: idleAfter,
		interval:  interval,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

func (j *IdleSessionJob) Start() {
	go j.run()
	log.Info().
		Dur("interval", j.interval).
		Dur("idleAfter", j.idleAfter).
		Msg("idle session job started")
}

func (j *IdleSessionJob) Stop() {
	close(j.done)
	log.Info().Msg("idle session job stopped")
}

func (j *IdleSessionJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *IdleSessionJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	count, err := j.store.DeactivateIdle(ctx, j.now().Add(-j.idleAfter))
	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate idle sessions")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("deactivated idle sessions")
	}
}

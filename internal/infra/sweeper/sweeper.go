package sweeper

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweepable хранилище, из которого периодически удаляются неактивные сессии
type Sweepable interface {
	Sweep(now time.Time) int
}

// Sweeper периодически очищает неактивные сессии
type Sweeper struct {
	target   Sweepable
	interval time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
}

// New создает новый экземпляр Sweeper
func New(target Sweepable, interval time.Duration, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{target: target, interval: interval, log: log, now: time.Now}
}

// Run запускает очистку по таймеру до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("session sweeper stopped")
			return
		case <-ticker.C:
			if n := s.target.Sweep(s.now()); n > 0 {
				s.log.WithField("removed", n).Debug("idle sessions swept")
			}
		}
	}
}

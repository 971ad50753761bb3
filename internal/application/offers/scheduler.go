package offers

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// Sweeper ejecuta un barrido de expiración y devuelve cuántas ofertas expiró.
type Sweeper interface {
	ExpireSweep(ctx context.Context, now time.Time) (int, error)
}

// Scheduler dispara el barrido de expiración en intervalos fijos. El barrido
// corre en una única goroutine: una corrida nunca se solapa con la anterior.
// La primera corrida es inmediata al arrancar.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewScheduler construye el scheduler. Intervalos no positivos caen a una hora.
func NewScheduler(sweeper Sweeper, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		log:      log,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start lanza la goroutine del scheduler. Llamadas repetidas no tienen efecto.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Stop detiene el scheduler y espera a que la corrida en curso termine.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Scheduler) sweep() {
	start := s.now()
	sweepRuns.Inc()

	expired, err := s.sweeper.ExpireSweep(context.Background(), start)
	elapsed := time.Since(start)
	sweepDuration.Observe(elapsed.Seconds())

	if err != nil {
		s.log.Error().Err(err).Msg("el barrido de expiración de ofertas falló")
		return
	}
	if expired > 0 {
		s.log.Info().
			Int("expired", expired).
			Dur("elapsed", elapsed).
			Msg("barrido de expiración de ofertas completado")
	}
}

// Package watch runs the cron-driven background jobs: PDF-gateway health
// polling and the daily delay digest.
package watch

import (
	"context"
	"fmt"

	"github.com/hmasuda/sitework/internal/config"
	"github.com/hmasuda/sitework/internal/models"
	"github.com/hmasuda/sitework/internal/notify"
	"github.com/hmasuda/sitework/internal/project"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// healthChecker is satisfied by pdfgw.Client.
type healthChecker interface {
	Health(ctx context.Context) bool
}

// Watcher schedules the background jobs.
type Watcher struct {
	db         *gorm.DB
	gw         healthChecker
	dispatcher *notify.Dispatcher
	log        *logrus.Logger
	cron       *cron.Cron

	// gwHealthy is nil until the first poll so startup in either state does
	// not fire a transition notice.
	gwHealthy *bool
}

// New creates a Watcher. dispatcher may be inactive; jobs then only log.
func New(db *gorm.DB, gw healthChecker, dispatcher *notify.Dispatcher, log *logrus.Logger) *Watcher {
	return &Watcher{
		db:         db,
		gw:         gw,
		dispatcher: dispatcher,
		log:        log,
		cron:       cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the configured jobs and runs the cron loop until ctx is
// cancelled.
func (w *Watcher) Start(ctx context.Context, cfg config.WatchConfig) error {
	if _, err := w.cron.AddFunc(cfg.HealthCron, func() { w.pollHealth(ctx) }); err != nil {
		return fmt.Errorf("watch: health cron %q: %w", cfg.HealthCron, err)
	}
	if _, err := w.cron.AddFunc(cfg.DigestCron, func() { w.delayDigest(ctx) }); err != nil {
		return fmt.Errorf("watch: digest cron %q: %w", cfg.DigestCron, err)
	}

	w.cron.Start()
	<-ctx.Done()
	<-w.cron.Stop().Done()
	return nil
}

// pollHealth pings the gateway and notifies on availability transitions.
func (w *Watcher) pollHealth(ctx context.Context) {
	healthy := w.gw.Health(ctx)
	prev := w.gwHealthy
	w.gwHealthy = &healthy

	if prev != nil && *prev != healthy {
		if healthy {
			w.log.Info("pdf service recovered")
			w.dispatcher.GatewayRecovered(ctx)
		} else {
			w.log.Warn("pdf service became unreachable")
			w.dispatcher.GatewayDown(ctx)
		}
		return
	}
	w.log.WithField("healthy", healthy).Debug("pdf service health poll")
}

// delayDigest collects projects whose resolved status is delayed and sends
// one digest message.
func (w *Watcher) delayDigest(ctx context.Context) {
	summaries, err := project.ListWithStatus(w.db)
	if err != nil {
		w.log.WithError(err).Error("delay digest query failed")
		return
	}

	var delayed []notify.DelayedProject
	for _, s := range summaries {
		if s.Status == models.StatusDelayed {
			delayed = append(delayed, notify.DelayedProject{
				ProjectNumber: s.Project.ProjectNumber,
				ProjectName:   s.Project.ProjectName,
				Progress:      s.Progress,
			})
		}
	}

	w.log.WithField("delayed", len(delayed)).Info("delay digest")
	w.dispatcher.DelayDigest(ctx, delayed)
}

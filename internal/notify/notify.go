// Package notify sends outbound notifications about schedule events to chat
// channels. Delivery is best-effort: failures are logged once and never
// propagate to the caller's operation.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Notifier delivers a plain-text message to one destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// DelayedProject is one entry of a delay digest.
type DelayedProject struct {
	ProjectNumber int
	ProjectName   string
	Progress      int
}

// Dispatcher fans messages out to all configured notifiers.
type Dispatcher struct {
	notifiers []Notifier
	log       *logrus.Logger
}

// NewDispatcher creates a Dispatcher. With no notifiers it is a no-op.
func NewDispatcher(log *logrus.Logger, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, log: log}
}

// Active reports whether any notifier is configured.
func (d *Dispatcher) Active() bool {
	return len(d.notifiers) > 0
}

// GatewayDown announces that the PDF service stopped answering.
func (d *Dispatcher) GatewayDown(ctx context.Context) {
	d.send(ctx, "PDF service is unreachable. Imports and exports will fail until it recovers.")
}

// GatewayRecovered announces that the PDF service is answering again.
func (d *Dispatcher) GatewayRecovered(ctx context.Context) {
	d.send(ctx, "PDF service is reachable again.")
}

// ImportCompleted announces a finished PDF import.
func (d *Dispatcher) ImportCompleted(ctx context.Context, projectName string, version, itemCount int) {
	d.send(ctx, fmt.Sprintf("Imported schedule v%d for %q (%d items).", version, projectName, itemCount))
}

// DelayDigest announces the projects currently resolved as delayed. An empty
// list sends nothing.
func (d *Dispatcher) DelayDigest(ctx context.Context, delayed []DelayedProject) {
	if len(delayed) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d project(s) delayed:\n", len(delayed))
	for _, p := range delayed {
		fmt.Fprintf(&b, "- #%d %s (%d%% complete)\n", p.ProjectNumber, p.ProjectName, p.Progress)
	}
	d.send(ctx, strings.TrimRight(b.String(), "\n"))
}

func (d *Dispatcher) send(ctx context.Context, text string) {
	for _, n := range d.notifiers {
		if err := n.Send(ctx, text); err != nil {
			d.log.WithError(err).WithField("notifier", n.Name()).Warn("notification delivery failed")
		}
	}
}

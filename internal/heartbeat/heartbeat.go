// Package heartbeat posts a periodic idle status for the agent on a cron
// schedule.
package heartbeat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	statusIdle  = "idle"
	beatTimeout = 30 * time.Second
)

// Notifier publishes an agent status notification and reports the outcome.
type Notifier interface {
	Notify(ctx context.Context, agentID, status, message string, isError bool) string
}

// Heartbeat runs Notifier on a schedule until its context is cancelled.
type Heartbeat struct {
	schedule cron.Schedule
	expr     string
	agentID  string
	notifier Notifier
}

// New parses expr and returns a Heartbeat reporting as agentID.
func New(expr, agentID string, n Notifier) (*Heartbeat, error) {
	sched, err := parseCronExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("heartbeat: invalid schedule %q: %w", expr, err)
	}
	return &Heartbeat{schedule: sched, expr: expr, agentID: agentID, notifier: n}, nil
}

// parseCronExpr tries 6-field (with seconds) then 5-field (standard) parsing.
// Descriptors such as "@hourly" and "@every 1m" are accepted by both.
func parseCronExpr(expr string) (cron.Schedule, error) {
	parser6 := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser6.Parse(expr)
	if err == nil {
		return sched, nil
	}
	parser5 := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return parser5.Parse(expr)
}

// Run blocks until ctx is done, then waits for a running beat to finish.
func (h *Heartbeat) Run(ctx context.Context) error {
	c := cron.New()
	c.Schedule(h.schedule, cron.FuncJob(func() { h.beat(ctx) }))
	c.Start()
	slog.Info("heartbeat: started", "cron", h.expr, "agent_id", h.agentID)

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("heartbeat: stopped")
	return nil
}

func (h *Heartbeat) beat(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, beatTimeout)
	defer cancel()

	result := h.notifier.Notify(ctx, h.agentID, statusIdle, "heartbeat", false)
	slog.Debug("heartbeat: sent", "agent_id", h.agentID, "result", result)
}

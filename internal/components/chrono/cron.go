package chrono

import (
	"context"
	"fmt"
	"time"

	"iliad-account/internal/components/telemetry"

	"github.com/robfig/cron/v3"
)

// EntryID identifies a registered cron callback.
type EntryID = cron.EntryID

// CronAPI is the interface that anything depending on things to happen on a cron job should use.
type CronAPI interface {
	// Cron registers a callback on a cron spec, "@every <duration>" is also accepted.
	Cron(spec string, callback func()) (EntryID, error)
	// Remove unregisters a callback, a running invocation is not interrupted.
	Remove(id EntryID)
	// Stop stops the scheduler, the returned context is done once running callbacks return.
	Stop() context.Context
}

// Every returns the cron spec for running something at a fixed interval.
func Every(interval time.Duration) string {
	return fmt.Sprintf("@every %s", interval.String())
}

// StandardCron is the standard implementation of CronAPI using `github.com/robfig/cron/v3`.
// A callback is skipped if its previous invocation is still running, a panic is
// recovered inside the skip guard so the next tick still runs.
type StandardCron struct {
	cron *cron.Cron
}

// NewStandardCron is the constructor of StandardCron, the scheduler is started immediately.
func NewStandardCron(tel telemetry.API) StandardCron {
	logger := cronLogger{tel: tel}
	cronner := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(
			cron.SkipIfStillRunning(logger),
			cron.Recover(logger),
		),
	)
	cronner.Start()

	return StandardCron{
		cron: cronner,
	}
}

func (s StandardCron) Cron(spec string, callback func()) (EntryID, error) {
	return s.cron.AddFunc(spec, callback)
}

func (s StandardCron) Remove(id EntryID) {
	s.cron.Remove(id)
}

func (s StandardCron) Stop() context.Context {
	return s.cron.Stop()
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		params = append(params, fmt.Sprintf("%v: %v", keysAndValues[i], keysAndValues[i+1]))
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(
		fmt.Sprintf("cron: %s", msg),
		l.formatParams(keysAndValues)...,
	)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken(
		"cron",
		append(
			[]any{fmt.Errorf("%s: %w", msg, err)},
			l.formatParams(keysAndValues)...,
		)...,
	)
}

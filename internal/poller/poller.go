package poller

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"iliad-account/internal/components/assert"
	"iliad-account/internal/components/chrono"
	"iliad-account/internal/components/state"
	"iliad-account/internal/components/telemetry"
	"iliad-account/internal/scrapers/iliad"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_platform_update  = "platform.update"
	report_platform_publish = "platform.publish"
	report_platform_failing = "platform.consecutive-failures"
)

const (
	status_ok              = "ok"
	status_transport_error = "transport_error"
	status_status_error    = "status_error"
	status_extract_error   = "extract_error"
	status_publish_error   = "publish_error"
)

var meter = otel.Meter("iliad-account/internal/poller")

// Authenticator logs into the account portal and returns the account page.
//
// note: fault injection point
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (status int, body []byte, err error)
}

// StatusError is reported when the portal answers with anything but 200.
type StatusError struct {
	Status int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

type Options struct {
	Client   Authenticator
	Username string
	Password string
	// Interval between two polls.
	Interval time.Duration
	// Domain prefixes every published key.
	Domain string
	Sink   state.Sink
	Cron   chrono.CronAPI
	Tel    telemetry.API
}

// Poller owns the credit record and keeps it up to date.
type Poller struct {
	client   Authenticator
	username string
	password string
	interval time.Duration
	domain   string
	sink     state.Sink
	cron     chrono.CronAPI
	tel      telemetry.API

	pollCounter metric.Int64Counter
	creditGauge metric.Float64Gauge

	mutex    sync.Mutex
	record   iliad.CreditRecord
	failures int64
	entry    chrono.EntryID
	started  bool

	// done is closed by Stop, watching is closed once the schedule watcher returns.
	done     chan struct{}
	stopOnce sync.Once
	watching chan struct{}
}

func New(opts Options) (*Poller, error) {
	assert.NotNil(opts.Client)
	assert.NotNil(opts.Sink)
	assert.NotNil(opts.Cron)
	assert.NotNil(opts.Tel)
	assert.NotEmptyStr(opts.Domain)
	assert.Positive(opts.Interval)

	pollCounter, err := meter.Int64Counter(
		"iliad_account_poll_total",
		metric.WithDescription("The total amount of polls of the account page, by outcome."),
	)
	if err != nil {
		return nil, err
	}
	creditGauge, err := meter.Float64Gauge(
		"iliad_account_credit",
		metric.WithDescription("The latest numeric credit values scraped from the account page."),
	)
	if err != nil {
		return nil, err
	}

	return &Poller{
		client:      opts.Client,
		username:    opts.Username,
		password:    opts.Password,
		interval:    opts.Interval,
		domain:      opts.Domain,
		sink:        opts.Sink,
		cron:        opts.Cron,
		tel:         telemetry.NewScopedAPI("poller", opts.Tel),
		pollCounter: pollCounter,
		creditGauge: creditGauge,
		done:        make(chan struct{}),
		watching:    make(chan struct{}),
	}, nil
}

// Snapshot returns a copy of the current record.
func (p *Poller) Snapshot() iliad.CreditRecord {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.record.Clone()
}

// States renders the current record as the states it is published as.
func (p *Poller) States() []state.State {
	return statesOf(p.domain, p.Snapshot())
}

func statesOf(domain string, record iliad.CreditRecord) []state.State {
	values := record.Values()
	states := make([]state.State, len(values))
	for i, v := range values {
		states[i] = state.State{
			Key:   state.Key(domain, string(v.Field)),
			Value: v.Value,
		}
	}
	return states
}

func (p *Poller) finish(ctx context.Context, status string) {
	p.pollCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))

	p.mutex.Lock()
	if status == status_ok {
		p.failures = 0
	} else {
		p.failures++
	}
	failures := p.failures
	p.mutex.Unlock()

	p.tel.ReportCount(report_platform_failing, failures)
}

func (p *Poller) recordGauges(ctx context.Context, record iliad.CreditRecord) {
	for _, v := range record.Values() {
		var value float64
		switch typed := v.Value.(type) {
		case int:
			value = float64(typed)
		case float64:
			value = typed
		default:
			continue
		}
		p.creditGauge.Record(ctx, value, metric.WithAttributes(attribute.String("field", string(v.Field))))
	}
}

// Update runs a single poll: it authenticates, extracts the credit figures
// into the record and publishes every field. It returns false if any step
// failed, the record is only modified when extraction succeeds.
func (p *Poller) Update(ctx context.Context) bool {
	status, body, err := p.client.Authenticate(ctx, p.username, p.password)
	if err != nil {
		p.tel.ReportWarning(report_platform_update, fmt.Errorf("authenticate: %w", err))
		p.finish(ctx, status_transport_error)
		return false
	}
	if status != http.StatusOK {
		p.tel.ReportWarning(report_platform_update, fmt.Errorf("authenticate: %w", StatusError{Status: status}))
		p.finish(ctx, status_status_error)
		return false
	}

	p.mutex.Lock()
	err = iliad.Extract(body, &p.record)
	record := p.record.Clone()
	p.mutex.Unlock()
	if err != nil {
		p.tel.ReportBroken(report_platform_update, fmt.Errorf("extract: %w", err))
		p.finish(ctx, status_extract_error)
		return false
	}

	p.recordGauges(ctx, record)

	err = p.sink.Publish(ctx, statesOf(p.domain, record))
	if err != nil {
		p.tel.ReportBroken(report_platform_publish, err)
		p.finish(ctx, status_publish_error)
		return false
	}

	p.tel.ReportDebug("updated credit", record.VoiceSeconds, record.Sms, record.Mms, record.DataGB)
	p.finish(ctx, status_ok)
	return true
}

// Start polls once and then schedules a poll every interval until `ctx` is
// cancelled or Stop is called. Polls never overlap, a poll that is due while
// the previous one is running is skipped.
func (p *Poller) Start(ctx context.Context) error {
	p.mutex.Lock()
	if p.started {
		p.mutex.Unlock()
		return fmt.Errorf("poller: already started")
	}
	p.started = true
	p.mutex.Unlock()

	p.Update(ctx)

	entry, err := p.cron.Cron(chrono.Every(p.interval), func() {
		if ctx.Err() != nil {
			return
		}
		p.Update(ctx)
	})
	if err != nil {
		return fmt.Errorf("poller: schedule: %w", err)
	}

	p.mutex.Lock()
	p.entry = entry
	p.mutex.Unlock()

	go func() {
		defer close(p.watching)
		select {
		case <-ctx.Done():
			p.cron.Remove(entry)
		case <-p.done:
		}
	}()
	return nil
}

// Stop cancels the schedule, the returned context is done once a running poll
// has returned.
func (p *Poller) Stop() context.Context {
	p.stopOnce.Do(func() {
		close(p.done)
	})

	p.mutex.Lock()
	entry := p.entry
	p.mutex.Unlock()

	p.cron.Remove(entry)
	return p.cron.Stop()
}

package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"iliad-account/lib/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

// ConfigFile is the name of the telemetry config, it is searched for from the
// working directory up to the filesystem root.
const ConfigFile = "telemetry.json5"

var (
	providersLock  sync.Mutex
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
)

// SetupFromEnv searches up the filesystem from the cwd to find a file called
// telemetry.json5, once found it will then use it as a config to setup
// telemetry. If there is no such file the global no-op providers are left in
// place.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	config, err := configutil.ReadRecursively[Config](ConfigFile)
	if errors.Is(err, os.ErrNotExist) {
		slog.DebugContext(ctx, "no telemetry config found, exporting nothing", "file", ConfigFile)
		return nil
	}
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, config)
}

// Setup creates the trace and metric providers described by `config` and
// installs them globally. Signals without an endpoint are not exported.
func Setup(ctx context.Context, serviceName string, config Config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return err
	}

	providersLock.Lock()
	defer providersLock.Unlock()

	if config.Otlp.Traces.configured() {
		tp, err := newTraceProvider(ctx, r, config.Otlp)
		if err != nil {
			return err
		}
		otel.SetTracerProvider(tp)
		tracerProvider = tp
	}

	if config.Otlp.Metrics.configured() {
		mp, err := newMetricProvider(ctx, r, config.Otlp)
		if err != nil {
			return err
		}
		otel.SetMeterProvider(mp)
		meterProvider = mp
	}

	return nil
}

// Shutdown flushes and stops the providers created by Setup.
func Shutdown(ctx context.Context) error {
	providersLock.Lock()
	defer providersLock.Unlock()

	var errs []error
	if tracerProvider != nil {
		errs = append(errs, tracerProvider.Shutdown(ctx))
		tracerProvider = nil
	}
	if meterProvider != nil {
		errs = append(errs, meterProvider.Shutdown(ctx))
		meterProvider = nil
	}
	return errors.Join(errs...)
}

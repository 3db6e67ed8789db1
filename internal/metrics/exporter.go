package metrics

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"m3run/internal/experiment"
	"m3run/internal/runner"
)

const (
	serviceName    = "m3run"
	serviceVersion = "0.1.0"
)

// Exporter is a run observer that can be flushed on shutdown.
type Exporter interface {
	runner.RunObserver
	Close(ctx context.Context) error
}

// Recorder records experiment metrics on an OpenTelemetry meter provider.
type Recorder struct {
	provider        *sdkmetric.MeterProvider
	experimentTotal metric.Int64Counter
	durationHist    metric.Float64Histogram
	runsTotal       metric.Int64Counter
	inFlight        metric.Int64UpDownCounter
	mode            experiment.Mode
}

// New returns an OTLP exporter when enabled, otherwise a no-op.
func New(ctx context.Context, cfg Config) (Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NewNoOpExporter(), nil
	}
	return NewExporter(ctx, cfg)
}

// NewExporter creates a recorder that pushes to an OTLP gRPC collector.
func NewExporter(ctx context.Context, cfg Config) (*Recorder, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	return newRecorder(provider)
}

// newRecorder registers instruments on provider.
func newRecorder(provider *sdkmetric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(serviceName)

	experimentTotal, err := meter.Int64Counter(
		"m3run_experiments_total",
		metric.WithDescription("Finished trainer runs by outcome"),
		metric.WithUnit("{experiment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating experiments counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"m3run_experiment_duration_seconds",
		metric.WithDescription("Trainer wall time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	runsTotal, err := meter.Int64Counter(
		"m3run_runs_total",
		metric.WithDescription("Finished batches"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter(
		"m3run_experiments_in_flight",
		metric.WithDescription("Trainer processes currently running"),
		metric.WithUnit("{experiment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating in-flight counter: %w", err)
	}

	return &Recorder{
		provider:        provider,
		experimentTotal: experimentTotal,
		durationHist:    durationHist,
		runsTotal:       runsTotal,
		inFlight:        inFlight,
	}, nil
}

// OnRunStart remembers the mode for later attributes.
func (r *Recorder) OnRunStart(_ string, mode experiment.Mode, _ []runner.PlannedExperiment) {
	r.mode = mode
}

// OnExperimentStart tracks the running trainer.
func (r *Recorder) OnExperimentStart(start runner.ExperimentStart) {
	r.inFlight.Add(context.Background(), 1, metric.WithAttributes(specAttributes(start.Experiment.Spec)...))
}

// OnExperimentEnd records the outcome and duration.
func (r *Recorder) OnExperimentEnd(_ int, result runner.RunResult) {
	ctx := context.Background()
	attrs := specAttributes(result.Spec())
	r.inFlight.Add(ctx, -1, metric.WithAttributes(attrs...))

	outcomeAttrs := append(attrs,
		attribute.String("mode", string(r.mode)),
		attribute.String("outcome", outcome(result)),
	)
	opt := metric.WithAttributes(outcomeAttrs...)
	r.experimentTotal.Add(ctx, 1, opt)
	r.durationHist.Record(ctx, result.DurationSeconds, opt)
}

// OnExperimentAborted releases the in-flight slot of a cancelled trainer.
func (r *Recorder) OnExperimentAborted(_ int, planned runner.PlannedExperiment) {
	r.inFlight.Add(context.Background(), -1, metric.WithAttributes(specAttributes(planned.Spec)...))
}

// OnRunEnd counts the finished batch.
func (r *Recorder) OnRunEnd(summary runner.Summary) {
	r.runsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("mode", string(summary.Mode)),
		attribute.Bool("interrupted", summary.Interrupted),
	))
}

// Close shuts down the exporter and flushes any pending metrics.
func (r *Recorder) Close(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

func specAttributes(spec experiment.Spec) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("model", spec.Model),
		attribute.String("dataset", string(spec.Dataset)),
		attribute.String("domain_num", strconv.Itoa(spec.DomainNum)),
	}
}

// outcome buckets a result for the outcome attribute.
func outcome(result runner.RunResult) string {
	switch {
	case result.Success:
		return "success"
	case result.TimedOut:
		return "timeout"
	case result.Error != "":
		return "error"
	default:
		return "failure"
	}
}

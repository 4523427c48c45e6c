package telemetry_test

import (
	"context"
	"testing"

	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())

	gotCfg := tp.GetConfig()
	assert.Equal(t, cfg.ServiceName, gotCfg.ServiceName)
	assert.False(t, gotCfg.Enabled)

	// Shutdown is a no-op for the disabled provider
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	ratios := []struct {
		name          string
		samplingRatio float64
	}{
		{"always_sample", 1.0},
		{"never_sample", 0.0},
		{"ratio_sample", 0.5},
	}

	for _, tt := range ratios {
		t.Run(tt.name, func(t *testing.T) {
			cfg := telemetry.Config{
				Enabled:           false, // keep disabled for unit tests
				CollectorEndpoint: "localhost:14317",
				SamplingRatio:     tt.samplingRatio,
				ServiceName:       "test-service",
			}

			tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
			require.NoError(t, err)
			assert.False(t, tp.IsEnabled())
			assert.NoError(t, tp.Shutdown(ctx))
		})
	}
}

func TestTracerProvider_Tracer(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)

	// Disabled provider still hands out a usable no-op tracer
	tracer := tp.Tracer("test-tracer")
	require.NotNil(t, tracer)

	_, span := tracer.Start(ctx, "test-span")
	span.End()
}

func TestTracerProvider_ForceFlush_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)

	assert.NoError(t, tp.ForceFlush(ctx))
}

func TestTracerProvider_ShutdownWithCancelledContext(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg, logger)
	require.NoError(t, err)

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancel()

	// Disabled provider shuts down cleanly even with a dead context
	assert.NoError(t, tp.Shutdown(cancelledCtx))
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.LogsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "test-service",
	}

	lp, err := telemetry.NewLoggerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, lp)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestNewZapOTELCore_DisabledReturnsNopCore(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{Enabled: false}, logger)
	require.NoError(t, err)

	core := telemetry.NewZapOTELCore("test-service", lp, zapcore.InfoLevel)
	require.NotNil(t, core)

	// The no-op core never accepts entries
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

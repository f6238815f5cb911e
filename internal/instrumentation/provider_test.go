package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	require.NotNil(t, provider.Metrics())

	// No-op recorder must accept calls without panicking.
	ctx := context.Background()
	provider.Metrics().RecordHTTPRequest(ctx, "GET", "/events", 200, time.Millisecond)
	provider.Metrics().RecordCalendarOperation(ctx, "list", "success", time.Millisecond)
	provider.Metrics().RecordOAuthExchange(ctx, "success")
	provider.Metrics().RecordOAuthTokenRefresh(ctx, "failure")

	assert.NoError(t, provider.Shutdown(ctx))
}

func TestNewProviderEnabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		Enabled:         true,
		ServiceName:     "calgate-test",
		ServiceVersion:  "test",
		TracingExporter: ExporterNone,
	})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	assert.True(t, provider.Enabled())
	require.NotNil(t, provider.Metrics())

	provider.Metrics().RecordHTTPRequest(ctx, "POST", "/events", 201, 5*time.Millisecond)
	provider.Metrics().RecordCalendarOperation(ctx, "create", "success", 5*time.Millisecond)
}

func TestNewProviderOTLPRequiresEndpoint(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:         true,
		ServiceName:     "calgate-test",
		TracingExporter: ExporterOTLP,
	})
	assert.ErrorContains(t, err, "OTLP endpoint is required")
}

func TestProviderNilSafety(t *testing.T) {
	var provider *Provider

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracer_WithoutExporter(t *testing.T) {
	shutdown, err := InitTracer(Options{ServiceName: "warehouse-test"})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, shutdown(context.Background()))
	}()

	ctx, span := StartSpan(context.Background(), "ledger", "RecordTransaction")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}

func TestStartSpan_ChildSharesTraceID(t *testing.T) {
	shutdown, err := InitTracer(Options{ServiceName: "warehouse-test", SampleRatio: 1})
	require.NoError(t, err)
	defer shutdown(context.Background())

	ctx, root := StartSpan(context.Background(), "http", "POST /api/v1/transactions")
	defer root.End()
	root.SetAttributes(attribute.String("item.ssid", "SS1700000000ABCD"))

	childCtx, child := StartSpan(ctx, "ledger", "apply")
	defer child.End()

	assert.Equal(t, ExtractTraceID(ctx), ExtractTraceID(childCtx))
	assert.NotEqual(t, ExtractSpanID(ctx), ExtractSpanID(childCtx))
}

func TestExtractTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}

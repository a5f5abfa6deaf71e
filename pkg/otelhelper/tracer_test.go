package otelhelper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/codes"
)

func TestStartSpanAndSetError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, "subworkflow.propagate",
		attribute.String(SubWorkflowIDKey, "sw-1"))
	SetError(span, errors.New("boom"), attribute.String(TabIDKey, "t1"))
	span.End()

	spans := recorder.Ended()
	if assert.Len(t, spans, 1) {
		assert.Equal(t, "subworkflow.propagate", spans[0].Name())
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Contains(t, spans[0].Attributes(), attribute.String(SubWorkflowIDKey, "sw-1"))
	}
}

func TestNoopTracer(t *testing.T) {
	_, span := StartSpan(context.Background(), NoopTracer(), "noop")
	defer span.End()

	assert.False(t, span.IsRecording())
}

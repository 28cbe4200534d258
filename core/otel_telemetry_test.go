package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOTelTelemetry_StartSpanAndRecordMetric(t *testing.T) {
	telemetry, err := NewOTelTelemetry("cosmiq-graphql-test")
	require.NoError(t, err)

	ctx, span := telemetry.StartSpan(context.Background(), "sampling.top")
	require.NotNil(t, ctx)
	span.SetAttribute("container", "widgets")
	span.RecordError(errors.New("boom"))
	span.End()

	telemetry.RecordMetric("sampling.documents", 50, map[string]string{"container": "widgets"})
}

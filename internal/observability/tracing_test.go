package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lms-engagement-client/internal/logger"
)

func TestInitTracingDisabledIsNoop(t *testing.T) {
	shutdown := InitTracing(context.Background(), logger.NewNop(), TracingConfig{Enabled: false})
	assert.NoError(t, shutdown(context.Background()))
}

func TestBuildTraceExporterDefaultsToStdout(t *testing.T) {
	exp, err := buildTraceExporter(context.Background(), "")
	assert.NoError(t, err)
	assert.NotNil(t, exp)
	assert.NoError(t, exp.Shutdown(context.Background()))
}

package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel_MapsKnownNames(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warn"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zerolog.FatalLevel, parseLogLevel("fatal"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("nonsense"))
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	base := NewLogger("info", "json")
	derived := base.WithField("document_id", "doc-1")

	assert.NotSame(t, base, derived)
}

func TestLogger_WithContextAttachesRequestID(t *testing.T) {
	base := NewLogger("info", "json")
	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-123")

	derived := base.WithContext(ctx)

	assert.NotSame(t, base, derived)
}

func TestLogger_WithContextWithoutRequestIDReturnsSameLogger(t *testing.T) {
	base := NewLogger("info", "json")

	derived := base.WithContext(context.Background())

	assert.Same(t, base, derived)
}

func TestRequestLogger_BuildsWithoutPanicking(t *testing.T) {
	l := RequestLogger("req-1", "GET", "/v1/documents")
	assert.NotNil(t, l)
}

func TestPipelineLogger_BuildsWithoutPanicking(t *testing.T) {
	l := PipelineLogger("doc-1")
	assert.NotNil(t, l)
}

func TestWorkerLogger_BuildsWithoutPanicking(t *testing.T) {
	l := WorkerLogger(2, "job-1")
	assert.NotNil(t, l)
}

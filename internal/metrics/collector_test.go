package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	return NewCollectorWith("test", prometheus.NewRegistry(), zap.NewNop())
}

func TestRecordHTTPRequest(t *testing.T) {
	c := newTestCollector(t)

	c.RecordHTTPRequest("POST", "/v1/ui/generate", 200, 120*time.Millisecond)
	c.RecordHTTPRequest("POST", "/v1/ui/generate", 200, 80*time.Millisecond)
	c.RecordHTTPRequest("POST", "/v1/ui/generate", 422, 10*time.Millisecond)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("POST", "/v1/ui/generate", "2xx")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("POST", "/v1/ui/generate", "4xx")))
}

func TestRecordGeneration(t *testing.T) {
	c := newTestCollector(t)

	c.RecordGeneration("openai", OutcomeGenerated, time.Second)
	c.RecordGeneration("openai", OutcomeFallback, 10*time.Millisecond)
	c.RecordGeneration("openai", OutcomeFallback, 12*time.Millisecond)
	c.RecordGeneration("openai", OutcomeError, 5*time.Millisecond)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(c.generationsTotal.WithLabelValues("openai", OutcomeGenerated)))
	assert.Equal(t, float64(2),
		testutil.ToFloat64(c.generationsTotal.WithLabelValues("openai", OutcomeFallback)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(c.generationsTotal.WithLabelValues("openai", OutcomeError)))
}

func TestRecordTokens(t *testing.T) {
	c := newTestCollector(t)

	c.RecordTokens("openai", "gpt-4o-mini", 100, 250)
	c.RecordTokens("openai", "gpt-4o-mini", 50, 50)

	assert.Equal(t, float64(150),
		testutil.ToFloat64(c.llmTokensUsed.WithLabelValues("openai", "gpt-4o-mini", "prompt")))
	assert.Equal(t, float64(300),
		testutil.ToFloat64(c.llmTokensUsed.WithLabelValues("openai", "gpt-4o-mini", "completion")))
}

func TestRecordFallback(t *testing.T) {
	c := newTestCollector(t)

	c.RecordFallback("pricing")
	c.RecordFallback("echo")
	c.RecordFallback("echo")

	assert.Equal(t, float64(1), testutil.ToFloat64(c.fallbackRulesTotal.WithLabelValues("pricing")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.fallbackRulesTotal.WithLabelValues("echo")))
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		200: "2xx",
		201: "2xx",
		301: "3xx",
		404: "4xx",
		422: "4xx",
		500: "5xx",
		502: "5xx",
		100: "unknown",
	}
	for code, want := range tests {
		assert.Equal(t, want, statusClass(code), "status %d", code)
	}
}

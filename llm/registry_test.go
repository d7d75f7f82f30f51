package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ name string }

func (s *stubProvider) Completion(context.Context, *ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{}, nil
}

func (s *stubProvider) HealthCheck(context.Context) (*HealthStatus, error) {
	return &HealthStatus{Healthy: true}, nil
}

func (s *stubProvider) Name() string { return s.name }

func TestRegistryGet(t *testing.T) {
	reg := NewProviderRegistry()
	a := &stubProvider{name: "a"}
	reg.Register("a", a)

	got, ok := reg.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := NewProviderRegistry()
	reg.Register("a", &stubProvider{name: "old"})
	replacement := &stubProvider{name: "new"}
	reg.Register("a", replacement)

	got, ok := reg.Get("a")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestRegistryDefault(t *testing.T) {
	reg := NewProviderRegistry()

	_, err := reg.Default()
	require.Error(t, err, "no default until one is set")

	a := &stubProvider{name: "a"}
	reg.Register("a", a)
	require.Error(t, reg.SetDefault("missing"))
	require.NoError(t, reg.SetDefault("a"))

	got, err := reg.Default()
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestRegistryList(t *testing.T) {
	reg := NewProviderRegistry()
	assert.Empty(t, reg.List())

	reg.Register("zeta", &stubProvider{name: "zeta"})
	reg.Register("alpha", &stubProvider{name: "alpha"})
	reg.Register("mid", &stubProvider{name: "mid"})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.List())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewProviderRegistry()
	reg.Register("a", &stubProvider{name: "a"})
	require.NoError(t, reg.SetDefault("a"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			reg.Register("b", &stubProvider{name: "b"})
		}
	}()
	for i := 0; i < 100; i++ {
		reg.Get("a")
		reg.List()
		_, err := reg.Default()
		assert.NoError(t, err)
	}
	<-done
}

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notionbridge/pkg/config"
)

type stubFactory struct {
	client LLMClient
}

func (f *stubFactory) Create(cfg *config.Config) (LLMClient, error) {
	return f.client, nil
}

func TestNewFromConfigUnknownProvider(t *testing.T) {
	_, err := NewFromConfig(&config.Config{LLMProvider: "nonexistent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}

func TestNewFromConfigBareClientWithoutRetries(t *testing.T) {
	stub := &stubClient{name: "stub-bare"}
	RegisterProvider("stub-bare", &stubFactory{client: stub})

	client, err := NewFromConfig(&config.Config{LLMProvider: "stub-bare", MaxRetries: 1})
	require.NoError(t, err)
	assert.Same(t, stub, client)
}

func TestNewFromConfigWrapsInFallbackWhenRetrying(t *testing.T) {
	RegisterProvider("stub-retry", &stubFactory{client: &stubClient{name: "stub-retry"}})

	client, err := NewFromConfig(&config.Config{
		LLMProvider:  "stub-retry",
		MaxRetries:   3,
		RetryDelayMs: 100,
	})
	require.NoError(t, err)

	fb, ok := client.(*FallbackClient)
	require.True(t, ok)
	assert.Equal(t, 3, fb.MaxRetries)
	assert.Len(t, fb.Clients, 1)
}

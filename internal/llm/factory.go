package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/qgen/internal/store"
)

type factoryOptions struct {
	mock *MockProvider
}

// FactoryOption customizes NewProvider.
type FactoryOption func(*factoryOptions)

// WithMock supplies the MockProvider used when cfg.Provider is "mock".
func WithMock(m *MockProvider) FactoryOption {
	return func(o *factoryOptions) { o.mock = m }
}

// NewProvider creates a Provider from configuration. The API key travels in
// cfg; nothing is read from or written to the environment here.
//
// The returned provider is wrapped: caller → timeout → retry → logging → base.
// eventRepo may be nil, in which case calls are only logged, not recorded.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, opts ...FactoryOption) (Provider, error) {
	var o factoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		if o.mock != nil {
			base = o.mock
		} else {
			base = NewMockProvider()
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}

package mailer

import (
	"context"
	"fmt"
	"log/slog"
)

// ProviderName identifies one of the sealed set of adapters.
type ProviderName string

const (
	ProviderBrevo    ProviderName = "brevo"
	ProviderGmail    ProviderName = "gmail"
	ProviderSES      ProviderName = "ses"
	ProviderPostmark ProviderName = "postmark"
)

// AllProviders returns every adapter name in the sealed set.
func AllProviders() []ProviderName {
	return []ProviderName{ProviderBrevo, ProviderGmail, ProviderSES, ProviderPostmark}
}

// Descriptor describes a provider selection without exposing the adapter.
type Descriptor struct {
	Name                 ProviderName `json:"name"`
	From                 string       `json:"from"`
	SupportsAccountCheck bool         `json:"supports_account_check"`
}

// Factory selects the active provider from configuration at construction
// time. The selection is immutable for the factory's lifetime; there is no
// hot-swap mid-request.
type Factory struct {
	cfg    Config
	log    *slog.Logger
	active Provider
}

// NewFactory instantiates the configured provider. An unknown provider name
// is a fatal configuration error, not a silent fallback.
func NewFactory(ctx context.Context, cfg Config, log *slog.Logger) (*Factory, error) {
	active, err := newProvider(ctx, ProviderName(cfg.Provider), cfg, log)
	if err != nil {
		return nil, err
	}
	return &Factory{cfg: cfg, log: log, active: active}, nil
}

func newProvider(ctx context.Context, name ProviderName, cfg Config, log *slog.Logger) (Provider, error) {
	switch name {
	case ProviderBrevo:
		return newBrevo(cfg, log)
	case ProviderGmail:
		return newGmail(cfg, log)
	case ProviderSES:
		return newSES(ctx, cfg, log)
	case ProviderPostmark:
		return newPostmark(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// Active returns the selected adapter.
func (f *Factory) Active() Provider {
	return f.active
}

// Current returns a descriptor for the active provider. Pure lookup, no I/O.
func (f *Factory) Current() Descriptor {
	name := ProviderName(f.active.Name())
	return Descriptor{
		Name:                 name,
		From:                 f.cfg.FromEmail,
		SupportsAccountCheck: supportsAccountCheck(name),
	}
}

// supportsAccountCheck reports whether the provider exposes a real account
// endpoint; Postmark's probe is simulated through a throwaway send.
func supportsAccountCheck(name ProviderName) bool {
	return name != ProviderPostmark
}

// TestAll constructs every adapter, including non-active ones, and probes
// each independently. A construction or probe failure for one adapter never
// aborts probing the rest. Diagnostic tooling only; the hot send path never
// calls this.
func (f *Factory) TestAll(ctx context.Context) map[ProviderName]ConnectivityResult {
	results := make(map[ProviderName]ConnectivityResult, len(AllProviders()))
	for _, name := range AllProviders() {
		p, err := newProvider(ctx, name, f.cfg, f.log)
		if err != nil {
			results[name] = ConnectivityResult{
				Provider: string(name),
				Detail:   "construction failed: " + err.Error(),
			}
			continue
		}
		results[name] = p.TestConnection(ctx)
	}
	return results
}

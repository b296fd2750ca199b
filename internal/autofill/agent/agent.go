package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the agent's position in its fill lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateWaitingForFields State = "waiting-for-fields"
	StateFilling          State = "filling"
	StateSettled          State = "settled"
)

// Config bounds the agent's waits and retries.
type Config struct {
	// ReadyFallback caps the wait for initial page readiness. Slow
	// frameworks get this long before the agent proceeds anyway.
	ReadyFallback time.Duration

	// FieldTimeout caps the wait for login fields that appear after the
	// initial render.
	FieldTimeout time.Duration

	// PollInterval is how often the page is re-queried while waiting.
	PollInterval time.Duration

	// FillRetries is how many times a fill is re-attempted when a framework
	// re-render raced the write.
	FillRetries int

	// FillRetryInterval is the delay between fill attempts.
	FillRetryInterval time.Duration
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		ReadyFallback:     500 * time.Millisecond,
		FieldTimeout:      2000 * time.Millisecond,
		PollInterval:      100 * time.Millisecond,
		FillRetries:       5,
		FillRetryInterval: 200 * time.Millisecond,
	}
}

// Agent drives the fill lifecycle for one browser tab. Every navigation
// starts a fresh run under its own cancellable context; starting a run
// cancels the previous one, so a stale retry loop cannot touch the page
// after the user navigated away. The agent never submits a form: final
// submission is always the user's action.
//
// Fill failures are logged and swallowed. Failing to autofill must never
// block normal page use.
type Agent struct {
	source    CredentialSource
	selectors SelectorConfig
	config    Config
	logger    *slog.Logger

	mu     sync.Mutex
	state  State
	epoch  uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAgent creates a new agent in the idle state.
func NewAgent(source CredentialSource, selectors SelectorConfig, config Config, logger *slog.Logger) *Agent {
	return &Agent{
		source:    source,
		selectors: selectors,
		config:    config,
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the agent's current state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// OnNavigation starts a run for a freshly navigated page. Any in-flight run
// is cancelled first; full navigations and detected SPA navigations both
// come through here.
func (a *Agent) OnNavigation(ctx context.Context, page Page) {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.epoch++
	a.state = StateIdle
	done := make(chan struct{})
	a.done = done
	epoch := a.epoch
	a.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		a.run(runCtx, epoch, page)
	}()
}

// Stop cancels any in-flight run and waits for it to finish.
func (a *Agent) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	done := a.done
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the current run settles. Intended for tests and
// shutdown paths.
func (a *Agent) Wait() {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (a *Agent) run(ctx context.Context, epoch uint64, page Page) {
	host := page.Host()
	logger := a.logger.With("host", host, "epoch", epoch)

	a.waitReady(ctx, page)
	if ctx.Err() != nil {
		return
	}

	username, secret, ok, err := a.source.Resolve(ctx, host)
	if err != nil {
		logger.Debug("credential resolution failed", "error", err)
		a.setState(epoch, StateSettled)
		return
	}
	if !ok || username == "" {
		// Nothing to fill; stay idle until the next navigation.
		return
	}

	a.setState(epoch, StateWaitingForFields)
	selectors := a.selectors.ForHost(host)

	usernameField := a.waitForField(ctx, page, selectors.Username)
	if usernameField == nil {
		logger.Debug("no username field found")
		a.setState(epoch, StateSettled)
		return
	}
	// The password field is optional: pages split across steps get the
	// username only.
	passwordField := findField(page, selectors.Password)

	a.setState(epoch, StateFilling)
	a.fill(ctx, logger, usernameField, username)
	if passwordField != nil && secret != "" {
		a.fill(ctx, logger, passwordField, secret)
	}

	a.setState(epoch, StateSettled)
}

// waitReady waits for the page's initial render, giving up after the
// configured fallback so slow frameworks do not stall the run forever.
func (a *Agent) waitReady(ctx context.Context, page Page) {
	deadline := time.NewTimer(a.config.ReadyFallback)
	defer deadline.Stop()
	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	for !page.Ready() {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case <-ticker.C:
		}
	}
}

// waitForField polls for a field until one appears or the bounded wait
// expires. Late-rendered login forms are the common case on SPA sites.
func (a *Agent) waitForField(ctx context.Context, page Page, selectors []string) Field {
	deadline := time.NewTimer(a.config.FieldTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	for {
		if field := findField(page, selectors); field != nil {
			return field
		}
		select {
		case <-ctx.Done():
			return nil
		case <-deadline.C:
			return nil
		case <-ticker.C:
		}
	}
}

// fill writes a value and verifies it persisted, retrying when a framework
// re-render raced the write. Failures are logged and swallowed.
func (a *Agent) fill(ctx context.Context, logger *slog.Logger, field Field, value string) {
	for attempt := 0; attempt <= a.config.FillRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(a.config.FillRetryInterval):
			}
		}

		if err := field.SetValue(value); err != nil {
			logger.Debug("field write failed", "attempt", attempt, "error", err)
			continue
		}
		current, err := field.Value()
		if err == nil && current == value {
			return
		}
	}
	logger.Debug("fill did not persist", "attempts", a.config.FillRetries+1)
}

// setState records a state transition unless a newer navigation has already
// superseded this run.
func (a *Agent) setState(epoch uint64, state State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.epoch == epoch {
		a.state = state
	}
}

func findField(page Page, selectors []string) Field {
	for _, selector := range selectors {
		if field := page.Find(selector); field != nil {
			return field
		}
	}
	return nil
}

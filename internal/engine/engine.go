package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"LeadPulse/internal/catalog"
	"LeadPulse/internal/ingest"
	"LeadPulse/internal/leads"
	"LeadPulse/internal/mailer"
	"LeadPulse/internal/metrics"
	"LeadPulse/internal/models"
)

var (
	ErrAlreadyRunning     = errors.New("a campaign is already running")
	ErrNoLeads            = errors.New("no leads loaded")
	ErrMissingCredentials = errors.New("credentials are incomplete")
)

// Phase is the campaign machine state. Exactly one campaign runs at a time;
// a new Start from Stopped restarts the whole machine.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseValidating     Phase = "validating"
	PhaseSendingInitial Phase = "sending_initial"
	PhasePolling        Phase = "polling"
	PhaseStopped        Phase = "stopped"
)

// Config bounds the campaign schedule. Zero values fall back to the
// defaults the original product shipped with.
type Config struct {
	PollInterval     time.Duration
	FollowupInterval time.Duration
	AutoReplyLimit   int
	FollowupLimit    int
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.FollowupInterval <= 0 {
		c.FollowupInterval = 5 * time.Minute
	}
	if c.AutoReplyLimit <= 0 {
		c.AutoReplyLimit = 4
	}
	if c.FollowupLimit <= 0 {
		c.FollowupLimit = 4
	}
	return c
}

// leadState tracks one lead's campaign progress. An entry exists if and only
// if that lead's initial send succeeded; counts never decrease.
type leadState struct {
	initialSentAt  time.Time
	autoReplyCount int
	followupCount  int
	lastFollowupAt time.Time
}

// Engine owns the per-lead campaign state and the poll loop. All shared
// state is guarded by mu; the worker goroutine and the control surface
// (Start, Stop, LoadLeads, Status) never touch it unguarded.
type Engine struct {
	cfg       Config
	catalog   *catalog.Catalog
	registry  *leads.Registry
	transport mailer.Transport
	ingestor  *ingest.Ingestor
	limiter   *rate.Limiter
	log       *zap.Logger
	clock     func() time.Time

	mu      sync.Mutex
	phase   Phase
	running bool
	states  map[string]*leadState
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(
	cfg Config,
	cat *catalog.Catalog,
	registry *leads.Registry,
	transport mailer.Transport,
	ingestor *ingest.Ingestor,
	limiter *rate.Limiter,
	logger *zap.Logger,
) *Engine {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &Engine{
		cfg:       cfg.withDefaults(),
		catalog:   cat,
		registry:  registry,
		transport: transport,
		ingestor:  ingestor,
		limiter:   limiter,
		log:       logger,
		clock:     time.Now,
		phase:     PhaseIdle,
		states:    make(map[string]*leadState),
	}
}

// LoadLeads replaces the active lead list. Rejected while a campaign is
// running.
func (e *Engine) LoadLeads(ls []models.Lead) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}
	e.registry.Replace(ls)
	return nil
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Status is a read-only snapshot for the control surface.
type Status struct {
	Phase   Phase `json:"phase"`
	Running bool  `json:"running"`
	Leads   int   `json:"leads"`
	Tracked int   `json:"tracked"`
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Status{
		Phase:   e.phase,
		Running: e.running,
		Leads:   e.registry.Count(),
		Tracked: len(e.states),
	}
}

// Start validates input and credentials, sends the initial message to every
// lead, and launches the poll loop on its own goroutine. It returns once the
// initial sends are done; the loop runs until Stop. A second Start while a
// campaign is running (or validating) is rejected.
func (e *Engine) Start(ctx context.Context, creds mailer.Credentials, sink Sink) error {
	if sink == nil {
		sink = &ZapSink{Log: e.log}
	}

	e.mu.Lock()
	if e.phase != PhaseIdle && e.phase != PhaseStopped {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	if e.registry.Count() == 0 {
		e.mu.Unlock()
		sink.Emit(SeverityError, "Cannot start: no leads loaded.")
		return ErrNoLeads
	}
	if !creds.Complete() {
		e.mu.Unlock()
		sink.Emit(SeverityError, "Cannot start: email and password are required.")
		return ErrMissingCredentials
	}
	// Claiming the validating phase under the lock is what makes double
	// Start race-free: the second caller sees a non-idle phase.
	e.phase = PhaseValidating
	e.mu.Unlock()

	if err := e.transport.ValidateCredentials(ctx, creds); err != nil {
		e.mu.Lock()
		e.phase = PhaseIdle
		e.mu.Unlock()
		sink.Emit(SeverityError, fmt.Sprintf("Login failed: %v. Please try again with correct credentials.", err))
		return fmt.Errorf("credential validation: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	e.mu.Lock()
	e.running = true
	e.phase = PhaseSendingInitial
	e.states = make(map[string]*leadState)
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	sink.Emit(SeverityInfo, "Campaign started.")

	e.sendInitials(runCtx, creds, sink)

	e.mu.Lock()
	e.phase = PhasePolling
	e.mu.Unlock()

	go e.run(runCtx, creds, sink, done)
	return nil
}

// Stop requests a cooperative shutdown. The worker observes it within one
// poll interval; an in-flight send is never interrupted.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the campaign worker has exited. Returns immediately if
// no worker was started.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (e *Engine) sendInitials(ctx context.Context, creds mailer.Credentials, sink Sink) {
	for _, lead := range e.registry.All() {
		// Stopped mid-pass: the remaining leads are left without state
		// rather than logged as send failures one by one.
		if ctx.Err() != nil {
			break
		}

		body := e.catalog.Render(catalog.GroupInitial, 0, lead.Name)

		if err := e.send(ctx, creds, lead.Email, e.catalog.Subject(), body); err != nil {
			metrics.SendFailures.Inc()
			sink.Emit(SeverityError, fmt.Sprintf("Failed to send initial email to %s: %v", lead.Email, err))
			continue
		}

		now := e.clock()
		e.mu.Lock()
		e.states[lead.Email] = &leadState{
			initialSentAt:  now,
			lastFollowupAt: now,
		}
		e.mu.Unlock()

		metrics.InitialsSent.Inc()
		sink.Emit(SeveritySuccess, fmt.Sprintf("Sent initial email to %s", lead.Email))
	}
}

func (e *Engine) run(ctx context.Context, creds mailer.Credentials, sink Sink, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	// Poll first, sleep after: a reply that arrived during the initial-send
	// pass is answered on the first cycle, not one tick later.
	for {
		if !e.Running() {
			break
		}

		e.cycle(ctx, creds, sink, e.clock())

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}

		if !e.Running() {
			break
		}
	}

	e.mu.Lock()
	e.running = false
	e.phase = PhaseStopped
	e.mu.Unlock()

	sink.Emit(SeverityInfo, "Campaign stopped.")
}

// cycle is one tick of the poll loop: fetch fresh replies, answer them, then
// send due follow-ups to everyone who did not reply this cycle.
func (e *Engine) cycle(ctx context.Context, creds mailer.Credentials, sink Sink, now time.Time) {
	fresh := e.ingestor.PollUnseen(ctx, creds)
	e.autoReplyPass(ctx, creds, sink, fresh)
	e.followupPass(ctx, creds, sink, fresh, now)
}

func (e *Engine) autoReplyPass(ctx context.Context, creds mailer.Credentials, sink Sink, fresh map[string]struct{}) {
	for _, addr := range sortedKeys(fresh) {
		e.mu.Lock()
		st, ok := e.states[addr]
		var count int
		if ok {
			count = st.autoReplyCount
		}
		e.mu.Unlock()

		// No state means the initial send never succeeded; such a lead
		// never receives auto-replies.
		if !ok || count >= e.cfg.AutoReplyLimit {
			continue
		}

		body := e.catalog.Render(catalog.GroupAutoReply, count, e.registry.Lookup(addr))
		subject := "Re: " + e.catalog.Subject()

		if err := e.send(ctx, creds, addr, subject, body); err != nil {
			metrics.SendFailures.Inc()
			sink.Emit(SeverityError, fmt.Sprintf("Failed to auto-reply to %s: %v", addr, err))
			continue
		}

		e.mu.Lock()
		st.autoReplyCount = count + 1
		e.mu.Unlock()

		metrics.AutoRepliesSent.Inc()
		sink.Emit(SeveritySuccess, fmt.Sprintf("Auto-replied #%d to %s", count+1, addr))
	}
}

// followupPass skips leads that replied this cycle, and only this cycle: a
// lead that replied in an earlier cycle is eligible again.
func (e *Engine) followupPass(ctx context.Context, creds mailer.Credentials, sink Sink, fresh map[string]struct{}, now time.Time) {
	for _, lead := range e.registry.All() {
		if _, replied := fresh[lead.Email]; replied {
			continue
		}

		e.mu.Lock()
		st, ok := e.states[lead.Email]
		var count int
		var last time.Time
		if ok {
			count = st.followupCount
			last = st.lastFollowupAt
		}
		e.mu.Unlock()

		if !ok || count >= e.cfg.FollowupLimit || now.Sub(last) < e.cfg.FollowupInterval {
			continue
		}

		body := e.catalog.Render(catalog.GroupFollowUp, count, lead.Name)
		subject := "Follow-up: " + e.catalog.Subject()

		if err := e.send(ctx, creds, lead.Email, subject, body); err != nil {
			// lastFollowupAt is not advanced, so the interval condition
			// re-triggers next cycle.
			metrics.SendFailures.Inc()
			sink.Emit(SeverityError, fmt.Sprintf("Failed to send follow-up to %s: %v", lead.Email, err))
			continue
		}

		e.mu.Lock()
		st.lastFollowupAt = now
		st.followupCount = count + 1
		e.mu.Unlock()

		metrics.FollowupsSent.Inc()
		sink.Emit(SeveritySuccess, fmt.Sprintf("Sent follow-up #%d to %s", count+1, lead.Email))
	}
}

func (e *Engine) send(ctx context.Context, creds mailer.Credentials, to, subject, body string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.transport.SendMessage(ctx, creds, to, subject, body)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package app holds the per-client state machine: landing, quiz and result
// screens, the linked profile and the completed stats.
package app

import (
	"context"
	"sync"
	"time"

	"ethmumbai-maxi/internal/card"
	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/handle"
	"ethmumbai-maxi/internal/metrics"
	"ethmumbai-maxi/internal/quiz"
	"go.uber.org/zap"
)

// Deps are the collaborators shared by every App.
type Deps struct {
	Store    SnapshotStore
	Lookup   ProfileLookup
	Synth    Synthesizer
	Exporter CardExporter
	Policy   Policy
	Log      *zap.Logger
	// Clock drives the score reveal; nil uses time.Now.
	Clock func() time.Time
}

// App is the only owner of a client's screen, stats and profile. Methods are
// safe for concurrent use; long-running work happens outside the lock and
// its results are dropped when the session moved on meanwhile.
type App struct {
	clientID string
	bank     domain.Bank
	bg       context.Context
	store    SnapshotStore
	lookup   ProfileLookup
	synth    Synthesizer
	exporter CardExporter
	policy   Policy
	log      *zap.Logger
	clock    func() time.Time

	mu         sync.Mutex
	screen     domain.Screen
	stats      domain.UserStats
	profile    *domain.SocialProfile
	engine     *quiz.Engine
	view       *card.View
	submitting bool
	loading    bool
	processing bool
	// epoch changes on Start and Reset; async results from an older epoch are discarded.
	epoch       uint64
	alert       string
	handleErr   string
	subscribers map[chan Snapshot]struct{}

	inflight sync.WaitGroup
	// onIdle is called, without the lock held, whenever pending work ends.
	onIdle func()
}

// New builds an App for clientID over bank and restores any persisted state.
// bg bounds background work such as synthesis.
func New(bg context.Context, clientID string, bank domain.Bank, deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	a := &App{
		clientID:    clientID,
		bank:        bank,
		bg:          bg,
		store:       deps.Store,
		lookup:      deps.Lookup,
		synth:       deps.Synth,
		exporter:    deps.Exporter,
		policy:      deps.Policy,
		log:         log.With(zap.String("client", clientID)),
		clock:       clock,
		screen:      domain.ScreenLanding,
		stats:       domain.EmptyStats(len(bank.Questions)),
		subscribers: make(map[chan Snapshot]struct{}),
	}
	a.restore()
	return a
}

// ClientID returns the id this App serves.
func (a *App) ClientID() string { return a.clientID }

// Snapshot returns the current projection.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// SubmitHandle validates raw and links the resolved profile. Validation
// happens before any network call; the lookup itself runs without the lock.
func (a *App) SubmitHandle(ctx context.Context, raw string) error {
	a.mu.Lock()
	if a.screen != domain.ScreenLanding {
		a.mu.Unlock()
		return domain.ErrWrongScreen
	}
	if a.profile != nil {
		a.mu.Unlock()
		return domain.ErrProfileLinked
	}
	if a.submitting {
		a.mu.Unlock()
		return domain.ErrBusy
	}
	if !handle.Validate(raw) {
		a.handleErr = domain.ErrInvalidHandle.Error()
		a.broadcastLocked()
		a.mu.Unlock()
		return domain.ErrInvalidHandle
	}
	a.submitting = true
	a.handleErr = ""
	a.broadcastLocked()
	a.mu.Unlock()

	p, ok := a.lookup.Lookup(ctx, raw)

	defer a.settle()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitting = false
	if !ok {
		a.handleErr = domain.ErrInvalidHandle.Error()
		a.broadcastLocked()
		return domain.ErrInvalidHandle
	}
	if a.profile == nil {
		a.profile = &p
	}
	a.persistLocked()
	a.broadcastLocked()
	return nil
}

// Start moves Landing to Quiz with a fresh engine.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != domain.ScreenLanding {
		return domain.ErrWrongScreen
	}
	if a.submitting {
		return domain.ErrBusy
	}
	if a.policy.RequireProfile && a.profile == nil {
		return domain.ErrProfileRequired
	}
	a.epoch++
	a.loading = false
	a.engine = quiz.NewEngine(a.bank)
	a.screen = domain.ScreenQuiz
	a.persistLocked()
	a.broadcastLocked()
	return nil
}

// SelectOption sets the pending choice on the current question.
func (a *App) SelectOption(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != domain.ScreenQuiz || a.engine == nil {
		return domain.ErrWrongScreen
	}
	if err := a.engine.SelectOption(index); err != nil {
		return err
	}
	a.broadcastLocked()
	return nil
}

// Advance scores the pending choice. Completing the last question shows the
// Result screen in its loading state before synthesis is started.
func (a *App) Advance() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != domain.ScreenQuiz || a.engine == nil {
		return domain.ErrWrongScreen
	}
	done, finished, err := a.engine.Advance()
	if err != nil {
		return err
	}
	if !finished {
		a.broadcastLocked()
		return nil
	}

	a.screen = domain.ScreenResult
	a.loading = true
	a.view = nil
	a.persistLocked()
	a.broadcastLocked()

	epoch := a.epoch
	keywords := quiz.Keywords(a.bank, done.Answers)
	a.inflight.Add(1)
	go a.synthesize(epoch, done, keywords)
	return nil
}

func (a *App) synthesize(epoch uint64, done quiz.Completion, keywords []string) {
	defer a.settle()
	defer a.inflight.Done()
	profile := a.synth.Synthesize(a.bg, done.Score, keywords)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.epoch != epoch {
		a.log.Debug("dropping stale synthesis result", zap.Uint64("epoch", epoch))
		return
	}
	a.stats = domain.UserStats{
		Score:          done.Score,
		TotalQuestions: len(a.bank.Questions),
		Answers:        done.Answers,
		AITitle:        profile.Title,
		AIDescription:  profile.Description,
	}
	a.loading = false
	a.view = card.Build(a.stats, a.profile, card.NewReveal(done.Score, a.clock))
	metrics.QuizCompletions.WithLabelValues(a.view.Rank.String()).Inc()
	a.persistLocked()
	a.broadcastLocked()
}

// Reset clears the stats and returns to Landing. The profile stays linked
// unless the ClearProfileOnReset policy is set.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.epoch++
	a.stats = domain.EmptyStats(len(a.bank.Questions))
	a.loading = false
	a.engine = nil
	a.view = nil
	a.alert = ""
	a.screen = domain.ScreenLanding
	if a.policy.ClearProfileOnReset {
		a.profile = nil
	}
	if err := a.store.Delete(a.bg, a.key(keyStats)); err != nil {
		a.log.Warn("delete persisted stats", zap.Error(err))
	}
	a.persistLocked()
	a.broadcastLocked()
}

// GoHome switches to Landing and touches nothing else.
func (a *App) GoHome() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.screen = domain.ScreenLanding
	a.persistLocked()
	a.broadcastLocked()
}

// Download captures the card and delivers it to s as a file.
func (a *App) Download(ctx context.Context, s card.Surface) error {
	return a.export(ctx, s, a.exporter.Download)
}

// Share captures the card, delivers it through s and opens the compose intent.
func (a *App) Share(ctx context.Context, s card.Surface) error {
	return a.export(ctx, s, a.exporter.Share)
}

type exportFunc func(ctx context.Context, v *card.View, stats domain.UserStats, s card.Surface) error

func (a *App) export(ctx context.Context, s card.Surface, fn exportFunc) error {
	view, stats, err := a.beginProcessing()
	if err != nil {
		return err
	}
	defer a.endProcessing()
	return fn(ctx, view, stats, &recordingSurface{Surface: s, app: a})
}

// CaptureCard returns the current card as a PNG with its download name.
func (a *App) CaptureCard(ctx context.Context) (*card.Image, string, error) {
	view, stats, err := a.beginProcessing()
	if err != nil {
		return nil, "", err
	}
	defer a.endProcessing()
	img, err := a.exporter.Capture(ctx, view)
	if err != nil {
		return nil, "", err
	}
	return img, card.FileName(stats.AITitle), nil
}

func (a *App) beginProcessing() (*card.View, domain.UserStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != domain.ScreenResult {
		return nil, domain.UserStats{}, domain.ErrWrongScreen
	}
	if a.loading || a.processing {
		return nil, domain.UserStats{}, domain.ErrBusy
	}
	if a.view == nil {
		return nil, domain.UserStats{}, domain.ErrWrongScreen
	}
	a.processing = true
	a.alert = ""
	a.broadcastLocked()
	return a.view, a.stats.Clone(), nil
}

func (a *App) endProcessing() {
	a.mu.Lock()
	a.processing = false
	a.broadcastLocked()
	a.mu.Unlock()
	a.settle()
}

// recordingSurface keeps the last alert in the snapshot as well as showing it.
type recordingSurface struct {
	card.Surface
	app *App
}

func (r *recordingSurface) Alert(ctx context.Context, message string) {
	r.app.mu.Lock()
	r.app.alert = message
	r.app.mu.Unlock()
	r.Surface.Alert(ctx, message)
}

func (a *App) settle() {
	if a.onIdle != nil {
		a.onIdle()
	}
}

func (a *App) idle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.subscribers) == 0 && !a.submitting && !a.loading && !a.processing
}

// Wait blocks until background synthesis started by this App has finished.
func (a *App) Wait() {
	a.inflight.Wait()
}

// Subscribe returns a channel of snapshots starting with the current one.
// The caller must invoke cancel to avoid leaks.
func (a *App) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	// the buffer is empty, so this cannot block and no broadcast can overtake it
	ch <- a.snapshotLocked()
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel
}

func (a *App) broadcastLocked() {
	s := a.snapshotLocked()
	for ch := range a.subscribers {
		select {
		case ch <- s:
		default:
			// slow reader: drop its oldest snapshot so the newest always lands
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

package app

import (
	"encoding/json"
	"errors"

	"ethmumbai-maxi/internal/card"
	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/handle"
	"ethmumbai-maxi/internal/quiz"
	"go.uber.org/zap"
)

const (
	keyScreen  = "screen"
	keyStats   = "stats"
	keyProfile = "profile"
)

func (a *App) key(name string) string {
	return "maxi:" + a.clientID + ":" + name
}

// persistLocked writes the screen, the stats when they carry a result and
// the profile when one is linked. Store errors are logged, never returned.
func (a *App) persistLocked() {
	ctx := a.bg
	if err := a.store.Set(ctx, a.key(keyScreen), string(a.screen)); err != nil {
		a.log.Warn("persist screen", zap.Error(err))
	}

	if a.stats.Score > 0 || a.stats.AITitle != "" {
		if raw, err := json.Marshal(a.stats); err == nil {
			if err := a.store.Set(ctx, a.key(keyStats), string(raw)); err != nil {
				a.log.Warn("persist stats", zap.Error(err))
			}
		}
	} else if err := a.store.Delete(ctx, a.key(keyStats)); err != nil {
		a.log.Warn("delete stats", zap.Error(err))
	}

	if a.profile != nil {
		if raw, err := json.Marshal(a.profile); err == nil {
			if err := a.store.Set(ctx, a.key(keyProfile), string(raw)); err != nil {
				a.log.Warn("persist profile", zap.Error(err))
			}
		}
	} else if err := a.store.Delete(ctx, a.key(keyProfile)); err != nil {
		a.log.Warn("delete profile", zap.Error(err))
	}
}

// restore reads back persisted state. Anything absent or malformed falls
// back to the defaults: Landing, empty stats, no profile.
func (a *App) restore() {
	if raw, ok := a.load(keyStats); ok {
		var stats domain.UserStats
		if err := json.Unmarshal([]byte(raw), &stats); err != nil || !a.validStats(stats) {
			a.log.Warn("discarding persisted stats", zap.Error(err))
		} else {
			a.stats = stats
		}
	}

	if raw, ok := a.load(keyProfile); ok {
		var p domain.SocialProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil || !handle.Validate(p.Handle) {
			a.log.Warn("discarding persisted profile", zap.Error(err))
		} else {
			p.Handle = handle.Normalize(p.Handle)
			a.profile = &p
		}
	}

	if raw, ok := a.load(keyScreen); ok {
		screen, valid := domain.ParseScreen(raw)
		if !valid {
			a.log.Warn("discarding persisted screen", zap.String("screen", raw))
			screen = domain.ScreenLanding
		}
		a.screen = screen
	}

	switch a.screen {
	case domain.ScreenQuiz:
		// answers in flight are not persisted; the quiz restarts
		a.engine = quiz.NewEngine(a.bank)
	case domain.ScreenResult:
		if !a.stats.Completed() {
			a.screen = domain.ScreenLanding
			break
		}
		a.view = card.Build(a.stats, a.profile, nil)
	}
}

func (a *App) load(name string) (string, bool) {
	raw, err := a.store.Get(a.bg, a.key(name))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.log.Warn("read persisted state", zap.String("key", name), zap.Error(err))
		}
		return "", false
	}
	return raw, true
}

// validStats rejects stats that could not have come from this bank.
func (a *App) validStats(s domain.UserStats) bool {
	total := len(a.bank.Questions)
	if s.TotalQuestions != total || s.Score < 0 || s.Score > quiz.MaxScore(a.bank) || len(s.Answers) > total {
		return false
	}
	for i, ans := range s.Answers {
		if ans < 0 || ans >= len(a.bank.Questions[i].Options) {
			return false
		}
	}
	return true
}

package app

import (
	"ethmumbai-maxi/internal/domain"
)

// QuestionView is the current question without option points.
type QuestionView struct {
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// ResultView is the score-dependent part of the result screen.
type ResultView struct {
	Stats        domain.UserStats `json:"stats"`
	Rank         domain.Rank      `json:"rank"`
	RankCode     string           `json:"rankCode"`
	RankLabel    string           `json:"rankLabel"`
	Theme        string           `json:"theme"`
	DisplayScore int              `json:"displayScore"`
}

// Snapshot is a read-only projection of an App sent to subscribers.
type Snapshot struct {
	ClientID    string                `json:"clientId"`
	Screen      domain.Screen         `json:"screen"`
	Submitting  bool                  `json:"submitting"`
	Loading     bool                  `json:"loading"`
	Processing  bool                  `json:"processing"`
	CTAEnabled  bool                  `json:"ctaEnabled"`
	Question    *QuestionView         `json:"question,omitempty"`
	Selected    *int                  `json:"selected,omitempty"`
	Score       int                   `json:"score"`
	Result      *ResultView           `json:"result,omitempty"`
	Profile     *domain.SocialProfile `json:"profile,omitempty"`
	Alert       string                `json:"alert,omitempty"`
	HandleError string                `json:"handleError,omitempty"`
}

func (a *App) snapshotLocked() Snapshot {
	s := Snapshot{
		ClientID:    a.clientID,
		Screen:      a.screen,
		Submitting:  a.submitting,
		Loading:     a.loading,
		Processing:  a.processing,
		CTAEnabled:  !a.submitting && (!a.policy.RequireProfile || a.profile != nil),
		Alert:       a.alert,
		HandleError: a.handleErr,
	}
	if a.profile != nil {
		p := *a.profile
		s.Profile = &p
	}

	switch a.screen {
	case domain.ScreenQuiz:
		if a.engine == nil {
			break
		}
		progress := a.engine.Progress()
		s.Score = progress.Score
		s.Selected = progress.Selected
		if !progress.Complete {
			q := a.engine.Current()
			opts := make([]string, len(q.Options))
			for i, o := range q.Options {
				opts[i] = o.Text
			}
			s.Question = &QuestionView{Index: progress.CurrentIndex, Total: a.engine.Total(), Prompt: q.Prompt, Options: opts}
		}
	case domain.ScreenResult:
		if a.loading || a.view == nil {
			break
		}
		display := a.stats.Score
		if a.view.Reveal != nil {
			display = a.view.Reveal.Value()
		}
		s.Score = a.stats.Score
		s.Result = &ResultView{
			Stats:        a.stats.Clone(),
			Rank:         a.view.Rank,
			RankCode:     a.view.Rank.Code(),
			RankLabel:    a.view.Rank.FullLabel(),
			Theme:        a.view.Theme,
			DisplayScore: display,
		}
	}
	return s
}

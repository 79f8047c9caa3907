package card

import (
	"strconv"

	"ethmumbai-maxi/internal/domain"
	"ethmumbai-maxi/internal/quiz"
)

// View is the renderable result card.
type View struct {
	Root   *Element
	Reveal *Reveal
	Rank   domain.Rank
	Theme  string
}

// Build lays out the card for stats and the optional linked profile. reveal
// may be nil, in which case final values are shown immediately.
func Build(stats domain.UserStats, profile *domain.SocialProfile, reveal *Reveal) *View {
	rank := quiz.RankForScore(stats.Score)
	root := &Element{
		ID:    "card",
		Role:  RoleContainer,
		Style: Style{Transform: "scale(1.02)", Transition: "all 0.5s"},
	}

	root.Children = append(root.Children,
		&Element{ID: "badge.live", Role: RoleDecoration, Text: "LIVE", Style: Style{Transition: "opacity 1s"}},
		&Element{ID: "scanline", Role: RoleDecoration, Style: Style{Transform: "translateY(0)", Transition: "transform 3s linear"}},
	)
	if profile != nil {
		if profile.AvatarURL != "" {
			root.Children = append(root.Children, &Element{ID: "avatar", Role: RoleImage, Src: profile.AvatarURL})
		}
		root.Children = append(root.Children,
			&Element{ID: "name", Role: RoleText, Text: profile.DisplayName},
			&Element{ID: "handle", Role: RoleText, Text: "@" + profile.Handle},
		)
	}
	root.Children = append(root.Children,
		&Element{ID: "score", Role: RoleDisplay, Final: strconv.Itoa(stats.Score), Style: Style{Transition: "all 0.3s"}},
		&Element{ID: "rank", Role: RoleDisplay, Final: rank.Code(), Style: Style{Transition: "all 0.3s"}},
		&Element{ID: "rank.label", Role: RoleText, Text: rank.FullLabel()},
		&Element{ID: "title", Role: RoleText, Text: stats.AITitle},
		&Element{ID: "description", Role: RoleText, Text: stats.AIDescription},
	)

	v := &View{Root: root, Reveal: reveal, Rank: rank, Theme: rank.Theme()}
	v.Tick()
	return v
}

// Tick writes the current reveal value into the display elements.
func (v *View) Tick() {
	if v == nil || v.Root == nil {
		return
	}
	score := v.Root.Find("score")
	rank := v.Root.Find("rank")
	if score == nil || rank == nil {
		return
	}
	if v.Reveal == nil {
		score.Text, rank.Text = score.Final, rank.Final
		return
	}
	shown := v.Reveal.Value()
	score.Text = strconv.Itoa(shown)
	rank.Text = quiz.RankForScore(shown).Code()
}

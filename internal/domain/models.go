package domain

import "fmt"

// Option is one answer choice and the points it awards.
type Option struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Question is a single quiz prompt. Keyword names the topic it covers and is
// fed to profile synthesis.
type Question struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Keyword string   `json:"keyword"`
	Options []Option `json:"options"`
}

// MaxPoints returns the highest point value of any option.
func (q Question) MaxPoints() int {
	best := 0
	for _, opt := range q.Options {
		if opt.Points > best {
			best = opt.Points
		}
	}
	return best
}

// Bank is the ordered, immutable question set of a quiz.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Validate checks that every question has options and no option awards negative points.
func (b Bank) Validate() error {
	if len(b.Questions) == 0 {
		return ErrEmptyBank
	}
	for _, q := range b.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: %w", q.ID, ErrNoOptions)
		}
		for _, opt := range q.Options {
			if opt.Points < 0 {
				return fmt.Errorf("question %d: %w", q.ID, ErrNegativePoints)
			}
		}
	}
	return nil
}

// UserStats is the outcome of a completed quiz.
type UserStats struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Answers        []int  `json:"answers"`
	AITitle        string `json:"aiTitle,omitempty"`
	AIDescription  string `json:"aiDescription,omitempty"`
}

// EmptyStats returns zeroed stats for a bank of total questions.
func EmptyStats(total int) UserStats {
	return UserStats{TotalQuestions: total, Answers: []int{}}
}

// Completed reports whether every question has an answer.
func (s UserStats) Completed() bool {
	return s.TotalQuestions > 0 && len(s.Answers) == s.TotalQuestions
}

// Clone returns a copy that shares no slice memory with s.
func (s UserStats) Clone() UserStats {
	out := s
	out.Answers = append([]int{}, s.Answers...)
	return out
}

// SocialProfile is a linked X account.
type SocialProfile struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Profile is a synthesized title/description pair.
type Profile struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Screen identifies which view the client is on.
type Screen string

const (
	ScreenLanding Screen = "landing"
	ScreenQuiz    Screen = "quiz"
	ScreenResult  Screen = "result"
)

// ParseScreen maps a stored value back to a Screen.
func ParseScreen(raw string) (Screen, bool) {
	switch Screen(raw) {
	case ScreenLanding, ScreenQuiz, ScreenResult:
		return Screen(raw), true
	}
	return "", false
}

// Rank is the score tier.
type Rank int

const (
	RankCurious Rank = iota
	RankBeliever
	RankMaxi
	RankUltra
)

// Code is the short upper-case rank used in share text.
func (r Rank) Code() string {
	switch r {
	case RankUltra:
		return "ULTRA"
	case RankMaxi:
		return "MAXI"
	case RankBeliever:
		return "BELIEF"
	default:
		return "CURIOUS"
	}
}

func (r Rank) String() string {
	switch r {
	case RankUltra:
		return "Ultra"
	case RankMaxi:
		return "Maxi"
	case RankBeliever:
		return "Believer"
	default:
		return "Curious"
	}
}

// FullLabel is the label rendered on the result card.
func (r Rank) FullLabel() string {
	switch r {
	case RankUltra:
		return "ETHMumbai Ultra Maxi 🏆"
	case RankMaxi:
		return "ETHMumbai Maxi 🐂"
	case RankBeliever:
		return "ETHMumbai Believer 🔥"
	default:
		return "ETHMumbai Curious 👀"
	}
}

// Theme is the visual theme a rank selects.
func (r Rank) Theme() string {
	if r == RankUltra {
		return "ultra"
	}
	return "default"
}

func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	for _, candidate := range []Rank{RankCurious, RankBeliever, RankMaxi, RankUltra} {
		if candidate.String() == string(text) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown rank %q", text)
}

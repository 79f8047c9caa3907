// Package quiz holds the question engine and rank tiers.
package quiz

import "ethmumbai-maxi/internal/domain"

// Completion is handed to the caller when the last question is answered.
type Completion struct {
	Score   int
	Answers []int
}

// Engine walks a bank one question at a time, accumulating score. It is not
// safe for concurrent use; the owning state machine serializes access.
type Engine struct {
	bank     domain.Bank
	index    int
	selected int
	hasSel   bool
	score    int
	answers  []int
	complete bool
}

// NewEngine starts a quiz at the first question of bank.
func NewEngine(bank domain.Bank) *Engine {
	return &Engine{bank: bank, answers: make([]int, 0, len(bank.Questions))}
}

// Progress is a read-only copy of the engine state.
type Progress struct {
	CurrentIndex int
	Selected     *int
	Score        int
	Answers      []int
	Complete     bool
}

// Progress returns a copy of the current state.
func (e *Engine) Progress() Progress {
	p := Progress{
		CurrentIndex: e.index,
		Score:        e.score,
		Answers:      append([]int{}, e.answers...),
		Complete:     e.complete,
	}
	if e.hasSel {
		sel := e.selected
		p.Selected = &sel
	}
	return p
}

// Current returns the question being asked.
func (e *Engine) Current() domain.Question {
	return e.bank.Questions[e.index]
}

// Total is the number of questions in the bank.
func (e *Engine) Total() int {
	return len(e.bank.Questions)
}

// SelectOption sets the pending choice for the current question. It does not
// score anything until Advance.
func (e *Engine) SelectOption(index int) error {
	if e.complete {
		return domain.ErrQuizComplete
	}
	if index < 0 || index >= len(e.Current().Options) {
		return domain.ErrOptionOutOfRange
	}
	e.selected = index
	e.hasSel = true
	return nil
}

// Advance scores the pending selection. On the last question it returns the
// completion and true; the engine is then frozen.
func (e *Engine) Advance() (Completion, bool, error) {
	if e.complete {
		return Completion{}, false, domain.ErrQuizComplete
	}
	if !e.hasSel {
		return Completion{}, false, domain.ErrNoSelection
	}

	e.score += e.Current().Options[e.selected].Points
	e.answers = append(e.answers, e.selected)

	if e.index == len(e.bank.Questions)-1 {
		e.complete = true
		return Completion{Score: e.score, Answers: append([]int{}, e.answers...)}, true, nil
	}

	e.index++
	e.hasSel = false
	return Completion{}, false, nil
}

// RankForScore maps a 0-100 score to its tier, highest threshold first.
func RankForScore(score int) domain.Rank {
	switch {
	case score >= 80:
		return domain.RankUltra
	case score >= 60:
		return domain.RankMaxi
	case score >= 30:
		return domain.RankBeliever
	default:
		return domain.RankCurious
	}
}

// MaxScore is the best achievable score for bank.
func MaxScore(bank domain.Bank) int {
	total := 0
	for _, q := range bank.Questions {
		total += q.MaxPoints()
	}
	return total
}

// Keywords returns the topic keyword of each answered question, in order.
func Keywords(bank domain.Bank, answers []int) []string {
	out := make([]string, 0, len(answers))
	for i := range answers {
		if i >= len(bank.Questions) {
			break
		}
		out = append(out, bank.Questions[i].Keyword)
	}
	return out
}

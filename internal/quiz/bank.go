package quiz

import "ethmumbai-maxi/internal/domain"

// DefaultBankID identifies the built-in question bank.
const DefaultBankID = "ethmumbai"

// DefaultBank is the built-in ten-question bank. Each question tops out at
// 10 points, so scores land on a 0-100 scale.
func DefaultBank() domain.Bank {
	return domain.Bank{
		ID: DefaultBankID,
		Questions: []domain.Question{
			{ID: 1, Prompt: "How did you hear about ETHMumbai?", Keyword: "Presence Check", Options: []domain.Option{
				{Text: "Through friends / community groups", Points: 10},
				{Text: "Twitter / X", Points: 8},
				{Text: "Discord / Telegram", Points: 6},
				{Text: "Random post / website", Points: 4},
				{Text: "What is ETHMumbai? 👀", Points: 0},
			}},
			{ID: 2, Prompt: "Have you attended ETHMumbai (or an ETHMumbai-side event)?", Keyword: "Attendance", Options: []domain.Option{
				{Text: "Yes, in person 🔥", Points: 10},
				{Text: "Online / livestream", Points: 7},
				{Text: "Planned to, but couldn’t", Points: 5},
				{Text: "Heard about it after it happened", Points: 2},
				{Text: "Never attended", Points: 0},
			}},
			{ID: 3, Prompt: "When did you first get into Ethereum / Web3?", Keyword: "Time in the Game", Options: []domain.Option{
				{Text: "Before 2020", Points: 10},
				{Text: "2020–2021", Points: 8},
				{Text: "2022", Points: 6},
				{Text: "2023–2024", Points: 4},
				{Text: "Still exploring", Points: 2},
			}},
			{ID: 4, Prompt: "Which best describes you?", Keyword: "Builder Energy", Options: []domain.Option{
				{Text: "Actively building / shipping projects", Points: 10},
				{Text: "Hackathon regular", Points: 8},
				{Text: "Learning & experimenting", Points: 6},
				{Text: "Mostly reading & observing", Points: 4},
				{Text: "Just here for vibes", Points: 2},
			}},
			{ID: 5, Prompt: "How do you engage with the ecosystem?", Keyword: "Community Contribution", Options: []domain.Option{
				{Text: "Organize events / mentor others", Points: 10},
				{Text: "Contribute to open source", Points: 8},
				{Text: "Write / speak / share insights", Points: 6},
				{Text: "Lurk but stay updated", Points: 4},
				{Text: "Only consume content", Points: 2},
			}},
			{ID: 6, Prompt: "What matters most to you about ETHMumbai?", Keyword: "Culture Check", Options: []domain.Option{
				{Text: "Community & people", Points: 10},
				{Text: "Builders & ideas", Points: 8},
				{Text: "Learning & exposure", Points: 6},
				{Text: "Networking & opportunities", Points: 4},
				{Text: "Free swag 👀", Points: 2},
			}},
			{ID: 7, Prompt: "How do you feel about Ethereum long-term?", Keyword: "Conviction", Options: []domain.Option{
				{Text: "Ethereum is inevitable 🐂", Points: 10},
				{Text: "Strongly bullish", Points: 8},
				{Text: "Cautiously optimistic", Points: 6},
				{Text: "Neutral", Points: 4},
				{Text: "Still unsure", Points: 2},
			}},
			{ID: 8, Prompt: "ETHMumbai feels like…", Keyword: "Identity", Options: []domain.Option{
				{Text: "Home 🏠", Points: 10},
				{Text: "My kind of crowd", Points: 8},
				{Text: "Inspiring community", Points: 6},
				{Text: "Interesting event", Points: 4},
				{Text: "Just another conference", Points: 0},
			}},
			{ID: 9, Prompt: "Pick a vibe that matches you best", Keyword: "Mumbai Energy", Options: []domain.Option{
				{Text: "Build → break → rebuild", Points: 10},
				{Text: "Ship first, polish later", Points: 8},
				{Text: "Learn deeply, move steadily", Points: 6},
				{Text: "Observe & absorb", Points: 4},
				{Text: "Go with the flow", Points: 2},
			}},
			{ID: 10, Prompt: "Would you recommend ETHMumbai to others?", Keyword: "The Ultimate Question", Options: []domain.Option{
				{Text: "Already did 🚀", Points: 10},
				{Text: "100% yes", Points: 8},
				{Text: "Probably", Points: 6},
				{Text: "Maybe", Points: 4},
				{Text: "Not sure", Points: 2},
			}},
		},
	}
}

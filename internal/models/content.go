package models

// DayContent is the creator-editable copy shown for one day.
type DayContent struct {
	Message         string `json:"message"`
	CustomQuestion  string `json:"customQuestion,omitempty"`
	CustomAnswerYes string `json:"customAnswerYes,omitempty"`
	CustomAnswerNo  string `json:"customAnswerNo,omitempty"`
}

// Merge returns c with every non-empty field of patch applied on top.
func (c DayContent) Merge(patch DayContent) DayContent {
	if patch.Message != "" {
		c.Message = patch.Message
	}
	if patch.CustomQuestion != "" {
		c.CustomQuestion = patch.CustomQuestion
	}
	if patch.CustomAnswerYes != "" {
		c.CustomAnswerYes = patch.CustomAnswerYes
	}
	if patch.CustomAnswerNo != "" {
		c.CustomAnswerNo = patch.CustomAnswerNo
	}
	return c
}

var defaultMessages = map[Day]string{
	DayWaiting:   "Tumhare liye kuch khaas tayaar ho raha hai… bas thoda sa intezaar ❤️",
	DayRose:      "Just like this rose, you make my life beautiful. Happy Rose Day! 🌹",
	DayPropose:   "I want to walk with you forever. Will you be mine?",
	DayChocolate: "Life is sweeter with you. Happy Chocolate Day! 🍫",
	DayTeddy:     "Sending you a bear hug! You are my cutest teddy. 🧸",
	DayPromise:   "I promise to stand by you, today and forever. 🤝",
	DayHug:       "A hug from you fixes everything. Sending you a warm one! 🤗",
	DayKiss:      "Your love is the best feeling in the world. Happy Kiss Day! 💋",
	DayValentine: "You are my forever Valentine. I love you! ❤️",
	DayFinished:  "Our love story continues...",
}

// DefaultContent returns a fresh copy of the stock content for every day.
func DefaultContent() map[Day]DayContent {
	out := make(map[Day]DayContent, len(defaultMessages))
	for d, msg := range defaultMessages {
		out[d] = DayContent{Message: msg}
	}
	return out
}

// ContentFor returns the content for d, filling gaps from the defaults.
func ContentFor(days map[Day]DayContent, d Day) DayContent {
	base := DayContent{Message: defaultMessages[d]}
	if c, ok := days[d]; ok {
		return base.Merge(c)
	}
	return base
}

// Package quiz holds the questions and choices each day's mini-game offers.
package quiz

import "github.com/julianstephens/valweek/internal/models"

// Question is a two-option prompt.
type Question struct {
	Prompt  string
	Options [2]string
}

// DefaultOptions are used by questions that do not define their own.
var DefaultOptions = [2]string{"YES ❤️", "NO 💔"}

var banks = map[models.Day][]Question{
	models.DayRose: {
		{Prompt: "Kya tumhe roses pasand hain? 🌹", Options: [2]string{"YES", "NO"}},
		{Prompt: "Agar main tumhe rose dekar propose karu, to kya tum logi? 🥺", Options: [2]string{"YES", "NO"}},
		{Prompt: "Kya hamara pyaar is gulab ki tarah hamesha mehakta rahega? ✨", Options: [2]string{"YES", "NO"}},
		{Prompt: "Kya main tumhara pehla aur aakhri rose hoon? ❤️", Options: [2]string{"YES", "NO"}},
	},
	models.DayPropose: {
		{Prompt: "Promise karo, hamesha saath rahoge? 🤝", Options: [2]string{"Ha, Hamesha! ❤️", "Puri Koshish! 😅"}},
		{Prompt: "Meri life ko adventure banaoge? 🎢", Options: [2]string{"Bilkul! 🌍", "Shayad... 🏠"}},
		{Prompt: "Sabse zyada pyaar karte ho mujhse? 🥺", Options: [2]string{"Had se zyada! ♾️", "Bohat sara! 💕"}},
		{Prompt: "Big Question ke liye taiyaar ho? 💍", Options: [2]string{"Hamesha Ready! 😎", "Thoda Nervous... 🙈"}},
	},
	models.DayChocolate: {
		{Prompt: "Do I look sweet today? 🍬", Options: [2]string{"Sweeter than sugar! 🍯", "Just Okay... 🙄"}},
		{Prompt: "Am I sweeter than chocolate? 🍫", Options: [2]string{"Much Sweeter! ❤️", "Equal! 🤝"}},
		{Prompt: "Will you share your last piece? 🥺", Options: [2]string{"Of course! 🫂", "Mine! 😈"}},
	},
	models.DayTeddy: {
		{Prompt: "Am I your softest pillow? 🧸", Options: [2]string{"Always! ☁️", "Sometimes... 😜"}},
		{Prompt: "Can I get a warm hug? 🤗", Options: [2]string{"Big Bear Hug! 🐻", "Tiny Hug! 🤏"}},
		{Prompt: "Will you cuddle me tonight? 🌙", Options: [2]string{"All Night! 💤", "Maybe... 🤔"}},
	},
	models.DayPromise: {
		{Prompt: "Will you keep my secrets? 🤐", Options: [2]string{"Always! 🔒", "Depends... 😜"}},
		{Prompt: "Promise to never leave? 🤝", Options: [2]string{"Forever! ❤️", "I'll try! 😅"}},
	},
	models.DayHug: {
		{Prompt: "Do you like tight hugs? 🫂", Options: [2]string{"Love them! ❤️", "Choking hazard! 😂"}},
		{Prompt: "Am I huggable? 🧸", Options: [2]string{"Very! ☁️", "Not really... 🌵"}},
	},
	models.DayKiss: {
		{Prompt: "Kya main tumhe kiss kar sakta hu? 💋", Options: [2]string{"Ha, Bilkul! 😘", "Sirf Forehead pe! 😇"}},
		{Prompt: "Tumhe kaisi kiss pasand hai? 🙈", Options: [2]string{"Soft & Slow 🌸", "Quick & Cute 😉"}},
	},
	models.DayValentine: {
		{Prompt: "Did you enjoy our Valentine's Week? 📅", Options: [2]string{"Loved every bit! ❤️", "It was magical! ✨"}},
		{Prompt: "Are you ready to be mine forever? 💍", Options: [2]string{"Born ready! 😍", "Yes, a thousand times! 🌹"}},
	},
}

// ForDay returns a copy of the questions asked on d. Days without a quiz
// return nil.
func ForDay(d models.Day) []Question {
	qs := banks[d]
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return out
}

// Custom builds the creator's own question from a day's content. ok is
// false when the creator has not set one.
func Custom(c models.DayContent) (Question, bool) {
	if c.CustomQuestion == "" {
		return Question{}, false
	}
	q := Question{Prompt: c.CustomQuestion, Options: DefaultOptions}
	if c.CustomAnswerYes != "" {
		q.Options[0] = c.CustomAnswerYes
	}
	if c.CustomAnswerNo != "" {
		q.Options[1] = c.CustomAnswerNo
	}
	return q, true
}

// Choice is one selectable item in a day's mini-game.
type Choice struct {
	ID    string
	Emoji string
	Name  string
	Desc  string
}

func (c Choice) Label() string {
	if c.Desc == "" {
		return c.Emoji + " " + c.Name
	}
	return c.Emoji + " " + c.Name + " (" + c.Desc + ")"
}

var Teddies = []Choice{
	{ID: "classic", Emoji: "🧸", Name: "Classic Bear", Desc: "Warm & Fuzzy"},
	{ID: "white", Emoji: "🐻‍❄️", Name: "Snowy Bear", Desc: "Soft & Pure"},
	{ID: "panda", Emoji: "🐼", Name: "Panda Bear", Desc: "Lazy & Cute"},
	{ID: "koala", Emoji: "🐨", Name: "Koala Bear", Desc: "Clingy Lover"},
}

var Chocolates = []Choice{
	{ID: "dark", Emoji: "🍫", Name: "Dark Chocolate", Desc: "Rich & Deep"},
	{ID: "milk", Emoji: "🥛", Name: "Milk Chocolate", Desc: "Classic Sweet"},
	{ID: "white", Emoji: "🤍", Name: "White Chocolate", Desc: "Creamy Dream"},
	{ID: "truffle", Emoji: "🍬", Name: "Truffle", Desc: "Melts Instantly"},
}

var Hugs = []Choice{
	{ID: "bear", Emoji: "🐻", Name: "Bear Hug"},
	{ID: "side", Emoji: "🤗", Name: "Side Hug"},
	{ID: "back", Emoji: "🫂", Name: "Back Hug"},
	{ID: "forever", Emoji: "💞", Name: "Never Let Go Hug"},
}

var Promises = []string{
	"I will always respect you. ✊",
	"I will listen to you patiently. 👂",
	"I will share my last slice of pizza. 🍕",
	"I will never sleep angry with you. 😴",
	"I will love you more every day. 📈",
}

// Proposal is one of the closing questions on Valentine's Day, with the
// answer offered alongside it.
type Proposal struct {
	Question string
	Answer   string
}

var Proposals = []Proposal{
	{Question: "Will you be my Valentine forever? 💍", Answer: "Yes, in this life and every life after. ❤️"},
	{Question: "Kitna pyaar karte ho? 🌏", Answer: "Zameen se aasmaan tak, aur usse bhi aage. ✨"},
	{Question: "Best memory kya hai? 📸", Answer: "Har wo pal jo tumhare saath bitaya. 🥰"},
	{Question: "Koi aakhri khwaish? 🌠", Answer: "Bas tumhara haath mere haath me rahe, hamesha. 🤝"},
}

// FinalDecision is the text saved when the partner does not write their own.
func (p Proposal) FinalDecision() string {
	return "Accepted Proposal: " + p.Question + " -> " + p.Answer
}

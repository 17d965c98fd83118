package confession

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/valweek/internal/constants"
	"github.com/julianstephens/valweek/internal/models"
)

var (
	// ErrUnsupportedDay is returned when encoding a day that has no mini-game.
	ErrUnsupportedDay = errors.New("day has no confession format")
	// ErrFormatMismatch is returned when the requested format belongs to another day.
	ErrFormatMismatch = errors.New("format does not belong to day")
)

// Interaction is everything a partner did on one day. Only the fields the
// day's format uses are read.
type Interaction struct {
	Day    models.Day `json:"day" validate:"required"`
	Format Format     `json:"format,omitempty"`
	// Answers are the chosen option texts, in question order.
	Answers []string `json:"answers,omitempty"`
	// Log is the rose day's action log. Answers are used when it is empty.
	Log        []string `json:"log,omitempty"`
	Rejections []string `json:"rejections,omitempty"`
	FinalText  string   `json:"finalText,omitempty"`
	Sweetness  int      `json:"sweetness,omitempty" validate:"gte=0,lte=100"`
	Chocolate  string   `json:"chocolate,omitempty"`
	Teddy      string   `json:"teddy,omitempty"`
	Promises   []string `json:"promises,omitempty"`
	Hug        string   `json:"hug,omitempty"`
	Kisses     int      `json:"kisses,omitempty" validate:"gte=0"`
	// Status overrides the day's completion status.
	Status       string `json:"status,omitempty"`
	DecisionType string `json:"decisionType,omitempty"`
}

// QuizEntries renders answers as "Q1: ...", "Q2: ...".
func QuizEntries(answers []string) []string {
	out := make([]string, len(answers))
	for i, a := range answers {
		out[i] = fmt.Sprintf("Q%d: %s", i+1, a)
	}
	return out
}

var defaultFormats = map[models.Day]Format{
	models.DayRose:      FormatRoseActivity,
	models.DayPropose:   FormatProposeLog,
	models.DayChocolate: FormatChocolateLog,
	models.DayTeddy:     FormatTeddyLog,
	models.DayPromise:   FormatPromiseLog,
	models.DayHug:       FormatHugSelected,
	models.DayKiss:      FormatKissLog,
	models.DayValentine: FormatValentineLog,
}

var formatDays = map[Format]models.Day{
	FormatRoseLegacy:       models.DayRose,
	FormatRoseActivity:     models.DayRose,
	FormatRoseFinalPromise: models.DayRose,
	FormatProposeLog:       models.DayPropose,
	FormatChocolateLog:     models.DayChocolate,
	FormatChocolatePicked:  models.DayChocolate,
	FormatTeddyLog:         models.DayTeddy,
	FormatPromiseLog:       models.DayPromise,
	FormatHugVirtual:       models.DayHug,
	FormatHugSelected:      models.DayHug,
	FormatKissLog:          models.DayKiss,
	FormatValentineLog:     models.DayValentine,
}

// DefaultFormat returns the format new confessions for d are written in.
func DefaultFormat(d models.Day) (Format, bool) {
	f, ok := defaultFormats[d]
	return f, ok
}

// Encode renders in as one confession string.
func Encode(in Interaction) (string, error) {
	format := in.Format
	if format == "" {
		f, ok := defaultFormats[in.Day]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedDay, in.Day)
		}
		format = f
	} else if formatDays[format] != in.Day {
		return "", fmt.Errorf("%w: %s is not a %s format", ErrFormatMismatch, format, in.Day)
	}

	quiz := strings.Join(QuizEntries(in.Answers), entrySeparator)

	switch format {
	case FormatRoseLegacy:
		return roseLegacyHeader + strings.Join(roseEntries(in), entrySeparator), nil
	case FormatRoseActivity:
		return roseActivityHeader + strings.Join(roseEntries(in), "\n"), nil
	case FormatRoseFinalPromise:
		return roseFinalHeader + strings.Join(roseEntries(in), "\n"), nil
	case FormatProposeLog:
		entries := append(QuizEntries(in.Answers), in.Rejections...)
		final := in.FinalText
		if final == "" {
			final = proposeAccepted
		}
		return proposePrefix + strings.Join(entries, entrySeparator) + sectionSeparator + "Final: " + final, nil
	case FormatChocolateLog:
		return fmt.Sprintf("%s%s | Sweetness: %d%% (%s)", chocolatePrefix, quiz, in.Sweetness, status(in, statusChocolate)), nil
	case FormatChocolatePicked:
		return fmt.Sprintf("%s%s | Quiz: %s", chocolatePickedPrefix, in.Chocolate, quiz), nil
	case FormatTeddyLog:
		return fmt.Sprintf("%s%s | Selected Teddy: %s (%s)", teddyPrefix, quiz, in.Teddy, status(in, statusTeddy)), nil
	case FormatPromiseLog:
		return fmt.Sprintf("%s%s | Promises Made: %s (%s)", promisePrefix, quiz, strings.Join(in.Promises, entrySeparator), status(in, statusPromise)), nil
	case FormatHugVirtual:
		return fmt.Sprintf("%s%s | Sent a Virtual Hug! (%s)", hugPrefix, quiz, status(in, statusHug)), nil
	case FormatHugSelected:
		return fmt.Sprintf("%s%s | Selected Hug: %s (%s)", hugPrefix, quiz, in.Hug, status(in, statusHug)), nil
	case FormatKissLog:
		return fmt.Sprintf("%s%s | Sent %d Kisses! (%s)", kissPrefix, quiz, in.Kisses, status(in, statusKiss)), nil
	case FormatValentineLog:
		decision := in.DecisionType
		if decision == "" {
			decision = statusValentine
		}
		return fmt.Sprintf("%s%s | Final Decision: %s (%s)", valentinePrefix, quiz, in.FinalText, decision), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDay, in.Day)
	}
}

func roseEntries(in Interaction) []string {
	if len(in.Log) > 0 {
		return in.Log
	}
	return QuizEntries(in.Answers)
}

func status(in Interaction, def string) string {
	if in.Status != "" {
		return in.Status
	}
	return def
}

// RoseLog collects the rose day's actions as they happen, each stamped with
// its wall-clock time.
type RoseLog struct {
	entries []string
	answers int
}

// Add records action at t.
func (l *RoseLog) Add(action string, t time.Time) {
	l.entries = append(l.entries, action+" ("+t.Format(constants.TimeFormat)+")")
}

func (l *RoseLog) PermissionGranted(t time.Time) {
	l.Add("Permission Granted", t)
}

// Refused records one refusal; attempt is 1-based.
func (l *RoseLog) Refused(attempt int, t time.Time) {
	l.Add("Tried to say NO to Rose (Attempt "+strconv.Itoa(attempt)+")", t)
}

func (l *RoseLog) Accepted(t time.Time) {
	l.Add("Accepted Rose", t)
}

// Answer records the next quiz answer.
func (l *RoseLog) Answer(answer string, t time.Time) {
	l.answers++
	l.Add(fmt.Sprintf("Q%d: %s", l.answers, answer), t)
}

// Entries returns a copy of the log so far.
func (l *RoseLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

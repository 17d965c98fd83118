package confession

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/julianstephens/valweek/internal/models"
)

// Parsed is a decoded confession. Entries keep the order they appear in the
// text; the typed fields repeat the facts for callers that want them directly.
type Parsed struct {
	Day     models.Day `json:"day"`
	Format  Format     `json:"format"`
	Entries []Entry    `json:"entries"`

	Accepted     bool     `json:"accepted,omitempty"`
	PromiseMade  bool     `json:"promiseMade,omitempty"`
	FinalText    string   `json:"finalText,omitempty"`
	Sweetness    int      `json:"sweetness,omitempty"`
	Chocolate    string   `json:"chocolate,omitempty"`
	Teddy        string   `json:"teddy,omitempty"`
	Promises     []string `json:"promises,omitempty"`
	Hug          string   `json:"hug,omitempty"`
	Kisses       int      `json:"kisses,omitempty"`
	DecisionType string   `json:"decisionType,omitempty"`
	HardToGet    bool     `json:"hardToGet,omitempty"`
	Status       string   `json:"status,omitempty"`
}

// IsRaw reports whether no known format matched.
func (p Parsed) IsRaw() bool {
	return p.Format == FormatRaw
}

// QA returns the quiz answers in order.
func (p Parsed) QA() []QAEntry {
	var out []QAEntry
	for _, e := range p.Entries {
		if qa, ok := e.(QAEntry); ok {
			out = append(out, qa)
		}
	}
	return out
}

// Statuses returns the free-form log lines in order.
func (p Parsed) Statuses() []StatusEntry {
	var out []StatusEntry
	for _, e := range p.Entries {
		if st, ok := e.(StatusEntry); ok {
			out = append(out, st)
		}
	}
	return out
}

// Meta returns the value of the first metadata entry named key.
func (p Parsed) Meta(key string) (string, bool) {
	for _, e := range p.Entries {
		if m, ok := e.(MetadataEntry); ok && m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

func (p *Parsed) add(e Entry) {
	p.Entries = append(p.Entries, e)
}

func (p *Parsed) meta(key, value string) {
	p.add(MetadataEntry{Key: key, Value: value})
}

type parser struct {
	format Format
	detect func(text string) bool
	parse  func(text string, p *Parsed)
}

// Detectors run in order; the first match wins. Rose's checks overlap on
// "Rose Day", so the specific headers come before the legacy one.
var parsers = map[models.Day][]parser{
	models.DayRose: {
		{FormatRoseActivity, contains("Rose Day Activity Log"), parseRose},
		{FormatRoseFinalPromise, contains("Rose Day Final Promise Made"), parseRose},
		{FormatRoseLegacy, contains("Rose Day Completed!"), parseRose},
	},
	models.DayPropose: {
		{FormatProposeLog, anyOf("Activity Log", "SHE SAID YES", "Final:"), parsePropose},
	},
	models.DayChocolate: {
		{FormatChocolatePicked, contains("Chocolate Day: Picked"), parseChocolate},
		{FormatChocolateLog, anyOf("Chocolate Day Activity Log", "Sweetness:"), parseChocolate},
	},
	models.DayTeddy: {
		{FormatTeddyLog, anyOf("Teddy Day Activity Log", "Selected Teddy:"), parseTeddy},
	},
	models.DayPromise: {
		{FormatPromiseLog, anyOf("Promise Day Activity Log", "Promises Made:"), parsePromise},
	},
	models.DayHug: {
		{FormatHugSelected, contains("Selected Hug:"), parseHug},
		{FormatHugVirtual, anyOf("Hug Day Activity Log", "Virtual Hug"), parseHug},
	},
	models.DayKiss: {
		{FormatKissLog, func(s string) bool { return strings.Contains(s, "Kiss Day Activity Log") || kissesPattern.MatchString(s) }, parseKiss},
	},
	models.DayValentine: {
		{FormatValentineLog, anyOf("Valentine Day Activity Log", valentineFinalMarker), parseValentine},
	},
}

var (
	qaMarker          = regexp.MustCompile(`Q\d*\s*:`)
	sweetnessPattern  = regexp.MustCompile(`Sweetness: (\d+)%`)
	teddyPattern      = regexp.MustCompile(`Selected Teddy: (.+) \(`)
	promisesPattern   = regexp.MustCompile(`Promises Made: (.+) \(`)
	hugPattern        = regexp.MustCompile(`Selected Hug: (.+) \(`)
	kissesPattern     = regexp.MustCompile(`Sent (\d+) Kisses!`)
	trailingParens    = regexp.MustCompile(`\(([^)]+)\)$`)
	proposePromiseTxt = regexp.MustCompile(`Promise:\s*([^|]+)`)
)

// Decode parses text written for day. It never fails: text in no known
// format comes back as a single RawFallback entry.
func Decode(day models.Day, text string) Parsed {
	for _, ps := range parsers[day] {
		if !ps.detect(text) {
			continue
		}
		p := Parsed{Day: day, Format: ps.format}
		ps.parse(text, &p)
		if len(p.Entries) == 0 {
			continue
		}
		return p
	}
	return Parsed{
		Day:     day,
		Format:  FormatRaw,
		Entries: []Entry{RawFallback{Text: text}},
	}
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func anyOf(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// classify turns one log item into an entry. Order matters: an answer of
// "NO" is still a quiz answer.
func classify(item string) Entry {
	item = strings.TrimSpace(item)
	if strings.Contains(item, "Quiz Question") || qaMarker.MatchString(item) {
		label, answer, _ := strings.Cut(item, ":")
		return QAEntry{Label: strings.TrimSpace(label), Answer: strings.TrimSpace(answer)}
	}
	switch {
	case strings.Contains(item, "Rejected"), strings.Contains(item, "NO"):
		return StatusEntry{Kind: StatusRejection, Text: item}
	case strings.Contains(item, "Promise Stage"):
		return StatusEntry{Kind: StatusPromiseStage, Text: item}
	default:
		return StatusEntry{Kind: StatusInfo, Text: item}
	}
}

// addItems splits list on sep and classifies every non-blank item.
func (p *Parsed) addItems(list, sep string) {
	for _, item := range strings.Split(list, sep) {
		if strings.TrimSpace(item) == "" {
			continue
		}
		p.add(classify(item))
	}
}

// quizSection returns the text before the first "|" with prefix removed.
func quizSection(text, prefix string) string {
	first, _, _ := strings.Cut(text, "|")
	return strings.TrimSpace(strings.Replace(first, prefix, "", 1))
}

// trailingStatus reads the "(STATUS)" that ends most formats.
func (p *Parsed) trailingStatus(text string) {
	if m := trailingParens.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		p.Status = m[1]
		p.meta(KeyStatus, m[1])
	}
}

func parseRose(text string, p *Parsed) {
	clean := text
	for _, h := range []string{roseLegacyHeader, roseActivityHeader, roseFinalHeader, roseFinalLegacyHeader} {
		clean = strings.Replace(clean, h, "", 1)
	}
	sep := entrySeparator
	if strings.Contains(clean, "\n") {
		sep = "\n"
	}
	p.addItems(clean, sep)
}

func parsePropose(text string, p *Parsed) {
	if strings.Contains(text, "Activity Log") {
		p.addItems(quizSection(text, proposePrefix), entrySeparator)
	}
	for _, section := range strings.Split(text, "|") {
		section = strings.TrimSpace(section)
		if final, ok := strings.CutPrefix(section, "Final:"); ok {
			p.FinalText = strings.TrimSpace(final)
			p.meta(KeyFinal, p.FinalText)
		}
	}
	p.Accepted = strings.Contains(text, "SHE SAID YES")
	if p.Accepted && p.FinalText == "" {
		p.FinalText = proposeAccepted
		p.meta(KeyFinal, p.FinalText)
	}
	if strings.Contains(text, "Promise:") {
		p.PromiseMade = true
		promise := defaultProposePromise
		if m := proposePromiseTxt.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
			promise = strings.TrimSpace(m[1])
		}
		p.meta(KeyPromise, promise)
	}
}

func parseChocolate(text string, p *Parsed) {
	sections := strings.Split(text, "|")
	p.Sweetness = Sweetness(text)

	if picked, ok := strings.CutPrefix(strings.TrimSpace(sections[0]), strings.TrimSpace(chocolatePickedPrefix)); ok {
		p.Chocolate = strings.TrimSpace(picked)
		if p.Chocolate != "" {
			p.meta(KeyChocolate, p.Chocolate)
		}
		for _, s := range sections[1:] {
			if quiz, ok := strings.CutPrefix(strings.TrimSpace(s), "Quiz:"); ok {
				p.addItems(strings.TrimSpace(quiz), entrySeparator)
			}
		}
		return
	}

	if strings.Contains(text, "Activity Log") {
		p.addItems(quizSection(text, chocolatePrefix), entrySeparator)
	}
	p.meta(KeySweetness, strconv.Itoa(p.Sweetness))
	p.trailingStatus(text)
}

// Sweetness extracts the chocolate day's "Sweetness: N%", defaulting to 100.
func Sweetness(text string) int {
	if m := sweetnessPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return defaultSweetness
}

func parseTeddy(text string, p *Parsed) {
	if strings.Contains(text, "Activity Log") {
		p.addItems(quizSection(text, teddyPrefix), entrySeparator)
	}
	p.Teddy = defaultTeddy
	if m := teddyPattern.FindStringSubmatch(text); m != nil {
		p.Teddy = m[1]
	}
	p.meta(KeyTeddy, p.Teddy)
	p.trailingStatus(text)
}

func parsePromise(text string, p *Parsed) {
	if strings.Contains(text, "Activity Log") {
		p.addItems(quizSection(text, promisePrefix), entrySeparator)
	}
	if m := promisesPattern.FindStringSubmatch(text); m != nil {
		p.Promises = strings.Split(m[1], entrySeparator)
		p.meta(KeyPromises, m[1])
	}
	p.trailingStatus(text)
}

func parseHug(text string, p *Parsed) {
	if strings.Contains(text, "Activity Log") {
		p.addItems(quizSection(text, hugPrefix), entrySeparator)
	}
	p.Hug = defaultHug
	if m := hugPattern.FindStringSubmatch(text); m != nil {
		p.Hug = m[1]
	}
	p.meta(KeyHug, p.Hug)
	p.trailingStatus(text)
}

func parseKiss(text string, p *Parsed) {
	if strings.Contains(text, "Activity Log") {
		p.addItems(quizSection(text, kissPrefix), entrySeparator)
	}
	if m := kissesPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.Kisses = n
		}
	}
	p.meta(KeyKisses, strconv.Itoa(p.Kisses))
	p.trailingStatus(text)
}

func parseValentine(text string, p *Parsed) {
	hasLog := strings.Contains(text, "Valentine Day Activity Log")

	var logPart, finalPart string
	if before, after, ok := strings.Cut(text, valentineFinalMarker); ok {
		logPart = strings.TrimSpace(strings.Replace(before, valentinePrefix, "", 1))
		finalPart = strings.TrimSpace(after)
		if m := trailingParens.FindStringSubmatch(finalPart); m != nil {
			p.DecisionType = m[1]
			finalPart = strings.TrimSpace(strings.Replace(finalPart, "("+m[1]+")", "", 1))
		}
	} else {
		logPart = strings.Replace(text, valentinePrefix, "", 1)
	}

	if hasLog && logPart != "" {
		p.addItems(logPart, entrySeparator)
	}
	if finalPart != "" {
		p.FinalText = finalPart
		p.meta(KeyFinal, finalPart)
	}
	if p.DecisionType != "" {
		p.HardToGet = strings.Contains(p.DecisionType, hardToGetDecision)
		p.meta(KeyDecisionType, p.DecisionType)
	}
}

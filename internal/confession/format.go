// Package confession turns a day's interactions into the single log string
// stored as a confession, and parses stored strings back into entries. Every
// format ever written stays readable; text matching none of them decodes to
// a raw fallback.
package confession

// Format identifies one encoding of a day's log.
type Format string

const (
	FormatRaw              Format = "raw"
	FormatRoseLegacy       Format = "rose_legacy"
	FormatRoseActivity     Format = "rose_activity"
	FormatRoseFinalPromise Format = "rose_final_promise"
	FormatProposeLog       Format = "propose_log"
	FormatChocolateLog     Format = "chocolate_log"
	FormatChocolatePicked  Format = "chocolate_picked"
	FormatTeddyLog         Format = "teddy_log"
	FormatPromiseLog       Format = "promise_log"
	FormatHugVirtual       Format = "hug_virtual"
	FormatHugSelected      Format = "hug_selected"
	FormatKissLog          Format = "kiss_log"
	FormatValentineLog     Format = "valentine_log"
)

// Fixed text in the stored formats.
const (
	roseLegacyHeader      = "Rose Day Completed! Log: "
	roseActivityHeader    = "Rose Day Activity Log:\n------------------\n"
	roseFinalHeader       = "Rose Day Final Promise Made!\n------------------\n"
	roseFinalLegacyHeader = "Rose Day Final Promise Made! Log: "
	proposePrefix         = "Propose Day Activity Log: "
	chocolatePrefix       = "Chocolate Day Activity Log: "
	chocolatePickedPrefix = "Chocolate Day: Picked "
	teddyPrefix           = "Teddy Day Activity Log: "
	promisePrefix         = "Promise Day Activity Log: "
	hugPrefix             = "Hug Day Activity Log: "
	kissPrefix            = "Kiss Day Activity Log: "
	valentinePrefix       = "Valentine Day Activity Log: "
	valentineFinalMarker  = "| Final Decision:"
	proposeAccepted       = "SHE SAID YES! 💍❤️"
	entrySeparator        = ", "
	sectionSeparator      = " | "
	defaultTeddy          = "Cute Bear"
	defaultHug            = "Virtual Hug"
	defaultSweetness      = 100
	defaultProposePromise = "Will stay happy forever 🤝"
	hardToGetDecision     = "Hard to Get"
	statusChocolate       = "CHOCOLATE DAY COMPLETED"
	statusTeddy           = "TEDDY DAY COMPLETED"
	statusPromise         = "PROMISE DAY COMPLETED"
	statusHug             = "HUG DAY COMPLETED"
	statusKiss            = "KISS DAY COMPLETED"
	statusValentine       = "VALENTINE ACCEPTED FOREVER"
)

package classify

import "strings"

// DFYClassification is the per-call verdict on a done-for-you service
// mention. The verdict depends on who raised it and what the prospect
// demonstrated anywhere in the call, so it is only computed after the
// whole transcript has been scanned.
type DFYClassification string

const (
	DFYJustified DFYClassification = "justified"
	DFYAvoidable DFYClassification = "avoidable"
	DFYPremature DFYClassification = "premature"
)

// Initiator of the first DFY mention in a call.
type Initiator string

const (
	InitiatorProspect Initiator = "prospect"
	InitiatorSales    Initiator = "sales"
)

var dfyKeywords = []string{
	"done for you",
	"done-for-you",
	"dfy",
	"do it for me",
	"do it all for me",
	"do it for you",
	"managed service",
	"fully managed",
	"full service",
	"white glove",
	"white-glove",
	"hands off",
	"hands-off",
	"you guys handle",
	"you handle everything",
	"agency service",
	"build it for me",
	"set it all up for me",
}

// Prospect has shown they could run things themselves.
var capabilityKeywords = []string{
	"i can do",
	"i could do",
	"we can do",
	"i know how to",
	"we have a team",
	"my team handles",
	"in house",
	"in-house",
	"we already do",
	"i already do",
	"my va",
	"my assistant",
	"i built it myself",
	"i set it up myself",
}

// Prospect has signalled they genuinely need it done for them.
var needKeywords = []string{
	"don't have time to",
	"no time to",
	"need someone to",
	"need somebody to",
	"can't do this myself",
	"cannot do this myself",
	"can't do it myself",
	"no team",
	"don't have a team",
	"wish someone would",
	"too busy to",
	"want this off my plate",
	"take it off my plate",
}

// IsDFYKeyword reports whether the text mentions a done-for-you service.
func IsDFYKeyword(text string) bool {
	if text == "" {
		return false
	}
	return containsAnyKeyword(strings.ToLower(text), dfyKeywords)
}

// HasCapabilitySignal reports whether the text shows prospect capability.
func HasCapabilitySignal(text string) bool {
	if text == "" {
		return false
	}
	return containsAnyKeyword(strings.ToLower(text), capabilityKeywords)
}

// HasNeedSignal reports whether the text shows prospect need.
func HasNeedSignal(text string) bool {
	if text == "" {
		return false
	}
	return containsAnyKeyword(strings.ToLower(text), needKeywords)
}

// ClassifyDFY applies the decision table: prospect-initiated mentions are
// justified; sales-initiated mentions are justified when the prospect
// demonstrated need, avoidable when the prospect demonstrated capability
// without need, and premature with neither signal.
func ClassifyDFY(initiator Initiator, capability, need bool) DFYClassification {
	if initiator == InitiatorProspect {
		return DFYJustified
	}
	if need {
		return DFYJustified
	}
	if capability {
		return DFYAvoidable
	}
	return DFYPremature
}

func containsAnyKeyword(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

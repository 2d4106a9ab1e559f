package classify

import "strings"

// ObjectionCategory buckets why a prospect hesitates to buy.
type ObjectionCategory string

const (
	ObjectionPrice      ObjectionCategory = "price"
	ObjectionTiming     ObjectionCategory = "timing"
	ObjectionTrust      ObjectionCategory = "trust"
	ObjectionComplexity ObjectionCategory = "complexity"
)

// Ordered like the pain tables: first match wins.
var objectionTables = []struct {
	category ObjectionCategory
	keywords []string
}{
	{ObjectionPrice, []string{
		"out of my budget",
		"over my budget",
		"that's a lot of money",
		"that is a lot of money",
		"cheaper option",
		"cheaper alternative",
		"can't justify the cost",
		"cannot justify the cost",
		"price is too high",
	}},
	{ObjectionTiming, []string{
		"not the right time",
		"bad timing",
		"maybe next quarter",
		"maybe next year",
		"need to think about it",
		"let me think about it",
		"circle back later",
		"revisit this later",
	}},
	{ObjectionTrust, []string{
		"been burned before",
		"got burned before",
		"how do i know this works",
		"sounds too good to be true",
		"need to see proof",
		"any guarantees",
		"talk to my partner first",
		"talk to my wife",
		"talk to my husband",
	}},
	{ObjectionComplexity, []string{
		"seems complicated",
		"sounds complicated",
		"a lot to take in",
		"steep learning curve",
		"don't have the bandwidth",
		"too much going on right now",
		"not sure i can keep up",
	}},
}

// ClassifyObjection maps a sentence to an objection bucket, first table
// wins. Returns false on no match or empty text.
func ClassifyObjection(text string) (ObjectionCategory, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, table := range objectionTables {
		if containsAnyKeyword(lower, table.keywords) {
			return table.category, true
		}
	}
	return "", false
}

package classify

import "strings"

// EmailDomain is the verdict on a contact email's domain.
type EmailDomain struct {
	Domain     string
	IsGeneric  bool
	IsBusiness bool
}

// Free mailbox providers. A domain on this list tells us nothing about the
// prospect's business.
var genericEmailDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"yahoo.co.uk":    true,
	"hotmail.com":    true,
	"hotmail.co.uk":  true,
	"outlook.com":    true,
	"live.com":       true,
	"msn.com":        true,
	"aol.com":        true,
	"icloud.com":     true,
	"me.com":         true,
	"protonmail.com": true,
	"proton.me":      true,
	"gmx.com":        true,
	"gmx.net":        true,
	"mail.com":       true,
	"yandex.com":     true,
	"zoho.com":       true,
}

// Literal tokens that mean "no website given". Matched case-insensitively
// after trimming.
var placeholderTokens = map[string]bool{
	"na":             true,
	"n/a":            true,
	"n.a.":           true,
	"-":              true,
	"--":             true,
	"none":           true,
	"not applicable": true,
	"tbd":            true,
	"null":           true,
	"x":              true,
	"xxx":            true,
	"no website":     true,
	"nothing yet":    true,
}

// ClassifyEmailDomain splits user@domain and classifies the domain against
// the free-provider denylist. Case-insensitive; an address without "@"
// yields an empty domain that is neither generic nor business.
func ClassifyEmailDomain(email string) EmailDomain {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return EmailDomain{}
	}
	domain := email[at+1:]
	generic := genericEmailDomains[domain]
	return EmailDomain{
		Domain:     domain,
		IsGeneric:  generic,
		IsBusiness: !generic,
	}
}

// IsPlaceholder reports whether a free-text website field holds a literal
// "none" token instead of a usable value.
func IsPlaceholder(value string) bool {
	return placeholderTokens[strings.ToLower(strings.TrimSpace(value))]
}

// DeriveWebsite resolves a prospect's website. Order: the explicit field
// when non-empty and non-placeholder (protocol stripped, first URL taken
// from multi-URL strings), else the business email domain, else "".
func DeriveWebsite(explicit, email string) string {
	if site := normalizeWebsite(explicit); site != "" {
		return site
	}
	ed := ClassifyEmailDomain(email)
	if ed.IsBusiness && ed.Domain != "" {
		return ed.Domain
	}
	return ""
}

func normalizeWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || IsPlaceholder(raw) {
		return ""
	}
	// Fields sometimes hold several URLs separated by whitespace or
	// commas; keep the first.
	for _, sep := range []string{",", ";", " "} {
		if i := strings.Index(raw, sep); i > 0 {
			raw = raw[:i]
		}
	}
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	raw = strings.TrimPrefix(raw, "www.")
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || IsPlaceholder(raw) {
		return ""
	}
	return strings.ToLower(raw)
}

// Package phone canonicalizes raw phone numbers into the fixed-length,
// country-code-prefixed form accepted by the messaging provider.
package phone

import "strings"

const subscriberDigits = 9

// Normalizer converts raw phone strings into canonical identifiers.
// All knobs are injected at construction; Normalize itself is pure.
type Normalizer struct {
	countryCode  string
	trunkPrefix  string
	mobileDigits string // recognized first digits of the subscriber part
}

// NewNormalizer returns a Normalizer for the given country calling code
// (digits only, e.g. "254"), national trunk prefix (e.g. "0") and set of
// recognized mobile-range first digits (e.g. "71").
func NewNormalizer(countryCode, trunkPrefix, mobileDigits string) *Normalizer {
	return &Normalizer{
		countryCode:  countryCode,
		trunkPrefix:  trunkPrefix,
		mobileDigits: mobileDigits,
	}
}

// Normalize returns the canonical identifier for raw, or ok=false when
// the input cannot be a valid subscriber number. It never truncates or
// pads: anything that does not land exactly on the canonical shape is
// rejected.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, raw)

	cleaned = strings.TrimPrefix(cleaned, "+")

	// National trunk form: 0XXXXXXXXX -> <cc>XXXXXXXXX
	if strings.HasPrefix(cleaned, n.trunkPrefix) && len(cleaned) > len(n.trunkPrefix) {
		rest := cleaned[len(n.trunkPrefix):]
		if n.isSubscriber(rest) {
			cleaned = n.countryCode + rest
		}
	}

	// Bare subscriber form: 7XXXXXXXX -> <cc>7XXXXXXXX
	if n.isSubscriber(cleaned) {
		cleaned = n.countryCode + cleaned
	}

	if !n.isCanonical(cleaned) {
		return "", false
	}
	return cleaned, true
}

// isSubscriber reports whether s is exactly the subscriber part: a
// recognized mobile first digit followed by eight more digits.
func (n *Normalizer) isSubscriber(s string) bool {
	if len(s) != subscriberDigits {
		return false
	}
	if !strings.ContainsRune(n.mobileDigits, rune(s[0])) {
		return false
	}
	return allDigits(s)
}

func (n *Normalizer) isCanonical(s string) bool {
	return strings.HasPrefix(s, n.countryCode) && n.isSubscriber(s[len(n.countryCode):])
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

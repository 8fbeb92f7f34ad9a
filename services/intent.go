package services

import (
	"sort"
	"strings"
)

// Intent taxonomy
const (
	IntentFirstName      = "personal.firstName"
	IntentLastName       = "personal.lastName"
	IntentEmail          = "personal.email"
	IntentPhone          = "personal.phone"
	IntentLinkedIn       = "personal.linkedin"
	IntentCity           = "personal.city"
	IntentState          = "personal.state"
	IntentCountry        = "personal.country"
	IntentDesiredSalary  = "personal.desiredSalary"
	IntentAdditionalInfo = "personal.additionalInfo"

	IntentWhyFit            = "experience.whyFit"
	IntentExperienceSummary = "experience.summary"

	IntentAuthorizedUS     = "workAuthorization.authorizedUS"
	IntentNeedsSponsorship = "workAuthorization.needsSponsorship"

	IntentGender     = "eeo.gender"
	IntentRace       = "eeo.race"
	IntentVeteran    = "eeo.veteran"
	IntentDisability = "eeo.disability"

	IntentUnknown = "unknown"
)

var allowedIntents = map[string]bool{
	IntentFirstName:         true,
	IntentLastName:          true,
	IntentEmail:             true,
	IntentPhone:             true,
	IntentLinkedIn:          true,
	IntentCity:              true,
	IntentState:             true,
	IntentCountry:           true,
	IntentDesiredSalary:     true,
	IntentAdditionalInfo:    true,
	IntentWhyFit:            true,
	IntentExperienceSummary: true,
	IntentAuthorizedUS:      true,
	IntentNeedsSponsorship:  true,
	IntentGender:            true,
	IntentRace:              true,
	IntentVeteran:           true,
	IntentDisability:        true,
	IntentUnknown:           true,
}

// intentAliases is keyed by foldIntentKey of the raw value.
var intentAliases = map[string]string{
	"experience":              IntentExperienceSummary,
	"whyfit":                  IntentWhyFit,
	"personal.additionalinfo": IntentAdditionalInfo,
	"additionalinfo":          IntentAdditionalInfo,
	"salary":                  IntentDesiredSalary,
	"personal.salary":         IntentDesiredSalary,
	"personal.desiredsalary":  IntentDesiredSalary,
}

func init() {
	// every allowed id is also reachable by its folded spelling ("EEO.Gender", "personal.first_name")
	for intent := range allowedIntents {
		if _, ok := intentAliases[foldIntentKey(intent)]; !ok {
			intentAliases[foldIntentKey(intent)] = intent
		}
	}
}

type intentKeywords struct {
	intent   string
	keywords []string
}

// checked in order, first hit wins
var intentHeuristics = []intentKeywords{
	{IntentDesiredSalary, []string{"salary", "compensation", "pay"}},
	{IntentAdditionalInfo, []string{"anything else", "additional", "know about you"}},
	{IntentWhyFit, []string{"strong fit", "why you", "why should we hire"}},
}

// IsAllowedIntent reports whether intent is a member of the taxonomy.
func IsAllowedIntent(intent string) bool {
	return allowedIntents[intent]
}

// AllowedIntents returns the taxonomy, sorted.
func AllowedIntents() []string {
	out := make([]string, 0, len(allowedIntents))
	for intent := range allowedIntents {
		out = append(out, intent)
	}
	sort.Strings(out)
	return out
}

// NormalizeIntent maps whatever the model (or a client) called the intent onto the
// taxonomy. Explicit signals win over inferred ones: exact id, then alias, then
// keywords in the question, then IntentUnknown. Never returns an empty string.
func NormalizeIntent(raw, question string) string {
	raw = strings.TrimSpace(raw)
	if allowedIntents[raw] {
		return raw
	}

	if canonical, ok := intentAliases[foldIntentKey(raw)]; ok && raw != "" {
		return canonical
	}

	if inferred := InferIntent(question); inferred != "" {
		return inferred
	}

	return IntentUnknown
}

// InferIntent guesses the intent from keywords in the question text. Empty when nothing matches.
func InferIntent(question string) string {
	q := strings.ToLower(question)
	for _, h := range intentHeuristics {
		for _, kw := range h.keywords {
			if strings.Contains(q, kw) {
				return h.intent
			}
		}
	}
	return ""
}

// foldIntentKey lowercases and drops spaces, dashes and underscores; dots are kept
// because they separate the intent namespace.
func foldIntentKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

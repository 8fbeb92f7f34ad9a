package services

import (
	"regexp"
	"strings"
)

// Placeholder answers a real application form would reject or a recruiter would read as a non-answer.
var forbiddenAnswerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnot provided\b`),
	regexp.MustCompile(`(?i)\bi don['’]t know\b`),
	regexp.MustCompile(`(?i)\bdo not know\b`),
	regexp.MustCompile(`(?i)\bn/?a\b`),
	regexp.MustCompile(`(?i)\bfree text input\b`),
	regexp.MustCompile(`(?i)\bno additional information\b`),
	regexp.MustCompile(`(?i)\bnothing to add\b`),
	regexp.MustCompile(`(?i)\bnot sure\b`),
}

// Options picked when an option list has to be answered without a usable model answer, in priority order.
var safeOptionPreference = []string{
	"Prefer not to say",
	"Decline to answer",
	"Decline to state",
	"Prefer not to disclose",
}

const (
	salaryFallback = "Open to a competitive salary aligned with the role scope, market standards, and total compensation."

	additionalInfoFallback = "I’m genuinely excited about this opportunity and would welcome the chance to discuss how I can " +
		"contribute. I’m quick to learn, dependable, and committed to delivering high-quality work."

	whyFitFallback = "I’m a strong fit because I bring consistent execution, clear communication, and a practical mindset. " +
		"I focus on understanding requirements quickly, delivering reliable outcomes, and collaborating well " +
		"with teams to move work forward efficiently."

	genericFallback = "I’m excited about this role and confident I can add value through strong ownership, adaptability, and " +
		"a results-driven approach. I’m ready to contribute from day one."
)

// IsForbiddenAnswer reports whether ans is empty or a placeholder phrase.
func IsForbiddenAnswer(ans string) bool {
	s := strings.ToLower(strings.TrimSpace(ans))
	if s == "" {
		return true
	}
	for _, re := range forbiddenAnswerPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// RepairAnswer produces a deterministic answer for when the model's is missing or unusable.
//
// With options, the result is always one of them verbatim: a decline-style option if
// present, else the first option that is not itself a placeholder, else the first option.
// Without options the text depends on the intent, falling back to keywords in the question.
func RepairAnswer(question string, options []string, intent string) string {
	if len(options) > 0 {
		for _, pref := range safeOptionPreference {
			for _, opt := range options {
				if strings.EqualFold(strings.TrimSpace(opt), pref) {
					return opt
				}
			}
		}
		for _, opt := range options {
			if !IsForbiddenAnswer(opt) {
				return opt
			}
		}
		return options[0]
	}

	q := strings.ToLower(question)
	switch {
	case intent == IntentDesiredSalary || strings.Contains(q, "salary") || strings.Contains(q, "compensation"):
		return salaryFallback
	case intent == IntentAdditionalInfo || strings.Contains(q, "anything else") || strings.Contains(q, "additional"):
		return additionalInfoFallback
	case intent == IntentWhyFit || strings.Contains(q, "strong fit") || strings.Contains(q, "why should"):
		return whyFitFallback
	default:
		return genericFallback
	}
}

// MatchOption returns the option equal to answer ignoring case and surrounding space.
func MatchOption(answer string, options []string) (string, bool) {
	for _, opt := range options {
		if opt == answer {
			return opt, true
		}
	}
	want := strings.ToLower(strings.TrimSpace(answer))
	for _, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == want {
			return opt, true
		}
	}
	return "", false
}

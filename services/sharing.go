package services

import (
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
)

// SharingPolicy is the privacy boundary for pattern persistence and export.
// Intents on neither list, "unknown" included, are never stored.
type SharingPolicy struct {
	full        map[string]bool
	patternOnly map[string]bool
}

// NewSharingPolicy builds the allow-lists. An intent on both lists is treated as pattern-only.
func NewSharingPolicy(shareable, patternOnly []string) *SharingPolicy {
	p := &SharingPolicy{
		full:        make(map[string]bool, len(shareable)),
		patternOnly: make(map[string]bool, len(patternOnly)),
	}
	for _, intent := range patternOnly {
		p.patternOnly[intent] = true
	}
	for _, intent := range shareable {
		if !p.patternOnly[intent] {
			p.full[intent] = true
		}
	}
	delete(p.full, IntentUnknown)
	delete(p.patternOnly, IntentUnknown)
	return p
}

// IsShareable reports whether patterns for intent may be persisted at all.
func (p *SharingPolicy) IsShareable(intent string) bool {
	return p.full[intent] || p.patternOnly[intent]
}

// Redact strips answer values from patterns whose intent only allows the question to be kept.
func (p *SharingPolicy) Redact(pattern *models.Pattern) {
	if p.patternOnly[pattern.Intent] {
		pattern.AnswerMappings = nil
	}
}

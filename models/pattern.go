package models

import (
	"strings"
	"time"
)

// AnswerMapping 一个规范答案及其在不同表单上出现过的写法
type AnswerMapping struct {
	CanonicalValue string   `json:"canonicalValue"`
	Variants       []string `json:"variants"`
	ContextOptions []string `json:"contextOptions"`
}

// HasVariant reports whether v is already one of the mapping's variants.
func (m *AnswerMapping) HasVariant(v string) bool {
	for _, existing := range m.Variants {
		if existing == v {
			return true
		}
	}
	return false
}

// AddVariants appends the variants not already present, keeping the first-inserted one primary.
func (m *AnswerMapping) AddVariants(variants ...string) {
	for _, v := range variants {
		if !m.HasVariant(v) {
			m.Variants = append(m.Variants, v)
		}
	}
}

// Primary returns the first variant, falling back to the canonical value.
func (m *AnswerMapping) Primary() string {
	for _, v := range m.Variants {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return m.CanonicalValue
}

// Pattern 学习到的 问题→答案 记录
type Pattern struct {
	ID              string          `json:"id,omitempty"`
	QuestionPattern string          `json:"questionPattern"`
	Intent          string          `json:"intent"`
	CanonicalKey    string          `json:"canonicalKey,omitempty"`
	FieldType       string          `json:"fieldType"`
	Confidence      float64         `json:"confidence"`
	Source          string          `json:"source"`
	AnswerMappings  []AnswerMapping `json:"answerMappings"`
	UsageCount      int             `json:"usageCount"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	LastUsed        *time.Time      `json:"lastUsed,omitempty"`
}

// Answer returns the answer a memory hit should serve: the primary variant of the
// first mapping. Empty when the pattern carries no answer data.
func (p *Pattern) Answer() string {
	if len(p.AnswerMappings) == 0 {
		return ""
	}
	return strings.TrimSpace(p.AnswerMappings[0].Primary())
}

// MergeMappings folds incoming mappings into the pattern: same canonical value unions
// variants, anything else is appended.
func (p *Pattern) MergeMappings(incoming []AnswerMapping) {
	for _, in := range incoming {
		merged := false
		for i := range p.AnswerMappings {
			if p.AnswerMappings[i].CanonicalValue == in.CanonicalValue {
				p.AnswerMappings[i].AddVariants(in.Variants...)
				merged = true
				break
			}
		}
		if !merged {
			p.AnswerMappings = append(p.AnswerMappings, in.Clone())
		}
	}
}

// Clone returns a deep copy of the mapping.
func (m AnswerMapping) Clone() AnswerMapping {
	return AnswerMapping{
		CanonicalValue: m.CanonicalValue,
		Variants:       append([]string(nil), m.Variants...),
		ContextOptions: append([]string(nil), m.ContextOptions...),
	}
}

// Clone returns a deep copy so callers never alias the store's snapshot.
func (p Pattern) Clone() Pattern {
	out := p
	if p.AnswerMappings != nil {
		out.AnswerMappings = make([]AnswerMapping, len(p.AnswerMappings))
		for i, m := range p.AnswerMappings {
			out.AnswerMappings[i] = m.Clone()
		}
	}
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		out.CreatedAt = &t
	}
	if p.LastUsed != nil {
		t := *p.LastUsed
		out.LastUsed = &t
	}
	return out
}

// PatternStats 模式库统计
type PatternStats struct {
	TotalPatterns   int            `json:"totalPatterns"`
	IntentBreakdown map[string]int `json:"intentBreakdown"`
	TopPatterns     []Pattern      `json:"topPatterns"`
}

// PatternUploadRequest body of POST /api/patterns/upload
type PatternUploadRequest struct {
	Pattern *Pattern `json:"pattern"`
}

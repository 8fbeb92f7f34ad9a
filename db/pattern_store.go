package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// ErrPatternNotFound is returned by Touch when the pattern is no longer stored.
var ErrPatternNotFound = errors.New("pattern not found")

const topPatternsLimit = 10

// PatternBackend loads and persists the whole pattern collection, in storage order.
type PatternBackend interface {
	Load(ctx context.Context) ([]models.Pattern, error)
	Persist(ctx context.Context, patterns []models.Pattern) error
}

// SharingGate decides which intents may be stored and what of them.
type SharingGate interface {
	IsShareable(intent string) bool
	Redact(p *models.Pattern)
}

// PatternRepository 模式库操作
type PatternRepository interface {
	Search(ctx context.Context, question string) (*models.Pattern, bool)
	Save(ctx context.Context, p models.Pattern) (bool, error)
	Touch(ctx context.Context, hit *models.Pattern) error
	ReadAll(ctx context.Context) []models.Pattern
	Stats(ctx context.Context) models.PatternStats
}

// PatternStore is the shared pattern memory. Every operation reads the backend
// afresh, so edits made to the file between requests are picked up; a backend that
// cannot be read is treated as empty. Mutations are serialized.
type PatternStore struct {
	mu             sync.Mutex
	backend        PatternBackend
	gate           SharingGate
	fuzzyThreshold float64
	log            *utils.Logger

	now   func() time.Time
	newID func() string
}

// NewPatternStore 创建模式库
func NewPatternStore(backend PatternBackend, gate SharingGate, fuzzyThreshold float64, log *utils.Logger) *PatternStore {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &PatternStore{
		backend:        backend,
		gate:           gate,
		fuzzyThreshold: fuzzyThreshold,
		log:            log,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          func() string { return "pattern_" + uuid.New().String() },
	}
}

func (s *PatternStore) snapshot(ctx context.Context) []models.Pattern {
	patterns, err := s.backend.Load(ctx)
	if err != nil {
		s.log.Warn("pattern store unreadable, treating as empty", "error", err)
		return nil
	}
	return patterns
}

// Search looks for a stored pattern answering question. An exact match on the
// normalized text wins; otherwise the first pattern, in storage order, whose word
// overlap reaches the fuzzy threshold.
func (s *PatternStore) Search(ctx context.Context, question string) (*models.Pattern, bool) {
	q := utils.NormalizeQuestion(question)
	if q == "" {
		return nil, false
	}

	s.mu.Lock()
	patterns := s.snapshot(ctx)
	s.mu.Unlock()

	for i := range patterns {
		if utils.NormalizeQuestion(patterns[i].QuestionPattern) == q {
			hit := patterns[i].Clone()
			return &hit, true
		}
	}

	for i := range patterns {
		if utils.WordOverlap(q, patterns[i].QuestionPattern) >= s.fuzzyThreshold {
			hit := patterns[i].Clone()
			return &hit, true
		}
	}

	return nil, false
}

// Save stores p, or merges it into the pattern with the same intent and question.
// It reports false without touching the backend when the intent is not shareable.
func (s *PatternStore) Save(ctx context.Context, p models.Pattern) (bool, error) {
	if !s.gate.IsShareable(p.Intent) {
		s.log.Debug("pattern rejected by sharing gate", "intent", p.Intent)
		return false, nil
	}

	p = p.Clone()
	s.gate.Redact(&p)
	p.QuestionPattern = utils.NormalizeQuestion(p.QuestionPattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	patterns := s.snapshot(ctx)
	now := s.now()

	if idx := indexOfKey(patterns, p.Intent, p.QuestionPattern); idx >= 0 {
		existing := &patterns[idx]
		existing.UsageCount++
		existing.LastUsed = &now
		existing.MergeMappings(p.AnswerMappings)
	} else {
		p.ID = s.newID()
		p.CreatedAt = &now
		p.LastUsed = &now
		p.UsageCount = 1
		if p.Source == "" {
			p.Source = "AI"
		}
		patterns = append(patterns, p)
	}

	if err := s.backend.Persist(ctx, patterns); err != nil {
		return false, fmt.Errorf("persist patterns: %w", err)
	}
	return true, nil
}

// Touch records a reuse of hit: usage count up, lastUsed now.
func (s *PatternStore) Touch(ctx context.Context, hit *models.Pattern) error {
	if hit == nil {
		return ErrPatternNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patterns := s.snapshot(ctx)
	idx := -1
	if hit.ID != "" {
		for i := range patterns {
			if patterns[i].ID == hit.ID {
				idx = i
				break
			}
		}
	} else {
		// hand-edited records may have no id
		idx = indexOfKey(patterns, hit.Intent, utils.NormalizeQuestion(hit.QuestionPattern))
	}
	if idx < 0 {
		return ErrPatternNotFound
	}

	now := s.now()
	patterns[idx].UsageCount++
	patterns[idx].LastUsed = &now

	if err := s.backend.Persist(ctx, patterns); err != nil {
		return fmt.Errorf("persist patterns: %w", err)
	}
	return nil
}

// ReadAll returns every stored pattern, in storage order.
func (s *PatternStore) ReadAll(ctx context.Context) []models.Pattern {
	s.mu.Lock()
	patterns := s.snapshot(ctx)
	s.mu.Unlock()

	out := make([]models.Pattern, len(patterns))
	for i := range patterns {
		out[i] = patterns[i].Clone()
	}
	return out
}

// Stats 统计: total, per-intent counts and the most used patterns
func (s *PatternStore) Stats(ctx context.Context) models.PatternStats {
	patterns := s.ReadAll(ctx)
	total := len(patterns)

	breakdown := make(map[string]int)
	for _, p := range patterns {
		breakdown[p.Intent]++
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].UsageCount > patterns[j].UsageCount
	})
	if len(patterns) > topPatternsLimit {
		patterns = patterns[:topPatternsLimit]
	}

	return models.PatternStats{
		TotalPatterns:   total,
		IntentBreakdown: breakdown,
		TopPatterns:     patterns,
	}
}

// indexOfKey finds the pattern with the same intent and, ignoring case, the same question.
func indexOfKey(patterns []models.Pattern, intent, question string) int {
	for i := range patterns {
		if patterns[i].Intent == intent && strings.EqualFold(utils.NormalizeQuestion(patterns[i].QuestionPattern), question) {
			return i
		}
	}
	return -1
}

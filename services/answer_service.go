package services

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/db"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// ReasoningFromMemory marks answers served from pattern memory.
const ReasoningFromMemory = "Retrieved from Pattern Memory"

// AnswerService answers a form question: pattern memory first, then the model,
// then remembers confident shareable model answers.
type AnswerService struct {
	store            db.PatternRepository
	predictor        *Predictor
	memoryConfidence float64
	saveThreshold    float64
	log              *utils.Logger

	flight singleflight.Group
}

// NewAnswerService 创建问答服务
func NewAnswerService(store db.PatternRepository, predictor *Predictor, memoryConfidence, saveThreshold float64, log *utils.Logger) *AnswerService {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &AnswerService{
		store:            store,
		predictor:        predictor,
		memoryConfidence: memoryConfidence,
		saveThreshold:    saveThreshold,
		log:              log,
	}
}

// Answer returns the response for one already validated request.
func (s *AnswerService) Answer(ctx context.Context, req *models.PredictionRequest) models.PredictionResponse {
	if res, ok := s.fromMemory(ctx, req); ok {
		return models.NewPredictionResponse(res)
	}

	// the shared call must outlive any single caller that gives up
	shared := context.WithoutCancel(ctx)
	v, _, _ := s.flight.Do(flightKey(req), func() (any, error) {
		res := s.predictor.Predict(shared, req)
		s.remember(shared, req, res)
		return res, nil
	})
	return models.NewPredictionResponse(v.(models.PredictionResult))
}

// fromMemory serves a stored answer when one fits the request. Hits whose answer is
// empty, a placeholder, or not among the offered options are left to the model.
func (s *AnswerService) fromMemory(ctx context.Context, req *models.PredictionRequest) (models.PredictionResult, bool) {
	hit, ok := s.store.Search(ctx, req.Question)
	if !ok {
		memoryLookupsTotal.WithLabelValues("miss").Inc()
		return models.PredictionResult{}, false
	}

	answer := hit.Answer()
	if IsForbiddenAnswer(answer) {
		memoryLookupsTotal.WithLabelValues("unusable").Inc()
		return models.PredictionResult{}, false
	}
	if len(req.Options) > 0 {
		matched, ok := MatchOption(answer, req.Options)
		if !ok {
			memoryLookupsTotal.WithLabelValues("unusable").Inc()
			return models.PredictionResult{}, false
		}
		answer = matched
	}

	if err := s.store.Touch(ctx, hit); err != nil {
		s.log.Warn("failed to record pattern reuse", "pattern_id", hit.ID, "error", err)
	}
	memoryLookupsTotal.WithLabelValues("hit").Inc()
	s.log.Info("answered from pattern memory", "pattern_id", hit.ID, "intent", hit.Intent)

	return models.PredictionResult{
		Answer:     answer,
		Confidence: s.memoryConfidence,
		Reasoning:  ReasoningFromMemory,
		Intent:     hit.Intent,
	}, true
}

// remember stores a model answer that is confident enough and has a real intent.
// The store's sharing gate still decides whether it is kept.
func (s *AnswerService) remember(ctx context.Context, req *models.PredictionRequest, res models.PredictionResult) {
	if res.Answer == "" || res.Confidence < s.saveThreshold || res.Intent == IntentUnknown || !IsAllowedIntent(res.Intent) {
		patternSavesTotal.WithLabelValues("skipped").Inc()
		return
	}

	pattern := models.Pattern{
		QuestionPattern: req.Question,
		Intent:          res.Intent,
		FieldType:       req.FieldType,
		Confidence:      res.Confidence,
		Source:          "AI",
		AnswerMappings: []models.AnswerMapping{{
			CanonicalValue: res.Answer,
			Variants:       []string{res.Answer},
			ContextOptions: append([]string(nil), req.Options...),
		}},
	}

	saved, err := s.store.Save(ctx, pattern)
	switch {
	case err != nil:
		patternSavesTotal.WithLabelValues("error").Inc()
		s.log.Error("failed to save pattern", "intent", res.Intent, "error", err)
	case !saved:
		patternSavesTotal.WithLabelValues("rejected").Inc()
		s.log.Debug("pattern not shareable", "intent", res.Intent)
	default:
		patternSavesTotal.WithLabelValues("saved").Inc()
		s.log.Info("pattern saved", "intent", res.Intent)
	}
}

// flightKey identifies requests that may share one model call: same question,
// same options, same profile.
func flightKey(req *models.PredictionRequest) string {
	profile, _ := json.Marshal(req.UserProfile)
	return utils.NormalizeQuestion(req.Question) + "\x00" + strings.Join(req.Options, "\x1f") + "\x00" + string(profile)
}

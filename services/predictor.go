package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

const (
	formatFallbackConfidence = 0.78
	repairConfidenceFloor    = 0.75

	reasoningFormatFallback = "Fallback response due to formatting issue, optimized for job application success."
	reasoningRepaired       = "Repaired answer to avoid placeholders and improve hiring outcome."
	reasoningDefault        = "Answer chosen to maximize hiring chances while staying professional and ATS-safe."
	reasoningTimeout        = "AI request timed out"
)

// Predictor asks the answer model and turns whatever comes back into a usable answer.
type Predictor struct {
	model   AnswerModel
	timeout time.Duration
	log     *utils.Logger
}

// NewPredictor 创建预测器; timeout bounds each model call, zero means no bound beyond ctx.
func NewPredictor(model AnswerModel, timeout time.Duration, log *utils.Logger) *Predictor {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &Predictor{model: model, timeout: timeout, log: log}
}

// Predict never fails: model errors, timeouts and garbage replies all end in a repaired answer.
func (p *Predictor) Predict(ctx context.Context, req *models.PredictionRequest) models.PredictionResult {
	reply := p.ask(ctx, BuildPrompt(req))
	return ResolveReply(req.Question, req.Options, reply)
}

func (p *Predictor) ask(ctx context.Context, prompt string) ModelReply {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := p.model.Complete(ctx, prompt)
	elapsed := time.Since(start)
	modelLatency.Observe(elapsed.Seconds())

	var reply ModelReply
	switch {
	case err == nil:
		reply = ParseModelReply(raw)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		reply = ModelReply{Status: ReplyTimeout, Err: err}
	default:
		reply = ModelReply{Status: ReplyUnavailable, Err: err}
	}
	modelRepliesTotal.WithLabelValues(reply.Status.String()).Inc()

	if reply.Status == ReplyOK {
		p.log.Debug("model replied", "model", p.model.Name(), "duration", elapsed)
	} else {
		p.log.Warn("model reply unusable",
			"model", p.model.Name(),
			"status", reply.Status.String(),
			"duration", elapsed,
			"error", reply.Err,
		)
	}
	return reply
}

// ResolveReply applies the answer policy to a model reply. The result always has an
// allowed intent and a non-empty answer; with options, the answer is one of them verbatim.
// Confidence is within [0.70, 0.99] except for 0.0 when no model answer was obtained.
func ResolveReply(question string, options []string, reply ModelReply) models.PredictionResult {
	switch reply.Status {
	case ReplyUnavailable, ReplyTimeout:
		intent := NormalizeIntent("", question)
		repairsTotal.WithLabelValues(reply.Status.String()).Inc()
		return models.PredictionResult{
			Answer:     RepairAnswer(question, options, intent),
			Confidence: 0.0,
			Reasoning:  failureReasoning(reply),
			Intent:     intent,
		}
	case ReplyMalformed:
		intent := NormalizeIntent("", question)
		repairsTotal.WithLabelValues("malformed").Inc()
		return models.PredictionResult{
			Answer:     RepairAnswer(question, options, intent),
			Confidence: formatFallbackConfidence,
			Reasoning:  reasoningFormatFallback,
			Intent:     intent,
		}
	}

	intent := NormalizeIntent(reply.Intent, question)
	conf := ClampConfidence(reply.Confidence)
	answer := reply.Answer

	if IsForbiddenAnswer(answer) {
		repairsTotal.WithLabelValues("forbidden").Inc()
		return models.PredictionResult{
			Answer:     RepairAnswer(question, options, intent),
			Confidence: math.Max(conf, repairConfidenceFloor),
			Reasoning:  reasoningRepaired,
			Intent:     intent,
		}
	}

	if len(options) > 0 {
		if matched, ok := MatchOption(answer, options); ok {
			answer = matched
		} else {
			repairsTotal.WithLabelValues("option_mismatch").Inc()
			answer = RepairAnswer(question, options, intent)
			conf = math.Max(conf, repairConfidenceFloor)
		}
	}

	if !IsAllowedIntent(intent) {
		intent = IntentUnknown
	}

	reasoning := reply.Reasoning
	if reasoning == "" {
		reasoning = reasoningDefault
	}

	return models.PredictionResult{
		Answer:     answer,
		Confidence: conf,
		Reasoning:  reasoning,
		Intent:     intent,
	}
}

func failureReasoning(reply ModelReply) string {
	switch {
	case reply.Status == ReplyTimeout:
		return reasoningTimeout
	case reply.Err == nil:
		return "AI error: no reply"
	case errors.Is(reply.Err, ErrModelUnavailable):
		return ErrModelUnavailable.Error()
	default:
		return "AI error: " + reply.Err.Error()
	}
}

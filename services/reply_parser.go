package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ReplyStatus classifies what came back from the answer model.
type ReplyStatus int

const (
	ReplyOK ReplyStatus = iota
	ReplyMalformed
	ReplyTimeout
	ReplyUnavailable
)

func (s ReplyStatus) String() string {
	switch s {
	case ReplyOK:
		return "ok"
	case ReplyMalformed:
		return "malformed"
	case ReplyTimeout:
		return "timeout"
	case ReplyUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// defaultModelConfidence stands in for a confidence the model left out or garbled.
const defaultModelConfidence = 0.75

// ModelReply is one model call's outcome. Fields other than Status and Err are only
// meaningful for ReplyOK.
type ModelReply struct {
	Status     ReplyStatus
	Answer     string
	Confidence float64
	Reasoning  string
	Intent     string
	Err        error
}

// ParseModelReply decodes the model's raw text. Markdown fences are stripped; anything
// that is not then a JSON object is ReplyMalformed.
func ParseModelReply(raw string) ModelReply {
	clean := stripCodeFences(raw)
	if clean == "" || !gjson.Valid(clean) {
		return ModelReply{Status: ReplyMalformed}
	}
	doc := gjson.Parse(clean)
	if !doc.IsObject() {
		return ModelReply{Status: ReplyMalformed}
	}

	return ModelReply{
		Status:     ReplyOK,
		Answer:     strings.TrimSpace(scalarText(doc.Get("answer"))),
		Confidence: parseConfidence(doc.Get("confidence")),
		Reasoning:  strings.TrimSpace(scalarText(doc.Get("reasoning"))),
		Intent:     strings.TrimSpace(scalarText(doc.Get("intent"))),
	}
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// scalarText returns strings as-is and numbers in their JSON spelling; null, bools,
// objects and arrays give "".
func scalarText(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

// parseConfidence accepts a number or a numeric string; anything else is the default.
func parseConfidence(r gjson.Result) float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return defaultModelConfidence
		}
		v = f
	default:
		return defaultModelConfidence
	}
	if math.IsNaN(v) {
		return defaultModelConfidence
	}
	return v
}

// ClampConfidence bounds a model-reported confidence to [0.70, 0.99].
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) {
		return defaultModelConfidence
	}
	return math.Max(minModelConfidence, math.Min(v, maxModelConfidence))
}

const (
	minModelConfidence = 0.70
	maxModelConfidence = 0.99
)

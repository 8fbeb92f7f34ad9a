package models

// PredictionRequest body of POST /predict
type PredictionRequest struct {
	Question    string           `json:"question"`
	Options     []string         `json:"options"`
	FieldType   string           `json:"fieldType"`
	UserProfile ApplicantProfile `json:"userProfile"`
}

// PredictionResult 校验修复之后的最终答案
type PredictionResult struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Intent     string  `json:"intent"`
}

// PredictionResponse is the wire shape of POST /predict.
type PredictionResponse struct {
	PredictionResult
	IsNewIntent         bool    `json:"isNewIntent"`
	SuggestedIntentName *string `json:"suggestedIntentName"`
}

// NewPredictionResponse wraps a result in the /predict envelope.
func NewPredictionResponse(r PredictionResult) PredictionResponse {
	return PredictionResponse{PredictionResult: r}
}

package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
)

const (
	maxQuestionLen = 2000
	maxOptions     = 200
	maxOptionLen   = 500
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// ValidatePredictionRequest 验证预测请求, 并清理问题文本
func ValidatePredictionRequest(req *models.PredictionRequest) error {
	req.Question = CleanQuestionText(req.Question)
	if req.Question == "" {
		return fmt.Errorf("question is required")
	}
	if len(req.Question) > maxQuestionLen {
		return fmt.Errorf("question too long (max %d characters)", maxQuestionLen)
	}

	if len(req.Options) > maxOptions {
		return fmt.Errorf("too many options (max %d)", maxOptions)
	}
	for _, opt := range req.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("options must not be blank")
		}
		if len(opt) > maxOptionLen {
			return fmt.Errorf("option too long (max %d characters)", maxOptionLen)
		}
	}

	req.FieldType = strings.TrimSpace(req.FieldType)
	return nil
}

// ValidatePattern 验证上传的模式
func ValidatePattern(p *models.Pattern) error {
	if p == nil {
		return fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(p.QuestionPattern) == "" {
		return fmt.Errorf("questionPattern is required")
	}
	if len(p.QuestionPattern) > maxQuestionLen {
		return fmt.Errorf("questionPattern too long (max %d characters)", maxQuestionLen)
	}
	if strings.TrimSpace(p.Intent) == "" {
		return fmt.Errorf("intent is required")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence must be within [0,1], got %v", p.Confidence)
	}
	for _, m := range p.AnswerMappings {
		if strings.TrimSpace(m.CanonicalValue) == "" {
			return fmt.Errorf("answerMappings entries need a canonicalValue")
		}
	}
	return nil
}

// ValidateEmail checks the shape of an address used as a profile key.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email: %s", email)
	}
	return nil
}

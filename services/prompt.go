package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
)

const promptTemplate = `
You are a HUMAN job applicant.
You have 5+ years of EXPERIENCE in JOB APPLYING (NOT professional work experience).
This job matters a lot to you, so you answer strategically to maximize hiring chances.

NON-NEGOTIABLE RULES:
- NEVER say: "I don't know", "Not provided", "N/A", "Not sure", "No additional information at this time"
- NEVER leave the answer blank
- If details are missing, make safe, positive, recruiter-friendly assumptions
- Keep opportunities open (flexibility, willingness, enthusiasm)

USER PROFILE (may be incomplete):
%s

QUESTION:
%s
%s

ALLOWED INTENTS (MUST SELECT EXACTLY ONE):
%s

URL/LINK QUESTIONS (MANDATORY):
- For LinkedIn, Portfolio, Website, GitHub, or any URL/link questions
- Return ONLY the URL itself (e.g., "https://linkedin.com/in/username")
- Do NOT add any description, explanation, or surrounding text
- Just the pure URL string

SALARY QUESTIONS (MANDATORY):
- NEVER describe the input type
- Use a negotiation-friendly, market-aligned statement (unless exact salary is known)

OPEN-ENDED QUESTIONS (MANDATORY):
- Never say you have nothing to add
- Reinforce motivation + value + professionalism

MULTIPLE CHOICE (MANDATORY):
- Select EXACTLY ONE option
- MUST match one of the provided options EXACTLY (copy/paste)

CONFIDENCE RULES (MANDATORY):
- confidence must be between 0.70 and 0.99
- if inferred: 0.75-0.85
- if directly supported by profile: 0.90-0.99

RESPONSE FORMAT (JSON ONLY, NO EXTRA TEXT):
{
  "answer": "string",
  "confidence": 0.70,
  "reasoning": "short practical reason why this helps hiring",
  "intent": "one_allowed_intent"
}
`

// BuildPrompt renders the instruction sent to the answer model for one question.
// It must never name an input type ("free text ..."): models echo it back as the answer.
func BuildPrompt(req *models.PredictionRequest) string {
	profile, err := json.MarshalIndent(req.UserProfile, "", "  ")
	if err != nil {
		profile = []byte("{}")
	}

	var options string
	if len(req.Options) > 0 {
		var b strings.Builder
		b.WriteString("\n\nAVAILABLE OPTIONS (CHOOSE EXACTLY ONE, COPY EXACTLY):")
		for _, o := range req.Options {
			b.WriteString("\n- ")
			b.WriteString(o)
		}
		options = b.String()
	} else {
		options = "\n\nThis question requires a written response."
	}

	intents := AllowedIntents()
	for i, intent := range intents {
		intents[i] = "- " + intent
	}

	return fmt.Sprintf(promptTemplate, profile, req.Question, options, strings.Join(intents, "\n"))
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicantProfileUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ApplicantProfile
	}{
		{
			name:     "Named fields",
			input:    `{"firstName":"Ana","city":"Austin"}`,
			expected: ApplicantProfile{FirstName: "Ana", City: "Austin"},
		},
		{
			name:  "Unknown keys kept",
			input: `{"firstName":"Ana","yearsExperience":5}`,
			expected: ApplicantProfile{
				FirstName: "Ana",
				Extra:     map[string]json.RawMessage{"yearsExperience": json.RawMessage(`5`)},
			},
		},
		{
			name:  "Numeric phone kept as sent",
			input: `{"firstName":"Ana","phone":5551234567}`,
			expected: ApplicantProfile{
				FirstName: "Ana",
				Extra:     map[string]json.RawMessage{"phone": json.RawMessage(`5551234567`)},
			},
		},
		{
			name:  "Object under a named key",
			input: `{"city":{"name":"Austin"}}`,
			expected: ApplicantProfile{
				Extra: map[string]json.RawMessage{"city": json.RawMessage(`{"name":"Austin"}`)},
			},
		},
		{
			name:     "Null named field",
			input:    `{"lastName":null,"country":"US"}`,
			expected: ApplicantProfile{Country: "US"},
		},
		{
			name:     "Null profile",
			input:    `null`,
			expected: ApplicantProfile{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ApplicantProfile
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApplicantProfileRejectsNonObject(t *testing.T) {
	var got ApplicantProfile
	assert.Error(t, json.Unmarshal([]byte(`["Ana"]`), &got))
}

func TestApplicantProfileWritesBackUnchanged(t *testing.T) {
	input := `{"city":"Austin","phone":5551234567,"portfolio":"https://ana.dev"}`

	var p ApplicantProfile
	require.NoError(t, json.Unmarshal([]byte(input), &p))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestNewPredictionResponse(t *testing.T) {
	resp := NewPredictionResponse(PredictionResult{Answer: "Yes", Confidence: 0.9, Reasoning: "r", Intent: "eeo.veteran"})

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"answer": "Yes",
		"confidence": 0.9,
		"reasoning": "r",
		"intent": "eeo.veteran",
		"isNewIntent": false,
		"suggestedIntentName": null
	}`, string(out))
}

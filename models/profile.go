package models

import (
	"encoding/json"
)

// ApplicantProfile is the profile the extension sends along with each question.
// Well-known fields are named; everything else the extension collects lands in Extra
// and is written back out unchanged.
type ApplicantProfile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// applicantFields has the same fields but none of the methods, so it marshals with the default codec.
type applicantFields ApplicantProfile

func (p *ApplicantProfile) namedField(key string) *string {
	switch key {
	case "firstName":
		return &p.FirstName
	case "lastName":
		return &p.LastName
	case "email":
		return &p.Email
	case "phone":
		return &p.Phone
	case "linkedin":
		return &p.LinkedIn
	case "city":
		return &p.City
	case "state":
		return &p.State
	case "country":
		return &p.Country
	}
	return nil
}

// UnmarshalJSON splits the object into named fields and the opaque extension map.
// A well-known key holding something other than a string (a numeric phone, say)
// is kept in Extra as sent.
func (p *ApplicantProfile) UnmarshalJSON(data []byte) error {
	*p = ApplicantProfile{}
	if string(data) == "null" {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for k, v := range raw {
		if field := p.namedField(k); field != nil {
			if string(v) == "null" {
				continue
			}
			if err := json.Unmarshal(v, field); err == nil {
				continue
			}
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes named fields and extension keys as one flat object.
func (p ApplicantProfile) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(applicantFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}

	out := make(map[string]json.RawMessage, len(p.Extra)+8)
	for k, v := range p.Extra {
		out[k] = v
	}
	var named map[string]json.RawMessage
	if err := json.Unmarshal(known, &named); err != nil {
		return nil, err
	}
	for k, v := range named {
		out[k] = v
	}
	return json.Marshal(out)
}

// IsEmpty reports whether the profile carries no data at all.
func (p ApplicantProfile) IsEmpty() bool {
	return p.FirstName == "" && p.LastName == "" && p.Email == "" && p.Phone == "" &&
		p.LinkedIn == "" && p.City == "" && p.State == "" && p.Country == "" && len(p.Extra) == 0
}

// UserProfile 用户资料 (POST /api/user-data/save)
type UserProfile struct {
	Email             string           `json:"email"`
	ProfileData       ApplicantProfile `json:"profile_data"`
	ResumeBase64      *string          `json:"resume_base64"`
	CoverLetterBase64 *string          `json:"cover_letter_base64"`
}

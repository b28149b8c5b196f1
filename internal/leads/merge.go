// Package leads merges extracted visitor details into session lead records and
// coordinates at-most-once dispatch of completed leads.
package leads

import (
	"strings"

	"leadchat_backend/internal/session"
	"leadchat_backend/platform/phone"
)

// Extracted is the structured output of a lead extraction pass. Empty fields
// mean the conversation has not revealed that detail yet.
type Extracted struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessType string `json:"businessType"`
	ProjectGoal  string `json:"projectGoal"`
}

// Merge folds extracted details into the lead record. Each field keeps its
// first non-empty value; later extractions never overwrite earlier ones. Once
// the email has been validated it is frozen regardless of what extraction saw.
func Merge(info *session.LeadInfo, extracted Extracted, emailValidated bool) {
	if info.Name == "" {
		name := strings.TrimSpace(extracted.Name)
		if name == "" && extracted.Email != "" {
			name = nameFromEmail(extracted.Email)
		}
		info.Name = name
	}
	if info.Email == "" && !emailValidated {
		info.Email = strings.ToLower(strings.TrimSpace(extracted.Email))
	}
	if info.Phone == "" && extracted.Phone != "" {
		info.Phone = phone.NormalizeE164(extracted.Phone)
	}
	if info.BusinessType == "" {
		info.BusinessType = strings.TrimSpace(extracted.BusinessType)
	}
	if info.ProjectGoal == "" {
		info.ProjectGoal = strings.TrimSpace(extracted.ProjectGoal)
	}
}

// nameFromEmail derives a display name from the address local part:
// "jane.doe" becomes "Jane Doe".
func nameFromEmail(email string) string {
	localPart, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

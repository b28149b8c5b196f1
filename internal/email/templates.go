package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type followUpEmailData struct {
	Name         string
	BusinessType string
	ProjectGoal  string
	Topics       string
	WebsiteURL   string
	CompanyName  string
	SentAt       string
	Year         int
}

// DisplayName resolves the greeting name, falling back to a cleaned-up email
// local part ("jane.doe@x.com" greets "jane doe").
func DisplayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	localPart, _, _ := strings.Cut(email, "@")
	return strings.NewReplacer(".", " ", "_", " ").Replace(localPart)
}

func renderFollowUp(followUp FollowUp, companyName, websiteURL string) (string, error) {
	now := time.Now()
	data := followUpEmailData{
		Name:         DisplayName(followUp.Name, followUp.Email),
		BusinessType: followUp.BusinessType,
		ProjectGoal:  followUp.ProjectGoal,
		Topics:       strings.Join(followUp.Topics, ", "),
		WebsiteURL:   websiteURL,
		CompanyName:  companyName,
		SentAt:       now.Format("Jan 2, 2006 3:04 PM"),
		Year:         now.Year(),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "followup.html", data); err != nil {
		return "", fmt.Errorf("render follow-up template: %w", err)
	}
	return buf.String(), nil
}

var (
	htmlTags   = regexp.MustCompile(`<[^>]*>`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// stripHTML produces the plain-text alternative body.
func stripHTML(html string) string {
	text := htmlTags.ReplaceAllString(html, " ")
	return strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
}

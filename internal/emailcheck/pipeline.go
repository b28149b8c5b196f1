// Package emailcheck implements the staged email validation pipeline used
// during lead capture: throttling, voice transcript cleanup, syntax checking,
// typo suggestion against common providers and deliverability verification.
package emailcheck

import (
	"context"
	"net/mail"
	"regexp"
	"strings"

	"leadchat_backend/platform/logger"
	"leadchat_backend/platform/textdist"
)

// Confidence expresses how much trust the pipeline places in its verdict.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the pipeline verdict for one candidate address.
type Result struct {
	// IsValid reports whether the address was accepted.
	IsValid bool
	// Message is the conversational reply explaining the verdict.
	Message string
	// Suggestions holds corrected addresses when a likely typo was found.
	Suggestions []string
	// Confidence tiers the verdict by how conclusive the checks were.
	Confidence Confidence
	// ShouldContinueSales indicates the conversation should proceed to the
	// dialogue engine rather than consuming the turn on a clarification.
	ShouldContinueSales bool
}

// maxAttempts is the number of validation attempts allowed per session before
// the pipeline stops engaging with new candidates.
const maxAttempts = 5

const throttleMessage = "I notice you're trying many emails. Let's continue with the last valid one, or feel free to contact us directly!"

// commonDomains are the providers checked for near-miss typos, in priority order.
var commonDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"live.com",
	"icloud.com",
	"protonmail.com",
}

// typoThreshold is the maximum edit distance treated as a likely typo.
const typoThreshold = 2

var (
	spokenAt    = regexp.MustCompile(`\bat\b`)
	spokenDot   = regexp.MustCompile(`\bdot\b`)
	whitespace  = regexp.MustCompile(`\s+`)
	nonEmailRun = regexp.MustCompile(`[^\w@.-]`)
)

// NormalizeVoice converts a spoken-form transcript fragment into a plausible
// address: "jane at acme dot com" becomes "jane@acme.com". Spoken tokens are
// replaced at word boundaries before whitespace is stripped so that letters
// inside words are left alone.
func NormalizeVoice(raw string) string {
	s := strings.ToLower(raw)
	s = spokenAt.ReplaceAllString(s, "@")
	s = spokenDot.ReplaceAllString(s, ".")
	s = whitespace.ReplaceAllString(s, "")
	s = nonEmailRun.ReplaceAllString(s, "")
	return s
}

// Pipeline validates candidate addresses in stages. Zero or more stages run
// depending on prior outcomes; later stages are skipped once a verdict exists.
type Pipeline struct {
	verifier Verifier
	log      *logger.Logger
}

// NewPipeline creates a pipeline. A nil verifier disables the deliverability
// stage, which then behaves as an inconclusive check.
func NewPipeline(verifier Verifier, log *logger.Logger) *Pipeline {
	return &Pipeline{verifier: verifier, log: log}
}

// Validate runs the staged checks on a candidate address. attempt is the
// 1-based count of validation attempts for the session including this one.
func (p *Pipeline) Validate(ctx context.Context, candidate string, fromVoice bool, attempt int) Result {
	if attempt > maxAttempts {
		return Result{
			Message:             throttleMessage,
			Confidence:          ConfidenceLow,
			ShouldContinueSales: true,
		}
	}

	email := strings.ToLower(strings.TrimSpace(candidate))
	if fromVoice {
		email = NormalizeVoice(email)
	}

	if !syntaxOK(email) {
		return Result{
			Message: pick(fromVoice,
				"I heard an email but couldn't quite catch it clearly. Could you spell it out for me?",
				"Could you double-check that email address?"),
			Confidence: ConfidenceLow,
		}
	}

	localPart, domain, _ := strings.Cut(email, "@")
	if suggestion := closestDomain(domain); suggestion != "" && suggestion != domain {
		suggested := localPart + "@" + suggestion
		return Result{
			Message:     "Did you mean " + suggested + "?",
			Suggestions: []string{suggested},
			Confidence:  ConfidenceLow,
		}
	}

	return p.verify(ctx, email, fromVoice)
}

func (p *Pipeline) verify(ctx context.Context, email string, fromVoice bool) Result {
	if p.verifier == nil {
		return Result{
			IsValid: true,
			Message: pick(fromVoice,
				"Perfect! A team member will reach out shortly.",
				"Perfect. A team member will reach out shortly."),
			Confidence:          ConfidenceLow,
			ShouldContinueSales: true,
		}
	}

	outcome, err := p.verifier.Verify(ctx, email)
	if err != nil {
		if p.log != nil {
			p.log.CollaboratorError("email_verifier", "verify", err)
		}
		// Fail open: never lose a lead to a verifier outage.
		return Result{
			IsValid: true,
			Message: pick(fromVoice,
				"Thanks! Our team will contact you within 24 hours.",
				"Thanks. Our team will contact you within 24 hours."),
			Confidence:          ConfidenceLow,
			ShouldContinueSales: true,
		}
	}

	switch outcome {
	case OutcomeDeliverable:
		return Result{
			IsValid: true,
			Message: pick(fromVoice,
				"Perfect! I got your email. A team member will reach out within 24 hours with your personalized strategy.",
				"Perfect. A team member will reach out within 24 hours with your personalized strategy."),
			Confidence:          ConfidenceHigh,
			ShouldContinueSales: true,
		}
	case OutcomeUndeliverable:
		return Result{
			Message: pick(fromVoice,
				"I heard an email but it doesn't seem to be active. Could you try saying another one?",
				"That email doesn't seem to be active. Mind trying another one?"),
			Confidence: ConfidenceHigh,
		}
	case OutcomeRisky:
		return Result{
			IsValid: true,
			Message: pick(fromVoice,
				"Got it! Our team will reach out shortly with next steps.",
				"Got it. Our team will reach out shortly with next steps."),
			Confidence:          ConfidenceMedium,
			ShouldContinueSales: true,
		}
	default:
		// Inconclusive verdicts are accepted at the lowest trust tier.
		return Result{
			IsValid: true,
			Message: pick(fromVoice,
				"Thanks! A team member will be in touch within 24 hours.",
				"Thanks. A team member will be in touch within 24 hours."),
			Confidence:          ConfidenceLow,
			ShouldContinueSales: true,
		}
	}
}

func syntaxOK(email string) bool {
	if email == "" || strings.Count(email, "@") != 1 {
		return false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	_, domain, _ := strings.Cut(email, "@")
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func closestDomain(domain string) string {
	for _, common := range commonDomains {
		if textdist.Levenshtein(domain, common) <= typoThreshold {
			return common
		}
	}
	return ""
}

func pick(fromVoice bool, voice, text string) string {
	if fromVoice {
		return voice
	}
	return text
}

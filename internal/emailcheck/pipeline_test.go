package emailcheck

import (
	"context"
	"errors"
	"testing"
)

type fakeVerifier struct {
	outcome Outcome
	err     error
	calls   int
	last    string
}

func (f *fakeVerifier) Verify(_ context.Context, email string) (Outcome, error) {
	f.calls++
	f.last = email
	return f.outcome, f.err
}

func TestNormalizeVoice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spoken at and dot", "jane at acme dot com", "jane@acme.com"},
		{"already written", "jane@acme.com", "jane@acme.com"},
		{"mixed case with noise", "Jane AT Acme DOT Com!", "jane@acme.com"},
		{"at inside a word stays", "kat@matrix.com", "kat@matrix.com"},
		{"dot inside a word stays", "dotty@gmail.com", "dotty@gmail.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeVoice(tt.in); got != tt.want {
				t.Errorf("NormalizeVoice(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateThrottleShortCircuits(t *testing.T) {
	fv := &fakeVerifier{outcome: OutcomeDeliverable}
	p := NewPipeline(fv, nil)

	res := p.Validate(context.Background(), "real@gmail.com", false, 6)

	if res.IsValid {
		t.Error("throttled attempt should not validate")
	}
	if !res.ShouldContinueSales {
		t.Error("throttled attempt should still continue the conversation")
	}
	if res.Message != throttleMessage {
		t.Errorf("got message %q", res.Message)
	}
	if fv.calls != 0 {
		t.Errorf("verifier called %d times on a throttled attempt", fv.calls)
	}
}

func TestValidateSyntaxRejection(t *testing.T) {
	fv := &fakeVerifier{outcome: OutcomeDeliverable}
	p := NewPipeline(fv, nil)

	for _, candidate := range []string{"", "plainword", "two@@ats.com", "no-domain@", "@nolocal.com", "trailing@dot."} {
		res := p.Validate(context.Background(), candidate, false, 1)
		if res.IsValid {
			t.Errorf("candidate %q should be rejected", candidate)
		}
		if res.ShouldContinueSales {
			t.Errorf("candidate %q should consume the turn", candidate)
		}
	}
	if fv.calls != 0 {
		t.Errorf("verifier called %d times for syntactically invalid input", fv.calls)
	}
}

func TestValidateSuggestsTypoWithoutVerifying(t *testing.T) {
	fv := &fakeVerifier{outcome: OutcomeDeliverable}
	p := NewPipeline(fv, nil)

	res := p.Validate(context.Background(), "john@gmial.com", false, 1)

	if res.IsValid {
		t.Error("typo candidate should not validate")
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0] != "john@gmail.com" {
		t.Errorf("suggestions = %v, want [john@gmail.com]", res.Suggestions)
	}
	if res.Message != "Did you mean john@gmail.com?" {
		t.Errorf("got message %q", res.Message)
	}
	if fv.calls != 0 {
		t.Error("verifier should be skipped when a typo suggestion exists")
	}
}

func TestValidateExactCommonDomainGoesToVerifier(t *testing.T) {
	fv := &fakeVerifier{outcome: OutcomeDeliverable}
	p := NewPipeline(fv, nil)

	res := p.Validate(context.Background(), "john@gmail.com", false, 1)

	if !res.IsValid || res.Confidence != ConfidenceHigh {
		t.Errorf("deliverable verdict: valid=%v confidence=%s", res.IsValid, res.Confidence)
	}
	if fv.calls != 1 {
		t.Errorf("verifier calls = %d, want 1", fv.calls)
	}
}

func TestValidateVerifierTiers(t *testing.T) {
	tests := []struct {
		name           string
		outcome        Outcome
		err            error
		wantValid      bool
		wantConfidence Confidence
		wantContinue   bool
	}{
		{"deliverable", OutcomeDeliverable, nil, true, ConfidenceHigh, true},
		{"undeliverable", OutcomeUndeliverable, nil, false, ConfidenceHigh, false},
		{"risky", OutcomeRisky, nil, true, ConfidenceMedium, true},
		{"unknown", OutcomeUnknown, nil, true, ConfidenceLow, true},
		{"transport error fails open", OutcomeUnknown, errors.New("timeout"), true, ConfidenceLow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(&fakeVerifier{outcome: tt.outcome, err: tt.err}, nil)
			res := p.Validate(context.Background(), "person@example.org", false, 1)

			if res.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", res.IsValid, tt.wantValid)
			}
			if res.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %s, want %s", res.Confidence, tt.wantConfidence)
			}
			if res.ShouldContinueSales != tt.wantContinue {
				t.Errorf("ShouldContinueSales = %v, want %v", res.ShouldContinueSales, tt.wantContinue)
			}
		})
	}
}

func TestValidateNoVerifierAcceptsLowConfidence(t *testing.T) {
	p := NewPipeline(nil, nil)

	res := p.Validate(context.Background(), "person@example.org", false, 1)

	if !res.IsValid || res.Confidence != ConfidenceLow || !res.ShouldContinueSales {
		t.Errorf("unexpected result without verifier: %+v", res)
	}
}

func TestValidateVoiceNormalizesBeforeChecking(t *testing.T) {
	fv := &fakeVerifier{outcome: OutcomeDeliverable}
	p := NewPipeline(fv, nil)

	res := p.Validate(context.Background(), "jane at acme dot com", true, 1)

	if !res.IsValid {
		t.Fatalf("spoken email rejected: %+v", res)
	}
	if fv.last != "jane@acme.com" {
		t.Errorf("verifier received %q, want %q", fv.last, "jane@acme.com")
	}
}

func TestValidateVoiceMessagesDiffer(t *testing.T) {
	p := NewPipeline(nil, nil)

	voice := p.Validate(context.Background(), "garbage", true, 1)
	text := p.Validate(context.Background(), "garbage", false, 1)

	if voice.Message == text.Message {
		t.Error("voice and text rejection messages should differ")
	}
}

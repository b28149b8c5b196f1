package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadchat_backend/internal/ledger"
	"leadchat_backend/internal/scheduler"
	"leadchat_backend/internal/session"
	"leadchat_backend/platform/apperr"
	"leadchat_backend/platform/logger"
)

type fakeExtractor struct {
	extracted Extracted
	err       error
	calls     int
}

func (f *fakeExtractor) Extract(_ context.Context, _ []session.Turn) (Extracted, error) {
	f.calls++
	return f.extracted, f.err
}

type fakeLedger struct {
	rows []ledger.Row
	err  error
}

func (f *fakeLedger) Append(_ context.Context, row ledger.Row) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeScheduler struct {
	payloads []scheduler.FollowUpPayload
	delays   []time.Duration
	err      error
}

func (f *fakeScheduler) ScheduleFollowUp(_ context.Context, payload scheduler.FollowUpPayload, delay time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	f.delays = append(f.delays, delay)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New("test")
}

func validatedSession(store *session.Store, key string) *session.Session {
	s := store.GetOrCreate(key)
	s.Append("user", "hi, I run a retail business and need a website")
	s.Lead.Email = "jane@acme.com"
	s.EmailValidated = true
	return s
}

func TestProcessSavesValidatedLeadOnce(t *testing.T) {
	store := session.NewStore()
	s := validatedSession(store, "k1")

	fl := &fakeLedger{}
	fs := &fakeScheduler{}
	fe := &fakeExtractor{extracted: Extracted{Name: "Jane", BusinessType: "retail"}}
	p := NewProcessor(store, fe, fl, fs, 3*time.Second, testLogger())

	p.Process(context.Background(), "k1")
	p.Process(context.Background(), "k1")

	if len(fl.rows) != 1 {
		t.Fatalf("ledger appends = %d, want 1", len(fl.rows))
	}
	row := fl.rows[0]
	if row.Name != "Jane" || row.Email != "jane@acme.com" || row.Source != "chat" {
		t.Errorf("unexpected row: %+v", row)
	}
	if !s.LeadSaved {
		t.Error("LeadSaved not set")
	}
	if len(fs.payloads) != 1 {
		t.Fatalf("follow-ups scheduled = %d, want 1", len(fs.payloads))
	}
	if fs.delays[0] != 3*time.Second {
		t.Errorf("delay = %v", fs.delays[0])
	}
}

func TestProcessSkipsUnvalidatedEmail(t *testing.T) {
	store := session.NewStore()
	s := store.GetOrCreate("k2")
	s.Append("user", "my email is jane@acme.com")

	fl := &fakeLedger{}
	fe := &fakeExtractor{extracted: Extracted{Email: "jane@acme.com", Name: "Jane"}}
	p := NewProcessor(store, fe, fl, &fakeScheduler{}, time.Second, testLogger())

	p.Process(context.Background(), "k2")

	if len(fl.rows) != 0 {
		t.Errorf("unvalidated lead persisted: %+v", fl.rows)
	}
	if s.Lead.Email != "jane@acme.com" {
		t.Errorf("extraction not merged: %q", s.Lead.Email)
	}
}

func TestProcessExtractionFailureIsNoOp(t *testing.T) {
	store := session.NewStore()
	s := validatedSession(store, "k3")
	s.Lead.Name = "Jane"

	fl := &fakeLedger{}
	fe := &fakeExtractor{err: errors.New("model unavailable")}
	p := NewProcessor(store, fe, fl, &fakeScheduler{}, time.Second, testLogger())

	p.Process(context.Background(), "k3")

	// Dispatch still runs on the already-complete record.
	if len(fl.rows) != 1 {
		t.Fatalf("ledger appends = %d, want 1", len(fl.rows))
	}
}

func TestProcessDefaultsNameToUnknown(t *testing.T) {
	store := session.NewStore()
	validatedSession(store, "k4")

	fl := &fakeLedger{}
	fs := &fakeScheduler{}
	p := NewProcessor(store, &fakeExtractor{}, fl, fs, time.Second, testLogger())

	p.Process(context.Background(), "k4")

	if len(fl.rows) != 1 || fl.rows[0].Name != "Unknown" {
		t.Fatalf("rows = %+v", fl.rows)
	}
	// No name and no business type: nothing to personalize, no follow-up.
	if len(fs.payloads) != 0 {
		t.Errorf("follow-up scheduled without personalization: %+v", fs.payloads)
	}
}

func TestProcessPersistenceFailureRetriesNextTurn(t *testing.T) {
	store := session.NewStore()
	s := validatedSession(store, "k5")

	fl := &fakeLedger{err: apperr.Internal("db down")}
	fe := &fakeExtractor{extracted: Extracted{Name: "Jane"}}
	p := NewProcessor(store, fe, fl, &fakeScheduler{}, time.Second, testLogger())

	p.Process(context.Background(), "k5")
	if s.LeadSaved {
		t.Fatal("LeadSaved set despite persistence failure")
	}

	fl.err = nil
	p.Process(context.Background(), "k5")
	if !s.LeadSaved {
		t.Fatal("LeadSaved not set after successful retry")
	}
	if len(fl.rows) != 1 {
		t.Errorf("appends = %d, want 1", len(fl.rows))
	}
}

func TestProcessDuplicateRowCountsAsSaved(t *testing.T) {
	store := session.NewStore()
	s := validatedSession(store, "k6")

	fl := &fakeLedger{err: apperr.Conflict("duplicate")}
	fe := &fakeExtractor{extracted: Extracted{Name: "Jane"}}
	fs := &fakeScheduler{}
	p := NewProcessor(store, fe, fl, fs, time.Second, testLogger())

	p.Process(context.Background(), "k6")

	if !s.LeadSaved {
		t.Fatal("duplicate append should mark the lead saved")
	}
	if len(fs.payloads) != 1 {
		t.Errorf("follow-up not scheduled after duplicate: %d", len(fs.payloads))
	}
}

func TestProcessFollowUpPayloadCarriesTopics(t *testing.T) {
	store := session.NewStore()
	validatedSession(store, "k7")

	fs := &fakeScheduler{}
	fe := &fakeExtractor{extracted: Extracted{Name: "Jane", BusinessType: "retail"}}
	p := NewProcessor(store, fe, &fakeLedger{}, fs, time.Second, testLogger())

	p.Process(context.Background(), "k7")

	if len(fs.payloads) != 1 {
		t.Fatalf("follow-ups = %d, want 1", len(fs.payloads))
	}
	got := fs.payloads[0]
	if got.Email != "jane@acme.com" || got.Name != "Jane" {
		t.Errorf("payload = %+v", got)
	}
	if len(got.Topics) == 0 {
		t.Error("topics not tagged from conversation")
	}
}

func TestProcessSchedulingFailureRetries(t *testing.T) {
	store := session.NewStore()
	s := validatedSession(store, "k8")

	fs := &fakeScheduler{err: errors.New("redis down")}
	fe := &fakeExtractor{extracted: Extracted{Name: "Jane"}}
	p := NewProcessor(store, fe, &fakeLedger{}, fs, time.Second, testLogger())

	p.Process(context.Background(), "k8")
	if s.FollowUpScheduled {
		t.Fatal("FollowUpScheduled set despite scheduling failure")
	}

	fs.err = nil
	p.Process(context.Background(), "k8")
	if !s.FollowUpScheduled {
		t.Fatal("FollowUpScheduled not set after retry")
	}
	if len(fs.payloads) != 1 {
		t.Errorf("scheduled %d times, want 1", len(fs.payloads))
	}
}

func TestProcessUnknownSessionIsNoOp(t *testing.T) {
	store := session.NewStore()
	fl := &fakeLedger{}
	p := NewProcessor(store, &fakeExtractor{}, fl, &fakeScheduler{}, time.Second, testLogger())

	p.Process(context.Background(), "missing")

	if len(fl.rows) != 0 {
		t.Errorf("rows appended for unknown session: %+v", fl.rows)
	}
}

func TestProcessNilSchedulerSkipsFollowUp(t *testing.T) {
	store := session.NewStore()
	s := validatedSession(store, "k9")

	fe := &fakeExtractor{extracted: Extracted{Name: "Jane"}}
	p := NewProcessor(store, fe, &fakeLedger{}, nil, time.Second, testLogger())

	p.Process(context.Background(), "k9")

	if !s.LeadSaved {
		t.Fatal("lead not saved with nil scheduler")
	}
	if s.FollowUpScheduled {
		t.Error("FollowUpScheduled set with nil scheduler")
	}
}

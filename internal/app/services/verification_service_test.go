package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/fingerprint"
	"github.com/isms-esp/diploma-registry/internal/pkg/sealing"
)

type fakeFinder struct {
	byToken map[string]*models.Diploma
	byHash  map[string]*models.Diploma
	lookups int
}

func (f *fakeFinder) GetByVerificationID(_ context.Context, id string) (*models.Diploma, error) {
	f.lookups++
	if d, ok := f.byToken[id]; ok {
		return d, nil
	}
	return nil, apperrors.ErrDiplomaNotFound
}

func (f *fakeFinder) GetByHash(_ context.Context, hash string) (*models.Diploma, error) {
	f.lookups++
	if d, ok := f.byHash[hash]; ok {
		return d, nil
	}
	return nil, apperrors.ErrDiplomaNotFound
}

type recordedEvent struct {
	diplomaID *int64
	sourceIP  string
	outcome   string
}

type fakeEvents struct {
	events []recordedEvent
}

func (f *fakeEvents) Append(_ context.Context, diplomaID *int64, sourceIP, outcome string) error {
	f.events = append(f.events, recordedEvent{diplomaID, sourceIP, outcome})
	return nil
}

const validToken = "0f8fad5bd9cb469fa165b7e3ac1f0001"

func issuedDiploma(token string) *models.Diploma {
	return &models.Diploma{
		ID:             7,
		Number:         3,
		Type:           "Licence",
		AwardYear:      2024,
		VerificationID: token,
		IsSigned:       true,
		IssuedAt:       time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC),
		Student: &models.Student{
			NameFR:    "DIALLO Mamadou",
			Matricule: 21001,
		},
		Program: &models.Program{NameFR: "Génie Informatique"},
	}
}

func passingCheck([]byte) (*sealing.CheckResult, error) {
	return &sealing.CheckResult{SignatureCount: 1}, nil
}

func TestVerifyByTokenSuccess(t *testing.T) {
	finder := &fakeFinder{byToken: map[string]*models.Diploma{validToken: issuedDiploma(validToken)}}
	events := &fakeEvents{}
	svc := NewVerificationService(finder, events, passingCheck)

	view, err := svc.VerifyByToken(context.Background(), validToken, "10.0.0.1")
	if err != nil {
		t.Fatalf("VerifyByToken returned error: %v", err)
	}

	if !view.Valid {
		t.Error("view should be valid")
	}
	if view.Name != "DIALLO Mamadou" || view.Matricule != 21001 {
		t.Errorf("unexpected holder fields: %+v", view)
	}
	if view.Program != "Génie Informatique" {
		t.Errorf("program = %q", view.Program)
	}

	if len(events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.events))
	}
	ev := events.events[0]
	if ev.outcome != models.VerificationSuccess {
		t.Errorf("outcome = %q, want success", ev.outcome)
	}
	if ev.diplomaID == nil || *ev.diplomaID != 7 {
		t.Error("event should reference the diploma")
	}
	if ev.sourceIP != "10.0.0.1" {
		t.Errorf("source ip = %q", ev.sourceIP)
	}
}

func TestVerifyByTokenMalformedShortCircuits(t *testing.T) {
	finder := &fakeFinder{}
	events := &fakeEvents{}
	svc := NewVerificationService(finder, events, passingCheck)

	for _, token := range []string{"", "zzz", "0F8FAD5BD9CB469FA165B7E3AC1F0001", validToken + "ff"} {
		_, err := svc.VerifyByToken(context.Background(), token, "10.0.0.1")
		if !errors.Is(err, apperrors.ErrMalformedToken) {
			t.Errorf("token %q: err = %v, want ErrMalformedToken", token, err)
		}
	}

	if finder.lookups != 0 {
		t.Error("malformed tokens must not reach the lookup")
	}
	if len(events.events) != 4 {
		t.Errorf("expected 4 failed events, got %d", len(events.events))
	}
	for _, ev := range events.events {
		if ev.outcome != models.VerificationFailed {
			t.Errorf("outcome = %q, want failed", ev.outcome)
		}
	}
}

func TestVerifyByTokenNotFound(t *testing.T) {
	finder := &fakeFinder{}
	events := &fakeEvents{}
	svc := NewVerificationService(finder, events, passingCheck)

	_, err := svc.VerifyByToken(context.Background(), validToken, "10.0.0.1")
	if !errors.Is(err, apperrors.ErrDiplomaNotFound) {
		t.Fatalf("err = %v, want ErrDiplomaNotFound", err)
	}
	if len(events.events) != 1 || events.events[0].outcome != models.VerificationFailed {
		t.Error("a failed event should be recorded")
	}
}

func TestVerifyByTokenCancelledTakesPriority(t *testing.T) {
	d := issuedDiploma(validToken)
	d.IsCancelled = true
	cancelledAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	d.CancelledAt = &cancelledAt
	d.CancelReason = "Fraude avérée"

	finder := &fakeFinder{byToken: map[string]*models.Diploma{validToken: d}}
	events := &fakeEvents{}
	svc := NewVerificationService(finder, events, passingCheck)

	_, err := svc.VerifyByToken(context.Background(), validToken, "10.0.0.1")
	if !errors.Is(err, apperrors.ErrDiplomaCancelled) {
		t.Fatalf("err = %v, want ErrDiplomaCancelled", err)
	}

	var cancelled *apperrors.CancelledError
	if !errors.As(err, &cancelled) {
		t.Fatal("error should carry cancellation details")
	}
	if cancelled.Reason != "Fraude avérée" {
		t.Errorf("reason = %q", cancelled.Reason)
	}
	if !cancelled.CancelledAt.Equal(cancelledAt) {
		t.Errorf("cancelledAt = %v", cancelled.CancelledAt)
	}

	if len(events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.events))
	}
	if events.events[0].outcome != models.VerificationFailed {
		t.Error("cancelled verification must record a failed event")
	}
	if events.events[0].diplomaID == nil {
		t.Error("event should still reference the cancelled diploma")
	}
}

func TestVerifyByFileSuccess(t *testing.T) {
	data := []byte("SEALED:%PDF document")
	d := issuedDiploma(validToken)
	finder := &fakeFinder{byHash: map[string]*models.Diploma{fingerprint.Sum(data): d}}
	events := &fakeEvents{}
	svc := NewVerificationService(finder, events, passingCheck)

	view, err := svc.VerifyByFile(context.Background(), data, "10.0.0.2")
	if err != nil {
		t.Fatalf("VerifyByFile returned error: %v", err)
	}
	if !view.Valid || view.VerificationID != validToken {
		t.Errorf("unexpected view: %+v", view)
	}
}

func TestVerifyByFileUnsignedNeverReachesLookup(t *testing.T) {
	finder := &fakeFinder{}
	events := &fakeEvents{}
	svc := NewVerificationService(finder, events, func([]byte) (*sealing.CheckResult, error) {
		return nil, apperrors.ErrNoSignature
	})

	_, err := svc.VerifyByFile(context.Background(), []byte("%PDF plain"), "10.0.0.2")
	if !errors.Is(err, apperrors.ErrNoSignature) {
		t.Fatalf("err = %v, want ErrNoSignature", err)
	}
	if finder.lookups != 0 {
		t.Error("an unsigned file must not reach the hash lookup")
	}
	if len(events.events) != 1 || events.events[0].outcome != models.VerificationFailed {
		t.Error("a failed event should be recorded")
	}
}

func TestVerifyByFileTamperedNeverReachesLookup(t *testing.T) {
	finder := &fakeFinder{}
	events := &fakeEvents{}
	svc := NewVerificationService(finder, events, func([]byte) (*sealing.CheckResult, error) {
		return nil, apperrors.ErrSignatureInvalid
	})

	_, err := svc.VerifyByFile(context.Background(), []byte("%PDF tampered"), "10.0.0.2")
	if !errors.Is(err, apperrors.ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}
	if finder.lookups != 0 {
		t.Error("a tampered file must not reach the hash lookup")
	}
}

func TestFailureViewCancelled(t *testing.T) {
	at := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	view := FailureView(apperrors.NewCancelledError("Fraude avérée", at))

	if view.Valid {
		t.Error("failure view must not be valid")
	}
	if view.Reason != "Fraude avérée" {
		t.Errorf("reason = %q", view.Reason)
	}
	if view.CancelledAt != "2025-01-15 09:30" {
		t.Errorf("cancelledAt = %q", view.CancelledAt)
	}
}

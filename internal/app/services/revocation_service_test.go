package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
)

type fakeRevocationStore struct {
	diplomas map[int64]*models.Diploma
}

func (f *fakeRevocationStore) GetByID(_ context.Context, id int64) (*models.Diploma, error) {
	d, ok := f.diplomas[id]
	if !ok {
		return nil, apperrors.ErrDiplomaNotFound
	}
	clone := *d
	return &clone, nil
}

func (f *fakeRevocationStore) UpdateCancellation(_ context.Context, id int64, cancelled bool, reason string) error {
	d, ok := f.diplomas[id]
	if !ok {
		return apperrors.ErrDiplomaNotFound
	}
	d.IsCancelled = cancelled
	d.CancelReason = reason
	if cancelled {
		now := time.Now()
		d.CancelledAt = &now
	} else {
		d.CancelledAt = nil
	}
	return nil
}

func TestCancelSetsStateAndReason(t *testing.T) {
	store := &fakeRevocationStore{diplomas: map[int64]*models.Diploma{
		1: {ID: 1, Number: 5, AwardYear: 2024},
	}}
	svc := NewRevocationService(store)

	diploma, err := svc.Cancel(context.Background(), 1, "Erreur administrative")
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if !diploma.IsCancelled {
		t.Error("diploma should be cancelled")
	}
	if diploma.CancelReason != "Erreur administrative" {
		t.Errorf("reason = %q", diploma.CancelReason)
	}
	if diploma.CancelledAt == nil {
		t.Error("cancelledAt should be set")
	}
	if diploma.Number != 5 {
		t.Error("cancellation must not change the diploma number")
	}
}

func TestCancelRequiresReason(t *testing.T) {
	store := &fakeRevocationStore{diplomas: map[int64]*models.Diploma{1: {ID: 1}}}
	svc := NewRevocationService(store)

	_, err := svc.Cancel(context.Background(), 1, "   ")
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want validation failure", err)
	}
	if store.diplomas[1].IsCancelled {
		t.Error("diploma must stay active without a reason")
	}
}

func TestCancelAlreadyCancelledConflicts(t *testing.T) {
	store := &fakeRevocationStore{diplomas: map[int64]*models.Diploma{
		1: {ID: 1, IsCancelled: true, CancelReason: "first"},
	}}
	svc := NewRevocationService(store)

	_, err := svc.Cancel(context.Background(), 1, "second")
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if store.diplomas[1].CancelReason != "first" {
		t.Error("original cancellation must be preserved")
	}
}

func TestReinstateClearsCancellation(t *testing.T) {
	at := time.Now()
	store := &fakeRevocationStore{diplomas: map[int64]*models.Diploma{
		1: {ID: 1, IsCancelled: true, CancelledAt: &at, CancelReason: "oops"},
	}}
	svc := NewRevocationService(store)

	diploma, err := svc.Reinstate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Reinstate returned error: %v", err)
	}
	if diploma.IsCancelled {
		t.Error("diploma should be active again")
	}
	if diploma.CancelledAt != nil || diploma.CancelReason != "" {
		t.Error("cancellation fields should be cleared together")
	}
}

func TestReinstateActiveDiplomaFails(t *testing.T) {
	store := &fakeRevocationStore{diplomas: map[int64]*models.Diploma{1: {ID: 1}}}
	svc := NewRevocationService(store)

	_, err := svc.Reinstate(context.Background(), 1)
	if !errors.Is(err, apperrors.ErrDiplomaNotCancelled) {
		t.Fatalf("err = %v, want ErrDiplomaNotCancelled", err)
	}
}

func TestCancelUnknownDiploma(t *testing.T) {
	svc := NewRevocationService(&fakeRevocationStore{diplomas: map[int64]*models.Diploma{}})

	_, err := svc.Cancel(context.Background(), 42, "reason")
	if !errors.Is(err, apperrors.ErrDiplomaNotFound) {
		t.Fatalf("err = %v, want ErrDiplomaNotFound", err)
	}
}

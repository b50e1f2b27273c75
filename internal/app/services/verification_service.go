package services

import (
	"context"
	"errors"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/fingerprint"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
	"github.com/isms-esp/diploma-registry/internal/pkg/sealing"
	"github.com/isms-esp/diploma-registry/internal/pkg/validation"
)

// DiplomaFinder is the lookup surface verification depends on.
type DiplomaFinder interface {
	GetByVerificationID(ctx context.Context, verificationID string) (*models.Diploma, error)
	GetByHash(ctx context.Context, contentHash string) (*models.Diploma, error)
}

// EventSink records verification attempts.
type EventSink interface {
	Append(ctx context.Context, diplomaID *int64, sourceIP, outcome string) error
}

// SignatureChecker validates the digital seal of an uploaded document.
// It matches sealing.Check.
type SignatureChecker func(data []byte) (*sealing.CheckResult, error)

// VerificationService answers the two public questions: is this token a
// registered diploma, and is this file an authentic sealed document.
// Every call leaves an audit event, successful or not.
type VerificationService struct {
	diplomas DiplomaFinder
	events   EventSink
	check    SignatureChecker
}

// NewVerificationService creates a verification service. check defaults
// to sealing.Check when nil.
func NewVerificationService(diplomas DiplomaFinder, events EventSink, check SignatureChecker) *VerificationService {
	if check == nil {
		check = sealing.Check
	}
	return &VerificationService{diplomas: diplomas, events: events, check: check}
}

// VerifyByToken resolves a public verification token to its diploma.
// Malformed tokens are rejected before any lookup. Cancelled diplomas
// return a CancelledError carrying the revocation details.
func (s *VerificationService) VerifyByToken(ctx context.Context, token, sourceIP string) (*dto.PublicDiploma, error) {
	if !validation.IsVerificationToken(token) {
		s.record(ctx, nil, sourceIP, models.VerificationFailed)
		return nil, apperrors.ErrMalformedToken
	}

	diploma, err := s.diplomas.GetByVerificationID(ctx, token)
	if err != nil {
		s.record(ctx, nil, sourceIP, models.VerificationFailed)
		return nil, err
	}

	return s.conclude(ctx, diploma, sourceIP)
}

// VerifyByFile authenticates an uploaded document. The signature is
// checked before the registry is consulted: an unsigned or tampered
// file never reaches the hash lookup.
func (s *VerificationService) VerifyByFile(ctx context.Context, data []byte, sourceIP string) (*dto.PublicDiploma, error) {
	if _, err := s.check(data); err != nil {
		s.record(ctx, nil, sourceIP, models.VerificationFailed)
		return nil, err
	}

	diploma, err := s.diplomas.GetByHash(ctx, fingerprint.Sum(data))
	if err != nil {
		s.record(ctx, nil, sourceIP, models.VerificationFailed)
		return nil, err
	}

	return s.conclude(ctx, diploma, sourceIP)
}

// conclude applies the cancellation rule and records the outcome.
// Cancellation wins over every other positive signal.
func (s *VerificationService) conclude(ctx context.Context, diploma *models.Diploma, sourceIP string) (*dto.PublicDiploma, error) {
	if diploma.IsCancelled {
		s.record(ctx, &diploma.ID, sourceIP, models.VerificationFailed)
		at := diploma.IssuedAt
		if diploma.CancelledAt != nil {
			at = *diploma.CancelledAt
		}
		return nil, apperrors.NewCancelledError(diploma.CancelReason, at)
	}

	s.record(ctx, &diploma.ID, sourceIP, models.VerificationSuccess)
	return publicView(diploma), nil
}

// record appends an audit event. A failed append never fails the
// verification itself.
func (s *VerificationService) record(ctx context.Context, diplomaID *int64, sourceIP, outcome string) {
	if err := s.events.Append(ctx, diplomaID, sourceIP, outcome); err != nil {
		logger.Error().Err(err).Str("outcome", outcome).Msg("Failed to append verification event")
	}
}

// publicView strips a diploma down to its public-safe fields.
func publicView(diploma *models.Diploma) *dto.PublicDiploma {
	view := &dto.PublicDiploma{
		Valid:          true,
		DiplomaType:    diploma.Type,
		AwardYear:      diploma.AwardYear,
		IssuedAt:       diploma.IssuedAt,
		VerificationID: diploma.VerificationID,
	}
	if diploma.Student != nil {
		view.Name = diploma.Student.NameFR
		view.Matricule = diploma.Student.Matricule
	}
	if diploma.Program != nil {
		view.Program = diploma.Program.NameFR
	}
	return view
}

// FailureView maps a verification error to its public payload.
func FailureView(err error) *dto.VerificationFailure {
	var cancelled *apperrors.CancelledError
	if errors.As(err, &cancelled) {
		return &dto.VerificationFailure{
			Error:       "Ce diplôme a été annulé",
			Reason:      cancelled.Reason,
			CancelledAt: cancelled.CancelledAt.Format("2006-01-02 15:04"),
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrNoSignature):
		return &dto.VerificationFailure{Error: "Le document ne porte aucune signature numérique"}
	case errors.Is(err, apperrors.ErrSignatureInvalid):
		return &dto.VerificationFailure{Error: "La signature numérique du document est invalide"}
	default:
		// Malformed tokens share the not-found wording so the public
		// response never reveals whether a token has the right shape.
		return &dto.VerificationFailure{Error: "Aucun diplôme correspondant n'a été trouvé"}
	}
}

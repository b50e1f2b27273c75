package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/services"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/sealing"
)

type stubFinder struct {
	byToken map[string]*models.Diploma
}

func (s *stubFinder) GetByVerificationID(_ context.Context, id string) (*models.Diploma, error) {
	if d, ok := s.byToken[id]; ok {
		return d, nil
	}
	return nil, apperrors.ErrDiplomaNotFound
}

func (s *stubFinder) GetByHash(context.Context, string) (*models.Diploma, error) {
	return nil, apperrors.ErrDiplomaNotFound
}

type stubEvents struct{}

func (stubEvents) Append(context.Context, *int64, string, string) error { return nil }

func newVerifyRouter(finder *stubFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewVerificationService(finder, stubEvents{}, func([]byte) (*sealing.CheckResult, error) {
		return nil, apperrors.ErrNoSignature
	})
	ctrl := NewVerificationController(svc, nil)

	router := gin.New()
	router.GET("/verify/:verificationId", ctrl.VerifyToken)
	return router
}

func verify(router *gin.Engine, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/verify/"+token, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestVerifyTokenMalformedLooksLikeNotFound(t *testing.T) {
	router := newVerifyRouter(&stubFinder{})

	unknown := verify(router, "0f8fad5bd9cb469fa165b7e3ac1f0009")
	if unknown.Code != http.StatusNotFound {
		t.Fatalf("unknown token status = %d, want 404", unknown.Code)
	}

	malformed := verify(router, "not-a-valid-token")
	if malformed.Code != http.StatusNotFound {
		t.Fatalf("malformed token status = %d, want 404", malformed.Code)
	}

	if malformed.Body.String() != unknown.Body.String() {
		t.Errorf("malformed response %q differs from unknown-token response %q",
			malformed.Body.String(), unknown.Body.String())
	}
}

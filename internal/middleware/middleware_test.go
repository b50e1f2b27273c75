package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, *dto.APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleAPIError(ctx, err)

	var resp dto.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec, &resp
}

func TestHandleAPIErrorValidationStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code dto.ErrorCode
	}{
		{"duplicate issuance", apperrors.ErrDiplomaAlreadyIssued, http.StatusBadRequest, dto.ErrorCodeDuplicateIssuance},
		{"structure missing", apperrors.ErrStructureMissing, http.StatusBadRequest, dto.ErrorCodeMissingStructure},
		{"structure ambiguous", apperrors.ErrStructureAmbiguous, http.StatusBadRequest, dto.ErrorCodeMissingStructure},
		{"invalid year code", apperrors.ErrInvalidYearCode, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"signing failure", apperrors.ErrSigningFailed, http.StatusInternalServerError, dto.ErrorCodeSigningFailed},
		{"not found", apperrors.ErrDiplomaNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := handleError(t, tc.err)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			if resp.Error == nil || resp.Error.Code != tc.code {
				t.Errorf("error code = %+v, want %s", resp.Error, tc.code)
			}
			if resp.Error != nil && resp.Error.Message == "" {
				t.Error("error message should carry the specific cause")
			}
		})
	}
}

type recordedEvent struct {
	diplomaID *int64
	sourceIP  string
	outcome   string
}

type fakeEventRecorder struct {
	events []recordedEvent
}

func (f *fakeEventRecorder) Append(_ context.Context, diplomaID *int64, sourceIP, outcome string) error {
	f.events = append(f.events, recordedEvent{diplomaID: diplomaID, sourceIP: sourceIP, outcome: outcome})
	return nil
}

func TestRateLimitRecordsThrottledRequest(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 2, time.Minute)
	recorder := &fakeEventRecorder{}

	router := gin.New()
	router.Use(RateLimit(limiter, recorder))
	router.GET("/verify/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/verify/abc", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		router.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do(); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled request status = %d, want 429", rec.Code)
	}

	if len(recorder.events) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(recorder.events))
	}
	ev := recorder.events[0]
	if ev.outcome != models.VerificationFailed {
		t.Errorf("outcome = %q, want %q", ev.outcome, models.VerificationFailed)
	}
	if ev.diplomaID != nil {
		t.Error("throttled event must not reference a diploma")
	}
	if ev.sourceIP != "203.0.113.7" {
		t.Errorf("source ip = %q, want 203.0.113.7", ev.sourceIP)
	}
}

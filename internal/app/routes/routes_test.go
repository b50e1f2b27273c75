package routes

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/controllers"
	"github.com/isms-esp/diploma-registry/internal/middleware"
	"github.com/isms-esp/diploma-registry/internal/pkg/ratelimit"
)

type noopRecorder struct{}

func (noopRecorder) Append(context.Context, *int64, string, string) error { return nil }

func TestSetupRouterRegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupRouter(router,
		controllers.NewAuthController(nil),
		controllers.NewStudentController(nil),
		controllers.NewCatalogController(nil),
		controllers.NewStructureController(nil),
		controllers.NewDiplomaController(nil, nil, nil, nil),
		controllers.NewVerificationController(nil, nil),
		middleware.NewAuthMiddleware(nil),
		ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 5, time.Minute),
		noopRecorder{},
	)

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /api/v1/verify/:verificationId",
		"POST /api/v1/verify-file",
		"POST /api/v1/auth/login",
		"GET /api/v1/diplomas",
		"GET /api/v1/diplomas/:id",
		"POST /api/v1/diplomas/generate/:studentId",
		"POST /api/v1/diplomas/generate-by-program",
		"GET /api/v1/diplomas/download/:verificationId",
		"POST /api/v1/diplomas/:id/cancel",
		"POST /api/v1/diplomas/:id/uncancel",
		"GET /api/v1/students",
		"POST /api/v1/students/import-excel",
		"GET /api/v1/structure",
		"GET /api/v1/verifications",
		"GET /api/v1/dashboard-stats",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s is not registered", route)
		}
	}
}

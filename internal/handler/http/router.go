package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	Env            string
	AllowedOrigins []string
	PunchRateLimit rate.Limit
	PunchRateBurst int
}

func NewRouter(JWTService jwt.Service, opts RouterOptions, attendanceHandler AttendanceHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	punchLimit := opts.PunchRateLimit
	if punchLimit <= 0 {
		punchLimit = rate.Limit(1)
	}
	punchBurst := opts.PunchRateBurst
	if punchBurst <= 0 {
		punchBurst = 3
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireEmployee)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-sync", attendanceHandler.ClockSync)

				r.Route("/punch", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendancePunch))
					r.Get("/status", attendanceHandler.PunchStatus)
					r.With(middleware.PunchRateLimiter(punchLimit, punchBurst)).Post("/", attendanceHandler.Punch)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/credit", attendanceHandler.GetCredit)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Use(middleware.RequirePermission(user.PermissionAttendanceClear))
					r.Delete("/logs", attendanceHandler.Clear)
				})

				r.Route("/adjustments", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAdjustmentCreate)).Post("/", attendanceHandler.CreateAdjustment)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/", attendanceHandler.ListAdjustments)

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Use(middleware.RequirePermission(user.PermissionAdjustmentReview))
						r.Post("/{id}/approve", attendanceHandler.ApproveAdjustment)
						r.Post("/{id}/reject", attendanceHandler.RejectAdjustment)
					})
				})
			})
		})
	})
	return r
}

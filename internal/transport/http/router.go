package http

import (
	"net/http"
	"time"

	obsmw "sfc/internal/observability/middleware"
	"sfc/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	Auth     service.AuthService
	Profiles service.ProfileService
	Privacy  service.PrivacyService
	Catalog  service.CatalogService
	Progress service.ProgressService
}

type Options struct {
	AuthRateLimitPerMinute int // per client IP on /v1/auth, 0 disables
	RequestTimeout         time.Duration
}

type Handler struct {
	auth     service.AuthService
	profiles service.ProfileService
	privacy  service.PrivacyService
	catalog  service.CatalogService
	progress service.ProgressService
}

func NewRouter(s Services, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	h := &Handler{auth: s.Auth, profiles: s.Profiles, privacy: s.Privacy, catalog: s.Catalog, progress: s.Progress}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(obsmw.WithMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authed := requireUser(s.Auth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(chimw.Timeout(opts.RequestTimeout))

		r.Route("/auth", func(r chi.Router) {
			if opts.AuthRateLimitPerMinute > 0 {
				r.Use(httprate.LimitByIP(opts.AuthRateLimitPerMinute, time.Minute))
			}
			r.Post("/signup", h.signup)
			r.Post("/verify-otp", h.verifyOTP)
			r.Post("/resend-otp", h.resendOTP)
			r.Post("/signin", h.signin)
			r.Post("/refresh", h.refresh)
			r.Post("/logout", h.logout)
			r.Post("/forgot-password", h.forgotPassword)
			r.Post("/reset-password", h.resetPassword)

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Post("/change-password", h.changePassword)
				r.Get("/me", h.me)
				r.Get("/status", h.status)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authed, requireVerified)
			r.Post("/onboarding", h.onboard)
			r.Get("/profile", h.getProfile)
			r.Put("/profile", h.updateProfile)
		})

		r.Route("/privacy", func(r chi.Router) {
			r.Use(authed, requireVerified)
			r.Get("/consent", h.getConsent)
			r.Put("/consent", h.updateConsent)
			r.Get("/export", h.exportData)
			r.Delete("/account", h.deleteAccount)
		})

		r.Route("/programs", func(r chi.Router) {
			r.Get("/", h.listPrograms)
			r.Get("/featured", h.featuredPrograms)

			r.Group(func(r chi.Router) {
				r.Use(authed, requireVerified)
				r.Get("/recommended", h.recommendedPrograms)
				r.Get("/continue", h.continuePrograms)
				r.Post("/{programID}/enroll", h.enroll)
				r.Delete("/{programID}/enroll", h.unenroll)
				r.Get("/{programID}/progress", h.programProgress)
				r.Get("/{programID}/workouts", h.programWorkouts)
				r.Post("/workouts/{workoutID}/complete", h.completeWorkout)
			})

			r.Get("/{programID}", h.programDetail)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authed, requireVerified, requireAdmin)
			r.Get("/programs", h.adminListPrograms)
			r.Post("/programs", h.adminCreateProgram)
			r.Get("/programs/{programID}", h.adminProgramDetail)
			r.Put("/programs/{programID}", h.adminUpdateProgram)
			r.Delete("/programs/{programID}", h.adminDeleteProgram)
			r.Post("/programs/{programID}/publish", h.adminPublish(true))
			r.Post("/programs/{programID}/unpublish", h.adminPublish(false))
			r.Post("/programs/{programID}/workouts", h.adminAddWorkout)
			r.Get("/workouts/{workoutID}", h.adminWorkout)
			r.Put("/workouts/{workoutID}", h.adminUpdateWorkout)
			r.Delete("/workouts/{workoutID}", h.adminDeleteWorkout)
		})
	})

	return r
}

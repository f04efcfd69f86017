package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(jwtService jwt.Service, payrollHandler PayrollHandler, financeHandler FinanceHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
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

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/generate", payrollHandler.Generate)
				r.Get("/summary", payrollHandler.Summary)

				r.Route("/records", func(r chi.Router) {
					r.Get("/", payrollHandler.List)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetByID)
						r.Patch("/status", payrollHandler.UpdateStatus)
						r.Post("/reconcile", payrollHandler.MarkReconciled)
						r.Delete("/", payrollHandler.Delete)
						r.Get("/payslip", payrollHandler.Payslip)
					})
				})
			})

			r.Route("/financial-requests", func(r chi.Router) {
				r.Post("/", financeHandler.Create)
				r.Get("/", financeHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", financeHandler.GetByID)
					r.Post("/approve", financeHandler.Approve)
					r.Post("/reject", financeHandler.Reject)
					r.Post("/disburse", financeHandler.Disburse)
				})
			})
		})
	})
	return r
}

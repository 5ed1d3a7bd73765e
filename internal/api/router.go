package api

import (
	"log/slog"
	"net/http"
	"time"

	"loan-ledger/internal/api/handler"
	mw "loan-ledger/internal/api/middleware"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/payment"
	"loan-ledger/internal/domain/user"

	_ "loan-ledger/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const roleAdmin = string(user.RoleAdmin)

// Dependencies are the services and infrastructure the HTTP layer is built on.
type Dependencies struct {
	Customers customer.CustomerService
	Loans     loan.LoanService
	Payments  payment.PaymentService
	Users     user.UserService
	Tokens    mw.TokenParser
	// Limiter may be nil, which disables rate limiting.
	Limiter mw.Limiter
	DB      handler.Pinger
}

func SetupRouter(deps Dependencies, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	respond := handler.NewResponder(cfg.App.IsDevelopment(), logger)

	setupMiddleware(router, deps, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)

	health := handler.NewHealthHandler(deps.DB, respond, logger)
	router.Get("/health", health.Readiness)
	router.Get("/api/health", health.Liveness)

	authn := mw.Authenticate(cfg.Server.Auth.Enabled, deps.Tokens, logger)
	adminOnly := mw.RequireRole(cfg.Server.Auth.Enabled, roleAdmin)

	setupUserRoutes(router, deps.Users, respond, authn, adminOnly, logger)
	setupCustomerRoutes(router, deps.Customers, deps.Payments, respond, authn, logger)
	setupLoanRoutes(router, deps.Loans, respond, authn, logger)
	setupPaymentRoutes(router, deps.Payments, respond, authn, adminOnly, logger)
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, deps Dependencies, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, deps.Limiter, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

type middlewareFunc = func(http.Handler) http.Handler

func setupUserRoutes(router *chi.Mux, svc user.UserService, respond *handler.Responder, authn, adminOnly middlewareFunc, logger *slog.Logger) {
	h := handler.NewUserHandler(svc, respond, logger)

	router.Route("/api/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.With(adminOnly).Get("/users", h.ListUsers)
			r.Get("/user/profile/{id}", h.GetProfile)
			r.Route("/user/{id}", func(r chi.Router) {
				r.Get("/", h.GetUser)
				r.Put("/", h.UpdateUser)
				r.With(adminOnly).Delete("/", h.DeleteUser)
			})
		})
	})
}

func setupCustomerRoutes(router *chi.Mux, svc customer.CustomerService, payments payment.PaymentService, respond *handler.Responder, authn middlewareFunc, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, payments, respond, logger)

	router.Route("/api/customers", func(r chi.Router) {
		r.Use(authn)
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
			r.Get("/payments", h.PaymentHistory)
		})
	})
}

func setupLoanRoutes(router *chi.Mux, svc loan.LoanService, respond *handler.Responder, authn middlewareFunc, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, respond, logger)

	router.Route("/api/loan", func(r chi.Router) {
		r.Use(authn)
		r.Post("/createLoan", h.CreateLoan)
		r.Get("/", h.ListLoans)
		r.Get("/customer/{customerId}", h.ListLoansByCustomer)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Put("/", h.UpdateLoan)
			r.Delete("/", h.DeleteLoan)
		})
	})
}

func setupPaymentRoutes(router *chi.Mux, svc payment.PaymentService, respond *handler.Responder, authn, adminOnly middlewareFunc, logger *slog.Logger) {
	h := handler.NewPaymentHandler(svc, respond, logger)

	router.Route("/api/payment", func(r chi.Router) {
		r.Use(authn)
		r.Post("/", h.CreatePayment)
		r.With(adminOnly).Get("/", h.ListPayments)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetPayment)
			r.Put("/", h.UpdatePayment)
			r.Delete("/", h.DeletePayment)
		})
	})
}

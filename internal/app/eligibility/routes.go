// Package eligibility собирает основное HTTP-приложение сервиса.
package eligibility

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	applyhandler "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/application/apply"
	applicationlist "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/application/list"
	eligibilitycheck "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/eligibility/check"
	quotahandler "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/eligibility/quota"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/health"
	requestapprove "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/hotjobrequest/approve"
	requestcreate "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/hotjobrequest/create"
	requestpending "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/hotjobrequest/pending"
	planactive "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/plan/active"
	planlist "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/plan/list"
	walletbalance "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/wallet/balance"
	walletdeduct "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/wallet/deduct"
	wallettopup "github.com/magabrotheeeer/hotjob-eligibility/internal/http/handlers/wallet/topup"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/jwt"
	applicationservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/application"
	eligibilityservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/eligibility"
	requestservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/hotjobrequest"
	planservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/plan"
	walletservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/wallet"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, maker jwt.Maker,
	gate *eligibilityservice.EligibilityService, applications *applicationservice.ApplicationService,
	requests *requestservice.RequestService, plans *planservice.PlanService,
	wallet *walletservice.WalletService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/jobs/{jobID}/eligibility", eligibilitycheck.New(logger, gate).ServeHTTP)
			r.Post("/jobs/{jobID}/apply", applyhandler.New(logger, applications).ServeHTTP)
			r.Post("/jobs/{jobID}/request", requestcreate.New(logger, requests).ServeHTTP)
			r.Get("/applications", applicationlist.New(logger, applications).ServeHTTP)
			r.Get("/quota", quotahandler.New(logger, gate).ServeHTTP)
			r.Get("/plans/active", planactive.New(logger, gate).ServeHTTP)
			r.Get("/plans", planlist.New(logger, plans).ServeHTTP)
			r.Get("/wallet", walletbalance.New(logger, wallet).ServeHTTP)
			r.Post("/wallet/topup", wallettopup.New(logger, wallet).ServeHTTP)

			// Только для сотрудников
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Put("/requests/{id}/approve", requestapprove.New(logger, requests).ServeHTTP)
				r.Get("/requests/pending", requestpending.New(logger, requests).ServeHTTP)
			})
		})

		// Доверенная граница, авторизация через HMAC-подпись запроса
		r.Post("/wallet/deduct", walletdeduct.New(logger, wallet).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

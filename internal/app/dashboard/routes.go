// Package dashboard предоставляет маршруты для основного приложения.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	companybulkremove "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/bulkremove"
	companycreate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/create"
	companylist "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/list"
	companyread "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/read"
	companyremove "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/remove"
	companysetpayment "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/setpayment"
	companysetstatus "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/setstatus"
	companyupdate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/company/update"
	"github.com/magabrotheeeer/review-dashboard/internal/http/handlers/health"
	inquirycreate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/inquiry/create"
	inquirylist "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/inquiry/list"
	inquiryread "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/inquiry/read"
	inquiryremove "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/inquiry/remove"
	inquiryupdate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/inquiry/update"
	plancreate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/plan/create"
	planlist "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/plan/list"
	planread "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/plan/read"
	planremove "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/plan/remove"
	planupdate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/plan/update"
	publicreviews "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/public/reviews"
	reviewcreate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/review/create"
	reviewlist "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/review/list"
	reviewremove "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/review/remove"
	subscriptioncreate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/subscription/create"
	subscriptionlist "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/subscription/list"
	subscriptionread "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/subscription/read"
	subscriptionremove "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/subscription/remove"
	subscriptionupdate "github.com/magabrotheeeer/review-dashboard/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/review-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/review-dashboard/internal/services"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	companyService *services.CompanyService,
	planService *services.PlanService,
	subscriptionService *services.SubscriptionService,
	inquiryService *services.InquiryService,
	reviewService *services.ReviewService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Публичная страница отзывов доступна без ограничений
		r.Get("/public/companies/{id}/reviews", publicreviews.New(logger, reviewService).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/companies", companycreate.New(logger, companyService).ServeHTTP)
			r.Get("/companies", companylist.New(logger, companyService).ServeHTTP)
			r.Post("/companies/bulk-delete", companybulkremove.New(logger, companyService).ServeHTTP)
			r.Get("/companies/{id}", companyread.New(logger, companyService).ServeHTTP)
			r.Put("/companies/{id}", companyupdate.New(logger, companyService).ServeHTTP)
			r.Delete("/companies/{id}", companyremove.New(logger, companyService).ServeHTTP)
			r.Patch("/companies/{id}/status", companysetstatus.New(logger, companyService).ServeHTTP)
			r.Patch("/companies/{id}/payment-status", companysetpayment.New(logger, companyService).ServeHTTP)

			r.Post("/plans", plancreate.New(logger, planService).ServeHTTP)
			r.Get("/plans", planlist.New(logger, planService).ServeHTTP)
			r.Get("/plans/{id}", planread.New(logger, planService).ServeHTTP)
			r.Put("/plans/{id}", planupdate.New(logger, planService).ServeHTTP)
			r.Delete("/plans/{id}", planremove.New(logger, planService).ServeHTTP)

			r.Post("/subscriptions", subscriptioncreate.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions", subscriptionlist.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", subscriptionread.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", subscriptionupdate.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", subscriptionremove.New(logger, subscriptionService).ServeHTTP)

			r.Post("/inquiries", inquirycreate.New(logger, inquiryService).ServeHTTP)
			r.Get("/inquiries", inquirylist.New(logger, inquiryService).ServeHTTP)
			r.Get("/inquiries/{id}", inquiryread.New(logger, inquiryService).ServeHTTP)
			r.Put("/inquiries/{id}", inquiryupdate.New(logger, inquiryService).ServeHTTP)
			r.Delete("/inquiries/{id}", inquiryremove.New(logger, inquiryService).ServeHTTP)

			r.Post("/reviews", reviewcreate.New(logger, reviewService).ServeHTTP)
			r.Get("/reviews", reviewlist.New(logger, reviewService).ServeHTTP)
			r.Delete("/reviews/{id}", reviewremove.New(logger, reviewService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

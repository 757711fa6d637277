// Package userservice предоставляет сборку и маршруты пользовательского сервиса.
package userservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	profileread "github.com/magabrotheeeer/user-auth-service/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/user-auth-service/internal/http/handlers/profile/update"
	usercreate "github.com/magabrotheeeer/user-auth-service/internal/http/handlers/user/create"
	usertoken "github.com/magabrotheeeer/user-auth-service/internal/http/handlers/user/token"
	"github.com/magabrotheeeer/user-auth-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-auth-service/internal/http/response"
	authservice "github.com/magabrotheeeer/user-auth-service/internal/services/auth"
	profileservice "github.com/magabrotheeeer/user-auth-service/internal/services/profile"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, profileService *profileservice.ProfileService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Профильный маршрут поддерживает только чтение и частичное обновление,
	// остальные методы получают 405.
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, req, response.Error("method not allowed"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
			render.JSON(w, req, response.Error("method not allowed"))
		})

		// Открытые конечные точки
		r.Post("/users", usercreate.New(logger, authService).ServeHTTP)
		r.Post("/users/token", usertoken.New(logger, authService).ServeHTTP)

		// Группа с аутентификацией по bearer-токену
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.TokenMiddleware(authService, logger))
			r.Get("/users/me", profileread.New(logger, profileService).ServeHTTP)
			r.Patch("/users/me", profileupdate.New(logger, profileService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

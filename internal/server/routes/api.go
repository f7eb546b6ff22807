package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/arwindpianist/showcase/internal/access"
	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/usecase"
)

// Names under which the server provides route middlewares.
const (
	CacheMiddleware     = "middleware.cache"
	RateLimitMiddleware = "middleware.ratelimit"
)

type projectsResponse struct {
	Success  bool                     `json:"success"`
	Projects []entity.DetectedProject `json:"projects"`
	Count    int                      `json:"count"`
}

func RegisterAPI(injector *do.Injector, e *echo.Echo) {
	api := e.Group("/api")
	cache := do.MustInvokeNamed[echo.MiddlewareFunc](injector, CacheMiddleware)
	limit := do.MustInvokeNamed[echo.MiddlewareFunc](injector, RateLimitMiddleware)

	api.GET("/detect-projects", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.DetectProjectsUsecase](injector)
		projects, err := usecase.Execute(c.Request().Context())
		if err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to detect projects")
			return c.JSON(http.StatusInternalServerError, &errorResponse{Success: lo.ToPtr(false), Error: "Failed to detect projects"})
		}
		return c.JSON(http.StatusOK, &projectsResponse{Success: true, Projects: projects, Count: len(projects)})
	}, cache)

	api.GET("/vercel-projects", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.VercelProjectsUsecase](injector)
		projects, err := usecase.Execute(c.Request().Context())
		if err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to fetch vercel projects")
			return c.JSON(http.StatusInternalServerError, &errorResponse{Success: lo.ToPtr(false), Error: "Failed to fetch Vercel projects"})
		}
		return c.JSON(http.StatusOK, &projectsResponse{Success: true, Projects: projects, Count: len(projects)})
	}, cache)

	api.GET("/get-repositories", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.ListRepositoryUsecase](injector)
		repos, err := usecase.Execute(c.Request().Context())
		if err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to fetch repositories")
			return c.JSON(http.StatusInternalServerError, &errorResponse{Success: lo.ToPtr(false), Error: "Failed to fetch repositories"})
		}

		type response struct {
			Success      bool                      `json:"success"`
			Repositories []entity.RepositoryTeaser `json:"repositories"`
			Count        int                       `json:"count"`
		}
		return c.JSON(http.StatusOK, &response{Success: true, Repositories: repos, Count: len(repos)})
	}, cache)

	api.POST("/get-github-url", func(c echo.Context) error {
		type request struct {
			ProjectID string `json:"projectId"`
		}
		var req request
		if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ProjectID) == "" {
			return c.JSON(http.StatusBadRequest, &errorResponse{Error: "Project ID is required"})
		}

		gate := do.MustInvoke[*access.Gate](injector)
		if !gate.IsPaid(c.Request()) {
			return c.JSON(http.StatusForbidden, &errorResponse{Error: "Payment required", Paid: lo.ToPtr(false)})
		}

		usecase := do.MustInvoke[usecase.ResolveGitHubURLUsecase](injector)
		url, err := usecase.Execute(c.Request().Context(), entity.ID(strings.TrimSpace(req.ProjectID)))
		if err != nil {
			if status := statusOf(err); status != http.StatusInternalServerError {
				return c.JSON(status, &errorResponse{Error: "Project not found"})
			}
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to resolve repository url")
			return c.JSON(http.StatusInternalServerError, &errorResponse{Error: "Failed to get GitHub URL"})
		}

		type response struct {
			URL  string `json:"url"`
			Paid bool   `json:"paid"`
		}
		return c.JSON(http.StatusOK, &response{URL: url, Paid: true})
	}, limit)
}

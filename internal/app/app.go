package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ncb6206/SIKBOO/internal/config"
	"github.com/ncb6206/SIKBOO/internal/generator"
	"github.com/ncb6206/SIKBOO/internal/handler"
	"github.com/ncb6206/SIKBOO/internal/oauth"
	"github.com/ncb6206/SIKBOO/internal/repository"
	"github.com/ncb6206/SIKBOO/internal/service"
	"github.com/ncb6206/SIKBOO/internal/utils"
	"github.com/ncb6206/SIKBOO/pkg/observability"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Hour
)

type App struct {
	infra         Infrastructure
	config        *config.Config
	router        *gin.Engine
	server        *http.Server
	authService   service.AuthService
	recipeService service.RecipeService
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	selections := service.NewSelectionCache(infra.Redis())
	registry := service.NewGenerationRegistry()
	healthChecker := NewHealthChecker(infra)
	providers := oauth.NewProviders(cfg.OAuth)
	recipeGen := generator.NewOllamaGenerator(cfg.AI)

	authService := service.NewAuthService(repos.Member, repos.Token, jwtManager, infra.Logger())
	memberService := service.NewMemberService(repos.Member)
	ingredientService := service.NewIngredientService(repos.Ingredient)
	recipeService := service.NewRecipeService(
		repos.Recipe,
		repos.Ingredient,
		repos.Member,
		recipeGen,
		registry,
		selections,
		infra.Logger(),
		cfg.AI.Workers,
		cfg.AI.Timeout.Duration,
	)

	cookies := handler.NewCookiePolicy(cfg.Cookie)
	authHandler := handler.NewAuthHandler(authService, jwtManager, cookies)
	oauthHandler := handler.NewOAuthHandler(providers, authService, jwtManager, cookies, cfg.OAuth.FrontendURL, infra.Logger())
	memberHandler := handler.NewMemberHandler(memberService)
	ingredientHandler := handler.NewIngredientHandler(ingredientService)
	recipeHandler := handler.NewRecipeHandler(recipeService)

	router := gin.Default()
	router.Use(otelgin.Middleware("sikboo"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))
	router.Use(handler.AuthMiddleware(jwtManager))

	setupRoutes(router, cfg, authHandler, oauthHandler, memberHandler, ingredientHandler, recipeHandler, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:         infra,
		config:        cfg,
		router:        router,
		server:        srv,
		authService:   authService,
		recipeService: recipeService,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	oauthHandler *handler.OAuthHandler,
	memberHandler *handler.MemberHandler,
	ingredientHandler *handler.IngredientHandler,
	recipeHandler *handler.RecipeHandler,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	auth := router.Group("/auth")
	{
		auth.GET("/:provider/login", oauthHandler.Login)
		auth.GET("/:provider/callback", oauthHandler.Callback)
		auth.POST("/refresh",
			handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
			authHandler.Refresh,
		)
		auth.POST("/logout", authHandler.Logout)
	}

	api := router.Group("/api", handler.RequireAuth())
	{
		api.GET("/auth/me", authHandler.Me)

		members := api.Group("/members")
		{
			members.GET("/me", memberHandler.Profile)
			members.PATCH("/me", memberHandler.UpdateProfile)
			members.POST("/me/onboarding", memberHandler.CompleteOnboarding)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.POST("", ingredientHandler.Create)
			ingredients.GET("", ingredientHandler.List)
			ingredients.GET("/my", ingredientHandler.MyIngredients)
			ingredients.PATCH("/:id", ingredientHandler.Update)
			ingredients.DELETE("/:id", ingredientHandler.Delete)
		}

		recipes := api.Group("/recipes")
		{
			recipes.POST("/generate",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.MemberBasedKey),
				recipeHandler.Generate,
			)
			recipes.GET("/selection", recipeHandler.LastSelection)
			recipes.GET("/sessions", recipeHandler.ListSessions)
			recipes.PATCH("/sessions/reorder", recipeHandler.Reorder)
			recipes.GET("/sessions/:id", recipeHandler.SessionDetail)
			recipes.PATCH("/sessions/:id", recipeHandler.RenameSession)
			recipes.DELETE("/sessions/:id", recipeHandler.DeleteSession)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go a.sweepExpiredTokens(ctx)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

// sweepExpiredTokens periodically deletes refresh records past their expiry
// so revoked-by-time sessions do not pile up.
func (a *App) sweepExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := a.authService.SweepExpiredTokens(ctx)
			if err != nil {
				a.infra.Logger().Warn("Expired token sweep failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				a.infra.Logger().Info("Swept expired refresh tokens", zap.Int64("deleted", deleted))
			}
		}
	}
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop accepting requests first: the generation queue only closes once
	// no handler can enqueue, and in-flight jobs finish their terminal
	// writes before the infrastructure goes away.
	serverErr := a.server.Shutdown(ctx)
	a.recipeService.Shutdown()

	err := errors.Join(serverErr, a.infra.Shutdown(ctx))
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"redunap/config"
	"redunap/docs"

	"redunap/internal/init/cache"
	"redunap/internal/init/database"
	s3init "redunap/internal/init/s3"

	authC "redunap/internal/modules/user/auth/controller"
	authRp "redunap/internal/modules/user/auth/repo"
	authCache "redunap/internal/modules/user/auth/repo/cache"
	authDb "redunap/internal/modules/user/auth/repo/database"
	authUC "redunap/internal/modules/user/auth/usecase"

	profileC "redunap/internal/modules/user/profile/controller"
	profileRp "redunap/internal/modules/user/profile/repo"
	profileDb "redunap/internal/modules/user/profile/repo/database"
	profileS3 "redunap/internal/modules/user/profile/repo/s3"
	profileUC "redunap/internal/modules/user/profile/usecase"

	categoryC "redunap/internal/modules/category/controller"
	categoryRp "redunap/internal/modules/category/repo"
	categoryCacheRepo "redunap/internal/modules/category/repo/cache"
	categoryDbRepo "redunap/internal/modules/category/repo/database"
	categoryUC "redunap/internal/modules/category/usecase"

	storyC "redunap/internal/modules/story/controller"
	storyRp "redunap/internal/modules/story/repo"
	storyCacheRepo "redunap/internal/modules/story/repo/cache"
	storyDbRepo "redunap/internal/modules/story/repo/database"
	storyUC "redunap/internal/modules/story/usecase"

	commentC "redunap/internal/modules/comment/controller"
	commentRp "redunap/internal/modules/comment/repo"
	commentDbRepo "redunap/internal/modules/comment/repo/database"
	commentUC "redunap/internal/modules/comment/usecase"

	reactionC "redunap/internal/modules/reaction/controller"
	reactionDbRepo "redunap/internal/modules/reaction/repo/database"
	reactionUC "redunap/internal/modules/reaction/usecase"

	whatsappC "redunap/internal/modules/whatsapp/controller"
	whatsappRp "redunap/internal/modules/whatsapp/repo"
	whatsappDbRepo "redunap/internal/modules/whatsapp/repo/database"
	whatsappUC "redunap/internal/modules/whatsapp/usecase"

	notificationDispatcher "redunap/internal/modules/notification/dispatcher"
	notificationDbRepo "redunap/internal/modules/notification/repo/database"

	homeC "redunap/internal/modules/home/controller"
	homeRp "redunap/internal/modules/home/repo"
	homeCacheRepo "redunap/internal/modules/home/repo/cache"
	homeDbRepo "redunap/internal/modules/home/repo/database"
	homeUC "redunap/internal/modules/home/usecase"

	feedC "redunap/internal/modules/feed/controller"
	feedWs "redunap/internal/modules/feed/ws"

	u "redunap/internal/modules/user"
	"redunap/pkg/lib/JobService"
	"redunap/pkg/lib/emailsender"
	"redunap/pkg/lib/whatsappsender/twilio"
	appMiddleware "redunap/pkg/middleware/jwt"
	"redunap/pkg/middleware/logger"
)

type App struct {
	Storage     *database.Storage
	Cache       *cache.Cache
	S3          *s3init.S3Storage
	EmailSender *emailsender.EmailSender
	WhatsApp    *twilio.TwilioSender
	Router      chi.Router
	Log         *slog.Logger
	Cfg         *config.Config
	Cron        *cron.Cron
	Jobs        *JobService.JobService
	Dispatcher  *notificationDispatcher.Dispatcher
	FeedHub     *feedWs.Hub
}

func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	storage, err := database.NewStorage(cfg.DbConfig)
	if err != nil {
		return nil, fmt.Errorf("db init failed: %w", err)
	}

	appCache, err := cache.NewCache(cfg.CacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}

	s3s, err := s3init.NewS3Storage(cfg.S3Config)
	if err != nil {
		return nil, fmt.Errorf("s3 init failed: %w", err)
	}

	eSender, err := emailsender.New(cfg.SMTPConfig)
	if err != nil {
		return nil, fmt.Errorf("email sender init failed: %w", err)
	}

	waSender := twilio.NewTwilioSender(cfg.WhatsAppConfig, log)

	notifDb := notificationDbRepo.NewNotificationDatabase(storage.Db, log)
	dispatcher := notificationDispatcher.NewDispatcher(log, notifDb, waSender, cfg.WhatsAppConfig.MessagesPerSecond)

	jobs := JobService.NewJobService(storage.Db, log, dispatcher)
	cronScheduler := cron.New()
	if _, err := cronScheduler.AddFunc("0 8 * * *", jobs.SendDailyDigest); err != nil {
		return nil, fmt.Errorf("cron init failed: %w", err)
	}
	if _, err := cronScheduler.AddFunc("0 * * * *", jobs.ClearExpiredCodes); err != nil {
		return nil, fmt.Errorf("cron init failed: %w", err)
	}
	if _, err := cronScheduler.AddFunc("0 2 * * 0", jobs.PruneHistory); err != nil {
		return nil, fmt.Errorf("cron init failed: %w", err)
	}
	cronScheduler.Start()

	feedHub := feedWs.NewHub(log)
	go feedHub.Run()

	return &App{
		Storage:     storage,
		Cache:       appCache,
		S3:          s3s,
		EmailSender: eSender,
		WhatsApp:    waSender,
		Router:      chi.NewRouter(),
		Log:         log,
		Cfg:         cfg,
		Cron:        cronScheduler,
		Jobs:        jobs,
		Dispatcher:  dispatcher,
		FeedHub:     feedHub,
	}, nil
}

func (app *App) Start() error {
	srv := &http.Server{
		Addr:         app.Cfg.HttpServerConfig.Address,
		Handler:      app.Router,
		ReadTimeout:  app.Cfg.HttpServerConfig.Timeout,
		WriteTimeout: app.Cfg.HttpServerConfig.Timeout,
		IdleTimeout:  app.Cfg.HttpServerConfig.IdleTimeout,
	}

	protocol := "http"
	if app.Cfg.HttpServerConfig.TLS.Enabled {
		protocol = "https"
	}
	swaggerHost := app.Cfg.HttpServerConfig.Address
	if strings.HasPrefix(swaggerHost, "0.0.0.0:") {
		swaggerHost = "localhost" + swaggerHost[len("0.0.0.0"):]
	} else if strings.HasPrefix(swaggerHost, ":") {
		swaggerHost = "localhost" + swaggerHost
	}
	docs.SwaggerInfo.Host = swaggerHost
	docs.SwaggerInfo.Schemes = []string{protocol}

	serverShutdown := make(chan error, 1)
	go func() {
		var err error
		addr := app.Cfg.HttpServerConfig.Address
		if app.Cfg.HttpServerConfig.TLS.Enabled {
			certFile := app.Cfg.HttpServerConfig.TLS.CertFile
			keyFile := app.Cfg.HttpServerConfig.TLS.KeyFile
			app.Log.Info("HTTPS server starting", slog.String("address", addr))
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			app.Log.Info("HTTP server starting", slog.String("address", addr))
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Error("server run failed", slog.String("error", err.Error()))
			serverShutdown <- err
		} else {
			serverShutdown <- nil
		}
	}()

	app.Log.Info(fmt.Sprintf("Swagger docs available at %s://%s%s/swagger/index.html",
		protocol, docs.SwaggerInfo.Host, docs.SwaggerInfo.BasePath))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			app.Cron.Stop()
			return fmt.Errorf("server runtime error: %w", err)
		}
	case sig := <-quit:
		app.Log.Info("Received OS signal, initiating graceful shutdown...", slog.String("signal", sig.String()))
	}

	app.Log.Info("Stopping cron scheduler...")
	cronCtx := app.Cron.Stop()
	select {
	case <-cronCtx.Done():
		app.Log.Info("Cron scheduler stopped.")
	case <-time.After(3 * time.Second):
		app.Log.Warn("Cron scheduler stop timed out.")
	}

	app.Log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.Log.Info("Server stopped gracefully")
	return nil
}

func (app *App) SetupRoutes() {
	app.Router.Use(
		middleware.Recoverer,
		middleware.RequestID,
		logger.New(app.Log),
		cors.Handler(cors.Options{
			AllowedOrigins:   app.Cfg.HttpServerConfig.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "Cookie"},
			ExposedHeaders:   []string{"Link", "Set-Cookie"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	swaggerJSONURL := fmt.Sprintf("%s://%s%s/swagger/doc.json",
		docs.SwaggerInfo.Schemes[0], docs.SwaggerInfo.Host, docs.SwaggerInfo.BasePath)
	app.Router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerJSONURL)))

	apiVersion := "/v1"
	AuthUserMiddleware := appMiddleware.NewUserAuth(app.Log)
	OptionalAuthMiddleware := appMiddleware.NewOptionalAuth(app.Log)
	AdminAuthMiddleware := appMiddleware.NewRoleAuth(app.Log, u.RoleAdmin)
	ModeratorAuthMiddleware := appMiddleware.NewRoleAuth(app.Log, u.RoleAdmin, u.RoleModerator)

	whatsappDBImpl := whatsappDbRepo.NewWhatsappDatabase(app.Storage.Db, app.Log)

	// --- Auth Module ---
	authDBImpl := authDb.NewAuthDatabase(app.Storage.Db, app.Log)
	authCacheImpl := authCache.NewAuthCache(app.Cache)
	authRepoImpl := authRp.NewRepo(authDBImpl, authCacheImpl)
	authUseCaseImpl := authUC.NewAuthUseCase(app.Log, authRepoImpl, app.EmailSender, app.Dispatcher, whatsappDBImpl, app.Cfg.OAuthConfig)
	authCtrl := authC.NewAuthController(app.Log, authUseCaseImpl, app.Cfg.OAuthConfig, app.Cfg.JWTConfig)

	app.Router.Route(apiVersion+"/auth", func(r chi.Router) {
		r.Post("/sign-up", authCtrl.SignUp)
		r.Post("/sign-in", authCtrl.SignIn)
		r.Post("/guest", authCtrl.GuestSession)
		r.Post("/refresh-token", authCtrl.RefreshToken)
		r.Get("/{provider}", authCtrl.Oauth)
		r.Get("/{provider}/callback", authCtrl.OauthCallback)
		r.With(AuthUserMiddleware).Post("/logout", authCtrl.Logout)
	})

	// --- Profile Module ---
	profileDBImpl := profileDb.NewProfileDatabase(app.Storage.Db, app.Log)
	profileS3Impl := profileS3.NewProfileS3(app.Log, app.S3)
	profileRepoImpl := profileRp.NewRepo(profileDBImpl, profileS3Impl)
	profileUseCaseImpl := profileUC.NewProfileUseCase(app.Log, profileRepoImpl)
	profileCtrl := profileC.NewProfileController(app.Log, profileUseCaseImpl)

	app.Router.Route(apiVersion+"/profile", func(r chi.Router) {
		r.Use(AuthUserMiddleware)
		r.Get("/", profileCtrl.GetMe)
		r.Put("/", profileCtrl.UpdateMe)
		r.Post("/avatar", profileCtrl.UploadAvatar)
	})
	app.Router.Route(apiVersion+"/users", func(r chi.Router) {
		r.Use(AdminAuthMiddleware)
		r.Get("/", profileCtrl.ListUsers)
		r.Put("/{user_id}/active", profileCtrl.SetUserActive)
	})

	// --- Category Module ---
	categoryDBImpl := categoryDbRepo.NewCategoryDatabase(app.Storage.Db, app.Log)
	categoryCacheImpl := categoryCacheRepo.NewCategoryCache(app.Cache)
	categoryRepoImpl := categoryRp.NewRepo(categoryDBImpl, categoryCacheImpl)
	categoryUseCaseImpl := categoryUC.NewCategoryUseCase(app.Log, categoryRepoImpl)
	categoryCtrl := categoryC.NewCategoryController(app.Log, categoryUseCaseImpl)

	app.Router.Route(apiVersion+"/categories", func(r chi.Router) {
		r.Get("/", categoryCtrl.ListCategories)
		r.Get("/{category_id}", categoryCtrl.GetCategory)
		r.Group(func(r chi.Router) {
			r.Use(ModeratorAuthMiddleware)
			r.Post("/", categoryCtrl.CreateCategory)
			r.Put("/{category_id}", categoryCtrl.UpdateCategory)
			r.Delete("/{category_id}", categoryCtrl.DeleteCategory)
		})
	})

	// --- Story Module ---
	storyDBImpl := storyDbRepo.NewStoryDatabase(app.Storage.Db, app.Log)
	storyCacheImpl := storyCacheRepo.NewStoryCache(app.Cache)
	storyRepoImpl := storyRp.NewRepo(storyDBImpl, storyCacheImpl)
	storyUseCaseImpl := storyUC.NewStoryUseCase(app.Log, storyRepoImpl, app.Dispatcher, app.FeedHub)
	storyCtrl := storyC.NewStoryController(app.Log, storyUseCaseImpl)

	app.Router.Route(apiVersion+"/stories", func(r chi.Router) {
		r.With(OptionalAuthMiddleware).Get("/", storyCtrl.ListStories)
		r.With(OptionalAuthMiddleware).Get("/{story_id}", storyCtrl.GetStory)
		r.Group(func(r chi.Router) {
			r.Use(AuthUserMiddleware)
			r.Post("/", storyCtrl.CreateStory)
			r.Put("/{story_id}", storyCtrl.UpdateStory)
			r.Delete("/{story_id}", storyCtrl.DeleteStory)
		})
	})

	// --- Comment Module ---
	commentDBImpl := commentDbRepo.NewCommentDatabase(app.Storage.Db, app.Log)
	commentRepoImpl := commentRp.NewRepo(commentDBImpl)
	commentUseCaseImpl := commentUC.NewCommentUseCase(app.Log, commentRepoImpl)
	commentCtrl := commentC.NewCommentController(app.Log, commentUseCaseImpl)

	app.Router.With(OptionalAuthMiddleware).Get(apiVersion+"/stories/{story_id}/comments", commentCtrl.ListComments)
	app.Router.With(AuthUserMiddleware).Post(apiVersion+"/stories/{story_id}/comments", commentCtrl.CreateComment)
	app.Router.Route(apiVersion+"/comments", func(r chi.Router) {
		r.With(OptionalAuthMiddleware).Get("/{comment_id}/replies", commentCtrl.ListReplies)
		r.Group(func(r chi.Router) {
			r.Use(AuthUserMiddleware)
			r.Put("/{comment_id}", commentCtrl.UpdateComment)
			r.Delete("/{comment_id}", commentCtrl.DeleteComment)
		})
	})

	// --- Reaction Module ---
	reactionDBImpl := reactionDbRepo.NewReactionDatabase(app.Storage.Db, app.Log)
	reactionUseCaseImpl := reactionUC.NewReactionUseCase(app.Log, reactionDBImpl)
	reactionCtrl := reactionC.NewReactionController(app.Log, reactionUseCaseImpl)

	app.Router.With(OptionalAuthMiddleware).Get(apiVersion+"/stories/{story_id}/reactions", reactionCtrl.GetStoryReactions)
	app.Router.With(AuthUserMiddleware).Post(apiVersion+"/stories/{story_id}/reactions", reactionCtrl.ReactToStory)
	app.Router.With(AuthUserMiddleware).Post(apiVersion+"/comments/{comment_id}/reactions", reactionCtrl.ReactToComment)

	// --- WhatsApp Module ---
	whatsappRepoImpl := whatsappRp.NewRepo(whatsappDBImpl)
	whatsappUseCaseImpl := whatsappUC.NewWhatsappUseCase(app.Log, whatsappRepoImpl, app.WhatsApp, app.Cfg.WhatsAppConfig)
	whatsappCtrl := whatsappC.NewWhatsappController(app.Log, whatsappUseCaseImpl)

	app.Router.Route(apiVersion+"/whatsapp", func(r chi.Router) {
		r.Post("/webhook", whatsappCtrl.StatusWebhook)
		r.Group(func(r chi.Router) {
			r.Use(AuthUserMiddleware)
			r.With(httprate.Limit(1, 1*time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
				Post("/register", whatsappCtrl.RegisterPhone)
			r.Post("/verify", whatsappCtrl.VerifyPhone)
			r.Get("/status", whatsappCtrl.GetStatus)
			r.Put("/preferences", whatsappCtrl.UpdatePreferences)
			r.Delete("/remove", whatsappCtrl.RemovePhone)
		})
	})

	// --- Home Module ---
	homeDBImpl := homeDbRepo.NewHomeDatabase(app.Storage.Db, app.Log)
	homeCacheImpl := homeCacheRepo.NewHomeCache(app.Cache)
	homeRepoImpl := homeRp.NewRepo(homeDBImpl, homeCacheImpl)
	homeUseCaseImpl := homeUC.NewHomeUseCase(app.Log, homeRepoImpl, app.Jobs)
	homeCtrl := homeC.NewHomeController(app.Log, homeUseCaseImpl)

	app.Router.Route(apiVersion+"/home", func(r chi.Router) {
		r.Get("/guest", homeCtrl.GetGuestDashboard)
		r.With(AuthUserMiddleware).Get("/dashboard", homeCtrl.GetDashboard)
		r.With(AdminAuthMiddleware).Get("/jobs", homeCtrl.GetJobsStatus)
	})

	// --- Feed (websocket) ---
	feedCtrl := feedC.NewFeedController(app.Log, app.FeedHub)
	app.Router.With(AuthUserMiddleware).Get(apiVersion+"/ws/feed", feedCtrl.ServeFeed)
}

// @title RED UNAP API
// @version 1.0.0
// @description Community news platform with WhatsApp notifications

// @host localhost:8080
// @BasePath /v1
// @Schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg := config.MustLoad()
	log := SetupLogger(cfg.Env)
	slog.SetDefault(log)

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Error("app init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app.SetupRoutes()

	if err := app.Start(); err != nil {
		log.Error("application terminated with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func SetupLogger(env string) *slog.Logger {
	var log *slog.Logger
	level := slog.LevelInfo
	switch strings.ToLower(env) {
	case "local", "dev", "development":
		level = slog.LevelDebug
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
	case "prod", "production":
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
	default:
		level = slog.LevelDebug
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
	}
	return log
}

package cmd

import (
	"database/sql"
	"net"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibast-solutions/ms-go-contacts/app/cache"
	"github.com/vibast-solutions/ms-go-contacts/app/controller"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
	"github.com/vibast-solutions/ms-go-contacts/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server for the contacts service.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogging(cfg)

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	userCache := cache.NewUserCache(cache.NewRedisStore(redisClient), cfg.Cache.UserTTL)
	tokens := service.NewTokenIssuer(cfg.JWTSecret)
	sender := service.NewSMTPEmailSender(cfg.SMTP, tokens, cfg.EmailTokenTTL)
	uploader := service.NewS3AvatarUploader(cfg.S3)

	authService := service.NewAuthService(userRepo, userCache, tokens, sender, cfg)
	userService := service.NewUserService(userRepo, userCache, uploader)
	contactService := service.NewContactService(contactRepo)

	startHTTPServer(cfg, db, authService, userService, contactService)
}

func configureLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func startHTTPServer(
	cfg *config.Config,
	db *sql.DB,
	authService *service.AuthService,
	userService *service.UserService,
	contactService *service.ContactService,
) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	contactController := controller.NewContactController(contactService)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	limits := middleware.NewRateLimits(cfg.Rate)

	e.GET("/api/healthchecker", func(c echo.Context) error {
		var one int
		if err := db.QueryRowContext(c.Request().Context(), "SELECT 1").Scan(&one); err != nil {
			logrus.WithError(err).Error("Healthcheck database probe failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "error connecting to the database",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Contacts API"})
	})

	auth := e.Group("/api/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.GET("/refresh_token", authController.RefreshToken)
	auth.GET("/confirmed_email/:token", authController.ConfirmedEmail)
	auth.POST("/request_email", authController.RequestEmail)

	users := e.Group("/api/users")
	users.Use(authMiddleware.RequireAuth)
	users.GET("/me", userController.Me, limits.Profile())
	users.PATCH("/avatar", userController.UpdateAvatar, limits.Profile())

	contacts := e.Group("/api/contacts")
	contacts.Use(authMiddleware.RequireAuth)
	contacts.GET("", contactController.List, limits.Read())
	contacts.GET("/:id", contactController.Get, limits.Read())
	contacts.POST("", contactController.Create, limits.Write())
	contacts.PUT("/:id", contactController.Update)
	contacts.DELETE("/:id", contactController.Delete, limits.Write())
	contacts.GET("/search/:query", contactController.Search, limits.Read())
	contacts.GET("/upcoming_birthdays/", contactController.UpcomingBirthdays, limits.Read())

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"schoolcms/internal/config"
	"schoolcms/internal/database"
	"schoolcms/internal/handlers"
	authmw "schoolcms/internal/middleware"
	"schoolcms/internal/repository"
	"schoolcms/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Production)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	if cfg.UsePostgres() {
		db, err = database.OpenPostgres(cfg.DatabaseURL, logger)
	} else {
		db, err = database.OpenSQLite(cfg.SQLitePath, logger)
	}
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to database", zap.String("dialect", db.Dialect().String()))

	if err := db.Seed(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	var uploader storage.Uploader
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			logger.Fatal("failed to configure object storage", zap.Error(err))
		}
		defer gcs.Close()
		uploader = gcs
	} else {
		logger.Warn("object storage not configured, image uploads will fail")
	}

	r := newRouter(cfg, db, uploader, logger)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		srv.Shutdown(context.Background())
	}()

	logger.Info("server starting", zap.String("addr", addr), zap.Bool("production", cfg.Production))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// newRouter wires repositories, handlers and middleware into the full
// HTTP surface: the /api tree plus the static SPA fallback.
func newRouter(cfg *config.Config, db *database.DB, uploader storage.Uploader, logger *zap.Logger) http.Handler {
	classRepo := repository.NewClassRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	searchRepo := repository.NewSearchRepository(db)

	classHandler := handlers.NewClassHandler(classRepo, cfg.Production, logger)
	unitHandler := handlers.NewUnitHandler(unitRepo, cfg.Production, logger)
	lessonHandler := handlers.NewLessonHandler(lessonRepo, uploader, cfg.MaxUploadBytes, cfg.Production, logger)
	questionHandler := handlers.NewQuestionHandler(questionRepo, cfg.Production, logger)
	authHandler := handlers.NewAuthHandler(adminRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.Production, logger)
	settingsHandler := handlers.NewSettingsHandler(identityRepo, cfg.Production, logger)
	searchHandler := handlers.NewSearchHandler(searchRepo, cfg.Production, logger)

	requireAuth := authmw.RequireAuth(cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(authmw.SecureHeaders(cfg.Production))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RequestSize(cfg.MaxUploadBytes))
		api.Use(httprate.Limit(cfg.RateLimitMax, cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited("عدد كبير من الطلبات. يرجى المحاولة لاحقاً")),
		))

		loginLimit := authmw.LoginRateLimit(cfg.AuthRateLimitMax, cfg.RateLimitWindow,
			rateLimited("عدد كبير من محاولات تسجيل الدخول. يرجى المحاولة بعد 15 دقيقة"))

		api.Route("/auth", func(ar chi.Router) {
			ar.With(loginLimit).Post("/login", authHandler.Login)
			ar.Post("/logout", authHandler.Logout)
			ar.Get("/verify", authHandler.Verify)
		})

		api.Route("/classes", func(cr chi.Router) {
			cr.Get("/", classHandler.List)
			cr.Get("/dashboard-data", classHandler.Dashboard)
			cr.Get("/{id}", classHandler.Get)

			cr.Group(func(admin chi.Router) {
				admin.Use(requireAuth)
				admin.Post("/", classHandler.Create)
				admin.Put("/{id}", classHandler.Update)
				admin.Delete("/{id}", classHandler.Delete)
				admin.Post("/reorder", classHandler.Reorder)
			})
		})

		api.Route("/units", func(ur chi.Router) {
			ur.Get("/class/{classId}", unitHandler.ListByClass)
			ur.Get("/list/all", unitHandler.ListRefs)
			ur.Get("/{id}", unitHandler.Get)

			ur.Group(func(admin chi.Router) {
				admin.Use(requireAuth)
				admin.Get("/", unitHandler.ListAll)
				admin.Post("/", unitHandler.Create)
				admin.Put("/{id}", unitHandler.Update)
				admin.Delete("/{id}", unitHandler.Delete)
				admin.Post("/reorder", unitHandler.Reorder)
			})
		})

		api.Route("/lessons", func(lr chi.Router) {
			lr.Get("/unit/{unitId}", lessonHandler.ListByUnit)
			lr.Get("/{id}", lessonHandler.Get)
			lr.Get("/{lessonId}/questions", questionHandler.ListPublic)
			lr.Post("/{lessonId}/questions/{questionId}/check", questionHandler.CheckAnswer)

			lr.Group(func(admin chi.Router) {
				admin.Use(requireAuth)
				admin.Get("/", lessonHandler.ListAll)
				admin.Post("/", lessonHandler.Create)
				admin.Put("/{id}", lessonHandler.Update)
				admin.Delete("/{id}", lessonHandler.Delete)
				admin.Post("/upload-image", lessonHandler.UploadImage)
				admin.Get("/{lessonId}/questions/admin", questionHandler.ListAdmin)
				admin.Post("/{lessonId}/questions", questionHandler.Create)
				admin.Put("/{lessonId}/questions/{questionId}", questionHandler.Update)
				admin.Delete("/{lessonId}/questions/{questionId}", questionHandler.Delete)
			})
		})

		api.Route("/settings", func(sr chi.Router) {
			sr.Get("/identity", settingsHandler.GetIdentity)
			sr.With(requireAuth).Put("/identity", settingsHandler.UpdateIdentity)
		})

		api.Get("/search", searchHandler.Search)

		// Unmatched API paths return JSON, never the SPA shell.
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Resource not found"}`))
		})
	})

	r.Handle("/*", handlers.NewSPAHandler("public", cfg.Production))

	return r
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func rateLimited(message string) http.HandlerFunc {
	body := fmt.Sprintf(`{"error":%q}`, message)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(body))
	}
}

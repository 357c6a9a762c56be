package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"

	"mentai-server/catalog"
	"mentai-server/clients"
	"mentai-server/config"
	"mentai-server/course"
	"mentai-server/handlers"
	"mentai-server/logger"
	"mentai-server/middleware"
	"mentai-server/quiz"
	"mentai-server/snapshot"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	appLog, err := logger.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer appLog.Sync()

	// Initialize the snapshot store backend
	store, err := newSnapshotStore(cfg)
	if err != nil {
		appLog.Fatal("unable to initialize snapshot store", "backend", cfg.Snapshot.Backend, "error", err)
	}

	// Load the topic/language catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		appLog.Fatal("unable to load catalog", "path", cfg.CatalogPath, "error", err)
	}

	// Collaborator clients
	generation := clients.NewGenerationClient(cfg.Platform.BaseURL, cfg.RequestTimeout)
	progress := clients.NewProgressClient(cfg.Platform.BaseURL, 15*time.Second)
	chat := clients.NewChatClient(cfg.Platform.BaseURL, 30*time.Second)
	judge0 := clients.NewJudge0Client(cfg.Judge0.APIKey, cfg.Judge0.Host, 60*time.Second)

	// Domain services
	courseSvc := course.NewService(store, generation, appLog)
	quizSvc := quiz.NewService(store, progress, appLog)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(appLog))

	// Load HTML templates for the dashboard
	renderer := multitemplate.NewRenderer()
	renderer.AddFromFiles("dashboard", "templates/layout.html", "templates/dashboard.html")
	router.HTMLRender = renderer

	// Session resolution: authenticated or guest, never a rejection
	sessionMiddleware := middleware.SessionMiddleware(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	router.Use(sessionMiddleware)

	// API routes (version 1)
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/courses", handlers.GenerateCourse(courseSvc, appLog))
		apiV1.GET("/courses/current", handlers.GetCurrentCourse(courseSvc))
		apiV1.DELETE("/courses/current", handlers.ClearCourse(courseSvc))

		apiV1.GET("/quiz/:module_id", handlers.LoadQuiz(quizSvc))
		apiV1.PUT("/quiz/:module_id/answers", handlers.SelectAnswer(quizSvc))
		apiV1.POST("/quiz/:module_id/submit", handlers.SubmitQuiz(quizSvc))
		apiV1.POST("/quiz/:module_id/retake", handlers.RetakeQuiz(quizSvc))

		apiV1.POST("/execute", handlers.ExecuteCode(judge0, cat, appLog))
		apiV1.POST("/chat", handlers.Chat(chat, appLog))
		apiV1.GET("/topics", handlers.GetTopics(cat))
		apiV1.GET("/session", handlers.GetSession())

		apiV1.GET("/dashboard", middleware.RequireAuth(), handlers.DashboardJSON(progress, appLog))
	}

	// HTML dashboard
	router.GET("/dashboard", handlers.Dashboard(progress, appLog))

	// Start the server
	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	// Goroutine to gracefully shut down the server
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		appLog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLog.Fatal("server forced to shutdown", "error", err)
		}
	}()

	appLog.Info("MentAI server starting", "addr", cfg.ServerPort, "snapshot_backend", cfg.Snapshot.Backend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.Fatal("server startup error", "error", err)
	}
	appLog.Info("server exited gracefully")
}

func newSnapshotStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "postgres":
		pool, err := snapshot.InitDB(cfg.Snapshot.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return snapshot.NewPostgresStore(pool)
	case "redis":
		return snapshot.NewRedisStore(cfg.Snapshot.RedisAddr, cfg.Snapshot.RedisDB)
	case "memory":
		return snapshot.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", cfg.Snapshot.Backend)
	}
}

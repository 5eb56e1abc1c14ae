package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"filenest/internal/auth"
	"filenest/internal/blob"
	"filenest/internal/config"
	"filenest/internal/handler"
	"filenest/internal/mediatype"
	"filenest/internal/middleware"
	"filenest/internal/repository/postgres"
	postgresDrive "filenest/internal/repository/postgres/drive"
	serviceDrive "filenest/internal/service/drive"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"blob_root", cfg.BlobRoot,
	)

	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	logger.Info("database ready")

	blobStore, err := blob.NewDiskStore(cfg.BlobRoot, logger)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}

	typeRegistry, err := mediatype.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load media type registry: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgresDrive.NewFolderRepository(repoConfig)
	fileRepo := postgresDrive.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	folderService := serviceDrive.NewFolderService(folderRepo, fileRepo, logger)
	fileService := serviceDrive.NewFileService(fileRepo, folderRepo, blobStore, typeRegistry, logger)
	itemService := serviceDrive.NewItemService(folderRepo, fileRepo, blobStore, txManager, logger)

	folderHandler := handler.NewFolderHandler(folderService, logger)
	fileHandler := handler.NewFileHandler(fileService, blobStore, typeRegistry, logger)
	itemHandler := handler.NewItemHandler(itemService, fileService, logger)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Folder routes
	mux.HandleFunc("GET /api/drive/folders", folderHandler.ListRoot)
	mux.HandleFunc("GET /api/drive/folders/{id}", folderHandler.ListFolder)
	mux.HandleFunc("POST /api/drive/folders", folderHandler.CreateFolder)

	// File routes
	mux.HandleFunc("POST /api/drive/files", fileHandler.Upload)
	mux.HandleFunc("GET /api/drive/files/{id}/download", fileHandler.Download)
	mux.HandleFunc("GET /api/drive/material-types", fileHandler.MaterialTypes)

	// Item routes (folders and files uniformly)
	mux.HandleFunc("PATCH /api/drive/items/{id}/name", itemHandler.Rename)
	mux.HandleFunc("POST /api/drive/items/move", itemHandler.Move)
	mux.HandleFunc("POST /api/drive/items/delete", itemHandler.Delete)

	// Consistency sweep (operator tooling, dev only unless DEBUG is set)
	if cfg.Debug {
		mux.HandleFunc("POST /api/drive/reconcile", itemHandler.Reconcile)
		logger.Warn("reconcile endpoint enabled")
	}

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(verifier)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  0, // disabled: uploads may be large and slow
		WriteTimeout: 0, // disabled: downloads stream at client pace
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}

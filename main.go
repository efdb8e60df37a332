package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/camden-git/photosharebackend/config"
	"github.com/camden-git/photosharebackend/database"
	"github.com/camden-git/photosharebackend/handlers"
	"github.com/camden-git/photosharebackend/mailer"
	"github.com/camden-git/photosharebackend/media"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/camden-git/photosharebackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.PhotosPath, cfg.AvatarsPath, cfg.ThumbnailsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypePhoto:     filepath.Base(cfg.PhotosPath),
		media.AssetTypeAvatar:    filepath.Base(cfg.AvatarsPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	userRepo := repository.NewGormUserRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	tagRepo := repository.NewGormTagRepository(db)
	favoriteRepo := repository.NewGormFavoriteRepository(db)
	accessLinkRepo := repository.NewGormAccessLinkRepository(db)
	clientTokenRepo := repository.NewGormClientTokenRepository(db)
	selectionRepo := repository.NewGormSelectionRepository(db)
	attemptRepo := repository.NewGormLoginAttemptRepository(db)

	log.Printf("Initializing thumbnail worker pool (Workers: %d, Queue Size: %d)...", cfg.NumThumbnailWorkers, cfg.ThumbnailQueueSize)
	thumbGen := workers.NewThumbnailGenerator(cfg, photoRepo, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)
	defer thumbGen.Stop()

	mail := mailer.NewMailer(cfg)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing media in: %s", cfg.MediaStoragePath)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.ShareBaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authHandler := handlers.NewAuthHandler(userRepo, attemptRepo, cfg, mail, mediaStore)
	albumHandler := handlers.NewAlbumHandler(albumRepo, tagRepo)
	photoHandler := handlers.NewPhotoHandler(photoRepo, albumRepo, cfg, mediaStore, thumbGen)
	tagHandler := handlers.NewTagHandler(tagRepo)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepo, photoRepo)
	accessLinkHandler := handlers.NewAccessLinkHandler(accessLinkRepo, albumRepo, cfg)
	clientAccessHandler := handlers.NewClientAccessHandler(accessLinkRepo, clientTokenRepo, selectionRepo, photoRepo, userRepo, mediaStore, mail)

	requireAuth := handlers.AuthMiddleware([]byte(cfg.JWTSecret), userRepo)
	requireClientToken := handlers.ClientTokenAuthMiddleware(clientTokenRepo)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Get("/confirm-email/{token}", authHandler.ConfirmEmail)
			r.Post("/password-reset", authHandler.RequestPasswordReset)
			r.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/resend-confirmation", authHandler.ResendConfirmationEmail)
				r.Get("/me", authHandler.CurrentUser)
				r.Put("/me", authHandler.UpdateUser)
				r.Put("/me/avatar", authHandler.UpdateAvatar)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/albums", func(r chi.Router) {
				r.Post("/", albumHandler.CreateAlbum)
				r.Get("/", albumHandler.ListAlbums)
				r.Route("/{album_id}", func(r chi.Router) {
					r.Get("/", albumHandler.GetAlbum)
					r.Put("/", albumHandler.UpdateAlbum)
					r.Delete("/", albumHandler.DeleteAlbum)

					r.Route("/photos", func(r chi.Router) {
						r.Post("/", photoHandler.UploadPhotos)
						r.Get("/", photoHandler.ListPhotos)
						r.Put("/reorder", photoHandler.ReorderPhotos)
					})

					r.Route("/access-links", func(r chi.Router) {
						r.Post("/", accessLinkHandler.CreateAccessLink)
						r.Get("/", accessLinkHandler.ListAccessLinks)
					})
				})
			})

			r.Route("/access-links/{link_id}", func(r chi.Router) {
				r.Put("/", accessLinkHandler.UpdateAccessLink)
				r.Delete("/", accessLinkHandler.DeleteAccessLink)
			})

			r.Route("/photos/{photo_id}", func(r chi.Router) {
				r.Put("/", photoHandler.UpdatePhoto)
				r.Delete("/", photoHandler.DeletePhoto)
				r.Post("/favorite", favoriteHandler.ToggleFavorite)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Post("/", tagHandler.CreateTag)
				r.Get("/", tagHandler.ListTags)
				r.Delete("/{tag_id}", tagHandler.DeleteTag)
			})

			r.Get("/favorites", favoriteHandler.ListFavorites)
		})

		photosSubDir := filepath.Base(cfg.PhotosPath)
		r.Get(fmt.Sprintf("/files/%s/*", photosSubDir), handlers.AssetServer(cfg.MediaStoragePath, photosSubDir))
		log.Printf("Registered photo server at /files/%s/*", photosSubDir)

		avatarsSubDir := filepath.Base(cfg.AvatarsPath)
		r.Get(fmt.Sprintf("/files/%s/*", avatarsSubDir), handlers.AssetServer(cfg.MediaStoragePath, avatarsSubDir))
		log.Printf("Registered avatar server at /files/%s/*", avatarsSubDir)

		thumbnailSubDir := filepath.Base(cfg.ThumbnailsPath)
		r.Get(fmt.Sprintf("/files/%s/*", thumbnailSubDir), handlers.AssetServer(cfg.MediaStoragePath, thumbnailSubDir))
		log.Printf("Registered thumbnail server at /files/%s/*", thumbnailSubDir)
	})

	r.Route("/client-access/{token}", func(r chi.Router) {
		r.Post("/auth", clientAccessHandler.ClientAuth)

		r.Group(func(r chi.Router) {
			r.Use(requireClientToken)
			r.Get("/album", clientAccessHandler.ClientAlbum)
			r.Get("/selections", clientAccessHandler.ListSelections)
			r.Post("/photos/{photo_id}/select", clientAccessHandler.SelectPhoto)
			r.Delete("/photos/{photo_id}/select", clientAccessHandler.UnselectPhoto)
			r.Post("/download-selected", clientAccessHandler.DownloadSelected)
			r.Get("/download-all", clientAccessHandler.DownloadAll)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

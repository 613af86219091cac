package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/cache"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/config"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/handlers"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/metrics"
	appMiddleware "github.com/TAMUSHPE/MobileApp-sub001/internal/middleware"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/models"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/realtime"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	app, err := services.NewFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firebase init failed", zap.Error(err))
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		logger.Fatal("firestore init failed", zap.Error(err))
	}
	defer fsClient.Close()

	// Firebase Auth (server-side verification of ID tokens)
	authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		logger.Warn("firebase auth client unavailable", zap.Error(err))
	}

	storageService, err := services.NewStorageService(ctx, cfg.StorageBucket)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer storageService.Close()

	userCache, err := cache.NewUserCache(cfg.DataDir)
	if err != nil {
		logger.Fatal("user cache init failed", zap.Error(err))
	}

	metrics.Register()

	hub := realtime.NewHub()
	go hub.Run()

	functions := services.NewFunctionsClient(cfg.FunctionsWorkerURL)

	userService := services.NewUserService(fsClient)
	committeeService := services.NewCommitteeService(fsClient, functions)
	eventService := services.NewEventService(fsClient, userService)
	linkService := services.NewLinkService(fsClient)
	slideService := services.NewSlideService(fsClient, storageService)
	officeService := services.NewOfficeService(fsClient, hub)
	motmService := services.NewMOTMService(fsClient)

	userHandler := handlers.NewUserHandler(userService, storageService, functions, userCache, cfg.MaxUploadSizeMB)
	committeeHandler := handlers.NewCommitteeHandler(committeeService)
	eventHandler := handlers.NewEventHandler(eventService, userService)
	miscHandler := handlers.NewMiscHandler(linkService, slideService, officeService, motmService)

	requireOfficer := appMiddleware.RequireRoles(userService.GetUser)
	requireAdmin := appMiddleware.RequireRoles(userService.GetUser, models.RoleAdmin, models.RoleDeveloper)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(appMiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", hub.ServeWS)

	// Dev deployments without Firebase credentials fall back to locally
	// signed bearer tokens.
	authMiddleware := appMiddleware.FirebaseAuth(authClient)
	if cfg.DevJWTSecret != "" {
		authMiddleware = appMiddleware.JWTAuth(cfg.DevJWTSecret, cfg.JWTExpiration)
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Route("/users", func(r chi.Router) {
				r.Post("/init", userHandler.InitializeUser)
				r.Get("/me", userHandler.GetMe)
				r.Patch("/me/public", userHandler.UpdatePublicProfile)
				r.Patch("/me/private", userHandler.UpdatePrivateSettings)
				r.Post("/me/push-token", userHandler.SavePushToken)
				r.Post("/me/complete-setup", userHandler.CompleteAccountSetup)
				r.Post("/me/resume", userHandler.UploadResume)
				r.Get("/leaderboard", userHandler.Leaderboard)
				r.Get("/{uid}", userHandler.GetUser)
				r.With(requireOfficer).Post("/{uid}/points", userHandler.AddPoints)
			})

			r.Route("/resumes", func(r chi.Router) {
				r.Get("/", userHandler.ListPublicResumes)
				r.Post("/submit", userHandler.SubmitResumeVerification)
				r.With(requireOfficer).Get("/verifications", userHandler.ListResumeVerifications)
				r.With(requireOfficer).Post("/{uid}/approve", userHandler.ApproveResume)
				r.With(requireOfficer).Post("/{uid}/deny", userHandler.DenyResume)
			})

			r.Route("/committees", func(r chi.Router) {
				r.Get("/", committeeHandler.ListCommittees)
				r.With(requireOfficer).Post("/", committeeHandler.SetCommittee)

				r.Route("/{name}", func(r chi.Router) {
					r.Get("/", committeeHandler.GetCommittee)
					r.Get("/members", committeeHandler.ListMembers)
					r.Post("/join", committeeHandler.Join)
					r.Post("/leave", committeeHandler.Leave)
					r.Post("/requests", committeeHandler.SubmitRequest)
					r.Delete("/requests", committeeHandler.CancelRequest)
					r.Get("/requests/status", committeeHandler.RequestStatus)

					r.With(requireOfficer).Post("/requests/{uid}/approve", committeeHandler.ApproveRequest)
					r.With(requireOfficer).Post("/requests/{uid}/deny", committeeHandler.DenyRequest)
					r.With(requireOfficer).Post("/reset", committeeHandler.ResetCommittee)
					r.With(requireAdmin).Delete("/", committeeHandler.DeleteCommittee)
				})
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/upcoming", eventHandler.UpcomingEvents)
				r.Get("/past", eventHandler.PastEvents)
				r.Get("/mine", eventHandler.MyEvents)
				r.Get("/my-logs", eventHandler.MyEventLogs)
				r.With(requireOfficer).Post("/", eventHandler.CreateEvent)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", eventHandler.GetEvent)
					r.Post("/sign-in", eventHandler.SignIn)
					r.Post("/sign-out", eventHandler.SignOut)

					r.With(requireOfficer).Put("/", eventHandler.UpdateEvent)
					r.With(requireOfficer).Delete("/", eventHandler.DeleteEvent)
					r.With(requireOfficer).Get("/attendance", eventHandler.Attendance)
					r.With(requireOfficer).Get("/logs", eventHandler.EventLogs)
				})
			})

			r.Route("/links", func(r chi.Router) {
				r.Get("/", miscHandler.ListLinks)
				r.Get("/{id}", miscHandler.GetLink)
				r.With(requireOfficer).Put("/", miscHandler.SetLink)
			})

			r.Route("/slides", func(r chi.Router) {
				r.Get("/", miscHandler.ListSlides)
				r.With(requireOfficer).Post("/", miscHandler.AddSlide)
				r.With(requireOfficer).Delete("/{id}", miscHandler.DeleteSlide)
			})

			r.Route("/office", func(r chi.Router) {
				r.Get("/count", miscHandler.OfficeCount)
				r.With(requireOfficer).Get("/statuses", miscHandler.OfficerStatuses)
				r.With(requireOfficer).Post("/status", miscHandler.SetOfficerStatus)
				r.With(requireAdmin).Post("/reset", miscHandler.ResetOffice)
			})

			r.Route("/member-of-the-month", func(r chi.Router) {
				r.Get("/", miscHandler.GetMemberOfTheMonth)
				r.Get("/past", miscHandler.PastMembersOfTheMonth)
				r.With(requireOfficer).Put("/", miscHandler.SetMemberOfTheMonth)
			})
		})
	})

	logger.Info("api server starting", zap.String("addr", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/SevereCloud/vksdk/v2/api"

	"vkeventsbot/internal/adapters/admin"
	"vkeventsbot/internal/adapters/vk"
	"vkeventsbot/internal/application"
	"vkeventsbot/internal/config"
	"vkeventsbot/internal/dialog"
	"vkeventsbot/internal/infrastructure/database"
	"vkeventsbot/internal/infrastructure/i18n"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalid: %v", err)
	}

	ctx := context.Background()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Migrations failed: %v", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Database initialization failed: %v", err)
	}
	defer pool.Close()

	eventRepo := database.NewEventRepository(pool)
	cityRepo := database.NewCityRepository(pool)
	regRepo := database.NewRegistrationRepository(pool)
	userRepo := database.NewUserRepository(pool)
	notifRepo := database.NewNotificationRepository(pool)

	translator := i18n.NewTranslator(cfg.DefaultLocale)

	vkClient := api.NewVK(cfg.Token)
	sender := vk.NewSender(vkClient)

	eventSvc := application.NewEventService(eventRepo, cityRepo, regRepo)
	regSvc := application.NewRegistrationService(eventRepo, regRepo, translator)
	userSvc := application.NewUserService(userRepo, regRepo)
	notifSvc := application.NewNotificationService(userRepo, notifRepo, sender)

	renderer := vk.NewRenderer(translator, cfg.DefaultLocale)
	dialogs := dialog.NewStore()
	handler := vk.NewMessageHandler(
		eventSvc, regSvc, userSvc,
		dialogs, renderer, cfg.DefaultLocale,
		sender.SendWithKeyboard,
		vk.NewProfileFetcher(vkClient),
	)
	bot := vk.NewBot(cfg.ConfirmationToken, cfg.SecretKey, handler)
	setup := vk.NewSetupService(vkClient, cfg.GroupID, cfg.SecretKey)

	adminAPI := &admin.ServerDeps{
		Pool:          pool,
		Events:        eventSvc,
		Users:         userSvc,
		Notifications: notifSvc,
		Setup:         setup,
		GroupID:       cfg.GroupID,
	}

	mux := http.NewServeMux()
	// VK posts callback events to the root path by default; /webhook is the
	// explicit endpoint for setups that route through a reverse proxy.
	mux.Handle("POST /{$}", bot.WebhookHandler())
	mux.Handle("POST /webhook", bot.WebhookHandler())
	mux.Handle("/", adminAPI.Router())

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🤖 VK events bot listening on %s (community %d)", srv.Addr, cfg.GroupID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("⚠️ Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Shutdown: %v", err)
	}
	log.Println("✅ Bot stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/prospect-intake/internal/config"
	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/cache"
	"github.com/xavierca1/prospect-intake/internal/infra/catalog"
	"github.com/xavierca1/prospect-intake/internal/infra/database"
	"github.com/xavierca1/prospect-intake/internal/infra/http/handlers"
	"github.com/xavierca1/prospect-intake/internal/infra/http/middleware"
	"github.com/xavierca1/prospect-intake/internal/infra/integration/kommo"
	"github.com/xavierca1/prospect-intake/internal/infra/integration/whatsapp"
	"github.com/xavierca1/prospect-intake/internal/infra/mail"
	"github.com/xavierca1/prospect-intake/internal/infra/queue"
	"github.com/xavierca1/prospect-intake/internal/infra/worker"
	"github.com/xavierca1/prospect-intake/internal/usecase"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("❌ Migration: %v", err)
		}
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("❌ RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	services := catalog.Default()
	if cfg.ServiceCatalogPath != "" {
		if services, err = catalog.Load(cfg.ServiceCatalogPath); err != nil {
			log.Fatalf("❌ Service catalog: %v", err)
		}
	}
	rules := validation.New(services)

	// 1. Repositories
	prospectRepo := database.NewProspectRepository(db)
	var recipientRepo entity.EmailRecipientRepositoryInterface = database.NewEmailRecipientRepository(db)

	var redisPinger handlers.RedisPinger
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		recipientRepo = cache.NewRecipientRepository(recipientRepo, rdb, cfg.CacheTTL)
		redisPinger = rdb
		log.Printf("🧠 Recipient cache enabled (%s, ttl %s)", cfg.RedisAddr, cfg.CacheTTL)
	}

	// 2. Notification channels
	mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)

	var crm usecase.CRMService
	if cfg.Kommo.Enabled() {
		crm = kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken, cfg.Kommo.StatusID)
	}
	var wa usecase.WhatsAppService
	if cfg.WhatsApp.Enabled() {
		wa = whatsapp.NewClient(cfg.WhatsApp.BaseURL, cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneID, cfg.WhatsApp.TemplateName, cfg.WhatsApp.Language)
	}

	// 3. Use cases
	producer := queue.NewProducer(rabbitMQ.Ch)
	submitUC := usecase.NewSubmitProspectUseCase(prospectRepo, producer, rules)
	recipientUC := usecase.NewEmailRecipientUseCase(recipientRepo, rules)
	notifyUC := usecase.NewNotifyRecipientsUseCase(recipientRepo, mailSender, crm, wa)

	// 4. Workers; the consumer gets its own channel
	consumerCh, err := rabbitMQ.Conn.Channel()
	if err != nil {
		log.Fatalf("❌ RabbitMQ consumer channel: %v", err)
	}
	defer consumerCh.Close()

	notifier := queue.NewWorker(consumerCh, notifyUC)
	go func() {
		if err := notifier.Start(ctx, queue.QueueName); err != nil {
			log.Printf("❌ Worker stopped: %v", err)
		}
	}()

	retention := worker.NewProspectRetentionWorker(prospectRepo, cfg.ProspectRetention, cfg.RetentionTick)
	go retention.Start(ctx)

	// 5. Handlers
	recipientHandler := handlers.NewEmailRecipientHandler(recipientUC)
	prospectHandler := handlers.NewProspectHandler(submitUC, handlers.NewRateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow))
	catalogHandler := handlers.NewCatalogHandler(services)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, redisPinger)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/services", catalogHandler.List)
	r.Post("/prospects", prospectHandler.Submit)
	r.Route("/email-recipients", recipientHandler.Routes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Prospect intake API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}

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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/fortis-crm/internal/config"
	"github.com/xavierca1/fortis-crm/internal/infra/cache"
	"github.com/xavierca1/fortis-crm/internal/infra/database"
	"github.com/xavierca1/fortis-crm/internal/infra/http/handlers"
	"github.com/xavierca1/fortis-crm/internal/infra/http/middleware"
	"github.com/xavierca1/fortis-crm/internal/infra/logger"
	"github.com/xavierca1/fortis-crm/internal/infra/mail"
	"github.com/xavierca1/fortis-crm/internal/infra/queue"
	"github.com/xavierca1/fortis-crm/internal/infra/worker"
	"github.com/xavierca1/fortis-crm/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("❌ Serviço encerrado com erro", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	historyRepo := database.NewHistoryRepository(db)
	statsRepo := database.NewStatsRepository(db)
	trafficRepo := database.NewTrafficRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	profileRepo := database.NewProfileRepository(db)

	// 2. Cache das estatísticas: Redis quando configurado, memória caso contrário
	var statsCache usecase.StatsCache
	var cachePinger handlers.CachePinger
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		redisCache := cache.NewRedisStatsCache(client, cfg.StatsCacheTTL)
		statsCache, cachePinger = redisCache, redisCache
	} else {
		logg.Warn("⚠️ REDIS_URL vazio, usando cache em memória")
		statsCache = cache.NewMemoryStatsCache(cfg.StatsCacheTTL)
	}

	// 3. Mensageria (opcional)
	var events usecase.EventPublisher
	var broker handlers.BrokerStatus
	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		events, broker = queue.NewProducer(rabbitMQ.Ch), rabbitMQ
	} else {
		logg.Warn("⚠️ RABBITMQ_URL vazio, eventos desligados")
	}

	// 4. UseCases
	now := usecase.ClockIn(cfg.Location())
	metrics := middleware.PromMetrics{}

	leadUC := usecase.NewLeadUseCase(leadRepo, historyRepo, events, statsCache, metrics, logg, now)
	leadUC.PageSize = cfg.LeadsPageSize
	roster := &usecase.Roster{Repo: leadRepo, Metrics: metrics, Logger: logg, Now: now}
	clientUC := usecase.NewClientUseCase(roster)
	salesUC := usecase.NewSalesUseCase(roster)
	statsUC := usecase.NewStatsUseCase(statsRepo, statsCache, metrics, logg, now)
	trafficUC := usecase.NewTrafficUseCase(trafficRepo, now)
	userUC := usecase.NewUserUseCase(profileRepo, logg)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logg)

	// 5. Handlers
	router := handlers.NewRouter(handlers.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		Health:      handlers.NewHealthHandler(db, broker, cachePinger, version),
		Leads:       handlers.NewLeadHandler(leadUC, logg),
		Clients:     handlers.NewClientHandler(clientUC, salesUC, logg),
		Stats:       handlers.NewStatsHandler(statsUC, trafficUC, logg),
		Users:       handlers.NewUserHandler(userUC, logg),
		Settings:    handlers.NewSettingsHandler(settingsUC, logg),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// 6. Workers
	if rabbitMQ != nil {
		if cfg.MailEnabled() {
			mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
			notifyUC := usecase.NewNotifySaleUseCase(profileRepo, historyRepo, settingsRepo, mailSender, logg, now)
			w := queue.NewWorker(rabbitMQ.Ch, notifyUC, logg)
			g.Go(func() error { return w.Start(gctx, queue.QueueName) })
		} else {
			logg.Warn("⚠️ MAIL_HOST/MAIL_FROM vazios, notificações de venda desligadas")
		}
	}

	warmer := worker.NewStatsWarmer(statsUC, logg, cfg.StatsWarmInterval)
	g.Go(func() error {
		warmer.Start(gctx)
		return nil
	})

	g.Go(func() error {
		logg.Info("🔥 Fortis CRM rodando", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logg.Info("⚠️ Encerrando servidor")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"movextransfer/internal/api"
	"movextransfer/internal/auth"
	"movextransfer/internal/config"
	"movextransfer/internal/db"
	"movextransfer/internal/logger"
	"movextransfer/internal/pricing"
	"movextransfer/internal/repository"
	"movextransfer/internal/schedule"
	"movextransfer/internal/service"
	"movextransfer/internal/utils"
)

type recoveryLogger struct {
	log logger.ILogger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("panic recovered", logger.String("panic", fmt.Sprint(v...)))
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel, cfg.IsProduction())
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.ILogger) error {
	conn, err := sql.Open("postgres", cfg.PostgresURL())
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer conn.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}

	applied, err := db.Migrate(conn)
	if err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("database ready", logger.Bool("migrations_applied", applied))

	loc := utils.LoadLocation(cfg.Timezone)
	pricingCfg := pricing.DefaultConfig()
	scheduleCfg := schedule.DefaultConfig()

	reservationRepo := repository.NewReservationRepository(conn)
	adminRepo := repository.NewAdminRepository(conn)
	stripeRepo := repository.NewStripeRepository(conn)
	adminAuthRepo := repository.NewAdminAuthRepository(cfg.AdminEmail, cfg.AdminPasswordHash)

	email := service.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, log)
	sms := service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, log)
	sender, err := service.NewSenderService(email, sms, service.SenderConfig{
		OwnerEmail: cfg.OwnerEmail,
		OwnerPhone: cfg.OwnerPhone,
		Location:   loc,
		Pricing:    pricingCfg,
	}, log)
	if err != nil {
		return err
	}

	reservationService := service.NewReservationService(reservationRepo, sender, service.ReservationConfig{
		Pricing:  pricingCfg,
		Schedule: scheduleCfg,
		Location: loc,
	}, log)
	adminService := service.NewAdminService(adminRepo, reservationRepo)
	adminAuthService := service.NewAdminAuthService(adminAuthRepo, cfg.JWTSecret)
	stripeService := service.NewStripeService(service.StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		SuccessURL:    cfg.StripeSuccessURL,
		CancelURL:     cfg.StripeCancelURL,
	})
	depositService := service.NewDepositService(reservationRepo, stripeRepo, stripeService, pricingCfg, log)
	jobService := service.NewJobService(reservationRepo, sender, loc, log)

	r := mux.NewRouter()
	r.Use(api.RequestLogging(log))
	api.RegisterRoutes(r, api.Handlers{
		Users:               api.NewUserReservationHandler(reservationService, log, cfg.IsProduction()),
		Admin:               api.NewAdminHandler(adminService, log, cfg.IsProduction()),
		AdminAuth:           api.NewAdminAuthHandler(adminAuthService, log, cfg.IsProduction()),
		Stripe:              api.NewStripeWebhookHandler(stripeService, depositService, log, cfg.IsProduction()),
		AdminAuthMiddleware: auth.AdminAuthMiddleware(cfg.JWTSecret),
	})

	var handler http.Handler = r
	handler = api.CORS(cfg.AllowedOrigins, log)(handler)
	handler = handlers.ProxyHeaders(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log: log}))(handler)

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.DigestCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := jobService.SendDailyDigest(ctx); err != nil {
			log.Error("daily digest failed", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid DIGEST_CRON %q: %w", cfg.DigestCron, err)
	}
	c.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server running",
			logger.Int("port", cfg.AppPort),
			logger.Strings("allowed_origins", cfg.AllowedOrigins),
		)
		serverErr <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		log.Info("shutting down", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", logger.Error(err))
	}
	<-c.Stop().Done()
	reservationService.Wait()
	log.Info("server stopped")
	return nil
}

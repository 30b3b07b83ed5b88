package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/rentflow/rentflow/internal/api"
	"github.com/rentflow/rentflow/internal/clock"
	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/domain/application"
	"github.com/rentflow/rentflow/internal/domain/dispute"
	"github.com/rentflow/rentflow/internal/domain/invoice"
	"github.com/rentflow/rentflow/internal/domain/lease"
	"github.com/rentflow/rentflow/internal/domain/payment"
	"github.com/rentflow/rentflow/internal/domain/user"
	"github.com/rentflow/rentflow/internal/email"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/notification"
	"github.com/rentflow/rentflow/internal/repository/postgres"
	"github.com/rentflow/rentflow/internal/scheduler"
	"github.com/rentflow/rentflow/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rentflow",
		Short: "Lease and invoice management service",
	}

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		generateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the daily billing scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(baseModule(),
				fx.Provide(api.NewHandlers, api.NewRouter, scheduler.New),
				fx.Invoke(startServer, startScheduler),
			)
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *postgres.Client, log *logger.Logger) error {
				if err := client.Migrate(ctx); err != nil {
					return err
				}
				log.Infow("database schema applied")
				return nil
			})
		},
	}
}

func generateCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one daily billing cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				invoiceService service.InvoiceService
				log            *logger.Logger
			)
			app := fx.New(baseModule(),
				fx.NopLogger,
				fx.Populate(&invoiceService, &log),
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			if err := app.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			resp, err := invoiceService.RunDaily(ctx, force)
			if err != nil {
				return err
			}
			log.Infow("billing cycle completed",
				"run_date", resp.RunDate,
				"generation_ran", resp.GenerationRan,
				"generated", resp.Generated,
				"skipped", resp.Skipped,
				"failed", resp.Failed,
				"overdue_swept", resp.OverdueSwept,
				"leases_expired", resp.LeasesExpired,
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "generate even when today is not the first of the month")
	return cmd
}

// baseModule wires config, logging, persistence, and the service layer.
func baseModule() fx.Option {
	return fx.Options(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			clock.New,
			postgres.NewClient,
			func(c *postgres.Client) postgres.IClient { return c },
			postgres.NewLeaseRepository,
			postgres.NewInvoiceRepository,
			postgres.NewPaymentRepository,
			postgres.NewDisputeRepository,
			postgres.NewApplicationRepository,
			postgres.NewUserRepository,
			email.NewEmailClient,
			email.NewEmail,
			notification.NewEmailDispatcher,
			newServiceParams,
			service.NewLeaseService,
			service.NewInvoiceService,
			service.NewPaymentService,
		),
	)
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	db postgres.IClient,
	clk clock.Clock,
	repos repositories,
	notifier notification.Dispatcher,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:          log,
		Config:          cfg,
		DB:              db,
		Clock:           clk,
		LeaseRepo:       repos.Lease,
		InvoiceRepo:     repos.Invoice,
		PaymentRepo:     repos.Payment,
		DisputeRepo:     repos.Dispute,
		ApplicationRepo: repos.Application,
		UserRepo:        repos.User,
		Notifier:        notifier,
	}
}

type repositories struct {
	fx.In

	Lease       lease.Repository
	Invoice     invoice.Repository
	Payment     payment.Repository
	Dispute     dispute.Repository
	Application application.Repository
	User        user.Repository
}

func startServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}

func startScheduler(
	lc fx.Lifecycle,
	sched *scheduler.Scheduler,
	log *logger.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
					log.Errorw("scheduler stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// withClient builds just enough of the stack to run a one-shot database task.
func withClient(fn func(ctx context.Context, client *postgres.Client, log *logger.Logger) error) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return err
	}
	client, err := postgres.NewClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return fn(ctx, client, log)
}

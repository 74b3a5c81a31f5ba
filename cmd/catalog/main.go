package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/app"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/catalog/products"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/crm/opportunities"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/crm/tasks"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/numbering"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/platform/cache"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/platform/db"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/challans"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/derivation"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/invoices"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/quotations"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, product cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	allocator := numbering.NewAllocator(numbering.NewPgStore(pool))
	if err := allocator.EnsureFloor(ctx, quotations.NumberSequence, cfg.QuotationSeqFloor); err != nil {
		logger.Error("apply quotation floor", slog.Any("error", err))
		os.Exit(1)
	}
	if err := allocator.EnsureFloor(ctx, challans.NumberSequence, cfg.ChallanSeqFloor); err != nil {
		logger.Error("apply challan floor", slog.Any("error", err))
		os.Exit(1)
	}

	auditRepo := audit.NewRepository(pool)
	recorder := audit.NewRecorder(auditRepo, logger)
	idempotencyStore := shared.NewIdempotencyStore(pool)

	productRepo := products.NewRepository(pool)
	productCache := products.NewCache(redisClient, cfg.ProductCacheTTL)
	productService := products.NewService(productRepo, productCache)
	productHandler := products.NewHandler(logger, productService)

	opportunityRepo := opportunities.NewRepository(pool)
	opportunityService := opportunities.NewService(opportunityRepo)
	opportunityHandler := opportunities.NewHandler(logger, opportunityService)

	taskRepo := tasks.NewRepository(pool)
	taskService := tasks.NewService(taskRepo, recorder)
	taskHandler := tasks.NewHandler(logger, taskService)

	quotationRepo := quotations.NewRepository(pool)
	quotationService := quotations.NewService(quotationRepo, productService, allocator, recorder)
	quotationHandler := quotations.NewHandler(logger, quotationService)

	invoiceRepo := invoices.NewRepository(pool)
	invoiceService := invoices.NewService(invoiceRepo, allocator, recorder)
	invoiceHandler := invoices.NewHandler(logger, invoiceService)

	challanRepo := challans.NewRepository(pool)
	challanService := challans.NewService(challanRepo, allocator, recorder)
	challanHandler := challans.NewHandler(logger, challanService)

	derivationService := derivation.NewService(
		logger,
		quotationRepo,
		invoiceService,
		challanService,
		opportunityService,
		productService,
		idempotencyStore,
		recorder,
	)
	derivationHandler := derivation.NewHandler(logger, derivationService)

	auditHandler := audit.NewHandler(logger, auditRepo)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		ProductHandler:     productHandler,
		OpportunityHandler: opportunityHandler,
		TaskHandler:        taskHandler,
		QuotationHandler:   quotationHandler,
		InvoiceHandler:     invoiceHandler,
		ChallanHandler:     challanHandler,
		DerivationHandler:  derivationHandler,
		AuditHandler:       auditHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

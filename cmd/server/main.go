// Command server runs the eventdesk API. main wires configuration, stores,
// services, and the HTTP router; business logic lives in the internal
// services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventdesk/internal/attendee"
	attendeehandler "eventdesk/internal/attendee/handler"
	attendeemetrics "eventdesk/internal/attendee/metrics"
	attendeesvc "eventdesk/internal/attendee/service"
	"eventdesk/internal/audit"
	auditkafka "eventdesk/internal/audit/kafka"
	"eventdesk/internal/booth"
	boothhandler "eventdesk/internal/booth/handler"
	boothsvc "eventdesk/internal/booth/service"
	"eventdesk/internal/checkin"
	checkinhandler "eventdesk/internal/checkin/handler"
	checkinmetrics "eventdesk/internal/checkin/metrics"
	checkinsvc "eventdesk/internal/checkin/service"
	"eventdesk/internal/dedupe"
	dedupehandler "eventdesk/internal/dedupe/handler"
	dedupemetrics "eventdesk/internal/dedupe/metrics"
	dedupesvc "eventdesk/internal/dedupe/service"
	"eventdesk/internal/entitlement"
	entitlementhandler "eventdesk/internal/entitlement/handler"
	entmetrics "eventdesk/internal/entitlement/metrics"
	entsvc "eventdesk/internal/entitlement/service"
	httpapi "eventdesk/internal/http"
	"eventdesk/internal/platform/config"
	"eventdesk/internal/platform/httpserver"
	"eventdesk/internal/platform/logger"
	"eventdesk/internal/platform/redis"
	id "eventdesk/pkg/domain"
	"eventdesk/pkg/platform/middleware/auth"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.DebugLog)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		rosterStore  attendee.Store
		scanStore    checkin.Store
		deskKeyStore checkin.DeskKeyStore
		boothStore   booth.Store
		planStore    entitlement.PlanStore
		catalogStore entitlement.CatalogStore
		mergeStore   dedupe.MergeStore
	)

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}

		attendeePG := attendee.NewPostgresStore(db)
		checkinPG := checkin.NewPostgresStore(db)
		boothPG := booth.NewPostgresStore(db)
		entitlementPG := entitlement.NewPostgresStore(db)

		rosterStore = attendeePG
		scanStore, deskKeyStore = checkinPG, checkinPG
		boothStore = boothPG
		planStore, catalogStore = entitlementPG, entitlementPG
		mergeStore = dedupe.NewPostgresMergeStore(db, checkinPG, boothPG)

		log.Info("using postgres stores")
	} else {
		attendeeMem := attendee.NewInMemoryStore()
		checkinMem := checkin.NewInMemoryStore()
		boothMem := booth.NewInMemoryStore()
		entitlementMem := entitlement.NewInMemoryStore()
		entitlementMem.SeedCatalog(devCatalog())

		rosterStore = attendeeMem
		scanStore, deskKeyStore = checkinMem, checkinMem
		boothStore = boothMem
		planStore, catalogStore = entitlementMem, entitlementMem
		mergeStore = dedupe.NewInMemoryMergeStore(attendeeMem, checkinMem, boothMem)

		log.Warn("no postgres DSN configured, using in-memory stores")
	}

	entitlementMetrics := entmetrics.New()

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
		catalogStore = entitlement.NewCachedCatalogStore(
			catalogStore, rdb.Client, cfg.CatalogCacheTTL, log, entitlementMetrics)
		log.Info("feature catalog cache enabled", "ttl", cfg.CatalogCacheTTL)
	}

	var auditor audit.Publisher = audit.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := auditkafka.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafkaPub.Close(closeCtx); err != nil {
				log.Error("audit publisher close failed", "error", err)
			}
		}()

		buffered := audit.NewBufferedPublisher(256, log)
		worker := audit.NewWorker(kafkaPub, buffered.Inbox(), log)
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit worker stopped", "error", err)
			}
		}()
		auditor = buffered

		log.Info("audit publishing enabled", "topic", cfg.Kafka.AuditTopic)
	}

	attendeeSvc, err := attendeesvc.New(rosterStore, log,
		attendeesvc.WithAudit(auditor),
		attendeesvc.WithMetrics(attendeemetrics.New()))
	if err != nil {
		return fmt.Errorf("attendee service: %w", err)
	}
	dedupeSvc, err := dedupesvc.New(rosterStore, mergeStore, log,
		dedupesvc.WithAudit(auditor),
		dedupesvc.WithMetrics(dedupemetrics.New()),
		dedupesvc.WithScanCounts(scanStore))
	if err != nil {
		return fmt.Errorf("dedupe service: %w", err)
	}
	checkinSvc, err := checkinsvc.New(scanStore, deskKeyStore, log,
		checkinsvc.WithAudit(auditor),
		checkinsvc.WithMetrics(checkinmetrics.New()))
	if err != nil {
		return fmt.Errorf("checkin service: %w", err)
	}
	boothSvc, err := boothsvc.New(boothStore, log,
		boothsvc.WithAudit(auditor))
	if err != nil {
		return fmt.Errorf("booth service: %w", err)
	}
	entitlementSvc, err := entsvc.New(planStore, catalogStore, log,
		entsvc.WithAudit(auditor),
		entsvc.WithMetrics(entitlementMetrics))
	if err != nil {
		return fmt.Errorf("entitlement service: %w", err)
	}

	router := httpapi.NewRouter(httpapi.Handlers{
		Attendees:    attendeehandler.New(attendeeSvc, log),
		Dedupe:       dedupehandler.New(dedupeSvc, log),
		Checkins:     checkinhandler.New(checkinSvc, log),
		Booths:       boothhandler.New(boothSvc, log),
		Entitlements: entitlementhandler.New(entitlementSvc, log),
	}, auth.NewVerifier(cfg.JWTSigningKey), log)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("eventdesk listening", "addr", cfg.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// devCatalog backs the in-memory mode with a catalog entry per known feature,
// so entitlement endpoints are usable without a database.
func devCatalog() []entitlement.CatalogEntry {
	features := id.AllFeatures()
	entries := make([]entitlement.CatalogEntry, 0, len(features))
	for _, f := range features {
		entries = append(entries, entitlement.CatalogEntry{ID: id.NewCatalogEntryID(), Key: f})
	}
	return entries
}

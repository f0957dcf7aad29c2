package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/remesalabs/remesa-backend/internal/handler"
	"github.com/remesalabs/remesa-backend/internal/monitoring"
	"github.com/remesalabs/remesa-backend/internal/payout"
	"github.com/remesalabs/remesa-backend/internal/settlement"
	"github.com/remesalabs/remesa-backend/internal/stellarrpc"
	"github.com/remesalabs/remesa-backend/internal/store"
	pgstore "github.com/remesalabs/remesa-backend/internal/store/postgres"
	httptransport "github.com/remesalabs/remesa-backend/internal/transport/http"
	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
	"github.com/remesalabs/remesa-backend/internal/watcher"
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)
	s := store.New()

	metricsRegistry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(metricsRegistry)

	stellarRpc, err := stellarrpc.New(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to init stellar rpc", map[string]string{
			"error": err.Error(),
		})
		return
	}

	var payoutClient payout.IPayout
	if appConfig.Payout.APIURL != "" {
		payoutClient = payout.NewAirtmClient(appConfig, logger)
	} else {
		logger.Info("PAYOUT_API_URL not set, using simulated payout rail")
		payoutClient = payout.NewSimulator(logger)
	}
	payoutClient = monitoring.NewCircuitBreakerPayout(payoutClient, monitoring.DefaultCircuitBreakerConfig, metrics, logger)

	settler := settlement.New(db, s, payoutClient, logger, metrics)
	w := watcher.New(db, s, stellarRpc, settler, appConfig, logger, metrics)

	reaper := settlement.NewReaper(db, s, appConfig, logger)
	c := cron.New()
	c.AddFunc("@every 5m", reaper.SweepStalePending)
	c.Start()

	h := handler.New(db, s, stellarRpc, w, settler, logger)
	httpServer := httptransport.NewHttpServer(appConfig, logger, h, metricsRegistry)

	httpServer.Run(":" + appConfig.ApiServer.Port)
}

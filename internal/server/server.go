package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/nasiya/internal/audit"
	auditdomain "github.com/smallbiznis/nasiya/internal/audit/domain"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/cohort"
	cohortdomain "github.com/smallbiznis/nasiya/internal/cohort/domain"
	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/smallbiznis/nasiya/internal/debtor"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	"github.com/smallbiznis/nasiya/internal/ledger"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"github.com/smallbiznis/nasiya/internal/notification"
	notificationdomain "github.com/smallbiznis/nasiya/internal/notification/domain"
	"github.com/smallbiznis/nasiya/internal/observability"
	obslogger "github.com/smallbiznis/nasiya/internal/observability/logger"
	obstracing "github.com/smallbiznis/nasiya/internal/observability/tracing"
	"github.com/smallbiznis/nasiya/internal/overdue"
	overduedomain "github.com/smallbiznis/nasiya/internal/overdue/domain"
	"github.com/smallbiznis/nasiya/internal/providers"
	"github.com/smallbiznis/nasiya/internal/providers/excel"
	"github.com/smallbiznis/nasiya/internal/providers/pdf"
	"github.com/smallbiznis/nasiya/internal/ratelimit"
	"github.com/smallbiznis/nasiya/internal/rating"
	ratingdomain "github.com/smallbiznis/nasiya/internal/rating/domain"
	"github.com/smallbiznis/nasiya/internal/report"
	reportdomain "github.com/smallbiznis/nasiya/internal/report/domain"
	"github.com/smallbiznis/nasiya/internal/settings"
	settingsdomain "github.com/smallbiznis/nasiya/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Domains bundles every service the HTTP API and the scheduler share.
var Domains = fx.Options(
	audit.Module,
	settings.Module,
	notification.Module,
	debtor.Module,
	ledger.Module,
	rating.Module,
	overdue.Module,
	report.Module,
	cohort.Module,
	providers.Module,
	ratelimit.Module,
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

const shutdownTimeout = 10 * time.Second

func NewEngine(obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	clock  clock.Clock

	debtorSvc       debtordomain.Service
	ledgerSvc       ledgerdomain.Service
	settingsSvc     settingsdomain.Service
	notificationSvc notificationdomain.Service
	auditSvc        auditdomain.Service
	ratingSvc       ratingdomain.Service
	overdueSvc      overduedomain.Service
	reportSvc       reportdomain.Service
	cohortSvc       cohortdomain.Service

	pdf         pdf.Provider
	excel       excel.Provider
	cronLimiter *ratelimit.CronLimiter
	locker      ratelimit.Locker
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock

	DebtorSvc       debtordomain.Service
	LedgerSvc       ledgerdomain.Service
	SettingsSvc     settingsdomain.Service
	NotificationSvc notificationdomain.Service
	AuditSvc        auditdomain.Service
	RatingSvc       ratingdomain.Service
	OverdueSvc      overduedomain.Service
	ReportSvc       reportdomain.Service
	CohortSvc       cohortdomain.Service

	PDF         pdf.Provider
	Excel       excel.Provider
	CronLimiter *ratelimit.CronLimiter `optional:"true"`
	Locker      ratelimit.Locker         `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http"),
		clock:           p.Clock,
		debtorSvc:       p.DebtorSvc,
		ledgerSvc:       p.LedgerSvc,
		settingsSvc:     p.SettingsSvc,
		notificationSvc: p.NotificationSvc,
		auditSvc:        p.AuditSvc,
		ratingSvc:       p.RatingSvc,
		overdueSvc:      p.OverdueSvc,
		reportSvc:       p.ReportSvc,
		cohortSvc:       p.CohortSvc,
		pdf:             p.PDF,
		excel:           p.Excel,
		cronLimiter:     p.CronLimiter,
		locker:          p.Locker,
	}
	if svc.clock == nil {
		svc.clock = clock.System()
	}
	if svc.locker == nil {
		svc.locker = ratelimit.NewLocalLocker(svc.clock.Now)
	}

	svc.registerAPIRoutes()
	svc.registerCronRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Debtors --------
	api.GET("/debtors", s.ListDebtors)
	api.POST("/debtors", s.CreateDebtor)
	api.GET("/debtors/export.xlsx", s.ExportDebtors)
	api.POST("/debtors/bulk-delete", s.BulkDeleteDebtors)
	api.GET("/debtors/:id", s.GetDebtor)
	api.PATCH("/debtors/:id", s.UpdateDebtor)
	api.DELETE("/debtors/:id", s.DeleteDebtor)
	api.GET("/debtors/:id/timeline", s.GetDebtorTimeline)
	api.GET("/debtors/:id/rating", s.GetDebtorRating)
	api.GET("/debtors/:id/statement.pdf", s.GetDebtorStatement)

	// -------- Ledger --------
	api.GET("/debts", s.ListDebts)
	api.POST("/debts", s.RecordDebt)
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.RecordPayment)

	// -------- Settings --------
	api.GET("/settings", s.ListSettings)
	api.POST("/settings", s.SetSetting)

	// -------- Notifications --------
	api.GET("/notifications", s.ListNotifications)
	api.PATCH("/notifications/:id", s.MarkNotificationRead)
	api.POST("/notifications/read-all", s.MarkAllNotificationsRead)

	// -------- Reports --------
	reports := api.Group("/reports")
	{
		reports.GET("/stats", s.GetStats)
		reports.GET("/chart", s.GetChart)
		reports.GET("/window", s.GetWindow)
		reports.GET("/trends", s.GetTrends)
		reports.GET("/risk", s.GetRisk)
		reports.GET("/heatmap", s.GetHeatmap)
		reports.GET("/monthly", s.GetMonthly)
	}

	api.GET("/cohorts/maturity", s.GetMaturityCohort)
	api.GET("/cohorts/interval", s.GetIntervalCohort)

	api.GET("/overdue", s.ListOverdue)
	api.GET("/audit-logs", s.ListAuditLogs)
}

func (s *Server) registerCronRoutes() {
	cron := s.engine.Group("/api/cron", s.CronKeyRequired(), s.CronRateLimit())

	cron.GET("/check-overdue", s.CronCheckOverdue)
	cron.GET("/hosting-reminder", s.CronHostingReminder)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}

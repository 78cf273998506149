package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opst/orcaobra/pkg/auth"
	"github.com/opst/orcaobra/pkg/billing"
	"github.com/opst/orcaobra/pkg/blob/s3"
	"github.com/opst/orcaobra/pkg/budgeting"
	"github.com/opst/orcaobra/pkg/buildtime"
	kcf "github.com/opst/orcaobra/pkg/configs/server"
	"github.com/opst/orcaobra/pkg/domain"
	kpg "github.com/opst/orcaobra/pkg/domain/orcaobra/db/postgres"
	"github.com/opst/orcaobra/pkg/echoutil"
	"github.com/opst/orcaobra/pkg/llm"
	"github.com/opst/orcaobra/pkg/metrics"
	"github.com/opst/orcaobra/pkg/utils/filewatch"

	"github.com/opst/orcaobra/cmd/orcaobrad/handlers"
)

func main() {
	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)
	e.Logger.Infof("orcaobrad %s", buildtime.String())

	// read configfile
	conf, err := kcf.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	// shutting down makes the process restart with the new configuration
	// by its supervisor.
	shutdown := func(reason error) {
		e.Logger.Warnf("shutting down: %s", reason)
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			e.Logger.Errorf("error on shutdown: %s", err)
		}
	}
	context.AfterFunc(ctx, func() { shutdown(context.Cause(ctx)) })

	if *configPath != "" {
		cctx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configuration: %s", err)
		}
		defer cancel()
		context.AfterFunc(cctx, func() {
			if ctx.Err() == nil {
				shutdown(context.Cause(cctx))
			}
		})
	}

	// get dbaccessor
	db, err := kpg.New(ctx, conf.DB.URI, kpg.WithSchemaRepository(conf.DB.SchemaRepository))
	if err != nil {
		log.Fatalf("can not connect to the database: %s", err)
	}
	defer db.Close()

	{
		sctx, cancel := db.Schema().Context(ctx)
		defer cancel()
		if sctx.Err() != nil {
			log.Fatalf("database is not ready: %s", context.Cause(sctx))
		}
		context.AfterFunc(sctx, func() {
			if ctx.Err() == nil {
				shutdown(context.Cause(sctx))
			}
		})
	}

	mc := metrics.New()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		mc,
	)

	completer, describer, err := assistants(ctx, conf.LLM, mc, e)
	if err != nil {
		log.Fatalf("can not set up assistants: %s", err)
	}
	generator := budgeting.New(completer, db.Catalog())

	pay := billing.New(billing.Config{
		SecretKey:     conf.Billing.Stripe.SecretKey,
		WebhookSecret: conf.Billing.Stripe.WebhookSecret,
		PriceID:       conf.Billing.Stripe.PriceID,
		SuccessURL:    strings.TrimSuffix(conf.Server.PublicURL, "/") + "/billing/success",
		CancelURL:     strings.TrimSuffix(conf.Server.PublicURL, "/") + "/billing/cancel",
	})

	quota := domain.Quota{FreeBudgetsPerMonth: conf.Quota.FreeBudgetsPerMonth}
	authn := auth.Middleware(
		auth.NewVerifier(conf.Auth.JWTSecret, conf.Auth.Issuer),
		db.Account(),
		auth.NewAdmins(conf.Auth.AdminEmails),
	)
	admin := auth.AdminOnly()
	api := func(p string) string { return "/api/" + p }

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	{
		budgetId := "budgetId"
		dbBudget := db.Budget()
		e.POST(api("budgets"), handlers.CreateBudgetHandler(dbBudget), authn)
		e.GET(api("budgets"), handlers.ListBudgetsHandler(dbBudget), authn)
		e.POST(
			api("budgets/generate"),
			handlers.GenerateBudgetHandler(dbBudget, db.Account(), generator, quota, mc),
			authn,
		)
		e.GET(api("budgets/:budgetId"), handlers.GetBudgetHandler(dbBudget, budgetId), authn)
		e.PUT(api("budgets/:budgetId"), handlers.UpdateBudgetHandler(dbBudget, budgetId), authn)
		e.DELETE(api("budgets/:budgetId"), handlers.DeleteBudgetHandler(dbBudget, budgetId), authn)
		e.POST(api("budgets/:budgetId/duplicate"), handlers.DuplicateBudgetHandler(dbBudget, budgetId), authn)
		e.PUT(api("budgets/:budgetId/status"), handlers.SetBudgetStatusHandler(dbBudget, budgetId), authn)
		e.POST(
			api("budgets/:budgetId/items/suggest"),
			handlers.SuggestItemsHandler(dbBudget, db.Account(), generator, budgetId),
			authn,
		)
		e.GET(api("budgets/:budgetId/export.csv"), handlers.ExportBudgetCSVHandler(dbBudget, budgetId, mc), authn)
		e.GET(api("budgets/:budgetId/document"), handlers.BudgetDocumentHandler(dbBudget, budgetId, mc), authn)
	}

	{
		e.GET(api("catalog"), handlers.SearchCatalogHandler(db.Catalog()), authn)
		e.PUT(api("admin/catalog"), handlers.UpsertCatalogHandler(db.Catalog()), authn, admin)
		e.DELETE(api("admin/catalog/:code"), handlers.DeleteCatalogHandler(db.Catalog(), "code"), authn, admin)
	}

	if conf.Storage.S3.Bucket == "" {
		e.Logger.Warn("storage.s3.bucket is not set. photo reports are disabled.")
	} else {
		store, err := s3.New(ctx, s3.Config{
			Endpoint:        conf.Storage.S3.Endpoint,
			Region:          conf.Storage.S3.Region,
			Bucket:          conf.Storage.S3.Bucket,
			AccessKeyID:     conf.Storage.S3.AccessKeyID,
			SecretAccessKey: conf.Storage.S3.SecretAccessKey,
			PathStyle:       conf.Storage.S3.PathStyle,
		})
		if err != nil {
			log.Fatalf("can not set up storage: %s", err)
		}

		reportId, photoId := "reportId", "photoId"
		p := handlers.PhotoReports{DB: db.PhotoReport(), Store: store, URLTTL: conf.Storage.S3.URLTTL}
		upload := middleware.BodyLimit("11M")

		e.POST(api("photo-reports"), handlers.CreatePhotoReportHandler(p), authn)
		e.GET(api("photo-reports"), handlers.ListPhotoReportsHandler(p), authn)
		e.GET(api("photo-reports/:reportId"), handlers.GetPhotoReportHandler(p, reportId), authn)
		e.PUT(api("photo-reports/:reportId"), handlers.UpdatePhotoReportHandler(p, reportId), authn)
		e.DELETE(api("photo-reports/:reportId"), handlers.DeletePhotoReportHandler(p, reportId), authn)
		e.POST(api("photo-reports/:reportId/photos"), handlers.UploadPhotoHandler(p, reportId), authn, upload)
		e.PUT(
			api("photo-reports/:reportId/photos/:photoId/caption"),
			handlers.SetCaptionHandler(p, reportId, photoId),
			authn,
		)
		e.POST(
			api("photo-reports/:reportId/photos/:photoId/describe"),
			handlers.DescribePhotoHandler(p, db.Account(), describer, reportId, photoId),
			authn,
		)
		e.DELETE(api("photo-reports/:reportId/photos/:photoId"), handlers.DeletePhotoHandler(p, reportId, photoId), authn)
		e.GET(api("photo-reports/:reportId/document"), handlers.PhotoReportDocumentHandler(p, reportId, mc), authn)
	}

	{
		parcel := middleware.BodyLimit("21M")
		e.POST(api("memorials"), handlers.MemorialHandler(), authn, parcel)
		e.POST(api("memorials/document"), handlers.MemorialDocumentHandler(mc), authn, parcel)
	}

	{
		e.GET(api("me"), handlers.MeHandler(db.Account(), quota), authn)
		e.POST(api("billing/checkout"), handlers.CheckoutHandler(pay), authn)
		e.POST(api("billing/webhook"), handlers.WebhookHandler(pay, db.Account()))

		e.GET(api("admin/stats"), handlers.AdminStatsHandler(db.Account()), authn, admin)
		e.GET(api("admin/users"), handlers.AdminUsersHandler(db.Account()), authn, admin)
		e.PUT(api("admin/users/:userId/plan"), handlers.AdminSetPlanHandler(db.Account(), "userId"), authn, admin)
	}

	log.Println("registered routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	addr := ":" + conf.Server.Port
	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		err = e.StartTLS(addr, cert, key)
	} else {
		err = e.Start(addr)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}

// assistants builds LLM providers in the configured order.
//
// Providers without API keys are skipped. Photos are described by Gemini
// only; describer is nil without it.
func assistants(
	ctx context.Context, conf kcf.LLMSection, mc *metrics.Collector, e *echo.Echo,
) (llm.Completer, llm.Describer, error) {
	providers := []llm.Completer{}
	var describer llm.Describer

	for _, name := range conf.Order {
		switch name {
		case kcf.ProviderGroq:
			if conf.Groq.APIKey == "" {
				e.Logger.Warn("llm: groq is skipped. no api key.")
				continue
			}
			g, err := llm.NewGroq(llm.GroqConfig{
				APIKey:      conf.Groq.APIKey,
				URL:         conf.Groq.URL,
				Model:       conf.Groq.Model,
				Temperature: conf.Groq.Temperature,
			})
			if err != nil {
				return nil, nil, err
			}
			providers = append(providers, g)
		case kcf.ProviderGemini:
			if conf.Gemini.APIKey == "" {
				e.Logger.Warn("llm: gemini is skipped. no api key.")
				continue
			}
			g, err := llm.NewGemini(ctx, llm.GeminiConfig{
				APIKey:      conf.Gemini.APIKey,
				URL:         conf.Gemini.URL,
				Model:       conf.Gemini.Model,
				Temperature: conf.Gemini.Temperature,
			})
			if err != nil {
				return nil, nil, err
			}
			providers = append(providers, g)
			describer = llm.Observed(g, mc)
		}
	}
	if len(providers) == 0 {
		e.Logger.Warn("llm: no provider is available. AI features respond 503.")
	}

	completer := llm.Fallback(
		providers,
		llm.WithObserver(mc),
		llm.WithLogger(e.Logger),
		llm.WithTimeout(conf.Timeout),
	)
	return completer, describer, nil
}

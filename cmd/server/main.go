package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	_ "github.com/go-sql-driver/mysql"

	"github.com/VishalDET/ASG/api"
	"github.com/VishalDET/ASG/config"
	"github.com/VishalDET/ASG/pkg/couponcache"
	"github.com/VishalDET/ASG/pkg/memtable"
	"github.com/VishalDET/ASG/pkg/otellib"
	"github.com/VishalDET/ASG/repository"
	"github.com/VishalDET/ASG/service/customer"
	"github.com/VishalDET/ASG/service/offer"
	"github.com/VishalDET/ASG/service/redemption"
	"github.com/VishalDET/ASG/service/scratch"
)

const localMemTableSize = 8 * 1024 * 1024

func startServer() {
	conf := config.Load()
	logger := config.NewLogger(conf.Log)

	tracerProvider, shutdown := otellib.InitOtel("scratch-promo-api", "local", conf.Jaeger)
	defer shutdown()

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	db := conf.MySQL.MustConnect()
	provider := repository.NewProvider(db)

	offerRepo := repository.NewOffer()
	customerRepo := repository.NewCustomer()
	couponRepo := repository.NewCoupon()

	memcacheClient := couponcache.NewMemcacheClient(conf.Memcache.Addr(), conf.Memcache.NumConns)
	defer func() { _ = memcacheClient.Close() }()

	cache := couponcache.New(
		memtable.New(localMemTableSize), memcacheClient, conf.Promo.CacheTTLSeconds)

	scratchService := scratch.NewService(
		provider, offerRepo, customerRepo, couponRepo,
		scratch.NewSelector(),
		scratch.NewGate(conf.Promo.Location()),
		scratch.NewCodeGenerator(conf.Promo.CodePrefix),
		conf.Promo.Validity(),
	)
	redemptionService := redemption.NewService(
		provider, couponRepo, customerRepo, offerRepo, cache)
	customerService := customer.NewService(provider, customerRepo)
	offerService := offer.NewService(provider, offerRepo)

	handler := api.NewHandler(customerService, offerService, scratchService, redemptionService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(otellib.Middleware(tracerProvider, logger))
	router.Handle("/metrics", promhttp.Handler())
	router.Mount("/", handler.Routes())

	startHTTPServer(conf, router)
}

func startHTTPServer(conf config.Config, handler http.Handler) {
	fmt.Println("HTTP:", conf.Server.HTTP.ListenString())

	httpServer := &http.Server{
		Addr:    conf.Server.HTTP.ListenString(),
		Handler: handler,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
		fmt.Println("Shutdown HTTP server successfully")
	}()

	//--------------------------------
	// Graceful Shutdown
	//--------------------------------
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := httpServer.Shutdown(ctx)
	if err != nil {
		panic(err)
	}

	<-done
}

func startServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "start the server",
		Run: func(cmd *cobra.Command, args []string) {
			startServer()
		},
	}
}

func main() {
	rootCmd := cobra.Command{
		Use: "server",
	}
	rootCmd.AddCommand(
		startServerCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
}

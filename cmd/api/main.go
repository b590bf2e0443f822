package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yakirz/sales-gateway/internal/config"
	gateway "github.com/yakirz/sales-gateway/internal/gateways"
	"github.com/yakirz/sales-gateway/internal/handlers"
	"github.com/yakirz/sales-gateway/internal/queue"
	"github.com/yakirz/sales-gateway/internal/repository"
	"github.com/yakirz/sales-gateway/internal/services"
	"github.com/yakirz/sales-gateway/internal/session"
	xhttp "github.com/yakirz/sales-gateway/pkg/http"
	"github.com/yakirz/sales-gateway/pkg/logger"
	"github.com/yakirz/sales-gateway/pkg/pg"
	"github.com/yakirz/sales-gateway/pkg/prom"
	"github.com/yakirz/sales-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	inviteQueue, err := queue.New(redisAdap, queue.Config{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating invite queue", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		if err := prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed to create prometheus metrics", "error", err)
			return
		}
		if config.Get().AppDebugMetricsAddr != "" {
			go func() {
				prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
			}()
		}
	}

	sessions := session.NewStore(redisAdap, config.Get().SessionTTL)

	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	signupRepo := repository.NewPendingSignupRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	var verifier services.PaymentVerifier
	if config.Get().PaymentsimURL != "" {
		client, err := gateway.NewPaymentClient(&gateway.Config{URL: config.Get().PaymentsimURL})
		if err != nil {
			logger.Error("failed creating payment client", "error", err)
			return
		}
		verifier = client
	}

	// services
	tokens := services.NewTokenManager(config.Get().AuthSecret, config.Get().AuthTokenTTL)
	authService := services.NewAuthService(userRepo, adminRepo, tokens, sessions)
	signupService := services.NewSignupService(signupRepo, userRepo, inviteQueue, config.Get().SignupBaseURL)
	saleService := services.NewSaleService(transactionRepo, verifier)
	healthService := services.NewHealthService(db, redisAdap)

	// handlers
	authHandler := handlers.NewAuthHandler(authService, groupRepo, config.Get().SessionTTL)
	groupHandler := handlers.NewGroupHandler(groupRepo)
	userHandler := handlers.NewUserHandler(userRepo, signupService)
	clientHandler := handlers.NewClientHandler(clientRepo)
	trackHandler := handlers.NewTrackHandler(trackRepo)
	transactionHandler := handlers.NewTransactionHandler(saleService)
	signupHandler := handlers.NewSignupHandler(signupService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api")
	handlers.RegisterAuthRoutes(g, authHandler)
	handlers.RegisterGroupRoutes(g, groupHandler)
	handlers.RegisterUserRoutes(g, userHandler)
	handlers.RegisterClientRoutes(g, clientHandler)
	handlers.RegisterTrackRoutes(g, trackHandler)
	handlers.RegisterTransactionRoutes(g, transactionHandler, authService)

	handlers.RegisterSignupRoutes(s.Router, signupHandler)
	handlers.RegisterHealthRoutes(s.Router, healthHandler)

	logger.Info("starting api", "version", version, "commit", commit, "built", date)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}

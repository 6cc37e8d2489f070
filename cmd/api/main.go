package main

import (
	"context"
	"os"
	"safesound/cmd/internal/domain/sqlite"
	"safesound/cmd/internal/domain/sqlite/repository"
	handler2 "safesound/cmd/internal/http/handler"
	authmw "safesound/cmd/internal/http/middleware"
	"safesound/cmd/internal/infrastructure/aws/email"
	"safesound/cmd/internal/infrastructure/fcm"
	"safesound/cmd/internal/service"
	"safesound/cmd/internal/service/jobs"
	"safesound/cmd/internal/utils"
	"safesound/cmd/internal/utils/uid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/safesound/prod/"

func main() {
	validate := validator.New()

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			panic(err)
		}
	}

	uid.Init(1)

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	// Token signatures are verified against the Cognito user pool keys
	err = utils.InitJWKS(os.Getenv("COGNITO_REGION"), os.Getenv("COGNITO_POOL_ID"))
	if err != nil {
		panic(err)
	}

	// Delivery channels
	sesClient, err := email.NewSESClient()
	if err != nil {
		panic(err)
	}
	fcmClient, err := fcm.NewFCMClient(context.Background())
	if err != nil {
		panic(err)
	}

	// Getting repos
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	alertRepo := repository.NewAlertJobRepository(db)
	heartbeatRepo := repository.NewHeartbeatRepository(db)

	// Getting services
	heartbeatService := service.NewHeartbeatService(heartbeatRepo, validate)
	safetyCheckService := service.NewSafetyCheckService(userRepo, contactRepo, alertRepo)
	dispatchService := service.NewAlertDispatchService(userRepo, alertRepo, fcmClient, sesClient)
	sosService := service.NewSOSService(contactRepo, sesClient)

	// Getting handlers
	heartbeatRoutes := handler2.NewHeartbeatDefault(heartbeatService)
	sosRoutes := handler2.NewSOSDefault(sosService)

	// Background pipeline: the scanner schedules alerts, the dispatcher
	// delivers them. Both stop with the server context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go jobs.NewSafetyCheckJob(safetyCheckService).Start(ctx)
	go jobs.NewAlertDispatcherJob(dispatchService).Start(ctx)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	requireAuth := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{UserRepo: userRepo})

	// Liveness + emergency endpoints
	e.POST("/api/heartbeats", heartbeatRoutes.RecordHeartbeat, requireAuth)
	e.POST("/api/sos", sosRoutes.TriggerSOS, requireAuth)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":7070"); err != nil {
		panic(err)
	}
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-2"))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}

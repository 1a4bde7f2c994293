package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johnoltman65/commerce-authnet/authnet"
	"github.com/johnoltman65/commerce-authnet/config"
	"github.com/johnoltman65/commerce-authnet/controllers"
	"github.com/johnoltman65/commerce-authnet/database"
	"github.com/johnoltman65/commerce-authnet/kafka"
	"github.com/johnoltman65/commerce-authnet/models"
	"github.com/johnoltman65/commerce-authnet/repository"
	"github.com/johnoltman65/commerce-authnet/routes"
	"github.com/johnoltman65/commerce-authnet/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[AuthnetService] Failed to load config:", err)
	}

	// Connect DB
	if err := database.Connect(); err != nil {
		log.Fatal("[AuthnetService] Failed to connect to DB:", err)
	}
	if err := database.DB.AutoMigrate(
		&models.Payment{},
		&models.PaymentMethod{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Shipment{},
	); err != nil {
		log.Fatal("[AuthnetService] Failed to migrate models:", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("[AuthnetService] Failed to initialize logger:", err)
	}
	defer logger.Sync()

	paymentRepo := repository.NewGormPaymentRepo(database.DB)
	methodRepo := repository.NewGormPaymentMethodRepo(database.DB)
	customerRepo := repository.NewGormCustomerRepo(database.DB)
	orderRepo := repository.NewGormOrderRepo(database.DB)

	gateway := authnet.NewClient(authnet.Config{
		Endpoint:       cfg.AuthnetEndpoint,
		APILoginID:     cfg.AuthnetAPILoginID,
		TransactionKey: cfg.AuthnetTransactionKey,
		Timeout:        cfg.AuthnetTimeout,
	}, logger)

	paymentProducer := kafka.NewPaymentEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.PaymentEventTopic)
	defer paymentProducer.Close()

	profileSvc := services.NewProfileService(gateway, methodRepo, customerRepo, logger)
	transactionSvc := services.NewTransactionService(
		gateway, profileSvc, paymentRepo, methodRepo, customerRepo, orderRepo, paymentProducer, logger)
	settlementSvc := services.NewSettlementService(gateway, paymentRepo, transactionSvc, logger)

	// Promote settled echeck payments in the background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go settlementSvc.Run(ctx, cfg.ReconcileInterval, cfg.ReconcileLookback)

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())

	pc := &controllers.PaymentController{
		Profiles:     profileSvc,
		Transactions: transactionSvc,
		Settlements:  settlementSvc,
		Payments:     paymentRepo,
		Logger:       logger,
	}
	routes.RegisterPaymentRoutes(r, pc)

	log.Println("[AuthnetService] Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[AuthnetService] Server failed:", err)
	}
}

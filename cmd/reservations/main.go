package main

import (
	"gearbook/internal/booking/handler"
	"gearbook/internal/booking/repository"
	"gearbook/internal/booking/service"
	"gearbook/internal/booking/session"
	"gearbook/internal/booking/validator"
	"gearbook/pkg/app"
	"gearbook/pkg/config"
	"gearbook/pkg/kafka"
	kafka_config "gearbook/pkg/kafka/config"
	"gearbook/pkg/notify"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Reservations service")

	cfg.SetMongo()
	cfg.SetDirectories()
	defer cfg.GracefulShutdown()

	notifier, producer := initNotifier(cfg)
	if producer != nil {
		defer producer.Close()
	}

	sessions := session.NewStore(cfg.SessionTTL, cfg.Log)
	defer sessions.Stop()

	flowService, lifecycleService := initServices(cfg, sessions, notifier)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(flowService, lifecycleService, cfg.Log))
	serverApp.Run()
}

func initNotifier(cfg *config.Config) (notify.Notifier, *kafka.Producer) {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, notifications disabled", "error", err)
		return notify.Nop{}, nil
	}
	cfg.Log.Info("Notification producer initialized", "topic", cfg.NotificationsTopic)
	return notify.NewKafkaNotifier(producer, ServiceName, cfg.Log), producer
}

func initServices(cfg *config.Config, sessions *session.Store, notifier notify.Notifier) (service.FlowService, service.LifecycleService) {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)

	lifecycleService := service.NewLifecycleService(
		reservationRepo,
		reservationValidator,
		cfg.Client.Users,
		notifier,
		sessions,
		cfg,
	)
	flowService := service.NewFlowService(
		sessions,
		reservationRepo,
		cfg.Client.Inventory,
		lifecycleService,
		cfg,
	)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return flowService, lifecycleService
}

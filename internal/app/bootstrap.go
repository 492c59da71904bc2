package app

import (
	"context"
	"fmt"
	stdlog "log"
	"log/slog"
	"time"

	"salestat/config"
	"salestat/internal/app/dto"
	"salestat/internal/domain/model"
	"salestat/internal/domain/repository"
	"salestat/internal/domain/service"
	"salestat/internal/domain/useCases"
	ws "salestat/internal/handlers/websocket"
	redisrepo "salestat/internal/infrastructure/cache"
	"salestat/internal/infrastructure/notify"
	"salestat/internal/infrastructure/queue"
	"salestat/internal/infrastructure/source"
	chrepo "salestat/internal/infrastructure/storage"
	"salestat/pkg/utils"
)

// Processor defines the common interface for the direct-channel and Kafka
// snapshot processors
type Processor interface {
	Run(ctx context.Context) error
}

// AppContext holds all app dependencies
type AppContext struct {
	Config            *config.Config
	ReportService     *service.SnapshotReportService
	Broadcaster       *ws.WebSocketBroadcaster
	Notifier          useCases.Notifier
	Poller            *Poller
	SnapshotProcessor Processor
	KafkaConsumer     *queue.KafkaConsumer
	KafkaProducer     *queue.KafkaProducer
	SnapshotCh        chan *dto.SnapshotDTO
}

// NewApp initializes the app context with all dependencies
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*AppContext, error) {
	app := &AppContext{Config: cfg}

	// Initialize cache implementation (Redis)
	var reportCache repository.ReportCache
	reportCache = redisrepo.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	log.Info("Redis report cache initialized")

	// Try to initialize persistent sale history (ClickHouse)
	var saleHistory repository.SalePersistence
	chConfig := chrepo.ClickHouseConfig{
		Addr:     cfg.ClickhouseAddr,
		Username: cfg.ClickhouseUsername,
		Password: cfg.ClickhousePassword,
		Timeout:  cfg.ClickhouseTimeout,
	}
	clickhouseRepo, err := chrepo.NewClickHouseRepository(chConfig)
	if err != nil {
		log.Warn(fmt.Sprintf("Failed to connect to ClickHouse: %v. Continuing without sale history.", err))
	} else {
		saleHistory = clickhouseRepo
		log.Info("ClickHouse sale history initialized")
	}

	app.ReportService = service.NewSnapshotReportService(reportCache, saleHistory)
	log.Info("Report service initialized")

	// Setup broadcaster
	app.Broadcaster = ws.NewWebSocketBroadcaster()

	// Setup webhook notifier when configured
	if cfg.DiscordWebhookURL != "" {
		app.Notifier = notify.NewDiscordNotifier(cfg.DiscordWebhookURL)
		log.Info("Discord notifier initialized")
	} else {
		log.Info("No webhook configured, notifications disabled")
	}

	// Pick the sale source
	var saleSource SaleSource
	if cfg.DemoMode {
		saleSource = &demoSource{gen: utils.NewSaleGenerator()}
		log.Info("Demo mode: generating random sales instead of fetching")
	} else {
		if cfg.NotionAPIKey == "" || cfg.SalesDatabaseID == "" {
			return nil, fmt.Errorf("sales source not configured: NOTION_API_KEY and SALES_DB_ID are required")
		}
		client := source.NewClient(source.Config{
			BaseURL:    cfg.NotionBaseURL,
			APIKey:     cfg.NotionAPIKey,
			APIVersion: cfg.NotionAPIVersion,
			DatabaseID: cfg.SalesDatabaseID,
			Timeout:    cfg.SourceTimeout,
		})
		saleSource = &recordSource{client: client}
		log.Info("Sales database source initialized")
	}

	// Wire snapshot transport: Kafka when brokers are configured, otherwise
	// a direct channel
	if len(cfg.KafkaBrokers) > 0 {
		kafkaConfig := queue.KafkaConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}
		app.KafkaProducer = queue.NewKafkaProducer(kafkaConfig)
		app.KafkaConsumer = queue.NewKafkaConsumer(kafkaConfig)
		app.Poller = NewKafkaPoller(saleSource, app.KafkaProducer, cfg.PollInterval)
		app.SnapshotProcessor = NewKafkaSnapshotProcessor(app.KafkaConsumer, app.ReportService, app.Broadcaster)
		log.Info("Using Kafka for snapshot transport")
	} else {
		app.SnapshotCh = make(chan *dto.SnapshotDTO, cfg.SnapshotBufferSize)
		app.Poller = NewPoller(saleSource, app.SnapshotCh, cfg.PollInterval)
		app.SnapshotProcessor = NewSnapshotProcessor(app.SnapshotCh, app.ReportService, app.Broadcaster)
		log.Info("Using direct channel for snapshot transport")
	}

	return app, nil
}

// Cleanup performs graceful shutdown of all components
func (a *AppContext) Cleanup(ctx context.Context) {
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			stdlog.Printf("Error closing Kafka consumer: %v", err)
		}
	}

	if a.KafkaProducer != nil {
		if err := a.KafkaProducer.Close(); err != nil {
			stdlog.Printf("Error closing Kafka producer: %v", err)
		}
	}

	// The snapshot channel stays open: the poller may still be selecting to
	// send until its context unwinds, and the processor exits on cancellation
	// without needing a close.
}

// recordSource adapts the hosted-database client into a SaleSource by
// normalizing each fetched record.
type recordSource struct {
	client *source.Client
}

func (s *recordSource) FetchSales(ctx context.Context) ([]model.Sale, error) {
	raw, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return service.NormalizeAll(raw), nil
}

// demoSource serves generated sales so the dashboard can run without a
// configured database.
type demoSource struct {
	gen *utils.SaleGenerator
}

func (s *demoSource) FetchSales(ctx context.Context) ([]model.Sale, error) {
	return s.gen.GenerateRandomSales(120, time.Now()), nil
}

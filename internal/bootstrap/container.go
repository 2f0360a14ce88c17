package bootstrap

import (
	"context"
	"fmt"
	"log"

	"solemate-be/internal/config"
	"solemate-be/internal/controller"
	"solemate-be/internal/pkg/logger"
	"solemate-be/internal/repository/implementation"
	"solemate-be/internal/repository/memory"
	"solemate-be/internal/repository/redisstore"
	"solemate-be/internal/service"
	"solemate-be/internal/websocket"
	"solemate-be/pkg/ai/pipeline"
	"solemate-be/pkg/ai/router"
	"solemate-be/pkg/assets"
	"solemate-be/pkg/embedding"
	embeddingfactory "solemate-be/pkg/embedding/factory"
	llmfactory "solemate-be/pkg/llm/factory"
	llmgemini "solemate-be/pkg/llm/gemini"
	llmopenai "solemate-be/pkg/llm/openai"
	"solemate-be/pkg/objectstore"
	"solemate-be/pkg/rag/response"
	"solemate-be/pkg/rag/search"
	"solemate-be/pkg/rag/session"
	"solemate-be/pkg/vision"
	visiongemini "solemate-be/pkg/vision/gemini"
	visionopenai "solemate-be/pkg/vision/openai"
	"solemate-be/pkg/vision/s3stage"

	pktNats "solemate-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController
	ProductController controller.IProductController

	// Services (also used directly by the terminal client)
	ChatbotService service.IChatbotService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	StatsService    service.IStatsService

	WebSocketHub *websocket.Hub
	Logger       logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Loggers
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	c.Logger = sysLogger

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Shared clients
	var geminiClient *genai.Client
	if cfg.Ai.LLMProvider == "gemini" || cfg.Ai.VisionProvider == "gemini" || cfg.Ai.EmbeddingProvider == "gemini" {
		client, err := llmgemini.NewClient(ctx, cfg.Keys.GoogleGemini)
		if err != nil {
			return nil, err
		}
		geminiClient = client
	}

	var s3Client *s3.Client
	if cfg.Storage.ImageBucket != "" || cfg.Ai.VisionProvider == "openai" {
		client, err := objectstore.NewS3Client(ctx, objectstore.S3Config{
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		s3Client = client
	}

	// 4. Embedding Gateway
	embeddingProvider, err := embeddingfactory.NewEmbeddingProvider(embeddingfactory.Settings{
		Provider:      cfg.Ai.EmbeddingProvider,
		Model:         cfg.Ai.EmbeddingModel,
		VoyageKey:     cfg.Keys.Voyage,
		JinaKey:       cfg.Keys.Jina,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		GeminiClient:  geminiClient,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)
	embedder := embedding.NewGateway(embeddingProvider, sysLogger, cfg.Ai.CallTimeout)

	// 5. LLM Provider
	llmProvider, err := llmfactory.NewLLMProvider(llmfactory.Settings{
		Provider:           cfg.Ai.LLMProvider,
		Model:              cfg.Ai.LLMModel,
		Temperature:        cfg.Ai.Temperature,
		OllamaBaseURL:      cfg.Ai.OllamaBaseURL,
		OpenAIBaseURL:      cfg.Ai.OpenAIBaseURL,
		OpenAIKey:          cfg.Keys.OpenAI,
		HuggingFaceKey:     cfg.Keys.HuggingFace,
		HuggingFaceBaseURL: cfg.Ai.HuggingFaceURL,
		GeminiClient:       geminiClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 6. Vision Describer
	describer, err := newDescriber(cfg, geminiClient, s3Client, sysLogger)
	if err != nil {
		return nil, err
	}

	// 7. Session Memory
	rdb := connectRedis(ctx, cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var sessions *session.Manager
	switch cfg.App.HistoryBackend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("history backend redis requires a reachable REDIS_URL")
		}
		sessions = session.NewManager(redisstore.NewHistoryRepository(rdb, cfg.App.SessionTTL)).
			WithRemoteLock(redisstore.NewSessionLock(rdb, redisstore.DefaultLockTTL))
	default:
		sessions = session.NewManager(memory.NewHistoryRepository(cfg.App.SessionTTL))
	}

	// 8. Turn Pipeline
	searchClient := search.NewClient(implementation.NewProductRepository(db), sysLogger, cfg.Ai.CallTimeout)
	intentRouter := router.NewIntentRouter(llmProvider, cfg.Ai.RouterModel, llmLogger, cfg.Ai.CallTimeout)
	generator := response.NewGenerator(llmProvider, sessions, llmLogger, cfg.Ai.CallTimeout)

	turnPipeline := pipeline.NewTurnPipeline(
		embedder,
		searchClient,
		describer,
		intentRouter,
		generator,
		sessions,
		pipeline.Config{SearchLimit: cfg.Search.TopK, FeatureBudget: cfg.Search.FeatureBudget},
		sysLogger,
	)

	// 9. NATS
	var forwarder service.EventForwarder
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] NATS Publisher: %v", err)
	}
	if natsPub != nil {
		forwarder = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	var eventSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		eventSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	// 10. WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()
	c.WebSocketHub = wsHub

	// 11. Services
	publisherService := service.NewPublisherService(cfg.App.TurnEventTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.TurnEventTopic, forwarder, sysLogger)
	c.StatsService = service.NewStatsService(eventSubscriber, sysLogger)
	c.ChatbotService = service.NewChatbotService(turnPipeline, sessions, publisherService, c.StatsService, sysLogger)

	var imageGetter assets.ObjectGetter
	if s3Client != nil {
		imageGetter = s3Client
	}
	imageStore := assets.NewStore(imageGetter, cfg.Storage.ImageBucket, cfg.Storage.ImagePrefix, cfg.Storage.ImageCacheTTL, cfg.Ai.CallTimeout, sysLogger)

	// 12. Controllers
	c.ChatbotController = controller.NewChatbotController(c.ChatbotService, wsHub, sysLogger)
	c.ProductController = controller.NewProductController(imageStore)

	return c, nil
}

// Close releases broker and cache connections in reverse order
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newDescriber(cfg *config.Config, geminiClient *genai.Client, s3Client *s3.Client, sysLogger logger.ILogger) (*vision.Describer, error) {
	switch cfg.Ai.VisionProvider {
	case "openai":
		model, err := llmopenai.NewModel(cfg.Keys.OpenAI, cfg.Ai.VisionModel, cfg.Ai.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		provider := llmopenai.NewOpenAIProvider(model, 0)
		return vision.NewDescriber(
			s3stage.Factory(s3Client, cfg.Storage.StagingBucket),
			visionopenai.NewModel(provider, cfg.Ai.VisionModel),
			sysLogger,
			cfg.Ai.CallTimeout,
		), nil
	case "gemini":
		return vision.NewDescriber(
			visiongemini.Factory(geminiClient),
			visiongemini.NewModel(geminiClient, cfg.Ai.VisionModel),
			sysLogger,
			cfg.Ai.CallTimeout,
		), nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.Ai.VisionProvider)
	}
}

// connectRedis returns nil when Redis is not configured or unreachable
func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

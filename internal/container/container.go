package container

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"time"

	"performative-scorer/internal/cache"
	"performative-scorer/internal/classifier"
	"performative-scorer/internal/config"
	"performative-scorer/internal/detector"
	"performative-scorer/internal/logger"
	"performative-scorer/internal/modelstore"
	"performative-scorer/internal/randutil"
	"performative-scorer/internal/scorer"
	"performative-scorer/internal/service"
	"performative-scorer/internal/transport"
	"performative-scorer/internal/vision"

	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	config   *config.Config
	pool     *vision.WorkerPool
	redis    *cache.RedisCache
	service  service.AnalysisService
	handler  http.Handler
	ensemble *classifier.Ensemble
}

// NewContainer builds the dependency graph. Redis being unreachable
// degrades to a noop cache; a missing model artifact is fatal only when
// MODEL_OPTIONAL is false.
func NewContainer(cfg *config.Config) (*Container, error) {
	pool := vision.NewWorkerPool(runtime.NumCPU())
	pool.Start()

	resultCache, redisCache, cacheConnected := buildCache(cfg)

	ensemble, err := loadEnsemble(cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	rng := randutil.New(time.Now().UnixNano())
	itemDetector := detector.NewDetector(detector.DefaultCatalog(), rng)
	itemScorer := scorer.NewScorer(rng)

	var textLabeler detector.TextLabeler
	if cfg.OCRLabelsEnabled {
		textLabeler = detector.NewOCRLabelProvider(detector.DefaultCatalog())
		logger.Info("OCR label provider enabled")
	}

	svc := service.NewAnalysisService(
		vision.NewExtractor(),
		pool,
		itemDetector,
		itemScorer,
		resultCache,
		service.Options{
			Ensemble:        ensemble,
			TextLabeler:     textLabeler,
			CacheTTL:        cfg.CacheTTL,
			AnalysisTimeout: cfg.AnalysisTimeout,
			CacheConnected:  cacheConnected,
		},
	)

	handler := transport.NewHandler(svc, transport.HandlerConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	return &Container{
		config:   cfg,
		pool:     pool,
		redis:    redisCache,
		service:  svc,
		handler:  handler,
		ensemble: ensemble,
	}, nil
}

// buildCache connects to Redis, falling back to a noop cache when the
// initial ping fails.
func buildCache(cfg *config.Config) (cache.ResultCache, *cache.RedisCache, bool) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	redisCache := cache.NewRedisCache(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		logger.WithError(err).Warn("Redis unreachable, caching disabled")
		_ = redisCache.Close()
		return cache.NoopCache{}, nil, false
	}

	logger.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
	return redisCache, redisCache, true
}

// loadEnsemble fetches and restores the model artifact. When the
// artifact is optional, any failure leaves the ensemble nil and the
// service runs on the heuristic score alone.
func loadEnsemble(cfg *config.Config) (*classifier.Ensemble, error) {
	store, err := buildModelStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := store.Fetch(ctx, cfg.ModelPath)
	if err != nil {
		if cfg.ModelOptional {
			logger.WithError(err).Warn("Model artifact unavailable, running without model score")
			return nil, nil
		}
		return nil, fmt.Errorf("fetch model artifact: %w", err)
	}

	ensemble, err := classifier.NewEnsemble()
	if err != nil {
		return nil, err
	}
	if err := ensemble.Load(data); err != nil {
		if cfg.ModelOptional {
			logger.WithError(err).Warn("Model artifact invalid, running without model score")
			return nil, nil
		}
		return nil, fmt.Errorf("load model artifact: %w", err)
	}

	logger.WithField("path", cfg.ModelPath).Info("Model ensemble loaded")
	return ensemble, nil
}

func buildModelStore(cfg *config.Config) (modelstore.BlobStore, error) {
	switch cfg.ModelStore {
	case config.ModelStoreAzure:
		return modelstore.NewAzureStore(cfg.AzureAccountName, cfg.AzureAccountKey, "models")
	default:
		// The local store resolves names relative to its root, so the
		// configured path's directory is the root.
		return modelstore.NewLocalStore(filepath.Dir(cfg.ModelPath)), nil
	}
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the analysis service.
func (c *Container) Service() service.AnalysisService {
	return c.service
}

// Close releases pooled workers and the cache connection.
func (c *Container) Close() {
	c.pool.Close()
	if c.redis != nil {
		_ = c.redis.Close()
	}
}

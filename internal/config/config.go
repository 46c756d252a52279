// Package config centraliza o carregamento de configurações da aplicação.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MatheusdePaulo/AutoAI-email-classifier/internal/core/domain"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	ClientIPRemote    = "remote"
	ClientIPForwarded = "forwarded"

	PolicyScore   = "score"
	PolicyKeyword = "keyword"

	ResponseTemplate = "template"
	ResponseGenerate = "generate"
)

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	RateLimiter RateLimiterConfig
	Classifier  ClassifierConfig
	Model       ModelConfig
}

type ServerConfig struct {
	Port           string
	LogLevel       string
	ClientIPSource string
}

type StorageConfig struct {
	Type         string
	CleanupEvery time.Duration
	Redis        RedisConfig
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

type RateLimiterConfig struct {
	Rule domain.RateLimitRule
}

type ClassifierConfig struct {
	Policy              string
	ConfidenceThreshold float64
	ResponseStrategy    string
}

type ModelConfig struct {
	BaseURL         string
	Token           string
	ClassifierModel string
	GeneratorModel  string
	Timeout         time.Duration
	Warmup          bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server, err := buildServerConfig()
	if err != nil {
		return Config{}, err
	}

	storage, err := buildStorageConfig()
	if err != nil {
		return Config{}, err
	}

	rateLimiterConfig, err := buildRateLimiterConfig()
	if err != nil {
		return Config{}, err
	}

	classifierConfig, err := buildClassifierConfig()
	if err != nil {
		return Config{}, err
	}

	modelConfig, err := buildModelConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server:      server,
		Storage:     storage,
		RateLimiter: rateLimiterConfig,
		Classifier:  classifierConfig,
		Model:       modelConfig,
	}, nil
}

func buildServerConfig() (ServerConfig, error) {
	source, err := oneOf("CLIENT_IP_SOURCE", ClientIPRemote, ClientIPRemote, ClientIPForwarded)
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		Port:           getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ClientIPSource: source,
	}, nil
}

func buildStorageConfig() (StorageConfig, error) {
	storageType, err := oneOf("RATE_LIMIT_STORAGE", StorageMemory, StorageMemory, StorageRedis)
	if err != nil {
		return StorageConfig{}, err
	}

	cleanupSeconds, err := strconv.Atoi(getEnv("RATE_LIMIT_CLEANUP_SECONDS", "60"))
	if err != nil {
		return StorageConfig{}, fmt.Errorf("invalid RATE_LIMIT_CLEANUP_SECONDS: %w", err)
	}

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return StorageConfig{}, err
	}

	return StorageConfig{
		Type:         storageType,
		CleanupEvery: time.Duration(cleanupSeconds) * time.Second,
		Redis:        redisConfig,
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return RedisConfig{
		Host:      host,
		Port:      port,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        db,
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "ratelimit"),
	}, nil
}

func buildRateLimiterConfig() (RateLimiterConfig, error) {
	requests, err := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "5"))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	windowSeconds, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_WINDOW_SECONDS: %w", err)
	}
	if requests <= 0 || windowSeconds <= 0 {
		return RateLimiterConfig{}, fmt.Errorf("rate limit requests and window must be positive")
	}

	return RateLimiterConfig{
		Rule: domain.RateLimitRule{
			Requests: requests,
			Window:   time.Duration(windowSeconds) * time.Second,
		},
	}, nil
}

func buildClassifierConfig() (ClassifierConfig, error) {
	policy, err := oneOf("CLASSIFIER_POLICY", PolicyScore, PolicyScore, PolicyKeyword)
	if err != nil {
		return ClassifierConfig{}, err
	}
	strategy, err := oneOf("RESPONSE_STRATEGY", ResponseTemplate, ResponseTemplate, ResponseGenerate)
	if err != nil {
		return ClassifierConfig{}, err
	}

	threshold, err := strconv.ParseFloat(getEnv("CONFIDENCE_THRESHOLD", "0.4"), 64)
	if err != nil {
		return ClassifierConfig{}, fmt.Errorf("invalid CONFIDENCE_THRESHOLD: %w", err)
	}
	if threshold < 0 || threshold > 1 {
		return ClassifierConfig{}, fmt.Errorf("CONFIDENCE_THRESHOLD must be within [0, 1]: %v", threshold)
	}

	return ClassifierConfig{
		Policy:              policy,
		ConfidenceThreshold: threshold,
		ResponseStrategy:    strategy,
	}, nil
}

func buildModelConfig() (ModelConfig, error) {
	timeoutSeconds, err := strconv.Atoi(getEnv("HF_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return ModelConfig{}, fmt.Errorf("invalid HF_TIMEOUT_SECONDS: %w", err)
	}
	warmup, err := strconv.ParseBool(getEnv("HF_WARMUP", "false"))
	if err != nil {
		return ModelConfig{}, fmt.Errorf("invalid HF_WARMUP: %w", err)
	}

	return ModelConfig{
		BaseURL:         getEnv("HF_API_URL", "https://api-inference.huggingface.co/models"),
		Token:           os.Getenv("HF_API_TOKEN"),
		ClassifierModel: getEnv("HF_CLASSIFIER_MODEL", "typeform/distilbert-base-uncased-mnli"),
		GeneratorModel:  getEnv("HF_GENERATOR_MODEL", "distilgpt2"),
		Timeout:         time.Duration(timeoutSeconds) * time.Second,
		Warmup:          warmup,
	}, nil
}

func oneOf(key, fallback string, allowed ...string) (string, error) {
	value := strings.ToLower(getEnv(key, fallback))
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q: expected one of %s", key, value, strings.Join(allowed, ", "))
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

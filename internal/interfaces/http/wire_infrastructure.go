package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/auth"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/cache"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/config"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/google"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/repository"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

const (
	lockPrefix      = "dealer_docs_lock:"
	rateLimitPrefix = "dealer_docs_"
	googleTimeout   = 60 * time.Second
	redisPingWait   = 5 * time.Second
)

type infrastructure struct {
	httpClient       *http.Client
	identityProvider *auth.IdentityProvider
	tokenClient      *auth.GoogleAccessTokenClient
	verifier         *auth.VerificationClient
	decoder          auth.CredentialDecoder
	drive            *google.DriveUploader
	sheets           *google.SheetsClient
	sessionStore     session.Store
	records          *repository.DealerRecordRepository
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingWait)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return client, nil
}

// newInfrastructure wires the Google clients and the session and lock
// backends. Sessions and upsert locks live in Redis when a client is given
// and in process memory otherwise.
func newInfrastructure(cfg *config.Config, redisClient *redis.Client, log logger.Interface) *infrastructure {
	httpClient := &http.Client{Timeout: googleTimeout}
	opts := google.ClientOptions{
		HTTPClient:        httpClient,
		RequestsPerSecond: cfg.Google.RequestsPerSecond,
	}

	provider := auth.NewIdentityProvider(cfg.Google.DiscoveryURL, httpClient, log)
	infra := &infrastructure{
		httpClient:       httpClient,
		identityProvider: provider,
		tokenClient:      auth.NewGoogleAccessTokenClient(cfg.Google.ClientID, cfg.Google.ClientSecret, provider, httpClient, log),
		verifier:         auth.NewVerificationClient(cfg.Google.VerifyURL, cfg.Google.ClientID, httpClient, log),
		drive:            google.NewDriveUploader(cfg.Google.DriveUploadBaseURL, opts, log),
		sheets:           google.NewSheetsClient(cfg.Google.SheetsBaseURL, cfg.Google.SheetID, opts, log),
	}

	var locker repository.KeyLocker
	if redisClient != nil {
		infra.sessionStore = cache.NewRedisSessionStore(redisClient, cfg.Redis.SessionPrefix)
		lockTTL := time.Duration(cfg.Redis.LockTTLSeconds) * time.Second
		locker = cache.NewRedisKeyLocker(redisClient, lockPrefix, lockTTL, log)
	} else {
		infra.sessionStore = cache.NewMemorySessionStore()
		locker = cache.NewLocalKeyLocker()
	}
	infra.records = repository.NewDealerRecordRepository(infra.sheets, cfg.Google.SheetName, locker, log)

	return infra
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/todolist/todo-service/internal/config"
	"github.com/todolist/todo-service/internal/database"
	"github.com/todolist/todo-service/internal/storage"
	"github.com/todolist/todo-service/internal/todo/store"
	"github.com/todolist/todo-service/pkg/logger"
)

// openStore builds the configured backend. The returned close func releases
// any client the backend holds and is never nil.
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (store.Store, string, func(), error) {
	noop := func() {}
	log := logger.With("backend", cfg.Store.Backend)
	switch cfg.Store.Backend {
	case config.BackendFile:
		fs := store.NewFileStore(cfg.Store.Path)
		log.Infof("using JSON file store at %s", fs.Path())
		return fs, config.BackendFile, noop, nil

	case config.BackendMemory:
		log.Warnf("using in-memory store; todos are lost on restart")
		return store.NewMemoryStore(), config.BackendMemory, noop, nil

	case config.BackendRedis:
		if redisClient == nil {
			return nil, "", noop, fmt.Errorf("redis store: client unavailable")
		}
		log.Infof("using Redis store at %s key=%s", cfg.Redis.Addr(), cfg.Redis.Key)
		return store.NewRedisStore(redisClient, cfg.Redis.Key), config.BackendRedis, noop, nil

	case config.BackendMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second,
			func(attempt int, err error) {
				log.Warnf("attempt %d/5: failed to connect to MongoDB: %v", attempt, err)
			})
		if err != nil {
			return nil, "", noop, err
		}
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		log.Infof("using MongoDB store %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return store.NewMongoStore(col, ""), config.BackendMongo, closeFn, nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, "", noop, err
		}
		log.Infof("using SQLite store at %s", cfg.SQLite.Path)
		return store.NewSQLiteStore(db), config.BackendSQLite, func() { _ = db.Close() }, nil

	case config.BackendMinIO:
		bucket, err := storage.OpenBucket(ctx, cfg.MinIO)
		if err != nil {
			return nil, "", noop, err
		}
		log.Infof("using MinIO store %s/%s", bucket.Name(), cfg.MinIO.ObjectKey)
		return store.NewObjectStore(bucket, cfg.MinIO.ObjectKey), config.BackendMinIO, noop, nil
	}
	return nil, "", noop, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// connectRedis returns a pinged client, or nil when Redis is not configured
// or unreachable.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", cfg.Addr(), err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis at %s", cfg.Addr())
	return client
}

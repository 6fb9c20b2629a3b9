package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gomodule/redigo/redis"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectAttempts = 6

func retry(ctx context.Context, l *zap.SugaredLogger, what string, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts), ctx)
	return backoff.RetryNotify(op, b, func(err error, next time.Duration) {
		l.Warnw("connection failed, retrying", "target", what, "in", next, "error", err)
	})
}

func connectPostgres(ctx context.Context, l *zap.SugaredLogger, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("main: unable to open PostgreSQL: %w", err)
	}
	err = retry(ctx, l, "postgres", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("main: unable to reach PostgreSQL: %w", err)
	}
	return db, nil
}

func connectMongo(ctx context.Context, l *zap.SugaredLogger, uri string) (*mongo.Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("main: can't connect to MongoDB: %w", err)
	}

	err = retry(ctx, l, "mongo", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return client.Ping(pingCtx, nil)
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("main: unable to reach MongoDB: %w", err)
	}
	return client, nil
}

func newRedisPool(ctx context.Context, l *zap.SugaredLogger, addr string) (*redis.Pool, error) {
	pool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 4 * time.Minute,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	err := retry(ctx, l, "redis", func() error {
		conn := pool.Get()
		defer conn.Close()
		_, err := conn.Do("PING")
		return err
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("main: can't connect to Redis: %w", err)
	}
	return pool, nil
}

// Copyright 2026 JMarkets Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/redis/go-redis/v9"
)

// ProviderSet provides cache-related dependencies.
var ProviderSet = wire.NewSet(ProvideRedis, ProvideICache)

// ProvideRedis provides a Redis client instance.
func ProvideRedis(conf Redis) (*redis.Client, error) {
	return NewRedis(conf)
}

// ProvideICache provides an ICache instance.
func ProvideICache(client *redis.Client) ICache {
	return NewRedisCache(client)
}

type Redis struct {
	Mode             string
	Address          string
	Password         string
	DB               int
	PoolSize         int
	UseTLS           bool
	MasterName       string
	SentinelUsername string
	SentinelPassword string
	DialTimeout      time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

func NewRedis(cfg Redis) (*redis.Client, error) {

	var redisClient *redis.Client
	switch cfg.Mode {
	case "single", "":
		redisOptions := &redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  cfg.DialTimeout * time.Second,
			ReadTimeout:  cfg.ReadTimeout * time.Second,
			WriteTimeout: cfg.WriteTimeout * time.Second,
		}
		if cfg.UseTLS {
			redisOptions.TLSConfig = &tls.Config{}
		}
		redisClient = redis.NewClient(redisOptions)
	case "sentinel":
		redisOptions := &redis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    strings.Split(cfg.Address, ","),
			Password:         cfg.Password,
			DB:               cfg.DB,
			PoolSize:         cfg.PoolSize,
			SentinelUsername: cfg.SentinelUsername,
			SentinelPassword: cfg.SentinelPassword,
			DialTimeout:      cfg.DialTimeout * time.Second,
			ReadTimeout:      cfg.ReadTimeout * time.Second,
			WriteTimeout:     cfg.WriteTimeout * time.Second,
		}
		if cfg.UseTLS {
			redisOptions.TLSConfig = &tls.Config{}
		}
		redisClient = redis.NewFailoverClient(redisOptions)
	default:
		return nil, fmt.Errorf("illegal redis mode: %s", cfg.Mode)
	}

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect redis", "error", err)
		return nil, err
	}

	log.Infow("redis connected",
		"mode", cfg.Mode,
	)

	return redisClient, nil
}

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

package bootstrap

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmarkets/jmarkets/internal/storefront/config"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/internal/storefront/router"
	"github.com/jmarkets/jmarkets/internal/storefront/service"
	"github.com/jmarkets/jmarkets/internal/storefront/tenant"
	"github.com/jmarkets/jmarkets/pkg/cache"
	"github.com/jmarkets/jmarkets/pkg/cron"
	"github.com/jmarkets/jmarkets/pkg/database"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/jmarkets/jmarkets/pkg/safe"
)

// App holds the wired application.
type App struct {
	Conf   config.AppConfig
	Redis  *redis.Client
	DB     database.IDatabase
	Router *router.Router

	PermissionSvc *service.PermissionService
	InvitationSvc *service.InvitationService

	scheduler *cron.Cron
}

// New wires the whole application from configuration: storage, cache,
// tenant resolution, services and the HTTP router.
func New(appConf config.AppConfig) (*App, error) {
	log.MustInit(&appConf.Log)

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	gormDB, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db := database.NewGormDB(gormDB)
	redisCache := cache.ProvideICache(redisClient)

	orgRepo := repo.NewOrganizationRepo(db)
	memberRepo := repo.NewMemberRepo(db)
	roleRepo := repo.NewRoleRepo(db)
	invRepo := repo.NewInvitationRepo(db)
	userRepo := repo.NewUserRepo(db, redisCache)

	hostResolver := tenant.NewHostResolver(appConf.Tenant.BaseDomain, appConf.Tenant.StorePort)
	directory := tenant.NewDirectory(
		orgRepo,
		redisCache,
		appConf.Tenant.ReservedNames,
		tenant.WithStorageTimeout(time.Duration(appConf.Tenant.StorageTimeoutSeconds)*time.Second),
		tenant.WithCacheTTL(time.Duration(appConf.Tenant.CacheTTLMinutes)*time.Minute),
	)

	permSvc := service.NewPermissionService(roleRepo)
	if err := permSvc.Preload(); err != nil {
		log.Warnw("permission matrix preload failed, loading lazily", "error", err)
	}
	membershipSvc := service.NewMembershipService(memberRepo, orgRepo, permSvc)
	authzSvc := service.NewAuthzService(memberRepo, permSvc)
	orgSvc := service.NewOrganizationService(orgRepo, memberRepo, directory)
	authSvc := service.NewAuthService(userRepo, appConf.Http.Auth)
	invitationSvc := service.NewInvitationService(
		invRepo, memberRepo, orgRepo, roleRepo, userRepo, permSvc,
		service.InvitationPolicy{
			ExpiryWindow:       time.Duration(appConf.Invitation.ExpiryDays) * 24 * time.Hour,
			AllowEmailMismatch: appConf.Invitation.AllowEmailMismatch,
		},
	)

	rt := router.NewRouter(
		&appConf.Http,
		redisClient,
		hostResolver,
		directory,
		authSvc,
		orgSvc,
		membershipSvc,
		permSvc,
		authzSvc,
		invitationSvc,
	)

	return &App{
		Conf:          appConf,
		Redis:         redisClient,
		DB:            db,
		Router:        rt,
		PermissionSvc: permSvc,
		InvitationSvc: invitationSvc,
		scheduler:     cron.New(),
	}, nil
}

// Run starts the invitation expiry sweep and the HTTP server, then
// blocks until SIGINT or SIGTERM and shuts down in order.
func (a *App) Run() error {
	if err := a.scheduler.AddFunc(a.Conf.Invitation.SweepCron, "invitation-expiry-sweep", func() {
		if _, err := a.InvitationSvc.ExpireOverdue(); err != nil {
			log.Errorw("invitation expiry sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule expiry sweep: %w", err)
	}
	a.scheduler.Start()

	app := a.Router.Router()
	addr := fmt.Sprintf("%s:%d", a.Conf.Http.Host, a.Conf.Http.Port)
	safe.Go(func() {
		log.Infow("http server listening", "addr", addr)
		var err error
		if a.Conf.Http.TLS.CertFile != "" && a.Conf.Http.TLS.KeyFile != "" {
			err = app.ListenTLS(addr, a.Conf.Http.TLS.CertFile, a.Conf.Http.TLS.KeyFile)
		} else {
			err = app.Listen(addr)
		}
		if err != nil {
			log.Fatalf("http server exited: %v", err)
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("shutting down", "signal", sig.String())

	a.scheduler.Stop()
	shutdownTimeout := time.Duration(a.Conf.Http.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Errorw("http shutdown failed", "error", err)
	}
	if err := a.Redis.Close(); err != nil {
		log.Errorw("redis close failed", "error", err)
	}
	return nil
}

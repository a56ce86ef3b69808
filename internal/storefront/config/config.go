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

package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/jmarkets/jmarkets/pkg/cache"
	"github.com/jmarkets/jmarkets/pkg/database"
	"github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/log"
)

// TenantConfig configures host routing and the tenant directory.
// BaseDomain and StorePort are read once at startup; changing them
// requires a restart.
type TenantConfig struct {
	BaseDomain            string
	StorePort             string
	ReservedNames         []string
	CacheTTLMinutes       int
	StorageTimeoutSeconds int
}

// InvitationConfig tunes the invitation lifecycle.
type InvitationConfig struct {
	ExpiryDays         int
	AllowEmailMismatch bool
	SweepCron          string
}

type AppConfig struct {
	Log        log.Conf
	Http       http.Http
	Database   database.Database
	Redis      cache.Redis
	Tenant     TenantConfig
	Invitation InvitationConfig
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load config file
func LoadConfigFile(confDir string) (AppConfig, error) {

	config := viper.New()
	config.SetConfigFile(confDir)
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration changed, re-reading config file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}

	applyDefaults(&cfg)

	log.Infow("config file loaded",
		"path", confDir,
	)

	return cfg, nil
}

func applyDefaults(c *AppConfig) {
	if c.Tenant.CacheTTLMinutes <= 0 {
		c.Tenant.CacheTTLMinutes = 10
	}
	if c.Tenant.StorageTimeoutSeconds <= 0 {
		c.Tenant.StorageTimeoutSeconds = 3
	}
	if len(c.Tenant.ReservedNames) == 0 {
		c.Tenant.ReservedNames = []string{"www", "api", "admin", "app", "mail", "cdn", "static"}
	}
	if c.Invitation.ExpiryDays <= 0 {
		c.Invitation.ExpiryDays = 7
	}
	if c.Invitation.SweepCron == "" {
		c.Invitation.SweepCron = "0 * * * *"
	}
}

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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// No TestMain here on purpose: loading configuration is the first thing
// both binaries do, before any logger exists, and it must not blow up
// on its own startup logging.

const minimalConf = `
[Log]
Output = "stdout"
Level = "info"

[Http]
Host = "127.0.0.1"
Port = 8000

[Tenant]
BaseDomain = "jmarkets.example.dev"
StorePort = "3000"
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFileBeforeLoggerInit(t *testing.T) {
	var loaded AppConfig
	require.NotPanics(t, func() {
		var err error
		loaded, err = LoadConfigFile(writeConf(t, minimalConf))
		require.NoError(t, err)
	})

	assert.Equal(t, "jmarkets.example.dev", loaded.Tenant.BaseDomain)
	assert.Equal(t, "3000", loaded.Tenant.StorePort)
	assert.Equal(t, 8000, loaded.Http.Port)
}

func TestLoadConfigFileAppliesDefaults(t *testing.T) {
	loaded, err := LoadConfigFile(writeConf(t, minimalConf))
	require.NoError(t, err)

	assert.Equal(t, 10, loaded.Tenant.CacheTTLMinutes)
	assert.Equal(t, 3, loaded.Tenant.StorageTimeoutSeconds)
	assert.Contains(t, loaded.Tenant.ReservedNames, "www")
	assert.Equal(t, 7, loaded.Invitation.ExpiryDays)
	assert.Equal(t, "0 * * * *", loaded.Invitation.SweepCron)
}

func TestLoadConfigFileMissingFile(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

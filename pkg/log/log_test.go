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

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The package helpers must be usable before Init runs; startup code
// logs while loading the configuration that the real logger is built
// from. No Init call may appear before these assertions.
func TestHelpersBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Infow("pre-init structured log", "key", "value")
		Infof("pre-init formatted log: %d", 1)
		Warnw("pre-init warning")
		Errorw("pre-init error", "error", "none")
	})
	assert.NotNil(t, GetLogger())
}

func TestInitReplacesFallback(t *testing.T) {
	before := GetLogger()
	require.NotNil(t, before)

	MustInit(SetDefaults())

	after := GetLogger()
	require.NotNil(t, after)
	assert.NotPanics(t, func() {
		Infow("post-init structured log")
	})
}

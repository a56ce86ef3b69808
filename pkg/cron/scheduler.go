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

package cron

import (
	"errors"
	"fmt"
	"sync"

	cronv3 "github.com/robfig/cron/v3"
	"github.com/jmarkets/jmarkets/pkg/log"
)

var (
	// ErrJobExists is returned when a job name is already registered
	ErrJobExists = errors.New("cron job with this name already exists")
	// ErrJobNotFound is returned when removing an unknown job name
	ErrJobNotFound = errors.New("cron job not found")
)

// Cron wraps the robfig scheduler with named jobs.
type Cron struct {
	inner *cronv3.Cron

	mu      sync.Mutex
	entries map[string]cronv3.EntryID
}

// New creates a scheduler supporting standard 5-field cron specs.
func New() *Cron {
	return &Cron{
		inner:   cronv3.New(),
		entries: make(map[string]cronv3.EntryID),
	}
}

// AddFunc registers cmd under a unique name with the given cron spec.
func (c *Cron) AddFunc(spec, name string, cmd func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}

	entryID, err := c.inner.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("cron job panicked", "job", name, "panic", r)
			}
		}()
		cmd()
	})
	if err != nil {
		return err
	}

	c.entries[name] = entryID
	log.Debugw("cron job registered", "job", name, "spec", spec)
	return nil
}

// Remove unregisters a named job.
func (c *Cron) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entryID, ok := c.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	c.inner.Remove(entryID)
	delete(c.entries, name)
	return nil
}

// Start launches the scheduler in its own goroutine.
func (c *Cron) Start() {
	c.inner.Start()
}

// Stop stops the scheduler; running jobs are left to complete.
func (c *Cron) Stop() {
	c.inner.Stop()
}

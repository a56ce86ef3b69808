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

package tenant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/pkg/cache"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/jmarkets/jmarkets/pkg/metrics"
)

const (
	subdomainCacheKey  = "jmarkets:tenant:subdomain:"
	defaultResolveTTL  = 10 * time.Minute
	defaultStorageWait = 3 * time.Second
)

// Directory resolves organizations by subdomain or slug and answers
// availability checks. Subdomain resolution is cached with a declared
// TTL; mutations that change the mapping must call InvalidateSubdomain.
type Directory struct {
	orgRepo     repo.IOrganizationRepository
	bySubdomain *cache.CachedQuery[*model.Organization]
	reserved    map[string]struct{}
	storageWait time.Duration
	resolveTTL  time.Duration
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithStorageTimeout bounds how long a resolution may wait on storage.
func WithStorageTimeout(d time.Duration) DirectoryOption {
	return func(td *Directory) {
		if d > 0 {
			td.storageWait = d
		}
	}
}

// WithCacheTTL sets how long a resolved subdomain mapping stays cached.
func WithCacheTTL(d time.Duration) DirectoryOption {
	return func(td *Directory) {
		if d > 0 {
			td.resolveTTL = d
		}
	}
}

// NewDirectory builds a Directory. reservedNames are values such as
// "www" or "api" that are never available and never resolve; the list
// is server-side only.
func NewDirectory(orgRepo repo.IOrganizationRepository, c cache.ICache, reservedNames []string, opts ...DirectoryOption) *Directory {
	reserved := make(map[string]struct{}, len(reservedNames))
	for _, name := range reservedNames {
		reserved[strings.ToLower(name)] = struct{}{}
	}
	td := &Directory{
		orgRepo:     orgRepo,
		reserved:    reserved,
		storageWait: defaultStorageWait,
		resolveTTL:  defaultResolveTTL,
	}
	for _, opt := range opts {
		opt(td)
	}
	td.bySubdomain = cache.NewCachedQuery[*model.Organization](
		c,
		func(params ...any) string {
			return subdomainCacheKey + params[0].(string)
		},
		cache.WithTTL[*model.Organization](td.resolveTTL),
		cache.WithLogPrefix[*model.Organization]("[TenantDirectory]"),
	)
	return td
}

// ResolveBySubdomain finds the active organization owning a subdomain.
// A reserved, unknown, or deactivated subdomain all yield
// core.ErrNoTenant; the three cases are indistinguishable to the
// caller. Storage failures fail closed as no tenant.
func (td *Directory) ResolveBySubdomain(ctx context.Context, subdomain string) (*model.Organization, error) {
	sub := strings.ToLower(subdomain)
	if sub == "" {
		metrics.TenantResolutions.WithLabelValues("none").Inc()
		return nil, core.ErrNoTenant
	}
	if _, ok := td.reserved[sub]; ok {
		metrics.TenantResolutions.WithLabelValues("reserved").Inc()
		return nil, core.ErrNoTenant
	}

	ctx, cancel := context.WithTimeout(ctx, td.storageWait)
	defer cancel()

	org, err := td.bySubdomain.Get(ctx, func(ctx context.Context) (*model.Organization, error) {
		return td.orgRepo.GetActiveBySubdomain(ctx, sub)
	}, sub)
	if err != nil {
		if !errors.Is(err, core.ErrOrganizationNotFound) {
			log.Errorw("tenant resolution failed, treating as not found", "subdomain", sub, "error", err)
			metrics.TenantResolutions.WithLabelValues("error").Inc()
		} else {
			metrics.TenantResolutions.WithLabelValues("miss").Inc()
		}
		return nil, core.ErrNoTenant
	}
	metrics.TenantResolutions.WithLabelValues("hit").Inc()
	return org, nil
}

// ResolveBySlug finds the active organization owning a slug. Slugs are
// not on the request hot path, so no cache sits in front.
func (td *Directory) ResolveBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	ctx, cancel := context.WithTimeout(ctx, td.storageWait)
	defer cancel()
	org, err := td.orgRepo.GetActiveBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if !errors.Is(err, core.ErrOrganizationNotFound) {
			log.Errorw("slug resolution failed, treating as not found", "slug", slug, "error", err)
		}
		return nil, core.ErrNoTenant
	}
	return org, nil
}

// IsSlugAvailable reports whether a slug can still be claimed. The
// reserved check runs before any storage query.
func (td *Directory) IsSlugAvailable(slug string) (bool, error) {
	s := strings.ToLower(slug)
	if s == "" {
		return false, nil
	}
	if _, ok := td.reserved[s]; ok {
		return false, nil
	}
	exists, err := td.orgRepo.SlugExists(s)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// IsSubdomainAvailable reports whether a subdomain can still be claimed.
func (td *Directory) IsSubdomainAvailable(subdomain string) (bool, error) {
	s := strings.ToLower(subdomain)
	if s == "" {
		return false, nil
	}
	if _, ok := td.reserved[s]; ok {
		return false, nil
	}
	exists, err := td.orgRepo.SubdomainExists(s)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// InvalidateSubdomain drops the cached mapping for a subdomain. Callers
// must invoke it before answering any request that could observe the
// new mapping (subdomain change, deactivation).
func (td *Directory) InvalidateSubdomain(ctx context.Context, subdomain string) error {
	return td.bySubdomain.Invalidate(ctx, strings.ToLower(subdomain))
}

package tenant

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/pkg/log"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

type fakeOrgRepo struct {
	orgs        map[string]*model.Organization // keyed by subdomain
	slugs       map[string]bool
	queriedSubs []string
	failWith    error
}

func (f *fakeOrgRepo) CreateOrganization(*model.Organization) error { return nil }

func (f *fakeOrgRepo) GetOrganization(orgId string) (*model.Organization, error) {
	for _, o := range f.orgs {
		if o.OrgId == orgId {
			return o, nil
		}
	}
	return nil, core.ErrOrganizationNotFound
}

func (f *fakeOrgRepo) GetActiveBySubdomain(_ context.Context, sub string) (*model.Organization, error) {
	f.queriedSubs = append(f.queriedSubs, sub)
	if f.failWith != nil {
		return nil, f.failWith
	}
	org, ok := f.orgs[sub]
	if !ok || org.IsActive != model.OrgActive {
		return nil, core.ErrOrganizationNotFound
	}
	return org, nil
}

func (f *fakeOrgRepo) GetActiveBySlug(_ context.Context, slug string) (*model.Organization, error) {
	for _, o := range f.orgs {
		if o.Slug == slug && o.IsActive == model.OrgActive {
			return o, nil
		}
	}
	return nil, core.ErrOrganizationNotFound
}

func (f *fakeOrgRepo) SlugExists(slug string) (bool, error) {
	return f.slugs[slug], nil
}

func (f *fakeOrgRepo) SubdomainExists(sub string) (bool, error) {
	_, ok := f.orgs[sub]
	return ok, nil
}

func (f *fakeOrgRepo) UpdateSettings(string, []byte) error  { return nil }
func (f *fakeOrgRepo) UpdateSubdomain(string, string) error { return nil }
func (f *fakeOrgRepo) Deactivate(string) error              { return nil }

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{
		orgs: map[string]*model.Organization{
			"acme": {OrgId: "org-1", Name: "Acme", Slug: "acme", Subdomain: "acme", IsActive: model.OrgActive},
			"dark": {OrgId: "org-2", Name: "Dark", Slug: "dark", Subdomain: "dark", IsActive: model.OrgInactive},
		},
		slugs: map[string]bool{"acme": true, "dark": true},
	}
}

func TestDirectory_ResolveBySubdomain(t *testing.T) {
	fr := newFakeOrgRepo()
	td := NewDirectory(fr, nil, []string{"www", "api", "admin"})

	t.Run("active organization resolves", func(t *testing.T) {
		org, err := td.ResolveBySubdomain(context.Background(), "acme")
		require.NoError(t, err)
		assert.Equal(t, "org-1", org.OrgId)
	})

	t.Run("case insensitive", func(t *testing.T) {
		org, err := td.ResolveBySubdomain(context.Background(), "ACME")
		require.NoError(t, err)
		assert.Equal(t, "org-1", org.OrgId)
	})

	t.Run("unknown subdomain", func(t *testing.T) {
		_, err := td.ResolveBySubdomain(context.Background(), "ghost")
		assert.ErrorIs(t, err, core.ErrNoTenant)
	})

	t.Run("inactive organization indistinguishable from missing", func(t *testing.T) {
		_, err := td.ResolveBySubdomain(context.Background(), "dark")
		assert.ErrorIs(t, err, core.ErrNoTenant)
	})

	t.Run("reserved subdomain never queries storage", func(t *testing.T) {
		before := len(fr.queriedSubs)
		_, err := td.ResolveBySubdomain(context.Background(), "www")
		assert.ErrorIs(t, err, core.ErrNoTenant)
		assert.Len(t, fr.queriedSubs, before)
	})

	t.Run("storage error fails closed", func(t *testing.T) {
		broken := &fakeOrgRepo{failWith: errors.New("connection refused")}
		btd := NewDirectory(broken, nil, nil)
		_, err := btd.ResolveBySubdomain(context.Background(), "acme")
		assert.ErrorIs(t, err, core.ErrNoTenant)
	})
}

func TestDirectory_Availability(t *testing.T) {
	fr := newFakeOrgRepo()
	td := NewDirectory(fr, nil, []string{"www", "api", "admin"})

	t.Run("reserved names unavailable", func(t *testing.T) {
		for _, name := range []string{"www", "api", "admin", "WWW"} {
			ok, err := td.IsSubdomainAvailable(name)
			require.NoError(t, err)
			assert.False(t, ok, name)
			ok, err = td.IsSlugAvailable(name)
			require.NoError(t, err)
			assert.False(t, ok, name)
		}
	})

	t.Run("taken values unavailable", func(t *testing.T) {
		ok, err := td.IsSubdomainAvailable("acme")
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = td.IsSlugAvailable("acme")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("free values available", func(t *testing.T) {
		ok, err := td.IsSubdomainAvailable("fresh")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty never available", func(t *testing.T) {
		ok, err := td.IsSubdomainAvailable("")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDirectory_ResolveBySlug(t *testing.T) {
	td := NewDirectory(newFakeOrgRepo(), nil, nil)

	org, err := td.ResolveBySlug(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "org-1", org.OrgId)

	_, err = td.ResolveBySlug(context.Background(), "dark")
	assert.ErrorIs(t, err, core.ErrNoTenant)
}

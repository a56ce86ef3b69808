package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostResolver_ProductionMatching(t *testing.T) {
	hr := NewHostResolver("jmarkets.example.dev", "3000")

	tests := []struct {
		name string
		host string
		port string
		want Route
	}{
		{
			name: "single label subdomain",
			host: "acme.jmarkets.example.dev",
			want: Route{Kind: RouteProductionTenant, Subdomain: "acme"},
		},
		{
			name: "multi label subdomain",
			host: "a.b.jmarkets.example.dev",
			want: Route{Kind: RouteProductionTenant, Subdomain: "a.b"},
		},
		{
			name: "host with port suffix",
			host: "acme.jmarkets.example.dev:443",
			want: Route{Kind: RouteProductionTenant, Subdomain: "acme"},
		},
		{
			name: "uppercase host normalized",
			host: "ACME.JMarkets.Example.Dev",
			want: Route{Kind: RouteProductionTenant, Subdomain: "acme"},
		},
		{
			name: "bare base domain",
			host: "jmarkets.example.dev",
			want: Route{Kind: RouteNoTenant},
		},
		{
			name: "unrelated domain",
			host: "acme.other.example.dev",
			want: Route{Kind: RouteNoTenant},
		},
		{
			name: "suffix must match whole labels",
			host: "acme.notjmarkets.example.dev",
			want: Route{Kind: RouteNoTenant},
		},
		{
			name: "base domain as substring only",
			host: "jmarkets.example.dev.evil.com",
			want: Route{Kind: RouteNoTenant},
		},
		{
			name: "empty host",
			host: "",
			want: Route{Kind: RouteNoTenant},
		},
		{
			name: "malformed host with empty label",
			host: "..jmarkets.example.dev",
			want: Route{Kind: RouteNoTenant},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hr.Resolve(tt.host, tt.port))
		})
	}
}

func TestHostResolver_LocalDevelopment(t *testing.T) {
	hr := NewHostResolver("jmarkets.example.dev", "3000")

	t.Run("localhost on store port", func(t *testing.T) {
		got := hr.Resolve("localhost:3000", "3000")
		assert.Equal(t, Route{Kind: RouteLocalDevPort, Port: "3000"}, got)
	})

	t.Run("loopback ip on store port", func(t *testing.T) {
		got := hr.Resolve("127.0.0.1", "3000")
		assert.Equal(t, Route{Kind: RouteLocalDevPort, Port: "3000"}, got)
	})

	t.Run("localhost on other port", func(t *testing.T) {
		got := hr.Resolve("localhost:8080", "8080")
		assert.Equal(t, Route{Kind: RouteNoTenant}, got)
	})

	t.Run("subdomain of localhost", func(t *testing.T) {
		got := hr.Resolve("acme.localhost:8080", "8080")
		assert.Equal(t, Route{Kind: RouteLocalDevSubdomain, Subdomain: "acme"}, got)
	})

	t.Run("bare localhost suffix with empty subdomain", func(t *testing.T) {
		got := hr.Resolve(".localhost", "8080")
		assert.Equal(t, Route{Kind: RouteNoTenant}, got)
	})
}

func TestHostResolver_Deterministic(t *testing.T) {
	hr := NewHostResolver("jmarkets.example.dev", "3000")
	first := hr.Resolve("acme.jmarkets.example.dev", "443")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, hr.Resolve("acme.jmarkets.example.dev", "443"))
	}
}

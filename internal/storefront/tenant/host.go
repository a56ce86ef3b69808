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
	"strings"
)

// RouteKind classifies how an inbound host maps onto the platform.
type RouteKind int

const (
	// RouteNoTenant host equals the base domain or matched nothing;
	// routing falls back to the landing experience.
	RouteNoTenant RouteKind = iota
	// RouteLocalDevPort bare localhost arriving on the store port.
	RouteLocalDevPort
	// RouteLocalDevSubdomain host of the form <sub>.localhost.
	RouteLocalDevSubdomain
	// RouteProductionTenant host is <sub>.<base domain>.
	RouteProductionTenant
)

func (k RouteKind) String() string {
	switch k {
	case RouteLocalDevPort:
		return "local_dev_port"
	case RouteLocalDevSubdomain:
		return "local_dev_subdomain"
	case RouteProductionTenant:
		return "production_tenant"
	default:
		return "no_tenant"
	}
}

// Route is the outcome of resolving one host header.
type Route struct {
	Kind      RouteKind
	Subdomain string // set for RouteLocalDevSubdomain and RouteProductionTenant
	Port      string // set for RouteLocalDevPort
}

// HostResolver maps inbound hosts to routes by pure string matching.
// It performs no I/O and is safe for concurrent use.
type HostResolver struct {
	baseLabels []string
	storePort  string
}

// NewHostResolver builds a resolver for the given base domain
// (e.g. "jmarkets.example.dev") and local-development store port.
func NewHostResolver(baseDomain, storePort string) *HostResolver {
	return &HostResolver{
		baseLabels: strings.Split(strings.ToLower(strings.Trim(baseDomain, ".")), "."),
		storePort:  storePort,
	}
}

// Resolve classifies a raw host header plus the connection port.
// The host may carry a port suffix; matching is case-insensitive.
func (hr *HostResolver) Resolve(rawHost, connPort string) Route {
	host := strings.ToLower(rawHost)
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	host = strings.Trim(host, ".")
	if host == "" {
		return Route{Kind: RouteNoTenant}
	}

	if host == "localhost" || host == "127.0.0.1" {
		if connPort != "" && connPort == hr.storePort {
			return Route{Kind: RouteLocalDevPort, Port: connPort}
		}
		return Route{Kind: RouteNoTenant}
	}

	if sub, ok := strings.CutSuffix(host, ".localhost"); ok {
		if sub == "" || hasEmptyLabel(sub) {
			return Route{Kind: RouteNoTenant}
		}
		return Route{Kind: RouteLocalDevSubdomain, Subdomain: sub}
	}

	labels := strings.Split(host, ".")
	if len(labels) <= len(hr.baseLabels) {
		return Route{Kind: RouteNoTenant}
	}
	split := len(labels) - len(hr.baseLabels)
	for i, b := range hr.baseLabels {
		if labels[split+i] != b {
			return Route{Kind: RouteNoTenant}
		}
	}
	for _, l := range labels[:split] {
		if l == "" {
			return Route{Kind: RouteNoTenant}
		}
	}
	return Route{Kind: RouteProductionTenant, Subdomain: strings.Join(labels[:split], ".")}
}

func hasEmptyLabel(s string) bool {
	for _, l := range strings.Split(s, ".") {
		if l == "" {
			return true
		}
	}
	return false
}

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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TenantResolutions counts tenant resolution outcomes by result:
// hit, miss, fallback, error.
var TenantResolutions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "jmarkets",
		Subsystem: "tenant",
		Name:      "resolutions_total",
		Help:      "Tenant resolution outcomes by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisions counts authorization gate decisions by outcome:
// allow, deny_not_a_member, deny_insufficient_permission, error.
var AuthorizationDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "jmarkets",
		Subsystem: "authz",
		Name:      "decisions_total",
		Help:      "Authorization gate decisions by outcome.",
	},
	[]string{"outcome"},
)

// InvitationTransitions counts invitation state transitions by target state:
// accepted, cancelled, expired, resent.
var InvitationTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "jmarkets",
		Subsystem: "invitation",
		Name:      "transitions_total",
		Help:      "Invitation lifecycle transitions by target state.",
	},
	[]string{"state"},
)

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

package model

// The protectable surface is a fixed three-level taxonomy: module,
// optional submodule, action. Tokens are resolved to dense integer ids
// once at load time; everything downstream works on ids.

type ModuleId int
type SubmoduleId int
type ActionId int

// SubmoduleNone marks a module-level permission row.
const SubmoduleNone SubmoduleId = -1

// Module tokens
const (
	ModuleProducts  = "products"
	ModuleOrders    = "orders"
	ModuleCustomers = "customers"
	ModuleMembers   = "members"
	ModuleSettings  = "settings"
	ModuleReports   = "reports"
)

// Submodule tokens
const (
	SubmoduleProductsPricing   = "pricing"
	SubmoduleProductsInventory = "inventory"
	SubmoduleOrdersRefunds     = "refunds"
	SubmoduleSettingsPayment   = "payment"
	SubmoduleSettingsShipping  = "shipping"
)

// Action tokens
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// ModuleDef declares one module and the submodules nested under it.
type ModuleDef struct {
	Token      string
	Submodules []string
}

// Catalog is the authoritative taxonomy. Order is significant: the
// index of an entry is its ModuleId.
var Catalog = []ModuleDef{
	{Token: ModuleProducts, Submodules: []string{SubmoduleProductsPricing, SubmoduleProductsInventory}},
	{Token: ModuleOrders, Submodules: []string{SubmoduleOrdersRefunds}},
	{Token: ModuleCustomers},
	{Token: ModuleMembers},
	{Token: ModuleSettings, Submodules: []string{SubmoduleSettingsPayment, SubmoduleSettingsShipping}},
	{Token: ModuleReports},
}

// Actions is the authoritative verb list; index = ActionId.
var Actions = []string{ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionManage}

var (
	moduleIds    map[string]ModuleId
	submoduleIds []map[string]SubmoduleId // indexed by ModuleId
	actionIds    map[string]ActionId
)

func init() {
	moduleIds = make(map[string]ModuleId, len(Catalog))
	submoduleIds = make([]map[string]SubmoduleId, len(Catalog))
	for mi, m := range Catalog {
		moduleIds[m.Token] = ModuleId(mi)
		subs := make(map[string]SubmoduleId, len(m.Submodules))
		for si, s := range m.Submodules {
			subs[s] = SubmoduleId(si)
		}
		submoduleIds[mi] = subs
	}
	actionIds = make(map[string]ActionId, len(Actions))
	for ai, a := range Actions {
		actionIds[a] = ActionId(ai)
	}
}

// LookupModule resolves a module token to its id.
func LookupModule(token string) (ModuleId, bool) {
	id, ok := moduleIds[token]
	return id, ok
}

// LookupSubmodule resolves a submodule token within a module. An empty
// token resolves to SubmoduleNone.
func LookupSubmodule(module ModuleId, token string) (SubmoduleId, bool) {
	if token == "" {
		return SubmoduleNone, true
	}
	if int(module) < 0 || int(module) >= len(submoduleIds) {
		return SubmoduleNone, false
	}
	id, ok := submoduleIds[module][token]
	return id, ok
}

// LookupAction resolves an action token to its id.
func LookupAction(token string) (ActionId, bool) {
	id, ok := actionIds[token]
	return id, ok
}

// RolePermission is one authoritative matrix row. A row with an empty
// submodule applies at module level. Granted = 0 is an explicit denial:
// a submodule row always overrides the module row for the same action,
// so a denying submodule row carves a hole out of a module-level grant.
type RolePermission struct {
	BaseModel
	RoleId    string `gorm:"column:role_id;not null;index:idx_perm_role" json:"roleId"`
	Module    string `gorm:"column:module;not null" json:"module"`
	Submodule string `gorm:"column:submodule;not null;default:''" json:"submodule"` // empty: module-level row
	Action    string `gorm:"column:action;not null" json:"action"`
	Granted   int    `gorm:"column:granted;not null;default:1" json:"granted"`
}

func (RolePermission) TableName() string {
	return "t_role_permission"
}

const (
	PermissionDenied  = 0
	PermissionGranted = 1
)

// PermissionGrant is the request-side shape of one matrix row.
type PermissionGrant struct {
	Module    string `json:"module"`
	Submodule string `json:"submodule"`
	Action    string `json:"action"`
	Granted   bool   `json:"granted"`
}

// perm is shorthand used when declaring the built-in matrix.
func perm(module, submodule, action string, granted int) RolePermission {
	return RolePermission{Module: module, Submodule: submodule, Action: action, Granted: granted}
}

func allActions(module string) []RolePermission {
	rows := make([]RolePermission, 0, len(Actions))
	for _, a := range Actions {
		rows = append(rows, perm(module, "", a, PermissionGranted))
	}
	return rows
}

func allModules() []RolePermission {
	var rows []RolePermission
	for _, m := range Catalog {
		rows = append(rows, allActions(m.Token)...)
	}
	return rows
}

// BuiltinRolePermissions returns the fixed matrices of the system roles,
// keyed by role id. Seeded once at install time and treated as immutable
// afterwards.
func BuiltinRolePermissions() map[string][]RolePermission {
	return map[string][]RolePermission{
		RoleOwner:         allModules(),
		RolePlatformAdmin: allModules(),
		RoleAdmin: concat(
			allActions(ModuleProducts),
			allActions(ModuleOrders),
			allActions(ModuleCustomers),
			allActions(ModuleMembers),
			allActions(ModuleReports),
			[]RolePermission{
				perm(ModuleSettings, "", ActionView, PermissionGranted),
				perm(ModuleSettings, "", ActionUpdate, PermissionGranted),
			},
		),
		RoleManager: concat(
			allActions(ModuleProducts),
			allActions(ModuleOrders),
			allActions(ModuleCustomers),
			[]RolePermission{
				perm(ModuleMembers, "", ActionView, PermissionGranted),
				perm(ModuleReports, "", ActionView, PermissionGranted),
			},
		),
		RoleStaff: {
			// Module-level view of products, with pricing explicitly
			// carved out by a denying submodule row.
			perm(ModuleProducts, "", ActionView, PermissionGranted),
			perm(ModuleProducts, SubmoduleProductsPricing, ActionView, PermissionDenied),
			perm(ModuleOrders, "", ActionView, PermissionGranted),
			perm(ModuleOrders, "", ActionUpdate, PermissionGranted),
			perm(ModuleCustomers, "", ActionView, PermissionGranted),
		},
	}
}

func concat(groups ...[]RolePermission) []RolePermission {
	var rows []RolePermission
	for _, g := range groups {
		rows = append(rows, g...)
	}
	return rows
}

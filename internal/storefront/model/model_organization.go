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

import "gorm.io/datatypes"

// Organization is an isolated store account reachable via a unique subdomain.
type Organization struct {
	BaseModel
	OrgId        string         `gorm:"column:org_id;not null;uniqueIndex" json:"orgId"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Slug         string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`          // unique machine name, immutable once assigned
	Subdomain    string         `gorm:"column:subdomain;uniqueIndex" json:"subdomain"`         // unique store subdomain, empty until assigned
	CustomDomain string         `gorm:"column:custom_domain" json:"customDomain"`              // optional fully-qualified custom domain
	Settings     datatypes.JSON `gorm:"column:settings;type:json" json:"settings"`             // theme/contact/payment/shipping configuration
	OwnerUserId  string         `gorm:"column:owner_user_id;not null" json:"ownerUserId"`
	IsActive     int            `gorm:"column:is_active;not null;default:1" json:"isActive"` // 0-disabled, 1-active
}

func (Organization) TableName() string {
	return "t_organization"
}

// OrganizationSettings is the shape stored in Organization.Settings.
type OrganizationSettings struct {
	Theme    ThemeSettings    `json:"theme"`
	Contact  ContactSettings  `json:"contact"`
	Payment  PaymentSettings  `json:"payment"`
	Shipping ShippingSettings `json:"shipping"`
}

type ThemeSettings struct {
	PrimaryColor string `json:"primary_color"`
	LogoURL      string `json:"logo_url"`
	FaviconURL   string `json:"favicon_url"`
}

type ContactSettings struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	WhatsApp string `json:"whatsapp"`
}

type PaymentSettings struct {
	Currency       string   `json:"currency"`
	Methods        []string `json:"methods"`
	BankAccount    string   `json:"bank_account"`
	PaymentMessage string   `json:"payment_message"`
}

type ShippingSettings struct {
	FlatRate      float64  `json:"flat_rate"`
	FreeAboveAmt  float64  `json:"free_above_amt"`
	PickupEnabled bool     `json:"pickup_enabled"`
	Zones         []string `json:"zones"`
}

// Organization active flags
const (
	OrgInactive = 0
	OrgActive   = 1
)

// CreateOrganizationReq is the signup request.
type CreateOrganizationReq struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Subdomain string `json:"subdomain"`
}

// UpdateOrganizationSettingsReq carries a settings replacement.
type UpdateOrganizationSettingsReq struct {
	Settings OrganizationSettings `json:"settings"`
}

// ChangeSubdomainReq regenerates the subdomain mapping. Explicit admin action
// only; the previous mapping is invalidated immediately.
type ChangeSubdomainReq struct {
	Subdomain string `json:"subdomain"`
}

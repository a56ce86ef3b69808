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

package core

import "context"

// The storefront product surface lives outside this module. Catalog,
// checkout and media implementations receive the resolved organization
// id and must already have passed the authorization gate for mutating
// calls; they contain no tenant resolution or permission logic of
// their own.

// CatalogItem is the minimal product shape the platform passes through.
type CatalogItem struct {
	ProductId string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // minor units
}

// CartLine is one requested item at checkout.
type CartLine struct {
	ProductId string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CatalogProvider serves product and category data for one tenant.
type CatalogProvider interface {
	ListProducts(ctx context.Context, orgId string) ([]CatalogItem, error)
	GetProduct(ctx context.Context, orgId, productId string) (*CatalogItem, error)
}

// CheckoutComposer builds the checkout contact message for one tenant.
type CheckoutComposer interface {
	ComposeOrderMessage(ctx context.Context, orgId string, lines []CartLine) (string, error)
}

// MediaStore stores tenant-scoped uploads such as product images.
type MediaStore interface {
	Put(ctx context.Context, orgId, name string, data []byte) (string, error)
	Delete(ctx context.Context, orgId, name string) error
}

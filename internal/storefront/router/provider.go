package router

import (
	"github.com/google/wire"
)

// ProviderSet provides the HTTP router.
var ProviderSet = wire.NewSet(
	NewRouter,
)

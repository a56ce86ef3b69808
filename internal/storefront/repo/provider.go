package repo

import (
	"github.com/google/wire"
)

// ProviderSet provides the repository layer.
var ProviderSet = wire.NewSet(
	NewOrganizationRepo,
	NewMemberRepo,
	NewRoleRepo,
	NewInvitationRepo,
	NewUserRepo,
)

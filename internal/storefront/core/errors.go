package core

import "errors"

var (
	// ErrNoTenant no organization could be resolved for the request host
	ErrNoTenant = errors.New("no tenant resolved for host")
	// ErrOrganizationNotFound organization missing or deactivated
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrReservedSubdomain the subdomain is reserved by the platform
	ErrReservedSubdomain = errors.New("subdomain is reserved")
	// ErrSlugTaken the slug is already in use
	ErrSlugTaken = errors.New("slug already taken")
	// ErrSubdomainTaken the subdomain is already in use
	ErrSubdomainTaken = errors.New("subdomain already taken")

	// ErrNotAMember the user has no membership in the organization
	ErrNotAMember = errors.New("user is not a member of the organization")
	// ErrInsufficientPermission the member's role does not grant the action
	ErrInsufficientPermission = errors.New("insufficient permission")
	// ErrAlreadyMember the user already belongs to the organization
	ErrAlreadyMember = errors.New("user is already a member")
	// ErrNoDefaultOrganization the user has no memberships at all
	ErrNoDefaultOrganization = errors.New("user has no organization")

	// ErrRoleNotFound role missing or disabled
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNotAssignable the role may not be assigned to tenant members
	ErrRoleNotAssignable = errors.New("role is not assignable")
	// ErrSystemRoleImmutable built-in role matrices cannot be edited
	ErrSystemRoleImmutable = errors.New("system role cannot be modified")
	// ErrUnknownPermission module, submodule or action token is not in the catalog
	ErrUnknownPermission = errors.New("unknown permission token")

	// ErrInvitationNotFound no invitation matches the token
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationExpired the invitation deadline has passed
	ErrInvitationExpired = errors.New("invitation expired")
	// ErrInvitationNotPending the invitation was already accepted, cancelled or expired
	ErrInvitationNotPending = errors.New("invitation is not pending")
	// ErrInvitationEmailMismatch the accepting account's email differs from the invitee
	ErrInvitationEmailMismatch = errors.New("invitation email mismatch")
	// ErrInvitationPendingDuplicate a pending invitation for this email already exists
	ErrInvitationPendingDuplicate = errors.New("pending invitation already exists for email")

	// ErrStorageTimeout the backing store did not answer in time
	ErrStorageTimeout = errors.New("storage timeout")
)

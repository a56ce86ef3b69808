package service

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmarkets/jmarkets/internal/storefront/core"
	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/log"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

// memStore is an in-memory stand-in for the whole repository layer.
// A single mutex gives it the serializability the real store gets from
// transactions.
type memStore struct {
	mu          sync.Mutex
	orgs        map[string]*model.Organization       // by orgId
	users       map[string]*model.User               // by userId
	members     map[string]*model.OrganizationMember // by orgId+"/"+userId
	roles       map[string]*model.Role               // by roleId
	perms       map[string][]model.RolePermission    // by roleId
	invitations map[string]*model.OrganizationInvitation
	failWith    error
}

func newMemStore() *memStore {
	ms := &memStore{
		orgs:        make(map[string]*model.Organization),
		users:       make(map[string]*model.User),
		members:     make(map[string]*model.OrganizationMember),
		roles:       make(map[string]*model.Role),
		perms:       make(map[string][]model.RolePermission),
		invitations: make(map[string]*model.OrganizationInvitation),
	}
	for _, r := range model.BuiltinRoles() {
		role := r
		ms.roles[r.RoleId] = &role
	}
	for roleId, rows := range model.BuiltinRolePermissions() {
		for i := range rows {
			rows[i].RoleId = roleId
		}
		ms.perms[roleId] = rows
	}
	return ms
}

func memberKey(orgId, userId string) string { return orgId + "/" + userId }

func (s *memStore) invitationByToken(token string) (*model.OrganizationInvitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, core.ErrInvitationNotFound
}

// --- IOrganizationRepository ---

type memOrgRepo struct{ s *memStore }

func (r *memOrgRepo) CreateOrganization(org *model.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orgs[org.OrgId] = org
	return nil
}

func (r *memOrgRepo) GetOrganization(orgId string) (*model.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	org, ok := r.s.orgs[orgId]
	if !ok {
		return nil, core.ErrOrganizationNotFound
	}
	return org, nil
}

func (r *memOrgRepo) GetActiveBySubdomain(_ context.Context, sub string) (*model.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orgs {
		if strings.EqualFold(o.Subdomain, sub) && o.IsActive == model.OrgActive {
			return o, nil
		}
	}
	return nil, core.ErrOrganizationNotFound
}

func (r *memOrgRepo) GetActiveBySlug(_ context.Context, slug string) (*model.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orgs {
		if strings.EqualFold(o.Slug, slug) && o.IsActive == model.OrgActive {
			return o, nil
		}
	}
	return nil, core.ErrOrganizationNotFound
}

func (r *memOrgRepo) SlugExists(slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orgs {
		if strings.EqualFold(o.Slug, slug) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memOrgRepo) SubdomainExists(sub string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orgs {
		if strings.EqualFold(o.Subdomain, sub) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memOrgRepo) UpdateSettings(orgId string, settings []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if org, ok := r.s.orgs[orgId]; ok {
		org.Settings = settings
	}
	return nil
}

func (r *memOrgRepo) UpdateSubdomain(orgId, sub string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if org, ok := r.s.orgs[orgId]; ok {
		org.Subdomain = sub
	}
	return nil
}

func (r *memOrgRepo) Deactivate(orgId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if org, ok := r.s.orgs[orgId]; ok {
		org.IsActive = model.OrgInactive
	}
	return nil
}

// --- IMemberRepository ---

type memMemberRepo struct{ s *memStore }

func (r *memMemberRepo) GetMember(orgId, userId string) (*model.OrganizationMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	m, ok := r.s.members[memberKey(orgId, userId)]
	if !ok {
		return nil, core.ErrNotAMember
	}
	cp := *m
	return &cp, nil
}

func (r *memMemberRepo) ListMembers(orgId string) ([]model.OrganizationMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.OrganizationMember
	for _, m := range r.s.members {
		if m.OrgId == orgId {
			out = append(out, *m)
		}
	}
	sortByJoin(out)
	return out, nil
}

func (r *memMemberRepo) ListUserMemberships(userId string) ([]model.OrganizationMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.OrganizationMember
	for _, m := range r.s.members {
		if m.UserId == userId {
			out = append(out, *m)
		}
	}
	sortByJoin(out)
	return out, nil
}

func (r *memMemberRepo) GetDefaultMembership(userId string) (*model.OrganizationMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.UserId == userId && m.IsDefault == model.MemberDefault {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMemberRepo) AddMember(member *model.OrganizationMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := memberKey(member.OrgId, member.UserId)
	if _, exists := r.s.members[key]; exists {
		return core.ErrAlreadyMember
	}
	cp := *member
	r.s.members[key] = &cp
	return nil
}

func (r *memMemberRepo) UpdateMemberRole(orgId, userId, roleId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[memberKey(orgId, userId)]
	if !ok {
		return core.ErrNotAMember
	}
	m.RoleId = roleId
	return nil
}

func (r *memMemberRepo) RemoveMember(orgId, userId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.members, memberKey(orgId, userId))
	return nil
}

func (r *memMemberRepo) SetDefault(userId, orgId string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.members[memberKey(orgId, userId)]
	if !ok {
		return core.ErrNotAMember
	}
	for _, m := range r.s.members {
		if m.UserId == userId {
			m.IsDefault = model.MemberNotDefault
		}
	}
	target.IsDefault = model.MemberDefault
	return nil
}

func sortByJoin(members []model.OrganizationMember) {
	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
}

// --- IRoleRepository ---

type memRoleRepo struct{ s *memStore }

func (r *memRoleRepo) GetRole(roleId string) (*model.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[roleId]
	if !ok || role.IsEnabled != model.RoleEnabled {
		return nil, core.ErrRoleNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *memRoleRepo) ListAssignableRoles(orgId string) ([]model.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Role
	for _, role := range r.s.roles {
		if role.IsEnabled != model.RoleEnabled {
			continue
		}
		if role.IsSystem == model.RoleSystem && role.OrgId == "" && role.RoleId != model.RolePlatformAdmin {
			out = append(out, *role)
		} else if role.OrgId == orgId {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (r *memRoleRepo) CreateRole(role *model.Role, permissions []model.RolePermission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *role
	r.s.roles[role.RoleId] = &cp
	for i := range permissions {
		permissions[i].RoleId = role.RoleId
	}
	r.s.perms[role.RoleId] = permissions
	return nil
}

func (r *memRoleRepo) ReplacePermissions(roleId string, permissions []model.RolePermission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range permissions {
		permissions[i].RoleId = roleId
	}
	r.s.perms[roleId] = permissions
	return nil
}

func (r *memRoleRepo) GetRolePermissions(roleId string) ([]model.RolePermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	return r.s.perms[roleId], nil
}

func (r *memRoleRepo) ListAllPermissions() ([]model.RolePermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	var out []model.RolePermission
	for _, rows := range r.s.perms {
		out = append(out, rows...)
	}
	return out, nil
}

func (r *memRoleRepo) SeedSystemRoles(roles []model.Role, permissions map[string][]model.RolePermission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range roles {
		if _, exists := r.s.roles[role.RoleId]; exists {
			continue
		}
		cp := role
		r.s.roles[role.RoleId] = &cp
		r.s.perms[role.RoleId] = permissions[role.RoleId]
	}
	return nil
}

// --- IInvitationRepository ---

type memInvitationRepo struct{ s *memStore }

func (r *memInvitationRepo) CreateInvitation(inv *model.OrganizationInvitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *inv
	r.s.invitations[inv.InvitationId] = &cp
	return nil
}

func (r *memInvitationRepo) GetByToken(token string) (*model.OrganizationInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, core.ErrInvitationNotFound
}

func (r *memInvitationRepo) GetByInvitationId(invitationId string) (*model.OrganizationInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[invitationId]
	if !ok {
		return nil, core.ErrInvitationNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvitationRepo) ListByOrg(orgId string) ([]model.OrganizationInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.OrganizationInvitation
	for _, inv := range r.s.invitations {
		if inv.OrgId == orgId {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvitationRepo) HasPendingForEmail(orgId, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invitations {
		if inv.OrgId == orgId && strings.EqualFold(inv.Email, email) && inv.Status == model.InvitationPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *memInvitationRepo) Accept(invitationId, userId string, member *model.OrganizationMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[invitationId]
	if !ok || inv.Status != model.InvitationPending {
		return core.ErrInvitationNotPending
	}
	inv.Status = model.InvitationAccepted
	inv.AcceptedBy = userId
	cp := *member
	r.s.members[memberKey(member.OrgId, member.UserId)] = &cp
	return nil
}

func (r *memInvitationRepo) UpdateStatus(invitationId, from, to string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[invitationId]
	if !ok || inv.Status != from {
		return core.ErrInvitationNotPending
	}
	inv.Status = to
	return nil
}

func (r *memInvitationRepo) RegenerateToken(invitationId, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[invitationId]
	if !ok || inv.Status != model.InvitationPending {
		return core.ErrInvitationNotPending
	}
	inv.Token = token
	inv.ExpiresAt = expiresAt
	return nil
}

func (r *memInvitationRepo) ExpireOverdue(now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, inv := range r.s.invitations {
		if inv.Status == model.InvitationPending && now.After(inv.ExpiresAt) {
			inv.Status = model.InvitationExpired
			n++
		}
	}
	return n, nil
}

// --- IUserRepository ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) AddUser(user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.UserId] = &cp
	return nil
}

func (r *memUserRepo) GetByUserId(userId string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userId]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) SetToken(string, string, http.Auth) error { return nil }
func (r *memUserRepo) DelToken(string, http.Auth) error         { return nil }

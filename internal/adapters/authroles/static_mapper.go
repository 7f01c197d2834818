package authroles

import (
	"strings"

	domainauth "github.com/target/appshell/internal/domain/auth"
	"github.com/target/appshell/internal/ports"
)

var _ ports.RoleMapper = StaticRoleMapper{}

// StaticRoleMapper maps IdP groups to roles by configured group names.
// Admin membership wins over user membership; no match yields a guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.member(groups, m.AdminGroup) {
		return domainauth.RoleAdmin
	}
	if m.member(groups, m.UserGroup) {
		return domainauth.RoleUser
	}
	return domainauth.RoleGuest
}

func (m StaticRoleMapper) member(groups []string, want string) bool {
	if want == "" {
		return false
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), want) {
			return true
		}
	}
	return false
}

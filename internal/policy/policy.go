// Package policy holds the authorization rules for property access as pure
// decision functions over the role enum. Handlers call these before touching
// the service layer; a false answer always surfaces as 403.
package policy

import (
	"github.com/digitup/immo-api/internal/models"
	"github.com/google/uuid"
)

// CanCreate allows admins and agents to create properties.
func CanCreate(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleAgent
}

// CanView is unrestricted: listings are public.
func CanView(models.Role) bool {
	return true
}

// CanUpdate allows admins unconditionally, and agents on their own listings.
func CanUpdate(role models.Role, actorID, ownerID uuid.UUID) bool {
	if role == models.RoleAdmin {
		return true
	}
	return role == models.RoleAgent && actorID == ownerID
}

// CanDelete follows the same rule as CanUpdate.
func CanDelete(role models.Role, actorID, ownerID uuid.UUID) bool {
	return CanUpdate(role, actorID, ownerID)
}

// AbilitiesForRole returns the token scopes granted to a role. They are
// embedded in issued tokens so a bearer token carries its permission set.
func AbilitiesForRole(role models.Role) []string {
	switch role {
	case models.RoleAdmin:
		return []string{"*"}
	case models.RoleAgent:
		return []string{"create-property", "update-own-property", "delete-own-property", "view-property"}
	case models.RoleGuest:
		return []string{"view-property"}
	default:
		return nil
	}
}

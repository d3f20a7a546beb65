package domain

import (
	"fmt"
	"strings"
)

// Role enumerates account kinds.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleInstructor, RoleAdmin}

// ParseRole converts raw input into a Role. Empty input defaults to STUDENT.
func ParseRole(raw string) (Role, error) {
	value := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return RoleStudent, nil
	}
	for _, r := range Roles {
		if r == value {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Capability names an action guarded at the service boundary.
type Capability string

const (
	CapabilityProfileRead      Capability = "profile:read"
	CapabilityCourseEnroll     Capability = "course:enroll"
	CapabilityCourseManage     Capability = "course:manage"
	CapabilityMaterialManage   Capability = "material:manage"
	CapabilityUserManage       Capability = "user:manage"
	CapabilityNotificationSend Capability = "notification:send"
)

// RoleCapabilities is the static grant table for every role.
var RoleCapabilities = map[Role][]Capability{
	RoleStudent: {
		CapabilityProfileRead,
		CapabilityCourseEnroll,
	},
	RoleInstructor: {
		CapabilityProfileRead,
		CapabilityCourseManage,
		CapabilityMaterialManage,
	},
	RoleAdmin: {
		CapabilityProfileRead,
		CapabilityCourseManage,
		CapabilityMaterialManage,
		CapabilityUserManage,
		CapabilityNotificationSend,
	},
}

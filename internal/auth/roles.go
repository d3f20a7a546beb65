package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

const rbacModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

// Authorizer answers capability checks against the static role table.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer loads every grant in domain.RoleCapabilities into a casbin enforcer.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("build enforcer: %w", err)
	}

	for role, caps := range domain.RoleCapabilities {
		for _, capability := range caps {
			if _, err := e.AddPolicy(string(role), string(capability)); err != nil {
				return nil, fmt.Errorf("add policy %s %s: %w", role, capability, err)
			}
		}
	}
	return &Authorizer{enforcer: e}, nil
}

// Can reports whether role holds capability. Unknown roles hold nothing.
func (a *Authorizer) Can(role domain.Role, capability domain.Capability) bool {
	ok, err := a.enforcer.Enforce(string(role), string(capability))
	return err == nil && ok
}

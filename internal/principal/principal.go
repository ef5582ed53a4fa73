package principal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsKey = "principal"

// Principal is the resolved caller identity: exactly one of the two
// variants below. It is resolved once by the auth middleware and never
// mutated afterwards.
type Principal interface {
	PrincipalID() uuid.UUID
	CompanyScope() uuid.UUID
	Role() string
}

// Manager is an L&D manager principal.
type Manager struct {
	ID                 uuid.UUID
	CompanyID          uuid.UUID
	Email              string
	SubscriptionStatus string
}

func (m Manager) PrincipalID() uuid.UUID  { return m.ID }
func (m Manager) CompanyScope() uuid.UUID { return m.CompanyID }
func (m Manager) Role() string            { return "ld_manager" }

// Employee is an employee principal, scoped to its company.
type Employee struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Username  string
}

func (e Employee) PrincipalID() uuid.UUID  { return e.ID }
func (e Employee) CompanyScope() uuid.UUID { return e.CompanyID }
func (e Employee) Role() string            { return "employee" }

// Set stores the resolved principal in fiber locals.
func Set(c *fiber.Ctx, p Principal) {
	c.Locals(localsKey, p)
}

// FromContext returns the principal resolved by the auth middleware.
func FromContext(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(localsKey).(Principal)
	return p, ok
}

// ManagerFromContext returns the principal if it is a manager.
func ManagerFromContext(c *fiber.Ctx) (Manager, bool) {
	p, ok := c.Locals(localsKey).(Principal)
	if !ok {
		return Manager{}, false
	}
	m, ok := p.(Manager)
	return m, ok
}

// EmployeeFromContext returns the principal if it is an employee.
func EmployeeFromContext(c *fiber.Ctx) (Employee, bool) {
	p, ok := c.Locals(localsKey).(Principal)
	if !ok {
		return Employee{}, false
	}
	e, ok := p.(Employee)
	return e, ok
}

package security

import (
	"github.com/cockroachdb/errors"

	"github.com/caseproof/caseproof-backend/models"
)

// EnforceSecurity gathers the tenant and role checks applied before any case
// operation. Webhook driven flows bypass it: they are authenticated at the
// transport level with a shared secret and carry no user credentials.
type EnforceSecurity struct {
	Credentials models.Credentials
}

func (e EnforceSecurity) canSeeCase(c models.Case) bool {
	if e.Credentials.UserId == c.OwnerId {
		return true
	}
	return c.OrganizationId != "" && c.OrganizationId == e.Credentials.OrganizationId
}

func (e EnforceSecurity) ReadCase(c models.Case) error {
	if !e.canSeeCase(c) {
		return errors.Wrap(models.NotFoundError, "case does not belong to the caller's organization")
	}
	return nil
}

func (e EnforceSecurity) CreateCase() error {
	if e.Credentials.Role == models.VIEWER {
		return errors.Wrap(models.ForbiddenError, "viewers cannot create cases")
	}
	return nil
}

func (e EnforceSecurity) ModifyCase(c models.Case) error {
	if err := e.ReadCase(c); err != nil {
		return err
	}
	if e.Credentials.Role == models.VIEWER {
		return errors.Wrap(models.ForbiddenError, "viewers cannot modify cases")
	}
	return nil
}

func (e EnforceSecurity) SweepCases() error {
	if !e.Credentials.IsAdmin() {
		return errors.Wrap(models.ForbiddenError, "only admins can trigger the timeout sweep")
	}
	return nil
}

func (e EnforceSecurity) DeleteCase(c models.Case) error {
	if err := e.ReadCase(c); err != nil {
		return err
	}
	if !e.Credentials.IsAdmin() {
		return errors.Wrap(models.ForbiddenError, "only admins can delete cases")
	}
	return nil
}

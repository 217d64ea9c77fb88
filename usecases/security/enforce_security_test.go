package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caseproof/caseproof-backend/models"
)

func TestReadCase(t *testing.T) {
	owned := models.Case{Id: "c1", OwnerId: "user-1"}
	shared := models.Case{Id: "c2", OwnerId: "user-2", OrganizationId: "org-1"}
	foreign := models.Case{Id: "c3", OwnerId: "user-2", OrganizationId: "org-2"}
	solo := models.Case{Id: "c4", OwnerId: "user-2"}

	e := EnforceSecurity{Credentials: models.Credentials{
		UserId: "user-1", OrganizationId: "org-1", Role: models.ANALYST,
	}}

	assert.NoError(t, e.ReadCase(owned))
	assert.NoError(t, e.ReadCase(shared))
	assert.ErrorIs(t, e.ReadCase(foreign), models.NotFoundError)
	assert.ErrorIs(t, e.ReadCase(solo), models.NotFoundError)
}

func TestReadCase_soloUserWithoutOrganization(t *testing.T) {
	e := EnforceSecurity{Credentials: models.Credentials{UserId: "user-1", Role: models.ANALYST}}

	assert.NoError(t, e.ReadCase(models.Case{Id: "c1", OwnerId: "user-1"}))
	// An empty organization on both sides must not grant access.
	assert.ErrorIs(t, e.ReadCase(models.Case{Id: "c2", OwnerId: "user-2"}), models.NotFoundError)
}

func TestCreateCase(t *testing.T) {
	assert.NoError(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-1", Role: models.ANALYST},
	}.CreateCase())
	assert.ErrorIs(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-1", Role: models.VIEWER},
	}.CreateCase(), models.ForbiddenError)
}

func TestModifyCase(t *testing.T) {
	c := models.Case{Id: "c1", OwnerId: "user-1"}

	assert.NoError(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-1", Role: models.ANALYST},
	}.ModifyCase(c))
	assert.ErrorIs(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-1", Role: models.VIEWER},
	}.ModifyCase(c), models.ForbiddenError)
	assert.ErrorIs(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-2", Role: models.ADMIN},
	}.ModifyCase(c), models.NotFoundError)
}

func TestSweepCases(t *testing.T) {
	assert.NoError(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-1", Role: models.ADMIN},
	}.SweepCases())
	assert.ErrorIs(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-1", Role: models.ANALYST},
	}.SweepCases(), models.ForbiddenError)
}

func TestDeleteCase(t *testing.T) {
	c := models.Case{Id: "c1", OwnerId: "user-1", OrganizationId: "org-1"}

	assert.NoError(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-2", OrganizationId: "org-1", Role: models.ADMIN},
	}.DeleteCase(c))
	assert.ErrorIs(t, EnforceSecurity{
		Credentials: models.Credentials{UserId: "user-1", Role: models.ANALYST},
	}.DeleteCase(c), models.ForbiddenError)
}

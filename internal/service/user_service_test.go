package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/repository"
)

func newTestUserService() (*UserService, *memUserStore) {
	users := newMemUserStore()
	return NewUserService(users, zerolog.Nop()), users
}

func seedUser(t *testing.T, users *memUserStore, user models.User) {
	t.Helper()
	require.NoError(t, users.Create(context.Background(), user))
}

func TestApproveWorkerActivatesAccount(t *testing.T) {
	svc, users := newTestUserService()
	department := models.DepartmentParkingEnforcement
	seedUser(t, users, models.User{
		ID: "w1", Email: "worker@cityfix.test",
		Role: models.RoleWorker, Active: false, Department: &department,
	})

	approved, err := svc.ApproveWorker(context.Background(), "w1")
	require.NoError(t, err)
	assert.True(t, approved.Active)

	stored, err := users.GetByID(context.Background(), "w1")
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestApproveWorkerIsIdempotent(t *testing.T) {
	svc, users := newTestUserService()
	department := models.DepartmentWasteManagement
	seedUser(t, users, models.User{
		ID: "w1", Email: "worker@cityfix.test",
		Role: models.RoleWorker, Active: true, Department: &department,
	})

	approved, err := svc.ApproveWorker(context.Background(), "w1")
	require.NoError(t, err)
	assert.True(t, approved.Active)
}

func TestApproveWorkerRejectsNonWorkers(t *testing.T) {
	svc, users := newTestUserService()
	seedUser(t, users, models.User{
		ID: "c1", Email: "citizen@cityfix.test",
		Role: models.RoleCitizen, Active: true,
	})

	_, err := svc.ApproveWorker(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrNotApprovable)
}

func TestApproveWorkerMissingUser(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.ApproveWorker(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestPendingWorkersExcludesActiveAndCitizens(t *testing.T) {
	svc, users := newTestUserService()
	department := models.DepartmentRoadMaintenance
	seedUser(t, users, models.User{
		ID: "w1", Email: "pending@cityfix.test",
		Role: models.RoleWorker, Active: false, Department: &department,
	})
	seedUser(t, users, models.User{
		ID: "w2", Email: "active@cityfix.test",
		Role: models.RoleWorker, Active: true, Department: &department,
	})
	seedUser(t, users, models.User{
		ID: "c1", Email: "citizen@cityfix.test",
		Role: models.RoleCitizen, Active: true,
	})

	pending, err := svc.PendingWorkers(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "w1", pending[0].ID)
}

func TestActiveWorkersDepartmentFilter(t *testing.T) {
	svc, users := newTestUserService()
	waste := models.DepartmentWasteManagement
	roads := models.DepartmentRoadMaintenance
	seedUser(t, users, models.User{
		ID: "w1", Email: "waste@cityfix.test",
		Role: models.RoleWorker, Active: true, Department: &waste,
	})
	seedUser(t, users, models.User{
		ID: "w2", Email: "roads@cityfix.test",
		Role: models.RoleWorker, Active: true, Department: &roads,
	})
	seedUser(t, users, models.User{
		ID: "w3", Email: "inactive@cityfix.test",
		Role: models.RoleWorker, Active: false, Department: &waste,
	})

	all, err := svc.ActiveWorkers(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	narrowed, err := svc.ActiveWorkers(context.Background(), &waste)
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	assert.Equal(t, "w1", narrowed[0].ID)
}

package leave_test

import (
	"context"
	"database/sql/driver"
	"testing"

	"go-hrdash/internal/leave"
	leaveerrors "go-hrdash/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupLeaveRepoTest(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return leave.NewRepository(gdb), sqlMock
}

func TestLeaveRepository_FindByIDForUpdate(t *testing.T) {
	repo, sqlMock := setupLeaveRepoTest(t)
	companyID := uuid.New()
	leaveID := uuid.New()
	employeeID := uuid.New()

	sqlMock.ExpectQuery(`SELECT \* FROM "leaves" WHERE .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "employee_id", "leave_type", "status"}).
			AddRow(leaveID.String(), companyID.String(), employeeID.String(), "Sick", leave.StatusPending))
	sqlMock.ExpectQuery(`SELECT .+ FROM "employees" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).
			AddRow(employeeID.String(), "Rina Putri"))

	l, err := repo.FindByIDForUpdate(context.Background(), companyID.String(), leaveID.String())
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusPending, l.Status)
	if assert.NotNil(t, l.Employee) {
		assert.Equal(t, "Rina Putri", l.Employee.FullName)
	}
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestLeaveRepository_UpdateDecision(t *testing.T) {
	decidedLeave := func() *leave.Leave {
		l := pendingLeave(uuid.NewString(), uuid.NewString())
		l.Status = leave.StatusAccepted
		return l
	}
	updateSQL := `UPDATE "leaves" SET .+ WHERE .*id = .+ AND company_id = .+ AND status = `
	anyArgs := func() []driver.Value {
		args := make([]driver.Value, 0, 8)
		for i := 0; i < 7; i++ {
			args = append(args, sqlmock.AnyArg())
		}
		return append(args, leave.StatusPending)
	}

	t.Run("pending row updated", func(t *testing.T) {
		repo, sqlMock := setupLeaveRepoTest(t)
		sqlMock.ExpectExec(updateSQL).
			WithArgs(anyArgs()...).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateDecision(context.Background(), decidedLeave())
		assert.NoError(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("row already decided", func(t *testing.T) {
		repo, sqlMock := setupLeaveRepoTest(t)
		sqlMock.ExpectExec(updateSQL).
			WithArgs(anyArgs()...).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateDecision(context.Background(), decidedLeave())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

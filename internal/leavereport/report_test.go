package leavereport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-hrdash/internal/hrapi"
	"go-hrdash/internal/leave"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	employees    []hrapi.Employee
	records      []leave.Record
	employeesErr error
	recordsErr   error
	filter       hrapi.LeaveFilter
}

func (f *fakeSource) ListEmployees(context.Context) ([]hrapi.Employee, error) {
	return f.employees, f.employeesErr
}

func (f *fakeSource) ListLeaveRecords(_ context.Context, filter hrapi.LeaveFilter) ([]leave.Record, error) {
	f.filter = filter
	return f.records, f.recordsErr
}

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func newSource() *fakeSource {
	return &fakeSource{
		employees: []hrapi.Employee{
			{ID: "e-2", FullName: "Someone Else"},
			{ID: "e-1", FullName: "Maria Santos", EmployeeNumber: "EMP-000001"},
		},
		records: []leave.Record{
			{ID: "1", EmployeeID: "e-1", LeaveType: "sick", Status: leave.StatusAccepted, StartDate: date(1, 6), EndDate: date(1, 8)},
			{ID: "2", EmployeeID: "e-1", LeaveType: "Vacation", Status: leave.StatusAccepted, StartDate: date(4, 1), EndDate: date(4, 1)},
			{ID: "3", EmployeeID: "e-1", LeaveType: "Sick", Status: leave.StatusPending, StartDate: date(5, 1), EndDate: date(5, 2)},
		},
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("single category", func(t *testing.T) {
		src := newSource()
		r, err := Build(ctx, src, Query{EmployeeID: "e-1", Category: leave.CategorySick, Year: 2025}, leave.DefaultPolicy(), zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, hrapi.LeaveFilter{EmployeeID: "e-1", Year: 2025}, src.filter)
		assert.Equal(t, "Maria Santos", r.Employee.FullName)
		assert.Len(t, r.Usages, 1)
		assert.Equal(t, 3, r.Usages[0].Used)
		assert.Equal(t, 9, r.Usages[0].Remaining)
	})

	t.Run("every summary category", func(t *testing.T) {
		r, err := Build(ctx, newSource(), Query{EmployeeID: "e-1", Year: 2025}, leave.DefaultPolicy(), zap.NewNop())

		assert.NoError(t, err)
		assert.Len(t, r.Usages, len(leave.SummaryCategories))
		assert.Equal(t, 1, r.Usages[1].Used)
	})

	t.Run("failed leave fetch yields zero usage", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		src := newSource()
		src.recordsErr = errors.New("connection refused")

		r, err := Build(ctx, src, Query{EmployeeID: "e-1", Category: leave.CategorySick, Year: 2025}, leave.DefaultPolicy(), zap.New(core))

		assert.NoError(t, err)
		assert.Equal(t, 0, r.Usages[0].Used)
		assert.Equal(t, 12, r.Usages[0].Remaining)
		assert.Equal(t, 1, logs.FilterMessage("leave record fetch failed, usage will be zero").Len())
	})

	t.Run("failed employee fetch keeps the usage", func(t *testing.T) {
		src := newSource()
		src.employeesErr = errors.New("timeout")

		r, err := Build(ctx, src, Query{EmployeeID: "e-1", Category: leave.CategorySick, Year: 2025}, leave.DefaultPolicy(), zap.NewNop())

		assert.NoError(t, err)
		assert.Nil(t, r.Employee)
		assert.Equal(t, 3, r.Usages[0].Used)
	})

	t.Run("cancelled context is returned", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		src := newSource()
		src.recordsErr = context.Canceled

		_, err := Build(cctx, src, Query{EmployeeID: "e-1", Year: 2025}, leave.DefaultPolicy(), zap.NewNop())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func sampleReport(t *testing.T) Report {
	t.Helper()
	r, err := Build(context.Background(), newSource(), Query{EmployeeID: "e-1", Category: leave.CategorySick, Year: 2025}, leave.DefaultPolicy(), zap.NewNop())
	assert.NoError(t, err)
	return r
}

func TestWrite(t *testing.T) {
	r := sampleReport(t)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, Write(&buf, r, "table"))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "Leave usage 2025 - Maria Santos (EMP-000001)\n"))
		assert.Contains(t, out, "CATEGORY  CREDIT  USED  REMAINING")
		assert.Contains(t, out, "Jan 06, 2025 - Jan 08, 2025")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, Write(&buf, r, "CSV"))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Equal(t, "Category,Credit,Used,Remaining,Type,Date Range,Days", lines[0])
		assert.Equal(t, "Sick,12,3,9,sick,\"Jan 06, 2025 - Jan 08, 2025\",3", lines[1])
	})

	t.Run("pdf", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, Write(&buf, r, "pdf"))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		assert.Contains(t, buf.String(), "Category: Sick")
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.ErrorIs(t, Write(&bytes.Buffer{}, r, "xml"), ErrUnknownFormat)
	})
}

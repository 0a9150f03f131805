// Package leavereport builds an employee's leave usage report from a remote
// HR dashboard API.
package leavereport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go-hrdash/internal/export"
	"go-hrdash/internal/hrapi"
	"go-hrdash/internal/leave"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatPDF   = "pdf"
)

var ErrUnknownFormat = errors.New("format must be table, csv or pdf")

// Source is what the report reads; *hrapi.Client satisfies it.
type Source interface {
	ListEmployees(ctx context.Context) ([]hrapi.Employee, error)
	ListLeaveRecords(ctx context.Context, f hrapi.LeaveFilter) ([]leave.Record, error)
}

type Query struct {
	EmployeeID string
	// Category is empty for every summary category.
	Category leave.Category
	Year     int
}

type Report struct {
	Query    Query
	Employee *hrapi.Employee
	Usages   []leave.Usage
}

// Build fetches employees and leave records concurrently and aggregates once
// both have arrived. A failed fetch is logged and counts as an empty set, so
// the report still renders with zero usage. Only cancellation is returned.
func Build(ctx context.Context, src Source, q Query, p leave.Policy, log *zap.Logger) (Report, error) {
	var (
		employees []hrapi.Employee
		records   []leave.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = src.ListEmployees(gctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("employee fetch failed, continuing without names", zap.Error(err))
			employees = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = src.ListLeaveRecords(gctx, hrapi.LeaveFilter{EmployeeID: q.EmployeeID, Year: q.Year})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("leave record fetch failed, usage will be zero", zap.Error(err))
			records = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r := Report{Query: q}
	for i := range employees {
		if employees[i].ID == q.EmployeeID {
			r.Employee = &employees[i]
			break
		}
	}

	if q.Category != "" {
		r.Usages = []leave.Usage{leave.ComputeUsage(records, leave.UsageQuery{
			EmployeeID: q.EmployeeID,
			Category:   q.Category,
			Year:       q.Year,
		}, p)}
	} else {
		r.Usages = leave.ComputeYearSummary(records, q.EmployeeID, q.Year, p)
	}

	for _, u := range r.Usages {
		if len(u.Skipped) > 0 {
			log.Warn("records with invalid ranges left out",
				zap.String("category", string(u.Category)),
				zap.Strings("record_ids", u.Skipped),
			)
		}
	}
	return r, nil
}

func (r Report) title() string {
	who := r.Query.EmployeeID
	if r.Employee != nil {
		who = r.Employee.FullName
		if r.Employee.EmployeeNumber != "" {
			who += " (" + r.Employee.EmployeeNumber + ")"
		}
	}
	return fmt.Sprintf("Leave usage %d - %s", r.Query.Year, who)
}

func Write(w io.Writer, r Report, format string) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return writeTable(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatPDF:
		return writePDF(w, r)
	default:
		return ErrUnknownFormat
	}
}

func writeTable(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, r.title()); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCREDIT\tUSED\tREMAINING")
	for _, u := range r.Usages {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", u.Category, u.Credit, u.Used, u.Remaining)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, u := range r.Usages {
		if len(u.History) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s history\n", u.Category)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, h := range u.History {
			fmt.Fprintf(tw, "  %s\t%s\t%d day(s)\n", h.DateRange, h.Type, h.Days)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, r Report) error {
	header := []string{"Category", "Credit", "Used", "Remaining", "Type", "Date Range", "Days"}
	var rows [][]string
	for _, u := range r.Usages {
		summary := []string{string(u.Category), strconv.Itoa(u.Credit), strconv.Itoa(u.Used), strconv.Itoa(u.Remaining)}
		if len(u.History) == 0 {
			rows = append(rows, summary)
			continue
		}
		for _, h := range u.History {
			rows = append(rows, append(append([]string{}, summary...), h.Type, h.DateRange, strconv.Itoa(h.Days)))
		}
	}
	return export.WriteCSV(w, header, rows, false)
}

func writePDF(w io.Writer, r Report) error {
	var lines []string
	for i, u := range r.Usages {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Category: "+string(u.Category))
		lines = append(lines, leave.UsageReportLines(u)...)
	}
	body, err := export.BuildPDF(r.title(), lines)
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

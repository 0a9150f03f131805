package hrapi

import (
	"context"
	"net/url"
	"strconv"

	"go-hrdash/internal/leave"

	"go.uber.org/zap"
)

// LeaveFilter narrows the leave records fetched. Zero fields are not sent.
type LeaveFilter struct {
	EmployeeID string
	Year       int
}

// ListLeaveRecords fetches every leave record visible to the token. Elements
// that fail validation are logged and dropped.
func (c *Client) ListLeaveRecords(ctx context.Context, f LeaveFilter) ([]leave.Record, error) {
	q := url.Values{}
	if f.EmployeeID != "" {
		q.Set("employee_id", f.EmployeeID)
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}

	raw, err := c.fetchAll(ctx, "/leaves", q)
	if err != nil {
		return nil, err
	}
	records := parseLeaveRecords(raw, c.validate, c.logger)
	c.logger.Debug("leave records fetched",
		zap.Int("received", len(raw)),
		zap.Int("kept", len(records)),
	)
	return records, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	raw, err := c.fetchAll(ctx, "/employees", nil)
	if err != nil {
		return nil, err
	}
	employees := parseEmployees(raw, c.validate, c.logger)
	c.logger.Debug("employees fetched",
		zap.Int("received", len(raw)),
		zap.Int("kept", len(employees)),
	)
	return employees, nil
}

package sheetsclient

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Managed column headers. Any other header in an existing tab is preserved.
const (
	colShift    = "Shift"
	colTime     = "Time"
	colCapacity = "Capacity"
	colTeamLead = "Team lead"
	volPrefix   = "Volunteer "
)

// headerRow is the zero-based row holding the header; the rows above it are left blank
const headerRow = 2

// PublishedRosterRow is one shift in the published roster
type PublishedRosterRow struct {
	Shift      int
	Time       string // Format: "09:00-11:00"
	Capacity   int
	TeamLead   string   // Full name of the team lead
	Volunteers []string // Full names in signup order
}

// PublishedRoster is the roster of one event
type PublishedRoster struct {
	Title string
	Date  string // Format: "2006-01-02"
	Rows  []PublishedRosterRow
}

// TabTitle returns the tab name, e.g. "Saturday practice Sat Jun 07 2025"
func (r *PublishedRoster) TabTitle() (string, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return "", fmt.Errorf("invalid event date: %w", err)
	}
	return strings.TrimSpace(r.Title + " " + date.Format("Mon Jan 02 2006")), nil
}

// PublishRoster writes the roster to its own tab. A new tab is created when
// missing. An existing tab has its managed columns overwritten while columns
// added by hand are kept to the right.
func (c *Client) PublishRoster(ctx context.Context, spreadsheetID string, roster *PublishedRoster) error {
	tabTitle, err := roster.TabTitle()
	if err != nil {
		return fmt.Errorf("failed to generate tab title: %w", err)
	}

	exists, err := c.hasSheet(ctx, spreadsheetID, tabTitle)
	if err != nil {
		return err
	}

	if !exists {
		if err := c.createSheet(ctx, spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
		return c.writeValues(ctx, spreadsheetID, tabTitle, rosterValues(nil, roster))
	}

	existing, err := c.getValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1:ZZ", tabTitle))
	if err != nil {
		return fmt.Errorf("failed to read existing tab data: %w", err)
	}
	if len(existing) <= headerRow {
		return fmt.Errorf("existing tab has insufficient rows (expected a header at row %d)", headerRow+1)
	}

	return c.writeValues(ctx, spreadsheetID, tabTitle, rosterValues(existing, roster))
}

// rosterValues lays out the full tab. existing is the current tab content, or
// nil for a new tab; its extra columns are carried over row by row.
func rosterValues(existing [][]interface{}, roster *PublishedRoster) [][]interface{} {
	var existingHeader []interface{}
	if len(existing) > headerRow {
		existingHeader = existing[headerRow]
	}

	volunteerCols := 0
	var extraCols []int
	for i, cell := range existingHeader {
		name, _ := cell.(string)
		switch {
		case name == "":
		case strings.HasPrefix(name, volPrefix):
			volunteerCols++
		case name == colShift || name == colTime || name == colCapacity || name == colTeamLead:
		default:
			extraCols = append(extraCols, i)
		}
	}
	for _, row := range roster.Rows {
		volunteerCols = max(volunteerCols, len(row.Volunteers))
	}

	header := []interface{}{colShift, colTime, colCapacity, colTeamLead}
	for i := 0; i < volunteerCols; i++ {
		header = append(header, fmt.Sprintf("%s%d", volPrefix, i+1))
	}
	for _, col := range extraCols {
		header = append(header, existingHeader[col])
	}

	values := [][]interface{}{{}, {}, header}
	for i, row := range roster.Rows {
		sheetRow := []interface{}{row.Shift, row.Time, row.Capacity, row.TeamLead}
		for v := 0; v < volunteerCols; v++ {
			if v < len(row.Volunteers) {
				sheetRow = append(sheetRow, row.Volunteers[v])
			} else {
				sheetRow = append(sheetRow, "")
			}
		}

		var existingRow []interface{}
		if idx := headerRow + 1 + i; idx < len(existing) {
			existingRow = existing[idx]
		}
		for _, col := range extraCols {
			if col < len(existingRow) {
				sheetRow = append(sheetRow, existingRow[col])
			} else {
				sheetRow = append(sheetRow, "")
			}
		}

		values = append(values, sheetRow)
	}

	return values
}

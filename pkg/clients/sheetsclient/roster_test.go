package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoster() *PublishedRoster {
	return &PublishedRoster{
		Title: "Saturday practice",
		Date:  "2025-06-07",
		Rows: []PublishedRosterRow{
			{Shift: 1, Time: "09:00-11:00", Capacity: 4, TeamLead: "Ada Lovelace", Volunteers: []string{"Ada Lovelace", "Alan Turing"}},
			{Shift: 2, Time: "11:00-13:00", Capacity: 4, Volunteers: []string{"Grace Hopper"}},
		},
	}
}

func TestTabTitle(t *testing.T) {
	title, err := sampleRoster().TabTitle()
	require.NoError(t, err)
	assert.Equal(t, "Saturday practice Sat Jun 07 2025", title)

	_, err = (&PublishedRoster{Title: "x", Date: "07/06/2025"}).TabTitle()
	assert.Error(t, err)
}

func TestRosterValues_NewTab(t *testing.T) {
	values := rosterValues(nil, sampleRoster())

	require.Len(t, values, 5)
	assert.Empty(t, values[0])
	assert.Empty(t, values[1])
	assert.Equal(t, []interface{}{"Shift", "Time", "Capacity", "Team lead", "Volunteer 1", "Volunteer 2"}, values[2])
	assert.Equal(t, []interface{}{1, "09:00-11:00", 4, "Ada Lovelace", "Ada Lovelace", "Alan Turing"}, values[3])
	assert.Equal(t, []interface{}{2, "11:00-13:00", 4, "", "Grace Hopper", ""}, values[4])
}

func TestRosterValues_PreservesExtraColumns(t *testing.T) {
	existing := [][]interface{}{
		{},
		{},
		{"Shift", "Time", "Capacity", "Team lead", "Volunteer 1", "Volunteer 2", "Volunteer 3", "Notes"},
		{"1", "09:00-11:00", "4", "Old lead", "Old A", "Old B", "Old C", "bring cones"},
		{"2", "11:00-13:00", "4", "", "Old D"},
	}

	values := rosterValues(existing, sampleRoster())

	require.Len(t, values, 5)
	assert.Equal(t, []interface{}{"Shift", "Time", "Capacity", "Team lead", "Volunteer 1", "Volunteer 2", "Volunteer 3", "Notes"}, values[2])
	assert.Equal(t, []interface{}{1, "09:00-11:00", 4, "Ada Lovelace", "Ada Lovelace", "Alan Turing", "", "bring cones"}, values[3])
	assert.Equal(t, []interface{}{2, "11:00-13:00", 4, "", "Grace Hopper", "", "", ""}, values[4])
}

func TestRosterValues_GrowsVolunteerColumns(t *testing.T) {
	existing := [][]interface{}{
		{},
		{},
		{"Shift", "Time", "Capacity", "Team lead", "Volunteer 1", "Kit"},
		{"1", "09:00-11:00", "4", "", "Old A", "bibs"},
	}

	values := rosterValues(existing, sampleRoster())

	assert.Equal(t, []interface{}{"Shift", "Time", "Capacity", "Team lead", "Volunteer 1", "Volunteer 2", "Kit"}, values[2])
	assert.Equal(t, "bibs", values[3][6])
}

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)

	data, err := json.Marshal(struct {
		From *Date `json:"from"`
		To   *Date `json:"to"`
	}{From: &d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"2024-02-29","to":null}`, string(data))

	var back struct {
		From *Date `json:"from"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.From)
	assert.Equal(t, d, *back.From)
}

func TestEnums(t *testing.T) {
	for _, tz := range Timezones() {
		assert.True(t, ValidTimezone(tz))
	}
	assert.False(t, ValidTimezone("UTC"))

	for _, l := range Languages() {
		assert.True(t, ValidLanguage(l))
	}
	assert.False(t, ValidLanguage("German"))

	for _, r := range Roles() {
		assert.True(t, ValidRole(r))
	}
	assert.False(t, ValidRole("owner"))

	assert.True(t, ValidOrganizationStatus(OrganizationInactive))
	assert.False(t, ValidOrganizationStatus(""))
}

func TestMemberView(t *testing.T) {
	m := MemberView{}
	assert.Equal(t, UnknownUserName, m.DisplayName())
	assert.Equal(t, "U", m.Initial())

	m.Profile = &Profile{FullName: "  "}
	assert.Equal(t, UnknownUserName, m.DisplayName())
	assert.Equal(t, "U", m.Initial())

	m.Profile = &Profile{FullName: "élodie Martin"}
	assert.Equal(t, "élodie Martin", m.DisplayName())
	assert.Equal(t, "É", m.Initial())
}

func TestOrganizationShortId(t *testing.T) {
	o := Organization{Id: "3f2c9a10-7b1d-4e55-9c1a-2d7f0e8b6a41"}
	assert.Equal(t, "3f2c9a10", o.ShortId(8))
	assert.Equal(t, "ab", Organization{Id: "ab"}.ShortId(8))
}

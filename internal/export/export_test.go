package export

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	gofakeit "github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"orgadmin/internal/models"
)

func TestOrganizations(t *testing.T) {
	gofakeit.Seed(0)

	from := models.Date{Year: 2025, Month: time.February, Day: 3}
	orgs := []models.Organization{
		{Name: gofakeit.Company(), ContactEmail: gofakeit.Email(), LicenseFrom: &from, MaxCoordinators: 3, Timezone: models.TZAsia, Language: models.LangEnglish, Status: models.OrganizationActive},
		{Name: gofakeit.Company(), MaxCoordinators: 5, Timezone: models.TZAmerica, Language: models.LangFrench, Status: models.OrganizationInactive},
	}

	data, err := Organizations(orgs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, OrganizationsHeader, rows[0])
	for i, o := range orgs {
		row := rows[i+1]
		assert.Equal(t, strconv.Itoa(i+1), row[0])
		assert.Equal(t, o.Name, row[1])
		assert.Equal(t, string(o.Status), row[11])
	}
	assert.Equal(t, "2025-02-03", rows[1][5])
	assert.Equal(t, "America (GMT-5)", rows[2][8])
}

func TestOrganizationsEmpty(t *testing.T) {
	data, err := Organizations(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

package vault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleAccounts() []*Account {
	return []*Account{
		{
			ID: "1", Name: "github", Username: "alice", Password: "s3cr3t",
			URL: "https://github.com", Group: "dev", Notes: "",
			Fullname: "dev/github", Favorite: true,
			Fields: []Field{{Name: "security_question", Value: "color", Type: FieldText}},
		},
		{
			ID: "2", Name: "bank", Username: "bob", Password: "hunter2",
			URL: "https://bank.example", Group: "", Fullname: "(none)/bank",
		},
	}
}

func TestExportCSV_DefaultFields(t *testing.T) {
	out, err := ExportCSV(sampleAccounts(), nil)
	require.NoError(t, err)
	require.Contains(t, out, "url,username,password,extra,name,grouping,fav,id,attachpresent,last_touch,last_modified\r\n")
	require.Contains(t, out, "github")
	require.Contains(t, out, "bank")
}

func TestExportCSV_CustomFieldColumn(t *testing.T) {
	out, err := ExportCSV(sampleAccounts(), []string{"name", "security_question"})
	require.NoError(t, err)
	require.Contains(t, out, "name,security_question\r\n")
	require.Contains(t, out, "github,color\r\n")
	require.Contains(t, out, "bank,\r\n")
}

func TestImportCSV_ParsesStandardAndCustomColumns(t *testing.T) {
	data := "name,username,password,url,extra,grouping,fav,totp\r\n" +
		"github,alice,s3cr3t,https://github.com,note,dev,1,123456\r\n"

	rows, err := ImportCSV(data, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, "github", row.Name)
	require.Equal(t, "alice", row.Username)
	require.Equal(t, "s3cr3t", row.Password)
	require.Equal(t, "https://github.com", row.URL)
	require.Equal(t, "note", row.Notes)
	require.Equal(t, "dev", row.Group)
	require.True(t, row.Favorite)
	require.Equal(t, "123456", row.Fields["totp"])
}

func TestImportCSV_SkipsDuplicatesByGroupNameUsername(t *testing.T) {
	data := "name,username,grouping\r\n" +
		"github,alice,dev\r\n" +
		"github,alice,dev\r\n" +
		"github,bob,dev\r\n"

	rows, err := ImportCSV(data, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestImportCSV_KeepDupesRetainsAll(t *testing.T) {
	data := "name,username,grouping\r\n" +
		"github,alice,dev\r\n" +
		"github,alice,dev\r\n"

	rows, err := ImportCSV(data, true)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestImportCSV_InvalidHeaderErrors(t *testing.T) {
	_, err := ImportCSV("", false)
	require.Error(t, err)
}

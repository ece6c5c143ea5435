package vault

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// standardCSVFields is the default export column set and the
// recognized-column set for import, per spec §6.
var standardCSVFields = []string{
	"url", "username", "password", "extra", "name", "grouping",
	"fav", "id", "attachpresent", "last_touch", "last_modified",
}

var standardCSVFieldSet = func() map[string]bool {
	set := make(map[string]bool, len(standardCSVFields))
	for _, f := range standardCSVFields {
		set[f] = true
	}
	set["fullname"] = true
	return set
}()

// ExportCSV renders accounts as CSV text using fields as the column
// set (defaulting to standardCSVFields when nil); unrecognized column
// names are looked up as custom fields on each account, exactly as
// csv_utils.py's export does.
func ExportCSV(accounts []*Account, fields []string) (string, error) {
	if fields == nil {
		fields = standardCSVFields
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.UseCRLF = true

	if err := w.Write(fields); err != nil {
		return "", err
	}
	for _, a := range accounts {
		row := make([]string, len(fields))
		for i, name := range fields {
			row[i] = csvFieldValue(a, name)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func csvFieldValue(a *Account, name string) string {
	switch name {
	case "url":
		return a.URL
	case "username":
		return a.Username
	case "password":
		return a.Password
	case "extra":
		return a.Notes
	case "name":
		return a.Name
	case "grouping":
		return a.Group
	case "fav":
		return boolParam(a.Favorite)
	case "id":
		return a.ID
	case "attachpresent":
		return boolParam(a.AttachPresent)
	case "last_touch":
		return a.LastTouch
	case "last_modified":
		return a.LastModifiedGMT
	case "fullname":
		return a.Fullname
	default:
		if f := a.GetField(name); f != nil {
			return f.Value
		}
		return ""
	}
}

// ImportRow is one CSV row decoded into add-ready fields, not yet
// submitted to the server.
type ImportRow struct {
	Name     string
	Username string
	Password string
	URL      string
	Notes    string
	Group    string
	Favorite bool
	Fields   map[string]string
}

// ImportCSV parses data per spec §6: the recognized header columns
// populate standard fields, everything else becomes a custom field.
// Duplicates by (group, name, username) are skipped unless
// keepDupes is set, matching csv_utils.py's import behavior.
func ImportCSV(data string, keepDupes bool) ([]ImportRow, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("vault: read csv header: %w", err)
	}

	var rows []ImportRow
	seen := make(map[string]bool)

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("vault: read csv row: %w", err)
		}

		row := ImportRow{Fields: map[string]string{}}
		for i, col := range header {
			if i >= len(record) {
				continue
			}
			value := record[i]
			switch col {
			case "name":
				row.Name = value
			case "username":
				row.Username = value
			case "password":
				row.Password = value
			case "url":
				row.URL = value
			case "extra":
				row.Notes = value
			case "grouping":
				row.Group = value
			case "fav":
				row.Favorite = value == "1"
			default:
				if !standardCSVFieldSet[col] && value != "" {
					row.Fields[col] = value
				}
			}
		}

		if !keepDupes {
			key := row.Group + "/" + row.Name + ":" + row.Username
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// ExportCSV renders the client's currently loaded accounts to CSV,
// per spec §4.7's export_csv contract.
func (c *Client) ExportCSV(fields []string) (string, error) {
	return ExportCSV(c.Accounts(), fields)
}

// ImportCSV parses data and adds every resulting row as a new
// account, per spec §4.7's import_csv contract. It returns the
// number of accounts actually created (duplicates skipped unless
// keepDupes is set do not count).
func (c *Client) ImportCSV(ctx context.Context, data string, keepDupes bool) (int, error) {
	rows, err := ImportCSV(data, keepDupes)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, row := range rows {
		if _, err := c.Add(ctx, row.Name, row.Username, row.Password, row.URL, row.Notes, row.Group, row.Fields, false); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

package vault

import "strings"

// secureNoteURL is the sentinel URL value that marks an account as a
// secure note rather than an ordinary login, per spec §3/§4.5.
const secureNoteURL = "http://sn"

// NoteTemplate declares a secure-note type's field order and which of
// those fields accept multi-line values. Supplemented from
// original_source/lastpass/note_types.py, which carries the complete
// template table spec.md's distillation only sampled (Generic, Credit
// Card, Bank, SSH Key, Server, WiFi, Passport).
type NoteTemplate struct {
	Shortname      string
	Name           string
	Fields         []string
	MultilineField map[string]bool
}

func newTemplate(shortname, name string, fields []string, multiline ...string) NoteTemplate {
	ml := make(map[string]bool, len(multiline))
	for _, f := range multiline {
		ml[f] = true
	}
	return NoteTemplate{Shortname: shortname, Name: name, Fields: fields, MultilineField: ml}
}

// NoteTemplates is the full set of known secure-note types, keyed by
// the exact NoteType: value that appears in the notes body.
var NoteTemplates = buildNoteTemplates()

func buildNoteTemplates() map[string]NoteTemplate {
	cardFields := []string{
		"Name on Card", "Type", "Number", "Security Code", "Start Date",
		"Expiration Date", "Name", "Address", "City / Town", "State",
		"ZIP / Postal Code", "Country", "Telephone",
	}

	templates := []NoteTemplate{
		newTemplate("generic", "Generic", nil),
		newTemplate("amex", "American Express", cardFields),
		newTemplate("bank", "Bank Account", []string{
			"Bank Name", "Account Type", "Routing Number", "Account Number",
			"SWIFT Code", "IBAN Number", "Pin", "Branch Address", "Branch Phone",
		}),
		newTemplate("creditcard", "Credit Card", cardFields),
		newTemplate("database", "Database", []string{
			"Type", "Hostname", "Port", "Database", "Username", "Password", "SID", "Alias",
		}),
		newTemplate("driverslicense", "Driver's License", []string{
			"Number", "Expiration Date", "License Class", "Name", "Address",
			"City / Town", "State", "ZIP / Postal Code", "Country",
			"Date of Birth", "Sex", "Height",
		}),
		newTemplate("email", "Email Account", []string{
			"Username", "Password", "Server", "Port", "Type", "SMTP Server", "SMTP Port",
		}),
		newTemplate("health-insurance", "Health Insurance", []string{
			"Company", "Company Phone", "Policy Type", "Policy Number", "Group ID",
			"Member Name", "Member ID", "Physician Name", "Physician Phone",
			"Physician Address", "Co-pay",
		}),
		newTemplate("im", "Instant Messenger", []string{
			"Type", "Username", "Password", "Server", "Port",
		}),
		newTemplate("insurance", "Insurance", []string{
			"Company", "Policy Type", "Policy Number", "Expiration", "Agent Name",
			"Agent Phone", "URL", "Username", "Password",
		}),
		newTemplate("mastercard", "Mastercard", cardFields),
		newTemplate("membership", "Membership", []string{
			"Organization", "Membership Number", "Member Name", "Start Date",
			"Expiration Date", "Website", "Telephone", "Password",
		}),
		newTemplate("passport", "Passport", []string{
			"Type", "Name", "Country", "Number", "Sex", "Nationality",
			"Issuing Authority", "Date of Birth", "Issued Date", "Expiration Date",
		}),
		newTemplate("server", "Server", []string{"Hostname", "Username", "Password"}),
		newTemplate("software-license", "Software License", []string{
			"License Key", "Licensee", "Version", "Publisher", "Support Email",
			"Website", "Price", "Purchase Date", "Order Number",
			"Number of Licenses", "Order Total",
		}),
		newTemplate("sshkey", "SSH Key", []string{
			"Bit Strength", "Format", "Passphrase", "Private Key", "Public Key",
			"Hostname", "Date",
		}, "Private Key", "Public Key"),
		newTemplate("ssn", "Social Security", []string{"Name", "Number"}),
		newTemplate("visa", "VISA", cardFields),
		newTemplate("wifi", "WiFi Password", []string{
			"SSID", "Password", "Connection Type", "Connection Mode",
			"Authentication", "Encryption", "Use 802.1X", "FIPS Mode",
			"Key Type", "Protected", "Key Index",
		}),
	}

	out := make(map[string]NoteTemplate, len(templates))
	for _, t := range templates {
		out[t.Name] = t
	}
	return out
}

// TemplateByName looks up a note template by its exact display name
// (the value that follows "NoteType:" in a note body), case-sensitive
// to match the original's strict comparison.
func TemplateByName(name string) (NoteTemplate, bool) {
	t, ok := NoteTemplates[name]
	return t, ok
}

func (t NoteTemplate) hasField(name string) bool {
	for _, f := range t.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// ExpandNote parses a secure note's flat "Key:Value" body into a
// structured Account, per spec §4.5. It returns (nil, false) when a
// is not a secure note or its body does not begin with "NoteType:".
func ExpandNote(a *Account) (*Account, bool) {
	if a == nil || !a.IsSecureNote() || !strings.HasPrefix(a.Notes, "NoteType:") {
		return nil, false
	}

	expanded := &Account{
		ID:            a.ID,
		Name:          a.Name,
		Group:         a.Group,
		Fullname:      a.Fullname,
		PWProtect:     a.PWProtect,
		Attachments:   append([]Attachment(nil), a.Attachments...),
		AttachKey:     a.AttachKey,
		AttachPresent: a.AttachPresent,
		Share:         a.Share,
	}

	lines := strings.Split(a.Notes, "\n")

	typeName := strings.TrimSpace(strings.TrimPrefix(lines[0], "NoteType:"))
	template, known := TemplateByName(typeName)

	var currentField *Field

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" && (currentField == nil || i == len(lines)-1) {
			continue
		}

		if strings.HasPrefix(line, "Notes:") {
			value := strings.TrimSpace(strings.TrimPrefix(line, "Notes:"))
			rest := lines[i+1:]
			if len(rest) > 0 {
				if value != "" {
					expanded.Notes = value + "\n" + strings.Join(rest, "\n")
				} else {
					expanded.Notes = strings.Join(rest, "\n")
				}
			} else {
				expanded.Notes = value
			}
			expanded.Notes = strings.TrimRight(expanded.Notes, "\n")
			break
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			if currentField != nil {
				currentField.Value += "\n" + line
			}
			continue
		}

		key := line[:idx]
		value := strings.TrimSpace(line[idx+1:])

		if known && currentField != nil && !template.hasField(key) && template.MultilineField[currentField.Name] {
			currentField.Value += "\n" + line
			continue
		}

		switch key {
		case "Username":
			expanded.Username = value
			currentField = nil
		case "Password":
			expanded.Password = value
			currentField = nil
		case "URL":
			expanded.URL = value
			currentField = nil
		default:
			// NoteType and every other Key:Value pair become an
			// ordered custom field, preserving NoteType for round-trip.
			expanded.Fields = append(expanded.Fields, Field{Name: key, Value: value, Type: FieldText})
			currentField = &expanded.Fields[len(expanded.Fields)-1]
		}
	}

	if expanded.Username == "" && expanded.Password == "" && expanded.URL == "" &&
		expanded.Notes == "" && len(expanded.Fields) == 0 {
		expanded.Notes = a.Notes
	}

	return expanded, true
}

// CollapseNote is the inverse of ExpandNote: it serializes a's fields
// back into the flat secure-note body and sets URL to the sentinel
// value, per spec §4.5's round-trip law.
func CollapseNote(a *Account) *Account {
	collapsed := &Account{
		ID:            a.ID,
		Name:          a.Name,
		Group:         a.Group,
		Fullname:      a.Fullname,
		URL:           secureNoteURL,
		PWProtect:     a.PWProtect,
		Attachments:   append([]Attachment(nil), a.Attachments...),
		AttachKey:     a.AttachKey,
		AttachPresent: a.AttachPresent,
		Share:         a.Share,
	}

	var lines []string

	for _, f := range a.Fields {
		if f.Name == "NoteType" {
			lines = append(lines, strings.TrimSpace(f.Name)+":"+strings.TrimSpace(f.Value))
			break
		}
	}
	for _, f := range a.Fields {
		if f.Name != "NoteType" {
			lines = append(lines, strings.TrimSpace(f.Name)+":"+strings.TrimSpace(f.Value))
		}
	}

	if strings.TrimSpace(a.Username) != "" {
		lines = append(lines, "Username:"+strings.TrimSpace(a.Username))
	}
	if strings.TrimSpace(a.Password) != "" {
		lines = append(lines, "Password:"+strings.TrimSpace(a.Password))
	}
	if u := strings.TrimSpace(a.URL); u != "" && u != secureNoteURL {
		lines = append(lines, "URL:"+u)
	}
	if strings.TrimSpace(a.Notes) != "" {
		lines = append(lines, "Notes:"+strings.TrimSpace(a.Notes))
	}

	collapsed.Notes = strings.Join(lines, "\n")
	return collapsed
}

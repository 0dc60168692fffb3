package services

import (
	"strings"
)

// Canonical field names consumed by the row validator. Upload templates in
// the wild vary wildly ("RegNumber", "JAMB REG NO", "reg_number"), so
// header matching is case-, space- and underscore-insensitive.
var fieldAliases = map[string]string{
	"jambregnumber":  "jamb_reg_number",
	"jambregno":      "jamb_reg_number",
	"jambnumber":     "jamb_reg_number",
	"jambno":         "jamb_reg_number",
	"regnumber":      "jamb_reg_number",
	"regno":          "jamb_reg_number",
	"registrationno": "jamb_reg_number",

	"surname":  "surname",
	"lastname": "surname",

	"firstname": "first_name",

	"middlename": "middle_name",
	"othernames": "middle_name",
	"othername":  "middle_name",

	"gender": "gender",
	"sex":    "gender",

	"dateofbirth": "date_of_birth",
	"dob":         "date_of_birth",

	"email":        "email",
	"emailaddress": "email",

	"phone":       "phone",
	"phoneno":     "phone",
	"phonenumber": "phone",
	"gsmno":       "phone",
	"telephone":   "phone",

	"state":         "state_of_origin",
	"stateoforigin": "state_of_origin",

	"lga":             "lga",
	"localgovernment": "lga",
	"lgaoforigin":     "lga",

	"address": "address",

	"course":     "programme",
	"coursecode": "programme",
	"programme":  "programme",
	"program":    "programme",

	"entrymode":   "entry_mode",
	"modeofentry": "entry_mode",

	"subj1":    "subject1",
	"subject1": "subject1",
	"subj2":    "subject2",
	"subject2": "subject2",
	"subj3":    "subject3",
	"subject3": "subject3",
	"subj4":    "subject4",
	"subject4": "subject4",

	"score1": "score1",
	"score2": "score2",
	"score3": "score3",
	"score4": "score4",

	"aggregate":      "aggregate",
	"aggregatescore": "aggregate",
	"totalscore":     "aggregate",
	"utmescore":      "aggregate",
}

// CanonicalField lower-cases a header, collapses whitespace runs into a
// single underscore and trims. Known aliases map onto the canonical field
// name; unknown headers keep their normalized spelling.
func CanonicalField(header string) string {
	key := strings.Join(strings.Fields(strings.ToLower(header)), "_")
	flat := strings.ReplaceAll(key, "_", "")
	flat = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, flat)
	if canonical, ok := fieldAliases[flat]; ok {
		return canonical
	}
	return key
}

// NormalizeRow maps one data row onto canonical field names. Cell values
// are coerced to their canonical string form here, in one place. Absent
// or blank cells produce absent keys; the normalizer never fails.
func NormalizeRow(headers []string, row []Cell) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, header := range headers {
		key := CanonicalField(header)
		if key == "" || i >= len(row) {
			continue
		}
		if row[i].IsEmpty() {
			continue
		}
		fields[key] = row[i].Value()
	}
	return fields
}

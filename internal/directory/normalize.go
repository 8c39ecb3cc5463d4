package directory

import "strings"

// Normalize maps raw entries to contact records in input order. Entries without
// phone numbers are dropped. An entry with phone numbers but no display name fails
// the whole batch with *MalformedEntryError, so bad upstream data is visible
// instead of rendering as blank rows.
func Normalize(raw []RawContact) ([]ContactRecord, error) {
	out := make([]ContactRecord, 0, len(raw))
	for i, person := range raw {
		if len(person.PhoneNumbers) == 0 {
			continue
		}
		if len(person.Names) == 0 || strings.TrimSpace(person.Names[0].DisplayName) == "" {
			return nil, &MalformedEntryError{Index: i, ResourceName: person.ResourceName}
		}
		out = append(out, toRecord(person))
	}
	return out, nil
}

func toRecord(person RawContact) ContactRecord {
	record := ContactRecord{
		Name:   strings.TrimSpace(person.Names[0].DisplayName),
		Phones: make([]string, 0, len(person.PhoneNumbers)),
	}
	for _, phone := range person.PhoneNumbers {
		if v := phoneForm(phone); v != "" {
			record.Phones = append(record.Phones, v)
		}
	}
	if len(person.EmailAddresses) > 0 {
		record.Email = strings.TrimSpace(person.EmailAddresses[0].Value)
	}
	if len(person.Organizations) > 0 {
		record.Position = strings.TrimSpace(person.Organizations[0].Title)
		record.Department = strings.TrimSpace(person.Organizations[0].Department)
	}
	if len(person.Photos) > 0 {
		record.Img = strings.TrimSpace(person.Photos[0].URL)
	}
	return record
}

func phoneForm(phone PhoneNumber) string {
	if v := strings.TrimSpace(phone.CanonicalForm); v != "" {
		return v
	}
	return strings.TrimSpace(phone.Value)
}

package entity

import "encoding/json"

// ContactSnapshot is the frozen form of an emergency contact stored on an
// alert job, so editing the contact list never changes who an already
// created alert goes to.
type ContactSnapshot struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func EncodeContactsSnapshot(contacts []*EmergencyContact) (string, error) {
	snapshots := make([]ContactSnapshot, len(contacts))
	for i, contact := range contacts {
		snapshots[i] = ContactSnapshot{Email: contact.Email, Name: contact.Name}
	}

	raw, err := json.Marshal(snapshots)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Contacts decodes the snapshot captured when the job was created.
func (j *AlertJob) Contacts() ([]ContactSnapshot, error) {
	if j.ContactsSnapshot == "" {
		return nil, nil
	}

	var snapshots []ContactSnapshot
	if err := json.Unmarshal([]byte(j.ContactsSnapshot), &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

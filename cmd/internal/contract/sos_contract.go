package contract

// SOSResponse reports a synchronous emergency alert back to the caller.
type SOSResponse struct {
	ContactsNotified int    `json:"contacts_notified"`
	SentAt           string `json:"sent_at"`
}

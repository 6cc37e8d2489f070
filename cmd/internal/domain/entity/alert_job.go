package entity

// PreNotificationLeadMillis is how long before the hard threshold the
// soft warning window opens (3 hours).
const PreNotificationLeadMillis = int64(3 * 60 * 60 * 1000)

type AlertKind string

const (
	// AlertKindPreNotification is the soft push warning sent to the user's
	// own device shortly before their threshold expires.
	AlertKindPreNotification AlertKind = "pre_notification"
	// AlertKindEmailAlert is the email sent to emergency contacts once the
	// threshold has fully elapsed.
	AlertKindEmailAlert AlertKind = "email_alert"
)

type AlertStatus string

const (
	AlertStatusScheduled AlertStatus = "scheduled"
	AlertStatusSent      AlertStatus = "sent"
	AlertStatusFailed    AlertStatus = "failed"
	AlertStatusCancelled AlertStatus = "cancelled"
)

// AlertJob is one ledger entry of the alerting pipeline. Jobs are created
// by the safety check scan, resolved by the dispatcher and cancelled by an
// incoming heartbeat. They are never deleted, the ledger doubles as audit.
//
// SnapshotLastSeenAt and ContactsSnapshot are captured at creation time so
// a later profile edit cannot corrupt an in-flight alert. Duplicate
// suppression compares CreatedAt against the user's current LastSeenAt:
// a job older than the latest heartbeat belongs to a previous liveness
// epoch and never blocks a new one.
type AlertJob struct {
	ID                 string      `gorm:"primaryKey;autoIncrement:false"` // uuid
	UserID             int64       `gorm:"not null;index"`                 // References: users(id)
	Kind               AlertKind   `gorm:"not null;index"`
	Status             AlertStatus `gorm:"not null;index"`
	CreatedAt          int64       `gorm:"not null"`
	ScheduledFor       int64       `gorm:"not null;index"`
	SentAt             int64       `gorm:"not null;default:0"`
	CancelledAt        int64       `gorm:"not null;default:0"`
	FailedAt           int64       `gorm:"not null;default:0"`
	LastError          string      `gorm:"not null;default:''"`
	SnapshotLastSeenAt int64       `gorm:"not null;default:0"`
	ThresholdHours     int         `gorm:"not null"`
	ContactsSnapshot   string      `gorm:"not null;default:'[]'"` // JSON, email_alert only
}

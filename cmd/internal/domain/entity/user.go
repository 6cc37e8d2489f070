package entity

// DefaultThresholdHours is applied when a user never picked a check-in
// window. The app offers 24, 48 and 72 hours.
const DefaultThresholdHours = 72

// User is the liveness record of a single account. LastSeenAt is only
// ever written by the heartbeat flow and is 0 until the first check-in.
//
// Active carries no default tag on purpose: gorm drops zero-valued
// fields for columns that have one, which would store Active: false as
// true on insert.
type User struct {
	ID             int64  `gorm:"primaryKey"`
	SubUUID        string `gorm:"not null;uniqueIndex"`
	Username       string `gorm:"not null"`
	Email          string `gorm:"not null"`
	LastSeenAt     int64  `gorm:"not null;default:0"` // epoch millis, 0 = never checked in
	ThresholdHours int    `gorm:"not null;default:72"`
	Timezone       string `gorm:"not null;default:'UTC'"` // display only, never used for threshold math
	FCMToken       string `gorm:"not null;default:''"`
	Active         bool   `gorm:"not null"`
	Suspended      bool   `gorm:"not null;default:false"`
	CreatedAt      int64  `gorm:"not null"`
	UpdatedAt      int64  `gorm:"not null;autoUpdateTime:false"`
}

// ThresholdMillis converts the configured window to milliseconds.
func (u *User) ThresholdMillis() int64 {
	hours := u.ThresholdHours
	if hours <= 0 {
		hours = DefaultThresholdHours
	}
	return int64(hours) * 60 * 60 * 1000
}

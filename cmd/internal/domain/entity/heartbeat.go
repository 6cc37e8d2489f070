package entity

// Heartbeat is the append-only audit trail of liveness signals. The
// authoritative "last seen" lives on the User row; these rows are never
// read by the pipeline itself.
type Heartbeat struct {
	ID         int64  `gorm:"primaryKey;autoIncrement:false"` // snowflake
	UserID     int64  `gorm:"not null;index"`                 // References: users(id)
	Timestamp  int64  `gorm:"not null"`
	Timezone   string `gorm:"not null;default:'UTC'"`
	DeviceInfo string `gorm:"not null;default:'{}'"` // JSON: platform/model/system version
	CreatedAt  int64  `gorm:"not null"`
}

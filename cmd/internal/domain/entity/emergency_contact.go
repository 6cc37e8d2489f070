package entity

// EmergencyContact is one recipient of a user's safety alerts.
// Position keeps the order the user arranged them in.
type EmergencyContact struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"not null;index"` // References: users(id)
	Email     string `gorm:"not null"`
	Name      string `gorm:"not null;default:''"`
	Position  int    `gorm:"not null;default:0"`
	CreatedAt int64  `gorm:"not null"`
}

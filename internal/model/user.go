package model

// User is provisioned on first authenticated request. PublicID is the auth
// provider's subject and is what every progress table references.
type User struct {
	BaseModel
	PublicID    int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	DisplayName string `gorm:"type:varchar(64);not null;default:''" json:"display_name"`

	// empty means the configured window timezone
	Timezone       string `gorm:"type:varchar(64);not null;default:''" json:"timezone"`
	BoostReminders bool   `gorm:"not null;default:true" json:"boost_reminders"`

	FuelPoints int `gorm:"not null;default:0" json:"fuel_points"`
}

func (User) TableName() string {
	return "users"
}

package model

type FuelPointSource string

const (
	FuelPointSourceBoost     FuelPointSource = "boost"
	FuelPointSourceChallenge FuelPointSource = "challenge"
)

// FuelPointTransaction is the ledger behind users.fuel_points. MessageID is
// the progress event that produced it, so a redelivered event cannot pay twice.
type FuelPointTransaction struct {
	BaseModel
	UserID       int64           `gorm:"not null;index:idx_fuel_point_transactions_user" json:"user_id"`
	Source       FuelPointSource `gorm:"type:varchar(16);not null" json:"source"`
	SourceID     string          `gorm:"type:varchar(64);not null" json:"source_id"`
	MessageID    string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"message_id"`
	Amount       int             `gorm:"not null" json:"amount"`
	BalanceAfter int             `gorm:"not null" json:"balance_after"`
}

func (FuelPointTransaction) TableName() string {
	return "fuel_point_transactions"
}

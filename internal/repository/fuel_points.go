package repository

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"HealthRocket/internal/model"
	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/logger"
)

// FuelPointRepository keeps users.fuel_points and its ledger in step.
type FuelPointRepository struct {
	db *gorm.DB
}

func NewFuelPointRepository(db *gorm.DB) *FuelPointRepository {
	return &FuelPointRepository{db: db}
}

// Award credits amount once per messageID. A repeated messageID returns a
// SkipMessageError and changes nothing.
func (r *FuelPointRepository) Award(ctx context.Context, userID int64, source model.FuelPointSource, sourceID, messageID string, amount int) (int, error) {
	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.FuelPointTransaction{}).Where("message_id = ?", messageID).Count(&existing).Error; err != nil {
			return storeErr("check ledger", err)
		}
		if existing > 0 {
			return &errors.SkipMessageError{MessageID: messageID}
		}

		var user model.User
		if err := tx.Where("public_id = ?", userID).First(&user).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.UserNotFound
			}
			return storeErr("load user", err)
		}

		// increment in SQL so concurrent awards for one user cannot lose an update
		if err := tx.Model(&model.User{}).Where("id = ?", user.ID).
			Update("fuel_points", gorm.Expr("fuel_points + ?", amount)).Error; err != nil {
			return storeErr("update balance", err)
		}
		if err := tx.Select("fuel_points").Where("id = ?", user.ID).First(&user).Error; err != nil {
			return storeErr("reload balance", err)
		}
		balance = user.FuelPoints

		entry := &model.FuelPointTransaction{
			UserID:       userID,
			Source:       source,
			SourceID:     sourceID,
			MessageID:    messageID,
			Amount:       amount,
			BalanceAfter: balance,
		}
		if err := tx.Create(entry).Error; err != nil {
			if isDuplicate(err) {
				return &errors.SkipMessageError{MessageID: messageID}
			}
			return storeErr("create ledger entry", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Logger.Info("Fuel points awarded",
		zap.Int64("user_id", userID),
		zap.String("source", string(source)),
		zap.String("source_id", sourceID),
		zap.Int("amount", amount),
		zap.Int("balance_after", balance),
	)
	return balance, nil
}

const defaultHistoryLimit = 50

// History lists the newest ledger entries first. Callers bound limit; a
// non-positive limit means the default page.
func (r *FuelPointRepository) History(ctx context.Context, userID int64, limit int) ([]model.FuelPointTransaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var entries []model.FuelPointTransaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, storeErr("load ledger", err)
	}
	return entries, nil
}

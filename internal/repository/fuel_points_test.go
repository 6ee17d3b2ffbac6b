package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HealthRocket/internal/model"
	"HealthRocket/pkg/errors"
)

func TestAwardIsIdempotentByMessageID(t *testing.T) {
	repo, db := newTestRepository(t)
	fuel := NewFuelPointRepository(db)
	ctx := context.Background()
	const uid = 21

	_, err := repo.EnsureUser(ctx, uid)
	require.NoError(t, err)

	balance, err := fuel.Award(ctx, uid, model.FuelPointSourceBoost, "sb1", "boost:1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, balance)

	balance, err = fuel.Award(ctx, uid, model.FuelPointSourceChallenge, "tc0", "challenge:2:completed", 50)
	require.NoError(t, err)
	assert.Equal(t, 51, balance)

	_, err = fuel.Award(ctx, uid, model.FuelPointSourceBoost, "sb1", "boost:1", 1)
	assert.True(t, errors.IsSkipMessage(err))

	p, err := repo.FetchSnapshot(ctx, uid, monday)
	require.NoError(t, err)
	assert.Equal(t, 51, p.FuelPoints)

	history, err := fuel.History(ctx, uid, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "challenge:2:completed", history[0].MessageID)
	assert.Equal(t, 51, history[0].BalanceAfter)
	assert.Equal(t, 1, history[1].BalanceAfter)
}

func TestAwardUnknownUser(t *testing.T) {
	db := newTestDB(t)
	fuel := NewFuelPointRepository(db)

	_, err := fuel.Award(context.Background(), 999, model.FuelPointSourceBoost, "sb1", "boost:9", 1)
	assert.ErrorIs(t, err, errors.UserNotFound)
}

func TestHistoryHonoursLargeLimits(t *testing.T) {
	repo, db := newTestRepository(t)
	fuel := NewFuelPointRepository(db)
	ctx := context.Background()
	const uid = 22

	_, err := repo.EnsureUser(ctx, uid)
	require.NoError(t, err)
	for i := 0; i < 160; i++ {
		_, err := fuel.Award(ctx, uid, model.FuelPointSourceBoost, "sb1", fmt.Sprintf("boost:%d", i), 1)
		require.NoError(t, err)
	}

	history, err := fuel.History(ctx, uid, 150)
	require.NoError(t, err)
	assert.Len(t, history, 150)
	assert.Equal(t, 160, history[0].BalanceAfter)

	history, err = fuel.History(ctx, uid, 0)
	require.NoError(t, err)
	assert.Len(t, history, 50)
}

package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HealthRocket/internal/catalog"
	"HealthRocket/internal/engine"
	"HealthRocket/internal/model"
	"HealthRocket/internal/repository"
	"HealthRocket/storage/redis"
)

// 2024-03-06 is a Wednesday.
var evening = time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)

type fakeStore struct {
	users     []model.User
	snapshots map[int64]engine.Snapshot
	pages     int
}

func (f *fakeStore) UsersWithReminders(_ context.Context, afterID int64, limit int) ([]model.User, error) {
	f.pages++
	var page []model.User
	for _, u := range f.users {
		if u.ID > afterID && u.BoostReminders {
			page = append(page, u)
			if len(page) == limit {
				break
			}
		}
	}
	return page, nil
}

func (f *fakeStore) FetchSnapshot(_ context.Context, userID int64, _ time.Time) (repository.Progress, error) {
	return repository.Progress{Snapshot: f.snapshots[userID]}, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []model.BoostReminderMessage
	err  error
}

func (p *fakePublisher) PublishBoostReminder(_ context.Context, msg model.BoostReminderMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func setup(t *testing.T) (*BoostReminderScheduler, *fakeStore, *fakePublisher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() { _ = client.Close() })

	rules := engine.NewRules(catalog.Default(), 2, engine.NewResetScheduler(time.UTC, time.Monday, 0))

	exhausted := map[catalog.Category]int{}
	for _, c := range rules.Catalog.BoostCategories() {
		exhausted[c.ID] = c.MaxDailyBoosts
	}

	store := &fakeStore{
		users: []model.User{
			{BaseModel: model.BaseModel{ID: 1}, PublicID: 101, BoostReminders: true},
			{BaseModel: model.BaseModel{ID: 2}, PublicID: 102, BoostReminders: true},
			{BaseModel: model.BaseModel{ID: 3}, PublicID: 103, BoostReminders: false},
			{BaseModel: model.BaseModel{ID: 4}, PublicID: 104, BoostReminders: true, Timezone: "Pacific/Auckland"},
		},
		snapshots: map[int64]engine.Snapshot{
			101: {
				BoostCompletionsThisPeriod: map[catalog.Category]int{catalog.CategorySleep: 2},
				DailyWindow:                "2024-03-06",
				WeeklyWindow:               "2024-03-04",
			},
			102: {
				BoostCompletionsThisPeriod: exhausted,
				DailyWindow:                "2024-03-06",
				WeeklyWindow:               "2024-03-04",
			},
		},
	}
	publisher := &fakePublisher{}

	s := NewBoostReminderScheduler(rules, store, publisher)
	s.now = func() time.Time { return evening }
	s.pageSize = 2
	return s, store, publisher, mr
}

func TestRunPublishesOnlyForUsersWithQuota(t *testing.T) {
	s, store, publisher, _ := setup(t)

	stats, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Scanned)
	assert.Equal(t, 2, stats.Published)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 2, store.pages)

	require.Len(t, publisher.msgs, 2)
	first := publisher.msgs[0]
	assert.Equal(t, int64(101), first.UserID)
	assert.Equal(t, "reminder:2024-03-06:101", first.MessageID)
	assert.Equal(t, 1, first.Remaining["sleep"])
	assert.Equal(t, 3, first.Remaining["mindset"])
	assert.Equal(t, 5, first.DaysUntilReset)

	// 19:00 UTC is already Thursday 08:00 in Auckland
	second := publisher.msgs[1]
	assert.Equal(t, int64(104), second.UserID)
	assert.Equal(t, "2024-03-07", second.WindowDate)
}

func TestRunIsIdempotentPerWindow(t *testing.T) {
	s, _, publisher, _ := setup(t)
	ctx := context.Background()

	_, err := s.Run(ctx)
	require.NoError(t, err)
	stats, err := s.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Published)
	assert.Len(t, publisher.msgs, 2)
}

func TestRunSkipsWhenAnotherInstanceHoldsLock(t *testing.T) {
	s, _, publisher, mr := setup(t)

	require.NoError(t, mr.Set(redis.Key("lock", "boost_reminder:2024-03-06"), "1"))

	stats, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Scanned)
	assert.Empty(t, publisher.msgs)
}

func TestPublishFailureReleasesMarker(t *testing.T) {
	s, _, publisher, _ := setup(t)
	ctx := context.Background()

	publisher.err = errors.New("broker down")
	stats, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Failed)

	publisher.err = nil
	stats, err = s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Published)
}

func TestNextRun(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly now rolls over",
			now:  evening,
			loc:  time.UTC,
			want: time.Date(2024, 3, 7, 19, 0, 0, 0, time.UTC),
		},
		{
			name: "other timezone",
			now:  time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), // 21:00 in Tokyo
			loc:  tokyo,
			want: time.Date(2024, 3, 7, 19, 0, 0, 0, tokyo),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, tt.loc, 19, 0)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

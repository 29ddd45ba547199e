package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekzod-dev/maktab-api/internal/models"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

func strptr(s string) *string { return &s }

func validSettings(branchID string) models.BranchScheduleSettings {
	return models.BranchScheduleSettings{
		BranchID:              branchID,
		SchoolStartTime:       "08:00",
		SchoolEndTime:         "16:05",
		LessonDurationMinutes: 45,
		BreakDurationMinutes:  10,
		LunchBreakStart:       strptr("12:35"),
		LunchBreakEnd:         strptr("13:30"),
	}
}

type branchRepoStub struct {
	branches map[string]models.Branch
	settings map[string]models.BranchScheduleSettings
	err      error
	upserts  int
}

func (s *branchRepoStub) FindByID(ctx context.Context, id string) (*models.Branch, error) {
	if s.err != nil {
		return nil, s.err
	}
	if branch, ok := s.branches[id]; ok {
		return &branch, nil
	}
	return nil, sql.ErrNoRows
}

func (s *branchRepoStub) GetScheduleSettings(ctx context.Context, branchID string) (*models.BranchScheduleSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	if settings, ok := s.settings[branchID]; ok {
		return &settings, nil
	}
	return nil, sql.ErrNoRows
}

func (s *branchRepoStub) UpsertScheduleSettings(ctx context.Context, settings *models.BranchScheduleSettings) error {
	if s.err != nil {
		return s.err
	}
	if s.settings == nil {
		s.settings = make(map[string]models.BranchScheduleSettings)
	}
	s.settings[settings.BranchID] = *settings
	s.upserts++
	return nil
}

type cacheStub struct {
	values  map[string]interface{}
	gets    int
	hits    int
	deletes int
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	c.gets++
	value, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	c.hits++
	if settings, ok := value.(models.BranchScheduleSettings); ok {
		*dest.(*models.BranchScheduleSettings) = settings
	}
	return nil
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.values == nil {
		c.values = make(map[string]interface{})
	}
	if settings, ok := value.(*models.BranchScheduleSettings); ok {
		c.values[key] = *settings
	}
	return nil
}

func (c *cacheStub) Delete(ctx context.Context, key string) error {
	c.deletes++
	delete(c.values, key)
	return nil
}

func TestSettingsServiceGetCachesResult(t *testing.T) {
	repo := &branchRepoStub{settings: map[string]models.BranchScheduleSettings{"b1": validSettings("b1")}}
	cache := &cacheStub{}
	svc := NewSettingsService(repo, cache, time.Minute, nil)

	first, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "08:00", first.SchoolStartTime)

	second, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, first.SchoolEndTime, second.SchoolEndTime)
	assert.Equal(t, 1, cache.hits)
}

func TestSettingsServiceGetMissingRow(t *testing.T) {
	svc := NewSettingsService(&branchRepoStub{}, nil, time.Minute, nil)

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceGetHalfLunch(t *testing.T) {
	broken := validSettings("b1")
	broken.LunchBreakEnd = nil
	repo := &branchRepoStub{settings: map[string]models.BranchScheduleSettings{"b1": broken}}
	svc := NewSettingsService(repo, nil, time.Minute, nil)

	_, err := svc.Get(context.Background(), "b1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceGetInvertedLunch(t *testing.T) {
	broken := validSettings("b1")
	broken.LunchBreakStart = strptr("13:30")
	broken.LunchBreakEnd = strptr("12:35")
	repo := &branchRepoStub{settings: map[string]models.BranchScheduleSettings{"b1": broken}}
	svc := NewSettingsService(repo, nil, time.Minute, nil)

	_, err := svc.Get(context.Background(), "b1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceDaySlots(t *testing.T) {
	repo := &branchRepoStub{settings: map[string]models.BranchScheduleSettings{"b1": validSettings("b1")}}
	svc := NewSettingsService(repo, nil, time.Minute, nil)

	slots, err := svc.DaySlots(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, slots, 9)

	lunchCount := 0
	for _, slot := range slots {
		if slot.IsLunchBreak {
			lunchCount++
			assert.Equal(t, "12:35", slot.Start)
			assert.Equal(t, "13:30", slot.End)
		}
	}
	assert.Equal(t, 1, lunchCount)

	last := slots[len(slots)-1]
	assert.Equal(t, 8, last.LessonNumber)
	assert.Equal(t, "15:20", last.Start)
	assert.Equal(t, "16:05", last.End)
}

func TestSettingsServiceSlotTableExcludesLunch(t *testing.T) {
	repo := &branchRepoStub{settings: map[string]models.BranchScheduleSettings{"b1": validSettings("b1")}}
	svc := NewSettingsService(repo, nil, time.Minute, nil)

	table, err := svc.SlotTable(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 8, table.Len())

	n, err := table.LessonNumberForStart("13:30")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestSettingsServiceUpdateInvalidatesCache(t *testing.T) {
	repo := &branchRepoStub{
		branches: map[string]models.Branch{"b1": {ID: "b1"}},
		settings: map[string]models.BranchScheduleSettings{"b1": validSettings("b1")},
	}
	cache := &cacheStub{}
	svc := NewSettingsService(repo, cache, time.Minute, nil)

	_, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)

	updated := validSettings("b1")
	updated.SchoolEndTime = "16:00"
	_, err = svc.Update(context.Background(), &updated)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)
	assert.Equal(t, 1, repo.upserts)
}

func TestSettingsServiceUpdateUnknownBranch(t *testing.T) {
	svc := NewSettingsService(&branchRepoStub{}, nil, time.Minute, nil)

	settings := validSettings("ghost")
	_, err := svc.Update(context.Background(), &settings)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSettingsServiceUpdateRejectsInvalid(t *testing.T) {
	repo := &branchRepoStub{branches: map[string]models.Branch{"b1": {ID: "b1"}}}
	svc := NewSettingsService(repo, nil, time.Minute, nil)

	broken := validSettings("b1")
	broken.LessonDurationMinutes = 0
	_, err := svc.Update(context.Background(), &broken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.upserts)
}

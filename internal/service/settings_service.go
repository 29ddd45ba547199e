package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/timetable"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

type branchSettingsRepository interface {
	FindByID(ctx context.Context, id string) (*models.Branch, error)
	GetScheduleSettings(ctx context.Context, branchID string) (*models.BranchScheduleSettings, error)
	UpsertScheduleSettings(ctx context.Context, settings *models.BranchScheduleSettings) error
}

type settingsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SettingsService loads and validates per-branch schooling-hours
// configuration. Settings are read on nearly every scheduling call, so they
// are cached in Redis for a short TTL.
type SettingsService struct {
	repo   branchSettingsRepository
	cache  settingsCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewSettingsService instantiates SettingsService.
func NewSettingsService(repo branchSettingsRepository, cache settingsCache, ttl time.Duration, logger *zap.Logger) *SettingsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func settingsCacheKey(branchID string) string {
	return "settings:branch:" + branchID
}

// Get returns the validated schedule settings for a branch. A branch with
// no row, or with an incomplete or inconsistent row, yields NOT_CONFIGURED
// so callers can tell "fix the configuration" apart from a generic failure.
func (s *SettingsService) Get(ctx context.Context, branchID string) (*models.BranchScheduleSettings, error) {
	if s.cache != nil {
		var cached models.BranchScheduleSettings
		err := s.cache.Get(ctx, settingsCacheKey(branchID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("settings cache read failed", zap.String("branch_id", branchID), zap.Error(err))
		}
	}

	settings, err := s.repo.GetScheduleSettings(ctx, branchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotConfigured, "branch has no schedule settings")
		}
		return nil, wrapStoreError(err, "failed to load branch settings")
	}

	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settingsCacheKey(branchID), settings, s.ttl); err != nil {
			s.logger.Warn("settings cache write failed", zap.String("branch_id", branchID), zap.Error(err))
		}
	}
	return settings, nil
}

// Update stores new schooling hours for a branch and invalidates the cache.
func (s *SettingsService) Update(ctx context.Context, settings *models.BranchScheduleSettings) (*models.BranchScheduleSettings, error) {
	if _, err := s.repo.FindByID(ctx, settings.BranchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "branch not found")
		}
		return nil, wrapStoreError(err, "failed to load branch")
	}

	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertScheduleSettings(ctx, settings); err != nil {
		return nil, wrapStoreError(err, "failed to store branch settings")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, settingsCacheKey(settings.BranchID)); err != nil {
			s.logger.Warn("settings cache invalidation failed", zap.String("branch_id", settings.BranchID), zap.Error(err))
		}
	}
	return settings, nil
}

// DaySlots derives the canonical list of daily slots, lunch break included,
// from the branch settings.
func (s *SettingsService) DaySlots(ctx context.Context, branchID string) ([]timetable.DaySlot, error) {
	settings, err := s.Get(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return timetable.BuildDaySlots(daySettingsFrom(settings))
}

// SlotTable returns the numbered lesson slots for a branch, lunch excluded,
// indexed for start-time lookup.
func (s *SettingsService) SlotTable(ctx context.Context, branchID string) (*timetable.SlotTable, error) {
	slots, err := s.DaySlots(ctx, branchID)
	if err != nil {
		return nil, err
	}
	table, err := timetable.TableFromDaySlots(slots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotConfigured.Code, appErrors.ErrNotConfigured.Status, "branch settings produce no usable slots")
	}
	return table, nil
}

func daySettingsFrom(settings *models.BranchScheduleSettings) timetable.DaySettings {
	day := timetable.DaySettings{
		SchoolStartTime:       settings.SchoolStartTime,
		SchoolEndTime:         settings.SchoolEndTime,
		LessonDurationMinutes: settings.LessonDurationMinutes,
		BreakDurationMinutes:  settings.BreakDurationMinutes,
	}
	if settings.DailyLessonEndTime != nil {
		day.DailyLessonEndTime = *settings.DailyLessonEndTime
	}
	if settings.LunchBreakStart != nil {
		day.LunchBreakStart = *settings.LunchBreakStart
	}
	if settings.LunchBreakEnd != nil {
		day.LunchBreakEnd = *settings.LunchBreakEnd
	}
	return day
}

func validateSettings(settings *models.BranchScheduleSettings) error {
	notConfigured := func(format string, args ...interface{}) error {
		return appErrors.Clone(appErrors.ErrNotConfigured, fmt.Sprintf(format, args...))
	}

	start, err := timetable.ParseClock(settings.SchoolStartTime)
	if err != nil {
		return notConfigured("invalid school start time %q", settings.SchoolStartTime)
	}
	end, err := timetable.ParseClock(settings.SchoolEndTime)
	if err != nil {
		return notConfigured("invalid school end time %q", settings.SchoolEndTime)
	}
	if start >= end {
		return notConfigured("school day must end after it starts")
	}
	if settings.LessonDurationMinutes <= 0 {
		return notConfigured("lesson duration must be positive")
	}
	if settings.BreakDurationMinutes < 0 {
		return notConfigured("break duration must not be negative")
	}
	if settings.DailyLessonEndTime != nil {
		if _, err := timetable.ParseClock(*settings.DailyLessonEndTime); err != nil {
			return notConfigured("invalid daily lesson end time %q", *settings.DailyLessonEndTime)
		}
	}

	hasLunchStart := settings.LunchBreakStart != nil && *settings.LunchBreakStart != ""
	hasLunchEnd := settings.LunchBreakEnd != nil && *settings.LunchBreakEnd != ""
	if hasLunchStart != hasLunchEnd {
		return notConfigured("lunch break needs both a start and an end time")
	}
	if hasLunchStart {
		lunchStart, err := timetable.ParseClock(*settings.LunchBreakStart)
		if err != nil {
			return notConfigured("invalid lunch break start %q", *settings.LunchBreakStart)
		}
		lunchEnd, err := timetable.ParseClock(*settings.LunchBreakEnd)
		if err != nil {
			return notConfigured("invalid lunch break end %q", *settings.LunchBreakEnd)
		}
		if lunchStart >= lunchEnd {
			return notConfigured("lunch break must end after it starts")
		}
	}
	return nil
}

// wrapStoreError maps a persistence failure to the API error model. Context
// cancellation and deadline expiry surface as TRANSIENT so clients know to
// retry; everything else is internal.
func wrapStoreError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return appErrors.Wrap(err, appErrors.ErrTransient.Code, appErrors.ErrTransient.Status, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

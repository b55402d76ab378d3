package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Today() time.Time {
	return time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 0, 0, 0, 0, time.UTC)
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots []*types.SessionSlot
}

func (f *fakeSlotRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.SessionSlot) ([]*types.SessionSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		f.slots = append(f.slots, row)
	}
	return rows, nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SessionSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSlotRepo) GetActiveByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) ([]*types.SessionSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.SessionSlot
	for _, s := range f.slots {
		if s.ClassGroupID == classGroupID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

func (f *fakeSlotRepo) GetByClassGroupAndOrdinal(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID, ordinal int) (*types.SessionSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.slots {
		if s.ClassGroupID == classGroupID && s.Ordinal == ordinal && s.IsActive {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotRepo) CountActiveByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, s := range f.slots {
		if s.ClassGroupID == classGroupID && s.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeSlotRepo) DeactivateByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		for _, s := range f.slots {
			if s.ID == id {
				s.IsActive = false
			}
		}
	}
	return nil
}

func seedSlots(repo *fakeSlotRepo, classGroupID uuid.UUID, total int) []*types.SessionSlot {
	rows := make([]*types.SessionSlot, 0, total)
	for ordinal := 1; ordinal <= total; ordinal++ {
		rows = append(rows, &types.SessionSlot{
			ID:           uuid.New(),
			ClassGroupID: classGroupID,
			Ordinal:      ordinal,
			Position:     ordinal,
			IsActive:     true,
		})
	}
	repo.slots = append(repo.slots, rows...)
	return rows
}

type fakeOccurrenceRepo struct {
	mu   sync.Mutex
	occs []*types.SessionOccurrence
}

func (f *fakeOccurrenceRepo) GetBySlotAndDate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID, date time.Time) (*types.SessionOccurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.occs {
		if o.SlotID == slotID && o.Date.Equal(date) {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOccurrenceRepo) GetBySlotAndDateForUpdate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID, date time.Time) (*types.SessionOccurrence, error) {
	return f.GetBySlotAndDate(ctx, tx, slotID, date)
}

func (f *fakeOccurrenceRepo) GetByClassGroupAndDate(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID, date time.Time) (*types.SessionOccurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.occs {
		if o.ClassGroupID == classGroupID && o.Date.Equal(date) {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOccurrenceRepo) GetLatestBySlotForUpdate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID) (*types.SessionOccurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *types.SessionOccurrence
	for _, o := range f.occs {
		if o.SlotID != slotID {
			continue
		}
		if latest == nil || o.Date.After(latest.Date) {
			latest = o
		}
	}
	return latest, nil
}

func (f *fakeOccurrenceRepo) GetLatestByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) (*types.SessionOccurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *types.SessionOccurrence
	for _, o := range f.occs {
		if o.ClassGroupID != classGroupID {
			continue
		}
		if latest == nil || o.Date.After(latest.Date) {
			latest = o
		}
	}
	return latest, nil
}

func (f *fakeOccurrenceRepo) ListByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) ([]*types.SessionOccurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.SessionOccurrence
	for _, o := range f.occs {
		if o.ClassGroupID == classGroupID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeOccurrenceRepo) ExistsForFacilitator(ctx context.Context, tx *gorm.DB, classGroupID, facilitatorID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.occs {
		if o.ClassGroupID == classGroupID && o.FacilitatorID != nil && *o.FacilitatorID == facilitatorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOccurrenceRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SessionOccurrence) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.occs {
		if o.SlotID == row.SlotID && o.Date.Equal(row.Date) {
			if row.ID == uuid.Nil {
				row.ID = o.ID
			}
			f.occs[i] = row
			return nil
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.occs = append(f.occs, row)
	return nil
}

func record(repo *fakeOccurrenceRepo, slot *types.SessionSlot, facilitatorID uuid.UUID, state types.OccurrenceState, date time.Time) {
	fid := facilitatorID
	repo.occs = append(repo.occs, &types.SessionOccurrence{
		ID:            uuid.New(),
		SlotID:        slot.ID,
		ClassGroupID:  slot.ClassGroupID,
		Date:          date,
		FacilitatorID: &fid,
		State:         state,
	})
}

type fakeCurriculumDayRepo struct {
	mu     sync.Mutex
	rows   []*types.CurriculumDay
	usage  map[uuid.UUID]int
	getErr error
}

func (f *fakeCurriculumDayRepo) Create(ctx context.Context, tx *gorm.DB, row *types.CurriculumDay) (*types.CurriculumDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeCurriculumDayRepo) Update(ctx context.Context, tx *gorm.DB, row *types.CurriculumDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == row.ID {
			f.rows[i] = row
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCurriculumDayRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CurriculumDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCurriculumDayRepo) GetByDayAndLanguage(ctx context.Context, tx *gorm.DB, dayNum int, language string) (*types.CurriculumDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.DayNumber == dayNum && r.Language == language {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeCurriculumDayRepo) GetPublished(ctx context.Context, tx *gorm.DB, dayNum int, language string) (*types.CurriculumDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, r := range f.rows {
		if r.DayNumber == dayNum && r.Language == language && r.Status == types.CurriculumPublished {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeCurriculumDayRepo) ListByLanguage(ctx context.Context, tx *gorm.DB, language string) ([]*types.CurriculumDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.CurriculumDay
	for _, r := range f.rows {
		if r.Language == language {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (f *fakeCurriculumDayRepo) IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.usage == nil {
		f.usage = map[uuid.UUID]int{}
	}
	f.usage[id]++
	return nil
}

type cacheEntry struct {
	value string
	ttl   time.Duration
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]cacheEntry{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok {
		return "", false, nil
	}
	return e.value, true, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = cacheEntry{value: value, ttl: ttl}
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			delete(f.entries, k)
		}
	}
	return nil
}

func (f *fakeCache) Close() error { return nil }

type fakeStaticSource struct {
	content map[string]map[int]string
}

func (f *fakeStaticSource) Languages() []string {
	langs := make([]string, 0, len(f.content))
	for lang := range f.content {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (f *fakeStaticSource) DayContent(language string, dayNum int) (string, error) {
	days, ok := f.content[language]
	if !ok {
		return "", fmt.Errorf("no static content for language %q", language)
	}
	body, ok := days[dayNum]
	if !ok {
		return "", fmt.Errorf("day %d not present in static content for %s", dayNum, language)
	}
	return body, nil
}

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/config"
	"complaint-analytics/pkg/constants"
	apperrors "complaint-analytics/pkg/errors"
	"complaint-analytics/pkg/utils"
)

type fakeComplaintRepo struct {
	mu      sync.Mutex
	records []entities.Complaint
	err     error
	block   bool
	queries []string
}

// FindMany ignores the where clause; the engine re-applies the predicate in memory.
func (f *fakeComplaintRepo) FindMany(ctx context.Context, where sq.Sqlizer) ([]entities.Complaint, error) {
	query, _, _ := where.ToSql()
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.Complaint, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeComplaintRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeDictionaryRepo struct {
	mu        sync.Mutex
	wards     []entities.Ward
	types     []entities.ComplaintType
	team      []entities.TeamMember
	wardReads int
	typeReads int
	teamWard  *uint64
	teamReads int
}

func (f *fakeDictionaryRepo) FindWards(ctx context.Context) ([]entities.Ward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wardReads++
	return f.wards, nil
}

func (f *fakeDictionaryRepo) FindComplaintTypes(ctx context.Context) ([]entities.ComplaintType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typeReads++
	return f.types, nil
}

func (f *fakeDictionaryRepo) FindTeam(ctx context.Context, wardID *uint64) ([]entities.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teamReads++
	f.teamWard = wardID
	return f.team, nil
}

type fakeConfigRepo struct {
	mu     sync.Mutex
	values map[string]string
	reads  int
}

func (f *fakeConfigRepo) FindByPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	out := make(map[string]string)
	for k, v := range f.values {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out[k[len(prefix):]] = v
		}
	}
	return out, nil
}

func (f *fakeConfigRepo) FindByKeys(ctx context.Context, keys ...string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

type fixture struct {
	svc        *analyticsService
	complaints *fakeComplaintRepo
	dict       *fakeDictionaryRepo
	config     *fakeConfigRepo
	cache      *fakeCache
}

func day(d int, month time.Month, hour int) time.Time {
	return time.Date(2024, month, d, hour, 0, 0, 0, time.UTC)
}

// ledger: two complaints submitted inside 1-10 March, one submitted in the previous
// window but closed inside the current one, and one after the window.
func testLedger() []entities.Complaint {
	return []entities.Complaint{
		{
			ID: 1, RawType: "1", Status: "closed", Priority: "high", WardID: 1,
			SubmittedOn: day(2, time.March, 10), ClosedOn: null.TimeFrom(day(3, time.March, 10)),
			AssignedToID: null.Uint64From(11), Rating: null.IntFrom(4),
		},
		{
			ID: 2, RawType: "road damage", Status: "REGISTERED", Priority: "LOW", WardID: 2,
			SubmittedOn: day(5, time.March, 9),
		},
		{
			ID: 3, RawType: "2", Status: "CLOSED", Priority: "MEDIUM", WardID: 1,
			SubmittedOn: day(25, time.February, 8), ClosedOn: null.TimeFrom(day(4, time.March, 8)),
		},
		{
			ID: 4, RawType: "WATER", Status: "REGISTERED", Priority: "MEDIUM", WardID: 1,
			SubmittedOn: day(15, time.March, 8),
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		complaints: &fakeComplaintRepo{records: testLedger()},
		dict: &fakeDictionaryRepo{
			wards: []entities.Ward{{ID: 1, Code: "W1", Name: "North"}, {ID: 2, Code: "W2", Name: "East"}},
			types: []entities.ComplaintType{
				{ID: 1, Code: "POTHOLE", Name: "Pothole", Aliases: []string{"road damage"}},
				{ID: 2, Code: "WATER", Name: "Water Supply"},
				{ID: 3, Code: "GARBAGE", Name: "Garbage"},
			},
			team: []entities.TeamMember{
				{ID: 11, Name: "Daniel", Role: "maintenance", WardID: 1, IsActive: true},
			},
		},
		config: &fakeConfigRepo{values: map[string]string{
			"sla_hours.POTHOLE":        "72",
			"sla_hours.default":        "24",
			constants.ConfigKeyAppName: "City Desk",
		}},
		cache: newFakeCache(),
	}

	cfg := config.AnalyticsConfig{
		DefaultSLAHours:   48,
		DefaultWindowDays: 30,
		QueryTimeout:      time.Second,
		Location:          time.UTC,
		IDPrefix:          "CMP-",
		IDPadWidth:        6,
		AppName:           "Fallback",
		DictionaryTTL:     time.Minute,
	}
	logger := zap.NewNop()
	svc := NewAnalyticsService(NewBaseService(f.cache, logger), f.complaints, f.dict, f.config, cfg, logger)
	f.svc = svc.(*analyticsService)
	f.svc.now = func() time.Time { return day(31, time.March, 12) }
	return f
}

func marchFilter() entities.AnalyticsFilter {
	from, to := day(1, time.March, 0), day(10, time.March, 0)
	return entities.AnalyticsFilter{DateFrom: &from, DateTo: &to}
}

func asAdmin() context.Context {
	return utils.WithIdentity(context.Background(), 1, "admin", 0)
}

func TestGetUnified_AdminAggregateAndComparison(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.GetUnified(asAdmin(), marchFilter())
	require.NoError(t, err)
	require.NotNil(t, report.AggregateResult)

	s := report.Summary
	assert.Equal(t, int64(2), s.Total)
	assert.Equal(t, int64(1), s.Resolved)
	assert.Equal(t, int64(1), s.Pending)
	assert.Equal(t, int64(1), s.Overdue)
	assert.Equal(t, int64(2), s.Closed)

	// complaint 1 met its 72h rule, complaint 3 took 8 days against the 24h default
	assert.Equal(t, 50.0, report.SLACompliance)
	assert.Equal(t, 4.5, report.AvgResolutionDays)
	assert.Equal(t, "2024-03-01", report.Window.From)
	assert.Equal(t, "2024-03-10", report.Window.To)
	assert.Len(t, report.Trend, 10)

	require.NotNil(t, report.Comparison)
	assert.Equal(t, "2024-02-20", report.Comparison.PreviousWindow.From)
	assert.Equal(t, "2024-02-29", report.Comparison.PreviousWindow.To)
	assert.Equal(t, int64(1), report.Comparison.Previous.Summary.Total)
	assert.Equal(t, "+100%", report.Comparison.Deltas["total"].Label)
	assert.Equal(t, "0%", report.Comparison.Deltas["resolved"].Label)

	// two reads per window
	assert.Equal(t, 4, f.complaints.calls())
	require.NotEmpty(t, report.Team)
	assert.Equal(t, uint64(11), report.Team[0].MemberID)
}

func TestGetUnified_WardOfficerIsPinnedToOwnWard(t *testing.T) {
	f := newFixture(t)
	other := uint64(2)
	filter := marchFilter()
	filter.WardID = &other

	ctx := utils.WithIdentity(context.Background(), 7, "ward_officer", 1)
	report, err := f.svc.GetUnified(ctx, filter)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.Summary.Total)
	require.Len(t, report.Wards, 1)
	assert.Equal(t, "North", report.Wards[0].Name)
	require.NotNil(t, f.dict.teamWard)
	assert.Equal(t, uint64(1), *f.dict.teamWard)
}

func TestGetUnified_CitizenSeesNoTeamAndOnlyOwnComplaints(t *testing.T) {
	f := newFixture(t)
	f.complaints.records[1].SubmittedByID = null.Uint64From(500)

	ctx := utils.WithIdentity(context.Background(), 500, "citizen", 0)
	report, err := f.svc.GetUnified(ctx, marchFilter())
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.Summary.Total)
	assert.Nil(t, report.Team)
	assert.Equal(t, 0, f.dict.teamReads)
}

func TestGetUnified_OfficerWithoutWardSeesNothing(t *testing.T) {
	f := newFixture(t)

	ctx := utils.WithIdentity(context.Background(), 7, "ward_officer", 0)
	report, err := f.svc.GetUnified(ctx, marchFilter())
	require.NoError(t, err)

	assert.Zero(t, report.Summary.Total)
	assert.Zero(t, f.complaints.calls())
}

func TestGetUnified_CachesDictionariesButNotSLARules(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetUnified(asAdmin(), marchFilter())
	require.NoError(t, err)
	_, err = f.svc.GetUnified(asAdmin(), marchFilter())
	require.NoError(t, err)

	assert.True(t, f.cache.has(constants.CacheKeyWards))
	assert.True(t, f.cache.has(constants.CacheKeyComplaintTypes))
	assert.Equal(t, 1, f.dict.wardReads)
	assert.Equal(t, 1, f.dict.typeReads)
	assert.Equal(t, 2, f.config.reads)
}

func TestGetUnified_DeadlineDegradesToEmptyResult(t *testing.T) {
	f := newFixture(t)
	f.complaints.block = true
	f.svc.cfg.QueryTimeout = 20 * time.Millisecond

	report, err := f.svc.GetUnified(asAdmin(), marchFilter())
	require.NoError(t, err)
	assert.Zero(t, report.Summary.Total)
	assert.Zero(t, report.SLACompliance)
	assert.Equal(t, "0%", report.Comparison.Deltas["total"].Label)
}

func TestGetUnified_StoreFailureIsInternalError(t *testing.T) {
	f := newFixture(t)
	f.complaints.err = errors.New("connection reset")

	_, err := f.svc.GetUnified(asAdmin(), marchFilter())
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}

func TestGetUnified_RequiresIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetUnified(context.Background(), marchFilter())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestGetUnified_DefaultWindowEndsToday(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.GetUnified(asAdmin(), entities.AnalyticsFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", report.Window.From)
	assert.Equal(t, "2024-03-31", report.Window.To)
	assert.Equal(t, 30, report.Window.Days)
}

func TestGetHeatmap_CountsActivityPerWardAndType(t *testing.T) {
	f := newFixture(t)

	hm, err := f.svc.GetHeatmap(asAdmin(), marchFilter())
	require.NoError(t, err)

	assert.Equal(t, []string{"Garbage", "Pothole", "Water Supply"}, hm.XLabels)
	assert.Equal(t, []string{"East", "North"}, hm.YLabels)
	assert.Equal(t, [][]int64{{0, 1, 0}, {0, 1, 0}}, hm.Matrix)
}

func TestGetHeatmap_WarnsAboutOrphanedComplaints(t *testing.T) {
	f := newFixture(t)
	f.complaints.records = append(f.complaints.records, entities.Complaint{
		ID: 5, RawType: "1", Status: "REGISTERED", Priority: "LOW", WardID: 9,
		SubmittedOn: day(6, time.March, 9),
	})
	core, logs := observer.New(zap.WarnLevel)
	f.svc.logger = zap.New(core)

	hm, err := f.svc.GetHeatmap(asAdmin(), marchFilter())
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{0, 1, 0}, {0, 1, 0}}, hm.Matrix)

	entries := logs.FilterMessage("heatmap skipped complaints with an unknown ward or type").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["count"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["in_scope"])
}

func TestGetHeatmap_TypeFilterUsesCanonicalKey(t *testing.T) {
	f := newFixture(t)
	filter := marchFilter()
	filter.Type = "water supply"
	from := day(20, time.February, 0)
	filter.DateFrom = &from

	hm, err := f.svc.GetHeatmap(asAdmin(), filter)
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{0, 0, 0}, {0, 0, 1}}, hm.Matrix)
}

func TestGetExport_RowsSummaryAndBranding(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.GetExport(asAdmin(), marchFilter())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ExportID)
	assert.Equal(t, "City Desk", report.Branding.AppName)
	assert.Equal(t, "CMP-", report.Branding.IDPrefix)
	assert.Equal(t, int64(2), report.Summary.Summary.Total)
	assert.Equal(t, 50.0, report.Summary.SLACompliance)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "CMP-000001", report.Rows[0].DisplayID)
	assert.Equal(t, "Pothole", report.Rows[0].TypeName)
	assert.Equal(t, "North", report.Rows[0].WardName)
	require.NotNil(t, report.Rows[0].SLAMet)
	assert.True(t, *report.Rows[0].SLAMet)
	assert.Equal(t, "CMP-000002", report.Rows[1].DisplayID)
	assert.Nil(t, report.Rows[1].ResolutionDays)
}

func TestSLAResolver_DefaultOverride(t *testing.T) {
	f := newFixture(t)

	sla := f.svc.slaResolver(map[string]string{"default": "12", "POTHOLE": "72"}, nil)
	assert.Equal(t, 12.0, sla.DefaultHours())
	assert.Equal(t, 72.0, sla.Hours("POTHOLE"))

	sla = f.svc.slaResolver(map[string]string{"default": "soon"}, nil)
	assert.Equal(t, 48.0, sla.DefaultHours())
}

func TestMergeByID(t *testing.T) {
	a := []entities.Complaint{{ID: 1}, {ID: 2}}
	b := []entities.Complaint{{ID: 2}, {ID: 3}, {ID: 0}}

	merged := mergeByID(a, b)
	ids := make([]uint64, 0, len(merged))
	for _, c := range merged {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []uint64{1, 2, 3, 0}, ids)
}

func TestSelectRecords_NormalizesBeforeFiltering(t *testing.T) {
	records := []entities.Complaint{
		{ID: 1, RawType: "road damage", Status: "in progress", Priority: "High"},
		{ID: 2, RawType: "2", Status: "CLOSED", Priority: "urgent"},
	}
	inProgress := func(c *entities.Complaint) bool { return c.Status == constants.StatusInProgress }

	out := selectRecords(records, nil, inProgress)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].ID)
	assert.Equal(t, constants.PriorityHigh, out[0].Priority)
	assert.Equal(t, "urgent", records[1].Priority)
}

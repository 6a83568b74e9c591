package analytics

import (
	"math"
	"time"

	"go.uber.org/zap"

	"complaint-analytics/internal/entities"
	"complaint-analytics/pkg/constants"
	"complaint-analytics/pkg/metrics"
	"complaint-analytics/pkg/types"
)

// Anomaly kinds, also used as metric labels.
const (
	AnomalyMissingClosedOn  = "missing_closed_on"
	AnomalyClosedBeforeOpen = "closed_before_submitted"
	AnomalyMalformedSLA     = "malformed_sla_rule"
	AnomalyUnknownStatus    = "unknown_status"
	AnomalyUnknownWard      = "unknown_ward"
	AnomalyUnknownType      = "unknown_type"
	AnomalyDuplicate        = "duplicate_record"
)

// Snapshot is everything the engine needs besides the records, loaded once per request.
// Nil SLA and Types fall back to defaults; a nil Logger discards.
type Snapshot struct {
	SLA       *SLAResolver
	Types     *TypeResolver
	WardNames map[uint64]string
	Team      []entities.TeamMember
	Now       time.Time
	Logger    *zap.Logger
}

func (s Snapshot) withDefaults() Snapshot {
	if s.SLA == nil {
		s.SLA = NewSLAResolver(nil, constants.DefaultSLAHours, s.Types)
	}
	if s.Now.IsZero() {
		s.Now = time.Now()
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	return s
}

// Aggregate walks records once and derives every view of the window. Records may
// contain both the activity and the closed set (and anything else: out-of-scope rows
// are ignored). It never fails; bad rows are skipped for the metric they break.
func Aggregate(records []entities.Complaint, pred Predicate, snap Snapshot) *types.AggregateResult {
	snap = snap.withDefaults()

	acc := newAccumulator(pred, snap)
	seen := make(map[uint64]struct{}, len(records))
	for i := range records {
		rec := records[i]
		if rec.ID != 0 {
			if _, dup := seen[rec.ID]; dup {
				acc.anomaly(AnomalyDuplicate, rec.ID)
				continue
			}
			seen[rec.ID] = struct{}{}
		}
		acc.add(&rec)
	}
	return acc.result()
}

type accumulator struct {
	pred Predicate
	snap Snapshot
	log  *zap.Logger

	summary types.AnalyticsSummary

	resolutionDays int64
	ratingSum      int64
	ratingCount    int64
	slaEvaluated   int64
	slaMet         int64

	trend      *trendSeries
	categories *groupSet
	wards      *groupSet
	status     map[string]int64
	priority   map[string]int64
	buckets    []types.ResolutionBucket
	team       *teamSet

	skipped map[string]int
}

func newAccumulator(pred Predicate, snap Snapshot) *accumulator {
	a := &accumulator{
		pred:       pred,
		snap:       snap,
		log:        snap.Logger,
		trend:      newTrendSeries(pred.Window),
		categories: newGroupSet(),
		wards:      newGroupSet(),
		status:     make(map[string]int64),
		priority:   make(map[string]int64),
		buckets:    newResolutionBuckets(),
		skipped:    make(map[string]int),
	}
	if pred.Role.CanSeeTeam() {
		a.team = newTeamSet(snap.Team, pred.WardID)
	}
	return a
}

func (a *accumulator) anomaly(kind string, id uint64) {
	a.skipped[kind]++
	metrics.RecordAnomaly(kind)
	a.log.Debug("complaint anomaly", zap.String("kind", kind), zap.Uint64("complaint_id", id))
}

func (a *accumulator) add(c *entities.Complaint) {
	if c.TypeKey == "" {
		c.TypeKey = a.snap.Types.Canonical(c.RawType)
	}
	// unknown enum values become "" and are left out of the distributions
	c.Status = constants.NormalizeStatus(c.Status)
	c.Priority = constants.NormalizePriority(c.Priority)

	if !a.pred.Match(c) {
		return
	}
	if a.pred.Window.Contains(c.SubmittedOn) {
		a.addActivity(c)
	}
	if c.Status == constants.StatusClosed {
		a.addClosed(c)
	}
}

func (a *accumulator) addActivity(c *entities.Complaint) {
	s := &a.summary
	s.Total++
	a.trend.submitted(c.SubmittedOn)

	resolved := constants.IsResolvedStatus(c.Status)
	switch {
	case c.Status == "":
		a.anomaly(AnomalyUnknownStatus, c.ID)
	case resolved:
		s.Resolved++
	default:
		s.Pending++
		if a.overdue(c) {
			s.Overdue++
		}
	}
	if c.Status == constants.StatusReopened {
		s.Reopened++
	}
	if c.Priority == constants.PriorityCritical {
		s.Critical++
	}
	if c.Status != "" {
		a.status[c.Status]++
	}
	if c.Priority != "" {
		a.priority[c.Priority]++
	}

	a.categories.get(c.TypeKey).addActivity(resolved)
	a.wards.get(wardKey(c.WardID)).addActivity(resolved)
	if a.team != nil {
		a.team.addActivity(c, resolved)
	}
}

// overdue compares the stored deadline, or submittedOn + SLA when there is none, with now.
func (a *accumulator) overdue(c *entities.Complaint) bool {
	if c.Deadline.Valid {
		return c.Deadline.Time.Before(a.snap.Now)
	}
	hours, ok := a.snap.SLA.Resolve(c.TypeKey)
	if !ok {
		a.anomaly(AnomalyMalformedSLA, c.ID)
		return false
	}
	return c.SubmittedOn.Add(hoursToDuration(hours)).Before(a.snap.Now)
}

func (a *accumulator) addClosed(c *entities.Complaint) {
	if !c.ClosedOn.Valid {
		if a.pred.Window.Contains(c.SubmittedOn) {
			a.anomaly(AnomalyMissingClosedOn, c.ID)
		}
		return
	}
	closedOn := c.ClosedOn.Time
	if !a.pred.Window.Contains(closedOn) {
		return
	}
	if closedOn.Before(c.SubmittedOn) {
		a.anomaly(AnomalyClosedBeforeOpen, c.ID)
		return
	}

	days := resolutionDays(c.SubmittedOn, closedOn)
	a.summary.Closed++
	a.resolutionDays += int64(days)
	a.addToBucket(days)
	if c.Rating.Valid && c.Rating.Int >= 0 && c.Rating.Int <= 5 {
		a.ratingSum += int64(c.Rating.Int)
		a.ratingCount++
	}

	met, evaluable := a.slaVerdict(c)
	if evaluable {
		a.slaEvaluated++
		if met {
			a.slaMet++
		}
	}
	a.trend.closed(closedOn, met, evaluable)

	a.categories.get(c.TypeKey).addClosed(days)
	a.wards.get(wardKey(c.WardID)).addClosed(days)
	if a.team != nil {
		a.team.addClosed(c, days)
	}
}

func (a *accumulator) slaVerdict(c *entities.Complaint) (met, evaluable bool) {
	hours, ok := a.snap.SLA.Resolve(c.TypeKey)
	if !ok {
		a.anomaly(AnomalyMalformedSLA, c.ID)
		return false, false
	}
	limit := c.SubmittedOn.Add(hoursToDuration(hours))
	return !c.ClosedOn.Time.After(limit), true
}

func (a *accumulator) addToBucket(days int) {
	for i := range a.buckets {
		b := &a.buckets[i]
		if days >= b.MinDays && (b.MaxDays == 0 || days <= b.MaxDays) {
			b.Count++
			return
		}
	}
}

func (a *accumulator) result() *types.AggregateResult {
	res := &types.AggregateResult{
		Window:                 a.pred.Window.View(),
		Summary:                a.summary,
		SLACompliance:          pct(a.slaMet, a.slaEvaluated),
		AvgResolutionDays:      avg(a.resolutionDays, a.summary.Closed),
		AvgRating:              avg(a.ratingSum, a.ratingCount),
		Trend:                  a.trend.points(),
		Categories:             a.categories.rows(a.summary.Total, a.categoryName),
		Wards:                  a.wards.rows(a.summary.Total, a.wardName),
		StatusCounts:           countsInOrder(a.status, constants.AllStatuses),
		PriorityCounts:         countsInOrder(a.priority, constants.AllPriorities),
		ResolutionDistribution: a.buckets,
	}
	if a.team != nil {
		res.Team = a.team.rows()
	}
	if len(a.skipped) > 0 {
		fields := make([]zap.Field, 0, len(a.skipped))
		for kind, n := range a.skipped {
			fields = append(fields, zap.Int(kind, n))
		}
		a.log.Warn("aggregation skipped anomalous records", fields...)
	}
	return res
}

func (a *accumulator) categoryName(key string) string {
	if key != UnknownTypeKey && a.snap.Types != nil && !a.snap.Types.Known(key) {
		a.anomaly(AnomalyUnknownType, 0)
	}
	return a.snap.Types.Name(key)
}

func (a *accumulator) wardName(key string) string {
	if name, ok := a.snap.WardNames[parseWardKey(key)]; ok {
		return name
	}
	if a.snap.WardNames != nil {
		a.anomaly(AnomalyUnknownWard, 0)
	}
	return "Ward " + key
}

func countsInOrder(counts map[string]int64, order []string) []types.CountByGroup {
	out := make([]types.CountByGroup, 0, len(order))
	for _, key := range order {
		out = append(out, types.CountByGroup{GroupName: key, Count: counts[key]})
	}
	return out
}

func newResolutionBuckets() []types.ResolutionBucket {
	return []types.ResolutionBucket{
		{Label: "<=1d", MinDays: 0, MaxDays: 1},
		{Label: "2-3d", MinDays: 2, MaxDays: 3},
		{Label: "4-7d", MinDays: 4, MaxDays: 7},
		{Label: "8-14d", MinDays: 8, MaxDays: 14},
		{Label: ">14d", MinDays: 15},
	}
}

// resolutionDays counts every started day as a full one.
func resolutionDays(submitted, closed time.Time) int {
	return int(math.Ceil(closed.Sub(submitted).Hours() / 24))
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// pct is part/whole*100 rounded to one decimal, 0 when whole is 0.
func pct(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func avg(sum, n int64) float64 {
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}

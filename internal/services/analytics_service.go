package services

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"complaint-analytics/internal/analytics"
	"complaint-analytics/internal/entities"
	"complaint-analytics/internal/repositories"
	"complaint-analytics/pkg/config"
	"complaint-analytics/pkg/constants"
	apperrors "complaint-analytics/pkg/errors"
	"complaint-analytics/pkg/types"
	"complaint-analytics/pkg/utils"
)

type AnalyticsServiceInterface interface {
	GetUnified(ctx context.Context, filter entities.AnalyticsFilter) (*types.UnifiedReport, error)
	GetHeatmap(ctx context.Context, filter entities.AnalyticsFilter) (*types.Heatmap, error)
	GetExport(ctx context.Context, filter entities.AnalyticsFilter) (*types.ExportReport, error)
}

type analyticsService struct {
	*BaseService
	complaintRepo repositories.ComplaintRepositoryInterface
	dictRepo      repositories.DictionaryRepositoryInterface
	configRepo    repositories.SystemConfigRepositoryInterface
	cfg           config.AnalyticsConfig
	logger        *zap.Logger
	now           func() time.Time
}

func NewAnalyticsService(
	base *BaseService,
	complaintRepo repositories.ComplaintRepositoryInterface,
	dictRepo repositories.DictionaryRepositoryInterface,
	configRepo repositories.SystemConfigRepositoryInterface,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) AnalyticsServiceInterface {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultWindowDays < 1 {
		cfg.DefaultWindowDays = 30
	}
	return &analyticsService{
		BaseService:   base,
		complaintRepo: complaintRepo,
		dictRepo:      dictRepo,
		configRepo:    configRepo,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// GetUnified builds the full aggregate for the caller's scope and compares it with
// the preceding window of the same length.
func (s *analyticsService) GetUnified(ctx context.Context, filter entities.AnalyticsFilter) (*types.UnifiedReport, error) {
	id, err := s.Identity(ctx)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadReferences(ctx, id, filter, refNeeds{sla: true, team: true})
	if err != nil {
		return nil, s.internal("unified", err)
	}

	pred := analytics.BuildPredicate(id, userFilters(filter), s.window(filter), refs.types)
	snap := refs.snapshot(s.now(), s.logger)

	aggregate := func(ctx context.Context, p analytics.Predicate) (*types.AggregateResult, error) {
		records, err := s.fetchLedger(ctx, p)
		if err != nil {
			return nil, err
		}
		return analytics.Aggregate(records, p, snap), nil
	}

	current, comparison, err := analytics.ComparePeriods(ctx, pred, aggregate)
	if err != nil {
		return nil, s.internal("unified", err)
	}
	return &types.UnifiedReport{AggregateResult: current, Comparison: comparison}, nil
}

// GetHeatmap counts the activity set per ward and complaint type.
func (s *analyticsService) GetHeatmap(ctx context.Context, filter entities.AnalyticsFilter) (*types.Heatmap, error) {
	id, err := s.Identity(ctx)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadReferences(ctx, id, filter, refNeeds{})
	if err != nil {
		return nil, s.internal("heatmap", err)
	}

	pred := analytics.BuildPredicate(id, userFilters(filter), s.window(filter), refs.types)
	records, err := s.readLedger(ctx, "ledger_activity", pred, pred.ActivitySql)
	if err != nil {
		return nil, s.internal("heatmap", err)
	}

	inScope := selectRecords(records, refs.types, pred.InActivity)
	heatmap, skipped := analytics.BuildMatrix(inScope, refs.wards, refs.typeDict, refs.types)
	if skipped > 0 {
		s.logger.Warn("heatmap skipped complaints with an unknown ward or type",
			zap.Int("count", skipped), zap.Int("in_scope", len(inScope)))
	}
	return &heatmap, nil
}

// GetExport returns display-ready rows of the activity set plus the summary block.
func (s *analyticsService) GetExport(ctx context.Context, filter entities.AnalyticsFilter) (*types.ExportReport, error) {
	id, err := s.Identity(ctx)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadReferences(ctx, id, filter, refNeeds{sla: true, branding: true})
	if err != nil {
		return nil, s.internal("export", err)
	}

	pred := analytics.BuildPredicate(id, userFilters(filter), s.window(filter), refs.types)
	records, err := s.readLedger(ctx, "ledger", pred, pred.LedgerSql)
	if err != nil {
		return nil, s.internal("export", err)
	}

	now := s.now()
	summary := analytics.Aggregate(records, pred, refs.snapshot(now, s.logger))
	rows := analytics.FormatExport(selectRecords(records, refs.types, pred.InActivity), analytics.ExportOptions{
		IDPrefix:  refs.branding.IDPrefix,
		PadWidth:  s.cfg.IDPadWidth,
		Types:     refs.types,
		WardNames: refs.wardNames,
		SLA:       refs.sla,
		Location:  s.cfg.Location,
	})

	return &types.ExportReport{
		ExportID:    uuid.NewString(),
		GeneratedAt: now,
		Branding:    refs.branding,
		Summary: types.ExportSummary{
			Window:            summary.Window,
			Summary:           summary.Summary,
			SLACompliance:     summary.SLACompliance,
			AvgResolutionDays: summary.AvgResolutionDays,
		},
		Rows: rows,
	}, nil
}

// window resolves the requested dates. A single bound is completed with the default
// window length; no bounds means the last DefaultWindowDays days.
func (s *analyticsService) window(f entities.AnalyticsFilter) analytics.Window {
	loc := s.cfg.Location
	days := s.cfg.DefaultWindowDays
	switch {
	case f.DateFrom != nil && f.DateTo != nil:
		return analytics.NewWindow(*f.DateFrom, *f.DateTo, loc)
	case f.DateFrom != nil:
		return analytics.NewWindow(*f.DateFrom, s.now(), loc)
	case f.DateTo != nil:
		return analytics.NewWindow(f.DateTo.AddDate(0, 0, -(days-1)), *f.DateTo, loc)
	default:
		return analytics.LastDays(s.now(), days, loc)
	}
}

// fetchLedger reads the activity and closed sets concurrently and merges them.
func (s *analyticsService) fetchLedger(ctx context.Context, pred analytics.Predicate) ([]entities.Complaint, error) {
	var (
		g      taskGroup
		active []entities.Complaint
		closed []entities.Complaint
	)
	g.add(func() (err error) {
		active, err = s.readLedger(ctx, "ledger_activity", pred, pred.ActivitySql)
		return
	})
	g.add(func() (err error) {
		closed, err = s.readLedger(ctx, "ledger_closed", pred, pred.ClosedSql)
		return
	})
	if err := g.wait(); err != nil {
		return nil, err
	}
	return mergeByID(active, closed), nil
}

func (s *analyticsService) readLedger(ctx context.Context, name string, pred analytics.Predicate, where func() sq.Sqlizer) ([]entities.Complaint, error) {
	if pred.DenyAll {
		return nil, nil
	}
	records, _, err := utils.ScopedRead(ctx, name, s.cfg.QueryTimeout, s.logger,
		func(ctx context.Context) ([]entities.Complaint, error) {
			return s.complaintRepo.FindMany(ctx, where())
		})
	return records, err
}

func (s *analyticsService) internal(report string, err error) error {
	return apperrors.NewHttpError(http.StatusInternalServerError, "Failed to build the report", err,
		map[string]interface{}{"report": report})
}

type refNeeds struct {
	sla      bool
	team     bool
	branding bool
}

// references is the per-request configuration snapshot handed to the engine.
type references struct {
	types     *analytics.TypeResolver
	typeDict  []entities.ComplaintType
	wards     []entities.Ward
	wardNames map[uint64]string
	sla       *analytics.SLAResolver
	team      []entities.TeamMember
	branding  types.Branding
}

func (r *references) snapshot(now time.Time, logger *zap.Logger) analytics.Snapshot {
	return analytics.Snapshot{
		SLA:       r.sla,
		Types:     r.types,
		WardNames: r.wardNames,
		Team:      r.team,
		Now:       now,
		Logger:    logger,
	}
}

// loadReferences issues the independent dictionary and configuration reads in parallel.
func (s *analyticsService) loadReferences(ctx context.Context, id analytics.Identity, filter entities.AnalyticsFilter, needs refNeeds) (*references, error) {
	var (
		g        taskGroup
		typeDict []entities.ComplaintType
		wards    []entities.Ward
		rules    map[string]string
		team     []entities.TeamMember
		branding types.Branding
	)

	g.add(func() (err error) {
		typeDict, err = cachedRead(ctx, s, constants.CacheKeyComplaintTypes, "complaint_types", s.dictRepo.FindComplaintTypes)
		return
	})
	g.add(func() (err error) {
		wards, err = cachedRead(ctx, s, constants.CacheKeyWards, "wards", s.dictRepo.FindWards)
		return
	})
	if needs.sla {
		// SLA rules are read fresh for every request
		g.add(func() (err error) {
			rules, _, err = utils.ScopedRead(ctx, "sla_rules", s.cfg.QueryTimeout, s.logger,
				func(ctx context.Context) (map[string]string, error) {
					return s.configRepo.FindByPrefix(ctx, constants.ConfigKeySLAPrefix)
				})
			return
		})
	}
	if needs.team && id.Role.CanSeeTeam() {
		ward := filter.WardID
		if id.Role == constants.RoleWardOfficer {
			ward = &id.WardID
		}
		g.add(func() (err error) {
			team, _, err = utils.ScopedRead(ctx, "team", s.cfg.QueryTimeout, s.logger,
				func(ctx context.Context) ([]entities.TeamMember, error) {
					return s.dictRepo.FindTeam(ctx, ward)
				})
			return
		})
	}
	if needs.branding {
		g.add(func() (err error) {
			branding, err = cachedRead(ctx, s, constants.CacheKeyBranding, "branding", s.readBranding)
			return
		})
	}

	if err := g.wait(); err != nil {
		s.logger.Error("reference data fetching error", zap.Error(err))
		return nil, err
	}

	refs := &references{
		types:     analytics.NewTypeResolver(typeDict),
		typeDict:  typeDict,
		wards:     wards,
		wardNames: make(map[uint64]string, len(wards)),
		team:      team,
		branding:  s.withBrandingDefaults(branding),
	}
	for _, w := range wards {
		refs.wardNames[w.ID] = w.Name
	}
	refs.sla = s.slaResolver(rules, refs.types)
	return refs, nil
}

// slaResolver applies the default override stored next to the per-type rules.
func (s *analyticsService) slaResolver(rules map[string]string, resolver *analytics.TypeResolver) *analytics.SLAResolver {
	defaultHours := s.cfg.DefaultSLAHours
	defaultKey := strings.TrimPrefix(constants.ConfigKeySLADefault, constants.ConfigKeySLAPrefix)
	perType := make(map[string]string, len(rules))
	for k, v := range rules {
		if k == defaultKey {
			if h, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && h > 0 {
				defaultHours = h
			} else {
				s.logger.Warn("ignoring malformed default SLA", zap.String("value", v))
			}
			continue
		}
		perType[k] = v
	}
	sla := analytics.NewSLAResolver(perType, defaultHours, resolver)
	if bad := sla.Malformed(); len(bad) > 0 {
		s.logger.Warn("malformed SLA rules are excluded from compliance", zap.Strings("types", bad))
	}
	return sla
}

func (s *analyticsService) readBranding(ctx context.Context) (types.Branding, error) {
	values, err := s.configRepo.FindByKeys(ctx, constants.ConfigKeyAppName, constants.ConfigKeyLogoURL, constants.ConfigKeyIDPrefix)
	if err != nil {
		return types.Branding{}, err
	}
	return types.Branding{
		AppName:  values[constants.ConfigKeyAppName],
		LogoURL:  values[constants.ConfigKeyLogoURL],
		IDPrefix: values[constants.ConfigKeyIDPrefix],
	}, nil
}

func (s *analyticsService) withBrandingDefaults(b types.Branding) types.Branding {
	if b.AppName == "" {
		b.AppName = s.cfg.AppName
	}
	if b.LogoURL == "" {
		b.LogoURL = s.cfg.LogoURL
	}
	if b.IDPrefix == "" {
		b.IDPrefix = s.cfg.IDPrefix
	}
	return b
}

// cachedRead serves a dictionary from Redis, falling back to a scoped read. Degraded
// results are not cached.
func cachedRead[T any](ctx context.Context, s *analyticsService, key, name string, read func(context.Context) (T, error)) (T, error) {
	var value T
	if s.CacheGet(ctx, key, &value) {
		return value, nil
	}
	value, degraded, err := utils.ScopedRead(ctx, name, s.cfg.QueryTimeout, s.logger, read)
	if err != nil {
		return value, err
	}
	if !degraded {
		s.CacheSet(ctx, key, value, s.cfg.DictionaryTTL)
	}
	return value, nil
}

func userFilters(f entities.AnalyticsFilter) analytics.UserFilters {
	return analytics.UserFilters{
		WardID:   f.WardID,
		Type:     f.Type,
		Status:   f.Status,
		Priority: f.Priority,
	}
}

// selectRecords canonicalizes type, status and priority in place and keeps the records
// accepted by keep. Unrecognised status and priority spellings are left as stored.
func selectRecords(records []entities.Complaint, resolver *analytics.TypeResolver, keep func(*entities.Complaint) bool) []entities.Complaint {
	analytics.Canonicalize(records, resolver)
	out := make([]entities.Complaint, 0, len(records))
	for i := range records {
		c := &records[i]
		if status := constants.NormalizeStatus(c.Status); status != "" {
			c.Status = status
		}
		if priority := constants.NormalizePriority(c.Priority); priority != "" {
			c.Priority = priority
		}
		if keep(c) {
			out = append(out, *c)
		}
	}
	return out
}

func mergeByID(a, b []entities.Complaint) []entities.Complaint {
	out := make([]entities.Complaint, 0, len(a)+len(b))
	seen := make(map[uint64]struct{}, len(a))
	for _, c := range a {
		if c.ID != 0 {
			seen[c.ID] = struct{}{}
		}
		out = append(out, c)
	}
	for _, c := range b {
		if _, dup := seen[c.ID]; dup && c.ID != 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

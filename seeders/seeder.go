package seeders

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"complaint-analytics/pkg/constants"
)

// updateIfExists controls whether re-running the seeder overwrites edited values.
const updateIfExists = false

// SeedDictionaries fills wards, complaint types, SLA rules and branding.
func SeedDictionaries(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("▶️  Seeding dictionaries...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	wardQuery := `INSERT INTO wards (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`
	if updateIfExists {
		wardQuery = `INSERT INTO wards (code, name) VALUES ($1, $2) ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`
	}
	for _, w := range wardsData {
		if _, err := tx.Exec(ctx, wardQuery, w.Code, w.Name); err != nil {
			return fmt.Errorf("ward %s: %w", w.Code, err)
		}
	}

	// complaint_types has no unique code, legacy rows may share one
	for _, ct := range complaintTypesData {
		aliases := ct.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO complaint_types (code, name, aliases)
			 SELECT $1, $2, $3 WHERE NOT EXISTS (SELECT 1 FROM complaint_types WHERE code = $1)`,
			ct.Code, ct.Name, aliases); err != nil {
			return fmt.Errorf("complaint type %s: %w", ct.Code, err)
		}
	}

	config := make(map[string]string, len(slaRulesData)+len(brandingData))
	for typeKey, hours := range slaRulesData {
		config[constants.ConfigKeySLAPrefix+typeKey] = hours
	}
	for k, v := range brandingData {
		config[k] = v
	}
	configQuery := `INSERT INTO system_config (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`
	if updateIfExists {
		configQuery = `INSERT INTO system_config (key, value) VALUES ($1, $2)
					   ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	}
	for k, v := range config {
		if _, err := tx.Exec(ctx, configQuery, k, v); err != nil {
			return fmt.Errorf("system config %s: %w", k, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Println("✅ Dictionaries seeded")
	return nil
}

// SeedRoster adds the demo ward officers and maintenance staff.
func SeedRoster(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("▶️  Seeding team roster...")

	wardIDs, err := loadIDs(ctx, db, `SELECT code, id FROM wards`)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, m := range rosterData {
		wardID, ok := wardIDs[m.WardCode]
		if !ok {
			return fmt.Errorf("roster member %q: unknown ward %s", m.Name, m.WardCode)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO team_members (name, role, ward_id)
			 SELECT $1, $2, $3 WHERE NOT EXISTS (SELECT 1 FROM team_members WHERE name = $1)`,
			m.Name, string(m.Role), wardID); err != nil {
			return fmt.Errorf("roster member %q: %w", m.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Println("✅ Team roster seeded")
	return nil
}

// SeedDemoComplaints bulk-loads count random complaints spread over the last 90 days.
// A fixed seed keeps runs reproducible. Some rows use the legacy free-text type column.
func SeedDemoComplaints(ctx context.Context, db *pgxpool.Pool, count int, seed int64) error {
	log.Printf("▶️  Seeding %d demo complaints...", count)

	wardIDs, err := loadIDs(ctx, db, `SELECT code, id FROM wards`)
	if err != nil {
		return err
	}
	typeIDs, err := loadIDs(ctx, db, `SELECT code, id FROM complaint_types WHERE code <> ''`)
	if err != nil {
		return err
	}
	staff, err := loadStaff(ctx, db)
	if err != nil {
		return err
	}
	if len(wardIDs) == 0 || len(typeIDs) == 0 {
		return fmt.Errorf("seed dictionaries first")
	}

	rows := demoComplaints(rand.New(rand.NewSource(seed)), count, time.Now().UTC(), values(wardIDs), typeIDs, staff)
	copied, err := db.CopyFrom(ctx,
		pgx.Identifier{"complaints"},
		[]string{
			"type_id", "type_name", "status", "priority", "ward_id", "submitted_on", "closed_on",
			"deadline", "assigned_to_id", "maintenance_team_id", "submitted_by_id", "contact_phone",
			"rating", "area",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy complaints: %w", err)
	}
	log.Printf("✅ %d demo complaints seeded", copied)
	return nil
}

type staffMember struct {
	id     int64
	wardID int64
}

func demoComplaints(r *rand.Rand, count int, now time.Time, wards []int64, types map[string]int64, staff []staffMember) [][]any {
	codes := make([]string, 0, len(types))
	for _, ct := range complaintTypesData {
		if _, ok := types[ct.Code]; ok {
			codes = append(codes, ct.Code)
		}
	}
	if len(codes) == 0 || len(wards) == 0 {
		return nil
	}
	areas := []string{"Market Street", "Station Road", "Park Lane", "School Avenue", "Bridge Road"}

	rows := make([][]any, 0, count)
	for i := 0; i < count; i++ {
		code := codes[r.Intn(len(codes))]
		ward := wards[r.Intn(len(wards))]
		submitted := now.Add(-time.Duration(r.Intn(90*24)) * time.Hour)

		var typeID, typeName any = types[code], nil
		if r.Intn(5) == 0 {
			// legacy rows only carry a spelling of the type
			typeID = nil
			typeName = legacySpelling(r, code)
		}

		status := constants.AllStatuses[r.Intn(len(constants.AllStatuses))]
		priority := constants.AllPriorities[r.Intn(len(constants.AllPriorities))]

		var closedOn, rating any
		if status == constants.StatusClosed {
			closed := submitted.Add(time.Duration(2+r.Intn(24*20)) * time.Hour)
			if closed.After(now) {
				closed = now
			}
			closedOn = closed
			rating = int16(r.Intn(6))
		}

		var deadline any
		if r.Intn(3) == 0 {
			deadline = submitted.Add(time.Duration(12+r.Intn(96)) * time.Hour)
		}

		var assignedTo, teamID any
		if status != constants.StatusRegistered {
			if m, ok := pickStaff(r, staff, ward); ok {
				if r.Intn(4) == 0 {
					teamID = m.id
				} else {
					assignedTo = m.id
				}
			}
		}

		rows = append(rows, []any{
			typeID, typeName, status, priority, ward, submitted, closedOn,
			deadline, assignedTo, teamID, int64(1000 + r.Intn(200)),
			fmt.Sprintf("+1555%07d", r.Intn(10000000)),
			rating, areas[r.Intn(len(areas))],
		})
	}
	return rows
}

func legacySpelling(r *rand.Rand, code string) string {
	for _, ct := range complaintTypesData {
		if ct.Code != code {
			continue
		}
		if len(ct.Aliases) > 0 && r.Intn(2) == 0 {
			return ct.Aliases[r.Intn(len(ct.Aliases))]
		}
		return ct.Name
	}
	return code
}

func pickStaff(r *rand.Rand, staff []staffMember, wardID int64) (staffMember, bool) {
	var local []staffMember
	for _, m := range staff {
		if m.wardID == wardID {
			local = append(local, m)
		}
	}
	if len(local) == 0 {
		return staffMember{}, false
	}
	return local[r.Intn(len(local))], true
}

func loadIDs(ctx context.Context, db *pgxpool.Pool, query string) (map[string]int64, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var code string
		var id int64
		if err := rows.Scan(&code, &id); err != nil {
			return nil, err
		}
		ids[code] = id
	}
	return ids, rows.Err()
}

func loadStaff(ctx context.Context, db *pgxpool.Pool) ([]staffMember, error) {
	rows, err := db.Query(ctx,
		`SELECT id, ward_id FROM team_members WHERE is_active AND role = $1 AND ward_id IS NOT NULL`,
		string(constants.RoleMaintenance))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []staffMember
	for rows.Next() {
		var m staffMember
		if err := rows.Scan(&m.id, &m.wardID); err != nil {
			return nil, err
		}
		staff = append(staff, m)
	}
	return staff, rows.Err()
}

// values returns the ids ordered by code so a fixed seed yields the same rows.
func values(m map[string]int64) []int64 {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]int64, 0, len(m))
	for _, code := range codes {
		out = append(out, m[code])
	}
	return out
}

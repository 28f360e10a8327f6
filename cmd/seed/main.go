// Package main provides a CLI tool for seeding the database with reference and sample data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"logitrack/internal/config"
	"logitrack/internal/core/security"
	"logitrack/internal/domain/auth"
	"logitrack/internal/domain/movements"
	"logitrack/internal/infrastructure/storage/postgres"
	"logitrack/pkg/logger"
	"logitrack/pkg/numerator"
)

const seedUser = "seed"

type baseSeed struct {
	name      string
	location  string
	commander string
}

var bases = []baseSeed{
	{"Fort Liberty", "North Carolina, USA", "BG Sarah Johnson"},
	{"Fort Campbell", "Kentucky, USA", "MG Michael Davis"},
	{"Fort Hood", "Texas, USA", "LTG Robert Smith"},
	{"Joint Base Lewis-McChord", "Washington, USA", "BG Jennifer Wilson"},
	{"Camp Pendleton", "California, USA", "COL David Brown"},
}

type equipmentSeed struct {
	name        string
	description string
	category    string
}

var equipment = []equipmentSeed{
	{"M4A1 Carbine", "Standard infantry assault rifle", "Weapons"},
	{"M249 SAW", "Squad automatic weapon", "Weapons"},
	{"M240B Machine Gun", "Medium machine gun", "Weapons"},
	{"HMMWV", "High Mobility Multipurpose Wheeled Vehicle", "Vehicles"},
	{"M1A2 Abrams", "Main battle tank", "Vehicles"},
	{"UH-60 Black Hawk", "Utility helicopter", "Aircraft"},
	{"AN/PRC-152", "Handheld radio", "Communications"},
	{"AN/PRC-117G", "Manpack radio", "Communications"},
	{"5.56mm Ammunition", "Standard rifle ammunition", "Ammunition"},
	{"7.62mm Ammunition", "Machine gun ammunition", "Ammunition"},
	{"Body Armor", "Individual protective equipment", "Personal Equipment"},
	{"ACH Helmet", "Advanced Combat Helmet", "Personal Equipment"},
	{"Night Vision Goggles", "AN/PVS-14 monocular", "Night Vision"},
	{"Thermal Imaging", "AN/PAS-13 thermal sight", "Night Vision"},
	{"Field Medical Kit", "Combat medic supplies", "Medical Equipment"},
	{"Portable Generator", "10kW tactical generator", "Support Equipment"},
}

// refs maps seed names to the ids the database assigned.
type refs struct {
	bases     map[string]int64
	equipment map[string]int64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	if cfg.DB.URL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	var ids refs
	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := seedCatalogs(ctx, txManager); err != nil {
			return err
		}
		ids, err = loadRefs(ctx, txManager)
		return err
	})
	if err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}
	log.Infow("catalogs seeded", "bases", len(ids.bases), "equipment_types", len(ids.equipment))

	if os.Getenv("SEED_DEMO_DATA") != "false" {
		if err := seedMovements(ctx, txManager, ids, log); err != nil {
			log.Fatalw("failed to seed movements", "error", err)
		}
	}

	if cfg.JWT.Secret != "" {
		printTokens(cfg.JWT, ids, log)
	}

	log.Info("seeding completed successfully")
}

func seedCatalogs(ctx context.Context, txManager *postgres.TxManager) error {
	queries := make([]postgres.BatchQuery, 0, len(bases)+len(equipment))
	for _, b := range bases {
		queries = append(queries, postgres.BatchQuery{
			SQL: `INSERT INTO bases (name, location, commander) VALUES ($1, $2, $3)
				ON CONFLICT (name) DO NOTHING`,
			Args: []any{b.name, b.location, b.commander},
		})
	}
	for _, e := range equipment {
		queries = append(queries, postgres.BatchQuery{
			SQL: `INSERT INTO equipment_types (name, description, category) VALUES ($1, $2, $3)
				ON CONFLICT (name) DO NOTHING`,
			Args: []any{e.name, e.description, e.category},
		})
	}
	return postgres.NewBatchExecutor(txManager).ExecuteBatch(ctx, queries)
}

func loadRefs(ctx context.Context, txManager *postgres.TxManager) (refs, error) {
	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	load := func(table string) (map[string]int64, error) {
		var rows []row
		if err := pgxscan.Select(ctx, txManager.GetQuerier(ctx), &rows, "SELECT id, name FROM "+table); err != nil {
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
		out := make(map[string]int64, len(rows))
		for _, r := range rows {
			out[r.Name] = r.ID
		}
		return out, nil
	}

	var ids refs
	var err error
	if ids.bases, err = load("bases"); err != nil {
		return ids, err
	}
	ids.equipment, err = load("equipment_types")
	return ids, err
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// seedMovements loads the sample ledger once; a non-empty purchases table means it already ran.
func seedMovements(ctx context.Context, txManager *postgres.TxManager, ids refs, log *logger.Logger) error {
	var existing int64
	if err := txManager.GetQuerier(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM purchases").Scan(&existing); err != nil {
		return fmt.Errorf("count purchases: %w", err)
	}
	if existing > 0 {
		log.Infow("sample movements already present, skipping", "purchases", existing)
		return nil
	}

	b := func(name string) int64 { return ids.bases[name] }
	e := func(name string) int64 { return ids.equipment[name] }

	purchases := [][]any{
		{b("Fort Liberty"), e("M4A1 Carbine"), int64(50), "Colt Manufacturing", day("2024-01-15"), seedUser},
		{b("Fort Campbell"), e("HMMWV"), int64(10), "AM General", day("2024-02-01"), seedUser},
		{b("Fort Hood"), e("5.56mm Ammunition"), int64(10000), "Federal Premium", day("2024-01-20"), seedUser},
		{b("Fort Liberty"), e("AN/PRC-152"), int64(25), "Harris Corporation", day("2024-02-10"), seedUser},
		{b("Joint Base Lewis-McChord"), e("Night Vision Goggles"), int64(100), "L3Harris", day("2024-01-25"), seedUser},
	}

	transfers := [][]any{
		{"TR-2024-0001", e("M4A1 Carbine"), int64(15), b("Fort Liberty"), b("Fort Campbell"), day("2024-02-15"), "Training exercise support", string(movements.TransferCompleted), seedUser},
		{"TR-2024-0002", e("5.56mm Ammunition"), int64(2000), b("Fort Hood"), b("Fort Liberty"), day("2024-02-20"), "Ammunition redistribution", string(movements.TransferInTransit), seedUser},
		{"TR-2024-0003", e("AN/PRC-152"), int64(10), b("Fort Campbell"), b("Joint Base Lewis-McChord"), day("2024-02-25"), "Communications upgrade", string(movements.TransferPending), seedUser},
	}

	assignments := [][]any{
		{b("Fort Liberty"), e("M4A1 Carbine"), "John Smith", "SGT", int64(1), day("2024-02-01"), string(movements.AssignmentActive), seedUser},
		{b("Fort Campbell"), e("HMMWV"), "Mike Johnson", "SSG", int64(1), day("2024-02-05"), string(movements.AssignmentActive), seedUser},
		{b("Fort Hood"), e("Night Vision Goggles"), "Sarah Davis", "CPL", int64(1), day("2024-02-10"), string(movements.AssignmentActive), seedUser},
	}

	expenditures := [][]any{
		{b("Fort Liberty"), e("5.56mm Ammunition"), int64(500), day("2024-02-18"), "Training exercise", "MAJ Wilson", seedUser},
		{b("Fort Campbell"), e("7.62mm Ammunition"), int64(200), day("2024-02-20"), "Combat operations", "LTC Brown", seedUser},
		{b("Fort Hood"), e("Field Medical Kit"), int64(10), day("2024-02-22"), "Medical training", "CPT Anderson", seedUser},
	}

	inserter := postgres.NewBatchInserter(txManager)
	numbers := numerator.NewWithResolver(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		loads := []struct {
			table   string
			columns []string
			rows    [][]any
		}{
			{"purchases", []string{"base_id", "equipment_type_id", "quantity", "vendor", "purchase_date", "created_by"}, purchases},
			{"transfers", []string{"transfer_number", "equipment_type_id", "quantity", "from_base_id", "to_base_id", "transfer_date", "reason", "status", "created_by"}, transfers},
			{"assignments", []string{"base_id", "equipment_type_id", "personnel_name", "personnel_rank", "quantity", "assignment_date", "status", "created_by"}, assignments},
			{"expenditures", []string{"base_id", "equipment_type_id", "quantity", "expenditure_date", "reason", "authorized_by", "created_by"}, expenditures},
		}
		for _, l := range loads {
			n, err := inserter.CopyFromSlice(ctx, l.table, l.columns, l.rows)
			if err != nil {
				return err
			}
			log.Infow("sample rows loaded", "table", l.table, "rows", n)
		}

		// The completed transfer already happened; stamp it so the lifecycle columns agree.
		if _, err := txManager.GetQuerier(ctx).Exec(ctx,
			`UPDATE transfers SET completed_at = NOW() WHERE status = $1 AND completed_at IS NULL`,
			string(movements.TransferCompleted),
		); err != nil {
			return fmt.Errorf("stamp completed transfers: %w", err)
		}

		return numbers.SetNextNumber(ctx, numerator.DefaultConfig(movements.TransferNumberPrefix), day("2024-01-01"), int64(len(transfers)))
	})
}

// printTokens mints one development token per role so the API can be tried right away.
func printTokens(cfg config.JWTConfig, ids refs, log *logger.Logger) {
	jwtConfig := auth.DefaultJWTConfig(cfg.Secret)
	if cfg.Issuer != "" {
		jwtConfig.Issuer = cfg.Issuer
	}
	jwtConfig.AccessTokenTTL = 24 * time.Hour
	jwtService := auth.NewJWTService(jwtConfig)

	homeBase := ids.bases["Fort Liberty"]
	identities := []auth.Identity{
		{UserID: "admin", Email: "admin@logitrack.local", Role: security.RoleAdmin},
		{UserID: "commander-1", Email: "commander@logitrack.local", Role: security.RoleBaseCommander, BaseID: &homeBase},
		{UserID: "logistics-1", Email: "logistics@logitrack.local", Role: security.RoleLogisticsOfficer, BaseID: &homeBase},
	}

	for _, id := range identities {
		token, expiresAt, err := jwtService.GenerateAccessToken(id)
		if err != nil {
			log.Warnw("failed to mint token", "role", id.Role, "error", err)
			continue
		}
		log.Infow("development token", "role", id.Role, "user_id", id.UserID, "expires_at", expiresAt)
		fmt.Printf("%s\t%s\n", id.Role, token)
	}
}

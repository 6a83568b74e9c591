package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"complaint-analytics/pkg/config"
	"complaint-analytics/pkg/constants"
	"complaint-analytics/pkg/database/postgresql"
	applogger "complaint-analytics/pkg/logger"
	"complaint-analytics/pkg/service"
	"complaint-analytics/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 Complaint analytics seeder                  ")
	log.Println("======================================================")

	runDicts := flag.Bool("dicts", false, "Seed wards, complaint types, SLA rules and branding")
	runRoster := flag.Bool("roster", false, "Seed ward officers and maintenance staff")
	demo := flag.Int("demo", 0, "Number of random demo complaints to load")
	seed := flag.Int64("seed", 42, "Random seed for demo complaints")
	runAll := flag.Bool("all", false, "Run every seeder (-dicts -roster -demo 500)")
	tokenRole := flag.String("token-role", "", "Print a development access token for this role and exit")
	tokenUser := flag.Uint64("token-user", 1, "User id of the development token")
	tokenWard := flag.Uint64("token-ward", 0, "Ward id of the development token")

	flag.Parse()

	if *tokenRole != "" {
		cfg := config.New()
		jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
		token, err := jwtSvc.GenerateToken(*tokenUser, string(constants.ParseRole(*tokenRole)), *tokenWard)
		if err != nil {
			log.Fatalf("❌ Token: %v", err)
		}
		log.Printf("🔑 %s token (valid %s):", constants.ParseRole(*tokenRole), jwtSvc.GetAccessTokenTTL())
		fmt.Println(token)
		return
	}

	if *runAll {
		*runDicts, *runRoster = true, true
		if *demo == 0 {
			*demo = 500
		}
	}
	if !*runDicts && !*runRoster && *demo == 0 {
		log.Println("❌ Nothing selected.")
		log.Println("")
		log.Println("Flags:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Examples:")
		log.Println("  go run ./seeders/cmd/seed -dicts")
		log.Println("  go run ./seeders/cmd/seed -dicts -roster -demo 1000")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("  go run ./seeders/cmd/seed -token-role ward_officer -token-user 7 -token-ward 1")
		return
	}

	ctx := context.Background()
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.Paths)
	defer logger.Sync()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(ctx, dbPool, logger); err != nil {
		log.Fatalf("❌ Migrations failed: %v", err)
	}

	// dictionaries first, the roster and complaints reference them
	if *runDicts {
		if err := seeders.SeedDictionaries(ctx, dbPool); err != nil {
			log.Fatalf("❌ Dictionaries: %v", err)
		}
	}
	if *runRoster {
		if err := seeders.SeedRoster(ctx, dbPool); err != nil {
			log.Fatalf("❌ Roster: %v", err)
		}
	}
	if *demo > 0 {
		if err := seeders.SeedDemoComplaints(ctx, dbPool, *demo, *seed); err != nil {
			log.Fatalf("❌ Demo complaints: %v", err)
		}
	}

	log.Println("✅ Seeding finished")
}

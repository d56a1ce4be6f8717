package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/dcastano/turnero/internal/infrastructure/clients/postgres"
	"github.com/dcastano/turnero/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	db := goqu.New("postgres", pgClient.DB())
	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reservations,
				schedule_entries,
				stations,
				services,
				settings
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now().UTC()

	// 1. Seed services
	services := []goqu.Record{
		{"id": uuid.New().String(), "name": "Haircut", "duration_minutes": 30, "price_cents": 2500, "loyalty_points": 10, "is_active": true, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "name": "Haircut & Beard", "duration_minutes": 45, "price_cents": 3500, "loyalty_points": 15, "is_active": true, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "name": "Beard Trim", "duration_minutes": 15, "price_cents": 1200, "loyalty_points": 5, "is_active": true, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "name": "Coloring", "duration_minutes": 90, "price_cents": 6000, "loyalty_points": 25, "is_active": true, "created_at": now, "updated_at": now},
	}
	insertRecords(ctx, db, "services", services)
	log.Printf("Seeded %d services", len(services))

	// 2. Seed stations
	staffIDs := []string{uuid.New().String(), uuid.New().String(), uuid.New().String()}
	stations := []goqu.Record{
		{"id": uuid.New().String(), "name": "Chair 1", "staff_id": staffIDs[0], "uses_generic_schedule": true, "is_active": true, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "name": "Chair 2", "staff_id": staffIDs[1], "uses_generic_schedule": true, "is_active": true, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "name": "Chair 3", "staff_id": staffIDs[2], "uses_generic_schedule": false, "is_active": true, "created_at": now, "updated_at": now},
		{"id": uuid.New().String(), "name": "Chair 4 (unstaffed)", "staff_id": nil, "uses_generic_schedule": true, "is_active": true, "created_at": now, "updated_at": now},
	}
	insertRecords(ctx, db, "stations", stations)
	log.Printf("Seeded %d stations", len(stations))

	// 3. Seed the global weekly schedule: Tuesday through Saturday, 09:00-20:00
	entries := []goqu.Record{}
	for day := time.Tuesday; day <= time.Saturday; day++ {
		entries = append(entries, goqu.Record{
			"id":          uuid.New().String(),
			"station_id":  nil,
			"kind":        "regular",
			"day_of_week": int(day),
			"start_time":  "09:00",
			"end_time":    "20:00",
			"is_active":   true,
			"created_at":  now,
			"updated_at":  now,
		})
	}

	// Chair 3 keeps its own shorter hours
	for day := time.Tuesday; day <= time.Friday; day++ {
		entries = append(entries, goqu.Record{
			"id":          uuid.New().String(),
			"station_id":  stations[2]["id"],
			"kind":        "regular",
			"day_of_week": int(day),
			"start_time":  "12:00",
			"end_time":    "18:00",
			"is_active":   true,
			"created_at":  now,
			"updated_at":  now,
		})
	}
	insertRecords(ctx, db, "schedule_entries", entries)
	log.Printf("Seeded %d schedule entries", len(entries))

	// 4. Seed settings
	settings := []goqu.Record{
		{"key": "booking.min_cancel_lead_minutes", "value": "30", "created_at": now, "updated_at": now},
	}
	insertRecords(ctx, db, "settings", settings)
	log.Printf("Seeded %d settings", len(settings))

	log.Println("Seeding complete")
}

func insertRecords(ctx context.Context, db *goqu.Database, table string, records []goqu.Record) {
	for _, record := range records {
		query, args, err := db.Insert(table).Rows(record).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build insert for %s: %v", table, err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to insert into %s: %v", table, err)
		}
	}
}

package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedCourse struct {
	id   string
	name string
	tees []seedTee
}

type seedTee struct {
	id           string
	name         string
	courseRating float64
	slopeRating  int
}

type seedPlayer struct {
	id   string
	name string
	whs  float64
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	players := []seedPlayer{
		{"player-1", "Seeder Player A", 8.4},
		{"player-2", "Seeder Player B", 14.1},
		{"player-3", "Seeder Player C", 21.7},
		{"player-4", "Seeder Player D", 30.2},
	}
	for _, p := range players {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, whs_index) VALUES (?, ?, ?)", p.id, p.name, p.whs)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	courses := []seedCourse{
		{"course-1", "Seeded Parkland", []seedTee{
			{"tee-1-y", "Yellow", 70.3, 135},
			{"tee-1-r", "Red", 68.1, 124},
		}},
		{"course-2", "Seeded Links", []seedTee{
			{"tee-2-y", "Yellow", 72.0, 142},
			{"tee-2-r", "Red", 69.4, 128},
		}},
	}
	for _, c := range courses {
		if err := seedCourseWithHoles(db, c); err != nil {
			log.Fatalf("Failed to seed course %s: %s", c.name, err)
		}
	}
	log.Info("Ensured dummy courses exist.")

	const numRounds = 500

	log.Info("Preparing to insert dummy rounds...", "total", numRounds)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	pars := holePars()
	for i := 0; i < numRounds; i++ {
		c := courses[rand.Intn(len(courses))]
		tee := c.tees[rand.Intn(len(c.tees))]
		// Spread dates so no two rounds share a (course, date) key.
		roundDate := time.Now().Add(-time.Duration(i*25+rand.Intn(20)) * time.Hour).Unix()

		roundID := uuid.NewString()
		if _, err := tx.Exec(
			"INSERT INTO rounds (id, course_id, round_date, created_at) VALUES (?, ?, ?, ?)",
			roundID, c.id, roundDate, time.Now().Unix(),
		); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert round: %s", err)
		}

		flight := players[:2+rand.Intn(3)]
		for _, p := range flight {
			if _, err := tx.Exec(`
				INSERT INTO player_rounds (round_id, player_id, whs_index, tee_id, course_rating, slope_rating, tee_type)
				VALUES (?, ?, ?, ?, ?, ?, 'FULL_18')
			`, roundID, p.id, p.whs, tee.id, tee.courseRating, tee.slopeRating); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to insert player round: %s", err)
			}

			valueStrings := make([]string, 0, 18)
			valueArgs := make([]interface{}, 0, 18*6)
			for hole := 1; hole <= 18; hole++ {
				strokes := pars[hole-1] + rand.Intn(5) - 1
				if strokes < 1 {
					strokes = 1
				}
				valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?)")
				valueArgs = append(valueArgs, roundID, p.id, hole, strokes, 1+rand.Intn(3), rand.Intn(2))
			}
			stmt := fmt.Sprintf(`
				INSERT INTO scorecards (round_id, player_id, hole_number, strokes, putts, penalties)
				VALUES %s;`, strings.Join(valueStrings, ","))
			if _, err := tx.Exec(stmt, valueArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}
		}

		if (i+1)%100 == 0 || (i+1) == numRounds {
			log.Info("Inserted rounds", "completed", i+1, "total", numRounds)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy rounds.", "duration", duration)
}

// holePars is a standard par-72 layout used for every seeded course.
func holePars() []int {
	return []int{4, 5, 3, 4, 4, 4, 4, 5, 3, 4, 5, 3, 4, 4, 4, 4, 5, 3}
}

func seedCourseWithHoles(db *sql.DB, c seedCourse) error {
	if _, err := db.Exec("INSERT OR IGNORE INTO courses (id, name) VALUES (?, ?)", c.id, c.name); err != nil {
		return err
	}
	// Shuffle stroke indexes deterministically per course so the two seeded
	// courses do not look identical.
	indexes := rand.New(rand.NewSource(int64(len(c.id)) * 7919)).Perm(18)
	pars := holePars()
	for hole := 1; hole <= 18; hole++ {
		if _, err := db.Exec(`
			INSERT OR IGNORE INTO holes (course_id, number, par, stroke_index) VALUES (?, ?, ?, ?)
		`, c.id, hole, pars[hole-1], indexes[hole-1]+1); err != nil {
			return err
		}
	}
	for _, tee := range c.tees {
		if _, err := db.Exec(`
			INSERT OR IGNORE INTO tees (id, course_id, name, course_rating, slope_rating, tee_type)
			VALUES (?, ?, ?, ?, ?, 'FULL_18')
		`, tee.id, c.id, tee.name, tee.courseRating, tee.slopeRating); err != nil {
			return err
		}
	}
	return nil
}

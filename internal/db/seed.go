package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedCity struct {
	name     string
	lat, lon float64
}

var seedCities = []seedCity{
	{"Berlin", 52.5200, 13.4050},
	{"Hamburg", 53.5511, 9.9937},
	{"Munich", 48.1351, 11.5820},
	{"Cologne", 50.9375, 6.9603},
	{"Leipzig", 51.3397, 12.3731},
}

// SeedDemoData resets the database and populates it with a demo population.
//
// Behavior:
//  1. Clears profiles, likes, profile_views, matches and age_changes.
//  2. Creates 20 profiles (10 male, 10 female) spread over a few cities,
//     each looking for the opposite gender with a plausible age range.
//  3. Generates likes with ~70% probability, forcing a reciprocal like on
//     every 3rd pair so the demo data always contains matches; the derived
//     match rows are inserted alongside.
//
// Compatible with both MySQL and SQLite.
func SeedDemoData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"matches", "likes", "profile_views", "age_changes", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	log.Println("Cleared existing data")

	// --- Seed profiles (ids 1..10 male, 11..20 female) ---
	for i := 1; i <= 20; i++ {
		gender := GenderMale
		lookingFor := LookingForFemale
		if i > 10 {
			gender = GenderFemale
			lookingFor = LookingForMale
		}

		city := seedCities[r.Intn(len(seedCities))]
		lat, lon := city.lat, city.lon
		age := 20 + r.Intn(20)

		profile := Profile{
			UserID:     uint64(i),
			Name:       fmt.Sprintf("demo%d", i),
			Age:        age,
			Gender:     gender,
			City:       city.name,
			Latitude:   &lat,
			Longitude:  &lon,
			LookingFor: lookingFor,
			MinAge:     18,
			MaxAge:     45,
			Bio:        fmt.Sprintf("Demo profile %d from %s", i, city.name),
			Active:     true,
		}

		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	log.Println("Seeded 20 profiles.")

	// --- Seed likes (and derived matches) ---
	counter := 0
	for fromID := uint64(1); fromID <= 20; fromID++ {
		for j := 0; j < 8; j++ {
			toID := uint64(r.Intn(20) + 1)
			if fromID == toID {
				continue
			}

			// keep the demo graph aligned with preferences: males like
			// females and vice versa
			if (fromID <= 10) == (toID <= 10) {
				continue
			}

			if r.Intn(100) >= 70 {
				continue
			}

			if err := insertSeedLike(db, fromID, toID); err != nil {
				return err
			}

			// guarantee a mutual like (and match) on every 3rd pair
			if counter%3 == 0 {
				if err := insertSeedLike(db, toID, fromID); err != nil {
					return err
				}
				lo, hi := fromID, toID
				if lo > hi {
					lo, hi = hi, lo
				}
				match := Match{UserLowID: lo, UserHighID: hi}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}
			}

			counter++
		}
	}

	return nil
}

func insertSeedLike(db *gorm.DB, from, to uint64) error {
	like := Like{FromUserID: from, ToUserID: to}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		return fmt.Errorf("failed to seed like: %w", err)
	}
	return nil
}

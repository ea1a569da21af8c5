package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xodiumx/foodgram/internal/models"
)

const batchSize = 500

// Loads the ingredient catalog from a CSV of "name,measurement_unit" rows
// and, optionally, the tag catalog from a CSV of "name,color,slug" rows.
// Existing rows are skipped.
func main() {
	ingredientsFile := flag.String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	tagsFile := flag.String("tags", "", "Optional CSV file with name,color,slug rows")
	wipe := flag.Bool("delete", false, "Delete existing catalog rows before loading")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *wipe {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Ingredient{}).Error; err != nil {
			log.Fatalf("Failed to delete existing ingredients: %v", err)
		}
		log.Println("Deleted existing ingredients")
	}

	importIngredients(db, *ingredientsFile)
	if *tagsFile != "" {
		importTags(db, *tagsFile)
	}
}

func importIngredients(db *gorm.DB, path string) {
	var (
		batch    []models.Ingredient
		imported int
	)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).Create(&batch)
		if result.Error != nil {
			log.Fatalf("Failed to insert ingredients: %v", result.Error)
		}
		imported += int(result.RowsAffected)
		batch = batch[:0]
	}

	forEachRecord(path, 2, func(record []string) {
		batch = append(batch, models.Ingredient{
			Name:            record[0],
			MeasurementUnit: record[1],
		})
		if len(batch) >= batchSize {
			flush()
		}
	})
	flush()

	log.Printf("Imported %d ingredients", imported)
}

func importTags(db *gorm.DB, path string) {
	imported := 0
	forEachRecord(path, 3, func(record []string) {
		tag := models.Tag{Name: record[0], Color: record[1], Slug: record[2]}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&tag)
		if result.Error != nil {
			log.Fatalf("Failed to insert tag %s: %v", tag.Slug, result.Error)
		}
		imported += int(result.RowsAffected)
	})

	log.Printf("Imported %d tags", imported)
}

func forEachRecord(path string, fields int, fn func(record []string)) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = fields

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		if record[0] == "" {
			continue
		}
		fn(record)
	}
}

// Audit scans the store for moderation-invariant violations: passages with
// more than one published translation, ratings or comparisons pointing at
// missing translations, and comparisons whose two candidates belong to
// different passages. Read-only; it reports, it never repairs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tanakh-review/api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Issue struct {
	Type    string `json:"type"`
	ID      int64  `json:"id"`
	Details string `json:"details"`
}

func main() {
	outputFile := flag.String("output", "audit_results.json", "Output file for results")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var issues []Issue
	issues = append(issues, duplicatePublished(db)...)
	issues = append(issues, danglingRatings(db)...)
	issues = append(issues, danglingComparisons(db)...)
	issues = append(issues, crossPassageComparisons(db)...)
	issues = append(issues, orphanTranslations(db)...)

	fmt.Printf("Audit complete: %d issues found\n", len(issues))
	for _, issue := range issues {
		fmt.Printf("  [%s] id=%d %s\n", issue.Type, issue.ID, issue.Details)
	}

	data, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal results: %v", err)
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
	fmt.Printf("Results written to %s\n", *outputFile)

	if len(issues) > 0 {
		os.Exit(1)
	}
}

func duplicatePublished(db *gorm.DB) []Issue {
	var rows []struct {
		PassageID int64
		Count     int64
	}
	db.Raw(`
		SELECT passage_id, COUNT(*) AS count
		FROM translations
		WHERE status = 'published'
		GROUP BY passage_id
		HAVING COUNT(*) > 1
	`).Scan(&rows)

	issues := make([]Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, Issue{
			Type:    "duplicate_published",
			ID:      row.PassageID,
			Details: fmt.Sprintf("passage has %d published translations", row.Count),
		})
	}
	return issues
}

func danglingRatings(db *gorm.DB) []Issue {
	var rows []struct {
		RatingID      int64
		TranslationID int64
	}
	db.Raw(`
		SELECT ratings.rating_id, ratings.translation_id
		FROM ratings
		LEFT JOIN translations ON ratings.translation_id = translations.translation_id
		WHERE translations.translation_id IS NULL
	`).Scan(&rows)

	issues := make([]Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, Issue{
			Type:    "dangling_rating",
			ID:      row.RatingID,
			Details: fmt.Sprintf("references missing translation %d", row.TranslationID),
		})
	}
	return issues
}

func danglingComparisons(db *gorm.DB) []Issue {
	var rows []struct {
		ComparisonID int64
	}
	db.Raw(`
		SELECT comparisons.comparison_id
		FROM comparisons
		LEFT JOIN translations t1 ON comparisons.translation_one_id = t1.translation_id
		LEFT JOIN translations t2 ON comparisons.translation_two_id = t2.translation_id
		WHERE t1.translation_id IS NULL OR t2.translation_id IS NULL
	`).Scan(&rows)

	issues := make([]Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, Issue{
			Type:    "dangling_comparison",
			ID:      row.ComparisonID,
			Details: "references a missing translation",
		})
	}
	return issues
}

func crossPassageComparisons(db *gorm.DB) []Issue {
	var rows []struct {
		ComparisonID int64
		PassageOne   int64
		PassageTwo   int64
	}
	db.Raw(`
		SELECT comparisons.comparison_id,
		       t1.passage_id AS passage_one, t2.passage_id AS passage_two
		FROM comparisons
		JOIN translations t1 ON comparisons.translation_one_id = t1.translation_id
		JOIN translations t2 ON comparisons.translation_two_id = t2.translation_id
		WHERE t1.passage_id <> t2.passage_id
	`).Scan(&rows)

	issues := make([]Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, Issue{
			Type:    "cross_passage_comparison",
			ID:      row.ComparisonID,
			Details: fmt.Sprintf("compares translations of passages %d and %d", row.PassageOne, row.PassageTwo),
		})
	}
	return issues
}

func orphanTranslations(db *gorm.DB) []Issue {
	var rows []struct {
		TranslationID int64
		PassageID     int64
	}
	db.Raw(`
		SELECT translations.translation_id, translations.passage_id
		FROM translations
		LEFT JOIN passages ON translations.passage_id = passages.passage_id
		WHERE passages.passage_id IS NULL
	`).Scan(&rows)

	issues := make([]Issue, 0, len(rows))
	for _, row := range rows {
		issues = append(issues, Issue{
			Type:    "orphan_translation",
			ID:      row.TranslationID,
			Details: fmt.Sprintf("references missing passage %d", row.PassageID),
		})
	}
	return issues
}

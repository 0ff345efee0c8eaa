package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pinlon/community_bot/internal/models"
	"github.com/pinlon/community_bot/internal/repositories"
	"github.com/pinlon/community_bot/internal/storage"
	"github.com/xuri/excelize/v2"
)

// Bulk-imports quiz questions from an xlsx workbook into the bot's snapshot
// file. Expected columns per row: Question, A, B, C, D, Answer (A-D). The
// first row of each sheet is treated as a header.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_questions <questions.xlsx>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		dataFile = "bot_data.json"
	}
	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "backups"
	}

	store := storage.NewSnapshotStore(dataFile, backupDir)
	snap, err := store.Load()
	if err != nil {
		log.Fatal("failed to load snapshot:", err)
	}
	repo := repositories.NewContentRepository()
	repo.ReplaceAll(snap)

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 6 { // Skip header or invalid rows
				continue
			}

			answer := strings.ToUpper(strings.TrimSpace(row[5]))
			if len(answer) != 1 || answer < "A" || answer > "D" {
				fmt.Printf("Invalid answer %q in row %d of %s\n", row[5], i+1, sheetName)
				continue
			}

			repo.AppendQuizzes([]models.QuizQuestion{{
				Question: strings.TrimSpace(row[0]),
				Choices: map[string]string{
					"A": strings.TrimSpace(row[1]),
					"B": strings.TrimSpace(row[2]),
					"C": strings.TrimSpace(row[3]),
					"D": strings.TrimSpace(row[4]),
				},
				Answer: answer,
			}})
			totalImported++
		}
	}

	if err := store.Save(repo.Snapshot()); err != nil {
		log.Fatal("failed to save snapshot:", err)
	}
	fmt.Printf("Successfully imported %d questions.\n", totalImported)
}

// Command import-words bulk-tracks a word list for a learner.
//
// Usage:
//
//	import-words --file words.xlsx --learner <uuid> [--language en]
//	             [--sheet Sheet1] [--column A] [--start-row 2]
//
// The file may be an .xlsx workbook or a .csv file; one word is read per
// row from the configured column. Tracking is idempotent, so re-running
// an import only adds words that are not tracked yet.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/lexloop/vocabtutor-backend/internal/app"
	"github.com/lexloop/vocabtutor-backend/internal/cache"
	"github.com/lexloop/vocabtutor-backend/internal/config"
	"github.com/lexloop/vocabtutor-backend/internal/service/study"
	"github.com/lexloop/vocabtutor-backend/pkg/ctxutil"
)

func main() {
	fileFlag := flag.String("file", "", "path to the word list (.xlsx or .csv)")
	learnerFlag := flag.String("learner", "", "learner UUID to track the words for")
	languageFlag := flag.String("language", "en", "target language code")
	sheetFlag := flag.String("sheet", "Sheet1", "worksheet name (.xlsx only)")
	columnFlag := flag.String("column", "A", "column holding the words")
	startRowFlag := flag.Int("start-row", 2, "first row to read (1-based; 2 skips a header)")
	flag.Parse()

	if *fileFlag == "" || *learnerFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	learnerID, err := uuid.Parse(*learnerFlag)
	if err != nil {
		log.Fatalf("parse learner id: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := app.OpenStorage(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	tracked, err := cache.New[string, uuid.UUID](cfg.Study.TrackCacheSize, cfg.Study.TrackCacheTTL)
	if err != nil {
		log.Fatalf("create track cache: %v", err)
	}

	svc := study.NewService(logger, store.Items, store.Reviews, store.Tx, tracked, study.Config{
		DefaultQueueLimit: cfg.Study.DefaultQueueLimit,
		MaxQueueLimit:     cfg.Study.MaxQueueLimit,
	})

	lemmas, err := readLemmas(*fileFlag, *sheetFlag, *columnFlag, *startRowFlag)
	if err != nil {
		log.Fatalf("read word list: %v", err)
	}

	ctx = ctxutil.WithLearnerID(ctx, learnerID)

	var imported, failed int
	for _, lemma := range lemmas {
		if _, err := svc.TrackWord(ctx, study.TrackWordInput{
			Lemma:    lemma,
			Language: *languageFlag,
		}); err != nil {
			failed++
			log.Printf("track %q: %v", lemma, err)
			continue
		}
		imported++
	}

	fmt.Printf("Processed %d words: %d tracked, %d failed.\n", len(lemmas), imported, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// readLemmas extracts one word per row from the given column, skipping
// blank cells.
func readLemmas(path, sheet, column string, startRow int) ([]string, error) {
	if startRow < 1 {
		return nil, errors.New("start-row must be >= 1")
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readLemmasCSV(path, column, startRow)
	}
	return readLemmasXLSX(path, sheet, column, startRow)
}

func readLemmasXLSX(path, sheet, column string, startRow int) ([]string, error) {
	col, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, fmt.Errorf("bad column %q: %w", column, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var lemmas []string
	for i, row := range rows {
		if i+1 < startRow || len(row) < col {
			continue
		}
		if lemma := strings.TrimSpace(row[col-1]); lemma != "" {
			lemmas = append(lemmas, lemma)
		}
	}
	return lemmas, nil
}

func readLemmasCSV(path, column string, startRow int) ([]string, error) {
	col, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, fmt.Errorf("bad column %q: %w", column, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var lemmas []string
	for rowNum := 1; ; rowNum++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNum, err)
		}
		if rowNum < startRow || len(record) < col {
			continue
		}
		if lemma := strings.TrimSpace(record[col-1]); lemma != "" {
			lemmas = append(lemmas, lemma)
		}
	}
	return lemmas, nil
}

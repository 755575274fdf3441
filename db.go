package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS cleaned_reviews (
		review_id       TEXT PRIMARY KEY,
		date            TEXT NOT NULL,
		week_start_date TEXT NOT NULL,
		week_end_date   TEXT NOT NULL,
		rating          INTEGER NOT NULL,
		title           TEXT DEFAULT '',
		text            TEXT NOT NULL,
		clean_text      TEXT NOT NULL,
		relevance       INTEGER DEFAULT 0,
		source          TEXT NOT NULL,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_cleaned_reviews_date ON cleaned_reviews(date);
	CREATE INDEX IF NOT EXISTS idx_cleaned_reviews_week ON cleaned_reviews(week_start_date);

	CREATE TABLE IF NOT EXISTS classifications (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		review_id           TEXT NOT NULL,
		review_theme        TEXT NOT NULL,
		sentiment           TEXT NOT NULL,
		confidence          REAL NOT NULL,
		reason              TEXT DEFAULT '',
		llm_suggested_theme TEXT,
		fallback_applied    INTEGER NOT NULL DEFAULT 0,
		llm_model           TEXT DEFAULT '',
		classified_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_classifications_review ON classifications(review_id);
	CREATE INDEX IF NOT EXISTS idx_classifications_theme ON classifications(review_theme);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

func InsertCleanedReviews(db *sql.DB, records []CleanedReview) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO cleaned_reviews
		 (review_id, date, week_start_date, week_end_date, rating, title, text, clean_text, relevance, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		if _, err := stmt.Exec(
			r.ReviewID, r.Date, r.WeekStartDate, r.WeekEndDate, r.Rating,
			r.Title, r.Text, r.CleanText, r.Relevance, r.Source,
		); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, tx.Commit()
}

func InsertClassifications(db *sql.DB, records []Classification, model string) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO classifications
		 (review_id, review_theme, sentiment, confidence, reason, llm_suggested_theme, fallback_applied, llm_model)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		suggested := sql.NullString{}
		if r.LLMSuggestedTheme != nil {
			suggested = sql.NullString{String: r.LLMSuggestedTheme.String(), Valid: true}
		}
		if _, err := stmt.Exec(
			r.ReviewID, r.ReviewTheme.String(), r.Sentiment, r.Confidence,
			r.Reason, suggested, r.FallbackApplied, model,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func GetCleanedReviewsByDateRange(db *sql.DB, from, to string) ([]CleanedReview, error) {
	rows, err := db.Query(
		`SELECT review_id, date, week_start_date, week_end_date, rating, title, text, clean_text, relevance, source
		 FROM cleaned_reviews WHERE date >= ? AND date <= ? ORDER BY date, review_id`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CleanedReview
	for rows.Next() {
		var r CleanedReview
		if err := rows.Scan(
			&r.ReviewID, &r.Date, &r.WeekStartDate, &r.WeekEndDate, &r.Rating,
			&r.Title, &r.Text, &r.CleanText, &r.Relevance, &r.Source,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func GetLatestClassificationForReview(db *sql.DB, reviewID string) (Classification, error) {
	var (
		c         Classification
		theme     string
		suggested sql.NullString
	)
	err := db.QueryRow(
		`SELECT review_id, review_theme, sentiment, confidence, reason, llm_suggested_theme, fallback_applied
		 FROM classifications WHERE review_id = ?
		 ORDER BY classified_at DESC, id DESC LIMIT 1`,
		reviewID,
	).Scan(&c.ReviewID, &theme, &c.Sentiment, &c.Confidence, &c.Reason, &suggested, &c.FallbackApplied)
	if err != nil {
		return Classification{}, err
	}

	if parsed, ok := ParseTheme(theme); ok {
		c.ReviewTheme = parsed
	}
	if suggested.Valid {
		if parsed, ok := ParseTheme(suggested.String); ok {
			t := parsed
			c.LLMSuggestedTheme = &t
		}
	}
	return c, nil
}

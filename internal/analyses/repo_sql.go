package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SQL dialects understood by SQLRepo. They match the DB_DRIVER values.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
)

// SQLRepo implements Repo on a database/sql handle. Inserts are single
// statements and never conflict, so no transaction is needed.
type SQLRepo struct {
	DB      *sql.DB
	Dialect string
	Now     func() time.Time
}

// NewSQLRepo constructs a SQLRepo for the given dialect.
func NewSQLRepo(db *sql.DB, dialect string) *SQLRepo {
	return &SQLRepo{DB: db, Dialect: dialect, Now: time.Now}
}

// Save inserts a new analysis row.
func (r *SQLRepo) Save(ctx context.Context, rec Record) (Record, error) {
	skills, err := marshalList(rec.ExtractedSkills)
	if err != nil {
		return Record{}, err
	}
	missing, err := marshalList(rec.MissingKeywords)
	if err != nil {
		return Record{}, err
	}
	rec.AnalysisDate = r.now()

	query := `
INSERT INTO analyses (
	filename, job_description, match_score, justification, extracted_skills,
	extracted_experience, extracted_education, missing_keywords, analysis_date
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		rec.Filename,
		rec.JobDescription,
		rec.MatchScore,
		rec.Justification,
		skills,
		rec.ExtractedExperience,
		rec.ExtractedEducation,
		missing,
		rec.AnalysisDate,
	}

	if r.Dialect == DialectPostgres {
		if err := r.DB.QueryRowContext(ctx, r.rebind(query+"\nRETURNING id"), args...).Scan(&rec.ID); err != nil {
			return Record{}, err
		}
		return rec, nil
	}

	res, err := r.DB.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return Record{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, err
	}
	rec.ID = id
	return rec, nil
}

// ListAll returns every analysis, newest first.
func (r *SQLRepo) ListAll(ctx context.Context) ([]Record, error) {
	const query = `
SELECT id, filename, job_description, match_score, justification, extracted_skills,
       extracted_experience, extracted_education, missing_keywords, analysis_date
FROM analyses
ORDER BY analysis_date DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		var justification sql.NullString
		var skills sql.NullString
		var experience sql.NullString
		var education sql.NullString
		var missing sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Filename,
			&rec.JobDescription,
			&rec.MatchScore,
			&justification,
			&skills,
			&experience,
			&education,
			&missing,
			&rec.AnalysisDate,
		); err != nil {
			return nil, err
		}
		rec.Justification = justification.String
		rec.ExtractedExperience = experience.String
		rec.ExtractedEducation = education.String
		if rec.ExtractedSkills, err = unmarshalList(skills); err != nil {
			return nil, fmt.Errorf("analysis %d extracted_skills: %w", rec.ID, err)
		}
		if rec.MissingKeywords, err = unmarshalList(missing); err != nil {
			return nil, fmt.Errorf("analysis %d missing_keywords: %w", rec.ID, err)
		}
		rec.AnalysisDate = rec.AnalysisDate.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// now truncates to microseconds, the finest precision every dialect keeps.
func (r *SQLRepo) now() time.Time {
	clock := r.Now
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Truncate(time.Microsecond)
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *SQLRepo) rebind(query string) string {
	if r.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return []string{}, nil
	}
	out := []string{}
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

var _ Repo = (*SQLRepo)(nil)

package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, content, template, ats_score, grammar_score, originality_score,
  job_title, target_company, target_industry, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, title, content, template, job_title, target_company, target_industry, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.Content,
		resume.Template,
		nullableString(resume.JobTitle),
		nullableString(resume.TargetCompany),
		nullableString(resume.TargetIndustry),
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, resumeID, userID))
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Summary, error) {
	const query = `
SELECT id, title, template, ats_score, grammar_score, originality_score, job_title, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		var jobTitle sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &s.Template, &s.ATSScore, &s.GrammarScore, &s.OriginalityScore, &jobTitle, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.JobTitle = jobTitle.String
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, resume Resume) (Resume, error) {
	query := `
UPDATE resumes SET
  title = $3,
  content = $4,
  template = $5,
  job_title = $6,
  target_company = $7,
  target_industry = $8,
  updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + resumeColumns
	return scanResume(r.DB.QueryRowContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.Content,
		resume.Template,
		nullableString(resume.JobTitle),
		nullableString(resume.TargetCompany),
		nullableString(resume.TargetIndustry),
	))
}

func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, resumeID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) SetScore(ctx context.Context, userID, resumeID string, field ScoreField, score int) error {
	var column string
	switch field {
	case ScoreATS:
		column = "ats_score"
	case ScoreGrammar:
		column = "grammar_score"
	case ScoreOriginality:
		column = "originality_score"
	default:
		return fmt.Errorf("unknown score field %q", field)
	}
	query := `UPDATE resumes SET ` + column + ` = $3, updated_at = now() WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, resumeID, userID, score)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResume(row *sql.Row) (Resume, error) {
	var resume Resume
	var jobTitle, company, industry sql.NullString
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.Content,
		&resume.Template,
		&resume.ATSScore,
		&resume.GrammarScore,
		&resume.OriginalityScore,
		&jobTitle,
		&company,
		&industry,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	resume.JobTitle = jobTitle.String
	resume.TargetCompany = company.String
	resume.TargetIndustry = industry.String
	return resume, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

package postgres

import (
	"commentadmin/app/comment"
	"commentadmin/domain"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const (
	commentColumns   = `id, item_id, score, create_time, idc, content, contact`
	itemColumns      = `id, item_id, release_time, item_status, create_time, item_guide_id, item_rule_id`
	itemGuideColumns = `id, item_guide_id, item_guide_name, item_guide_content, item_id`
	itemRuleColumns  = `id, item_rule_id, rule_id, content, create_time`
	ruleColumns      = `id, rule_id, rule_name`
	failureColumns   = `id, failure_name, failure_des, failure_time, idc, failure_picture`
	systemLogColumns = `id, operator, operation, log_time, idc`
)

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(host, database, user, password, port, sslMode string) *PgRepository {
	db := sqlx.MustConnect("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslMode,
	))

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

// Migrate creates the tables and indexes when they do not exist yet.
func (r *PgRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]interface{} {
	stats := r.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

func (r *PgRepository) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	var saved domain.Comment
	query := `
		INSERT INTO comments (
			item_id, score, create_time, idc, content, contact
		) VALUES (
			:item_id, :score, :create_time, :idc, :content, :contact
		) RETURNING ` + commentColumns

	rows, err := r.db.NamedQueryContext(ctx, query, c)
	if err != nil {
		return saved, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return saved, err
		}
		return saved, errors.New("insert returned no row")
	}

	err = rows.StructScan(&saved)
	return saved, err
}

func (r *PgRepository) FindComments(ctx context.Context, filter comment.CommentFilter) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)

	query := `SELECT ` + commentColumns + ` FROM comments`
	args := make([]any, 0, 3)

	if filter.Score != 0 {
		args = append(args, filter.Score)
		query += fmt.Sprintf(` WHERE score = $%d`, len(args))
	}

	query += ` ORDER BY created_at, id`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *PgRepository) CountComments(ctx context.Context, score int) (int, error) {
	var count int

	var err error
	if score == 0 {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments`)
	} else {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE score = $1`, score)
	}
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PgRepository) CountCommentsByScore(ctx context.Context) ([]domain.ScoreCount, error) {
	groups := make([]domain.ScoreCount, 0)
	query := `SELECT score, COUNT(*) AS count FROM comments GROUP BY score ORDER BY score`

	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *PgRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	var i domain.Item
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1 ORDER BY id LIMIT 1`

	return first(r.db.GetContext(ctx, &i, query, itemID), &i)
}

func (r *PgRepository) GetItemGuide(ctx context.Context, itemGuideID string) (*domain.ItemGuide, error) {
	var g domain.ItemGuide
	query := `SELECT ` + itemGuideColumns + ` FROM item_guides WHERE item_guide_id = $1 ORDER BY id LIMIT 1`

	return first(r.db.GetContext(ctx, &g, query, itemGuideID), &g)
}

func (r *PgRepository) GetItemRule(ctx context.Context, itemRuleID string) (*domain.ItemRule, error) {
	var ir domain.ItemRule
	query := `SELECT ` + itemRuleColumns + ` FROM item_rules WHERE item_rule_id = $1 ORDER BY id LIMIT 1`

	return first(r.db.GetContext(ctx, &ir, query, itemRuleID), &ir)
}

func (r *PgRepository) GetItemRuleByCreateTime(ctx context.Context, createTime string) (*domain.ItemRule, error) {
	var ir domain.ItemRule
	query := `SELECT ` + itemRuleColumns + ` FROM item_rules WHERE create_time = $1 ORDER BY id LIMIT 1`

	return first(r.db.GetContext(ctx, &ir, query, createTime), &ir)
}

func (r *PgRepository) GetRule(ctx context.Context, ruleID string) (*domain.Rule, error) {
	var rule domain.Rule
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE rule_id = $1 ORDER BY id LIMIT 1`

	return first(r.db.GetContext(ctx, &rule, query, ruleID), &rule)
}

func (r *PgRepository) CreateFailure(ctx context.Context, f domain.SystemFailure) (domain.SystemFailure, error) {
	var saved domain.SystemFailure
	query := `
		INSERT INTO system_failures (
			failure_name, failure_des, failure_time, idc, failure_picture
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING ` + failureColumns

	err := r.db.GetContext(ctx, &saved, query,
		f.FailureName, f.FailureDes, f.FailureTime, f.IDC, f.FailurePicture)

	return saved, err
}

func (r *PgRepository) GetFailures(ctx context.Context) ([]domain.SystemFailure, error) {
	failures := make([]domain.SystemFailure, 0)
	query := `SELECT ` + failureColumns + ` FROM system_failures ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &failures, query); err != nil {
		return nil, err
	}

	return failures, nil
}

func (r *PgRepository) CreateSystemLog(ctx context.Context, l domain.SystemLog) (domain.SystemLog, error) {
	var saved domain.SystemLog
	query := `
		INSERT INTO system_logs (operator, operation, log_time, idc)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + systemLogColumns

	err := r.db.GetContext(ctx, &saved, query, l.Operator, l.Operation, l.LogTime, l.IDC)
	return saved, err
}

func (r *PgRepository) GetSystemLogs(ctx context.Context) ([]domain.SystemLog, error) {
	logs := make([]domain.SystemLog, 0)
	query := `SELECT ` + systemLogColumns + ` FROM system_logs ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &logs, query); err != nil {
		return nil, err
	}

	return logs, nil
}

// first turns a single row lookup into an optional result.
func first[T any](err error, row *T) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

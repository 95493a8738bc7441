package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yola1107/kratos/v2/errors"

	"github.com/yola1107/quizpoker/internal/model"
)

var ErrQuestionNotFound = errors.NotFound("QUESTION_NOT_FOUND", "no question with this id")

// QuestionRepo is the SQLite-backed question catalogue. It also serves the
// game loop's random draws.
type QuestionRepo struct {
	data *Data
}

func NewQuestionRepo(data *Data) *QuestionRepo {
	return &QuestionRepo{data: data}
}

const questionColumns = "id, author, created_at, language, difficulty, category, question, answer, answer_unit, hints"

// Create inserts a question and returns it with the assigned id.
func (r *QuestionRepo) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	hints, err := json.Marshal(q.Hints)
	if err != nil {
		return nil, fmt.Errorf("encode hints: %w", err)
	}
	if q.CreatedAt == 0 {
		q.CreatedAt = time.Now().UnixMilli()
	}

	res, err := r.data.db.ExecContext(ctx, `
		INSERT INTO questions (author, created_at, language, difficulty, category, question, answer, answer_unit, hints)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Author, q.CreatedAt, q.Language, q.Difficulty, q.Category, q.Question, q.Answer, q.AnswerUnit, string(hints))
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	q.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns one question by id.
func (r *QuestionRepo) Get(ctx context.Context, id int64) (*model.Question, error) {
	row := r.data.db.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id = ?", id)
	return scanQuestion(row)
}

// Update overwrites an existing question.
func (r *QuestionRepo) Update(ctx context.Context, q *model.Question) error {
	hints, err := json.Marshal(q.Hints)
	if err != nil {
		return fmt.Errorf("encode hints: %w", err)
	}

	res, err := r.data.db.ExecContext(ctx, `
		UPDATE questions
		SET author = ?, language = ?, difficulty = ?, category = ?, question = ?, answer = ?, answer_unit = ?, hints = ?
		WHERE id = ?`,
		q.Author, q.Language, q.Difficulty, q.Category, q.Question, q.Answer, q.AnswerUnit, string(hints), q.ID)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// Delete removes a question by id.
func (r *QuestionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.data.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// List returns the whole catalogue, newest first.
func (r *QuestionRepo) List(ctx context.Context) ([]*model.Question, error) {
	rows, err := r.data.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM questions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// QueryRandom draws up to query.Amount random questions matching the
// filters. Empty filter lists match everything.
func (r *QuestionRepo) QueryRandom(ctx context.Context, query *model.QuestionQuery) ([]*model.Question, error) {
	query.Normalize()

	var (
		where []string
		args  []any
	)
	if len(query.Languages) > 0 {
		where = append(where, "language IN ("+placeholders(len(query.Languages))+")")
		for _, l := range query.Languages {
			args = append(args, string(l))
		}
	}
	if len(query.Difficulties) > 0 {
		where = append(where, "difficulty IN ("+placeholders(len(query.Difficulties))+")")
		for _, d := range query.Difficulties {
			args = append(args, string(d))
		}
	}
	if len(query.Categories) > 0 {
		where = append(where, "category IN ("+placeholders(len(query.Categories))+")")
		for _, c := range query.Categories {
			args = append(args, string(c))
		}
	}

	q := "SELECT " + questionColumns + " FROM questions"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY RANDOM() LIMIT ?"
	args = append(args, query.Amount)

	rows, err := r.data.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// Query implements logic.QuestionRepo.
func (r *QuestionRepo) Query(query *model.QuestionQuery) ([]*model.Question, error) {
	return r.QueryRandom(context.Background(), query)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*model.Question, error) {
	var (
		q     model.Question
		hints string
	)
	err := row.Scan(&q.ID, &q.Author, &q.CreatedAt, &q.Language, &q.Difficulty,
		&q.Category, &q.Question, &q.Answer, &q.AnswerUnit, &hints)
	if err == sql.ErrNoRows {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal([]byte(hints), &q.Hints); err != nil {
		return nil, fmt.Errorf("decode hints: %w", err)
	}
	return &q, nil
}

func scanQuestions(rows *sql.Rows) ([]*model.Question, error) {
	var out []*model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

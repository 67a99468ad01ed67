package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/document"
)

type documentRow struct {
	ID           string       `db:"id"`
	Type         string       `db:"type"`
	Title        string       `db:"title"`
	Description  string       `db:"description"`
	Term         int          `db:"term"`
	FileURL      string       `db:"file_url"`
	ThumbnailURL string       `db:"thumbnail_url"`
	EventDate    sql.NullTime `db:"event_date"`
	CreatedBy    string       `db:"created_by"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

var documentColumns = []string{
	"id", "type", "title", "description", "term", "file_url", "thumbnail_url",
	"event_date", "created_by", "created_at", "updated_at",
}

func (r documentRow) toDocument() document.Document {
	doc := document.Document{
		ID:           r.ID,
		Type:         r.Type,
		Title:        r.Title,
		Description:  r.Description,
		Term:         r.Term,
		FileURL:      r.FileURL,
		ThumbnailURL: r.ThumbnailURL,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.EventDate.Valid {
		eventDate := r.EventDate.Time
		doc.EventDate = &eventDate
	}
	return doc
}

type documentRepository struct {
	exec core.DBExecutor
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(exec core.DBExecutor) *documentRepository {
	return &documentRepository{exec: exec}
}

// trapNoRowsErr maps psql "no rows" err to document.ErrNotFound
func (repo documentRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return document.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo documentRepository) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	doc.ID = uuid.New().String()
	var eventDate sql.NullTime
	if doc.EventDate != nil {
		eventDate = sql.NullTime{Time: doc.EventDate.UTC(), Valid: true}
	}
	query, args, err := psql.Insert("document").Columns(documentColumns...).
		Values(doc.ID, doc.Type, doc.Title, doc.Description, doc.Term, doc.FileURL,
			doc.ThumbnailURL, eventDate, doc.CreatedBy, doc.CreatedAt.UTC(), doc.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return document.Document{}, errors.Wrap(err, "building document insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return document.Document{}, errors.Wrap(err, "inserting document")
	}
	return doc, nil
}

func (repo documentRepository) GetDocumentByID(ctx context.Context, id string) (document.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return document.Document{}, document.ErrNotFound
	}
	query, args, err := psql.Select(documentColumns...).From("document").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return document.Document{}, errors.Wrap(err, "building document select")
	}
	var row documentRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, query, args...); err != nil {
		return document.Document{}, repo.trapNoRowsErr(err, "finding document")
	}
	return row.toDocument(), nil
}

func (repo documentRepository) QueryDocumentsByType(ctx context.Context, docType string) ([]document.Document, error) {
	query, args, err := psql.Select(documentColumns...).From("document").
		Where(sq.Eq{"type": docType}).OrderBy("updated_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building document query")
	}
	var rows []documentRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying documents")
	}
	return repo.toDocuments(rows), nil
}

func (repo documentRepository) FilterDocuments(ctx context.Context, filter document.QueryFilter) ([]document.Document, int, error) {
	var conds []sq.Sqlizer
	if filter.Type != "" {
		conds = append(conds, sq.Eq{"type": filter.Type})
	}
	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		conds = append(conds, sq.Or{sq.ILike{"title": val}, sq.ILike{"description": val}})
	}

	countQ := psql.Select("COUNT(*)").From("document")
	listQ := psql.Select(documentColumns...).From("document")
	for _, cond := range conds {
		countQ = countQ.Where(cond)
		listQ = listQ.Where(cond)
	}

	query, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building document count")
	}
	var total int
	if err = sqlx.GetContext(ctx, repo.exec, &total, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting documents")
	}

	offset := uint64((filter.Page - 1) * filter.Limit)
	query, args, err = listQ.OrderBy("updated_at DESC").
		Limit(uint64(filter.Limit)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building document query")
	}
	var rows []documentRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying documents")
	}
	return repo.toDocuments(rows), total, nil
}

func (repo documentRepository) toDocuments(rows []documentRow) []document.Document {
	docs := make([]document.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDocument())
	}
	return docs
}

func (repo documentRepository) UpdateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	var eventDate sql.NullTime
	if doc.EventDate != nil {
		eventDate = sql.NullTime{Time: doc.EventDate.UTC(), Valid: true}
	}
	query, args, err := psql.Update("document").
		Set("type", doc.Type).
		Set("title", doc.Title).
		Set("description", doc.Description).
		Set("term", doc.Term).
		Set("file_url", doc.FileURL).
		Set("thumbnail_url", doc.ThumbnailURL).
		Set("event_date", eventDate).
		Set("updated_at", doc.UpdatedAt.UTC()).
		Where(sq.Eq{"id": doc.ID}).ToSql()
	if err != nil {
		return document.Document{}, errors.Wrap(err, "building document update")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return document.Document{}, errors.Wrap(err, "updating document")
	}
	return doc, nil
}

func (repo documentRepository) DeleteDocument(ctx context.Context, id string) error {
	query, args, err := psql.Delete("document").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building document delete")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting document")
	}
	return nil
}

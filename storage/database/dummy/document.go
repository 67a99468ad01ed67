package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/campushq/campus/core/document"
)

type documentRepository struct {
	db *documentTable
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) document.Repository {
	return &documentRepository{db: db.document}
}

func (repo *documentRepository) query() []document.Document {
	docs := make([]document.Document, 0, len(repo.db.table))
	for _, doc := range repo.db.table {
		docs = append(docs, *doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UpdatedAt.After(docs[j].UpdatedAt) })
	return docs
}

func (repo *documentRepository) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	doc.ID = uuid.New().String()
	repo.db.table[doc.ID] = &doc
	return doc, nil
}

func (repo *documentRepository) GetDocumentByID(ctx context.Context, id string) (document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.table[id]; ok {
		return *doc, nil
	}
	return document.Document{}, document.ErrNotFound
}

func (repo *documentRepository) QueryDocumentsByType(ctx context.Context, docType string) ([]document.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]document.Document, 0)
	for _, doc := range repo.query() {
		if doc.Type == docType {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (repo *documentRepository) FilterDocuments(ctx context.Context, filter document.QueryFilter) ([]document.Document, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]document.Document, 0)
	search := strings.ToLower(filter.Search)
	for _, doc := range repo.query() {
		if filter.Type != "" && doc.Type != filter.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(doc.Title), search) &&
			!strings.Contains(strings.ToLower(doc.Description), search) {
			continue
		}
		matches = append(matches, doc)
	}

	total := len(matches)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []document.Document{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func (repo *documentRepository) UpdateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[doc.ID]; !ok {
		return document.Document{}, document.ErrNotFound
	}
	repo.db.table[doc.ID] = &doc
	return doc, nil
}

func (repo *documentRepository) DeleteDocument(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}

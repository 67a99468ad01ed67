package document

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campushq/campus/core"
)

type (
	Repository interface {
		CreateDocument(ctx context.Context, doc Document) (Document, error)
		GetDocumentByID(ctx context.Context, id string) (Document, error)
		// QueryDocumentsByType returns documents of a type, most recently updated first.
		QueryDocumentsByType(ctx context.Context, docType string) ([]Document, error)
		// FilterDocuments applies QueryFilter and returns the matching page plus the total count.
		FilterDocuments(ctx context.Context, filter QueryFilter) ([]Document, int, error)
		UpdateDocument(ctx context.Context, doc Document) (Document, error)
		DeleteDocument(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Add(ctx context.Context, nd NewDocument, createdBy string) (Document, error) {
	now := time.Now().UTC()
	return svc.repo.CreateDocument(ctx, Document{
		Type:         nd.Type,
		Title:        core.CleanString(nd.Title),
		Description:  nd.Description,
		Term:         nd.Term,
		FileURL:      nd.FileURL,
		ThumbnailURL: nd.ThumbnailURL,
		EventDate:    nd.EventDate,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Document, error) {
	return svc.repo.GetDocumentByID(ctx, id)
}

func (svc *Service) QueryByType(ctx context.Context, docType string) ([]Document, error) {
	return svc.repo.QueryDocumentsByType(ctx, docType)
}

// Filter returns a page of documents matching the filter.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) (Page, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	items, total, err := svc.repo.FilterDocuments(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	pages := (total + filter.Limit - 1) / filter.Limit
	return Page{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Pages: pages,
	}, nil
}

func (svc *Service) Update(ctx context.Context, id string, ud UpdateDocument) (Document, error) {
	doc, err := svc.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if ud.Type != "" {
		doc.Type = ud.Type
	}
	if ud.Title != "" {
		doc.Title = core.CleanString(ud.Title)
	}
	if ud.Description != "" {
		doc.Description = ud.Description
	}
	if ud.Term != 0 {
		doc.Term = ud.Term
	}
	if ud.FileURL != "" {
		doc.FileURL = ud.FileURL
	}
	if ud.ThumbnailURL != "" {
		doc.ThumbnailURL = ud.ThumbnailURL
	}
	if ud.EventDate != nil {
		doc.EventDate = ud.EventDate
	}
	doc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateDocument(ctx, doc)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetDocumentByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteDocument(ctx, id)
}

func (nd NewDocument) Validate(validate *validator.Validate) error {
	return validate.Struct(nd)
}

func (ud UpdateDocument) Validate(validate *validator.Validate) error {
	return validate.Struct(ud)
}

package service

import (
	"context"
	"fmt"

	"github.com/testsdaw/backend/internal/domain/question"
	"github.com/testsdaw/backend/internal/store"
)

// CatalogService lists the subjects and topics available for practice.
type CatalogService struct {
	store store.Store
}

func NewCatalogService(s store.Store) *CatalogService {
	return &CatalogService{store: s}
}

func (c *CatalogService) Subjects(ctx context.Context) ([]question.Subject, error) {
	return c.store.ListSubjects(ctx)
}

func (c *CatalogService) Topics(ctx context.Context, subjectCode string) ([]question.Topic, error) {
	code := question.NormalizeSubject(subjectCode)
	if code == "" {
		return nil, fmt.Errorf("%w: subjectCode is required", ErrInvalidFilter)
	}
	return c.store.ListTopics(ctx, code)
}

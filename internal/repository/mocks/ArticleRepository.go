package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jamal-o/blog-api/internal/domain"
)

// ArticleRepository is a testify mock of repository.ArticleRepository.
type ArticleRepository struct {
	mock.Mock
}

func (m *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *ArticleRepository) List(ctx context.Context, query domain.ArticleQuery) ([]domain.Article, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Article), args.Error(1)
}

func (m *ArticleRepository) IncrementReadCount(ctx context.Context, id uint) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *ArticleRepository) UpdateOwned(ctx context.Context, id, authorID uint, changes domain.ArticleChanges) (*domain.Article, error) {
	args := m.Called(ctx, id, authorID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *ArticleRepository) DeleteOwned(ctx context.Context, id, authorID uint) error {
	args := m.Called(ctx, id, authorID)
	return args.Error(0)
}

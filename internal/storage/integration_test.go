//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bilgisen/visacms/internal/models"
)

type StoreIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	store     *Store
}

func (s *StoreIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	store, err := Open(s.ctx, connStr, Options{MaxOpenConns: 4})
	s.Require().NoError(err)
	s.store = store

	s.Require().NoError(s.store.Init(s.ctx))
}

func (s *StoreIntegrationSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *StoreIntegrationSuite) SetupTest() {
	_, _ = s.store.db.ExecContext(s.ctx, "DELETE FROM news")
	_, _ = s.store.db.ExecContext(s.ctx, "DELETE FROM visas")
}

func TestStoreIntegrationSuite(t *testing.T) {
	suite.Run(t, new(StoreIntegrationSuite))
}

func (s *StoreIntegrationSuite) TestInitTwice() {
	s.NoError(s.store.Init(s.ctx))
	s.NoError(s.store.Init(s.ctx))
}

func (s *StoreIntegrationSuite) TestNewsLifecycle() {
	created, err := s.store.CreateNews(s.ctx, &models.News{Title: "Test", Content: "Hello"})
	s.Require().NoError(err)
	s.Equal("test", created.Slug)
	s.False(created.CreatedAt.IsZero())

	items, err := s.store.ListNews(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("test", items[0].Slug)

	updated, err := s.store.UpdateNews(s.ctx, &models.News{Slug: "test", Title: "Test2", Content: "Hello"})
	s.Require().NoError(err)
	s.Equal("test", updated.Slug)
	s.Equal("Test2", updated.Title)
	s.Equal(created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = s.store.DeleteNews(s.ctx, "test")
	s.Require().NoError(err)

	items, err = s.store.ListNews(s.ctx)
	s.Require().NoError(err)
	s.Empty(items)

	_, err = s.store.DeleteNews(s.ctx, "test")
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *StoreIntegrationSuite) TestNewsDuplicateTitle() {
	_, err := s.store.CreateNews(s.ctx, &models.News{Title: "Test", Content: "Hello"})
	s.Require().NoError(err)

	_, err = s.store.CreateNews(s.ctx, &models.News{Title: "test!", Content: "Again"})
	s.ErrorIs(err, models.ErrConflict)
}

func (s *StoreIntegrationSuite) TestNewsValidationLeavesTableUnchanged() {
	_, err := s.store.CreateNews(s.ctx, &models.News{Title: " ", Content: "Hello"})
	s.True(models.IsValidation(err))

	items, err := s.store.ListNews(s.ctx)
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *StoreIntegrationSuite) TestNullColumnsScan() {
	_, err := s.store.db.ExecContext(s.ctx, `INSERT INTO news (title, slug) VALUES ('Legacy', 'legacy')`)
	s.Require().NoError(err)

	items, err := s.store.ListNews(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("", items[0].Content)
}

func (s *StoreIntegrationSuite) TestVisaSlugCollision() {
	first, err := s.store.CreateVisa(s.ctx, &models.Visa{Name: "Work Permit"})
	s.Require().NoError(err)
	s.Equal("work-permit", first.Slug)

	second, err := s.store.CreateVisa(s.ctx, &models.Visa{Name: "Work Permit"})
	s.Require().NoError(err)
	s.NotEqual(first.Slug, second.Slug)
	s.Regexp(`^work-permit-[0-9a-f]{8}$`, second.Slug)

	visas, err := s.store.ListVisas(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(visas, 2)
	s.Equal(first.Slug, visas[0].Slug)
}

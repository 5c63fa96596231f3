package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo   domain.CategoryRepository
	snapshots      *SnapshotService
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, snapshots *SnapshotService) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, snapshots: snapshots}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CategoryService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// GetCategories returns the categories of txType (all when empty), ordered by name
func (s *CategoryService) GetCategories(txType domain.TransactionType) []*domain.Category {
	var out []*domain.Category
	for _, c := range s.snapshots.Current().Categories {
		if txType == "" || c.Type == txType {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Category) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, draft *domain.CategoryDraft) (*domain.Category, error) {
	if err := draft.Normalize(); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, draft)
	if err != nil {
		log.Error().Err(err).Str("name", draft.Name).Msg("Failed to create category")
		return nil, domain.WrapStoreError("create category", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithCategory(category)
	})

	log.Info().Int32("category_id", category.ID).Str("type", string(category.Type)).Msg("Category created")
	s.publishEvent(websocket.CategoryCreated(category).WithVersion(version))
	return category, nil
}

// DeleteCategory removes a category that no transaction references. The
// reference count comes from the store, not the snapshot.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int32) error {
	if _, ok := s.snapshots.Current().Category(id); !ok {
		return domain.ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountTransactions(ctx, id)
	if err != nil {
		log.Error().Err(err).Int32("category_id", id).Msg("Failed to count category transactions")
		return domain.WrapStoreError("count category transactions", err)
	}
	if count > 0 {
		return &domain.ReferentialError{Resource: "category", ID: id, References: count}
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if !isNotFound(err) {
			log.Error().Err(err).Int32("category_id", id).Msg("Failed to delete category")
		}
		return domain.WrapStoreError("delete category", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithoutCategory(id)
	})

	log.Info().Int32("category_id", id).Msg("Category deleted")
	s.publishEvent(websocket.CategoryDeleted(map[string]interface{}{"id": id}).WithVersion(version))
	return nil
}

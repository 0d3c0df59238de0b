package graph

import (
	"context"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

const (
	maxEntityNameLength        = 100
	maxEntityDescriptionLength = 1000
)

// EntityService owns entity CRUD and the rules around it: per-owner name
// uniqueness and the dependent-row cleanup when an entity is removed.
type EntityService struct {
	store store.Store
}

func NewEntityService(s store.Store) *EntityService {
	return &EntityService{store: s}
}

// CreateEntityInput carries the fields for a new entity. Description is
// optional; Type must be one of the known entity types.
type CreateEntityInput struct {
	Name        string
	Type        common.EntityType
	Description string
}

func (s *EntityService) Create(ctx context.Context, ownerID string, input CreateEntityInput) (common.Entity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxEntityNameLength {
		return common.Entity{}, common.Validation("Entity name must be between 1 and 100 characters")
	}
	if !common.ValidEntityType(input.Type) {
		return common.Entity{}, common.Validation("Unknown entity type")
	}
	if len(input.Description) > maxEntityDescriptionLength {
		return common.Entity{}, common.Validation("Entity description must be at most 1000 characters")
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.Entity{}, err
	}

	return s.store.InsertEntity(ctx, common.Entity{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		Type:        input.Type,
		Description: input.Description,
	})
}

func (s *EntityService) GetByID(ctx context.Context, ownerID, id string) (common.Entity, error) {
	return s.store.GetEntityByID(ctx, ownerID, id)
}

// List returns the owner's entities with their read-time note counts.
func (s *EntityService) List(ctx context.Context, ownerID string) ([]common.EntityWithNoteCount, error) {
	return s.store.ListEntities(ctx, ownerID)
}

func (s *EntityService) FindByName(ctx context.Context, ownerID, name string) (common.Entity, error) {
	return s.store.FindEntityByName(ctx, ownerID, name)
}

// UpdateEntityInput carries a partial entity update. Nil fields are left
// untouched.
type UpdateEntityInput struct {
	Name        *string
	Type        *common.EntityType
	Description *string
}

func (s *EntityService) Update(ctx context.Context, ownerID, id string, input UpdateEntityInput) (common.Entity, error) {
	patch := store.EntityPatch{Type: input.Type, Description: input.Description}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxEntityNameLength {
			return common.Entity{}, common.Validation("Entity name must be between 1 and 100 characters")
		}
		patch.Name = &name
	}
	if input.Type != nil && !common.ValidEntityType(*input.Type) {
		return common.Entity{}, common.Validation("Unknown entity type")
	}
	if input.Description != nil && len(*input.Description) > maxEntityDescriptionLength {
		return common.Entity{}, common.Validation("Entity description must be at most 1000 characters")
	}

	return s.store.UpdateEntity(ctx, ownerID, id, patch)
}

// Delete removes the entity together with its relationships and note links.
// The storage layer has no foreign-key cascades, so dependents go first;
// the ownership check runs before anything is touched.
func (s *EntityService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.store.GetEntityByID(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.DeleteRelationshipsForEntity(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.DeleteLinksForEntity(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteEntity(ctx, ownerID, id)
}

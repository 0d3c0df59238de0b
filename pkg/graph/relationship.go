package graph

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

// RelationshipService owns the directed entity-to-entity edges: no
// self-loops, both endpoints owned by the caller, one edge per ordered
// pair.
type RelationshipService struct {
	store store.Store
}

func NewRelationshipService(s store.Store) *RelationshipService {
	return &RelationshipService{store: s}
}

func (s *RelationshipService) Create(ctx context.Context, ownerID, sourceID, targetID string, relType common.RelationType) (common.Relationship, error) {
	if !common.ValidRelationType(relType) {
		return common.Relationship{}, common.Validation("Unknown relationship type")
	}
	if sourceID == targetID {
		return common.Relationship{}, common.InvalidOperation("A relationship cannot connect an entity to itself")
	}

	// Both endpoints are checked in one batched lookup so there is no gap
	// between the two existence checks.
	entities, err := s.store.GetEntitiesByIDs(ctx, ownerID, []string{sourceID, targetID})
	if err != nil {
		return common.Relationship{}, err
	}
	if len(entities) != 2 {
		return common.Relationship{}, common.NotFound("One or more entities not found or do not belong to the user")
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.Relationship{}, err
	}

	return s.store.InsertRelationship(ctx, common.Relationship{
		ID:       id,
		OwnerID:  ownerID,
		SourceID: sourceID,
		TargetID: targetID,
		Type:     relType,
	})
}

// Update changes the edge type only; endpoints are immutable.
func (s *RelationshipService) Update(ctx context.Context, ownerID, id string, relType common.RelationType) (common.Relationship, error) {
	if !common.ValidRelationType(relType) {
		return common.Relationship{}, common.Validation("Unknown relationship type")
	}
	return s.store.UpdateRelationshipType(ctx, ownerID, id, relType)
}

func (s *RelationshipService) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteRelationship(ctx, ownerID, id)
}

func (s *RelationshipService) List(ctx context.Context, ownerID string, filter store.RelationshipFilter) ([]common.Relationship, error) {
	if filter.Type != "" && !common.ValidRelationType(filter.Type) {
		return nil, common.Validation("Unknown relationship type")
	}
	return s.store.ListRelationships(ctx, ownerID, filter)
}

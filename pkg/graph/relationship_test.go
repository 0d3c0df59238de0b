package graph

import (
	"context"
	"testing"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
	"github.com/lattice-hq/lattice/backend/pkg/store/memory"
)

func newTestRelationshipSetup(t *testing.T) (*EntityService, *RelationshipService, common.Entity, common.Entity) {
	t.Helper()
	st := memory.NewStore()
	entities := NewEntityService(st)
	relationships := NewRelationshipService(st)
	ctx := context.Background()

	plato, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}
	aristotle, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Aristotle", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}
	return entities, relationships, plato, aristotle
}

func TestCreateRelationship(t *testing.T) {
	_, relationships, plato, aristotle := newTestRelationshipSetup(t)
	ctx := context.Background()

	rel, err := relationships.Create(ctx, "user1", plato.ID, aristotle.ID, common.RelationInfluenced)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rel.SourceID != plato.ID || rel.TargetID != aristotle.ID {
		t.Fatalf("unexpected endpoints: %s -> %s", rel.SourceID, rel.TargetID)
	}
	if rel.Type != common.RelationInfluenced {
		t.Fatalf("unexpected type %q", rel.Type)
	}

	// Same ordered pair again conflicts.
	_, err = relationships.Create(ctx, "user1", plato.ID, aristotle.ID, common.RelationCreated)
	if !common.IsKind(err, common.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// The reverse direction is a distinct edge.
	if _, err := relationships.Create(ctx, "user1", aristotle.ID, plato.ID, common.RelationInfluenced); err != nil {
		t.Fatalf("reverse edge failed: %v", err)
	}
}

func TestCreateRelationshipSelfLoop(t *testing.T) {
	_, relationships, plato, _ := newTestRelationshipSetup(t)

	_, err := relationships.Create(context.Background(), "user1", plato.ID, plato.ID, common.RelationIsRelatedTo)
	if !common.IsKind(err, common.KindInvalidOperation) {
		t.Fatalf("expected invalid operation, got %v", err)
	}
}

func TestCreateRelationshipUnknownType(t *testing.T) {
	_, relationships, plato, aristotle := newTestRelationshipSetup(t)

	_, err := relationships.Create(context.Background(), "user1", plato.ID, aristotle.ID, "married_to")
	if !common.IsKind(err, common.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRelationshipMissingEntity(t *testing.T) {
	_, relationships, plato, aristotle := newTestRelationshipSetup(t)
	ctx := context.Background()

	_, err := relationships.Create(ctx, "user1", plato.ID, "missing", common.RelationIsRelatedTo)
	if !common.IsKind(err, common.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// Entities of another owner are treated as missing.
	_, err = relationships.Create(ctx, "user2", plato.ID, aristotle.ID, common.RelationIsRelatedTo)
	if !common.IsKind(err, common.KindNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
}

func TestUpdateRelationshipType(t *testing.T) {
	_, relationships, plato, aristotle := newTestRelationshipSetup(t)
	ctx := context.Background()

	rel, err := relationships.Create(ctx, "user1", plato.ID, aristotle.ID, common.RelationIsRelatedTo)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := relationships.Update(ctx, "user1", rel.ID, common.RelationInfluenced)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Type != common.RelationInfluenced {
		t.Fatalf("expected updated type, got %q", updated.Type)
	}
	if updated.SourceID != plato.ID || updated.TargetID != aristotle.ID {
		t.Fatal("endpoints must not change on update")
	}

	if _, err := relationships.Update(ctx, "user1", rel.ID, "bogus"); !common.IsKind(err, common.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRelationshipsFilter(t *testing.T) {
	entities, relationships, plato, aristotle := newTestRelationshipSetup(t)
	ctx := context.Background()

	stoa, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Stoa", Type: common.EntitySchool})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}
	if _, err := relationships.Create(ctx, "user1", plato.ID, aristotle.ID, common.RelationInfluenced); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := relationships.Create(ctx, "user1", plato.ID, stoa.ID, common.RelationOpposes); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	all, err := relationships.List(ctx, "user1", store.RelationshipFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 relationships, got %d", len(all))
	}

	influenced, err := relationships.List(ctx, "user1", store.RelationshipFilter{Type: common.RelationInfluenced})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(influenced) != 1 || influenced[0].TargetID != aristotle.ID {
		t.Fatalf("unexpected filter result: %+v", influenced)
	}

	if _, err := relationships.List(ctx, "user1", store.RelationshipFilter{Type: "bogus"}); !common.IsKind(err, common.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	foreign, err := relationships.List(ctx, "user2", store.RelationshipFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("owners must not see each other's relationships, got %d", len(foreign))
	}
}

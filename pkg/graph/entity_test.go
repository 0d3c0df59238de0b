package graph

import (
	"context"
	"testing"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
	"github.com/lattice-hq/lattice/backend/pkg/store/memory"
)

func newTestEntityService() *EntityService {
	return NewEntityService(memory.NewStore())
}

func TestCreateEntityValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateEntityInput
		kind  common.ErrorKind
	}{
		{
			name:  "empty name",
			input: CreateEntityInput{Name: "   ", Type: common.EntityPerson},
			kind:  common.KindValidation,
		},
		{
			name:  "name too long",
			input: CreateEntityInput{Name: string(make([]byte, 101)), Type: common.EntityPerson},
			kind:  common.KindValidation,
		},
		{
			name:  "unknown type",
			input: CreateEntityInput{Name: "Plato", Type: "planet"},
			kind:  common.KindValidation,
		},
		{
			name: "description too long",
			input: CreateEntityInput{
				Name:        "Plato",
				Type:        common.EntityPerson,
				Description: string(make([]byte, 1001)),
			},
			kind: common.KindValidation,
		},
	}

	svc := newTestEntityService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user1", tt.input)
			if !common.IsKind(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
		})
	}
}

func TestCreateEntityTrimsName(t *testing.T) {
	svc := newTestEntityService()

	entity, err := svc.Create(context.Background(), "user1", CreateEntityInput{
		Name: "  Plato  ",
		Type: common.EntityPerson,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if entity.Name != "Plato" {
		t.Fatalf("expected trimmed name, got %q", entity.Name)
	}
	if entity.ID == "" {
		t.Fatal("expected a generated id")
	}
}

func TestCreateEntityDuplicateName(t *testing.T) {
	svc := newTestEntityService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := svc.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityIdea})
	if !common.IsKind(err, common.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// A different owner can reuse the name.
	if _, err := svc.Create(ctx, "user2", CreateEntityInput{Name: "Plato", Type: common.EntityPerson}); err != nil {
		t.Fatalf("create for second owner failed: %v", err)
	}
}

func TestUpdateEntityOwnership(t *testing.T) {
	svc := newTestEntityService()
	ctx := context.Background()

	entity, err := svc.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Aristotle"
	_, err = svc.Update(ctx, "user2", entity.ID, UpdateEntityInput{Name: &name})
	if !common.IsKind(err, common.KindNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}

	updated, err := svc.Update(ctx, "user1", entity.ID, UpdateEntityInput{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Aristotle" {
		t.Fatalf("expected renamed entity, got %q", updated.Name)
	}
	if updated.Type != common.EntityPerson {
		t.Fatalf("type should be unchanged, got %q", updated.Type)
	}
}

func TestDeleteEntityCascades(t *testing.T) {
	st := memory.NewStore()
	entities := NewEntityService(st)
	relationships := NewRelationshipService(st)
	notes := NewNoteService(st)
	ctx := context.Background()

	plato, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	aristotle, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Aristotle", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := relationships.Create(ctx, "user1", plato.ID, aristotle.ID, common.RelationInfluenced); err != nil {
		t.Fatalf("create relationship failed: %v", err)
	}
	note, err := notes.Create(ctx, "user1", CreateNoteInput{
		Title:       "The Academy",
		Content:     "Founded by Plato.",
		EntityLinks: []EntityLinkInput{{EntityID: plato.ID}},
	})
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}

	if err := entities.Delete(ctx, "user1", plato.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := entities.GetByID(ctx, "user1", plato.ID); !common.IsKind(err, common.KindNotFound) {
		t.Fatalf("entity should be gone, got %v", err)
	}
	rels, err := relationships.List(ctx, "user1", store.RelationshipFilter{SourceID: plato.ID})
	if err != nil {
		t.Fatalf("list relationships failed: %v", err)
	}
	if len(rels) != 0 {
		t.Fatalf("expected no relationships left, got %d", len(rels))
	}
	got, err := notes.GetByID(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("get note failed: %v", err)
	}
	if len(got.Links) != 0 {
		t.Fatalf("expected note links removed, got %d", len(got.Links))
	}
	// The other endpoint survives.
	if _, err := entities.GetByID(ctx, "user1", aristotle.ID); err != nil {
		t.Fatalf("surviving entity lookup failed: %v", err)
	}
}

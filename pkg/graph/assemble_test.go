package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store/memory"
)

func TestAssembleGraph(t *testing.T) {
	st := memory.NewStore()
	entities := NewEntityService(st)
	relationships := NewRelationshipService(st)
	notes := NewNoteService(st)
	assembler := NewGraphAssembler(st)
	ctx := context.Background()

	plato, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}
	aristotle, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Aristotle", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}
	if _, err := relationships.Create(ctx, "user1", plato.ID, aristotle.ID, common.RelationInfluenced); err != nil {
		t.Fatalf("create relationship failed: %v", err)
	}
	note, err := notes.Create(ctx, "user1", CreateNoteInput{
		Title:       "The Academy",
		EntityLinks: []EntityLinkInput{{EntityID: plato.ID, Type: common.RelationCreated}},
	})
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}

	view, err := assembler.Assemble(ctx, "user1")
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	if len(view.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(view.Nodes))
	}
	if len(view.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(view.Edges))
	}

	nodes := make(map[string]common.GraphNode, len(view.Nodes))
	for _, n := range view.Nodes {
		nodes[n.ID] = n
	}
	if nodes[plato.ID].Kind != common.NodeEntity || nodes[plato.ID].Label != "Plato" {
		t.Fatalf("unexpected entity node: %+v", nodes[plato.ID])
	}
	if nodes[plato.ID].NoteCount != 1 {
		t.Fatalf("expected note count 1, got %d", nodes[plato.ID].NoteCount)
	}
	if nodes[note.ID].Kind != common.NodeNote || nodes[note.ID].Label != "The Academy" {
		t.Fatalf("unexpected note node: %+v", nodes[note.ID])
	}

	var linkEdge, relEdge *common.GraphEdge
	for i := range view.Edges {
		switch view.Edges[i].Kind {
		case common.EdgeNoteLink:
			linkEdge = &view.Edges[i]
		case common.EdgeRelationship:
			relEdge = &view.Edges[i]
		}
	}
	if linkEdge == nil || relEdge == nil {
		t.Fatalf("expected both edge kinds, got %+v", view.Edges)
	}
	wantID := fmt.Sprintf("%s-%s-link", note.ID, plato.ID)
	if linkEdge.ID != wantID {
		t.Fatalf("expected deterministic link edge id %q, got %q", wantID, linkEdge.ID)
	}
	if linkEdge.SourceID != note.ID || linkEdge.TargetID != plato.ID || linkEdge.Type != common.RelationCreated {
		t.Fatalf("unexpected link edge: %+v", linkEdge)
	}
	if relEdge.SourceID != plato.ID || relEdge.TargetID != aristotle.ID {
		t.Fatalf("unexpected relationship edge: %+v", relEdge)
	}
}

func TestAssembleGraphIsOwnerScoped(t *testing.T) {
	st := memory.NewStore()
	entities := NewEntityService(st)
	assembler := NewGraphAssembler(st)
	ctx := context.Background()

	if _, err := entities.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson}); err != nil {
		t.Fatalf("create entity failed: %v", err)
	}

	view, err := assembler.Assemble(ctx, "user2")
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if len(view.Nodes) != 0 || len(view.Edges) != 0 {
		t.Fatalf("expected empty view for other owner, got %d nodes %d edges", len(view.Nodes), len(view.Edges))
	}
}

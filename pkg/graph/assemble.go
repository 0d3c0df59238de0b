package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

// GraphAssembler builds the full read-only graph projection for one owner:
// entities and notes as nodes, note links and relationships as edges.
type GraphAssembler struct {
	store store.Store
}

func NewGraphAssembler(s store.Store) *GraphAssembler {
	return &GraphAssembler{store: s}
}

// Assemble fetches the four collections concurrently and merges them into a
// single view. The result is a snapshot, not a consistent transaction: a
// write racing the fetches can surface an edge without its node, so edges
// whose endpoints are missing from the node set are dropped.
func (a *GraphAssembler) Assemble(ctx context.Context, ownerID string) (common.GraphView, error) {
	var (
		entities      []common.EntityWithNoteCount
		notes         []common.Note
		links         []common.NoteEntityLink
		relationships []common.Relationship
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, err = a.store.ListEntities(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = a.store.ListAllNotes(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = a.store.ListLinksByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		relationships, err = a.store.ListRelationships(gctx, ownerID, store.RelationshipFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return common.GraphView{}, err
	}

	view := common.GraphView{
		Nodes: make([]common.GraphNode, 0, len(entities)+len(notes)),
		Edges: make([]common.GraphEdge, 0, len(links)+len(relationships)),
	}

	present := make(map[string]bool, len(entities)+len(notes))
	for _, entity := range entities {
		view.Nodes = append(view.Nodes, common.GraphNode{
			ID:          entity.ID,
			Kind:        common.NodeEntity,
			Label:       entity.Name,
			EntityType:  entity.Type,
			Description: entity.Description,
			NoteCount:   entity.NoteCount,
		})
		present[entity.ID] = true
	}
	for _, note := range notes {
		view.Nodes = append(view.Nodes, common.GraphNode{
			ID:    note.ID,
			Kind:  common.NodeNote,
			Label: note.Title,
		})
		present[note.ID] = true
	}

	for _, link := range links {
		if !present[link.NoteID] || !present[link.EntityID] {
			continue
		}
		view.Edges = append(view.Edges, common.GraphEdge{
			ID:       fmt.Sprintf("%s-%s-link", link.NoteID, link.EntityID),
			Kind:     common.EdgeNoteLink,
			SourceID: link.NoteID,
			TargetID: link.EntityID,
			Type:     link.Type,
		})
	}
	for _, rel := range relationships {
		if !present[rel.SourceID] || !present[rel.TargetID] {
			continue
		}
		view.Edges = append(view.Edges, common.GraphEdge{
			ID:       rel.ID,
			Kind:     common.EdgeRelationship,
			SourceID: rel.SourceID,
			TargetID: rel.TargetID,
			Type:     rel.Type,
		})
	}

	return view, nil
}

package graph

import (
	"context"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/logger"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

const (
	maxNoteTitleLength   = 255
	maxNoteContentLength = 10000
)

// NoteService owns notes and their entity links, including per-owner title
// uniqueness, batched link validation, replace-all link updates and the
// orphan-entity cleanup that runs after links disappear.
type NoteService struct {
	store store.Store
}

func NewNoteService(s store.Store) *NoteService {
	return &NoteService{store: s}
}

// EntityLinkInput names an entity to link to a note. Type defaults to
// is_related_to when empty.
type EntityLinkInput struct {
	EntityID string
	Type     common.RelationType
}

// CreateNoteInput carries the fields for a new note. EntityLinks may
// reference existing entities of the same owner.
type CreateNoteInput struct {
	Title       string
	Content     string
	EntityLinks []EntityLinkInput
}

func (s *NoteService) Create(ctx context.Context, ownerID string, input CreateNoteInput) (common.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > maxNoteTitleLength {
		return common.Note{}, common.Validation("Note title must be between 1 and 255 characters")
	}
	if len(input.Content) > maxNoteContentLength {
		return common.Note{}, common.Validation("Note content must be at most 10000 characters")
	}

	links, err := s.normalizeLinks(ctx, ownerID, input.EntityLinks)
	if err != nil {
		return common.Note{}, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.Note{}, err
	}

	note, err := s.store.InsertNote(ctx, common.Note{
		ID:      id,
		OwnerID: ownerID,
		Title:   title,
		Content: input.Content,
	})
	if err != nil {
		return common.Note{}, err
	}

	for _, link := range links {
		link.NoteID = note.ID
		if err := s.store.InsertNoteLink(ctx, link); err != nil {
			return common.Note{}, err
		}
	}

	return s.store.GetNoteByID(ctx, ownerID, note.ID)
}

func (s *NoteService) GetByID(ctx context.Context, ownerID, id string) (common.Note, error) {
	return s.store.GetNoteByID(ctx, ownerID, id)
}

// List returns one page of notes plus the total match count.
func (s *NoteService) List(ctx context.Context, ownerID string, query store.NoteQuery) ([]common.Note, int, error) {
	return s.store.ListNotes(ctx, ownerID, query)
}

// UpdateNoteInput carries a partial note update. A non-nil EntityLinks
// replaces the note's full link set; an empty slice removes every link.
type UpdateNoteInput struct {
	Title       *string
	Content     *string
	EntityLinks *[]EntityLinkInput
}

// Update applies the patch and, when EntityLinks is set, replaces the link
// set wholesale. The replace is not transactional: links are removed before
// the new set is inserted, and a failure in between leaves the note
// linkless. Orphan cleanup runs for entities that lost their last link.
func (s *NoteService) Update(ctx context.Context, ownerID, id string, input UpdateNoteInput) (common.Note, error) {
	if _, err := s.store.GetNoteByID(ctx, ownerID, id); err != nil {
		return common.Note{}, err
	}

	patch := store.NotePatch{Content: input.Content}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || len(title) > maxNoteTitleLength {
			return common.Note{}, common.Validation("Note title must be between 1 and 255 characters")
		}
		patch.Title = &title
	}
	if input.Content != nil && len(*input.Content) > maxNoteContentLength {
		return common.Note{}, common.Validation("Note content must be at most 10000 characters")
	}

	var newLinks []common.NoteEntityLink
	if input.EntityLinks != nil {
		// Validate the replacement set before touching anything.
		links, err := s.normalizeLinks(ctx, ownerID, *input.EntityLinks)
		if err != nil {
			return common.Note{}, err
		}
		newLinks = links
	}

	note, err := s.store.UpdateNote(ctx, ownerID, id, patch)
	if err != nil {
		return common.Note{}, err
	}

	if input.EntityLinks != nil {
		removed, err := s.store.DeleteNoteLinks(ctx, id)
		if err != nil {
			return common.Note{}, err
		}

		inserted := make(map[string]bool, len(newLinks))
		for _, link := range newLinks {
			link.NoteID = id
			if err := s.store.InsertNoteLink(ctx, link); err != nil {
				return common.Note{}, err
			}
			inserted[link.EntityID] = true
		}

		dropped := make([]string, 0, len(removed))
		for _, entityID := range removed {
			if !inserted[entityID] {
				dropped = append(dropped, entityID)
			}
		}
		if err := s.cleanupOrphans(ctx, ownerID, dropped); err != nil {
			return common.Note{}, err
		}

		return s.store.GetNoteByID(ctx, ownerID, id)
	}

	return note, nil
}

// Delete removes the note, its links, and every entity the removal left
// without any remaining link.
func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.store.GetNoteByID(ctx, ownerID, id); err != nil {
		return err
	}

	linked, err := s.store.DeleteNoteLinks(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNote(ctx, ownerID, id); err != nil {
		return err
	}
	return s.cleanupOrphans(ctx, ownerID, linked)
}

// AddEntityLink links one entity to the note. relType defaults to
// is_related_to when empty.
func (s *NoteService) AddEntityLink(ctx context.Context, ownerID, noteID, entityID string, relType common.RelationType) error {
	if relType == "" {
		relType = common.RelationIsRelatedTo
	}
	if !common.ValidRelationType(relType) {
		return common.Validation("Unknown link type")
	}
	if _, err := s.store.GetNoteByID(ctx, ownerID, noteID); err != nil {
		return err
	}
	if _, err := s.store.GetEntityByID(ctx, ownerID, entityID); err != nil {
		return err
	}

	return s.store.InsertNoteLink(ctx, common.NoteEntityLink{
		NoteID:   noteID,
		EntityID: entityID,
		Type:     relType,
	})
}

// RemoveEntityLink unlinks the entity and deletes it when the removed link
// was its last one.
func (s *NoteService) RemoveEntityLink(ctx context.Context, ownerID, noteID, entityID string) error {
	if _, err := s.store.GetNoteByID(ctx, ownerID, noteID); err != nil {
		return err
	}
	if err := s.store.DeleteNoteLink(ctx, noteID, entityID); err != nil {
		return err
	}
	return s.cleanupOrphans(ctx, ownerID, []string{entityID})
}

// linkEntityIfAbsent links the entity to the note, treating an existing
// link as success. Used by suggestion acceptance, which must be idempotent
// on already-linked state.
func (s *NoteService) linkEntityIfAbsent(ctx context.Context, noteID, entityID string, relType common.RelationType) error {
	err := s.store.InsertNoteLink(ctx, common.NoteEntityLink{
		NoteID:   noteID,
		EntityID: entityID,
		Type:     relType,
	})
	if common.IsKind(err, common.KindConflict) {
		return nil
	}
	return err
}

// normalizeLinks dedupes the input, defaults missing types, and validates
// every referenced entity in a single batched query.
func (s *NoteService) normalizeLinks(ctx context.Context, ownerID string, inputs []EntityLinkInput) ([]common.NoteEntityLink, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	links := make([]common.NoteEntityLink, 0, len(inputs))
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.EntityID] {
			continue
		}
		seen[in.EntityID] = true

		relType := in.Type
		if relType == "" {
			relType = common.RelationIsRelatedTo
		}
		if !common.ValidRelationType(relType) {
			return nil, common.Validation("Unknown link type")
		}
		links = append(links, common.NoteEntityLink{EntityID: in.EntityID, Type: relType})
		ids = append(ids, in.EntityID)
	}

	found, err := s.store.GetEntitiesByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, common.NotFound("One or more entities not found or do not belong to the user")
	}
	return links, nil
}

// cleanupOrphans deletes every listed entity that no longer has a single
// note link. The check runs after the link removal, so an entity picked up
// by another note in the meantime survives.
func (s *NoteService) cleanupOrphans(ctx context.Context, ownerID string, entityIDs []string) error {
	seen := make(map[string]bool, len(entityIDs))
	for _, entityID := range entityIDs {
		if seen[entityID] {
			continue
		}
		seen[entityID] = true

		count, err := s.store.CountLinksForEntity(ctx, entityID)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := s.store.DeleteRelationshipsForEntity(ctx, ownerID, entityID); err != nil {
			return err
		}
		if err := s.store.DeleteEntity(ctx, ownerID, entityID); err != nil {
			if common.IsKind(err, common.KindNotFound) {
				// Already gone; nothing left to clean up.
				continue
			}
			return err
		}
		logger.Debug("[Notes] Removed orphaned entity", "entity_id", entityID)
	}
	return nil
}

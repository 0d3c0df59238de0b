// Package memory provides an in-process implementation of store.Store.
// It backs the test suite and local development, and mirrors the error
// semantics of the Postgres implementation: uniqueness violations surface
// as Conflict, missing or foreign-owned rows as NotFound.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

type Store struct {
	mu sync.RWMutex

	entities      map[string]common.Entity       // id -> entity
	relationships map[string]common.Relationship // id -> relationship
	notes         map[string]common.Note         // id -> note (Links not populated here)
	links         []common.NoteEntityLink
	suggestions   map[string]common.Suggestion // id -> suggestion
	profiles      map[string]common.Profile    // owner -> profile
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		entities:      make(map[string]common.Entity),
		relationships: make(map[string]common.Relationship),
		notes:         make(map[string]common.Note),
		links:         make([]common.NoteEntityLink, 0),
		suggestions:   make(map[string]common.Suggestion),
		profiles:      make(map[string]common.Profile),
	}
}

func (s *Store) InsertEntity(ctx context.Context, entity common.Entity) (common.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entities {
		if e.OwnerID == entity.OwnerID && e.Name == entity.Name {
			return common.Entity{}, common.Conflict("An entity with this name already exists")
		}
	}

	now := time.Now().UTC()
	entity.CreatedAt = now
	entity.UpdatedAt = now
	s.entities[entity.ID] = entity
	return entity, nil
}

func (s *Store) GetEntityByID(ctx context.Context, ownerID, id string) (common.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[id]
	if !ok || e.OwnerID != ownerID {
		return common.Entity{}, common.NotFound("Entity not found")
	}
	return e, nil
}

func (s *Store) ListEntities(ctx context.Context, ownerID string) ([]common.EntityWithNoteCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, l := range s.links {
		counts[l.EntityID]++
	}

	out := make([]common.EntityWithNoteCount, 0)
	for _, e := range s.entities {
		if e.OwnerID != ownerID {
			continue
		}
		out = append(out, common.EntityWithNoteCount{Entity: e, NoteCount: counts[e.ID]})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) UpdateEntity(ctx context.Context, ownerID, id string, patch store.EntityPatch) (common.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[id]
	if !ok || e.OwnerID != ownerID {
		return common.Entity{}, common.NotFound("Entity not found")
	}

	if patch.Name != nil && *patch.Name != e.Name {
		for _, other := range s.entities {
			if other.ID != id && other.OwnerID == ownerID && other.Name == *patch.Name {
				return common.Entity{}, common.Conflict("An entity with this name already exists")
			}
		}
		e.Name = *patch.Name
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	e.UpdatedAt = time.Now().UTC()
	s.entities[id] = e
	return e, nil
}

func (s *Store) DeleteEntity(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[id]
	if !ok || e.OwnerID != ownerID {
		return common.NotFound("Entity not found")
	}
	delete(s.entities, id)
	return nil
}

func (s *Store) FindEntityByName(ctx context.Context, ownerID, name string) (common.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entities {
		if e.OwnerID == ownerID && e.Name == name {
			return e, nil
		}
	}
	return common.Entity{}, common.NotFound("Entity not found")
}

func (s *Store) GetEntitiesByIDs(ctx context.Context, ownerID string, ids []string) ([]common.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Entity, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if e, ok := s.entities[id]; ok && e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) InsertRelationship(ctx context.Context, rel common.Relationship) (common.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.relationships {
		if r.OwnerID == rel.OwnerID && r.SourceID == rel.SourceID && r.TargetID == rel.TargetID {
			return common.Relationship{}, common.Conflict("A relationship between these entities already exists")
		}
	}

	rel.CreatedAt = time.Now().UTC()
	s.relationships[rel.ID] = rel
	return rel, nil
}

func (s *Store) UpdateRelationshipType(ctx context.Context, ownerID, id string, relType common.RelationType) (common.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.relationships[id]
	if !ok || r.OwnerID != ownerID {
		return common.Relationship{}, common.NotFound("Relationship not found")
	}
	r.Type = relType
	s.relationships[id] = r
	return r, nil
}

func (s *Store) DeleteRelationship(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.relationships[id]
	if !ok || r.OwnerID != ownerID {
		return common.NotFound("Relationship not found")
	}
	delete(s.relationships, id)
	return nil
}

func (s *Store) ListRelationships(ctx context.Context, ownerID string, filter store.RelationshipFilter) ([]common.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Relationship, 0)
	for _, r := range s.relationships {
		if r.OwnerID != ownerID {
			continue
		}
		if filter.SourceID != "" && r.SourceID != filter.SourceID {
			continue
		}
		if filter.TargetID != "" && r.TargetID != filter.TargetID {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteRelationshipsForEntity(ctx context.Context, ownerID, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.relationships {
		if r.OwnerID == ownerID && (r.SourceID == entityID || r.TargetID == entityID) {
			delete(s.relationships, id)
		}
	}
	return nil
}

func (s *Store) InsertNote(ctx context.Context, note common.Note) (common.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notes {
		if n.OwnerID == note.OwnerID && n.Title == note.Title {
			return common.Note{}, common.Conflict("A note with this title already exists")
		}
	}

	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	note.Links = nil
	s.notes[note.ID] = note
	return note, nil
}

func (s *Store) GetNoteByID(ctx context.Context, ownerID, id string) (common.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return common.Note{}, common.NotFound("Note not found")
	}
	n.Links = s.linksForNote(id)
	return n, nil
}

func (s *Store) ListNotes(ctx context.Context, ownerID string, query store.NoteQuery) ([]common.Note, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Note, 0)
	for _, n := range s.notes {
		if n.OwnerID != ownerID {
			continue
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(n.Title), strings.ToLower(query.Search)) {
			continue
		}
		if query.EntityID != "" && !s.noteLinksEntity(n.ID, query.EntityID) {
			continue
		}
		n.Links = s.linksForNote(n.ID)
		out = append(out, n)
	}

	switch query.Sort {
	case "title":
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case "updated_at":
		sort.Slice(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	total := len(out)
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= total {
		return []common.Note{}, total, nil
	}
	end := min(start+limit, total)
	return out[start:end], total, nil
}

func (s *Store) ListAllNotes(ctx context.Context, ownerID string) ([]common.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Note, 0)
	for _, n := range s.notes {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateNote(ctx context.Context, ownerID, id string, patch store.NotePatch) (common.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return common.Note{}, common.NotFound("Note not found")
	}

	if patch.Title != nil && *patch.Title != n.Title {
		for _, other := range s.notes {
			if other.ID != id && other.OwnerID == ownerID && other.Title == *patch.Title {
				return common.Note{}, common.Conflict("A note with this title already exists")
			}
		}
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	n.UpdatedAt = time.Now().UTC()
	s.notes[id] = n
	n.Links = s.linksForNote(id)
	return n, nil
}

func (s *Store) DeleteNote(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return common.NotFound("Note not found")
	}
	delete(s.notes, id)
	return nil
}

func (s *Store) FindNoteByTitle(ctx context.Context, ownerID, title string) (common.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notes {
		if n.OwnerID == ownerID && n.Title == title {
			return n, nil
		}
	}
	return common.Note{}, common.NotFound("Note not found")
}

func (s *Store) InsertNoteLink(ctx context.Context, link common.NoteEntityLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.links {
		if l.NoteID == link.NoteID && l.EntityID == link.EntityID {
			return common.Conflict("This entity is already linked to the note")
		}
	}
	link.CreatedAt = time.Now().UTC()
	s.links = append(s.links, link)
	return nil
}

func (s *Store) DeleteNoteLink(ctx context.Context, noteID, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.links {
		if l.NoteID == noteID && l.EntityID == entityID {
			s.links = append(s.links[:i], s.links[i+1:]...)
			return nil
		}
	}
	return common.NotFound("Link not found")
}

func (s *Store) DeleteNoteLinks(ctx context.Context, noteID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make([]string, 0)
	kept := s.links[:0]
	for _, l := range s.links {
		if l.NoteID == noteID {
			removed = append(removed, l.EntityID)
			continue
		}
		kept = append(kept, l)
	}
	s.links = kept
	return removed, nil
}

func (s *Store) ListNoteLinks(ctx context.Context, noteID string) ([]common.NoteEntityLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linksForNote(noteID), nil
}

func (s *Store) ListLinksByOwner(ctx context.Context, ownerID string) ([]common.NoteEntityLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.NoteEntityLink, 0)
	for _, l := range s.links {
		if n, ok := s.notes[l.NoteID]; ok && n.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) CountLinksForEntity(ctx context.Context, entityID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, l := range s.links {
		if l.EntityID == entityID {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteLinksForEntity(ctx context.Context, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.links[:0]
	for _, l := range s.links {
		if l.EntityID != entityID {
			kept = append(kept, l)
		}
	}
	s.links = kept
	return nil
}

func (s *Store) InsertSuggestions(ctx context.Context, suggestions []common.Suggestion) ([]common.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	out := make([]common.Suggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		sg.CreatedAt = now
		sg.UpdatedAt = now
		s.suggestions[sg.ID] = sg
		out = append(out, sg)
	}
	return out, nil
}

func (s *Store) GetSuggestionByID(ctx context.Context, ownerID, id string) (common.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sg, ok := s.suggestions[id]
	if !ok || sg.OwnerID != ownerID {
		return common.Suggestion{}, common.NotFound("Suggestion not found")
	}
	return sg, nil
}

func (s *Store) ListSuggestions(ctx context.Context, ownerID, noteID string, statuses []common.SuggestionStatus) ([]common.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Suggestion, 0)
	for _, sg := range s.suggestions {
		if sg.OwnerID != ownerID || sg.NoteID != noteID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if sg.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, sg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateSuggestionStatusIfPending(ctx context.Context, ownerID, id string, status common.SuggestionStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sg, ok := s.suggestions[id]
	if !ok || sg.OwnerID != ownerID {
		return false, common.NotFound("Suggestion not found")
	}
	if sg.Status != common.StatusPending {
		return false, nil
	}
	sg.Status = status
	sg.UpdatedAt = time.Now().UTC()
	s.suggestions[id] = sg
	return true, nil
}

func (s *Store) GetProfile(ctx context.Context, ownerID string) (*common.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[ownerID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) UpsertProfileConsent(ctx context.Context, ownerID string, agreed bool) (*common.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := common.Profile{
		OwnerID:                 ownerID,
		HasAgreedToAIProcessing: agreed,
		UpdatedAt:               time.Now().UTC(),
	}
	s.profiles[ownerID] = p
	return &p, nil
}

// linksForNote assumes the caller holds at least a read lock.
func (s *Store) linksForNote(noteID string) []common.NoteEntityLink {
	out := make([]common.NoteEntityLink, 0)
	for _, l := range s.links {
		if l.NoteID == noteID {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) noteLinksEntity(noteID, entityID string) bool {
	for _, l := range s.links {
		if l.NoteID == noteID && l.EntityID == entityID {
			return true
		}
	}
	return false
}

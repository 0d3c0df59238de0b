package store

import (
	"context"

	"github.com/lattice-hq/lattice/backend/pkg/common"
)

// EntityPatch carries the fields an entity update may change. Nil fields are
// left untouched.
type EntityPatch struct {
	Name        *string
	Type        *common.EntityType
	Description *string
}

// NotePatch carries the fields a note update may change. Nil fields are left
// untouched.
type NotePatch struct {
	Title   *string
	Content *string
}

// RelationshipFilter narrows a relationship listing. Empty fields match
// everything.
type RelationshipFilter struct {
	SourceID string
	TargetID string
	Type     common.RelationType
}

// NoteQuery controls note listing: offset pagination, an optional title
// substring search, an optional entity filter, and a sort key
// ("created_at", "updated_at" or "title"; default newest first).
type NoteQuery struct {
	Page     int
	Limit    int
	Sort     string
	Search   string
	EntityID string
}

// Store is the row-level persistence interface every service depends on. It
// is deliberately free of domain rules: uniqueness surfaces as
// common.Conflict, missing or foreign-owned rows as common.NotFound, and the
// caller composes the multi-step semantics on top. Implementations must
// never expose raw storage error codes.
//
// No multi-statement transaction spans more than one call; each call is
// atomic on its own.
type Store interface {
	// Entities
	InsertEntity(ctx context.Context, entity common.Entity) (common.Entity, error)
	GetEntityByID(ctx context.Context, ownerID, id string) (common.Entity, error)
	ListEntities(ctx context.Context, ownerID string) ([]common.EntityWithNoteCount, error)
	UpdateEntity(ctx context.Context, ownerID, id string, patch EntityPatch) (common.Entity, error)
	DeleteEntity(ctx context.Context, ownerID, id string) error
	FindEntityByName(ctx context.Context, ownerID, name string) (common.Entity, error)
	// GetEntitiesByIDs returns the subset of ids that exist for the owner,
	// in one batched lookup.
	GetEntitiesByIDs(ctx context.Context, ownerID string, ids []string) ([]common.Entity, error)

	// Relationships
	InsertRelationship(ctx context.Context, rel common.Relationship) (common.Relationship, error)
	UpdateRelationshipType(ctx context.Context, ownerID, id string, relType common.RelationType) (common.Relationship, error)
	DeleteRelationship(ctx context.Context, ownerID, id string) error
	ListRelationships(ctx context.Context, ownerID string, filter RelationshipFilter) ([]common.Relationship, error)
	DeleteRelationshipsForEntity(ctx context.Context, ownerID, entityID string) error

	// Notes
	InsertNote(ctx context.Context, note common.Note) (common.Note, error)
	GetNoteByID(ctx context.Context, ownerID, id string) (common.Note, error)
	ListNotes(ctx context.Context, ownerID string, query NoteQuery) ([]common.Note, int, error)
	// ListAllNotes returns every note of the owner without links, for
	// whole-graph assembly.
	ListAllNotes(ctx context.Context, ownerID string) ([]common.Note, error)
	UpdateNote(ctx context.Context, ownerID, id string, patch NotePatch) (common.Note, error)
	DeleteNote(ctx context.Context, ownerID, id string) error
	FindNoteByTitle(ctx context.Context, ownerID, title string) (common.Note, error)

	// Note-entity links. Ownership checks happen through the note and
	// entity rows; link rows have no owner column.
	InsertNoteLink(ctx context.Context, link common.NoteEntityLink) error
	DeleteNoteLink(ctx context.Context, noteID, entityID string) error
	// DeleteNoteLinks removes every link of the note and returns the entity
	// ids that were linked, so the caller can run orphan cleanup.
	DeleteNoteLinks(ctx context.Context, noteID string) ([]string, error)
	ListNoteLinks(ctx context.Context, noteID string) ([]common.NoteEntityLink, error)
	ListLinksByOwner(ctx context.Context, ownerID string) ([]common.NoteEntityLink, error)
	CountLinksForEntity(ctx context.Context, entityID string) (int, error)
	DeleteLinksForEntity(ctx context.Context, entityID string) error

	// Suggestions
	InsertSuggestions(ctx context.Context, suggestions []common.Suggestion) ([]common.Suggestion, error)
	GetSuggestionByID(ctx context.Context, ownerID, id string) (common.Suggestion, error)
	ListSuggestions(ctx context.Context, ownerID, noteID string, statuses []common.SuggestionStatus) ([]common.Suggestion, error)
	// UpdateSuggestionStatusIfPending performs the transition as one
	// conditional write and reports whether a row actually moved. A false
	// return with no error means the suggestion was no longer pending.
	UpdateSuggestionStatusIfPending(ctx context.Context, ownerID, id string, status common.SuggestionStatus) (bool, error)

	// Profile
	GetProfile(ctx context.Context, ownerID string) (*common.Profile, error)
	UpsertProfileConsent(ctx context.Context, ownerID string, agreed bool) (*common.Profile, error)
}

package common

import "time"

// EntityType classifies what kind of real-world thing an entity represents.
type EntityType string

const (
	EntityPerson EntityType = "person"
	EntityWork   EntityType = "work"
	EntityEpoch  EntityType = "epoch"
	EntityIdea   EntityType = "idea"
	EntitySchool EntityType = "school"
	EntitySystem EntityType = "system"
	EntityOther  EntityType = "other"
)

// ValidEntityType reports whether t is one of the known entity types.
func ValidEntityType(t EntityType) bool {
	switch t {
	case EntityPerson, EntityWork, EntityEpoch, EntityIdea, EntitySchool, EntitySystem, EntityOther:
		return true
	}
	return false
}

// RelationType classifies an edge in the graph. The same set is used for
// entity-to-entity relationships and for note-to-entity links.
type RelationType string

const (
	RelationIsRelatedTo RelationType = "is_related_to"
	RelationInfluenced  RelationType = "influenced"
	RelationCreated     RelationType = "created"
	RelationBelongsTo   RelationType = "belongs_to"
	RelationOpposes     RelationType = "opposes"
	RelationPartOf      RelationType = "part_of"
)

// ValidRelationType reports whether t is one of the known relation types.
func ValidRelationType(t RelationType) bool {
	switch t {
	case RelationIsRelatedTo, RelationInfluenced, RelationCreated, RelationBelongsTo, RelationOpposes, RelationPartOf:
		return true
	}
	return false
}

// Entity is a named node in a user's knowledge graph: a person, work,
// concept, or anything else the user tracks. The (OwnerID, Name) pair is
// unique; every row belongs to exactly one owner.
type Entity struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"-"`
	Name        string     `json:"name"`
	Type        EntityType `json:"type"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EntityWithNoteCount is an Entity annotated with the number of notes
// currently linking to it. The count is computed at read time and never
// stored.
type EntityWithNoteCount struct {
	Entity
	NoteCount int `json:"note_count"`
}

// Relationship is a directed, typed edge between two entities of the same
// owner. At most one relationship exists per (owner, source, target) pair.
type Relationship struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"-"`
	SourceID  string       `json:"source_entity_id"`
	TargetID  string       `json:"target_entity_id"`
	Type      RelationType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// Note is a free-text document. The (OwnerID, Title) pair is unique.
// A note references entities through NoteEntityLink rows.
type Note struct {
	ID        string           `json:"id"`
	OwnerID   string           `json:"-"`
	Title     string           `json:"title"`
	Content   string           `json:"content,omitempty"`
	Links     []NoteEntityLink `json:"entity_links,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NoteEntityLink records that a note mentions or relates to an entity.
// The (NoteID, EntityID) pair is unique; ownership is implied by the note
// and entity rows rather than stored on the link itself.
type NoteEntityLink struct {
	NoteID    string       `json:"note_id"`
	EntityID  string       `json:"entity_id"`
	Type      RelationType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// SuggestionType identifies what kind of graph edit a suggestion proposes.
type SuggestionType string

const (
	SuggestionQuote              SuggestionType = "quote"
	SuggestionSummary            SuggestionType = "summary"
	SuggestionNewEntity          SuggestionType = "new_entity"
	SuggestionExistingEntityLink SuggestionType = "existing_entity_link"
)

// ValidSuggestionType reports whether t is one of the known suggestion types.
func ValidSuggestionType(t SuggestionType) bool {
	switch t {
	case SuggestionQuote, SuggestionSummary, SuggestionNewEntity, SuggestionExistingEntityLink:
		return true
	}
	return false
}

// SuggestionStatus is the lifecycle state of a suggestion. A suggestion is
// created pending and transitions exactly once to accepted or rejected;
// both are terminal.
type SuggestionStatus string

const (
	StatusPending  SuggestionStatus = "pending"
	StatusAccepted SuggestionStatus = "accepted"
	StatusRejected SuggestionStatus = "rejected"
)

// ValidSuggestionStatus reports whether s is one of the known statuses.
func ValidSuggestionStatus(s SuggestionStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Suggestion is an AI-proposed graph edit for a note, awaiting the user's
// accept or reject decision. SuggestedEntityID is set only for
// existing_entity_link suggestions; SuggestedEntityType may carry an
// explicit type for new_entity suggestions.
type Suggestion struct {
	ID                   string           `json:"id"`
	OwnerID              string           `json:"-"`
	NoteID               string           `json:"note_id"`
	Type                 SuggestionType   `json:"type"`
	Status               SuggestionStatus `json:"status"`
	Name                 string           `json:"name"`
	Content              string           `json:"content"`
	SuggestedEntityID    string           `json:"suggested_entity_id,omitempty"`
	SuggestedEntityType  EntityType       `json:"suggested_entity_type,omitempty"`
	GenerationDurationMs int64            `json:"generation_duration_ms"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// Profile holds the per-user settings the core consults. Only the AI
// processing consent flag matters here.
type Profile struct {
	OwnerID                 string    `json:"-"`
	HasAgreedToAIProcessing bool      `json:"has_agreed_to_ai_processing"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// NodeKind tags a graph-view node as an entity or a note.
type NodeKind string

const (
	NodeEntity NodeKind = "entity"
	NodeNote   NodeKind = "note"
)

// GraphNode is a node in the assembled whole-graph view.
type GraphNode struct {
	ID          string     `json:"id"`
	Kind        NodeKind   `json:"kind"`
	Label       string     `json:"label"`
	EntityType  EntityType `json:"entity_type,omitempty"`
	Description string     `json:"description,omitempty"`
	NoteCount   int        `json:"note_count,omitempty"`
}

// EdgeKind tags a graph-view edge as a note-entity link or an
// entity-entity relationship.
type EdgeKind string

const (
	EdgeNoteLink     EdgeKind = "note_link"
	EdgeRelationship EdgeKind = "relationship"
)

// GraphEdge is an edge in the assembled whole-graph view. For note-entity
// links the ID is synthesized deterministically from the endpoints, since
// link rows carry no id column of their own.
type GraphEdge struct {
	ID       string       `json:"id"`
	SourceID string       `json:"source"`
	TargetID string       `json:"target"`
	Type     RelationType `json:"type"`
	Kind     EdgeKind     `json:"kind"`
}

// GraphView is the derived node/edge projection of one owner's data. It is
// rebuilt on every request and never cached.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

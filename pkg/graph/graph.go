// Package graph implements the knowledge-graph core: owner-scoped entity,
// relationship and note services with their consistency rules (name and
// title uniqueness, link validation, orphan-entity cleanup), the whole-graph
// assembler, and the AI suggestion engine with its pending → accepted or
// rejected state machine.
//
// All services operate on an injected store.Store, so the same code runs
// against Postgres in production and the in-memory store in tests.
package graph

import (
	"time"

	"github.com/lattice-hq/lattice/backend/pkg/ai"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

// Services bundles the core services over one store.
type Services struct {
	Entities      *EntityService
	Relationships *RelationshipService
	Notes         *NoteService
	Assembler     *GraphAssembler
	Suggestions   *SuggestionEngine
	Profiles      *ProfileGate
}

// NewServicesParams configures NewServices. AITimeout bounds the suggestion
// generation call; zero picks a default of one minute.
type NewServicesParams struct {
	Store     store.Store
	AIClient  ai.Client
	AITimeout time.Duration
}

// NewServices wires the full service set over the given store and AI client.
func NewServices(params NewServicesParams) *Services {
	notes := NewNoteService(params.Store)
	gate := NewProfileGate(params.Store)

	return &Services{
		Entities:      NewEntityService(params.Store),
		Relationships: NewRelationshipService(params.Store),
		Notes:         notes,
		Assembler:     NewGraphAssembler(params.Store),
		Suggestions: NewSuggestionEngine(SuggestionEngineParams{
			Store:    params.Store,
			AIClient: params.AIClient,
			Notes:    notes,
			Gate:     gate,
			Timeout:  params.AITimeout,
		}),
		Profiles: gate,
	}
}

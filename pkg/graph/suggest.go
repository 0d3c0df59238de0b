package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"

	"github.com/lattice-hq/lattice/backend/pkg/ai"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/logger"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

const (
	minSuggestionContentLength = 10
	maxSuggestionsPerRun       = 10
	promptEncoding             = "o200k_base"
	maxNoteTokensInPrompt      = 8000
	defaultGenerationTimeout   = time.Minute
)

// ProfileGate answers the one question the suggestion engine must ask before
// sending any note content to a model: has this user agreed to AI
// processing? It also backs the profile read and consent update endpoints.
type ProfileGate struct {
	store store.Store
}

func NewProfileGate(s store.Store) *ProfileGate {
	return &ProfileGate{store: s}
}

// CheckConsent returns a consent-required error unless the owner has an
// explicit positive consent flag. A missing profile counts as no consent.
func (g *ProfileGate) CheckConsent(ctx context.Context, ownerID string) error {
	profile, err := g.store.GetProfile(ctx, ownerID)
	if err != nil {
		return err
	}
	if profile == nil || !profile.HasAgreedToAIProcessing {
		return common.ConsentRequired("User has not agreed to AI processing")
	}
	return nil
}

// GetProfile returns the owner's profile, defaulting to no consent when no
// profile row exists yet.
func (g *ProfileGate) GetProfile(ctx context.Context, ownerID string) (common.Profile, error) {
	profile, err := g.store.GetProfile(ctx, ownerID)
	if err != nil {
		return common.Profile{}, err
	}
	if profile == nil {
		return common.Profile{OwnerID: ownerID}, nil
	}
	return *profile, nil
}

// SetConsent records the owner's AI processing decision, creating the
// profile row on first write.
func (g *ProfileGate) SetConsent(ctx context.Context, ownerID string, agreed bool) (common.Profile, error) {
	profile, err := g.store.UpsertProfileConsent(ctx, ownerID, agreed)
	if err != nil {
		return common.Profile{}, err
	}
	return *profile, nil
}

type suggestionDraft struct {
	Type       string `json:"type" jsonschema:"enum=quote,enum=summary,enum=new_entity,enum=existing_entity_link" jsonschema_description:"Kind of suggestion"`
	Content    string `json:"content" jsonschema_description:"The quote text, the summary text, or a short description of the entity"`
	EntityName string `json:"entity_name,omitempty" jsonschema_description:"Plain name of the proposed entity, only for new_entity suggestions"`
	EntityType string `json:"entity_type,omitempty" jsonschema:"enum=person,enum=work,enum=epoch,enum=idea,enum=school,enum=system,enum=other" jsonschema_description:"Type of the proposed entity, only for new_entity suggestions"`
	EntityID   string `json:"entity_id,omitempty" jsonschema_description:"Id of an existing entity from the provided list, only for existing_entity_link suggestions"`
}

type suggestionResponse struct {
	Suggestions []suggestionDraft `json:"suggestions" jsonschema_description:"Proposed additions to the knowledge graph"`
}

// SuggestionEngine generates AI suggestions for notes and drives each
// suggestion through its single pending → accepted or rejected transition,
// including the graph edits an acceptance triggers.
type SuggestionEngine struct {
	store   store.Store
	client  ai.Client
	notes   *NoteService
	gate    *ProfileGate
	timeout time.Duration
}

// SuggestionEngineParams configures NewSuggestionEngine. Timeout bounds one
// generation call; zero picks defaultGenerationTimeout.
type SuggestionEngineParams struct {
	Store    store.Store
	AIClient ai.Client
	Notes    *NoteService
	Gate     *ProfileGate
	Timeout  time.Duration
}

func NewSuggestionEngine(params SuggestionEngineParams) *SuggestionEngine {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	return &SuggestionEngine{
		store:   params.Store,
		client:  params.AIClient,
		notes:   params.Notes,
		gate:    params.Gate,
		timeout: timeout,
	}
}

// Generate asks the model for suggestions on one note and persists the
// usable ones as pending. It refuses without consent, on a foreign or
// missing note, and on content shorter than ten characters.
func (e *SuggestionEngine) Generate(ctx context.Context, ownerID, noteID string) ([]common.Suggestion, error) {
	if err := e.gate.CheckConsent(ctx, ownerID); err != nil {
		return nil, err
	}

	note, err := e.store.GetNoteByID(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(note.Content)
	if len(content) < minSuggestionContentLength {
		return nil, common.ContentTooShort("Note content is too short to generate suggestions")
	}

	entities, err := e.store.ListEntities(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]common.Entity, len(entities))
	rosterLines := make([]string, 0, len(entities))
	for _, entity := range entities {
		known[entity.ID] = entity.Entity
		rosterLines = append(rosterLines, fmt.Sprintf("%s | %s | %s", entity.ID, entity.Name, entity.Type))
	}
	roster := "(none)"
	if len(rosterLines) > 0 {
		roster = strings.Join(rosterLines, "\n")
	}

	linkedLines := make([]string, 0, len(note.Links))
	for _, link := range note.Links {
		if entity, ok := known[link.EntityID]; ok {
			linkedLines = append(linkedLines, fmt.Sprintf("%s (%s)", entity.Name, link.Type))
		}
	}
	linked := "(none)"
	if len(linkedLines) > 0 {
		linked = strings.Join(linkedLines, "\n")
	}

	prompt := fmt.Sprintf(
		ai.SuggestionPrompt,
		roster,
		linked,
		note.Title,
		truncateToTokens(content, maxNoteTokensInPrompt),
	)

	genCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	var res suggestionResponse
	err = e.client.GetStructuredResponse(
		genCtx,
		"note_suggestions",
		"Propose additions to the user's knowledge graph based on one note.",
		ai.SuggestionSystemPrompt,
		prompt,
		&res,
	)
	if err != nil {
		return nil, err
	}
	durationMs := time.Since(start).Milliseconds()

	now := time.Now()
	suggestions := make([]common.Suggestion, 0, len(res.Suggestions))
	for _, draft := range res.Suggestions {
		suggestion, ok := e.buildSuggestion(draft, ownerID, noteID, known, durationMs, now)
		if !ok {
			continue
		}
		suggestions = append(suggestions, suggestion)
		if len(suggestions) == maxSuggestionsPerRun {
			break
		}
	}
	if len(suggestions) == 0 {
		return nil, common.ResponseValidation("The model returned no usable suggestions")
	}

	stored, err := e.store.InsertSuggestions(ctx, suggestions)
	if err != nil {
		return nil, err
	}
	logger.Debug("[Suggestions] Generated suggestions",
		"note_id", noteID,
		"count", len(stored),
		"duration_ms", durationMs,
	)
	return stored, nil
}

// buildSuggestion validates one model draft and converts it into a pending
// suggestion. Drafts with unknown types, empty content, or entity ids not in
// the owner's roster are dropped.
func (e *SuggestionEngine) buildSuggestion(
	draft suggestionDraft,
	ownerID string,
	noteID string,
	known map[string]common.Entity,
	durationMs int64,
	now time.Time,
) (common.Suggestion, bool) {
	suggestionType := common.SuggestionType(draft.Type)
	if !common.ValidSuggestionType(suggestionType) {
		logger.Debug("[Suggestions] Dropping draft with unknown type", "type", draft.Type)
		return common.Suggestion{}, false
	}
	if strings.TrimSpace(draft.Content) == "" {
		return common.Suggestion{}, false
	}

	suggestion := common.Suggestion{
		OwnerID:              ownerID,
		NoteID:               noteID,
		Type:                 suggestionType,
		Status:               common.StatusPending,
		Content:              draft.Content,
		GenerationDurationMs: durationMs,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	switch suggestionType {
	case common.SuggestionNewEntity:
		name := cleanEntityName(draft.EntityName)
		if name == "" {
			return common.Suggestion{}, false
		}
		suggestion.Name = name
		if t := common.EntityType(draft.EntityType); common.ValidEntityType(t) {
			suggestion.SuggestedEntityType = t
		}
	case common.SuggestionExistingEntityLink:
		entity, ok := known[draft.EntityID]
		if !ok {
			logger.Debug("[Suggestions] Dropping draft with unknown entity id", "entity_id", draft.EntityID)
			return common.Suggestion{}, false
		}
		suggestion.SuggestedEntityID = entity.ID
		suggestion.Name = entity.Name
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.Suggestion{}, false
	}
	suggestion.ID = id
	return suggestion, true
}

// List returns the note's suggestions, newest first, optionally narrowed to
// a status set. The note must belong to the owner.
func (e *SuggestionEngine) List(ctx context.Context, ownerID, noteID string, statuses []common.SuggestionStatus) ([]common.Suggestion, error) {
	for _, status := range statuses {
		if !common.ValidSuggestionStatus(status) {
			return nil, common.Validation("Unknown suggestion status")
		}
	}
	if _, err := e.store.GetNoteByID(ctx, ownerID, noteID); err != nil {
		return nil, err
	}
	return e.store.ListSuggestions(ctx, ownerID, noteID, statuses)
}

// UpdateStatus moves a pending suggestion to accepted or rejected. The write
// is conditional on the row still being pending, so two concurrent decisions
// cannot both win. Accepting applies the suggested graph edit; the edit
// itself is idempotent, but it runs after the status flip and is not rolled
// back if it fails.
func (e *SuggestionEngine) UpdateStatus(ctx context.Context, ownerID, id string, status common.SuggestionStatus) (common.Suggestion, error) {
	if status != common.StatusAccepted && status != common.StatusRejected {
		return common.Suggestion{}, common.InvalidStateTransition("A suggestion can only be accepted or rejected")
	}

	suggestion, err := e.store.GetSuggestionByID(ctx, ownerID, id)
	if err != nil {
		return common.Suggestion{}, err
	}
	if suggestion.Status != common.StatusPending {
		return common.Suggestion{}, common.InvalidStateTransition(
			fmt.Sprintf("Suggestion is already %s", suggestion.Status),
		)
	}

	moved, err := e.store.UpdateSuggestionStatusIfPending(ctx, ownerID, id, status)
	if err != nil {
		return common.Suggestion{}, err
	}
	if !moved {
		return common.Suggestion{}, common.InvalidStateTransition("Suggestion is no longer pending")
	}

	if status == common.StatusAccepted {
		if err := e.applyAcceptance(ctx, suggestion); err != nil {
			logger.Error("[Suggestions] Failed to apply accepted suggestion",
				"suggestion_id", id,
				"err", err,
			)
			return common.Suggestion{}, err
		}
	}

	return e.store.GetSuggestionByID(ctx, ownerID, id)
}

func (e *SuggestionEngine) applyAcceptance(ctx context.Context, suggestion common.Suggestion) error {
	switch suggestion.Type {
	case common.SuggestionQuote:
		return e.appendSection(ctx, suggestion, "## Quotes")
	case common.SuggestionSummary:
		return e.appendSection(ctx, suggestion, "## Summary")
	case common.SuggestionNewEntity:
		return e.acceptNewEntity(ctx, suggestion)
	case common.SuggestionExistingEntityLink:
		return e.acceptEntityLink(ctx, suggestion)
	}
	return common.InvalidOperation("Unknown suggestion type")
}

// appendSection appends the suggestion content under a markdown header at
// the end of the note. An empty note gets the section without a leading
// separator.
func (e *SuggestionEngine) appendSection(ctx context.Context, suggestion common.Suggestion, header string) error {
	note, err := e.store.GetNoteByID(ctx, suggestion.OwnerID, suggestion.NoteID)
	if err != nil {
		return err
	}

	section := header + "\n\n" + suggestion.Content
	content := section
	if note.Content != "" {
		content = note.Content + "\n\n" + section
	}

	_, err = e.store.UpdateNote(ctx, suggestion.OwnerID, suggestion.NoteID, store.NotePatch{Content: &content})
	return err
}

// acceptNewEntity creates the suggested entity, or reuses an existing one
// with the same name, and links it to the note.
func (e *SuggestionEngine) acceptNewEntity(ctx context.Context, suggestion common.Suggestion) error {
	name := cleanEntityName(suggestion.Name)
	if name == "" {
		return common.InvalidOperation("No entity name provided")
	}
	if len(name) > maxEntityNameLength {
		name = name[:maxEntityNameLength]
	}

	entity, err := e.store.FindEntityByName(ctx, suggestion.OwnerID, name)
	switch {
	case err == nil:
	case common.IsKind(err, common.KindNotFound):
		entityType := suggestion.SuggestedEntityType
		if !common.ValidEntityType(entityType) {
			entityType = common.EntityPerson
		}
		id, idErr := gonanoid.New()
		if idErr != nil {
			return idErr
		}
		entity, err = e.store.InsertEntity(ctx, common.Entity{
			ID:          id,
			OwnerID:     suggestion.OwnerID,
			Name:        name,
			Type:        entityType,
			Description: suggestion.Content,
		})
		if common.IsKind(err, common.KindConflict) {
			// Lost a race against a concurrent creation with the same name.
			entity, err = e.store.FindEntityByName(ctx, suggestion.OwnerID, name)
		}
		if err != nil {
			return err
		}
	default:
		return err
	}

	return e.notes.linkEntityIfAbsent(ctx, suggestion.NoteID, entity.ID, common.RelationIsRelatedTo)
}

func (e *SuggestionEngine) acceptEntityLink(ctx context.Context, suggestion common.Suggestion) error {
	if suggestion.SuggestedEntityID == "" {
		return common.InvalidOperation("No entity ID provided")
	}
	entity, err := e.store.GetEntityByID(ctx, suggestion.OwnerID, suggestion.SuggestedEntityID)
	if err != nil {
		return err
	}
	return e.notes.linkEntityIfAbsent(ctx, suggestion.NoteID, entity.ID, common.RelationIsRelatedTo)
}

// cleanEntityName strips a leading "label:" prefix some models produce
// (e.g. "New Entity: Aristotle") and surrounding whitespace.
func cleanEntityName(name string) string {
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}

// truncateToTokens caps text at limit tokens so an oversized note cannot
// blow the model's context window.
func truncateToTokens(text string, limit int) string {
	enc, err := tiktoken.GetEncoding(promptEncoding)
	if err != nil {
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}

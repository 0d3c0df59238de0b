package graph

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lattice-hq/lattice/backend/pkg/ai"
	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
	"github.com/lattice-hq/lattice/backend/pkg/store/memory"
)

// fakeAIClient returns a scripted response instead of calling a model.
type fakeAIClient struct {
	response   suggestionResponse
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeAIClient) GetStructuredResponse(ctx context.Context, name, description, systemPrompt, prompt string, out any, opts ...ai.GenerateOption) error {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(f.response)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeAIClient) ResetMetrics()               {}
func (f *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type suggestTestEnv struct {
	store    store.Store
	services *Services
	client   *fakeAIClient
}

func newSuggestTestEnv(t *testing.T) suggestTestEnv {
	t.Helper()
	st := memory.NewStore()
	client := &fakeAIClient{}
	services := NewServices(NewServicesParams{Store: st, AIClient: client})

	if _, err := services.Profiles.SetConsent(context.Background(), "user1", true); err != nil {
		t.Fatalf("set consent failed: %v", err)
	}
	return suggestTestEnv{store: st, services: services, client: client}
}

func (env suggestTestEnv) mustCreateNote(t *testing.T, title, content string) common.Note {
	t.Helper()
	note, err := env.services.Notes.Create(context.Background(), "user1", CreateNoteInput{
		Title:   title,
		Content: content,
	})
	if err != nil {
		t.Fatalf("create note %q failed: %v", title, err)
	}
	return note
}

// insertPending stores a pending suggestion directly, bypassing generation.
func (env suggestTestEnv) insertPending(t *testing.T, s common.Suggestion) common.Suggestion {
	t.Helper()
	s.OwnerID = "user1"
	s.Status = common.StatusPending
	stored, err := env.store.InsertSuggestions(context.Background(), []common.Suggestion{s})
	if err != nil {
		t.Fatalf("insert suggestion failed: %v", err)
	}
	return stored[0]
}

func TestGenerateRequiresConsent(t *testing.T) {
	st := memory.NewStore()
	client := &fakeAIClient{}
	services := NewServices(NewServicesParams{Store: st, AIClient: client})

	note, err := services.Notes.Create(context.Background(), "user1", CreateNoteInput{
		Title:   "Note",
		Content: "Some content long enough.",
	})
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}

	_, err = services.Suggestions.Generate(context.Background(), "user1", note.ID)
	if !common.IsKind(err, common.KindConsentRequired) {
		t.Fatalf("expected consent required, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("model must not be called without consent, got %d calls", client.calls)
	}

	// Consent withdrawn later blocks generation the same way.
	if _, err := services.Profiles.SetConsent(context.Background(), "user1", false); err != nil {
		t.Fatalf("set consent failed: %v", err)
	}
	if _, err := services.Suggestions.Generate(context.Background(), "user1", note.ID); !common.IsKind(err, common.KindConsentRequired) {
		t.Fatalf("expected consent required after withdrawal, got %v", err)
	}
}

func TestGenerateContentTooShort(t *testing.T) {
	env := newSuggestTestEnv(t)
	note := env.mustCreateNote(t, "Short", "   tiny   ")

	_, err := env.services.Suggestions.Generate(context.Background(), "user1", note.ID)
	if !common.IsKind(err, common.KindContentTooShort) {
		t.Fatalf("expected content too short, got %v", err)
	}
	if env.client.calls != 0 {
		t.Fatal("model must not be called for short content")
	}
}

func TestGenerateSuggestions(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Greek philosophy", "Plato founded the Academy in Athens.")

	plato, err := env.services.Entities.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}
	if err := env.services.Notes.AddEntityLink(ctx, "user1", note.ID, plato.ID, ""); err != nil {
		t.Fatalf("link entity failed: %v", err)
	}

	env.client.response = suggestionResponse{Suggestions: []suggestionDraft{
		{Type: "quote", Content: "Plato founded the Academy"},
		{Type: "summary", Content: "The note covers the Academy's founding."},
		{Type: "new_entity", Content: "School founded by Plato", EntityName: "The Academy", EntityType: "school"},
		{Type: "existing_entity_link", Content: "The note mentions Plato.", EntityID: plato.ID},
		{Type: "existing_entity_link", Content: "Hallucinated.", EntityID: "no-such-entity"},
		{Type: "prophecy", Content: "Not a known type."},
		{Type: "quote", Content: "   "},
	}}

	suggestions, err := env.services.Suggestions.Generate(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(suggestions) != 4 {
		t.Fatalf("expected 4 usable suggestions, got %d", len(suggestions))
	}
	for _, s := range suggestions {
		if s.Status != common.StatusPending {
			t.Fatalf("expected pending status, got %q", s.Status)
		}
		if s.NoteID != note.ID {
			t.Fatalf("suggestion bound to wrong note: %q", s.NoteID)
		}
		if s.ID == "" {
			t.Fatal("expected generated suggestion id")
		}
	}

	byType := make(map[common.SuggestionType]common.Suggestion)
	for _, s := range suggestions {
		byType[s.Type] = s
	}
	if byType[common.SuggestionNewEntity].Name != "The Academy" {
		t.Fatalf("unexpected entity name %q", byType[common.SuggestionNewEntity].Name)
	}
	if byType[common.SuggestionNewEntity].SuggestedEntityType != common.EntitySchool {
		t.Fatalf("unexpected entity type %q", byType[common.SuggestionNewEntity].SuggestedEntityType)
	}
	if byType[common.SuggestionExistingEntityLink].SuggestedEntityID != plato.ID {
		t.Fatalf("unexpected entity id %q", byType[common.SuggestionExistingEntityLink].SuggestedEntityID)
	}

	if !strings.Contains(env.client.lastPrompt, "Plato") {
		t.Fatal("prompt should include the entity roster")
	}
	if !strings.Contains(env.client.lastPrompt, note.Title) {
		t.Fatal("prompt should include the note title")
	}
	if !strings.Contains(env.client.lastPrompt, "Plato (is_related_to)") {
		t.Fatal("prompt should list entities already linked to the note")
	}
}

func TestGenerateNoUsableSuggestions(t *testing.T) {
	env := newSuggestTestEnv(t)
	note := env.mustCreateNote(t, "Empty response", "Content that is long enough.")

	env.client.response = suggestionResponse{Suggestions: []suggestionDraft{
		{Type: "oracle", Content: "bad type"},
	}}

	_, err := env.services.Suggestions.Generate(context.Background(), "user1", note.ID)
	if !common.IsKind(err, common.KindResponseValidation) {
		t.Fatalf("expected response validation error, got %v", err)
	}
}

func TestGenerateForeignNote(t *testing.T) {
	env := newSuggestTestEnv(t)
	note := env.mustCreateNote(t, "Mine", "Content that is long enough.")

	if _, err := env.services.Profiles.SetConsent(context.Background(), "user2", true); err != nil {
		t.Fatalf("set consent failed: %v", err)
	}
	_, err := env.services.Suggestions.Generate(context.Background(), "user2", note.ID)
	if !common.IsKind(err, common.KindNotFound) {
		t.Fatalf("expected not found for foreign note, got %v", err)
	}
}

func TestAcceptQuoteAppendsSection(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Quotes", "C")

	s := env.insertPending(t, common.Suggestion{
		ID:      "sug-quote",
		NoteID:  note.ID,
		Type:    common.SuggestionQuote,
		Content: "Q",
	})

	updated, err := env.services.Suggestions.UpdateStatus(ctx, "user1", s.ID, common.StatusAccepted)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if updated.Status != common.StatusAccepted {
		t.Fatalf("expected accepted, got %q", updated.Status)
	}

	got, err := env.services.Notes.GetByID(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("get note failed: %v", err)
	}
	want := "C\n\n## Quotes\n\nQ"
	if got.Content != want {
		t.Fatalf("expected content %q, got %q", want, got.Content)
	}
}

func TestAcceptSummaryOnEmptyNote(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Empty", "")

	s := env.insertPending(t, common.Suggestion{
		ID:      "sug-summary",
		NoteID:  note.ID,
		Type:    common.SuggestionSummary,
		Content: "S",
	})

	if _, err := env.services.Suggestions.UpdateStatus(ctx, "user1", s.ID, common.StatusAccepted); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	got, err := env.services.Notes.GetByID(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("get note failed: %v", err)
	}
	if got.Content != "## Summary\n\nS" {
		t.Fatalf("empty note must not get a leading separator, got %q", got.Content)
	}
}

func TestAcceptNewEntityStripsLabelPrefix(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Philosophers", "About Aristotle.")

	s := env.insertPending(t, common.Suggestion{
		ID:      "sug-entity",
		NoteID:  note.ID,
		Type:    common.SuggestionNewEntity,
		Name:    "New Entity: Aristotle",
		Content: "Student of Plato.",
	})

	if _, err := env.services.Suggestions.UpdateStatus(ctx, "user1", s.ID, common.StatusAccepted); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	entity, err := env.services.Entities.FindByName(ctx, "user1", "Aristotle")
	if err != nil {
		t.Fatalf("expected entity created, got %v", err)
	}
	if entity.Type != common.EntityPerson {
		t.Fatalf("expected person default, got %q", entity.Type)
	}
	if entity.Description != "Student of Plato." {
		t.Fatalf("expected description from suggestion, got %q", entity.Description)
	}

	got, err := env.services.Notes.GetByID(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("get note failed: %v", err)
	}
	if len(got.Links) != 1 || got.Links[0].EntityID != entity.ID {
		t.Fatalf("expected note linked to new entity, got %+v", got.Links)
	}
}

func TestAcceptNewEntityReusesExisting(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Philosophers", "About Aristotle.")

	existing, err := env.services.Entities.Create(ctx, "user1", CreateEntityInput{Name: "Aristotle", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}
	if err := env.services.Notes.AddEntityLink(ctx, "user1", note.ID, existing.ID, ""); err != nil {
		t.Fatalf("add link failed: %v", err)
	}

	s := env.insertPending(t, common.Suggestion{
		ID:      "sug-reuse",
		NoteID:  note.ID,
		Type:    common.SuggestionNewEntity,
		Name:    "Aristotle",
		Content: "Already known.",
	})

	// Entity exists and is already linked: acceptance still succeeds.
	if _, err := env.services.Suggestions.UpdateStatus(ctx, "user1", s.ID, common.StatusAccepted); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	all, err := env.services.Entities.List(ctx, "user1")
	if err != nil {
		t.Fatalf("list entities failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected no duplicate entity, got %d", len(all))
	}
	got, err := env.services.Notes.GetByID(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("get note failed: %v", err)
	}
	if len(got.Links) != 1 {
		t.Fatalf("expected single link, got %d", len(got.Links))
	}
}

func TestAcceptExistingEntityLink(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Philosophers", "About Plato.")

	plato, err := env.services.Entities.Create(ctx, "user1", CreateEntityInput{Name: "Plato", Type: common.EntityPerson})
	if err != nil {
		t.Fatalf("create entity failed: %v", err)
	}

	s := env.insertPending(t, common.Suggestion{
		ID:                "sug-link",
		NoteID:            note.ID,
		Type:              common.SuggestionExistingEntityLink,
		Name:              "Plato",
		Content:           "Mentioned.",
		SuggestedEntityID: plato.ID,
	})

	if _, err := env.services.Suggestions.UpdateStatus(ctx, "user1", s.ID, common.StatusAccepted); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	got, err := env.services.Notes.GetByID(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("get note failed: %v", err)
	}
	if len(got.Links) != 1 || got.Links[0].EntityID != plato.ID {
		t.Fatalf("expected link to entity, got %+v", got.Links)
	}
}

func TestAcceptEntityLinkWithoutID(t *testing.T) {
	env := newSuggestTestEnv(t)
	note := env.mustCreateNote(t, "Broken", "Some content here.")

	s := env.insertPending(t, common.Suggestion{
		ID:      "sug-broken",
		NoteID:  note.ID,
		Type:    common.SuggestionExistingEntityLink,
		Content: "No id.",
	})

	_, err := env.services.Suggestions.UpdateStatus(context.Background(), "user1", s.ID, common.StatusAccepted)
	if !common.IsKind(err, common.KindInvalidOperation) {
		t.Fatalf("expected invalid operation, got %v", err)
	}
}

func TestSuggestionDecisionIsTerminal(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Terminal", "Some content here.")

	s := env.insertPending(t, common.Suggestion{
		ID:      "sug-terminal",
		NoteID:  note.ID,
		Type:    common.SuggestionSummary,
		Content: "S",
	})

	if _, err := env.services.Suggestions.UpdateStatus(ctx, "user1", s.ID, common.StatusRejected); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	for _, target := range []common.SuggestionStatus{common.StatusAccepted, common.StatusRejected} {
		if _, err := env.services.Suggestions.UpdateStatus(ctx, "user1", s.ID, target); !common.IsKind(err, common.KindInvalidStateTransition) {
			t.Fatalf("expected invalid state transition to %s, got %v", target, err)
		}
	}

	// Rejection leaves the note untouched.
	got, err := env.services.Notes.GetByID(ctx, "user1", note.ID)
	if err != nil {
		t.Fatalf("get note failed: %v", err)
	}
	if got.Content != "Some content here." {
		t.Fatalf("rejected suggestion must not modify the note, got %q", got.Content)
	}
}

func TestUpdateStatusRejectsInvalidTarget(t *testing.T) {
	env := newSuggestTestEnv(t)
	note := env.mustCreateNote(t, "Target", "Some content here.")

	s := env.insertPending(t, common.Suggestion{
		ID:      "sug-target",
		NoteID:  note.ID,
		Type:    common.SuggestionSummary,
		Content: "S",
	})

	_, err := env.services.Suggestions.UpdateStatus(context.Background(), "user1", s.ID, common.StatusPending)
	if !common.IsKind(err, common.KindInvalidStateTransition) {
		t.Fatalf("expected invalid state transition, got %v", err)
	}
}

func TestListSuggestionsOwnership(t *testing.T) {
	env := newSuggestTestEnv(t)
	ctx := context.Background()
	note := env.mustCreateNote(t, "Mine", "Some content here.")

	env.insertPending(t, common.Suggestion{
		ID:      "sug-list",
		NoteID:  note.ID,
		Type:    common.SuggestionSummary,
		Content: "S",
	})

	if _, err := env.services.Suggestions.List(ctx, "user2", note.ID, nil); !common.IsKind(err, common.KindNotFound) {
		t.Fatalf("expected not found for foreign note, got %v", err)
	}

	listed, err := env.services.Suggestions.List(ctx, "user1", note.ID, []common.SuggestionStatus{common.StatusPending})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(listed))
	}

	if _, err := env.services.Suggestions.List(ctx, "user1", note.ID, []common.SuggestionStatus{"lost"}); !common.IsKind(err, common.KindValidation) {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}
}

func TestCleanEntityName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Aristotle", "Aristotle"},
		{"New Entity: Aristotle", "Aristotle"},
		{"entity: The Academy ", "The Academy"},
		{"  Plato  ", "Plato"},
		{":", ""},
	}
	for _, tt := range tests {
		if got := cleanEntityName(tt.in); got != tt.want {
			t.Fatalf("cleanEntityName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

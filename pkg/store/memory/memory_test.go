package memory

import (
	"context"
	"testing"

	"github.com/lattice-hq/lattice/backend/pkg/common"
)

func TestUpdateSuggestionStatusIfPending(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	if _, err := st.InsertSuggestions(ctx, []common.Suggestion{{
		ID:      "sug1",
		OwnerID: "user1",
		NoteID:  "note1",
		Type:    common.SuggestionSummary,
		Status:  common.StatusPending,
		Content: "S",
	}}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	moved, err := st.UpdateSuggestionStatusIfPending(ctx, "user1", "sug1", common.StatusAccepted)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !moved {
		t.Fatal("expected the pending row to move")
	}

	// Second decision loses: the row is no longer pending.
	moved, err = st.UpdateSuggestionStatusIfPending(ctx, "user1", "sug1", common.StatusRejected)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if moved {
		t.Fatal("non-pending row must not move")
	}

	got, err := st.GetSuggestionByID(ctx, "user1", "sug1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != common.StatusAccepted {
		t.Fatalf("expected accepted to stick, got %q", got.Status)
	}

	if _, err := st.UpdateSuggestionStatusIfPending(ctx, "user2", "sug1", common.StatusAccepted); !common.IsKind(err, common.KindNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
}

func TestInsertNoteLinkConflict(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	link := common.NoteEntityLink{NoteID: "note1", EntityID: "ent1", Type: common.RelationIsRelatedTo}
	if err := st.InsertNoteLink(ctx, link); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := st.InsertNoteLink(ctx, link); !common.IsKind(err, common.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	removed, err := st.DeleteNoteLinks(ctx, "note1")
	if err != nil {
		t.Fatalf("delete links failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != "ent1" {
		t.Fatalf("expected removed entity ids, got %v", removed)
	}
}

package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lattice-hq/lattice/backend/pkg/common"
)

const suggestionMissingMsg = "Suggestion not found"

// InsertSuggestions persists a generation batch in a single transaction so a
// partially written batch never becomes visible.
func (s *Store) InsertSuggestions(ctx context.Context, suggestions []common.Suggestion) ([]common.Suggestion, error) {
	if len(suggestions) == 0 {
		return []common.Suggestion{}, nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]common.Suggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		row := tx.QueryRow(ctx, `
			INSERT INTO suggestions
				(id, owner_id, note_id, type, status, name, content,
				 suggested_entity_id, suggested_entity_type, generation_duration_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10)
			RETURNING created_at, updated_at`,
			sg.ID, sg.OwnerID, sg.NoteID, string(sg.Type), string(sg.Status),
			sg.Name, sg.Content, sg.SuggestedEntityID, string(sg.SuggestedEntityType),
			sg.GenerationDurationMs,
		)
		if err := row.Scan(&sg.CreatedAt, &sg.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sg)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetSuggestionByID(ctx context.Context, ownerID, id string) (common.Suggestion, error) {
	sg := common.Suggestion{ID: id, OwnerID: ownerID}
	var entityID, entityType *string
	row := s.conn.QueryRow(ctx, `
		SELECT note_id, type, status, name, content,
		       suggested_entity_id, suggested_entity_type,
		       generation_duration_ms, created_at, updated_at
		FROM suggestions
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	err := row.Scan(
		&sg.NoteID, &sg.Type, &sg.Status, &sg.Name, &sg.Content,
		&entityID, &entityType,
		&sg.GenerationDurationMs, &sg.CreatedAt, &sg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.Suggestion{}, common.NotFound(suggestionMissingMsg)
		}
		return common.Suggestion{}, err
	}
	if entityID != nil {
		sg.SuggestedEntityID = *entityID
	}
	if entityType != nil {
		sg.SuggestedEntityType = common.EntityType(*entityType)
	}
	return sg, nil
}

func (s *Store) ListSuggestions(ctx context.Context, ownerID, noteID string, statuses []common.SuggestionStatus) ([]common.Suggestion, error) {
	where := []string{"owner_id = $1", "note_id = $2"}
	args := []any{ownerID, noteID}

	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, st := range statuses {
			values = append(values, string(st))
		}
		args = append(args, values)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	rows, err := s.conn.Query(ctx, fmt.Sprintf(`
		SELECT id, type, status, name, content,
		       suggested_entity_id, suggested_entity_type,
		       generation_duration_ms, created_at, updated_at
		FROM suggestions
		WHERE %s
		ORDER BY created_at DESC, id DESC`, strings.Join(where, " AND ")),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Suggestion, 0)
	for rows.Next() {
		sg := common.Suggestion{OwnerID: ownerID, NoteID: noteID}
		var entityID, entityType *string
		err := rows.Scan(
			&sg.ID, &sg.Type, &sg.Status, &sg.Name, &sg.Content,
			&entityID, &entityType,
			&sg.GenerationDurationMs, &sg.CreatedAt, &sg.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if entityID != nil {
			sg.SuggestedEntityID = *entityID
		}
		if entityType != nil {
			sg.SuggestedEntityType = common.EntityType(*entityType)
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

// UpdateSuggestionStatusIfPending issues the transition as one conditional
// write, so two concurrent calls can never both succeed.
func (s *Store) UpdateSuggestionStatusIfPending(ctx context.Context, ownerID, id string, status common.SuggestionStatus) (bool, error) {
	ct, err := s.conn.Exec(ctx, `
		UPDATE suggestions
		SET status = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND status = 'pending'`,
		id, ownerID, string(status),
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (s *Store) GetProfile(ctx context.Context, ownerID string) (*common.Profile, error) {
	p := common.Profile{OwnerID: ownerID}
	row := s.conn.QueryRow(ctx, `
		SELECT has_agreed_to_ai_processing, updated_at
		FROM profiles
		WHERE owner_id = $1`,
		ownerID,
	)
	if err := row.Scan(&p.HasAgreedToAIProcessing, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpsertProfileConsent(ctx context.Context, ownerID string, agreed bool) (*common.Profile, error) {
	p := common.Profile{OwnerID: ownerID, HasAgreedToAIProcessing: agreed}
	row := s.conn.QueryRow(ctx, `
		INSERT INTO profiles (owner_id, has_agreed_to_ai_processing)
		VALUES ($1, $2)
		ON CONFLICT (owner_id)
		DO UPDATE SET has_agreed_to_ai_processing = $2, updated_at = now()
		RETURNING updated_at`,
		ownerID, agreed,
	)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

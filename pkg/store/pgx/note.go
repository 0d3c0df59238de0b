package pgx

import (
	"context"
	"fmt"
	"strings"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

const (
	noteConflictMsg = "A note with this title already exists"
	noteMissingMsg  = "Note not found"
	linkConflictMsg = "This entity is already linked to the note"
	linkMissingMsg  = "Link not found"
)

func (s *Store) InsertNote(ctx context.Context, note common.Note) (common.Note, error) {
	row := s.conn.QueryRow(ctx, `
		INSERT INTO notes (id, owner_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		note.ID, note.OwnerID, note.Title, note.Content,
	)
	if err := row.Scan(&note.CreatedAt, &note.UpdatedAt); err != nil {
		return common.Note{}, translate(err, noteConflictMsg, noteMissingMsg)
	}
	note.Links = nil
	return note, nil
}

func (s *Store) GetNoteByID(ctx context.Context, ownerID, id string) (common.Note, error) {
	n := common.Note{ID: id, OwnerID: ownerID}
	row := s.conn.QueryRow(ctx, `
		SELECT title, content, created_at, updated_at
		FROM notes
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err := row.Scan(&n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return common.Note{}, translate(err, noteConflictMsg, noteMissingMsg)
	}

	links, err := s.ListNoteLinks(ctx, id)
	if err != nil {
		return common.Note{}, err
	}
	n.Links = links
	return n, nil
}

func (s *Store) ListNotes(ctx context.Context, ownerID string, query store.NoteQuery) ([]common.Note, int, error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	if query.Search != "" {
		args = append(args, "%"+query.Search+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if query.EntityID != "" {
		args = append(args, query.EntityID)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM note_entity_links l WHERE l.note_id = notes.id AND l.entity_id = $%d)",
			len(args),
		))
	}

	// Sort keys are whitelisted; anything else falls back to newest first.
	orderBy := "created_at DESC"
	switch query.Sort {
	case "title":
		orderBy = "LOWER(title)"
	case "updated_at":
		orderBy = "updated_at DESC"
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := s.conn.Query(ctx, fmt.Sprintf(`
		SELECT id, title, content, created_at, updated_at, COUNT(*) OVER() AS total
		FROM notes
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), orderBy, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	out := make([]common.Note, 0)
	for rows.Next() {
		n := common.Note{OwnerID: ownerID}
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		links, err := s.ListNoteLinks(ctx, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].Links = links
	}
	return out, total, nil
}

func (s *Store) ListAllNotes(ctx context.Context, ownerID string) ([]common.Note, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, title, content, created_at, updated_at
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Note, 0)
	for rows.Next() {
		n := common.Note{OwnerID: ownerID}
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UpdateNote(ctx context.Context, ownerID, id string, patch store.NotePatch) (common.Note, error) {
	n := common.Note{ID: id, OwnerID: ownerID}
	row := s.conn.QueryRow(ctx, `
		UPDATE notes
		SET title      = COALESCE($3, title),
		    content    = COALESCE($4, content),
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING title, content, created_at, updated_at`,
		id, ownerID, patch.Title, patch.Content,
	)
	if err := row.Scan(&n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return common.Note{}, translate(err, noteConflictMsg, noteMissingMsg)
	}

	links, err := s.ListNoteLinks(ctx, id)
	if err != nil {
		return common.Note{}, err
	}
	n.Links = links
	return n, nil
}

func (s *Store) DeleteNote(ctx context.Context, ownerID, id string) error {
	ct, err := s.conn.Exec(ctx, `
		DELETE FROM notes WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return common.NotFound(noteMissingMsg)
	}
	return nil
}

func (s *Store) FindNoteByTitle(ctx context.Context, ownerID, title string) (common.Note, error) {
	n := common.Note{OwnerID: ownerID, Title: title}
	row := s.conn.QueryRow(ctx, `
		SELECT id, content, created_at, updated_at
		FROM notes
		WHERE owner_id = $1 AND title = $2`,
		ownerID, title,
	)
	if err := row.Scan(&n.ID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return common.Note{}, translate(err, noteConflictMsg, noteMissingMsg)
	}
	return n, nil
}

func (s *Store) InsertNoteLink(ctx context.Context, link common.NoteEntityLink) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO note_entity_links (note_id, entity_id, type)
		VALUES ($1, $2, $3)`,
		link.NoteID, link.EntityID, string(link.Type),
	)
	return translate(err, linkConflictMsg, linkMissingMsg)
}

func (s *Store) DeleteNoteLink(ctx context.Context, noteID, entityID string) error {
	ct, err := s.conn.Exec(ctx, `
		DELETE FROM note_entity_links WHERE note_id = $1 AND entity_id = $2`,
		noteID, entityID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return common.NotFound(linkMissingMsg)
	}
	return nil
}

func (s *Store) DeleteNoteLinks(ctx context.Context, noteID string) ([]string, error) {
	rows, err := s.conn.Query(ctx, `
		DELETE FROM note_entity_links WHERE note_id = $1
		RETURNING entity_id`,
		noteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var entityID string
		if err := rows.Scan(&entityID); err != nil {
			return nil, err
		}
		out = append(out, entityID)
	}
	return out, rows.Err()
}

func (s *Store) ListNoteLinks(ctx context.Context, noteID string) ([]common.NoteEntityLink, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT note_id, entity_id, type, created_at
		FROM note_entity_links
		WHERE note_id = $1
		ORDER BY created_at`,
		noteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.NoteEntityLink, 0)
	for rows.Next() {
		l := common.NoteEntityLink{}
		if err := rows.Scan(&l.NoteID, &l.EntityID, &l.Type, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) ListLinksByOwner(ctx context.Context, ownerID string) ([]common.NoteEntityLink, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT l.note_id, l.entity_id, l.type, l.created_at
		FROM note_entity_links l
		JOIN notes n ON n.id = l.note_id
		WHERE n.owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.NoteEntityLink, 0)
	for rows.Next() {
		l := common.NoteEntityLink{}
		if err := rows.Scan(&l.NoteID, &l.EntityID, &l.Type, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) CountLinksForEntity(ctx context.Context, entityID string) (int, error) {
	count := 0
	row := s.conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM note_entity_links WHERE entity_id = $1`,
		entityID,
	)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) DeleteLinksForEntity(ctx context.Context, entityID string) error {
	_, err := s.conn.Exec(ctx, `
		DELETE FROM note_entity_links WHERE entity_id = $1`,
		entityID,
	)
	return err
}

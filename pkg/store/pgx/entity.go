package pgx

import (
	"context"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

const (
	entityConflictMsg = "An entity with this name already exists"
	entityMissingMsg  = "Entity not found"
)

func (s *Store) InsertEntity(ctx context.Context, entity common.Entity) (common.Entity, error) {
	row := s.conn.QueryRow(ctx, `
		INSERT INTO entities (id, owner_id, name, type, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		entity.ID, entity.OwnerID, entity.Name, string(entity.Type), entity.Description,
	)
	if err := row.Scan(&entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return common.Entity{}, translate(err, entityConflictMsg, entityMissingMsg)
	}
	return entity, nil
}

func (s *Store) GetEntityByID(ctx context.Context, ownerID, id string) (common.Entity, error) {
	e := common.Entity{ID: id, OwnerID: ownerID}
	row := s.conn.QueryRow(ctx, `
		SELECT name, type, description, created_at, updated_at
		FROM entities
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err := row.Scan(&e.Name, &e.Type, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return common.Entity{}, translate(err, entityConflictMsg, entityMissingMsg)
	}
	return e, nil
}

func (s *Store) ListEntities(ctx context.Context, ownerID string) ([]common.EntityWithNoteCount, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT e.id, e.name, e.type, e.description, e.created_at, e.updated_at,
		       COUNT(l.note_id) AS note_count
		FROM entities e
		LEFT JOIN note_entity_links l ON l.entity_id = e.id
		WHERE e.owner_id = $1
		GROUP BY e.id
		ORDER BY LOWER(e.name)`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.EntityWithNoteCount, 0)
	for rows.Next() {
		e := common.EntityWithNoteCount{}
		e.OwnerID = ownerID
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.CreatedAt, &e.UpdatedAt, &e.NoteCount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEntity(ctx context.Context, ownerID, id string, patch store.EntityPatch) (common.Entity, error) {
	var entityType *string
	if patch.Type != nil {
		t := string(*patch.Type)
		entityType = &t
	}

	e := common.Entity{ID: id, OwnerID: ownerID}
	row := s.conn.QueryRow(ctx, `
		UPDATE entities
		SET name        = COALESCE($3, name),
		    type        = COALESCE($4, type),
		    description = COALESCE($5, description),
		    updated_at  = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING name, type, description, created_at, updated_at`,
		id, ownerID, patch.Name, entityType, patch.Description,
	)
	if err := row.Scan(&e.Name, &e.Type, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return common.Entity{}, translate(err, entityConflictMsg, entityMissingMsg)
	}
	return e, nil
}

func (s *Store) DeleteEntity(ctx context.Context, ownerID, id string) error {
	ct, err := s.conn.Exec(ctx, `
		DELETE FROM entities WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return common.NotFound(entityMissingMsg)
	}
	return nil
}

func (s *Store) FindEntityByName(ctx context.Context, ownerID, name string) (common.Entity, error) {
	e := common.Entity{OwnerID: ownerID, Name: name}
	row := s.conn.QueryRow(ctx, `
		SELECT id, type, description, created_at, updated_at
		FROM entities
		WHERE owner_id = $1 AND name = $2`,
		ownerID, name,
	)
	if err := row.Scan(&e.ID, &e.Type, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return common.Entity{}, translate(err, entityConflictMsg, entityMissingMsg)
	}
	return e, nil
}

func (s *Store) GetEntitiesByIDs(ctx context.Context, ownerID string, ids []string) ([]common.Entity, error) {
	if len(ids) == 0 {
		return []common.Entity{}, nil
	}
	rows, err := s.conn.Query(ctx, `
		SELECT id, name, type, description, created_at, updated_at
		FROM entities
		WHERE owner_id = $1 AND id = ANY($2)`,
		ownerID, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Entity, 0, len(ids))
	for rows.Next() {
		e := common.Entity{OwnerID: ownerID}
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

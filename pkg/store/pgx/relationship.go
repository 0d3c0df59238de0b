package pgx

import (
	"context"
	"fmt"
	"strings"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

const (
	relationshipConflictMsg = "A relationship between these entities already exists"
	relationshipMissingMsg  = "Relationship not found"
)

func (s *Store) InsertRelationship(ctx context.Context, rel common.Relationship) (common.Relationship, error) {
	row := s.conn.QueryRow(ctx, `
		INSERT INTO relationships (id, owner_id, source_id, target_id, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		rel.ID, rel.OwnerID, rel.SourceID, rel.TargetID, string(rel.Type),
	)
	if err := row.Scan(&rel.CreatedAt); err != nil {
		return common.Relationship{}, translate(err, relationshipConflictMsg, relationshipMissingMsg)
	}
	return rel, nil
}

func (s *Store) UpdateRelationshipType(ctx context.Context, ownerID, id string, relType common.RelationType) (common.Relationship, error) {
	rel := common.Relationship{ID: id, OwnerID: ownerID, Type: relType}
	row := s.conn.QueryRow(ctx, `
		UPDATE relationships
		SET type = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING source_id, target_id, created_at`,
		id, ownerID, string(relType),
	)
	if err := row.Scan(&rel.SourceID, &rel.TargetID, &rel.CreatedAt); err != nil {
		return common.Relationship{}, translate(err, relationshipConflictMsg, relationshipMissingMsg)
	}
	return rel, nil
}

func (s *Store) DeleteRelationship(ctx context.Context, ownerID, id string) error {
	ct, err := s.conn.Exec(ctx, `
		DELETE FROM relationships WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return common.NotFound(relationshipMissingMsg)
	}
	return nil
}

func (s *Store) ListRelationships(ctx context.Context, ownerID string, filter store.RelationshipFilter) ([]common.Relationship, error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	if filter.SourceID != "" {
		args = append(args, filter.SourceID)
		where = append(where, fmt.Sprintf("source_id = $%d", len(args)))
	}
	if filter.TargetID != "" {
		args = append(args, filter.TargetID)
		where = append(where, fmt.Sprintf("target_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}

	rows, err := s.conn.Query(ctx, fmt.Sprintf(`
		SELECT id, source_id, target_id, type, created_at
		FROM relationships
		WHERE %s
		ORDER BY created_at DESC`, strings.Join(where, " AND ")),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]common.Relationship, 0)
	for rows.Next() {
		rel := common.Relationship{OwnerID: ownerID}
		if err := rows.Scan(&rel.ID, &rel.SourceID, &rel.TargetID, &rel.Type, &rel.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

func (s *Store) DeleteRelationshipsForEntity(ctx context.Context, ownerID, entityID string) error {
	_, err := s.conn.Exec(ctx, `
		DELETE FROM relationships
		WHERE owner_id = $1 AND (source_id = $2 OR target_id = $2)`,
		ownerID, entityID,
	)
	return err
}

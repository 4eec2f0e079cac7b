package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
)

// ScriptRepository stores script documents as JSONB rows.
type ScriptRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewScriptRepository(db *sql.DB, logger *slog.Logger) *ScriptRepository {
	return &ScriptRepository{db: db, logger: logger}
}

func (r *ScriptRepository) Save(ctx context.Context, script *models.Script) error {
	document, err := json.Marshal(script)
	if err != nil {
		return persistence.NewScriptError("Save", script.Name, err)
	}

	query := `
		INSERT INTO scripts (name, version, document, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE
		SET version = EXCLUDED.version, document = EXCLUDED.document, updated_at = NOW()
	`

	_, err = r.db.ExecContext(ctx, query, script.Name, script.Version, document)
	if err != nil {
		return persistence.NewScriptError("Save", script.Name, err)
	}

	return nil
}

func (r *ScriptRepository) GetByName(ctx context.Context, name string) (*models.Script, error) {
	var document []byte

	err := r.db.QueryRowContext(ctx, "SELECT document FROM scripts WHERE name = $1", name).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewScriptError("GetByName", name, persistence.ErrScriptNotFound)
		}

		return nil, persistence.NewScriptError("GetByName", name, err)
	}

	var script models.Script
	if err := json.Unmarshal(document, &script); err != nil {
		return nil, persistence.NewScriptError("GetByName", name, err)
	}

	script.BuildIndexes()

	return &script, nil
}

func (r *ScriptRepository) GetAll(ctx context.Context) ([]*models.Script, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT document FROM scripts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query scripts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scripts []*models.Script

	for rows.Next() {
		var document []byte

		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan script row: %w", err)
		}

		var script models.Script
		if err := json.Unmarshal(document, &script); err != nil {
			return nil, fmt.Errorf("failed to decode script document: %w", err)
		}

		script.BuildIndexes()
		scripts = append(scripts, &script)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate script rows: %w", err)
	}

	return scripts, nil
}

func (r *ScriptRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM scripts WHERE name = $1", name)
	if err != nil {
		return persistence.NewScriptError("Delete", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewScriptError("Delete", name, err)
	}

	if affected == 0 {
		return persistence.NewScriptError("Delete", name, persistence.ErrScriptNotFound)
	}

	return nil
}

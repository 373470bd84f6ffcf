package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/workflow"
)

func (q *queries) CreateAsset(ctx context.Context, a *models.ProjectAsset) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO project_assets (id, project_id, uploaded_by, asset_type, filename, storage_key, metadata, version, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.ProjectID, a.UploadedBy, a.AssetType, a.Filename, a.StorageKey, []byte(a.Metadata), a.Version, a.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// NextAssetVersion numbers re-uploads of the same filename; rows are
// never overwritten.
func (q *queries) NextAssetVersion(ctx context.Context, projectID uuid.UUID, filename string) (int, error) {
	var version int
	err := q.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM project_assets
		WHERE project_id = $1 AND filename = $2
	`, projectID, filename).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to compute asset version: %w", err)
	}
	return version, nil
}

func (q *queries) GetAsset(ctx context.Context, id uuid.UUID) (*models.ProjectAsset, error) {
	var a models.ProjectAsset
	var metadata []byte
	err := q.db.QueryRowContext(ctx, `
		SELECT id, project_id, uploaded_by, asset_type, filename, storage_key, metadata, version, uploaded_at
		FROM project_assets
		WHERE id = $1
	`, id).Scan(&a.ID, &a.ProjectID, &a.UploadedBy, &a.AssetType, &a.Filename, &a.StorageKey, &metadata, &a.Version, &a.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset: %w", workflow.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	a.Metadata = metadata
	return &a, nil
}

func (q *queries) ListAssets(ctx context.Context, projectID uuid.UUID) ([]models.ProjectAsset, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, uploaded_by, asset_type, filename, storage_key, metadata, version, uploaded_at
		FROM project_assets
		WHERE project_id = $1
		ORDER BY uploaded_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.ProjectAsset
	for rows.Next() {
		var a models.ProjectAsset
		var metadata []byte
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.UploadedBy, &a.AssetType, &a.Filename, &a.StorageKey, &metadata, &a.Version, &a.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		a.Metadata = metadata
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/storage"
	"newsflow-backend/internal/workflow"
)

// AssetStore is the read side the asset endpoints use outside the
// engine's transactions.
type AssetStore interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*models.ProjectAsset, error)
	ListAssets(ctx context.Context, projectID uuid.UUID) ([]models.ProjectAsset, error)
	UserAssignedToProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

type AssetsHandler struct {
	db     AssetStore
	engine *workflow.Engine
	blobs  storage.BlobStore
}

func NewAssetsHandler(db AssetStore, engine *workflow.Engine, blobs storage.BlobStore) *AssetsHandler {
	return &AssetsHandler{
		db:     db,
		engine: engine,
		blobs:  blobs,
	}
}

// Upload stores one or more files in the blob store and records each as
// a project asset with an upload audit row. Failures are collected
// per file; one bad file never voids the others.
func (h *AssetsHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.db.GetProject(c.Request.Context(), projectID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	canView, err := workflow.CanView(c.Request.Context(), h.db, userID, project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to check access", Message: err.Error()})
		return
	}
	if !canView {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to parse multipart form", Message: err.Error()})
		return
	}

	form := c.Request.MultipartForm
	files := form.File["files[]"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no files uploaded"})
		return
	}

	assetType := c.Request.FormValue("asset_type")
	metadata := json.RawMessage(nil)
	if raw := c.Request.FormValue("metadata"); raw != "" {
		if !json.Valid([]byte(raw)) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "metadata must be valid JSON"})
			return
		}
		metadata = json.RawMessage(raw)
	}

	var (
		assets     []models.AssetResponse
		uploadErrs []string
	)
	for _, fh := range files {
		if fh.Filename == "" {
			continue
		}
		filename := filepath.Base(fh.Filename)

		f, err := fh.Open()
		if err != nil {
			uploadErrs = append(uploadErrs, fmt.Sprintf("%s: %v", filename, err))
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			uploadErrs = append(uploadErrs, fmt.Sprintf("%s: %v", filename, err))
			continue
		}

		key := fmt.Sprintf("projects/%s/%s_%s",
			projectID, time.Now().UTC().Format("20060102_150405.000000"), filename)
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := h.blobs.Put(key, data, contentType); err != nil {
			uploadErrs = append(uploadErrs, fmt.Sprintf("%s: %v", filename, err))
			continue
		}

		asset, err := h.engine.AttachAsset(c.Request.Context(), userID, projectID, assetType, filename, key, metadata)
		if err != nil {
			// The asset row failed, so the blob is orphaned; remove it.
			if delErr := h.blobs.Delete(key); delErr != nil {
				uploadErrs = append(uploadErrs, fmt.Sprintf("%s: orphaned blob %s: %v", filename, key, delErr))
			}
			uploadErrs = append(uploadErrs, fmt.Sprintf("%s: %v", filename, err))
			continue
		}
		assets = append(assets, assetResponse(asset))
	}

	c.JSON(http.StatusOK, models.UploadResponse{Assets: assets, Errors: uploadErrs})
}

func (h *AssetsHandler) ListAssets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.db.GetProject(c.Request.Context(), projectID)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	canView, err := workflow.CanView(c.Request.Context(), h.db, userID, project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to check access", Message: err.Error()})
		return
	}
	if !canView {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
		return
	}

	list, err := h.db.ListAssets(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list assets", Message: err.Error()})
		return
	}

	responses := make([]models.AssetResponse, len(list))
	for i := range list {
		responses[i] = assetResponse(&list[i])
	}
	c.JSON(http.StatusOK, models.AssetListResponse{Assets: responses})
}

// Download streams an asset's bytes to any user with read access to its
// project.
func (h *AssetsHandler) Download(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	assetID, ok := pathUUID(c, "asset_id")
	if !ok {
		return
	}

	asset, err := h.db.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	project, err := h.db.GetProject(c.Request.Context(), asset.ProjectID)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	canView, err := workflow.CanView(c.Request.Context(), h.db, userID, project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to check access", Message: err.Error()})
		return
	}
	if !canView {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
		return
	}

	data, err := h.blobs.Get(asset.StorageKey)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "file not found", Message: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.Filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

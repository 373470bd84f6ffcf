package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsflow-backend/internal/handlers"
	"newsflow-backend/internal/middleware"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/storage"
	"newsflow-backend/internal/workflow"
)

// uploadStore backs the upload endpoint with a single in-memory project.
// CreateAsset fails for failFilename to exercise per-file error paths.
type uploadStore struct {
	project      models.Project
	assets       []models.ProjectAsset
	actions      []models.WorkflowAction
	failFilename string
}

func (s *uploadStore) InTx(_ context.Context, fn func(workflow.Store) error) error {
	return fn(s)
}

func (s *uploadStore) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if id != s.project.ID {
		return nil, fmt.Errorf("project: %w", workflow.ErrNotFound)
	}
	p := s.project
	return &p, nil
}

func (s *uploadStore) GetProjectForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.GetProject(ctx, id)
}

func (s *uploadStore) GetAsset(_ context.Context, id uuid.UUID) (*models.ProjectAsset, error) {
	for i := range s.assets {
		if s.assets[i].ID == id {
			return &s.assets[i], nil
		}
	}
	return nil, fmt.Errorf("asset: %w", workflow.ErrNotFound)
}

func (s *uploadStore) ListAssets(_ context.Context, projectID uuid.UUID) ([]models.ProjectAsset, error) {
	var out []models.ProjectAsset
	for _, a := range s.assets {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *uploadStore) UserAssignedToProject(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (s *uploadStore) NextAssetVersion(_ context.Context, projectID uuid.UUID, filename string) (int, error) {
	max := 0
	for _, a := range s.assets {
		if a.ProjectID == projectID && a.Filename == filename && a.Version > max {
			max = a.Version
		}
	}
	return max + 1, nil
}

func (s *uploadStore) CreateAsset(_ context.Context, a *models.ProjectAsset) error {
	if a.Filename == s.failFilename {
		return errors.New("insert failed")
	}
	s.assets = append(s.assets, *a)
	return nil
}

func (s *uploadStore) CreateAction(_ context.Context, a *models.WorkflowAction) error {
	s.actions = append(s.actions, *a)
	return nil
}

func (s *uploadStore) GetUser(context.Context, uuid.UUID) (*models.User, error) {
	return nil, fmt.Errorf("user: %w", workflow.ErrNotFound)
}

func (s *uploadStore) CreateProject(context.Context, *models.Project) error { return nil }

func (s *uploadStore) UpdateProject(context.Context, *models.Project) error { return nil }

func (s *uploadStore) DeleteProject(context.Context, uuid.UUID) error { return nil }

func (s *uploadStore) CreateStep(context.Context, *models.ProjectStep) error { return nil }

func (s *uploadStore) UpdateStep(context.Context, *models.ProjectStep) error { return nil }

func (s *uploadStore) DeleteSteps(context.Context, uuid.UUID) error { return nil }
func (s *uploadStore) CreateNotification(context.Context, *models.Notification) error {
	return nil
}

func (s *uploadStore) ListSteps(context.Context, uuid.UUID) ([]models.ProjectStep, error) {
	return nil, nil
}

func (s *uploadStore) GetStep(context.Context, uuid.UUID, int) (*models.ProjectStep, error) {
	return nil, fmt.Errorf("step: %w", workflow.ErrNotFound)
}

func newUploadStore(owner uuid.UUID) *uploadStore {
	return &uploadStore{
		project: models.Project{
			ID:                uuid.New(),
			Name:              "Morning Brief",
			OwnerID:           owner,
			Status:            models.ProjectInProgress,
			CurrentStepNumber: sql.NullInt64{Int64: 1, Valid: true},
			CreatedAt:         time.Now().UTC(),
			UpdatedAt:         time.Now().UTC(),
		},
	}
}

func uploadRouter(handler *handlers.AssetsHandler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
	})
	router.POST("/api/v1/projects/:project_id/upload", handler.Upload)
	return router
}

func multipartBody(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("files[]", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.WriteField("asset_type", "document"))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestUpload_PartialFailureKeepsGoodFiles(t *testing.T) {
	owner := uuid.New()
	store := newUploadStore(owner)
	store.failFilename = "bad.docx"

	dir := t.TempDir()
	blobs, err := storage.NewDiskStore(dir)
	require.NoError(t, err)

	handler := handlers.NewAssetsHandler(store, workflow.NewEngine(store), blobs)
	router := uploadRouter(handler, owner)

	body, contentType := multipartBody(t, "good.docx", "bad.docx")
	req := httptest.NewRequest("POST", "/api/v1/projects/"+store.project.ID.String()+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// The good file's asset survives the bad file's failure.
	require.Len(t, resp.Assets, 1)
	assert.Equal(t, "good.docx", resp.Assets[0].Filename)
	assert.Equal(t, 1, resp.Assets[0].Version)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "bad.docx")

	require.Len(t, store.assets, 1)
	assert.Equal(t, "good.docx", store.assets[0].Filename)

	// Only the good blob remains; the failed file's blob was removed.
	assert.Equal(t, 1, countFiles(t, dir))
	data, err := blobs.Get(resp.Assets[0].StorageKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("content of good.docx"), data)
}

func TestUpload_AllFilesSucceed(t *testing.T) {
	owner := uuid.New()
	store := newUploadStore(owner)

	blobs, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	handler := handlers.NewAssetsHandler(store, workflow.NewEngine(store), blobs)
	router := uploadRouter(handler, owner)

	body, contentType := multipartBody(t, "draft.docx", "cover.png")
	req := httptest.NewRequest("POST", "/api/v1/projects/"+store.project.ID.String()+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Assets, 2)
	assert.Empty(t, resp.Errors)
	assert.Len(t, store.actions, 2)
}

func TestUpload_OutsiderForbidden(t *testing.T) {
	store := newUploadStore(uuid.New())

	blobs, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	handler := handlers.NewAssetsHandler(store, workflow.NewEngine(store), blobs)
	router := uploadRouter(handler, uuid.New())

	body, contentType := multipartBody(t, "draft.docx")
	req := httptest.NewRequest("POST", "/api/v1/projects/"+store.project.ID.String()+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

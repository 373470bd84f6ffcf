package storage

import (
	"bytes"
	"fmt"

	storage "github.com/supabase-community/storage-go"
)

// SupabaseStore keeps blobs in a Supabase Storage bucket.
type SupabaseStore struct {
	client *storage.Client
	bucket string
}

func NewSupabaseStore(supabaseURL, serviceKey, bucket string) (*SupabaseStore, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &SupabaseStore{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *SupabaseStore) Put(key string, data []byte, contentType string) error {
	// Assets are immutable; never upsert over an existing key.
	upsert := false
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (s *SupabaseStore) Get(key string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}

func (s *SupabaseStore) Delete(key string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{key})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ABOUTME: Avatar upload to Supabase storage
// ABOUTME: Stores JPEGs under avatars/ and returns the public URL
package avatar

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	supabase "github.com/supabase-community/supabase-go"
)

const bucket = "avatar"

// Uploader pushes customer photos to the clinic's Supabase storage bucket.
// The bucket is public, so the returned URL resolves without auth.
type Uploader struct {
	storage *storage.Client
}

// NewUploader builds an uploader from SUPABASE_URL and SUPABASE_ANON_KEY.
func NewUploader() (*Uploader, error) {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_ANON_KEY")
	if url == "" || key == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be set")
	}

	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Uploader{storage: client.Storage}, nil
}

// Upload stores JPEG bytes under a fresh avatars/ key and returns the public
// URL to put on the customer record.
func (u *Uploader) Upload(data []byte) (string, error) {
	name := fmt.Sprintf("avatars/%s.jpg", uuid.NewString())

	contentType := "image/jpeg"
	cacheControl := "3600"
	upsert := false
	_, err := u.storage.UploadFile(bucket, name, bytes.NewReader(data), storage.FileOptions{
		ContentType:  &contentType,
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	res := u.storage.GetPublicUrl(bucket, name)
	if res.SignedURL == "" {
		return "", fmt.Errorf("upload succeeded but no public URL was returned")
	}
	return res.SignedURL, nil
}

// UploadFile reads a local JPEG and uploads it.
func (u *Uploader) UploadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return u.Upload(data)
}

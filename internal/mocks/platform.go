package mocks

import (
	"context"
	"fmt"

	"github.com/mopo922/canvas-importer/internal/models"
)

// MockPlatform is a scriptable implementation of platform.Platform
type MockPlatform struct {
	CredentialsOK  bool
	CredentialsErr error
	FetchErr       error

	// Posts and MediaIDs are indexed per source post; ConvertErrs and
	// RelocateErrs inject per-post failures.
	Posts        []*models.Post
	MediaIDs     []int
	ConvertErrs  map[int]error
	RelocateErrs map[int]error
	MediaPaths   map[int]string

	FetchCalls    int
	RelocateCalls int
}

func (m *MockPlatform) Name() string {
	return "MockPlatform"
}

func (m *MockPlatform) CheckCredentials(ctx context.Context) (bool, error) {
	return m.CredentialsOK, m.CredentialsErr
}

func (m *MockPlatform) FetchPosts(ctx context.Context) (int, error) {
	m.FetchCalls++
	if m.FetchErr != nil {
		return 0, m.FetchErr
	}
	return len(m.Posts), nil
}

func (m *MockPlatform) ConvertPost(ctx context.Context, i int) (*models.Post, int, error) {
	if err := m.ConvertErrs[i]; err != nil {
		return nil, 0, err
	}
	if i < 0 || i >= len(m.Posts) {
		return nil, 0, fmt.Errorf("post index %d out of range", i)
	}
	mediaID := 0
	if i < len(m.MediaIDs) {
		mediaID = m.MediaIDs[i]
	}
	return m.Posts[i], mediaID, nil
}

func (m *MockPlatform) RelocateMedia(ctx context.Context, mediaID int) (string, error) {
	if mediaID == 0 {
		return "", nil
	}
	m.RelocateCalls++
	if err := m.RelocateErrs[mediaID]; err != nil {
		return "", err
	}
	return m.MediaPaths[mediaID], nil
}

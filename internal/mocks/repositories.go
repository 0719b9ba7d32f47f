package mocks

import (
	"context"
	"sync"

	"github.com/mopo922/canvas-importer/internal/models"
)

// MockPostRepository is a mock implementation of repository.PostRepository
type MockPostRepository struct {
	mu          sync.Mutex
	Posts       []*models.Post
	TagsByPost  map[int64][]string
	CreateError error
	SyncError   error
	nextID      int64
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		TagsByPost: make(map[int64][]string),
	}
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	m.nextID++
	post.ID = m.nextID
	m.Posts = append(m.Posts, post)
	return nil
}

func (m *MockPostRepository) SyncTags(ctx context.Context, postID int64, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SyncError != nil {
		return m.SyncError
	}
	m.TagsByPost[postID] = tags
	return nil
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPostRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Posts), nil
}

// MockUserRepository is a mock implementation of repository.UserRepository
// and platform.UserDirectory
type MockUserRepository struct {
	IDsByEmail  map[string]int64
	LookupError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		IDsByEmail: make(map[string]int64),
	}
}

func (m *MockUserRepository) IDByEmail(ctx context.Context, email string) (int64, error) {
	if m.LookupError != nil {
		return 0, m.LookupError
	}
	return m.IDsByEmail[email], nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.IDsByEmail), nil
}

// MockJobRepository is a mock implementation of repository.JobRepository
type MockJobRepository struct {
	mu          sync.Mutex
	Jobs        map[string]*models.ImportJob
	CreateError error
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		Jobs: make(map[string]*models.ImportJob),
	}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	copied := *job
	m.Jobs[job.ID] = &copied
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.ImportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *job
	m.Jobs[job.ID] = &copied
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Jobs[id], nil
}

func (m *MockJobRepository) List(ctx context.Context, limit int) ([]*models.ImportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var jobs []*models.ImportJob
	for _, j := range m.Jobs {
		jobs = append(jobs, j)
	}
	return jobs, nil
}

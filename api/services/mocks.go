package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yatube/yatube-services/internal/events"
	"github.com/yatube/yatube-services/internal/paginator"
	"github.com/yatube/yatube-services/models"
)

type MockBlogDB struct {
	mock.Mock
}

type MockPostCounter struct {
	mock.Mock
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockBlogDB) GetIndexPage(rawPage string, pageSize int) ([]models.Post, paginator.Window, error) {
	args := m.Called(rawPage, pageSize)
	return args.Get(0).([]models.Post), args.Get(1).(paginator.Window), args.Error(2)
}

func (m *MockBlogDB) GetGroupPage(groupID int64, rawPage string, pageSize int) ([]models.Post, paginator.Window, error) {
	args := m.Called(groupID, rawPage, pageSize)
	return args.Get(0).([]models.Post), args.Get(1).(paginator.Window), args.Error(2)
}

func (m *MockBlogDB) GetAuthorPage(authorID int64, rawPage string, pageSize int) ([]models.Post, paginator.Window, error) {
	args := m.Called(authorID, rawPage, pageSize)
	return args.Get(0).([]models.Post), args.Get(1).(paginator.Window), args.Error(2)
}

func (m *MockBlogDB) GetPost(postID int64) (*models.Post, error) {
	args := m.Called(postID)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockBlogDB) CountAuthorPosts(authorID int64) (int, error) {
	args := m.Called(authorID)
	return args.Int(0), args.Error(1)
}

func (m *MockBlogDB) CreatePost(authorID int64, form models.PostForm) (*models.Post, error) {
	args := m.Called(authorID, form)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockBlogDB) UpdatePost(postID int64, form models.PostForm) (*models.Post, error) {
	args := m.Called(postID, form)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockBlogDB) GetGroups() ([]models.Group, error) {
	args := m.Called()
	return args.Get(0).([]models.Group), args.Error(1)
}

func (m *MockBlogDB) GetGroupBySlug(slug string) (*models.Group, error) {
	args := m.Called(slug)
	group, _ := args.Get(0).(*models.Group)
	return group, args.Error(1)
}

func (m *MockBlogDB) CheckGroupExists(groupID int64) (bool, error) {
	args := m.Called(groupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlogDB) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockBlogDB) EnsureUser(username string) (*models.User, error) {
	args := m.Called(username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockPostCounter) Get(ctx context.Context, authorID int64) (int, bool) {
	args := m.Called(authorID)
	return args.Int(0), args.Bool(1)
}

func (m *MockPostCounter) Set(ctx context.Context, authorID int64, count int) {
	m.Called(authorID, count)
}

func (m *MockPostCounter) Invalidate(ctx context.Context, authorID int64) {
	m.Called(authorID)
}

// Mock the Publish method
func (m *MockEventPublisher) Publish(event events.PostEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// Mock the Close method
func (m *MockEventPublisher) Close() {
	m.Called()
}

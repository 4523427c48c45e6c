package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/catalog"
)

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, activeOnly bool) ([]*catalog.Item, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAvailableToAgent(ctx context.Context, agentID uuid.UUID) ([]*catalog.Item, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).([]*catalog.Item), args.Error(1)
}

func TestItemService_CreateItem(t *testing.T) {
	repo := new(MockItemRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewItemService(repo, zap.NewNop())

	agentID := uuid.New()
	item, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Name:            "Price list",
		Category:        "store",
		FileRef:         "files/price-list.pdf",
		AssignedAgentID: &agentID,
		SortOrder:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, catalog.ItemStatusActive, item.Status)
	assert.Equal(t, 3, item.SortOrder)
	require.NotNil(t, item.AssignedAgentID)
	assert.Equal(t, agentID, *item.AssignedAgentID)
}

func TestItemService_UpdateItem_PartialChange(t *testing.T) {
	repo := new(MockItemRepository)

	item, err := catalog.NewItem("Flyer", "marketing", "files/flyer.pdf")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	repo.On("Update", mock.Anything, item).Return(nil)

	svc := NewItemService(repo, zap.NewNop())

	name := "Flyer v2"
	updated, err := svc.UpdateItem(context.Background(), item.ID, UpdateItemRequest{
		Name: &name,
	})
	require.NoError(t, err)

	assert.Equal(t, "Flyer v2", updated.Name)
	assert.Equal(t, "marketing", updated.Category)
	assert.Equal(t, "files/flyer.pdf", updated.FileRef)
}

func TestItemService_AssignAndUnassign(t *testing.T) {
	repo := new(MockItemRepository)

	item, err := catalog.NewItem("Flyer", "marketing", "files/flyer.pdf")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	repo.On("Update", mock.Anything, item).Return(nil)

	svc := NewItemService(repo, zap.NewNop())

	agentID := uuid.New()
	updated, err := svc.AssignAgent(context.Background(), item.ID, &agentID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedAgentID)
	assert.False(t, updated.AvailableTo(uuid.New()))
	assert.True(t, updated.AvailableTo(agentID))

	updated, err = svc.AssignAgent(context.Background(), item.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedAgentID)
	assert.True(t, updated.AvailableTo(uuid.New()))
}

func TestItemService_SetActive(t *testing.T) {
	repo := new(MockItemRepository)

	item, err := catalog.NewItem("Flyer", "marketing", "files/flyer.pdf")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	repo.On("Update", mock.Anything, item).Return(nil)

	svc := NewItemService(repo, zap.NewNop())

	updated, err := svc.SetActive(context.Background(), item.ID, false)
	require.NoError(t, err)
	assert.Equal(t, catalog.ItemStatusInactive, updated.Status)
	assert.False(t, updated.AvailableTo(uuid.New()))

	updated, err = svc.SetActive(context.Background(), item.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive())
}

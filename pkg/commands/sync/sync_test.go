package sync_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/commands/sync"
	"github.com/arthur-debert/rah/pkg/deptree"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Search(ctx context.Context, query string) ([]aur.Record, error) {
	args := m.Called(ctx, query)
	records, _ := args.Get(0).([]aur.Record)
	return records, args.Error(1)
}

func (m *mockClient) SearchByProvides(ctx context.Context, name string) ([]aur.Record, error) {
	args := m.Called(ctx, name)
	records, _ := args.Get(0).([]aur.Record)
	return records, args.Error(1)
}

func (m *mockClient) Info(ctx context.Context, names []string) ([]aur.Record, error) {
	args := m.Called(ctx, names)
	records, _ := args.Get(0).([]aur.Record)
	return records, args.Error(1)
}

var searchResults = []aur.Record{
	{Name: "yay", Version: "12.3.5-1", Description: "Yet another yogurt. Pacman wrapper and AUR helper written in go."},
	{Name: "paru", Version: "2.0.3-1", Description: "Feature packed AUR helper"},
	{Name: "aurutils", Version: "19.7-1", Description: "tools for the arch user repository"},
}

func TestSearch(t *testing.T) {
	client := &mockClient{}
	client.On("Search", mock.Anything, "helper").Return(searchResults, nil)
	local := alpm.NewDB(alpm.LocalDBName, &alpm.Package{Name: "paru", Version: "2.0.1-1"})

	result, err := sync.Search(context.Background(), sync.SearchOptions{
		Client: client,
		Local:  local,
		Terms:  []string{"aur", "helper"},
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, "paru", result.Hits[0].Record.Name)
	assert.True(t, result.Hits[0].Installed())
	assert.Equal(t, "2.0.1-1", result.Hits[0].InstalledVersion)
	assert.Equal(t, "yay", result.Hits[1].Record.Name)
	assert.False(t, result.Hits[1].Installed())
	client.AssertExpectations(t)
}

func TestSearch_InvalidTerms(t *testing.T) {
	client := &mockClient{}

	_, err := sync.Search(context.Background(), sync.SearchOptions{Client: client})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = sync.Search(context.Background(), sync.SearchOptions{Client: client, Terms: []string{"a"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	client.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_ClientError(t *testing.T) {
	client := &mockClient{}
	client.On("Search", mock.Anything, "yay").Return(nil, aur.ErrUnreachable)

	_, err := sync.Search(context.Background(), sync.SearchOptions{Client: client, Terms: []string{"yay"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNetworkUnreachable))
}

func TestInfo(t *testing.T) {
	client := &mockClient{}
	client.On("Info", mock.Anything, []string{"yay", "nope", "paru"}).Return(searchResults[:2], nil)

	result, err := sync.Info(context.Background(), client, []string{"yay", "nope", "paru"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	require.NotNil(t, result)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "yay", result.Records[0].Name)
	assert.Equal(t, "paru", result.Records[1].Name)
	assert.Equal(t, []string{"nope"}, result.Missing)
}

func TestInfo_NoNames(t *testing.T) {
	_, err := sync.Info(context.Background(), &mockClient{}, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestPlan(t *testing.T) {
	client := &mockClient{}
	client.On("Info", mock.Anything, []string{"hello"}).
		Return([]aur.Record{{Name: "hello", Version: "1-1", MakeDepends: []string{"go"}}}, nil)
	extra := alpm.NewDB("extra", &alpm.Package{Name: "go", Version: "2:1.22.5-1"})
	resolver := deptree.NewResolver(alpm.NewHandle(nil, extra), client, deptree.Options{})

	result, err := sync.Plan(context.Background(), sync.PlanOptions{Resolver: resolver, Targets: []string{"hello"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "hello"}, result.Plan.Names())
	assert.Len(t, result.Plan.Repo, 1)
	assert.Len(t, result.Plan.AUR, 1)
}

func TestPlan_IncompleteKeepsResult(t *testing.T) {
	client := &mockClient{}
	client.On("Info", mock.Anything, []string{"hello"}).
		Return([]aur.Record{{Name: "hello", Version: "1-1", Depends: []string{"ghost"}}}, nil)
	client.On("Info", mock.Anything, []string{"ghost"}).Return(nil, nil)
	client.On("SearchByProvides", mock.Anything, "ghost").Return(nil, nil)
	resolver := deptree.NewResolver(alpm.NewHandle(nil), client, deptree.Options{})

	result, err := sync.Plan(context.Background(), sync.PlanOptions{Resolver: resolver, Targets: []string{"hello"}})
	var resErr *deptree.ResolutionError
	require.ErrorAs(t, err, &resErr)
	require.NotNil(t, result)
	assert.Equal(t, []string{"hello"}, result.Plan.Names())
	assert.Equal(t, "ghost", resErr.Unresolved[0].Spec)
}

func TestPlan_FatalReturnsNoResult(t *testing.T) {
	client := &mockClient{}
	client.On("Info", mock.Anything, []string{"hello"}).Return(nil, aur.ErrUnreachable)
	resolver := deptree.NewResolver(alpm.NewHandle(nil), client, deptree.Options{})

	result, err := sync.Plan(context.Background(), sync.PlanOptions{Resolver: resolver, Targets: []string{"hello"}})
	assert.Nil(t, result)
	assert.True(t, errors.IsFatal(err))
}

// Package catalogtest provides catalog client doubles for tests.
package catalogtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// MockClient is a testify mock of catalog.Client.
type MockClient struct {
	mock.Mock
	Src models.Source
	// Entities limits Supports; nil means every entity.
	Entities []models.EntityType
}

var _ catalog.Client = (*MockClient)(nil)

func NewMockClient(src models.Source) *MockClient {
	return &MockClient{Src: src}
}

func (m *MockClient) Source() models.Source { return m.Src }

func (m *MockClient) Supports(entity models.EntityType) bool {
	if m.Entities == nil {
		return true
	}
	for _, e := range m.Entities {
		if e == entity {
			return true
		}
	}
	return false
}

func (m *MockClient) FetchByID(ctx context.Context, entity models.EntityType, id string) (*catalog.Payload, error) {
	args := m.Called(ctx, entity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Payload), args.Error(1)
}

func (m *MockClient) Search(ctx context.Context, entity models.EntityType, text string, page int) ([]catalog.Payload, error) {
	args := m.Called(ctx, entity, text, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Payload), args.Error(1)
}

// MockMappingClient additionally implements catalog.ForeignLookup.
type MockMappingClient struct {
	MockClient
}

var _ catalog.ForeignLookup = (*MockMappingClient)(nil)

func NewMockMappingClient(src models.Source) *MockMappingClient {
	return &MockMappingClient{MockClient: MockClient{Src: src}}
}

func (m *MockMappingClient) LookupForeign(ctx context.Context, entity models.EntityType, foreign models.SourceID) (string, error) {
	args := m.Called(ctx, entity, foreign)
	return args.String(0), args.Error(1)
}

// AnimePayload builds a minimal anime payload for tests.
func AnimePayload(src models.Source, id string, names ...string) *catalog.Payload {
	p := &catalog.Payload{Source: src, Entity: models.EntityAnime, ID: id, Anime: &catalog.AnimeFields{}}
	p.AddName(names...)
	return p
}

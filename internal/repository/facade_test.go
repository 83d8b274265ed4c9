package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository"
	"Clubhouse_Hub/internal/repository/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFacade_OnlyChosenBackendIsBuilt(t *testing.T) {
	var mockBuilt, relationalBuilt int
	backends := repository.Backends{
		Mock: func() (repository.Store, error) {
			mockBuilt++
			return mock.New(mock.Seed{}), nil
		},
		Relational: func() (repository.Store, error) {
			relationalBuilt++
			return nil, errors.New("no database in tests")
		},
	}

	f, err := repository.NewFacade(repository.ModeMock, backends)
	require.NoError(t, err)
	assert.Equal(t, repository.ModeMock, f.Mode())
	assert.Equal(t, 1, mockBuilt)
	assert.Equal(t, 0, relationalBuilt)

	_, err = repository.NewFacade(repository.ModeRelational, backends)
	assert.Error(t, err)
	assert.Equal(t, 1, relationalBuilt)
	assert.Equal(t, 1, mockBuilt)
}

func TestNewFacade_RejectsUnknownModeAndMissingFactory(t *testing.T) {
	_, err := repository.NewFacade("sideways", repository.Backends{})
	assert.Error(t, err)

	_, err = repository.NewFacade(repository.ModeRelational, repository.Backends{
		Mock: func() (repository.Store, error) { return mock.New(mock.Seed{}), nil },
	})
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    repository.Mode
		wantErr bool
	}{
		{in: "mock", want: repository.ModeMock},
		{in: "relational", want: repository.ModeRelational},
		{in: "true", want: repository.ModeMock},
		{in: "0", want: repository.ModeRelational},
		{in: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := repository.ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFacade_WritesDoNotAliasCallerInput(t *testing.T) {
	ctx := context.Background()
	store := mock.New(mock.DefaultSeed(time.Now()))
	f, err := repository.NewFacade(repository.ModeMock, repository.Backends{
		Mock: func() (repository.Store, error) { return store, nil },
	})
	require.NoError(t, err)

	author := &model.Profile{ID: mock.UserMaya}
	in := &model.Post{
		ID:        "client-side",
		ChannelID: mock.ChannelID(mock.LocDarlingHill, model.CategoryGeneral),
		AuthorID:  mock.UserMaya,
		Body:      "hello",
		Author:    author,
	}
	out, err := f.AddPost(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, "client-side", out.ID)
	assert.Nil(t, out.Author)
	assert.Equal(t, "client-side", in.ID)
	assert.Same(t, author, in.Author)
}

func TestPrimaryOnce(t *testing.T) {
	rows := []model.MemberLocation{{IsPrimary: false}, {IsPrimary: true}, {IsPrimary: true}}
	repository.PrimaryOnce(rows, false)
	assert.False(t, rows[0].IsPrimary)
	assert.True(t, rows[1].IsPrimary)
	assert.False(t, rows[2].IsPrimary)

	rows = []model.MemberLocation{{IsPrimary: true}}
	repository.PrimaryOnce(rows, true)
	assert.False(t, rows[0].IsPrimary)
}

package service

import (
	"context"
	"testing"

	"Clubhouse_Hub/internal/model"
	"Clubhouse_Hub/internal/repository/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()
	s := NewPostService(seededStore())
	rides := mock.ChannelID(mock.LocDarlingHill, model.CategoryRides)

	tests := []struct {
		name    string
		userID  string
		in      CreatePostInput
		wantErr error
	}{
		{"empty body", mock.UserMaya, CreatePostInput{ChannelID: rides, Body: "  "}, ErrValidation},
		{"missing channel id", mock.UserMaya, CreatePostInput{Body: "hi"}, ErrValidation},
		{"unknown channel", mock.UserMaya, CreatePostInput{ChannelID: "nope", Body: "hi"}, ErrNotFound},
		{"member cannot pin", mock.UserMaya, CreatePostInput{ChannelID: rides, Body: "hi", IsPinned: true}, ErrForbidden},
		{"no profile yet", "ghost", CreatePostInput{ChannelID: rides, Body: "hi"}, ErrProfileNotReady},
		{"member post", mock.UserMaya, CreatePostInput{ChannelID: rides, Title: " Sunday ", Body: " hi "}, nil},
		{"staff can pin", mock.UserStaff, CreatePostInput{ChannelID: rides, Body: "pinned", IsPinned: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.CreatePost(ctx, tt.userID, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, tt.userID, p.AuthorID)
			assert.Equal(t, tt.in.IsPinned, p.IsPinned)
		})
	}
}

func TestPostService_Comments(t *testing.T) {
	ctx := context.Background()
	s := NewPostService(seededStore())

	_, err := s.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := s.AddComment(ctx, mock.UserTom, "post-potluck", " Count me in ")
	require.NoError(t, err)
	assert.Equal(t, "Count me in", c.Body)

	list, err := s.ListComments(ctx, "post-potluck")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[1].ID)

	post, err := s.GetPost(ctx, "post-potluck")
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.CommentCount)

	_, err = s.AddComment(ctx, mock.UserTom, "post-potluck", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.AddComment(ctx, mock.UserTom, "missing", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

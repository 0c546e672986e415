package library

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestService_Save_NewCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *Entry) error {
		assert.Equal(t, "u-1", e.UserID)
		assert.Equal(t, "13", e.KitsuID)
		assert.Equal(t, []string{"Action"}, e.Genres)
		e.ID = "id-1"
		return nil
	})

	got, err := svc.Save(context.Background(), "u-1",
		NewCandidate{KitsuID: "13", Title: "Berserk", Genres: []string{"Action"}},
		Progress{Status: StatusReading, Rating: intPtr(9)})

	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, StatusReading, got.Status)
	assert.Equal(t, 9, *got.Rating)
}

func TestService_Save_LooksUpMissingGenres(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	lookup := NewMockGenreLookup(ctrl)
	svc := NewService(repo, lookup)

	lookup.EXPECT().Categories(gomock.Any(), "13").Return([]string{"Action", "Horror"}, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *Entry) error {
		assert.Equal(t, []string{"Action", "Horror"}, e.Genres)
		return nil
	})

	_, err := svc.Save(context.Background(), "", NewCandidate{KitsuID: "13", Title: "Berserk"}, Progress{Status: StatusCompleted})
	require.NoError(t, err)
}

func TestService_Save_GenreLookupFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	lookup := NewMockGenreLookup(ctrl)
	svc := NewService(repo, lookup)

	lookup.EXPECT().Categories(gomock.Any(), "13").Return(nil, errors.New("kitsu down"))
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *Entry) error {
		assert.NotNil(t, e.Genres)
		assert.Empty(t, e.Genres)
		return nil
	})

	_, err := svc.Save(context.Background(), "", NewCandidate{KitsuID: "13", Title: "Berserk"}, Progress{Status: StatusCompleted})
	require.NoError(t, err)
}

func TestService_Save_AlreadyOwned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrAlreadyOwned)

	_, err := svc.Save(context.Background(), "", NewCandidate{KitsuID: "13", Title: "Berserk", Genres: []string{"Action"}}, Progress{Status: StatusReading})
	assert.ErrorIs(t, err, ErrAlreadyOwned)
}

func TestService_Save_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := NewService(NewMockRepository(ctrl), nil)
	ctx := context.Background()
	candidate := NewCandidate{KitsuID: "13", Title: "Berserk"}

	_, err := svc.Save(ctx, "", candidate, Progress{Status: StatusReading, Rating: intPtr(11)})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Save(ctx, "", candidate, Progress{Status: Status("Dropped")})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Save(ctx, "", candidate, Progress{})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Save(ctx, "", NewCandidate{Title: "No id"}, Progress{Status: StatusReading})
	assert.Error(t, err)
}

func TestService_Save_OwnedEntryKeepsUnsetFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil)

	current := Entry{ID: "e1", UserID: "u-1", Status: StatusReading, Rating: intPtr(7)}
	repo.EXPECT().Get(gomock.Any(), "e1").Return(current, nil)
	repo.EXPECT().UpdateProgress(gomock.Any(), "e1", StatusCompleted, intPtr(7)).
		Return(Entry{ID: "e1", Status: StatusCompleted, Rating: intPtr(7)}, nil)

	got, err := svc.Save(context.Background(), "u-1", OwnedEntry{ID: "e1"}, Progress{Status: StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestService_Save_OwnedEntryOtherScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil)

	repo.EXPECT().Get(gomock.Any(), "e1").Return(Entry{ID: "e1", UserID: "someone"}, nil)

	_, err := svc.Save(context.Background(), "u-1", OwnedEntry{ID: "e1"}, Progress{Rating: intPtr(3)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Get_EmptyScopeSeesOnlyUnscopedEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil)

	repo.EXPECT().Get(gomock.Any(), "mine").Return(Entry{ID: "mine"}, nil)
	repo.EXPECT().Get(gomock.Any(), "theirs").Return(Entry{ID: "theirs", UserID: "user-7"}, nil).Times(2)

	_, err := svc.Get(context.Background(), "", "mine")
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), "", "theirs")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Save(context.Background(), "", OwnedEntry{ID: "theirs"}, Progress{Status: StatusCompleted})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_OwnedIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil)

	repo.EXPECT().List(gomock.Any(), "u-1").Return([]Entry{{KitsuID: "1"}, {KitsuID: "123"}}, nil)

	owned, err := svc.OwnedIDs(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)
	assert.Contains(t, owned, "123")
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil)

	t.Run("unscoped", func(t *testing.T) {
		repo.EXPECT().Get(gomock.Any(), "e1").Return(Entry{ID: "e1"}, nil)
		repo.EXPECT().Delete(gomock.Any(), "e1").Return(nil)
		assert.NoError(t, svc.Delete(context.Background(), "", "e1"))
	})

	t.Run("unscoped cannot touch a scoped entry", func(t *testing.T) {
		repo.EXPECT().Get(gomock.Any(), "e2").Return(Entry{ID: "e2", UserID: "u-9"}, nil)
		assert.ErrorIs(t, svc.Delete(context.Background(), "", "e2"), ErrNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		repo.EXPECT().Get(gomock.Any(), "nope").Return(Entry{}, ErrNotFound)
		assert.ErrorIs(t, svc.Delete(context.Background(), "", "nope"), ErrNotFound)
	})
}

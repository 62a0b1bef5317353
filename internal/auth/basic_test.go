package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/go-authgate/apigate/internal/mocks"
	"github.com/go-authgate/apigate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newBasic(t *testing.T, opts ...BasicOption) (*BasicVerifier, *mocks.MockUserDirectory) {
	t.Helper()
	ctrl := gomock.NewController(t)
	dir := mocks.NewMockUserDirectory(ctrl)
	dir.EXPECT().Name().Return("mock").AnyTimes()
	return NewBasicVerifier(dir, opts...), dir
}

func TestBasicVerifier_Authenticated(t *testing.T) {
	v, dir := newBasic(t)
	alice := &models.User{ID: "u1", Username: "alice"}

	gomock.InOrder(
		dir.EXPECT().FindByUsername(gomock.Any(), "alice").Return(alice, nil),
		dir.EXPECT().CompareCredential(gomock.Any(), alice, "s3cret").Return(true, nil),
	)

	res, err := v.Verify(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.True(t, res.Authenticated())
	assert.Same(t, alice, res.Identity)
}

func TestBasicVerifier_EmptyFields(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"both empty", "", ""},
		{"empty username", "", "pw"},
		{"empty password", "alice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newBasic(t)

			res, err := v.Verify(context.Background(), tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, ReasonMissingCredential, res.Reason)
		})
	}
}

func TestBasicVerifier_UnknownUser(t *testing.T) {
	for _, equalize := range []bool{false, true} {
		v, dir := newBasic(t, WithEqualizedTiming(equalize))
		dir.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(nil, nil)

		res, err := v.Verify(context.Background(), "ghost", "pw")
		require.NoError(t, err)
		assert.Equal(t, ReasonUnknownSubject, res.Reason, "equalize=%v", equalize)
	}
}

func TestBasicVerifier_BadPassword(t *testing.T) {
	v, dir := newBasic(t)
	alice := &models.User{ID: "u1", Username: "alice"}
	dir.EXPECT().FindByUsername(gomock.Any(), "alice").Return(alice, nil)
	dir.EXPECT().CompareCredential(gomock.Any(), alice, "wrong").Return(false, nil)

	res, err := v.Verify(context.Background(), "alice", "wrong")
	require.NoError(t, err)
	assert.Equal(t, ReasonBadPassword, res.Reason)
	assert.Nil(t, res.Identity)
}

func TestBasicVerifier_DependencyFailure(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		v, dir := newBasic(t)
		dir.EXPECT().FindByUsername(gomock.Any(), "alice").Return(nil, errors.New("db down"))

		_, err := v.Verify(context.Background(), "alice", "pw")
		assert.ErrorIs(t, err, ErrDependencyFailure)
	})

	t.Run("compare", func(t *testing.T) {
		v, dir := newBasic(t)
		alice := &models.User{ID: "u1", Username: "alice"}
		dir.EXPECT().FindByUsername(gomock.Any(), "alice").Return(alice, nil)
		dir.EXPECT().CompareCredential(gomock.Any(), alice, "pw").Return(false, errors.New("upstream 502"))

		_, err := v.Verify(context.Background(), "alice", "pw")
		assert.ErrorIs(t, err, ErrDependencyFailure)
	})
}

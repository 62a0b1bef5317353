package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_IsExternal(t *testing.T) {
	tests := []struct {
		source   string
		expected bool
	}{
		{source: "", expected: false},
		{source: AuthSourceLocal, expected: false},
		{source: AuthSourceHTTPAPI, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			u := &User{AuthSource: tt.source}
			assert.Equal(t, tt.expected, u.IsExternal())
		})
	}
}

func TestUser_HasPassword(t *testing.T) {
	assert.False(t, (&User{}).HasPassword())
	assert.True(t, (&User{PasswordHash: "$2a$10$abc"}).HasPassword())
}

// The cache layer stores users as JSON; the credential must survive the trip
// so that comparisons still work on a cache hit.
func TestUser_JSONKeepsCredential(t *testing.T) {
	in := User{ID: "u1", Username: "alice", PasswordHash: "$2a$10$hash"}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out User
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.PasswordHash, out.PasswordHash)
	assert.Equal(t, in.Username, out.Username)
}

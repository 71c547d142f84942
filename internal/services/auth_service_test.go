package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFromUser(t *testing.T) {
	email := "ada@example.com"
	admin, user := "admin", "user"

	session, err := sessionFromUser(map[string]interface{}{
		"id":    "u-1",
		"email": &email,
		"roles": []*string{&user, &admin},
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.UserID)
	assert.Equal(t, email, session.Email)
	assert.True(t, session.HasRole(RoleAdmin))
	assert.Equal(t, Caller{ID: "u-1", IsAdmin: true}, session.Caller())

	session, err = sessionFromUser(struct {
		ID    string   `json:"id"`
		Roles []string `json:"roles"`
	}{ID: "u-2", Roles: []string{"user"}})
	require.NoError(t, err)
	assert.Empty(t, session.Email)
	assert.False(t, session.Caller().IsAdmin)

	_, err = sessionFromUser(map[string]interface{}{"email": email})
	assert.ErrorIs(t, err, ErrInvalidSession)
}

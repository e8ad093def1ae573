package permissions_test

import (
	"testing"

	"hotel/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.True(t, data.FindPermissions("/v1/rooms/available", "GET").Skip)
	assert.True(t, data.FindPermissions("/v1/auth/login", "POST").Skip)
	assert.Contains(t, data.FindPermissions("/v1/bookings/mybookings", "GET").Permissions, "user")
	assert.NotContains(t, data.FindPermissions("/v1/staff", "POST").Permissions, "user")
}

func TestFindPermissions(t *testing.T) {
	data, err := permissions.Parse([]byte(`{"endpoints":[{"path":"/v1/rooms","method":"POST","permissions":["admin"]}]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"admin"}, data.FindPermissions("/v1/rooms/", "post").Permissions)
	assert.Empty(t, data.FindPermissions("/v1/rooms", "DELETE").Permissions)
}

func TestParseInvalid(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))

	assert.Error(t, err)
}

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, []string{"admin", "admin_notify", "coach"}, Parse(" Admin ,admin_notify,, coach,ADMIN"))
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse(" , "))
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		roles string
		want  bool
	}{
		{"", false},
		{"admin", true},
		{" ADMIN ", true},
		{"player,admin", true},
		{"admin_notify", false},
		{"administrator", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAdmin(tt.roles), "roles=%q", tt.roles)
	}
}

func TestReceivesAdminAlerts(t *testing.T) {
	assert.True(t, ReceivesAdminAlerts("admin,admin_notify"))
	assert.False(t, ReceivesAdminAlerts("admin"))
	assert.False(t, ReceivesAdminAlerts("admin_notify"))
}

func TestAddRemoveRole(t *testing.T) {
	assert.Equal(t, "admin", AddRole("", "admin"))
	assert.Equal(t, "coach,admin", AddRole("coach", "Admin"))
	assert.Equal(t, "coach,admin", AddRole("coach,admin", "admin"))

	assert.Equal(t, "coach", RemoveRole("admin,coach", "admin"))
	assert.Equal(t, "", RemoveRole("admin", "ADMIN"))
	assert.Equal(t, "coach", RemoveRole("coach", "admin"))
}

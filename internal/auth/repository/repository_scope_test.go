package repository

import (
	"strings"
	"testing"
)

func TestListModeratorsQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listModeratorsQuery)

	requiredFragments := []string{
		"from users",
		"where business_id = $1",
		"role = 'moderator'",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected tenant-scoped query fragment %q to be present", fragment)
		}
	}
}

func TestUserColumnsStartWithTenant(t *testing.T) {
	if !strings.HasPrefix(userColumns, "id, business_id") {
		t.Fatalf("user columns must start with id and business_id: %q", userColumns)
	}
}

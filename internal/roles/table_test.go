package roles

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestTable() *Table {
	return NewTable(map[string][]string{
		"admin": {},
		"root":  {"*"},
		"user":  {"read:own", "update:own", "read:posts"},
		"guest": {"read:public"},
	})
}

func TestCan(t *testing.T) {
	table := newTestTable()
	cases := []struct {
		role, action, resource, subject, owner string
		want                                   bool
	}{
		{"nobody", "read", "posts", "", "", false},
		{"admin", "delete", "users", "", "", true},
		{"root", "delete", "users", "", "", true},
		{"user", "read", "posts", "", "", true},
		{"user", "delete", "posts", "", "", false},
		{"user", "update", "profile", "42", "42", true},
		{"user", "update", "profile", "42", "7", false},
		{"user", "update", "profile", "", "", false},
		{"guest", "read", "public", "", "", true},
		{"guest", "read", "posts", "", "", false},
	}
	for _, tc := range cases {
		got := table.Can(tc.role, tc.action, tc.resource, tc.subject, tc.owner)
		if got != tc.want {
			t.Errorf("Can(%s, %s, %s, %q, %q) = %v, want %v",
				tc.role, tc.action, tc.resource, tc.subject, tc.owner, got, tc.want)
		}
	}
}

func TestTableMutations(t *testing.T) {
	table := newTestTable()
	table.AddRole("editor", []string{"read:own"})
	table.AddRole("editor", []string{"update:own"})
	if diff := cmp.Diff([]string{"update:own"}, table.Role("editor")); diff != "" {
		t.Fatalf("AddRole must replace (-want +got):\n%s", diff)
	}

	perms, err := table.AddPermissions("editor", []string{"update:own", "read:all"})
	if err != nil {
		t.Fatalf("AddPermissions: %v", err)
	}
	if diff := cmp.Diff([]string{"update:own", "read:all"}, perms); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if _, err := table.AddPermissions("ghost", []string{"read:all"}); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"admin", "editor", "guest", "root", "user"}, table.Roles()); diff != "" {
		t.Fatalf("roles (-want +got):\n%s", diff)
	}
}

func TestTableCopiesInput(t *testing.T) {
	init := map[string][]string{"user": {"read:own"}}
	table := NewTable(init)
	init["user"][0] = "changed"
	table.Role("user")[0] = "changed"
	if got := table.Role("user")[0]; got != "read:own" {
		t.Fatalf("expected table to own its data, got %q", got)
	}
}

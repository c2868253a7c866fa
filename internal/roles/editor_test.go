package roles

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"eojs/internal/anchor"
)

const rbacFile = `// Role table
const roles = {
  // full access
  admin: {
    permissions: ['*'], // everything
  },
  'super-admin': {
    label: 'Super { admin }',
    permissions: ["manage:all"],
  },
  superadmin: { permissions: [] },
  user: {
    permissions: ['read:own'],
  },
};

export default roles;
`

func TestAddThenUpdateScenario(t *testing.T) {
	text := "export const roles = {\n  admin: {\n    permissions: ['*']\n  }\n};\n"

	res, err := UpsertRole(text, "editor", []string{"read:own", "update:own"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	if !res.Created || !res.Changed {
		t.Fatalf("expected a created role, got %+v", res)
	}
	want := "export const roles = {\n  admin: {\n    permissions: ['*']\n  },\n  editor: {\n    permissions: ['read:own', 'update:own']\n  }\n};\n"
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("after insert (-want +got):\n%s", diff)
	}

	res, err = UpsertRole(res.Text, "editor", []string{"read:all"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	if res.Created {
		t.Fatal("expected update of the existing role")
	}
	want = strings.Replace(want, "['read:own', 'update:own']", "['read:all']", 1)
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("after update (-want +got):\n%s", diff)
	}
}

func TestUpsertPreservesSiblings(t *testing.T) {
	res, err := UpsertRole(rbacFile, "admin", []string{"read:all", "update:all"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	want := strings.Replace(rbacFile, "['*']", "['read:all', 'update:all']", 1)
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestUpsertMatchesKeysExactly(t *testing.T) {
	res, err := UpsertRole(rbacFile, "superadmin", []string{"manage:users"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	want := strings.Replace(rbacFile, "superadmin: { permissions: [] }", "superadmin: { permissions: ['manage:users'] }", 1)
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	res, err = UpsertRole(rbacFile, "super-admin", []string{"x:y"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	want = strings.Replace(rbacFile, `["manage:all"]`, `['x:y']`, 1)
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestNewRoleGetsDefaultPermission(t *testing.T) {
	res, err := UpsertRole(rbacFile, "editor", nil)
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	want := strings.Replace(rbacFile,
		"    permissions: ['read:own'],\n  },\n};",
		"    permissions: ['read:own'],\n  },\n  editor: {\n    permissions: ['read:own']\n  },\n};", 1)
	if diff := cmp.Diff(want, res.Text); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"read:own"}, res.Permissions); diff != "" {
		t.Fatalf("permissions (-want +got):\n%s", diff)
	}
}

func TestEditorDefaults(t *testing.T) {
	ed := NewEditor(anchor.Express, []string{"read:public"})
	res, err := ed.UpsertRole("const roles = {};", "guest", nil)
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	if !strings.Contains(res.Text, "permissions: ['read:public']") {
		t.Fatalf("expected editor defaults, got %q", res.Text)
	}
}

func TestUpsertIntoEmptyTable(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"inline", "const roles = {};\n", "const roles = {\n  editor: {\n    permissions: ['read:own']\n  },\n};\n"},
		{"multiline", "const roles = {\n};\n", "const roles = {\n  editor: {\n    permissions: ['read:own']\n  },\n};\n"},
		{
			"class field",
			"class RBAC {\n  constructor() {\n    this.roles = {};\n  }\n}\n",
			"class RBAC {\n  constructor() {\n    this.roles = {\n      editor: {\n        permissions: ['read:own']\n      },\n    };\n  }\n}\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := UpsertRole(tc.in, "editor", nil)
			if err != nil {
				t.Fatalf("UpsertRole: %v", err)
			}
			if diff := cmp.Diff(tc.want, res.Text); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	first, err := UpsertRole(rbacFile, "editor", []string{"read:all"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	second, err := UpsertRole(first.Text, "editor", []string{"read:all"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	if second.Changed || second.Text != first.Text {
		t.Fatalf("expected no change on second run, got:\n%s", second.Text)
	}
}

func TestUpsertKeepsCRLF(t *testing.T) {
	text := strings.ReplaceAll(rbacFile, "\n", "\r\n")
	res, err := UpsertRole(text, "editor", nil)
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	if strings.Count(res.Text, "\n") != strings.Count(res.Text, "\r\n") {
		t.Fatalf("expected only CRLF line breaks, got %q", res.Text)
	}
}

func TestMalformedEntryLeavesTextUnchanged(t *testing.T) {
	cases := []struct {
		name, text string
	}{
		{"not an array", "const roles = { admin: { permissions: '*' } };"},
		{"no permissions", "const roles = { admin: { perms: [] } };"},
		{"not an object", "const roles = { admin: adminPerms };"},
		{"unterminated array", "const roles = { admin: { permissions: ['*' } };"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := UpsertRole(tc.text, "admin", []string{"read:all"})
			if !errors.Is(err, ErrMalformedEntry) {
				t.Fatalf("expected ErrMalformedEntry, got %v", err)
			}
			if res.Changed || res.Text != tc.text {
				t.Fatalf("expected text unchanged, got %q", res.Text)
			}
		})
	}
}

func TestMissingContainer(t *testing.T) {
	for _, text := range []string{"export default {};", "const roles = {\n  admin: {\n"} {
		if _, err := UpsertRole(text, "admin", nil); !errors.Is(err, ErrContainerNotFound) {
			t.Errorf("UpsertRole(%q): expected ErrContainerNotFound, got %v", text, err)
		}
	}
}

func TestAddPermissions(t *testing.T) {
	res, err := AddPermissions(rbacFile, "user", []string{"read:own", "delete:own"})
	if err != nil {
		t.Fatalf("AddPermissions: %v", err)
	}
	if !strings.Contains(res.Text, "permissions: ['read:own', 'delete:own'],") {
		t.Fatalf("expected merged permissions, got:\n%s", res.Text)
	}
	again, err := AddPermissions(res.Text, "user", []string{"delete:own"})
	if err != nil {
		t.Fatalf("AddPermissions: %v", err)
	}
	if again.Changed {
		t.Fatal("expected no change when every permission is present")
	}

	if _, err := AddPermissions(rbacFile, "editor", []string{"read:all"}); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	bad := "const roles = { user: { permissions: [...base, 'x:y'] } };"
	if _, err := AddPermissions(bad, "user", []string{"read:all"}); !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("expected ErrMalformedEntry, got %v", err)
	}
}

func TestInvalidInput(t *testing.T) {
	if _, err := UpsertRole(rbacFile, "1st", nil); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := UpsertRole(rbacFile, "editor", []string{"read"}); !errors.Is(err, ErrInvalidPermission) {
		t.Fatalf("expected ErrInvalidPermission, got %v", err)
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable(rbacFile)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if diff := cmp.Diff([]string{"admin", "super-admin", "superadmin", "user"}, table.Roles()); diff != "" {
		t.Fatalf("roles (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"manage:all"}, table.Role("super-admin")); diff != "" {
		t.Fatalf("super-admin (-want +got):\n%s", diff)
	}
	if got := table.Role("superadmin"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty permission list, got %#v", got)
	}
}

func TestParsePermissions(t *testing.T) {
	got := ParsePermissions(" read:own, ,update:own ,")
	if diff := cmp.Diff([]string{"read:own", "update:own"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestUnreadableEntriesOnlyBlockThemselves(t *testing.T) {
	cases := []struct {
		name, text, tail string
	}{
		{
			"numeric key",
			"const roles = {\n  admin: { permissions: ['*'] },\n  0: { permissions: [] },\n};\n",
			"  0: { permissions: [] },\n",
		},
		{
			"method shorthand",
			"const roles = {\n  admin: { permissions: ['*'] },\n  describe() {\n    return Object.keys(this);\n  },\n};\n",
			"    return Object.keys(this);\n  },\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := UpsertRole(tc.text, "editor", []string{"read:own"})
			if err != nil {
				t.Fatalf("UpsertRole: %v", err)
			}
			want := strings.Replace(tc.text, tc.tail, tc.tail+"  editor: {\n    permissions: ['read:own']\n  },\n", 1)
			if diff := cmp.Diff(want, res.Text); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}

			res, err = UpsertRole(tc.text, "admin", []string{"read:all"})
			if err != nil {
				t.Fatalf("UpsertRole admin: %v", err)
			}
			if want := strings.Replace(tc.text, "['*']", "['read:all']", 1); res.Text != want {
				t.Fatalf("expected only admin's array to change, got %q", res.Text)
			}
		})
	}
}

func TestNumericKeysAreRoles(t *testing.T) {
	table, err := ParseTable("const roles = {\n  admin: { permissions: ['*'] },\n  0: { permissions: [] },\n};\n")
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if diff := cmp.Diff([]string{"0", "admin"}, table.Roles()); diff != "" {
		t.Fatalf("roles (-want +got):\n%s", diff)
	}
}

func TestEditingAMethodEntryIsMalformed(t *testing.T) {
	text := "const roles = {\n  admin: { permissions: ['*'] },\n  describe() {\n    return [];\n  },\n};\n"
	res, err := AddPermissions(text, "describe", []string{"read:all"})
	if !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("expected ErrMalformedEntry, got %v", err)
	}
	if res.Changed || res.Text != text {
		t.Fatal("expected text unchanged")
	}
	if _, err := ParseTable(text); !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("expected ParseTable to reject the method entry, got %v", err)
	}
}

func TestSamePermissionsKeepExistingQuoting(t *testing.T) {
	text := "const roles = {\n  user: { permissions: [\"read:own\"] },\n};\n"

	res, err := AddPermissions(text, "user", []string{"read:own"})
	if err != nil {
		t.Fatalf("AddPermissions: %v", err)
	}
	if res.Changed || res.Text != text {
		t.Fatalf("expected no rewrite, got %+v", res)
	}

	res, err = UpsertRole(text, "user", []string{"read:own"})
	if err != nil {
		t.Fatalf("UpsertRole: %v", err)
	}
	if res.Changed || res.Text != text {
		t.Fatalf("expected no rewrite, got %+v", res)
	}
	if diff := cmp.Diff([]string{"read:own"}, res.Permissions); diff != "" {
		t.Fatalf("permissions (-want +got):\n%s", diff)
	}
}

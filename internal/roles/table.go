package roles

import (
	"sort"

	"eojs/internal/source"
)

// AdminRole is allowed everything regardless of its permission list.
const AdminRole = "admin"

// Table is a role table held in memory. Build one with NewTable and pass
// it to whatever evaluates permissions; a Table is not safe for concurrent
// mutation.
type Table struct {
	roles map[string][]string
}

// NewTable copies init into a new Table.
func NewTable(init map[string][]string) *Table {
	t := &Table{roles: make(map[string][]string, len(init))}
	for name, perms := range init {
		t.roles[name] = append([]string(nil), perms...)
	}
	return t
}

// Can reports whether role may perform action on resource. subject and
// owner identify the acting user and the resource owner for `action:own`
// permissions; both must be non-empty and equal.
func (t *Table) Can(role, action, resource, subject, owner string) bool {
	perms, ok := t.roles[role]
	if !ok {
		return false
	}
	if role == AdminRole || contains(perms, Wildcard) {
		return true
	}
	if contains(perms, action+":"+resource) {
		return true
	}
	if contains(perms, action+":own") && subject != "" && owner != "" && subject == owner {
		return true
	}
	return resource == "public" && contains(perms, action+":public")
}

// AddRole sets the permissions of name, replacing any existing list.
func (t *Table) AddRole(name string, perms []string) []string {
	t.roles[name] = append([]string(nil), perms...)
	return t.Role(name)
}

// AddPermissions merges perms into an existing role.
func (t *Table) AddPermissions(name string, perms []string) ([]string, error) {
	cur, ok := t.roles[name]
	if !ok {
		return nil, ErrRoleNotFound.Wrap(source.Span{}, "role %q does not exist", name)
	}
	t.roles[name] = Union(cur, perms)
	return t.Role(name), nil
}

// Roles returns the role names in sorted order.
func (t *Table) Roles() []string {
	names := make([]string, 0, len(t.roles))
	for name := range t.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Role returns a copy of the permissions of name, or nil.
func (t *Table) Role(name string) []string {
	perms, ok := t.roles[name]
	if !ok {
		return nil
	}
	return append([]string{}, perms...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

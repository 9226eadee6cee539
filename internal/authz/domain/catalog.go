package domain

// Canonical system role names seeded into every tenant.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleStaff   = "staff"
)

// RoleDefinition is one entry of the system role catalog: a role name with
// its default grants. The catalog is plain data so seeding is a dumb loop.
type RoleDefinition struct {
	Name        string
	Description string
	Grants      []Grant
}

var allActions = []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// SystemRoleCatalog returns the fixed catalog materialized into per-tenant
// role rows at tenant creation. The seeder copies the slices, so sharing the
// backing arrays between calls is fine.
func SystemRoleCatalog() []RoleDefinition {
	return []RoleDefinition{
		{
			Name:        RoleOwner,
			Description: "Full control of the tenant, including deleting it",
			Grants: []Grant{
				{Resource: ResourceTenant, Actions: allActions},
				{Resource: ResourceRole, Actions: allActions},
				{Resource: ResourceMember, Actions: allActions},
				{Resource: ResourceInvitation, Actions: allActions},
				{Resource: ResourceCourse, Actions: allActions},
				{Resource: ResourceAssignment, Actions: allActions},
				{Resource: ResourceGrade, Actions: allActions},
				{Resource: ResourceAnnouncement, Actions: allActions},
			},
		},
		{
			Name:        RoleAdmin,
			Description: "Day-to-day administration without tenant deletion",
			Grants: []Grant{
				{Resource: ResourceTenant, Actions: []string{ActionRead, ActionUpdate}},
				{Resource: ResourceRole, Actions: allActions},
				{Resource: ResourceMember, Actions: allActions},
				{Resource: ResourceInvitation, Actions: allActions},
				{Resource: ResourceCourse, Actions: allActions},
				{Resource: ResourceAssignment, Actions: allActions},
				{Resource: ResourceGrade, Actions: allActions},
				{Resource: ResourceAnnouncement, Actions: allActions},
			},
		},
		{
			Name:        RoleTeacher,
			Description: "Runs courses: assignments, grading, announcements",
			Grants: []Grant{
				{Resource: ResourceTenant, Actions: []string{ActionRead}},
				{Resource: ResourceMember, Actions: []string{ActionRead}},
				{Resource: ResourceInvitation, Actions: []string{ActionCreate, ActionRead}},
				{Resource: ResourceCourse, Actions: []string{ActionCreate, ActionRead, ActionUpdate}},
				{Resource: ResourceAssignment, Actions: allActions},
				{Resource: ResourceGrade, Actions: []string{ActionCreate, ActionRead, ActionUpdate}},
				{Resource: ResourceAnnouncement, Actions: []string{ActionCreate, ActionRead, ActionUpdate}},
			},
		},
		{
			Name:        RoleStudent,
			Description: "Participates in courses",
			Grants: []Grant{
				{Resource: ResourceTenant, Actions: []string{ActionRead}},
				{Resource: ResourceCourse, Actions: []string{ActionRead}},
				{Resource: ResourceAssignment, Actions: []string{ActionRead, ActionUpdate}},
				{Resource: ResourceGrade, Actions: []string{ActionRead}},
				{Resource: ResourceAnnouncement, Actions: []string{ActionRead}},
			},
		},
		{
			Name:        RoleParent,
			Description: "Read-only view of a student's world",
			Grants: []Grant{
				{Resource: ResourceTenant, Actions: []string{ActionRead}},
				{Resource: ResourceCourse, Actions: []string{ActionRead}},
				{Resource: ResourceGrade, Actions: []string{ActionRead}},
				{Resource: ResourceAnnouncement, Actions: []string{ActionRead}},
			},
		},
		{
			Name:        RoleStaff,
			Description: "Non-teaching staff: announcements and member lookup",
			Grants: []Grant{
				{Resource: ResourceTenant, Actions: []string{ActionRead}},
				{Resource: ResourceMember, Actions: []string{ActionRead}},
				{Resource: ResourceCourse, Actions: []string{ActionRead}},
				{Resource: ResourceAnnouncement, Actions: []string{ActionCreate, ActionRead, ActionUpdate}},
			},
		},
	}
}

// IsSystemRoleName reports whether name is one of the catalog role names.
// Custom roles may not take these names even after a system role's grants
// have been edited.
func IsSystemRoleName(name string) bool {
	switch name {
	case RoleOwner, RoleAdmin, RoleTeacher, RoleStudent, RoleParent, RoleStaff:
		return true
	}
	return false
}

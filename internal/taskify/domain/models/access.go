package models

type Decision int

const (
	AccessNoBoard Decision = iota
	AccessNotMember
	AccessAllowed
)

// Access is the permission gate verdict for a (user, board) pair.
// "board does not exist" and "user is not a member" stay distinct so
// call sites can map them to different responses.
type Access struct {
	Decision Decision
	Role     Role
}

func (a Access) Allowed() bool {
	return a.Decision == AccessAllowed
}

func (a Access) Admin() bool {
	return a.Decision == AccessAllowed && a.Role == RoleAdmin
}

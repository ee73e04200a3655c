package entity

// Role is the slot a client occupies for the lifetime of a session
// connection. It is decided once, before connecting, and never changes
// afterwards.
type Role string

const (
	RoleNone      Role = ""
	RoleCreator   Role = "creator"
	RoleJoiner    Role = "joiner"
	RoleSpectator Role = "spectator"
)

func (that Role) IsPlayer() bool {
	return that == RoleCreator || that == RoleJoiner
}

// InitialMark - the mark a role plays at session genesis. Rematches may
// swap marks between the two players afterwards.
func (that Role) InitialMark() string {
	switch that {
	case RoleCreator:
		return MarkX
	case RoleJoiner:
		return MarkO
	default:
		return ""
	}
}

// DisplayName - chat attribution for this role playing the given mark.
func (that Role) DisplayName(mark string) string {
	if !that.IsPlayer() {
		return "Spectator"
	}
	return "Player " + mark
}

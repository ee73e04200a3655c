package session

import "github.com/rocketscienceinc/tictactoe-client/internal/entity"

// RoleResolver decides Creator/Joiner/Spectator exactly once per
// connection attempt; the role never changes afterwards.
//
// The server is the only arbiter of slot ownership and sends no
// dedicated rejection message, so the pre-connect presence query is the
// one signal a candidate Joiner has: a snapshot showing the slot
// occupied means another client already holds it. Broadcasts received
// after joining carry no such evidence — the first one normally
// reflects this client's own join, so a full board of presence flags in
// it must not be read as a lost race.
type RoleResolver struct {
	role entity.Role

	decided bool
}

func NewRoleResolver() *RoleResolver {
	return &RoleResolver{}
}

// ResolveCreator - the client that called "new game" owns the Creator
// slot from session genesis; no race exists.
func (that *RoleResolver) ResolveCreator() entity.Role {
	if that.decided {
		return that.role
	}

	that.role = entity.RoleCreator
	that.decided = true

	return that.role
}

// ResolveJoiner - a client arriving via a shared link is a candidate
// Joiner. snapshot is the optional pre-connect presence query result;
// nil means the query was skipped or failed, and the claim is kept in
// that case because the server still settles slot ownership either way.
func (that *RoleResolver) ResolveJoiner(snapshot *entity.GameFrame) entity.Role {
	if that.decided {
		return that.role
	}

	that.decided = true

	if snapshot != nil && snapshot.PlayerOPresent {
		that.role = entity.RoleSpectator
		return that.role
	}

	that.role = entity.RoleJoiner

	return that.role
}

func (that *RoleResolver) Role() entity.Role {
	return that.role
}

func (that *RoleResolver) Decided() bool {
	return that.decided
}

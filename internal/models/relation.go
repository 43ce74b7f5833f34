package models

// Relation — вид связи пользователь <-> сообщество.
//
// Связи хранятся в двух проекциях (документ пользователя и документ сообщества);
// RelationChange описывает логическое изменение целиком, а хранилище пишет обе стороны.
type Relation string

const (
	// RelMember: user.communities <-> community.members (счётчик).
	RelMember Relation = "member"
	// RelModerator: user.moderator_in_communities <-> community.moderators.
	RelModerator Relation = "moderator"
	// RelApproved: user.approved_in_communities <-> community.approved_users.
	RelApproved Relation = "approved"
	// RelBanned: user.banned_in_communities <-> community.banned_users.
	RelBanned Relation = "banned"
	// RelInvited: только community.invitations.
	RelInvited Relation = "invited"
	// RelMuted: только user.muted_communities.
	RelMuted Relation = "muted"
)

// RelationOp — направление изменения связи.
type RelationOp int8

const (
	RelationAdd RelationOp = iota + 1
	RelationRemove
)

// RelationChange — одно изменение связи. Для RelBanned+RelationAdd обязателен Ban;
// существующий бан пользователя при этом заменяется.
type RelationChange struct {
	Community string
	Username  string
	Relation  Relation
	Op        RelationOp
	Ban       *Ban
}

// Package keys is the single key codec for the table. Every repository
// builds its partition and sort keys here, so no two entity kinds can
// collide and prefix scans stay stable: under one partition each SK
// prefix sorts as a contiguous block.
package keys

import (
	"strings"

	"trevelo-backend/infrastructure/persistence/abstractions"
)

// Attribute names of the secondary index projection
const (
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
)

// Sort-key literals and prefixes
const (
	SKMeta     = "META"
	SKMetadata = "METADATA"
	SKProfile  = "PROFILE"

	PrefixJob       = "JOB#"
	PrefixGroup     = "GROUP#"
	PrefixUser      = "USER#"
	PrefixMember    = "MEMBER#"
	PrefixGroupTrip = "GTRIP#"
	PrefixTrip      = "TRIP#"
	PrefixVote      = "VOTE#"
	PrefixInvite    = "INVITE#"
	PrefixJobStatus = "JOBSTATUS#"
)

// Kind identifies the entity kind of a stored row
type Kind string

const (
	KindJob        Kind = "job"
	KindGroup      Kind = "group"
	KindMembership Kind = "membership"
	KindGroupTrip  Kind = "groupTrip"
	KindTrip       Kind = "trip"
	KindVote       Kind = "vote"
	KindProfile    Kind = "profile"
	KindUnknown    Kind = "unknown"
)

// JobKey addresses a job's metadata row
func JobKey(jobID string) abstractions.Key {
	return abstractions.Key{PK: PrefixJob + jobID, SK: SKMeta}
}

// GroupKey addresses a group's metadata row
func GroupKey(groupID string) abstractions.Key {
	return abstractions.Key{PK: PrefixGroup + groupID, SK: SKMetadata}
}

// MemberKey addresses one membership row
func MemberKey(groupID, userID string) abstractions.Key {
	return abstractions.Key{PK: PrefixGroup + groupID, SK: PrefixMember + userID}
}

// MemberPrefix scans all members of a group
func MemberPrefix(groupID string) (pk, skPrefix string) {
	return PrefixGroup + groupID, PrefixMember
}

// GroupTripKey addresses one group trip row
func GroupTripKey(groupID, tripID string) abstractions.Key {
	return abstractions.Key{PK: PrefixGroup + groupID, SK: PrefixGroupTrip + tripID}
}

// GroupTripPrefix scans all trips of a group
func GroupTripPrefix(groupID string) (pk, skPrefix string) {
	return PrefixGroup + groupID, PrefixGroupTrip
}

// TripKey addresses one personal trip row
func TripKey(userID, tripID string) abstractions.Key {
	return abstractions.Key{PK: PrefixUser + userID, SK: PrefixTrip + tripID}
}

// TripPrefix scans all personal trips of a user
func TripPrefix(userID string) (pk, skPrefix string) {
	return PrefixUser + userID, PrefixTrip
}

// VoteKey addresses one user's vote on a group trip
func VoteKey(groupID, tripID, userID string) abstractions.Key {
	return abstractions.Key{PK: PrefixGroup + groupID, SK: PrefixVote + tripID + "#" + userID}
}

// VotePrefix scans all votes on one group trip. The trailing separator
// keeps trip IDs that share a prefix out of each other's scans.
func VotePrefix(groupID, tripID string) (pk, skPrefix string) {
	return PrefixGroup + groupID, PrefixVote + tripID + "#"
}

// ProfileKey addresses a user's profile row
func ProfileKey(userID string) abstractions.Key {
	return abstractions.Key{PK: PrefixUser + userID, SK: SKProfile}
}

// InviteGSI returns the secondary-index projection of a group row so its
// invite code resolves without a table scan
func InviteGSI(inviteCode, groupID string) (gsi1pk, gsi1sk string) {
	return PrefixInvite + inviteCode, PrefixInvite + groupID
}

// InvitePartition is the index partition holding one invite code
func InvitePartition(inviteCode string) string {
	return PrefixInvite + inviteCode
}

// JobStatusGSI returns the secondary-index projection of a job row so
// jobs in one status are queryable without a scan
func JobStatusGSI(status, jobID string) (gsi1pk, gsi1sk string) {
	return PrefixJobStatus + status, PrefixJob + jobID
}

// JobStatusPartition is the index partition holding all jobs in a status
func JobStatusPartition(status string) string {
	return PrefixJobStatus + status
}

// KindOf classifies a raw stored row by its sort key
func KindOf(sk string) Kind {
	switch {
	case sk == SKMeta:
		return KindJob
	case sk == SKMetadata:
		return KindGroup
	case sk == SKProfile:
		return KindProfile
	case strings.HasPrefix(sk, PrefixMember):
		return KindMembership
	case strings.HasPrefix(sk, PrefixGroupTrip):
		return KindGroupTrip
	case strings.HasPrefix(sk, PrefixTrip):
		return KindTrip
	case strings.HasPrefix(sk, PrefixVote):
		return KindVote
	default:
		return KindUnknown
	}
}

// Package domain contains core concepts of the matchmaking system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"strings"
	"time"
)

type Role int

const (
	RoleUnset Role = iota
	RoleMentor
	RoleMentee
)

func (r Role) String() string {
	switch r {
	case RoleMentor:
		return "mentor"
	case RoleMentee:
		return "mentee"
	default:
		return "unset"
	}
}

// Opposite returns the role a participant can be paired with.
func (r Role) Opposite() Role {
	switch r {
	case RoleMentor:
		return RoleMentee
	case RoleMentee:
		return RoleMentor
	default:
		return RoleUnset
	}
}

// ParseRole maps free text to a Role. Unknown input yields RoleUnset.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mentor":
		return RoleMentor
	case "mentee":
		return RoleMentee
	default:
		return RoleUnset
	}
}

type Field int

const (
	FieldUnset Field = iota
	FieldEducation
	FieldBusiness
	FieldIT
)

func (f Field) String() string {
	switch f {
	case FieldEducation:
		return "education"
	case FieldBusiness:
		return "business"
	case FieldIT:
		return "it"
	default:
		return "unset"
	}
}

// ParseField maps free text to a Field. Unknown input yields FieldUnset.
func ParseField(s string) Field {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "education":
		return FieldEducation
	case "business":
		return FieldBusiness
	case "it":
		return FieldIT
	default:
		return FieldUnset
	}
}

// Fields lists every professional category a participant can declare.
var Fields = []Field{FieldEducation, FieldBusiness, FieldIT}

// Stage tracks how far a participant progressed through onboarding.
type Stage int

const (
	StageNew Stage = iota
	StageRoleChosen
	StageFieldChosen
)

// Participant is one chat-platform user id tracked by the engine.
//
// Invariants maintained by the store:
//   - Partner != "" implies Searching == false
//   - the partner's Partner field points back at this participant
//   - Epoch only ever increases
type Participant struct {
	ID        string
	Role      Role
	Field     Field
	Stage     Stage
	Searching bool
	Partner   string // empty when not in a session
	Epoch     uint64
	CreatedAt time.Time
}

// InSession reports whether the participant is currently paired.
func (p Participant) InSession() bool {
	return p.Partner != ""
}

// CandidateFor reports whether p is a valid match candidate for the requester.
// Both sides need a declared role and field; roles must differ, fields must match.
func (p Participant) CandidateFor(requester Participant) bool {
	if p.ID == requester.ID {
		return false
	}
	if !p.Searching || p.InSession() {
		return false
	}
	if p.Role == RoleUnset || p.Role != requester.Role.Opposite() {
		return false
	}
	return p.Field != FieldUnset && p.Field == requester.Field
}

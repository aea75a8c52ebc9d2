package models

import "time"

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipApproved MembershipStatus = "approved"
	MembershipRejected MembershipStatus = "rejected"
)

// Decided reports whether the status is terminal.
func (s MembershipStatus) Decided() bool {
	return s == MembershipApproved || s == MembershipRejected
}

type RejectionReason string

const (
	ReasonLowGrades           RejectionReason = "low_grades"
	ReasonIncompleteDocuments RejectionReason = "incomplete_documents"
	ReasonBadMoralRecord      RejectionReason = "bad_moral_record"
	ReasonLackOfCommitment    RejectionReason = "lack_of_commitment"
	ReasonDisciplinaryAction  RejectionReason = "disciplinary_action"
	ReasonAttendanceIssues    RejectionReason = "attendance_issues"
	ReasonFailedInterview     RejectionReason = "failed_interview"
	ReasonNotMeetRequirements RejectionReason = "not_meet_requirements"
	ReasonOther               RejectionReason = "other"
)

// ValidRejectionReason reports whether the reason is one of the fixed enumeration.
func ValidRejectionReason(r RejectionReason) bool {
	switch r {
	case ReasonLowGrades, ReasonIncompleteDocuments, ReasonBadMoralRecord,
		ReasonLackOfCommitment, ReasonDisciplinaryAction, ReasonAttendanceIssues,
		ReasonFailedInterview, ReasonNotMeetRequirements, ReasonOther:
		return true
	}
	return false
}

// Membership records a user's request to affiliate with an organization and
// its approval state. The composite unique index is the duplicate guard: the
// store refuses a second request for the same pair regardless of status.
type Membership struct {
	ID               uint64           `gorm:"primarykey" json:"id"`
	UserID           uint64           `gorm:"not null;uniqueIndex:idx_memberships_user_org" json:"user_id"`
	OrganizationID   uint64           `gorm:"not null;uniqueIndex:idx_memberships_user_org" json:"organization_id"`
	Status           MembershipStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	JoinedAt         time.Time        `json:"joined_at"`
	ApprovalDate     *time.Time       `json:"approval_date,omitempty"`
	RejectionReason  RejectionReason  `gorm:"type:varchar(40)" json:"rejection_reason,omitempty"`
	RejectionDetails string           `gorm:"type:text" json:"rejection_details,omitempty"`

	// Relations
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

package domain

// LinkedAccount is one external account attached to an upstream identity.
type LinkedAccount struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Identity is the canonical user identity resolved from the identity provider.
// Immutable once fetched; persistence of a derived member profile belongs to
// the data-plane services, not to this core.
type Identity struct {
	SubjectID      string
	Email          string
	CreatedAt      int64 // unix milliseconds
	LinkedAccounts []LinkedAccount
}

// BadgeAward is the write request for awarding a badge to a member.
type BadgeAward struct {
	MemberID  string
	BadgeID   string
	AwardedBy string
	Note      string
}

// BadgeRecord is the persisted result of a badge award.
type BadgeRecord struct {
	ID        string `json:"id"`
	MemberID  string `json:"member_id"`
	BadgeID   string `json:"badge_id"`
	AwardedBy string `json:"awarded_by"`
	Note      string `json:"note,omitempty"`
	AwardedAt string `json:"awarded_at"`
}

package domain

// Pricing tiers, derived from event deadlines. The tier names double as the
// suffix convention on the event price columns.
const (
	TierEarlyBird = "earlybird"
	TierStandard  = "standard"
	TierOnsite    = "onsite"
)

// Pricing categories, derived from member profiles.
const (
	CategoryMember    = "member"
	CategoryRegular   = "regular"
	CategoryStudent   = "student"
	CategoryHygienist = "hygienist"
)

const (
	MembershipPaid = "paid"
	MembershipFree = "free"
)

const (
	DiscountFixed   = "fixed"
	DiscountPercent = "percent"
)

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// Currency is the settlement currency for all event invoices. BHD carries
// three decimal places.
const Currency = "BHD"

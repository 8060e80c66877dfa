package domain

// Application statuses. Transitions are pending -> approved or
// pending -> rejected; both are terminal.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Settlement statuses. Same transition shape as applications.
const (
	SettlementStatusPending  = "pending"
	SettlementStatusApproved = "approved"
	SettlementStatusRejected = "rejected"
)

// Chat room types. Notice rooms are tied to a job posting and restrict
// message authorship to administrators.
const (
	RoomTypeAdmin  = "admin"
	RoomTypeNotice = "notice"
	RoomTypeGroup  = "group"
)

// Notification kinds.
const (
	NotificationKindPersonal = "personal"
	NotificationKindGlobal   = "global"
)

// Job posting visibility. VisibilityAll is the sentinel making a posting
// visible to every user; VisibilityCustom scopes it to the visible_to list.
const (
	VisibilityAll    = "all"
	VisibilityCustom = "custom"
)

// User roles supplied by the token verifier.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Outbox event lifecycle.
const (
	EventStatusPending   = "pending"
	EventStatusPublished = "published"
	EventStatusDelivered = "delivered"
)

// Outbox event types emitted by the workflow.
const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationApproved  = "application.approved"
	EventSettlementRequested  = "settlement.requested"
	EventSettlementApproved   = "settlement.approved"
)

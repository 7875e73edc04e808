package domain

// IntegrationType identifies an external provider.
type IntegrationType string

const (
	IntegrationSlack    IntegrationType = "slack"
	IntegrationNotion   IntegrationType = "notion"
	IntegrationGmail    IntegrationType = "gmail"
	IntegrationGitHub   IntegrationType = "github"
	IntegrationCalendar IntegrationType = "calendar"
)

// IntegrationTypes lists every supported provider in display order.
var IntegrationTypes = []IntegrationType{
	IntegrationSlack, IntegrationNotion, IntegrationGmail, IntegrationGitHub, IntegrationCalendar,
}

func (t IntegrationType) String() string { return string(t) }

func (t IntegrationType) IsValid() bool {
	switch t {
	case IntegrationSlack, IntegrationNotion, IntegrationGmail, IntegrationGitHub, IntegrationCalendar:
		return true
	}
	return false
}

// IntegrationStatus is the lifecycle state of a connected integration.
type IntegrationStatus string

const (
	IntegrationStatusActive       IntegrationStatus = "active"
	IntegrationStatusPaused       IntegrationStatus = "paused"
	IntegrationStatusError        IntegrationStatus = "error"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
)

func (s IntegrationStatus) String() string { return string(s) }

func (s IntegrationStatus) IsValid() bool {
	switch s {
	case IntegrationStatusActive, IntegrationStatusPaused, IntegrationStatusError, IntegrationStatusDisconnected:
		return true
	}
	return false
}

// MemoryType classifies a memory.
type MemoryType string

const (
	MemoryTypeDecision   MemoryType = "decision"
	MemoryTypeActionItem MemoryType = "action_item"
	MemoryTypeDiscussion MemoryType = "discussion"
	MemoryTypeDocument   MemoryType = "document"
	MemoryTypeMeeting    MemoryType = "meeting"
	MemoryTypeOther      MemoryType = "other"
)

func (t MemoryType) String() string { return string(t) }

func (t MemoryType) IsValid() bool {
	switch t {
	case MemoryTypeDecision, MemoryTypeActionItem, MemoryTypeDiscussion,
		MemoryTypeDocument, MemoryTypeMeeting, MemoryTypeOther:
		return true
	}
	return false
}

// Memory sources that are not integrations.
const (
	SourceManual     = "manual"
	SourceWebCapture = "web_capture"
	SourceGoogleMeet = "google_meet"
)

// Role is a user's role within their team.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManageIntegrations reports whether the role may connect, configure and
// disconnect integrations.
func (r Role) CanManageIntegrations() bool {
	return r == RoleOwner || r == RoleAdmin
}

// TimeRange is a named window relative to now used to scope queries.
type TimeRange string

const (
	TimeRangeToday     TimeRange = "today"
	TimeRangeYesterday TimeRange = "yesterday"
	TimeRangeLastWeek  TimeRange = "last_week"
	TimeRangeLastMonth TimeRange = "last_month"
	TimeRangeAllTime   TimeRange = "all_time"
)

func (r TimeRange) IsValid() bool {
	switch r {
	case TimeRangeToday, TimeRangeYesterday, TimeRangeLastWeek, TimeRangeLastMonth, TimeRangeAllTime:
		return true
	}
	return false
}

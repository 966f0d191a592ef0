// Package event defines the event vocabulary appended to the event log.
package event

// Agent events.
const (
	AgentErrorDetected    = "agent_error_detected"
	AgentRetryScheduled   = "agent_retry_scheduled"
	AgentErrorCleared     = "agent_error_cleared"
	AgentStatusChanged    = "agent_status_changed"
	AgentActivityAppended = "agent_activity_appended"
)

// Mission events.
const (
	MissionCreated      = "mission_created"
	MissionUpdated      = "mission_updated"
	MissionStarted      = "mission_started"
	MissionEngaged      = "mission_engaged"
	MissionPaused       = "mission_paused"
	MissionResumed      = "mission_resumed"
	MissionCompleted    = "mission_completed"
	MissionAborted      = "mission_aborted"
	MissionDuplicated   = "mission_duplicated"
	MissionDraftCreated = "mission_draft_created"
)

// Mission control events.
const (
	ThreadCreated             = "thread_created"
	ThreadLoaded              = "thread_loaded"
	PraefectusMessageAppended = "praefectus_message_appended"
	RunControlsUsed           = "run_controls_used"
)

// Outreach and research events.
const (
	HotLeadCreated       = "hotlead_created"
	HotLeadScriptEdited  = "hotlead_script_edited"
	HotLeadStatusChanged = "hotlead_status_changed"
	GuardrailCreated     = "guardrail_created"
	GuardrailUpdated     = "guardrail_updated"
	FindingsCreated      = "findings_created"
	FindingsExported     = "findings_exported"
	ForumLinkChecked     = "forum_link_checked"
)

// Platform events.
const (
	ProviderSelectedDefault = "provider_selected_default"
	FrontendError           = "fe_error"
)

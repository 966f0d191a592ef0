package thread

// Role identifies the author of a message.
type Role string

const (
	RoleHuman      Role = "human"
	RolePraefectus Role = "praefectus"
)

// SystemPrompt frames every Praefectus conversation.
const SystemPrompt = "You are Praefectus, the orchestrator for Praetorian Legion. " +
	"Help the operator shape research and outreach missions across online forums. " +
	"Be concise, ask one clarifying question at a time, and never propose outreach " +
	"that breaks a forum's rules or the mission's posture."

// DraftPrompt asks the model to distill the conversation into a mission.
const DraftPrompt = "Summarize the conversation so far into a mission draft. " +
	"Reply with JSON only: {\"title\": string, \"objective\": string, " +
	"\"posture\": \"help_only\" | \"help_plus_soft_marketing\" | \"research_only\"}."

// Turn is one message of a conversation as sent to the model.
type Turn struct {
	Role Role
	Text string
}

package tools

// FillerResult is returned by agent_filler. The message is spoken by the agent
// while a slow lookup runs.
type FillerResult struct {
	Status      string `json:"status"`
	MessageType string `json:"message_type"`
	Message     string `json:"message"`
}

// FarewellResult is returned by end_call. The transport closes the call after
// the message is spoken.
type FarewellResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AgentFiller prepares a stalling acknowledgment.
func AgentFiller(messageType string) FillerResult {
	msg := "One moment please..."
	if messageType == "lookup" {
		msg = "Let me look that up for you..."
	}
	return FillerResult{Status: "queued", MessageType: messageType, Message: msg}
}

// EndCall prepares the closing line for the given farewell type.
func EndCall(farewellType string) FarewellResult {
	var msg string
	switch farewellType {
	case "thanks":
		msg = "Thank you for calling! Have a great day!"
	case "help":
		msg = "I'm glad I could help! Have a wonderful day!"
	default:
		msg = "Goodbye! Have a nice day!"
	}
	return FarewellResult{Status: "closing", Message: msg}
}

package message

const (
	InvalidInput         = "Invalid input."
	UnknownField         = "Unknown field in payload."
	PayloadTooLarge      = "Payload too large."
	ConversationStarted  = "Conversation started."
	ConversationFailed   = "Failed to create conversation."
	ConversationNotFound = "Conversation not found."
	ConversationRenamed  = "Conversation renamed."
	MessageFailed        = "Failed to send message."
	RequestTimeout       = "Request cancelled or timed out."
	ServerError          = "An unexpected error occurred."

	FmtErrStatusCode = "rec.Code = %d, want: %d"
)

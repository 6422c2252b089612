package app

import (
	"net/http"

	"github.com/ferdiebergado/chatrelay/internal/chat"
	"github.com/ferdiebergado/chatrelay/internal/middleware"
	"github.com/ferdiebergado/chatrelay/internal/platform/router"
	"github.com/ferdiebergado/chatrelay/internal/platform/validation"
)

func mountChatRoutes(r router.Router, handler *chat.Handler, validator validation.Validator, maxBodySize int64) {
	r.Group("/api", func(gr router.Router) {
		gr.Post("/conversation", handler.StartConversation,
			middleware.DecodePayload[chat.StartConversationRequest](maxBodySize),
			middleware.ValidateInput[chat.StartConversationRequest](validator))
		gr.Post("/message", handler.SendMessage,
			middleware.DecodePayload[chat.SendMessageRequest](maxBodySize),
			middleware.ValidateInput[chat.SendMessageRequest](validator))
		gr.Get("/subjects", handler.ListSubjects)
		gr.Get("/conversations", handler.ListConversations)
		gr.Get("/conversations/{id}/messages", handler.ListMessages)
		gr.Patch("/conversations/{id}", handler.RenameConversation,
			middleware.DecodePayload[chat.RenameConversationRequest](maxBodySize),
			middleware.ValidateInput[chat.RenameConversationRequest](validator))

		// preflight; the CORS middleware answers allowed origins.
		gr.Options("/{path...}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

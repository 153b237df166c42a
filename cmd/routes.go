package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	proAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("pro"))

	mux := pat.New()

	// Tasks
	mux.Post("/task", authMiddleware.ThenFunc(app.taskHandler.CreateTask))
	mux.Get("/tasks/my", authMiddleware.ThenFunc(app.taskHandler.GetMyTasks))
	mux.Get("/task/:id", authMiddleware.ThenFunc(app.taskHandler.GetTaskByID))
	mux.Post("/task/:id/publish", authMiddleware.ThenFunc(app.taskHandler.PublishTask))
	mux.Del("/task/:id", authMiddleware.ThenFunc(app.taskHandler.CancelTask))

	// Offers
	mux.Post("/offer", proAuthMiddleware.ThenFunc(app.offerHandler.CreateOffer))
	mux.Get("/task/:task_id/offers", authMiddleware.ThenFunc(app.offerHandler.GetOffersByTaskID))
	mux.Post("/offer/:id/view", authMiddleware.ThenFunc(app.offerHandler.ViewOffer))
	mux.Post("/offer/:id/accept", authMiddleware.ThenFunc(app.offerHandler.AcceptOffer))
	mux.Post("/offer/:id/reject", authMiddleware.ThenFunc(app.offerHandler.RejectOffer))
	mux.Post("/offer/:id/withdraw", proAuthMiddleware.ThenFunc(app.offerHandler.WithdrawOffer))

	// Ranking and feed
	mux.Get("/task/:task_id/ranking", authMiddleware.ThenFunc(app.rankingHandler.GetRankedPros))
	mux.Get("/feed", proAuthMiddleware.ThenFunc(app.feedHandler.GetFeed))

	// Chat
	mux.Get("/ws", authMiddleware.ThenFunc(app.WebSocketHandler))
	mux.Get("/chats", authMiddleware.ThenFunc(app.chatHandler.GetMyChats))
	mux.Get("/chat/:id", authMiddleware.ThenFunc(app.chatHandler.GetChatByID))
	mux.Get("/chat/:id/messages", authMiddleware.ThenFunc(app.chatHandler.GetMessagesByChatID))
	mux.Post("/chat/:id/messages", authMiddleware.ThenFunc(app.chatHandler.SendMessage))

	// Notifications
	mux.Get("/notifications", authMiddleware.ThenFunc(app.notificationHandler.GetMyNotifications))
	mux.Post("/notifications/token", authMiddleware.ThenFunc(app.notificationHandler.RegisterToken))
	mux.Del("/notifications/token", authMiddleware.ThenFunc(app.notificationHandler.DeleteToken))

	// Professional location
	mux.Put("/pro/location", proAuthMiddleware.ThenFunc(app.locationHandler.UpdateLocation))
	mux.Del("/pro/location", proAuthMiddleware.ThenFunc(app.locationHandler.RemoveLocation))

	return standardMiddleware.Then(mux)
}

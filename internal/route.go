package internal

import (
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/auth"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"

	ctlChat "github.com/kadigal/go-whatsapp-session-gateway/internal/chat"
	ctlClient "github.com/kadigal/go-whatsapp-session-gateway/internal/client"
	ctlContact "github.com/kadigal/go-whatsapp-session-gateway/internal/contact"
	ctlGroups "github.com/kadigal/go-whatsapp-session-gateway/internal/groups"
	ctlIndex "github.com/kadigal/go-whatsapp-session-gateway/internal/index"
	ctlMessage "github.com/kadigal/go-whatsapp-session-gateway/internal/message"
	ctlSession "github.com/kadigal/go-whatsapp-session-gateway/internal/session"
	ws "github.com/kadigal/go-whatsapp-session-gateway/internal/ws"
)

func Routes(app *fiber.App, manager *whatsapp.Manager, hub *ws.Hub) {
	// Configure OpenAPI / Swagger
	specURL := router.BaseURL + "/docs/swagger.json"
	swaggerHandler := swagger.New(swagger.Config{
		URL: specURL,
	})

	keyAuth := auth.APIKeyAuth()

	sessionCtl := ctlSession.New(manager)
	clientCtl := ctlClient.New(manager)
	chatCtl := ctlChat.New(manager)
	messageCtl := ctlMessage.New(manager)
	contactCtl := ctlContact.New(manager)
	groupsCtl := ctlGroups.New(manager)
	indexCtl := ctlIndex.New(manager)
	wsCtl := ws.New(manager, hub)

	// Route for Index and probes
	// ---------------------------------------------
	if router.BaseURL == "" {
		app.Get("/", ctlIndex.Index)
	} else {
		app.Get("/", indexCtl.Health)
		app.Get(router.BaseURL, ctlIndex.Index)
		app.Get(router.BaseURL+"/", ctlIndex.Index)
	}
	app.Get("/health", indexCtl.Health)
	app.Get("/ping", ctlIndex.Ping)

	// Route for OpenAPI / Swagger
	// ---------------------------------------------
	app.Get(router.BaseURL+"/docs/swagger.json", func(c *fiber.Ctx) error {
		return c.SendFile("docs/swagger.json")
	})
	app.Get(router.BaseURL+"/docs/swagger.yaml", func(c *fiber.Ctx) error {
		return c.SendFile("docs/swagger.yaml")
	})
	app.Get(router.BaseURL+"/docs/*", swaggerHandler)

	// Session routes
	// ---------------------------------------------
	app.Post(router.BaseURL+"/session/start/:sessionId", keyAuth, sessionCtl.Start)
	app.Get(router.BaseURL+"/session/status/:sessionId", keyAuth, sessionCtl.Status)
	app.Get(router.BaseURL+"/session/qr/:sessionId", keyAuth, sessionCtl.QR)
	app.Get(router.BaseURL+"/session/qr/:sessionId/image", keyAuth, sessionCtl.QRImage)
	app.Post(router.BaseURL+"/session/requestPairingCode/:sessionId", keyAuth, sessionCtl.RequestPairingCode)
	app.Post(router.BaseURL+"/session/restart/:sessionId", keyAuth, sessionCtl.Restart)
	app.Post(router.BaseURL+"/session/stop/:sessionId", keyAuth, sessionCtl.Stop)
	app.Post(router.BaseURL+"/session/terminate/:sessionId", keyAuth, sessionCtl.Terminate)
	app.Post(router.BaseURL+"/session/logout/:sessionId", keyAuth, sessionCtl.Logout)
	app.Get(router.BaseURL+"/session/list", keyAuth, sessionCtl.List)
	app.Post(router.BaseURL+"/session/terminateInactive", keyAuth, sessionCtl.TerminateInactive)

	// Client routes
	// ---------------------------------------------
	app.Post(router.BaseURL+"/client/:sessionId/sendMessage", keyAuth, clientCtl.SendMessage)
	app.Get(router.BaseURL+"/client/:sessionId/getChats", keyAuth, clientCtl.GetChats)
	app.Get(router.BaseURL+"/client/:sessionId/getContacts", keyAuth, clientCtl.GetContacts)
	app.Post(router.BaseURL+"/client/:sessionId/getChatById", keyAuth, clientCtl.GetChatByID)
	app.Post(router.BaseURL+"/client/:sessionId/getMessages", keyAuth, clientCtl.GetMessages)
	app.Post(router.BaseURL+"/client/:sessionId/isRegisteredUser", keyAuth, clientCtl.IsRegisteredUser)
	app.Post(router.BaseURL+"/client/:sessionId/getNumberId", keyAuth, clientCtl.GetNumberID)
	app.Post(router.BaseURL+"/client/:sessionId/getProfilePicUrl", keyAuth, clientCtl.GetProfilePicURL)
	app.Post(router.BaseURL+"/client/:sessionId/sendPresenceAvailable", keyAuth, clientCtl.SendPresenceAvailable)
	app.Post(router.BaseURL+"/client/:sessionId/sendPresenceUnavailable", keyAuth, clientCtl.SendPresenceUnavailable)
	app.Post(router.BaseURL+"/client/:sessionId/setStatus", keyAuth, clientCtl.SetStatus)
	app.Post(router.BaseURL+"/client/:sessionId/setDisplayName", keyAuth, clientCtl.SetDisplayName)
	app.Post(router.BaseURL+"/client/:sessionId/createGroup", keyAuth, clientCtl.CreateGroup)
	app.Post(router.BaseURL+"/client/:sessionId/acceptInvite", keyAuth, clientCtl.AcceptInvite)
	app.Get(router.BaseURL+"/client/:sessionId/getState", keyAuth, clientCtl.GetState)

	// Chat routes
	// ---------------------------------------------
	app.Post(router.BaseURL+"/chat/:sessionId/archive", keyAuth, chatCtl.Archive)
	app.Post(router.BaseURL+"/chat/:sessionId/unArchive", keyAuth, chatCtl.Unarchive)
	app.Post(router.BaseURL+"/chat/:sessionId/pin", keyAuth, chatCtl.Pin)
	app.Post(router.BaseURL+"/chat/:sessionId/unpin", keyAuth, chatCtl.Unpin)
	app.Post(router.BaseURL+"/chat/:sessionId/mute", keyAuth, chatCtl.Mute)
	app.Post(router.BaseURL+"/chat/:sessionId/unmute", keyAuth, chatCtl.Unmute)
	app.Post(router.BaseURL+"/chat/:sessionId/markRead", keyAuth, chatCtl.MarkRead)
	app.Post(router.BaseURL+"/chat/:sessionId/markUnread", keyAuth, chatCtl.MarkUnread)
	app.Post(router.BaseURL+"/chat/:sessionId/delete", keyAuth, chatCtl.Delete)
	app.Post(router.BaseURL+"/chat/:sessionId/clear", keyAuth, chatCtl.Clear)
	app.Post(router.BaseURL+"/chat/:sessionId/sendTyping", keyAuth, chatCtl.SendTyping)
	app.Post(router.BaseURL+"/chat/:sessionId/sendRecording", keyAuth, chatCtl.SendRecording)
	app.Post(router.BaseURL+"/chat/:sessionId/stopTyping", keyAuth, chatCtl.StopTyping)
	app.Post(router.BaseURL+"/chat/:sessionId/fetchMessages", keyAuth, chatCtl.FetchMessages)
	app.Post(router.BaseURL+"/chat/:sessionId/setDisappearing", keyAuth, chatCtl.SetDisappearing)

	// Message routes
	// ---------------------------------------------
	app.Post(router.BaseURL+"/message/:sessionId/react", keyAuth, messageCtl.React)
	app.Post(router.BaseURL+"/message/:sessionId/unreact", keyAuth, messageCtl.Unreact)
	app.Post(router.BaseURL+"/message/:sessionId/star", keyAuth, messageCtl.Star)
	app.Post(router.BaseURL+"/message/:sessionId/unstar", keyAuth, messageCtl.Unstar)
	app.Post(router.BaseURL+"/message/:sessionId/delete", keyAuth, messageCtl.Delete)
	app.Post(router.BaseURL+"/message/:sessionId/edit", keyAuth, messageCtl.Edit)
	app.Post(router.BaseURL+"/message/:sessionId/pin", keyAuth, messageCtl.Pin)
	app.Post(router.BaseURL+"/message/:sessionId/unpin", keyAuth, messageCtl.Unpin)
	app.Post(router.BaseURL+"/message/:sessionId/forward", keyAuth, messageCtl.Forward)
	app.Post(router.BaseURL+"/message/:sessionId/downloadMedia", keyAuth, messageCtl.DownloadMedia)
	app.Post(router.BaseURL+"/message/:sessionId/getInfo", keyAuth, messageCtl.GetInfo)

	// Contact routes
	// ---------------------------------------------
	app.Post(router.BaseURL+"/contact/:sessionId/block", keyAuth, contactCtl.Block)
	app.Post(router.BaseURL+"/contact/:sessionId/unblock", keyAuth, contactCtl.Unblock)
	app.Post(router.BaseURL+"/contact/:sessionId/getAbout", keyAuth, contactCtl.GetAbout)
	app.Post(router.BaseURL+"/contact/:sessionId/getProfilePic", keyAuth, contactCtl.GetProfilePic)
	app.Post(router.BaseURL+"/contact/:sessionId/getCommonGroups", keyAuth, contactCtl.GetCommonGroups)
	app.Post(router.BaseURL+"/contact/:sessionId/getContactById", keyAuth, contactCtl.GetContactByID)

	// Group routes
	// ---------------------------------------------
	app.Get(router.BaseURL+"/group/:sessionId/list", keyAuth, groupsCtl.List)
	app.Post(router.BaseURL+"/group/:sessionId/getInfo", keyAuth, groupsCtl.GetInfo)
	app.Post(router.BaseURL+"/group/:sessionId/getInfoFromInvite", keyAuth, groupsCtl.GetInfoFromInvite)
	app.Post(router.BaseURL+"/group/:sessionId/addParticipants", keyAuth, groupsCtl.AddParticipants)
	app.Post(router.BaseURL+"/group/:sessionId/removeParticipants", keyAuth, groupsCtl.RemoveParticipants)
	app.Post(router.BaseURL+"/group/:sessionId/promoteParticipants", keyAuth, groupsCtl.PromoteParticipants)
	app.Post(router.BaseURL+"/group/:sessionId/demoteParticipants", keyAuth, groupsCtl.DemoteParticipants)
	app.Post(router.BaseURL+"/group/:sessionId/setSubject", keyAuth, groupsCtl.SetSubject)
	app.Post(router.BaseURL+"/group/:sessionId/setDescription", keyAuth, groupsCtl.SetDescription)
	app.Post(router.BaseURL+"/group/:sessionId/setTopic", keyAuth, groupsCtl.SetTopic)
	app.Post(router.BaseURL+"/group/:sessionId/setPicture", keyAuth, groupsCtl.SetPicture)
	app.Post(router.BaseURL+"/group/:sessionId/getInviteCode", keyAuth, groupsCtl.GetInviteCode)
	app.Post(router.BaseURL+"/group/:sessionId/revokeInviteCode", keyAuth, groupsCtl.RevokeInviteCode)
	app.Post(router.BaseURL+"/group/:sessionId/join", keyAuth, groupsCtl.Join)
	app.Post(router.BaseURL+"/group/:sessionId/acceptV4Invite", keyAuth, groupsCtl.AcceptV4Invite)
	app.Post(router.BaseURL+"/group/:sessionId/leave", keyAuth, groupsCtl.Leave)
	app.Post(router.BaseURL+"/group/:sessionId/setLocked", keyAuth, groupsCtl.SetLocked)
	app.Post(router.BaseURL+"/group/:sessionId/setAnnounce", keyAuth, groupsCtl.SetAnnounce)
	app.Post(router.BaseURL+"/group/:sessionId/setJoinApproval", keyAuth, groupsCtl.SetJoinApproval)
	app.Post(router.BaseURL+"/group/:sessionId/setMemberAddMode", keyAuth, groupsCtl.SetMemberAddMode)
	app.Post(router.BaseURL+"/group/:sessionId/getRequests", keyAuth, groupsCtl.GetRequests)
	app.Post(router.BaseURL+"/group/:sessionId/approveRequests", keyAuth, groupsCtl.ApproveRequests)
	app.Post(router.BaseURL+"/group/:sessionId/rejectRequests", keyAuth, groupsCtl.RejectRequests)

	// WebSocket routes
	// ---------------------------------------------
	app.Post(router.BaseURL+"/ws/token", keyAuth, wsCtl.Token)
	app.Get(router.BaseURL+"/ws", wsCtl.Upgrade, websocket.New(wsCtl.Serve))
}

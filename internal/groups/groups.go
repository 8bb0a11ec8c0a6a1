package groups

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/internal/controller"
	typGateway "github.com/kadigal/go-whatsapp-session-gateway/internal/types"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

type Controller struct {
	controller.Base
}

func New(manager *whatsapp.Manager) *Controller {
	return &Controller{controller.Base{Manager: manager}}
}

var (
	errParseBody           = errors.New("Failed parse body request")
	errMissingChatID       = errors.New("chatId is required")
	errMissingParticipants = errors.New("participants are required")
)

// participantsRef binds the common {chatId, participants} body and
// resolves the session.
func (ctl *Controller) participantsRef(c *fiber.Ctx) (*whatsapp.Session, typGateway.RequestGroupParticipants, error) {
	var req typGateway.RequestGroupParticipants

	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return nil, req, err
	}

	if err := c.BodyParser(&req); err != nil {
		return nil, req, controller.RequestError(errParseBody)
	}
	if req.Group() == "" {
		return nil, req, controller.RequestError(errMissingChatID)
	}
	if len(req.Participants) == 0 {
		return nil, req, controller.RequestError(errMissingParticipants)
	}
	return sess, req, nil
}

func (ctl *Controller) List(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	groups, err := sess.Groups(c.UserContext())
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success list groups", groups)
}

func (ctl *Controller) GetInfo(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestChatID
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	group, err := sess.GroupInfo(c.UserContext(), req.ChatID)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get group info", group)
}

func (ctl *Controller) GetInfoFromInvite(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestAcceptInvite
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Value() == "" {
		return router.ResponseBadRequest(c, "inviteCode is required")
	}

	group, err := sess.GroupInfoFromLink(c.UserContext(), req.Value())
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get group info from invite", group)
}

func (ctl *Controller) AddParticipants(c *fiber.Ctx) error {
	sess, req, err := ctl.participantsRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	result, err := sess.AddGroupParticipants(c.UserContext(), req.Group(), req.Participants)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success add participants", result)
}

func (ctl *Controller) RemoveParticipants(c *fiber.Ctx) error {
	sess, req, err := ctl.participantsRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	result, err := sess.RemoveGroupParticipants(c.UserContext(), req.Group(), req.Participants)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success remove participants", result)
}

func (ctl *Controller) PromoteParticipants(c *fiber.Ctx) error {
	sess, req, err := ctl.participantsRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	result, err := sess.PromoteGroupParticipants(c.UserContext(), req.Group(), req.Participants)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success promote participants", result)
}

func (ctl *Controller) DemoteParticipants(c *fiber.Ctx) error {
	sess, req, err := ctl.participantsRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	result, err := sess.DemoteGroupParticipants(c.UserContext(), req.Group(), req.Participants)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success demote participants", result)
}

func (ctl *Controller) SetSubject(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestGroupSubject
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}
	if req.Value() == "" {
		return router.ResponseBadRequest(c, "subject is required")
	}

	if err := sess.SetGroupName(c.UserContext(), req.ChatID, req.Value()); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set group subject")
}

func (ctl *Controller) SetDescription(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestGroupDescription
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	if err := sess.SetGroupDescription(c.UserContext(), req.ChatID, req.Description); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set group description")
}

// SetTopic updates the group topic through the dedicated topic channel
// rather than the description setter.
func (ctl *Controller) SetTopic(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestGroupTopic
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	if err := sess.SetGroupTopic(c.UserContext(), req.ChatID, req.Topic); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set group topic")
}

func (ctl *Controller) SetPicture(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestGroupPicture
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}
	if req.Base64() == "" {
		return router.ResponseBadRequest(c, "picture data is required")
	}

	encoded := req.Base64()
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	photo, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return router.ResponseBadRequest(c, "picture data is not valid base64")
	}

	pictureID, err := sess.SetGroupPhoto(c.UserContext(), req.ChatID, photo)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success set group picture", map[string]interface{}{
		"pictureId": pictureID,
	})
}

func (ctl *Controller) GetInviteCode(c *fiber.Ctx) error {
	return ctl.inviteLink(c, false, "Success get invite code")
}

// RevokeInviteCode rotates the invite link, invalidating the old one.
func (ctl *Controller) RevokeInviteCode(c *fiber.Ctx) error {
	return ctl.inviteLink(c, true, "Success revoke invite code")
}

func (ctl *Controller) inviteLink(c *fiber.Ctx, reset bool, message string) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestChatID
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	link, err := sess.GroupInviteLink(c.UserContext(), req.ChatID, reset)
	if err != nil {
		return controller.Fail(c, err)
	}

	code := link
	if idx := strings.LastIndex(link, "/"); idx >= 0 {
		code = link[idx+1:]
	}
	return router.ResponseSuccessWithData(c, message, typGateway.ResponseInviteCode{
		InviteCode: code,
		URL:        link,
	})
}

func (ctl *Controller) Join(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestAcceptInvite
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Value() == "" {
		return router.ResponseBadRequest(c, "inviteCode is required")
	}

	log.Print(c).Info("Joining group on session " + sess.ID)
	group, err := sess.JoinGroupWithLink(c.UserContext(), req.Value())
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success join group", group)
}

// AcceptV4Invite accepts a direct invite delivered inside a message.
func (ctl *Controller) AcceptV4Invite(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestAcceptV4Invite
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}
	if req.Code == "" {
		return router.ResponseBadRequest(c, "code is required")
	}

	if err := sess.JoinGroupWithInvite(c.UserContext(), req.ChatID, req.Inviter, req.Code, req.Expiration); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success accept group invite")
}

func (ctl *Controller) Leave(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestChatID
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	log.Print(c).Info("Leaving group on session " + sess.ID)
	if err := sess.LeaveGroup(c.UserContext(), req.ChatID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success leave group")
}

// SetLocked restricts group-info edits to admins. Omitting the flag locks.
func (ctl *Controller) SetLocked(c *fiber.Ctx) error {
	sess, req, value, err := ctl.settingRef(c, func(r typGateway.RequestGroupSetting) *bool { return r.Locked })
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.SetGroupLocked(c.UserContext(), req.ChatID, value); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set group locked")
}

// SetAnnounce restricts sending to admins. Omitting the flag restricts.
func (ctl *Controller) SetAnnounce(c *fiber.Ctx) error {
	sess, req, value, err := ctl.settingRef(c, func(r typGateway.RequestGroupSetting) *bool { return r.Announce })
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.SetGroupAnnounce(c.UserContext(), req.ChatID, value); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set group announce")
}

// SetJoinApproval toggles admin approval for join requests.
func (ctl *Controller) SetJoinApproval(c *fiber.Ctx) error {
	sess, req, value, err := ctl.settingRef(c, func(r typGateway.RequestGroupSetting) *bool { return r.Approval })
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.SetGroupJoinApprovalMode(c.UserContext(), req.ChatID, value); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set group join approval")
}

func (ctl *Controller) settingRef(c *fiber.Ctx, pick func(typGateway.RequestGroupSetting) *bool) (*whatsapp.Session, typGateway.RequestGroupSetting, bool, error) {
	var req typGateway.RequestGroupSetting

	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return nil, req, false, err
	}

	if err := c.BodyParser(&req); err != nil {
		return nil, req, false, controller.RequestError(errParseBody)
	}
	if req.ChatID == "" {
		return nil, req, false, controller.RequestError(errMissingChatID)
	}

	value := true
	if flag := pick(req); flag != nil {
		value = *flag
	}
	return sess, req, value, nil
}

func (ctl *Controller) SetMemberAddMode(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestGroupMode
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	if err := sess.SetGroupMemberAddMode(c.UserContext(), req.ChatID, req.Mode); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success set member add mode")
}

func (ctl *Controller) GetRequests(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestChatID
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.ChatID == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	requests, err := sess.GroupRequestParticipants(c.UserContext(), req.ChatID)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get join requests", requests)
}

// ApproveRequests approves pending join requests. An empty participants
// list approves everything currently pending.
func (ctl *Controller) ApproveRequests(c *fiber.Ctx) error {
	return ctl.resolveRequests(c, true, "Success approve join requests")
}

func (ctl *Controller) RejectRequests(c *fiber.Ctx) error {
	return ctl.resolveRequests(c, false, "Success reject join requests")
}

func (ctl *Controller) resolveRequests(c *fiber.Ctx, approve bool, message string) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestGroupParticipants
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Group() == "" {
		return router.ResponseBadRequest(c, "chatId is required")
	}

	participants := req.Participants
	if len(participants) == 0 {
		pending, err := sess.GroupRequestParticipants(c.UserContext(), req.Group())
		if err != nil {
			return controller.Fail(c, err)
		}
		for _, p := range pending {
			participants = append(participants, whatsapp.ToLegacyID(p.JID))
		}
		if len(participants) == 0 {
			return router.ResponseSuccessWithData(c, message, []interface{}{})
		}
	}

	var result interface{}
	if approve {
		result, err = sess.ApproveGroupRequests(c.UserContext(), req.Group(), participants)
	} else {
		result, err = sess.RejectGroupRequests(c.UserContext(), req.Group(), participants)
	}
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, message, result)
}

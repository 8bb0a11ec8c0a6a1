package contact

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kadigal/go-whatsapp-session-gateway/internal/controller"
	typGateway "github.com/kadigal/go-whatsapp-session-gateway/internal/types"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/router"
	"github.com/kadigal/go-whatsapp-session-gateway/pkg/whatsapp"
)

type Controller struct {
	controller.Base
}

func New(manager *whatsapp.Manager) *Controller {
	return &Controller{controller.Base{Manager: manager}}
}

// contactRef binds the common {contactId} body and resolves the session.
func (ctl *Controller) contactRef(c *fiber.Ctx) (*whatsapp.Session, string, error) {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return nil, "", err
	}

	var req typGateway.RequestContactID
	if err := c.BodyParser(&req); err != nil {
		return nil, "", controller.RequestError(errParseBody)
	}
	if req.Value() == "" {
		return nil, "", controller.RequestError(errMissingContactID)
	}
	return sess, req.Value(), nil
}

var (
	errParseBody        = errors.New("Failed parse body request")
	errMissingContactID = errors.New("contactId is required")
)

func (ctl *Controller) Block(c *fiber.Ctx) error {
	sess, contactID, err := ctl.contactRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.BlockContact(c.UserContext(), contactID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success block contact")
}

func (ctl *Controller) Unblock(c *fiber.Ctx) error {
	sess, contactID, err := ctl.contactRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}
	if err := sess.UnblockContact(c.UserContext(), contactID); err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccess(c, "Success unblock contact")
}

func (ctl *Controller) GetAbout(c *fiber.Ctx) error {
	sess, contactID, err := ctl.contactRef(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	about, err := sess.About(c.UserContext(), contactID)
	if err != nil {
		return controller.Fail(c, err)
	}
	return router.ResponseSuccessWithData(c, "Success get about", typGateway.ResponseAbout{
		About: about,
	})
}

func (ctl *Controller) GetProfilePic(c *fiber.Ctx) error {
	sess, err := ctl.ConnectedSession(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestProfilePicture
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.TargetID() == "" {
		return router.ResponseBadRequest(c, "contactId is required")
	}

	pic, err := sess.ProfilePicture(c.UserContext(), req.TargetID(), req.Preview)
	if err != nil {
		return controller.Fail(c, err)
	}
	if pic == nil || pic.URL == "" {
		return router.ResponseNotFound(c, "profile picture not set")
	}

	return router.ResponseSuccessWithData(c, "Success get profile picture", typGateway.ResponseProfilePicture{
		URL: pic.URL,
		ID:  pic.ID,
	})
}

// GetCommonGroups is not supported: the linked-device protocol offers no
// direct query for shared group membership.
func (ctl *Controller) GetCommonGroups(c *fiber.Ctx) error {
	return router.ResponseBadRequest(c, "getCommonGroups is not supported by the linked-device protocol")
}

func (ctl *Controller) GetContactByID(c *fiber.Ctx) error {
	sess, err := ctl.Session(c)
	if err != nil {
		return controller.Fail(c, err)
	}

	var req typGateway.RequestContactID
	if err := c.BodyParser(&req); err != nil {
		return router.ResponseBadRequest(c, "Failed parse body request")
	}
	if req.Value() == "" {
		return router.ResponseBadRequest(c, "contactId is required")
	}

	contact, ok := sess.Store().ContactByID(req.Value())
	if !ok {
		return router.ResponseNotFound(c, "contact not found")
	}
	return router.ResponseSuccessWithData(c, "Success get contact", contact)
}

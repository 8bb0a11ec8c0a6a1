package whatsapp

import (
	"context"
	"errors"
	"fmt"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/appstate"
	"go.mau.fi/whatsmeow/types"
)

// NumberExists resolves a phone number against the directory. The returned
// JID is authoritative: WhatsApp may route a number to a different user id
// than its digits suggest.
func (s *Session) NumberExists(ctx context.Context, phone string) (*types.IsOnWhatsAppResponse, error) {
	digits := NormalizePhone(phone)
	if digits == "" {
		return nil, errors.New("phone number must contain digits")
	}
	infos, err := s.client.IsOnWhatsApp(ctx, []string{"+" + digits})
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("no result for number %s", digits)
	}
	return &infos[0], nil
}

func (s *Session) ProfilePicture(ctx context.Context, id string, preview bool) (*types.ProfilePictureInfo, error) {
	target := ToJID(id)
	if target.IsEmpty() {
		return nil, fmt.Errorf("invalid id %q", id)
	}
	return s.client.GetProfilePictureInfo(ctx, target, &whatsmeow.GetProfilePictureParams{
		Preview: preview,
	})
}

// About returns the text status of a user, empty when hidden by privacy
// settings.
func (s *Session) About(ctx context.Context, id string) (string, error) {
	target := ToJID(id)
	if target.IsEmpty() {
		return "", fmt.Errorf("invalid id %q", id)
	}
	result, err := s.client.GetUserInfo(ctx, []types.JID{target})
	if err != nil {
		return "", err
	}
	for _, info := range result {
		return info.Status, nil
	}
	return "", nil
}

func (s *Session) BlockContact(ctx context.Context, id string) error {
	target := ToJID(id)
	if target.IsEmpty() {
		return fmt.Errorf("invalid id %q", id)
	}
	_, err := s.client.UpdateBlocklist(ctx, target, "block")
	return err
}

func (s *Session) UnblockContact(ctx context.Context, id string) error {
	target := ToJID(id)
	if target.IsEmpty() {
		return fmt.Errorf("invalid id %q", id)
	}
	_, err := s.client.UpdateBlocklist(ctx, target, "unblock")
	return err
}

// SetStatusMessage sets the account's text status.
func (s *Session) SetStatusMessage(ctx context.Context, status string) error {
	return s.client.SetStatusMessage(ctx, status)
}

// SetDisplayName changes the push name other users see.
func (s *Session) SetDisplayName(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("display name must not be empty")
	}
	return s.client.SendAppState(ctx, appstate.BuildSettingPushName(name))
}

package whatsapp

import "errors"

var (
	// ErrSessionNotFound: no live session under the requested id.
	ErrSessionNotFound = errors.New("session not found, start it first")

	// ErrSessionExists: start found a live, connected session already there.
	ErrSessionExists = errors.New("session already started")

	// ErrNotConnected: the session exists but its socket is not usable.
	ErrNotConnected = errors.New("WhatsApp client is not connected")

	// ErrMessageNotFound: the key resolver exhausted every strategy.
	ErrMessageNotFound = errors.New("message not found: make sure the message was synced or received after the session started")

	// ErrNoChatMessages: chat actions need at least one locally observed
	// message to borrow its key for app-state patches.
	ErrNoChatMessages = errors.New("no message found for this chat: receive at least one message before using chat actions")

	// ErrUnsupported marks operations the underlying protocol library
	// cannot perform.
	ErrUnsupported = errors.New("operation is not supported")

	// ErrQRNotAvailable: the session has no pending QR code to show.
	ErrQRNotAvailable = errors.New("no QR code available, session is not waiting for scan")

	// ErrInvalidGroupID: the target id does not live on the group server.
	ErrInvalidGroupID = errors.New("group id is not on the group server")

	// ErrParticipantMustBeUser: group membership changes take personal
	// JIDs only.
	ErrParticipantMustBeUser = errors.New("participant id must be a personal JID")
)

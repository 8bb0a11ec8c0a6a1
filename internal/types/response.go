package types

type ResponseQR struct {
	QR      string `json:"qr"`
	Timeout int    `json:"timeout"`
}

type ResponsePairingCode struct {
	PairingCode string `json:"pairingCode"`
}

type ResponseState struct {
	State string `json:"state"`
}

// ResponseNumberID is the wwebjs ContactId shape returned by getNumberId.
type ResponseNumberID struct {
	Server     string `json:"server"`
	User       string `json:"user"`
	Serialized string `json:"_serialized"`
}

type ResponseRegistered struct {
	Registered bool   `json:"registered"`
	JID        string `json:"jid,omitempty"`
}

type ResponseProfilePicture struct {
	URL string `json:"url"`
	ID  string `json:"id,omitempty"`
}

type ResponseAbout struct {
	About string `json:"about"`
}

type ResponseInviteCode struct {
	InviteCode string `json:"inviteCode"`
	URL        string `json:"url"`
}

type ResponseWSToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type ResponseHealth struct {
	Status   string `json:"status"`
	Uptime   int64  `json:"uptime"`
	Sessions int    `json:"sessions"`
}

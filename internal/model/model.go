package model

// AccessToken is the payload embedded in the bearer token.
type AccessToken struct {
	ID   string `mapstructure:"id" json:"id"`
	Name string `mapstructure:"name" json:"name"`
}

// QRToken is the payload embedded in a signed mission QR code.
type QRToken struct {
	MissionID string `mapstructure:"mission_id" json:"mission_id"`
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

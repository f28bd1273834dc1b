package model

type Completion struct {
	MissionID     string `json:"mission_id"`
	Day           string `json:"day"`
	ProofType     string `json:"proof_type"`
	XPAwarded     int64  `json:"xp_awarded"`
	TokensAwarded int64  `json:"tokens_awarded"`
	CompletedAt   string `json:"completed_at"`
}

type Rewards struct {
	XP     int64 `json:"xp"`
	Tokens int64 `json:"tokens"`
}

type UserTotals struct {
	XP     int64 `json:"xp"`
	Tokens int64 `json:"tokens"`
}

type DailyMission struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	XPReward       int64  `json:"xp_reward"`
	TokenReward    int64  `json:"token_reward"`
	CompletedToday bool   `json:"completed_today"`
}

type CompleteDailyMissionRequest struct {
	Code string `json:"code"`
}

type CompleteDailyMissionResponse struct {
	Completed        bool       `json:"completed"`
	AlreadyCompleted bool       `json:"already_completed"`
	Rewards          Rewards    `json:"rewards"`
	UserTotals       UserTotals `json:"user_totals"`
}

type GetDailyMissionsRequest struct{}

type GetDailyMissionsResponse struct {
	Missions []DailyMission `json:"missions"`
	Day      string         `json:"day"`
}

type IssueQRRequest struct {
	MissionID string `json:"mission_id"`
}

type IssueQRResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type VerifyQRRequest struct {
	Token string `json:"token"`
}

type VerifyQRResponse struct {
	Completed        bool       `json:"completed"`
	AlreadyCompleted bool       `json:"already_completed"`
	MissionID        string     `json:"mission_id"`
	Rewards          Rewards    `json:"rewards"`
	UserTotals       UserTotals `json:"user_totals"`
}

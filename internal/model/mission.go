package model

type MissionVerdict struct {
	Approved bool   `json:"approved"`
	Score    int    `json:"score"`
	Reason   string `json:"reason"`
}

type MissionAttempt struct {
	ID           string `json:"id"`
	EventID      int64  `json:"event_id,string"`
	MissionSlug  string `json:"mission_slug"`
	Status       string `json:"status"`
	Score        int    `json:"score"`
	Reason       string `json:"reason"`
	EvidenceHash string `json:"evidence_hash"`
	EvaluatedAt  string `json:"evaluated_at"`
	CreatedAt    string `json:"created_at"`
}

type MissionRule struct {
	MissionSlug string         `json:"mission_slug"`
	RuleName    string         `json:"rule_name"`
	RuleConfig  map[string]any `json:"rule_config"`
	XPReward    int64          `json:"xp_reward"`
	TokenReward int64          `json:"token_reward"`
	IsActive    bool           `json:"is_active"`
}

type SubmitMissionEventRequest struct {
	MissionSlug string         `json:"mission_slug"`
	EventType   string         `json:"event_type"`
	Payload     map[string]any `json:"payload"`
}

type SubmitMissionEventResponse struct {
	EventID      int64          `json:"event_id,string"`
	AttemptID    string         `json:"attempt_id"`
	Status       string         `json:"status"`
	Verdict      MissionVerdict `json:"verdict"`
	EvidenceHash string         `json:"evidence_hash"`
	Completion   *Completion    `json:"completion,omitempty"`
}

type GetMissionAttemptsRequest struct {
	MissionSlug string `json:"mission_slug"`
	Status      string `json:"status"`
	Offset      int    `json:"offset"`
	Limit       int    `json:"limit"`
}

type GetMissionAttemptsResponse struct {
	Attempts   []MissionAttempt `json:"attempts"`
	Pagination Pagination       `json:"pagination"`
}

type GetMissionStatsRequest struct {
	MissionSlug string `json:"mission_slug"`
}

type GetMissionStatsResponse struct {
	Total       int64   `json:"total"`
	Pending     int64   `json:"pending"`
	Approved    int64   `json:"approved"`
	Rejected    int64   `json:"rejected"`
	TotalScore  int64   `json:"total_score"`
	SuccessRate float64 `json:"success_rate"`
}

type GetMissionRulesRequest struct {
	IncludeInactive bool `json:"include_inactive"`
}

type GetMissionRulesResponse struct {
	Rules []MissionRule `json:"rules"`
}

type VerifyMissionEvidenceRequest struct {
	AttemptID string `json:"attempt_id"`
}

type VerifyMissionEvidenceResponse struct {
	AttemptID    string `json:"attempt_id"`
	Valid        bool   `json:"valid"`
	StoredHash   string `json:"stored_hash"`
	ComputedHash string `json:"computed_hash"`
}

type GetMissionHealthRequest struct{}

type GetMissionHealthResponse struct {
	Status          string `json:"status"`
	RealtimeEnabled bool   `json:"realtime_enabled"`
	ActiveRules     int    `json:"active_rules"`
	EventsLastHour  int64  `json:"events_last_hour"`
}

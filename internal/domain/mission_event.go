package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/connectus-app/backend/internal/domain/completion"
	"github.com/connectus-app/backend/internal/domain/missionrule"
	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/crypto"
	"github.com/connectus-app/backend/pkg/enum"
	"github.com/connectus-app/backend/pkg/errorx"
	"github.com/connectus-app/backend/pkg/pubsub"
	"github.com/connectus-app/backend/pkg/ws"
	"github.com/connectus-app/backend/pkg/xcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/fatih/structs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissionEventDomain interface {
	Submit(ctx context.Context, req *model.SubmitMissionEventRequest) (*model.SubmitMissionEventResponse, error)
	GetAttempts(ctx context.Context, req *model.GetMissionAttemptsRequest) (*model.GetMissionAttemptsResponse, error)
	GetStats(ctx context.Context, req *model.GetMissionStatsRequest) (*model.GetMissionStatsResponse, error)
	GetRules(ctx context.Context, req *model.GetMissionRulesRequest) (*model.GetMissionRulesResponse, error)
	VerifyEvidence(ctx context.Context, req *model.VerifyMissionEvidenceRequest) (*model.VerifyMissionEvidenceResponse, error)
	Health(ctx context.Context, req *model.GetMissionHealthRequest) (*model.GetMissionHealthResponse, error)
}

type missionEventDomain struct {
	featureFlagRepo     repository.FeatureFlagRepository
	missionRuleRepo     repository.MissionRuleRepository
	missionEventRepo    repository.MissionEventRepository
	missionAttemptRepo  repository.MissionAttemptRepository
	missionEvidenceRepo repository.MissionEvidenceRepository
	guard               *completion.Guard
	publisher           pubsub.Publisher
	hub                 *ws.Hub
	idGenerator         *snowflake.Node
}

func NewMissionEventDomain(
	featureFlagRepo repository.FeatureFlagRepository,
	missionRuleRepo repository.MissionRuleRepository,
	missionEventRepo repository.MissionEventRepository,
	missionAttemptRepo repository.MissionAttemptRepository,
	missionEvidenceRepo repository.MissionEvidenceRepository,
	guard *completion.Guard,
	publisher pubsub.Publisher,
	hub *ws.Hub,
) *missionEventDomain {
	idGenerator, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &missionEventDomain{
		featureFlagRepo:     featureFlagRepo,
		missionRuleRepo:     missionRuleRepo,
		missionEventRepo:    missionEventRepo,
		missionAttemptRepo:  missionAttemptRepo,
		missionEvidenceRepo: missionEvidenceRepo,
		guard:               guard,
		publisher:           publisher,
		hub:                 hub,
		idGenerator:         idGenerator,
	}
}

func (d *missionEventDomain) Submit(
	ctx context.Context, req *model.SubmitMissionEventRequest,
) (*model.SubmitMissionEventResponse, error) {
	if req.MissionSlug == "" || req.EventType == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty mission slug or event type")
	}

	if err := d.checkRealtimeEnabled(ctx); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	payloadHash, err := crypto.HashDocument(req.Payload)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash event payload: %v", err)
		return nil, errorx.Unknown
	}

	// The event is appended before any evaluation so the ledger keeps it
	// even if the evaluation fails.
	event := &entity.MissionEvent{
		ID:          d.idGenerator.Generate().Int64(),
		UserID:      userID,
		MissionSlug: req.MissionSlug,
		EventType:   req.EventType,
		Payload:     entity.Map(req.Payload),
		PayloadHash: payloadHash,
	}
	if err := d.missionEventRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create mission event: %v", err)
		return nil, errorx.Unknown
	}

	verdict, evidenceHash, rule := d.evaluate(ctx, event)

	status := entity.MissionAttemptPending
	if verdict.Approved {
		status = entity.MissionAttemptApproved
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	attempt := &entity.MissionAttempt{
		Base:         entity.Base{ID: uuid.NewString()},
		EventID:      event.ID,
		UserID:       userID,
		MissionSlug:  req.MissionSlug,
		Status:       status,
		Score:        verdict.Score,
		Reason:       verdict.Reason,
		EvidenceHash: evidenceHash,
		EvaluatedAt:  time.Now(),
	}
	if err := d.missionAttemptRepo.Create(ctx, attempt); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create mission attempt: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.SubmitMissionEventResponse{
		EventID:   event.ID,
		AttemptID: attempt.ID,
		Status:    string(status),
		Verdict: model.MissionVerdict{
			Approved: verdict.Approved,
			Score:    verdict.Score,
			Reason:   verdict.Reason,
		},
		EvidenceHash: evidenceHash,
	}

	if verdict.Approved {
		if err := d.storeEvidence(ctx, event, attempt, verdict); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot store mission evidence: %v", err)
			return nil, errorx.Unknown
		}

		result, err := d.guard.Complete(ctx, userID, rule.MissionSlug,
			rule.XPReward, rule.TokenReward, "event",
			entity.Map{"event_id": strconv.FormatInt(event.ID, 10), "reason": verdict.Reason})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot complete mission: %v", err)
			return nil, errorx.Unknown
		}

		resp.Completion = &model.Completion{
			MissionID:     rule.MissionSlug,
			Day:           result.Day,
			ProofType:     "event",
			XPAwarded:     result.XP,
			TokensAwarded: result.Tokens,
			CompletedAt:   time.Now().Format(time.RFC3339),
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	d.broadcast(ctx, userID, attempt)

	return resp, nil
}

// evaluate resolves the rule and runs it against the triggering event. A
// missing, inactive or malformed rule yields a pending no_rule verdict with
// no evidence hash.
func (d *missionEventDomain) evaluate(
	ctx context.Context, event *entity.MissionEvent,
) (missionrule.Verdict, string, *entity.MissionRule) {
	noRule := missionrule.Verdict{Approved: false, Score: 0, Reason: missionrule.ReasonNoRule}

	rule, err := d.missionRuleRepo.GetBySlug(ctx, event.MissionSlug)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get mission rule: %v", err)
		}
		return noRule, "", nil
	}

	if !rule.IsActive {
		return noRule, "", nil
	}

	compiled, err := missionrule.NewRule(ctx, rule, d.missionEventRepo)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Invalid rule config of %s: %v", rule.MissionSlug, err)
		return noRule, "", nil
	}

	verdict, err := compiled.Evaluate(ctx, missionrule.Event{
		UserID:      event.UserID,
		MissionSlug: event.MissionSlug,
		EventType:   event.EventType,
		Payload:     event.Payload,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot evaluate rule of %s: %v", rule.MissionSlug, err)
		return noRule, "", nil
	}

	evidenceHash, err := crypto.HashDocument(map[string]any{
		"mission": event.MissionSlug,
		"reason":  verdict.Reason,
		"t":       time.Now().Unix(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash verdict: %v", err)
		return noRule, "", nil
	}

	return verdict, evidenceHash, rule
}

func (d *missionEventDomain) storeEvidence(
	ctx context.Context,
	event *entity.MissionEvent,
	attempt *entity.MissionAttempt,
	verdict missionrule.Verdict,
) error {
	// The event id is kept as a string: the snowflake does not survive a
	// json number roundtrip intact and the hash must be recomputable from
	// the stored document.
	data := entity.Map{
		"event_id":   strconv.FormatInt(event.ID, 10),
		"attempt_id": attempt.ID,
		"evaluation": structs.Map(verdict),
		"timestamp":  time.Now().Format(time.RFC3339),
	}

	hash, err := crypto.HashDocument(data)
	if err != nil {
		return err
	}

	return d.missionEvidenceRepo.Create(ctx, &entity.MissionEvidence{
		Base:         entity.Base{ID: uuid.NewString()},
		AttemptID:    attempt.ID,
		EvidenceType: event.EventType,
		EvidenceData: data,
		EvidenceHash: hash,
	})
}

// broadcast notifies subscribers about a settled attempt. Failures are
// logged and swallowed, the attempt is already durable at this point.
func (d *missionEventDomain) broadcast(
	ctx context.Context, userID string, attempt *entity.MissionAttempt,
) {
	msg, err := json.Marshal(map[string]any{
		"attempt_id":   attempt.ID,
		"mission_slug": attempt.MissionSlug,
		"status":       string(attempt.Status),
		"score":        attempt.Score,
		"reason":       attempt.Reason,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal attempt notification: %v", err)
		return
	}

	if d.publisher != nil {
		topic := xcontext.Configs(ctx).Missions.AttemptTopic
		pack := &pubsub.Pack{Key: []byte(userID), Msg: msg}
		if err := d.publisher.Publish(ctx, topic, pack); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish attempt notification: %v", err)
		}
	}

	if d.hub != nil {
		d.hub.BroadCastByChannel(userID, msg)
	}
}

func (d *missionEventDomain) GetAttempts(
	ctx context.Context, req *model.GetMissionAttemptsRequest,
) (*model.GetMissionAttemptsResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)",
			xcontext.Configs(ctx).ApiServer.MaxLimit)
	}

	filter := &repository.GetListMissionAttemptFilter{
		UserID:      xcontext.RequestUserID(ctx),
		MissionSlug: req.MissionSlug,
		Offset:      req.Offset,
		Limit:       req.Limit,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.MissionAttemptStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}
		filter.Status = status
	}

	attempts, err := d.missionAttemptRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mission attempts: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.missionAttemptRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count mission attempts: %v", err)
		return nil, errorx.Unknown
	}

	clientAttempts := []model.MissionAttempt{}
	for _, attempt := range attempts {
		clientAttempts = append(clientAttempts, model.MissionAttempt{
			ID:           attempt.ID,
			EventID:      attempt.EventID,
			MissionSlug:  attempt.MissionSlug,
			Status:       string(attempt.Status),
			Score:        attempt.Score,
			Reason:       attempt.Reason,
			EvidenceHash: attempt.EvidenceHash,
			EvaluatedAt:  attempt.EvaluatedAt.Format(time.RFC3339),
			CreatedAt:    attempt.CreatedAt.Format(time.RFC3339),
		})
	}

	return &model.GetMissionAttemptsResponse{
		Attempts: clientAttempts,
		Pagination: model.Pagination{
			Total:   total,
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: int64(req.Offset+req.Limit) < total,
		},
	}, nil
}

func (d *missionEventDomain) GetStats(
	ctx context.Context, req *model.GetMissionStatsRequest,
) (*model.GetMissionStatsResponse, error) {
	statistic, err := d.missionAttemptRepo.Statistic(ctx, repository.StatisticMissionAttemptFilter{
		UserID:      xcontext.RequestUserID(ctx),
		MissionSlug: req.MissionSlug,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get attempt statistic: %v", err)
		return nil, errorx.Unknown
	}

	successRate := float64(0)
	if statistic.Total > 0 {
		successRate = float64(statistic.Approved) / float64(statistic.Total) * 100
	}

	return &model.GetMissionStatsResponse{
		Total:       statistic.Total,
		Pending:     statistic.Pending,
		Approved:    statistic.Approved,
		Rejected:    statistic.Rejected,
		TotalScore:  statistic.TotalScore,
		SuccessRate: successRate,
	}, nil
}

func (d *missionEventDomain) GetRules(
	ctx context.Context, req *model.GetMissionRulesRequest,
) (*model.GetMissionRulesResponse, error) {
	rules, err := d.missionRuleRepo.GetList(ctx, !req.IncludeInactive)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mission rules: %v", err)
		return nil, errorx.Unknown
	}

	clientRules := []model.MissionRule{}
	for _, rule := range rules {
		clientRules = append(clientRules, model.MissionRule{
			MissionSlug: rule.MissionSlug,
			RuleName:    rule.RuleName,
			RuleConfig:  rule.RuleConfig,
			XPReward:    rule.XPReward,
			TokenReward: rule.TokenReward,
			IsActive:    rule.IsActive,
		})
	}

	return &model.GetMissionRulesResponse{Rules: clientRules}, nil
}

// VerifyEvidence recomputes the evidence hash from the stored document and
// compares it with the recorded one.
func (d *missionEventDomain) VerifyEvidence(
	ctx context.Context, req *model.VerifyMissionEvidenceRequest,
) (*model.VerifyMissionEvidenceResponse, error) {
	if req.AttemptID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty attempt id")
	}

	attempt, err := d.missionAttemptRepo.GetByID(ctx, req.AttemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found attempt")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission attempt: %v", err)
		return nil, errorx.Unknown
	}

	if attempt.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	evidence, err := d.missionEvidenceRepo.GetByAttemptID(ctx, attempt.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found evidence")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission evidence: %v", err)
		return nil, errorx.Unknown
	}

	computed, err := crypto.HashDocument(evidence.EvidenceData)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash evidence data: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VerifyMissionEvidenceResponse{
		AttemptID:    attempt.ID,
		Valid:        computed == evidence.EvidenceHash,
		StoredHash:   evidence.EvidenceHash,
		ComputedHash: computed,
	}, nil
}

func (d *missionEventDomain) Health(
	ctx context.Context, req *model.GetMissionHealthRequest,
) (*model.GetMissionHealthResponse, error) {
	enabled, err := d.featureFlagRepo.IsEnabled(ctx, xcontext.Configs(ctx).Missions.RealtimeFlagName)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get realtime flag: %v", err)
		return nil, errorx.Unknown
	}

	rules, err := d.missionRuleRepo.GetList(ctx, true)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mission rules: %v", err)
		return nil, errorx.Unknown
	}

	eventsLastHour, err := d.missionEventRepo.CountSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count recent events: %v", err)
		return nil, errorx.Unknown
	}

	status := "healthy"
	if !enabled {
		status = "disabled"
	}

	return &model.GetMissionHealthResponse{
		Status:          status,
		RealtimeEnabled: enabled,
		ActiveRules:     len(rules),
		EventsLastHour:  eventsLastHour,
	}, nil
}

func (d *missionEventDomain) checkRealtimeEnabled(ctx context.Context) error {
	enabled, err := d.featureFlagRepo.IsEnabled(ctx, xcontext.Configs(ctx).Missions.RealtimeFlagName)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get realtime flag: %v", err)
		return errorx.Unknown
	}

	if !enabled {
		return errorx.New(errorx.Unavailable, "Realtime missions are disabled")
	}

	return nil
}

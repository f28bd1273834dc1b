package missionrule

import (
	"context"
	"errors"
	"fmt"

	"github.com/connectus-app/backend/internal/entity"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/slices"
)

const approvedScore = 100

// Rule is a compiled mission rule. Checks run in a fixed order and the
// first passing check settles the verdict.
type Rule struct {
	missionSlug string
	checks      []check
}

// NewRule compiles the stored rule config. The config is an object keyed by
// check name; unknown keys are a configuration error, not a silent skip.
func NewRule(
	ctx context.Context,
	rule *entity.MissionRule,
	missionEventRepo repository.MissionEventRepository,
) (*Rule, error) {
	if len(rule.RuleConfig) == 0 {
		return nil, errors.New("empty rule config")
	}

	compiled := &Rule{missionSlug: rule.MissionSlug}
	for key, raw := range rule.RuleConfig {
		switch key {
		case "event_count":
			c := eventCountCheck{Min: 1, missionEventRepo: missionEventRepo}
			if err := decodeCheck(raw, &c); err != nil {
				return nil, err
			}
			compiled.checks = append(compiled.checks, &c)

		case "qr_scanned":
			c := qrScannedCheck{}
			if err := decodeCheck(raw, &c); err != nil {
				return nil, err
			}
			compiled.checks = append(compiled.checks, &c)

		case "geo_check":
			c := geoCheck{}
			if err := decodeCheck(raw, &c); err != nil {
				return nil, err
			}
			compiled.checks = append(compiled.checks, &c)

		case "custom_key":
			c := customKeyCheck{}
			if err := decodeCheck(raw, &c); err != nil {
				return nil, err
			}
			compiled.checks = append(compiled.checks, &c)

		default:
			return nil, fmt.Errorf("unknown check %s", key)
		}
	}

	orderCompiledChecks(compiled.checks)
	return compiled, nil
}

func decodeCheck(raw any, target any) error {
	config, ok := raw.(map[string]any)
	if !ok {
		return errors.New("check config must be an object")
	}

	return mapstructure.WeakDecode(config, target)
}

// orderCompiledChecks sorts checks into the canonical evaluation order:
// event_count, qr_scanned, geo_check, custom_key. Map iteration would
// otherwise make first-match nondeterministic.
func orderCompiledChecks(checks []check) {
	rank := func(c check) int {
		switch c.(type) {
		case *eventCountCheck:
			return 0
		case *qrScannedCheck:
			return 1
		case *geoCheck:
			return 2
		default:
			return 3
		}
	}

	slices.SortStableFunc(checks, func(a, b check) bool {
		return rank(a) < rank(b)
	})
}

// Evaluate runs the checks in order and stops at the first that passes.
func (r *Rule) Evaluate(ctx context.Context, event Event) (Verdict, error) {
	for _, c := range r.checks {
		passed, err := c.ok(ctx, event)
		if err != nil {
			return Verdict{}, err
		}

		if passed {
			return Verdict{Approved: true, Score: approvedScore, Reason: c.reason()}, nil
		}
	}

	return Verdict{Approved: false, Score: 0, Reason: ReasonNoMatch}, nil
}

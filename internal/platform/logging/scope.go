package logging

import (
	"context"

	"go.uber.org/zap"
)

// Scope names the simulation objects a request is working on. Every *Context
// log line carries the non-empty ids.
type Scope struct {
	MatchID       string
	FixtureID     string
	TeamID        string
	AdvancementID string
}

type scopeKey struct{}

func ScopeFromContext(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	scope, _ := ctx.Value(scopeKey{}).(Scope)
	return scope
}

func withScope(ctx context.Context, edit func(*Scope)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	scope := ScopeFromContext(ctx)
	edit(&scope)
	return context.WithValue(ctx, scopeKey{}, scope)
}

func WithMatch(ctx context.Context, matchID string) context.Context {
	return withScope(ctx, func(s *Scope) { s.MatchID = matchID })
}

func WithFixture(ctx context.Context, fixtureID string) context.Context {
	return withScope(ctx, func(s *Scope) { s.FixtureID = fixtureID })
}

func WithTeam(ctx context.Context, teamID string) context.Context {
	return withScope(ctx, func(s *Scope) { s.TeamID = teamID })
}

// WithAdvancement tags work done for one season advancement. The postgres
// batch writer also stamps the id on its statements.
func WithAdvancement(ctx context.Context, advancementID string) context.Context {
	return withScope(ctx, func(s *Scope) { s.AdvancementID = advancementID })
}

// fields skips keys the caller already logged explicitly.
func (s Scope) fields(explicit []zap.Field) []zap.Field {
	taken := make(map[string]struct{}, len(explicit))
	for _, f := range explicit {
		taken[f.Key] = struct{}{}
	}

	var out []zap.Field
	add := func(key, value string) {
		if value == "" {
			return
		}
		if _, dup := taken[key]; dup {
			return
		}
		out = append(out, zap.String(key, value))
	}
	add("match_id", s.MatchID)
	add("fixture_id", s.FixtureID)
	add("team_id", s.TeamID)
	add("advancement_id", s.AdvancementID)
	return out
}

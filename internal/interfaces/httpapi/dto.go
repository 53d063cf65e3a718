package httpapi

import (
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/usecase"
)

type managerRequest struct {
	ManagerTeamID string `json:"manager_team_id" validate:"omitempty,max=64"`
}

type changeRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=substitute swap move"`
	PlayerOutID string `json:"player_out_id" validate:"required"`
	PlayerInID  string `json:"player_in_id" validate:"required_unless=Kind move"`
	Slot        string `json:"slot" validate:"required_if=Kind move"`
}

type substitutionRequest struct {
	Side    string          `json:"side" validate:"required,oneof=home away"`
	Changes []changeRequest `json:"changes" validate:"required,min=1,dive"`
}

type liveStartRequest struct {
	SpeedMS int `json:"speed_ms" validate:"omitempty,min=10,max=60000"`
}

type liveSpeedRequest struct {
	SpeedMS int `json:"speed_ms" validate:"required,min=10,max=60000"`
}

type matchSummaryDTO struct {
	FixtureID  string `json:"fixture_id"`
	MatchID    string `json:"match_id"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeScore  int    `json:"home_score"`
	AwayScore  int    `json:"away_score"`
}

type advancementReportDTO struct {
	WindowStart    time.Time         `json:"window_start"`
	WindowEnd      time.Time         `json:"window_end"`
	StepsTotal     int               `json:"steps_total"`
	StepsDone      int               `json:"steps_done"`
	WeekBuilt      bool              `json:"week_built"`
	TeamsUpdated   int               `json:"teams_updated"`
	TeamsFailed    []string          `json:"teams_failed"`
	EventsCreated  int               `json:"events_created"`
	EventsConsumed int               `json:"events_consumed"`
	MatchesPlayed  []matchSummaryDTO `json:"matches_played"`
	MatchesFailed  []string          `json:"matches_failed"`
	MatchPending   bool              `json:"match_pending"`
	NextFixtureID  string            `json:"next_fixture_id,omitempty"`
}

type matchdayDTO struct {
	KickoffAt          time.Time         `json:"kickoff_at"`
	InteractiveMatchID string            `json:"interactive_match_id"`
	Results            []matchSummaryDTO `json:"results"`
	Failed             []string          `json:"failed"`
}

type eventDTO struct {
	Type       string `json:"type"`
	Time       string `json:"time"`
	Half       int    `json:"half"`
	Extra      bool   `json:"extra"`
	Side       string `json:"side"`
	TeamID     string `json:"team_id"`
	PlayerID   string `json:"player_id,omitempty"`
	AssistID   string `json:"assist_id,omitempty"`
	PlayerInID string `json:"player_in_id,omitempty"`
	Slot       string `json:"slot,omitempty"`
	Forced     bool   `json:"forced,omitempty"`
}

type statsDTO struct {
	Counts map[string]int `json:"counts"`
	XG     float64        `json:"xg"`
}

type lineupDTO struct {
	Slots       map[string]string `json:"slots"`
	Substitutes []string          `json:"substitutes"`
}

type sideViewDTO struct {
	TeamID         string             `json:"team_id"`
	Goals          int                `json:"goals"`
	Lineup         lineupDTO          `json:"lineup"`
	Stats          statsDTO           `json:"stats"`
	Ratings        map[string]float64 `json:"ratings"`
	Fitness        map[string]float64 `json:"fitness"`
	Completed      int                `json:"substitutions_completed"`
	Forced         int                `json:"substitutions_forced"`
	RemainingQuota int                `json:"substitutions_remaining"`
	Events         []eventDTO         `json:"events"`
}

type matchViewDTO struct {
	MatchID         string      `json:"match_id"`
	FixtureID       string      `json:"fixture_id"`
	Phase           string      `json:"phase"`
	Clock           string      `json:"clock"`
	FirstHalfExtra  int         `json:"first_half_extra"`
	SecondHalfExtra int         `json:"second_half_extra"`
	Live            bool        `json:"live"`
	LiveSpeedMS     int64       `json:"live_speed_ms"`
	Home            sideViewDTO `json:"home"`
	Away            sideViewDTO `json:"away"`
}

type tickDTO struct {
	Clock  string     `json:"clock"`
	Phase  string     `json:"phase"`
	Events []eventDTO `json:"events"`
}

type liveStateDTO struct {
	MatchID     string `json:"match_id"`
	Phase       string `json:"phase"`
	Clock       string `json:"clock"`
	Live        bool   `json:"live"`
	LiveSpeedMS int64  `json:"live_speed_ms"`
}

type substitutionDTO struct {
	PlayerOffID string `json:"player_off_id"`
	PlayerOnID  string `json:"player_on_id"`
	Slot        string `json:"slot"`
	Forced      bool   `json:"forced"`
}

type substitutionResultDTO struct {
	Applied       bool              `json:"applied"`
	Reason        string            `json:"reason,omitempty"`
	Substitutions []substitutionDTO `json:"substitutions"`
}

type sideResultDTO struct {
	TeamID string     `json:"team_id"`
	Goals  int        `json:"goals"`
	Stats  statsDTO   `json:"stats"`
	Events []eventDTO `json:"events"`
}

type playerOutcomeDTO struct {
	PlayerID      string  `json:"player_id"`
	TeamID        string  `json:"team_id"`
	Appeared      bool    `json:"appeared"`
	Rating        float64 `json:"rating"`
	Fitness       float64 `json:"fitness"`
	Sharpness     float64 `json:"sharpness"`
	Morale        float64 `json:"morale"`
	InjuryMinutes int64   `json:"injury_minutes"`
	BanMatches    int     `json:"ban_matches"`
	YellowCards   int     `json:"yellow_cards"`
}

type matchResultDTO struct {
	MatchID         string             `json:"match_id"`
	FixtureID       string             `json:"fixture_id"`
	FirstHalfExtra  int                `json:"first_half_extra"`
	SecondHalfExtra int                `json:"second_half_extra"`
	Home            sideResultDTO      `json:"home"`
	Away            sideResultDTO      `json:"away"`
	Players         []playerOutcomeDTO `json:"players"`
}

func matchSummariesToDTO(items []usecase.MatchSummary) []matchSummaryDTO {
	out := make([]matchSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchSummaryDTO{
			FixtureID:  item.FixtureID,
			MatchID:    item.MatchID,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
		})
	}
	return out
}

func advancementReportToDTO(r usecase.AdvancementReport) advancementReportDTO {
	return advancementReportDTO{
		WindowStart:    r.WindowStart,
		WindowEnd:      r.WindowEnd,
		StepsTotal:     r.StepsTotal,
		StepsDone:      r.StepsDone,
		WeekBuilt:      r.WeekBuilt,
		TeamsUpdated:   r.TeamsUpdated,
		TeamsFailed:    nonNilStrings(r.TeamsFailed),
		EventsCreated:  r.EventsCreated,
		EventsConsumed: r.EventsConsumed,
		MatchesPlayed:  matchSummariesToDTO(r.MatchesPlayed),
		MatchesFailed:  nonNilStrings(r.MatchesFailed),
		MatchPending:   r.MatchPending,
		NextFixtureID:  r.NextFixtureID,
	}
}

func matchdayToDTO(day usecase.Matchday) matchdayDTO {
	return matchdayDTO{
		KickoffAt:          day.KickoffAt,
		InteractiveMatchID: day.InteractiveMatchID,
		Results:            matchSummariesToDTO(day.Results),
		Failed:             nonNilStrings(day.Failed),
	}
}

func eventsToDTO(events []match.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, eventDTO{
			Type:       string(ev.Type),
			Time:       ev.Time,
			Half:       ev.Half,
			Extra:      ev.Extra,
			Side:       ev.Side.String(),
			TeamID:     ev.TeamID,
			PlayerID:   ev.PlayerID,
			AssistID:   ev.AssistID,
			PlayerInID: ev.PlayerInID,
			Slot:       ev.Slot,
			Forced:     ev.Forced,
		})
	}
	return out
}

func statsToDTO(s match.Stats) statsDTO {
	return statsDTO{Counts: s.Map(), XG: s.XG}
}

func lineupToDTO(l lineup.Lineup) lineupDTO {
	slots := make(map[string]string, len(l.Slots))
	for slot, playerID := range l.Slots {
		slots[string(slot)] = playerID
	}
	return lineupDTO{Slots: slots, Substitutes: nonNilStrings(l.Substitutes)}
}

func sideViewToDTO(s match.SideSnapshot) sideViewDTO {
	return sideViewDTO{
		TeamID:         s.TeamID,
		Goals:          s.Goals,
		Lineup:         lineupToDTO(s.Lineup),
		Stats:          statsToDTO(s.Stats),
		Ratings:        s.Ratings,
		Fitness:        s.Fitness,
		Completed:      s.Completed,
		Forced:         s.Forced,
		RemainingQuota: s.RemainingQuota,
		Events:         eventsToDTO(s.Events),
	}
}

func matchViewToDTO(v usecase.MatchView) matchViewDTO {
	return matchViewDTO{
		MatchID:         v.MatchID,
		FixtureID:       v.FixtureID,
		Phase:           v.Phase.String(),
		Clock:           v.Clock,
		FirstHalfExtra:  v.FirstHalfExtra,
		SecondHalfExtra: v.SecondHalfExtra,
		Live:            v.Live,
		LiveSpeedMS:     v.LiveSpeed.Milliseconds(),
		Home:            sideViewToDTO(v.Home),
		Away:            sideViewToDTO(v.Away),
	}
}

func liveStateToDTO(v usecase.MatchView) liveStateDTO {
	return liveStateDTO{
		MatchID:     v.MatchID,
		Phase:       v.Phase.String(),
		Clock:       v.Clock,
		Live:        v.Live,
		LiveSpeedMS: v.LiveSpeed.Milliseconds(),
	}
}

func substitutionResultToDTO(r lineup.SubstitutionResult) substitutionResultDTO {
	subs := make([]substitutionDTO, 0, len(r.Substitutions))
	for _, sub := range r.Substitutions {
		subs = append(subs, substitutionDTO{
			PlayerOffID: sub.PlayerOffID,
			PlayerOnID:  sub.PlayerOnID,
			Slot:        string(sub.Slot),
			Forced:      sub.Forced,
		})
	}
	return substitutionResultDTO{Applied: r.Applied, Reason: r.Reason, Substitutions: subs}
}

func sideResultToDTO(s match.SideResult) sideResultDTO {
	return sideResultDTO{
		TeamID: s.TeamID,
		Goals:  s.Goals,
		Stats:  statsToDTO(s.Stats),
		Events: eventsToDTO(s.Events),
	}
}

func matchResultToDTO(r match.Result) matchResultDTO {
	players := make([]playerOutcomeDTO, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, playerOutcomeDTO{
			PlayerID:      p.PlayerID,
			TeamID:        p.TeamID,
			Appeared:      p.Appeared,
			Rating:        p.Rating,
			Fitness:       p.Fitness,
			Sharpness:     p.Sharpness,
			Morale:        p.Morale,
			InjuryMinutes: int64(p.InjuryRemaining / time.Minute),
			BanMatches:    p.BanMatches,
			YellowCards:   p.YellowCards,
		})
	}
	return matchResultDTO{
		MatchID:         r.MatchID,
		FixtureID:       r.FixtureID,
		FirstHalfExtra:  r.FirstHalfExtra,
		SecondHalfExtra: r.SecondHalfExtra,
		Home:            sideResultToDTO(r.Home),
		Away:            sideResultToDTO(r.Away),
		Players:         players,
	}
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/player"
	"github.com/riskibarqy/season-sim/internal/domain/team"
)

const (
	LeagueIDLiga1Indonesia = "idn-liga-1-2025"
	ManagedTeamID          = "idn-persija"
)

// SeasonStart is a Monday morning just before the first weekly calendar is built.
var SeasonStart = time.Date(2025, 8, 4, 8, 0, 0, 0, time.UTC)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "idn-persija", LeagueID: LeagueIDLiga1Indonesia, Name: "Persija Jakarta", Short: "PSJ", Managed: true},
		{ID: "idn-persib", LeagueID: LeagueIDLiga1Indonesia, Name: "Persib Bandung", Short: "PSB"},
		{ID: "idn-persebaya", LeagueID: LeagueIDLiga1Indonesia, Name: "Persebaya Surabaya", Short: "PRB"},
		{ID: "idn-baliutd", LeagueID: LeagueIDLiga1Indonesia, Name: "Bali United", Short: "BU"},
		{ID: "idn-arema", LeagueID: LeagueIDLiga1Indonesia, Name: "Arema FC", Short: "ARE"},
		{ID: "idn-psm", LeagueID: LeagueIDLiga1Indonesia, Name: "PSM Makassar", Short: "PSM"},
		{ID: "idn-borneo", LeagueID: LeagueIDLiga1Indonesia, Name: "Borneo FC", Short: "BFC"},
		{ID: "idn-persik", LeagueID: LeagueIDLiga1Indonesia, Name: "Persik Kediri", Short: "PSK"},
	}
}

var squadTemplate = [][]player.Position{
	{player.PositionGoalkeeper},
	{player.PositionGoalkeeper},
	{player.PositionLeftBack, player.PositionLeftWingBack},
	{player.PositionCentreBack},
	{player.PositionCentreBack},
	{player.PositionCentreBack, player.PositionDefensiveMidfielder},
	{player.PositionRightBack, player.PositionRightWingBack},
	{player.PositionDefensiveMidfielder, player.PositionCentralMidfielder},
	{player.PositionCentralMidfielder},
	{player.PositionCentralMidfielder, player.PositionAttackingMidfielder},
	{player.PositionAttackingMidfielder},
	{player.PositionLeftMidfielder, player.PositionLeftWinger},
	{player.PositionRightMidfielder, player.PositionRightWinger},
	{player.PositionLeftWinger},
	{player.PositionRightWinger},
	{player.PositionStriker},
	{player.PositionStriker},
	{player.PositionStriker, player.PositionAttackingMidfielder},
}

// named players keep a few recognizable names in the generated squads
var namedPlayers = map[string]string{
	"idn-persija-01":   "Andritany Ardhiyasa",
	"idn-persija-04":   "Hansamu Yama",
	"idn-persija-09":   "Maciej Gajos",
	"idn-persija-16":   "Gustavo Almeida",
	"idn-persib-01":    "Teja Paku Alam",
	"idn-persib-05":    "Nick Kuipers",
	"idn-persib-09":    "Marc Klok",
	"idn-persib-16":    "David da Silva",
	"idn-persebaya-04": "Dusan Stevanovic",
	"idn-persebaya-10": "Bruno Moreira",
	"idn-persebaya-16": "Paulo Henrique",
	"idn-baliutd-03":   "Ricky Fajrin",
	"idn-baliutd-09":   "Eber Bessa",
	"idn-baliutd-11":   "Mitsuru Maruoka",
}

// SeedPlayers builds an eighteen-man squad per team with abilities spread
// deterministically around a team base.
func SeedPlayers(teams []team.Team) []player.Player {
	out := make([]player.Player, 0, len(teams)*len(squadTemplate))
	for t, item := range teams {
		base := 72 - t*2
		for i, positions := range squadTemplate {
			playerID := fmt.Sprintf("%s-%02d", item.ID, i+1)
			name, ok := namedPlayers[playerID]
			if !ok {
				name = fmt.Sprintf("%s #%d", item.Name, i+1)
			}
			ability := base + (i*7+t*3)%11 - 5
			if i == 1 {
				ability -= 8
			}
			out = append(out, player.Player{
				ID:        playerID,
				TeamID:    item.ID,
				Name:      name,
				Positions: append([]player.Position(nil), positions...),
				Ability:   ability,
				Fitness:   90 + float64((i+t)%10),
				Sharpness: 60 + float64((i*3+t)%15),
				Morale:    65,
			})
		}
	}
	return out
}

var refereeSeverities = []float64{0.8, 1.0, 1.2, 0.9, 1.4, 1.0, 0.6}

// SeedFixtures lays out a double round robin with one matchday per Saturday
// 15:00 after the season start.
func SeedFixtures(teams []team.Team, start time.Time) []fixture.Fixture {
	n := len(teams)
	if n < 2 {
		return nil
	}
	ids := make([]string, 0, n+1)
	for _, item := range teams {
		ids = append(ids, item.ID)
	}
	if n%2 == 1 {
		ids = append(ids, "")
		n++
	}

	firstKickoff := time.Date(start.Year(), start.Month(), start.Day(), 15, 0, 0, 0, time.UTC)
	for firstKickoff.Weekday() != time.Saturday || !firstKickoff.After(start) {
		firstKickoff = firstKickoff.AddDate(0, 0, 1)
	}

	rounds := n - 1
	out := make([]fixture.Fixture, 0, rounds*n)
	rotation := append([]string(nil), ids...)
	for round := 0; round < rounds*2; round++ {
		if round > 0 {
			// circle method: the first team stays, the rest rotate
			last := rotation[len(rotation)-1]
			copy(rotation[2:], rotation[1:len(rotation)-1])
			rotation[1] = last
		}
		kickoff := firstKickoff.AddDate(0, 0, 7*round)
		for i := 0; i < n/2; i++ {
			home, away := rotation[i], rotation[n-1-i]
			if home == "" || away == "" {
				continue
			}
			if (round%rounds+i)%2 == 1 {
				home, away = away, home
			}
			if round >= rounds {
				home, away = away, home
			}
			out = append(out, fixture.Fixture{
				ID:              fmt.Sprintf("fx-%s-%03d", LeagueIDLiga1Indonesia, len(out)+1),
				LeagueID:        LeagueIDLiga1Indonesia,
				Matchday:        round + 1,
				HomeTeamID:      home,
				AwayTeamID:      away,
				KickoffAt:       kickoff,
				RefereeSeverity: refereeSeverities[len(out)%len(refereeSeverities)],
				Status:          fixture.StatusScheduled,
			})
		}
	}
	return out
}

// Seed returns a fresh save game for the default league.
func Seed() (Snapshot, error) {
	teams := SeedTeams()
	players := SeedPlayers(teams)

	var managed []player.Player
	for _, p := range players {
		if p.TeamID == ManagedTeamID {
			managed = append(managed, p)
		}
	}
	startingLineup, err := lineup.AutoSelect(ManagedTeamID, managed, lineup.Formation442, lineup.DefaultMaxSubstitutes)
	if err != nil {
		return Snapshot{}, fmt.Errorf("select lineup for %s: %w", ManagedTeamID, err)
	}
	startingLineup.UpdatedAt = SeasonStart

	return Snapshot{
		CurrentDate: SeasonStart,
		Teams:       teams,
		Players:     players,
		Fixtures:    SeedFixtures(teams, SeasonStart),
		Lineups:     []lineup.Lineup{startingLineup},
		Deliveries: []time.Time{
			SeasonStart.Add(50 * time.Hour),
			SeasonStart.AddDate(0, 0, 9),
		},
	}, nil
}

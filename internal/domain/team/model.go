package team

import "fmt"

// Team is a club taking part in the simulated season.
type Team struct {
	ID       string
	LeagueID string
	Name     string
	Short    string
	// Managed marks the human-controlled club. Every other club is run by the simulator.
	Managed bool
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

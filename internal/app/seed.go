package app

import (
	"fmt"

	"github.com/dkeye/Activities/internal/config"
	"github.com/dkeye/Activities/internal/domain"
)

var defaultSeeds = []config.ActivitySeed{
	{
		Name:            "Chess Club",
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
	},
	{
		Name:            "Programming Class",
		Description:     "Learn programming fundamentals and build software projects",
		Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
		MaxParticipants: 20,
		Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
	},
	{
		Name:            "Gym Class",
		Description:     "Physical education and sports activities",
		Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		MaxParticipants: 30,
		Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
	},
	{
		Name:            "Soccer Team",
		Description:     "Join the school soccer team and compete in matches",
		Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
		MaxParticipants: 22,
		Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
	},
	{
		Name:            "Basketball Team",
		Description:     "Practice and play basketball with the school team",
		Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 15,
		Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
	},
	{
		Name:            "Art Club",
		Description:     "Explore your creativity through painting and drawing",
		Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
		MaxParticipants: 15,
		Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
	},
	{
		Name:            "Drama Club",
		Description:     "Act, direct, and produce plays and performances",
		Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
		MaxParticipants: 20,
		Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
	},
	{
		Name:            "Math Club",
		Description:     "Solve challenging problems and participate in math competitions",
		Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
		MaxParticipants: 10,
		Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
	},
	{
		Name:            "Debate Team",
		Description:     "Develop public speaking and argumentation skills",
		Schedule:        "Fridays, 4:00 PM - 5:30 PM",
		MaxParticipants: 12,
		Participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
	},
}

// DefaultSeeds returns a copy of the built-in catalog.
func DefaultSeeds() []config.ActivitySeed {
	out := make([]config.ActivitySeed, len(defaultSeeds))
	for i, s := range defaultSeeds {
		s.Participants = append([]string(nil), s.Participants...)
		out[i] = s
	}
	return out
}

// BuildCatalog validates seeds; an empty list yields the built-in catalog.
func BuildCatalog(seeds []config.ActivitySeed) ([]*domain.Activity, error) {
	if len(seeds) == 0 {
		seeds = DefaultSeeds()
	}
	out := make([]*domain.Activity, 0, len(seeds))
	for i, s := range seeds {
		participants := make([]domain.Email, 0, len(s.Participants))
		for _, p := range s.Participants {
			participants = append(participants, domain.Email(p))
		}
		a, err := domain.NewActivity(domain.ActivityName(s.Name), s.Description, s.Schedule, s.MaxParticipants, participants)
		if err != nil {
			return nil, fmt.Errorf("activity #%d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

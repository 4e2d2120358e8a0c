package services

import (
	"fmt"
	"hunger_express/internal/repository"
	"math"
	"sort"
	"time"
)

const earthRadiusKm = 6371

type AgentLocation struct {
	AgentID    uint       `json:"agent_id"`
	AgentName  string     `json:"agent_name,omitempty"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	LastUpdate *time.Time `json:"last_update"`
}

type NearbyAgent struct {
	AgentID       uint    `json:"agent_id"`
	AgentName     string  `json:"agent_name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DistanceKm    float64 `json:"distance_km"`
	VehicleType   string  `json:"vehicle_type"`
	VehicleNumber string  `json:"vehicle_number"`
}

type TrackingService interface {
	UpdateLocation(agentUserID uint, latitude, longitude float64) (*AgentLocation, error)
	GetAgentLocation(agentUserID uint) (*AgentLocation, error)
	ListActiveAgents() ([]AgentLocation, error)
	ListNearbyAgents(latitude, longitude, radiusKm float64) ([]NearbyAgent, error)
}

type trackingService struct {
	profileRepo repository.AgentProfileRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

func NewTrackingService(profileRepo repository.AgentProfileRepository, userRepo repository.UserRepository) TrackingService {
	return &trackingService{profileRepo: profileRepo, userRepo: userRepo, now: time.Now}
}

func (s *trackingService) UpdateLocation(agentUserID uint, latitude, longitude float64) (*AgentLocation, error) {
	profile, err := s.profileRepo.GetByUserID(agentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	now := s.now()
	profile.CurrentLatitude = &latitude
	profile.CurrentLongitude = &longitude
	profile.LastLocationUpdate = &now
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	return &AgentLocation{
		AgentID:    profile.UserID,
		Latitude:   profile.CurrentLatitude,
		Longitude:  profile.CurrentLongitude,
		LastUpdate: profile.LastLocationUpdate,
	}, nil
}

// GetAgentLocation exposes an agent's position only while the agent is
// available, so customers cannot track agents who are off shift.
func (s *trackingService) GetAgentLocation(agentUserID uint) (*AgentLocation, error) {
	profile, err := s.profileRepo.GetByUserID(agentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent profile: %w", err)
	}
	if profile == nil || !profile.IsAvailable {
		return nil, ErrNotFound
	}

	return &AgentLocation{
		AgentID:    profile.UserID,
		Latitude:   profile.CurrentLatitude,
		Longitude:  profile.CurrentLongitude,
		LastUpdate: profile.LastLocationUpdate,
	}, nil
}

func (s *trackingService) ListActiveAgents() ([]AgentLocation, error) {
	profiles, err := s.profileRepo.GetAvailable()
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	locations := make([]AgentLocation, 0, len(profiles))
	for _, profile := range profiles {
		if profile.CurrentLatitude == nil || profile.CurrentLongitude == nil {
			continue
		}
		locations = append(locations, AgentLocation{
			AgentID:    profile.UserID,
			AgentName:  s.agentName(profile.UserID),
			Latitude:   profile.CurrentLatitude,
			Longitude:  profile.CurrentLongitude,
			LastUpdate: profile.LastLocationUpdate,
		})
	}
	return locations, nil
}

func (s *trackingService) ListNearbyAgents(latitude, longitude, radiusKm float64) ([]NearbyAgent, error) {
	profiles, err := s.profileRepo.GetAvailable()
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	nearby := make([]NearbyAgent, 0, len(profiles))
	for _, profile := range profiles {
		if profile.CurrentLatitude == nil || profile.CurrentLongitude == nil {
			continue
		}
		distance := haversineKm(latitude, longitude, *profile.CurrentLatitude, *profile.CurrentLongitude)
		if distance > radiusKm {
			continue
		}
		nearby = append(nearby, NearbyAgent{
			AgentID:       profile.UserID,
			AgentName:     s.agentName(profile.UserID),
			Latitude:      *profile.CurrentLatitude,
			Longitude:     *profile.CurrentLongitude,
			DistanceKm:    distance,
			VehicleType:   profile.VehicleType,
			VehicleNumber: profile.VehicleNumber,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

func (s *trackingService) agentName(userID uint) string {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "Unknown"
	}
	return user.FullName
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	latDistance := toRadians(lat2 - lat1)
	lonDistance := toRadians(lon2 - lon1)

	a := math.Sin(latDistance/2)*math.Sin(latDistance/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(lonDistance/2)*math.Sin(lonDistance/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

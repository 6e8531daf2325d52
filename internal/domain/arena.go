package domain

import (
	"context"
	"time"

	"courtfind/internal/availability"
)

// Arena is a venue owned by an owner, containing one or more courts.
// swagger:model Arena
type Arena struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Sports      []string  `json:"sports,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewArena returns a new Arena. ID is typically set by the repository on create.
func NewArena(ownerID, name, location, description string, createdAt, updatedAt time.Time) *Arena {
	return &Arena{
		OwnerID:     ownerID,
		Name:        name,
		Location:    location,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Court is a single bookable playing surface within an arena.
// HourlyRate is in the smallest currency unit.
// swagger:model Court
type Court struct {
	ID           string                          `json:"id"`
	ArenaID      string                          `json:"arena_id"`
	OwnerID      string                          `json:"owner_id"`
	Name         string                          `json:"name"`
	Sport        string                          `json:"sport"`
	Size         string                          `json:"size"`
	HourlyRate   int64                           `json:"hourly_rate"`
	Availability availability.WeeklyAvailability `json:"availability" swaggertype:"object"`
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
}

// NewCourt returns a new Court. ID and OwnerID are set on create.
func NewCourt(arenaID, name, sport, size string, hourlyRate int64, weekly availability.WeeklyAvailability, createdAt, updatedAt time.Time) *Court {
	return &Court{
		ArenaID:      arenaID,
		Name:         name,
		Sport:        sport,
		Size:         size,
		HourlyRate:   hourlyRate,
		Availability: weekly,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// ArenaSearch filters the public arena catalogue. Empty fields match everything.
type ArenaSearch struct {
	Sport string
	Venue string
}

// CourtUpdate holds the optional fields of a court update.
type CourtUpdate struct {
	Name         *string
	HourlyRate   *int64
	Availability availability.WeeklyAvailability
}

// ArenaRepository defines the interface for arena storage
type ArenaRepository interface {
	Create(ctx context.Context, arena *Arena) error
	GetByID(ctx context.Context, id string) (*Arena, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Arena, error)
	Search(ctx context.Context, filter ArenaSearch, params PaginationParams) ([]*Arena, int, error)
	Update(ctx context.Context, id string, name, location, description *string) (*Arena, error)
	Delete(ctx context.Context, id string) error
}

// CourtRepository defines the interface for court storage
type CourtRepository interface {
	Create(ctx context.Context, court *Court) error
	GetByID(ctx context.Context, id string) (*Court, error)
	ListByArenaID(ctx context.Context, arenaID string) ([]*Court, error)
	Update(ctx context.Context, id string, upd CourtUpdate) (*Court, error)
	Delete(ctx context.Context, id string) error
}

// ArenaService manages arenas and courts for owners and serves the public catalogue.
type ArenaService interface {
	CreateArena(ctx context.Context, arena *Arena) error
	ListMyArenas(ctx context.Context, ownerID string) ([]*Arena, error)
	UpdateArena(ctx context.Context, arenaID, ownerID string, name, location, description *string) (*Arena, error)
	DeleteArena(ctx context.Context, arenaID, ownerID string) error
	SearchArenas(ctx context.Context, filter ArenaSearch, params PaginationParams) ([]*Arena, int, error)

	CreateCourt(ctx context.Context, ownerID string, court *Court) error
	ListCourtsByArena(ctx context.Context, arenaID string) ([]*Court, error)
	GetCourt(ctx context.Context, courtID string) (*Court, error)
	UpdateCourt(ctx context.Context, courtID, ownerID string, upd CourtUpdate) (*Court, error)
	DeleteCourt(ctx context.Context, courtID, ownerID string) error
}

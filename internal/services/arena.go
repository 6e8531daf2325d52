package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"courtfind/internal/availability"
	"courtfind/internal/domain"
)

type arenaService struct {
	arenaRepo      domain.ArenaRepository
	courtRepo      domain.CourtRepository
	contextTimeout time.Duration
}

// NewArenaService creates an ArenaService backed by the arena and court repositories.
func NewArenaService(arenaRepo domain.ArenaRepository, courtRepo domain.CourtRepository, timeout time.Duration) domain.ArenaService {
	return &arenaService{
		arenaRepo:      arenaRepo,
		courtRepo:      courtRepo,
		contextTimeout: timeout,
	}
}

func (s *arenaService) CreateArena(ctx context.Context, arena *domain.Arena) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if arena.OwnerID == "" {
		return fmt.Errorf("arena owner is required: %w", domain.ErrInvalidInput)
	}
	arena.Name = strings.TrimSpace(arena.Name)
	if arena.Name == "" {
		return fmt.Errorf("arena name is required: %w", domain.ErrInvalidInput)
	}
	arena.Location = strings.TrimSpace(arena.Location)
	arena.CreatedAt = time.Now()
	arena.UpdatedAt = arena.CreatedAt
	return s.arenaRepo.Create(ctx, arena)
}

func (s *arenaService) ListMyArenas(ctx context.Context, ownerID string) ([]*domain.Arena, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	arenas, err := s.arenaRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list arenas: %w", err)
	}
	if arenas == nil {
		arenas = []*domain.Arena{}
	}
	return arenas, nil
}

func (s *arenaService) UpdateArena(ctx context.Context, arenaID, ownerID string, name, location, description *string) (*domain.Arena, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedArena(ctx, arenaID, ownerID); err != nil {
		return nil, err
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, fmt.Errorf("arena name cannot be empty: %w", domain.ErrInvalidInput)
	}
	arena, err := s.arenaRepo.Update(ctx, arenaID, name, location, description)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update arena: %w", err)
	}
	return arena, nil
}

func (s *arenaService) DeleteArena(ctx context.Context, arenaID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedArena(ctx, arenaID, ownerID); err != nil {
		return err
	}
	return s.arenaRepo.Delete(ctx, arenaID)
}

func (s *arenaService) SearchArenas(ctx context.Context, filter domain.ArenaSearch, params domain.PaginationParams) ([]*domain.Arena, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	arenas, total, err := s.arenaRepo.Search(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("search arenas: %w", err)
	}
	if arenas == nil {
		arenas = []*domain.Arena{}
	}
	return arenas, total, nil
}

func (s *arenaService) CreateCourt(ctx context.Context, ownerID string, court *domain.Court) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	arena, err := s.ownedArena(ctx, court.ArenaID, ownerID)
	if err != nil {
		return err
	}
	court.Name = strings.TrimSpace(court.Name)
	if court.Name == "" {
		return fmt.Errorf("court name is required: %w", domain.ErrInvalidInput)
	}
	if court.HourlyRate <= 0 {
		return fmt.Errorf("hourly rate must be positive: %w", domain.ErrInvalidInput)
	}
	if court.Availability == nil {
		court.Availability = availability.WeeklyAvailability{}
	}
	if err := court.Availability.Validate(); err != nil {
		return err
	}
	court.OwnerID = arena.OwnerID
	court.CreatedAt = time.Now()
	court.UpdatedAt = court.CreatedAt
	return s.courtRepo.Create(ctx, court)
}

func (s *arenaService) ListCourtsByArena(ctx context.Context, arenaID string) ([]*domain.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.arenaRepo.GetByID(ctx, arenaID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get arena: %w", err)
	}
	courts, err := s.courtRepo.ListByArenaID(ctx, arenaID)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	if courts == nil {
		courts = []*domain.Court{}
	}
	return courts, nil
}

func (s *arenaService) GetCourt(ctx context.Context, courtID string) (*domain.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return getCourt(ctx, s.courtRepo, courtID)
}

func (s *arenaService) UpdateCourt(ctx context.Context, courtID, ownerID string, upd domain.CourtUpdate) (*domain.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedCourt(ctx, courtID, ownerID); err != nil {
		return nil, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("court name cannot be empty: %w", domain.ErrInvalidInput)
	}
	if upd.HourlyRate != nil && *upd.HourlyRate <= 0 {
		return nil, fmt.Errorf("hourly rate must be positive: %w", domain.ErrInvalidInput)
	}
	if upd.Availability != nil {
		if err := upd.Availability.Validate(); err != nil {
			return nil, err
		}
	}
	court, err := s.courtRepo.Update(ctx, courtID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update court: %w", err)
	}
	return court, nil
}

func (s *arenaService) DeleteCourt(ctx context.Context, courtID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedCourt(ctx, courtID, ownerID); err != nil {
		return err
	}
	return s.courtRepo.Delete(ctx, courtID)
}

func (s *arenaService) ownedArena(ctx context.Context, arenaID, ownerID string) (*domain.Arena, error) {
	arena, err := s.arenaRepo.GetByID(ctx, arenaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get arena: %w", err)
	}
	if arena.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return arena, nil
}

func (s *arenaService) ownedCourt(ctx context.Context, courtID, ownerID string) (*domain.Court, error) {
	court, err := getCourt(ctx, s.courtRepo, courtID)
	if err != nil {
		return nil, err
	}
	if court.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return court, nil
}

func getCourt(ctx context.Context, repo domain.CourtRepository, courtID string) (*domain.Court, error) {
	court, err := repo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get court: %w", err)
	}
	return court, nil
}

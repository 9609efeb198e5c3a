package seed

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const (
	minAge = 16
	maxAge = 99
)

var (
	firstNames = []string{"Alice", "Bob", "Carla", "Diego", "Elena", "Farid", "Grace", "Hiro", "Ines", "Jonas", "Kemi", "Luca", "Maya", "Nikolai", "Olga", "Pedro"}
	lastNames  = []string{"Almeida", "Brown", "Chen", "Dubois", "Eriksen", "Fischer", "Garcia", "Hughes", "Ivanova", "Jensen", "Kowalski", "Lopez", "Moreau", "Nakamura", "Okafor", "Popescu"}
)

// Seeder registers random sample customers through the service so every
// registration rule still applies.
type Seeder struct {
	service customer.CustomerService
	logger  *slog.Logger
	rand    *rand.Rand
}

func NewSeeder(service customer.CustomerService, logger *slog.Logger) *Seeder {
	return &Seeder{
		service: service,
		logger:  logger.With("component", "Seeder"),
		rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Run registers count customers. Duplicate emails are skipped; any other error
// stops the run. It returns how many customers were added.
func (s *Seeder) Run(ctx context.Context, count int) (int, error) {
	added := 0
	for i := 0; i < count; i++ {
		req := s.randomRequest()
		err := s.service.AddCustomer(ctx, req)
		switch {
		case err == nil:
			added++
		case errors.Is(err, apperrors.ErrAlreadyExists):
			s.logger.WarnContext(ctx, "Skipping seed customer with taken email", "email", req.Email)
		default:
			return added, fmt.Errorf("failed to seed customer %d: %w", i+1, err)
		}
	}

	s.logger.InfoContext(ctx, "Seeding finished", "requested", count, "added", added)
	return added, nil
}

func (s *Seeder) randomRequest() customer.CustomerRegistrationRequest {
	first := firstNames[s.rand.IntN(len(firstNames))]
	last := lastNames[s.rand.IntN(len(lastNames))]
	tag := strings.SplitN(uuid.NewString(), "-", 2)[0]

	return customer.CustomerRegistrationRequest{
		Name:  first + " " + last,
		Email: strings.ToLower(fmt.Sprintf("%s.%s.%s@example.com", first, last, tag)),
		Age:   minAge + s.rand.IntN(maxAge-minAge),
	}
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eaglebank/servicekit/events"
	"github.com/eaglebank/servicekit/example/bank/internal/ident"
	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/example/bank/internal/repository"
	"github.com/eaglebank/servicekit/middleware"
	"github.com/eaglebank/servicekit/tx"
	"github.com/golang-jwt/jwt/v5"
)

// UserService handles registration and login. Registered as an
// application service, so its write operations run inside a
// read-committed transaction boundary opened at the request edge.
type UserService struct {
	users     *repository.UserRepository
	publisher *events.Publisher
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(users *repository.UserRepository, publisher *events.Publisher, jwtSecret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		publisher: publisher,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (*model.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := ident.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &model.User{
		ID:           ident.New("usr"),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	tx.OnCommit(ctx, func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, UserEventsStream, UserCreated, UserCreatedEvent{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
		}); err != nil {
			log.Printf("Failed to publish user.created event: %v", err)
		}
	})
	return user, nil
}

// Login checks credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}
	if !ident.CheckPassword(password, user.PasswordHash) {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now().UTC()
	claims := middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   user.ID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

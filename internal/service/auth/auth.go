// internal/service/auth/auth.go
package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"khata-service/internal/domain/shopkeeper"
	xerrors "khata-service/internal/pkg/errors"
	"khata-service/internal/pkg/jwt"
	"khata-service/internal/pkg/session"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ShopkeeperStore is the persistence surface the auth service needs.
type ShopkeeperStore interface {
	CreateShopkeeper(ctx context.Context, s *shopkeeper.Shopkeeper) error
	FindShopkeeperByPhone(ctx context.Context, phone string) (*shopkeeper.Shopkeeper, error)
	FindShopkeeperByID(ctx context.Context, id string) (*shopkeeper.Shopkeeper, error)
}

type Service struct {
	store      ShopkeeperStore
	jwtManager *jwt.Manager
	sessions   *session.Manager
	logger     *zap.Logger
}

func NewService(store ShopkeeperStore, jwtManager *jwt.Manager, sessions *session.Manager, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		jwtManager: jwtManager,
		sessions:   sessions,
		logger:     logger,
	}
}

// Register creates a shopkeeper account. The phone number is the login
// identity, so it must be unique across the whole service.
func (s *Service) Register(ctx context.Context, req *shopkeeper.RegisterRequest) (*shopkeeper.Shopkeeper, error) {
	req.ShopName = strings.TrimSpace(req.ShopName)
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.ShopName == "" || req.OwnerName == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "shop name and owner name are required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "phone must be a 10 digit number")
	}
	if len(req.Password) < 6 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInternal, "failed to hash password")
	}

	now := time.Now().UTC()
	sk := &shopkeeper.Shopkeeper{
		ID:           ulid.Make().String(),
		ShopName:     req.ShopName,
		OwnerName:    req.OwnerName,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		sk.Email.String = email
		sk.Email.Valid = true
	}

	if err := s.store.CreateShopkeeper(ctx, sk); err != nil {
		return nil, err
	}

	s.logger.Info("shopkeeper registered",
		zap.String("shopkeeper_id", sk.ID),
		zap.String("shop_name", sk.ShopName))
	return sk, nil
}

// Login verifies credentials and opens a session. The returned token carries
// the session id as its jti claim so it can be revoked server side.
func (s *Service) Login(ctx context.Context, req *shopkeeper.LoginRequest) (*shopkeeper.LoginResponse, error) {
	sk, err := s.store.FindShopkeeperByPhone(ctx, strings.TrimSpace(req.Phone))
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid phone or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(sk.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid phone or password")
	}

	token, jti, err := s.jwtManager.Generate(sk.ID, sk.ShopName)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrInternal, "failed to issue token")
	}

	if err := s.sessions.Create(ctx, sk.ID, sk.ShopName, jti, s.jwtManager.TTL()); err != nil {
		s.logger.Error("failed to store session", zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrInternal, "failed to open session")
	}

	s.logger.Info("shopkeeper logged in", zap.String("shopkeeper_id", sk.ID))

	return &shopkeeper.LoginResponse{
		Shopkeeper:  sk,
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.TTL().Seconds()),
	}, nil
}

// ValidateToken checks the token signature and that its session is still
// alive. Both must hold for a request to be authenticated.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verify(tokenString)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid token")
	}

	if _, err := s.sessions.Validate(ctx, claims.ShopkeeperID, claims.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) GetMe(ctx context.Context, shopkeeperID string) (*shopkeeper.Shopkeeper, error) {
	return s.store.FindShopkeeperByID(ctx, shopkeeperID)
}

// Logout revokes the session behind a single token.
func (s *Service) Logout(ctx context.Context, shopkeeperID, jti string) error {
	if err := s.sessions.Revoke(ctx, shopkeeperID, jti); err != nil {
		return err
	}
	s.logger.Info("shopkeeper logged out", zap.String("shopkeeper_id", shopkeeperID))
	return nil
}

// LogoutAll revokes every session of the shopkeeper, across devices.
func (s *Service) LogoutAll(ctx context.Context, shopkeeperID string) error {
	if err := s.sessions.RevokeAll(ctx, shopkeeperID); err != nil {
		return err
	}
	s.logger.Info("all sessions revoked", zap.String("shopkeeper_id", shopkeeperID))
	return nil
}

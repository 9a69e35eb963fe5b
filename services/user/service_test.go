package user

import (
	"context"
	"testing"

	"droply/models"
	"droply/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memUserRepo) Update(ctx context.Context, u *models.User) error { return nil }

func (r *memUserRepo) SetFCMToken(ctx context.Context, userID, token string) error {
	u, ok := r.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.FCMToken = token
	return nil
}

func registration() models.RegistrationRequest {
	return models.RegistrationRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correct-horse-battery",
		FullName: "Ada Mokaya",
		Timezone: "Africa/Nairobi",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := &DefaultUserService{Repo: newMemUserRepo(), Logger: zap.NewNop()}
	ctx := context.Background()

	resp, err := svc.Register(ctx, registration())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "USD", resp.User.Currency)
	assert.NotEqual(t, "correct-horse-battery", resp.User.PasswordHash)

	// The token carries the user's id.
	sub, err := utils.ExtractIDFromToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, sub)

	authed, err := svc.Authenticate(ctx, models.AuthRequest{
		Email:    "ada@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, authed.User.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := &DefaultUserService{Repo: newMemUserRepo(), Logger: zap.NewNop()}
	ctx := context.Background()

	_, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration())
	assert.Error(t, err)
}

func TestRegisterRejectsUnknownTimezone(t *testing.T) {
	svc := &DefaultUserService{Repo: newMemUserRepo(), Logger: zap.NewNop()}

	req := registration()
	req.Timezone = "Mars/Olympus_Mons"
	_, err := svc.Register(context.Background(), req)
	assert.Error(t, err)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := &DefaultUserService{Repo: newMemUserRepo(), Logger: zap.NewNop()}
	ctx := context.Background()

	_, err := svc.Register(ctx, registration())
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, models.AuthRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, models.AuthRequest{
		Email:    "nobody@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

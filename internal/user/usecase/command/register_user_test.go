package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warungos/datastore/internal/user/domain"
	"github.com/warungos/datastore/pkg/auth"
	"github.com/warungos/datastore/pkg/database"
)

type fakeUserRepo struct {
	domain.UserRepository
	created   *domain.User
	createErr error
	updated   map[string]any
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = 1
	f.created = u
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, column string, value any, changes map[string]any) (*domain.User, error) {
	f.updated = changes
	return &domain.User{ID: 1, MustChangePassword: false}, nil
}

func TestRegisterUserWithPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	h := NewRegisterUserHandler(repo)

	user, err := h.Handle(context.Background(), RegisterUserCommand{
		Name:     "Siti",
		Email:    "  Siti@Warung.ID ",
		Password: "rahasia-besar",
		Role:     domain.RoleOps,
	})
	require.NoError(t, err)
	require.Equal(t, "siti@warung.id", user.Email, "email is normalized")
	require.Equal(t, domain.RoleOps, user.Role)
	require.False(t, user.MustChangePassword)
	require.NotNil(t, user.PasswordHash)
	require.True(t, auth.CheckPassword(*user.PasswordHash, "rahasia-besar"))
}

func TestRegisterUserWithoutPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	h := NewRegisterUserHandler(repo)

	user, err := h.Handle(context.Background(), RegisterUserCommand{Name: "Budi", Email: "budi@warung.id"})
	require.NoError(t, err)
	require.True(t, user.MustChangePassword, "account without a password must set one on first login")
	require.Nil(t, user.PasswordHash)
	require.Equal(t, domain.RoleCashier, user.Role, "role defaults to cashier")
}

func TestRegisterUserValidation(t *testing.T) {
	h := NewRegisterUserHandler(&fakeUserRepo{})

	cases := []struct {
		name string
		cmd  RegisterUserCommand
	}{
		{"missing name", RegisterUserCommand{Email: "a@b.id"}},
		{"missing email", RegisterUserCommand{Name: "A"}},
		{"bogus role", RegisterUserCommand{Name: "A", Email: "a@b.id", Role: "SUPREME_LEADER"}},
		{"short password", RegisterUserCommand{Name: "A", Email: "a@b.id", Password: "1234567"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tc.cmd)
			require.True(t, errors.Is(err, database.ErrValidation))
		})
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{createErr: database.ErrUniqueViolation}
	h := NewRegisterUserHandler(repo)

	_, err := h.Handle(context.Background(), RegisterUserCommand{Name: "A", Email: "a@b.id"})
	require.True(t, errors.Is(err, database.ErrUniqueViolation))
	require.Contains(t, err.Error(), "email already registered")
}

func TestChangePassword(t *testing.T) {
	repo := &fakeUserRepo{}
	h := NewChangePasswordHandler(repo)

	user, err := h.Handle(context.Background(), ChangePasswordCommand{UserID: 1, NewPassword: "kata-sandi-baru"})
	require.NoError(t, err)
	require.False(t, user.MustChangePassword)

	require.Equal(t, false, repo.updated["must_change_password"])
	hash, ok := repo.updated["password_hash"].(string)
	require.True(t, ok)
	require.True(t, auth.CheckPassword(hash, "kata-sandi-baru"))
}

func TestChangePasswordValidation(t *testing.T) {
	h := NewChangePasswordHandler(&fakeUserRepo{})

	_, err := h.Handle(context.Background(), ChangePasswordCommand{UserID: 0, NewPassword: "long-enough"})
	require.True(t, errors.Is(err, database.ErrValidation))

	_, err = h.Handle(context.Background(), ChangePasswordCommand{UserID: 1, NewPassword: "short"})
	require.True(t, errors.Is(err, database.ErrValidation))
}

package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtier_backend/internal/feature/user/domain"
	"courtier_backend/internal/feature/user/domain/entity"
	"courtier_backend/internal/platform/apperr"
	jwtmw "courtier_backend/internal/platform/jwt"
)

// fakeUserRepository はメールアドレスの一意性を再現するインメモリのUserRepositoryです。
type fakeUserRepository struct {
	mu      sync.Mutex
	byEmail map[string]entity.User
	nextID  uint
	saveErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byEmail: map[string]entity.User{}}
}

func (f *fakeUserRepository) Create(ctx context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrUserAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = *u
	return nil
}

func (f *fakeUserRepository) Save(ctx context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.byEmail[u.Email] = *u
	return nil
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepository) FindByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	u, err := f.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) get(email string) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail[email]
}

// mockMailer は送信されたメールを記録します。
type mockMailer struct {
	SendFunc func(ctx context.Context, to, subject, html string) error
	sent     []sentMail
}

type sentMail struct{ to, subject, html string }

func (m *mockMailer) Send(ctx context.Context, to, subject, html string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, to, subject, html); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, sentMail{to, subject, html})
	return nil
}

const resetURL = "http://localhost:3000/password-reset/"

var linkPattern = regexp.MustCompile(`href="http://localhost:3000/password-reset/([^"]+)"`)

func newTestUsecase(t *testing.T) (*authUsecase, *fakeUserRepository, *mockMailer, *jwtmw.Generator) {
	t.Helper()
	repo := newFakeUserRepository()
	mailer := &mockMailer{}
	gen := jwtmw.NewGenerator("test-secret", 240*time.Hour, time.Hour)
	return NewAuthUsecase(repo, gen, mailer, resetURL), repo, mailer, gen
}

func tokenFromMail(t *testing.T, m sentMail) string {
	t.Helper()
	match := linkPattern.FindStringSubmatch(m.html)
	require.Len(t, match, 2, "reset link not found in %q", m.html)
	return match[1]
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates admin with hashed password", func(t *testing.T) {
		t.Parallel()
		uc, repo, _, _ := newTestUsecase(t)

		user, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		stored := repo.get("a@x.com")
		require.NotNil(t, stored.Password)
		assert.NotEqual(t, "Abc12345", *stored.Password)
		assert.Nil(t, stored.Phone)
	})

	// 公開登録エンドポイントは常に ADMIN を付与する（既存挙動の固定）
	t.Run("always assigns ADMIN", func(t *testing.T) {
		t.Parallel()
		uc, _, _, _ := newTestUsecase(t)

		user, err := uc.Register(context.Background(), RegisterInput{Email: "b@x.com", Name: "B", Password: "Abc12345"})

		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, user.Role)
	})

	t.Run("second admin registration conflicts", func(t *testing.T) {
		t.Parallel()
		uc, _, _, _ := newTestUsecase(t)
		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
		require.NoError(t, err)

		_, err = uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})

		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("conflict check precedes password policy", func(t *testing.T) {
		t.Parallel()
		uc, _, _, _ := newTestUsecase(t)
		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
		require.NoError(t, err)

		_, err = uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "weak"})

		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	// USER ロールの既存アカウントは ADMIN 限定の重複チェックに掛からない
	t.Run("existing USER passes the admin-scoped check", func(t *testing.T) {
		t.Parallel()
		repo := newFakeUserRepository()
		require.NoError(t, repo.Create(context.Background(), &entity.User{Email: "u@x.com", Role: entity.RoleUser}))
		lookups := &countingRepo{fakeUserRepository: repo}
		uc := NewAuthUsecase(lookups, jwtmw.NewGenerator("s", time.Hour, time.Hour), &mockMailer{}, resetURL)

		_, err := uc.Register(context.Background(), RegisterInput{Email: "u@x.com", Name: "U", Password: "Abc12345"})

		assert.Equal(t, 1, lookups.roleLookups)
		assert.Equal(t, 1, lookups.creates, "the admin-scoped check must not stop the insert")
		// 一意制約は保存時に検出される
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		t.Parallel()
		uc, _, _, _ := newTestUsecase(t)

		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "abcdefgh"})

		assert.ErrorIs(t, err, ErrPasswordPolicy)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

type countingRepo struct {
	*fakeUserRepository
	roleLookups int
	creates     int
}

func (c *countingRepo) FindByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	c.roleLookups++
	return c.fakeUserRepository.FindByEmailAndRole(ctx, email, role)
}

func (c *countingRepo) Create(ctx context.Context, u *entity.User) error {
	c.creates++
	return c.fakeUserRepository.Create(ctx, u)
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	uc, repo, _, gen := newTestUsecase(t)
	_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &entity.User{Email: "nopw@x.com", Role: entity.RoleUser}))

	t.Run("success returns token decoding to email", func(t *testing.T) {
		res, err := uc.Login(context.Background(), "a@x.com", "Abc12345")

		require.NoError(t, err)
		assert.Equal(t, "a@x.com", res.User.Email)
		claims, err := gen.Parse(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Zero(t, claims.UserID)
	})

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantKind apperr.Kind
	}{
		{"unknown email is unauthorized", "ghost@x.com", "Abc12345", ErrUnknownEmail, apperr.KindUnauthorized},
		{"wrong password is bad request", "a@x.com", "Xyz98765", ErrWrongPassword, apperr.KindBadRequest},
		{"policy violation", "a@x.com", "wrong", ErrPasswordPolicy, apperr.KindValidation},
		{"account without password", "nopw@x.com", "Abc12345", ErrWrongPassword, apperr.KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestAuthUsecase_ForgotPassword(t *testing.T) {
	t.Parallel()

	t.Run("stores the token that was mailed", func(t *testing.T) {
		t.Parallel()
		uc, repo, mailer, gen := newTestUsecase(t)
		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
		require.NoError(t, err)

		require.NoError(t, uc.ForgotPassword(context.Background(), "a@x.com"))

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "a@x.com", mailer.sent[0].to)
		assert.Equal(t, "Forgot Password Link", mailer.sent[0].subject)
		token := tokenFromMail(t, mailer.sent[0])

		stored := repo.get("a@x.com")
		require.NotNil(t, stored.ResetPasswordToken)
		assert.Equal(t, token, *stored.ResetPasswordToken)

		claims, err := gen.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("new request overwrites the previous token", func(t *testing.T) {
		t.Parallel()
		uc, repo, mailer, _ := newTestUsecase(t)
		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
		require.NoError(t, err)

		require.NoError(t, uc.ForgotPassword(context.Background(), "a@x.com"))
		require.NoError(t, uc.ForgotPassword(context.Background(), "a@x.com"))

		require.Len(t, mailer.sent, 2)
		first, second := tokenFromMail(t, mailer.sent[0]), tokenFromMail(t, mailer.sent[1])
		assert.NotEqual(t, first, second)
		assert.Equal(t, second, *repo.get("a@x.com").ResetPasswordToken)
	})

	t.Run("unknown email is bad request", func(t *testing.T) {
		t.Parallel()
		uc, _, mailer, _ := newTestUsecase(t)

		err := uc.ForgotPassword(context.Background(), "ghost@x.com")

		assert.ErrorIs(t, err, ErrNoSuchAccount)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		assert.Empty(t, mailer.sent)
	})

	t.Run("persist failure sends nothing", func(t *testing.T) {
		t.Parallel()
		uc, repo, mailer, _ := newTestUsecase(t)
		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
		require.NoError(t, err)
		repo.saveErr = errors.New("db down")

		err = uc.ForgotPassword(context.Background(), "a@x.com")

		require.Error(t, err)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
		assert.Empty(t, mailer.sent)
	})

	t.Run("mail failure is internal", func(t *testing.T) {
		t.Parallel()
		uc, _, mailer, _ := newTestUsecase(t)
		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
		require.NoError(t, err)
		mailer.SendFunc = func(ctx context.Context, to, subject, html string) error { return errors.New("smtp down") }

		err = uc.ForgotPassword(context.Background(), "a@x.com")

		require.Error(t, err)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}

func TestAuthUsecase_ResetPassword(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*authUsecase, *fakeUserRepository, *jwtmw.Generator, string) {
		t.Helper()
		uc, repo, mailer, gen := newTestUsecase(t)
		_, err := uc.Register(context.Background(), RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
		require.NoError(t, err)
		require.NoError(t, uc.ForgotPassword(context.Background(), "a@x.com"))
		return uc, repo, gen, tokenFromMail(t, mailer.sent[0])
	}

	t.Run("success updates hash and clears token", func(t *testing.T) {
		t.Parallel()
		uc, repo, _, token := setup(t)

		require.NoError(t, uc.ResetPassword(context.Background(), token, "Xyz98765"))

		assert.Nil(t, repo.get("a@x.com").ResetPasswordToken)
		_, err := uc.Login(context.Background(), "a@x.com", "Xyz98765")
		assert.NoError(t, err)
		_, err = uc.Login(context.Background(), "a@x.com", "Abc12345")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("reusing the token fails", func(t *testing.T) {
		t.Parallel()
		uc, _, _, token := setup(t)
		require.NoError(t, uc.ResetPassword(context.Background(), token, "Xyz98765"))

		err := uc.ResetPassword(context.Background(), token, "Def45678")

		assert.ErrorIs(t, err, ErrLinkExpired)
	})

	t.Run("valid token that is not the stored one fails", func(t *testing.T) {
		t.Parallel()
		uc, repo, gen, _ := setup(t)
		other, err := gen.GenerateResetToken(repo.get("a@x.com").ID, "a@x.com")
		require.NoError(t, err)

		err = uc.ResetPassword(context.Background(), other, "Xyz98765")

		assert.ErrorIs(t, err, ErrLinkExpired)
	})

	t.Run("login token cannot reset", func(t *testing.T) {
		t.Parallel()
		uc, _, gen, _ := setup(t)
		access, err := gen.GenerateAccessToken("a@x.com")
		require.NoError(t, err)

		assert.ErrorIs(t, uc.ResetPassword(context.Background(), access, "Xyz98765"), ErrLinkExpired)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		uc, _, _, _ := setup(t)

		err := uc.ResetPassword(context.Background(), "garbage", "Xyz98765")

		assert.ErrorIs(t, err, ErrLinkExpired)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		t.Parallel()
		uc, _, gen, _ := setup(t)
		ghost, err := gen.GenerateResetToken(99, "ghost@x.com")
		require.NoError(t, err)

		err = uc.ResetPassword(context.Background(), ghost, "Xyz98765")

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("weak password keeps token", func(t *testing.T) {
		t.Parallel()
		uc, repo, _, token := setup(t)

		err := uc.ResetPassword(context.Background(), token, "weak")

		assert.ErrorIs(t, err, ErrPasswordPolicy)
		assert.NotNil(t, repo.get("a@x.com").ResetPasswordToken)
	})

	t.Run("same password is rejected", func(t *testing.T) {
		t.Parallel()
		uc, _, _, token := setup(t)

		err := uc.ResetPassword(context.Background(), token, "Abc12345")

		assert.ErrorIs(t, err, ErrSamePassword)
	})
}

// TestAuthUsecase_Scenario は登録からパスワード再設定までの一連の流れを検証します。
func TestAuthUsecase_Scenario(t *testing.T) {
	t.Parallel()

	uc, repo, mailer, gen := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Email: "a@x.com", Name: "A", Password: "Abc12345"})
	require.NoError(t, err)

	res, err := uc.Login(ctx, "a@x.com", "Abc12345")
	require.NoError(t, err)
	email, err := gen.ParseEmail(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	_, err = uc.Login(ctx, "a@x.com", "wrong")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, 400, apperr.KindOf(err).Status())

	require.NoError(t, uc.ForgotPassword(ctx, "a@x.com"))
	token := tokenFromMail(t, mailer.sent[0])
	assert.Equal(t, token, *repo.get("a@x.com").ResetPasswordToken)

	require.NoError(t, uc.ResetPassword(ctx, token, "Xyz98765"))
	assert.Nil(t, repo.get("a@x.com").ResetPasswordToken)

	err = uc.ResetPassword(ctx, token, "Other123")
	assert.ErrorIs(t, err, ErrLinkExpired)
	assert.Equal(t, 400, apperr.KindOf(err).Status())
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"courtier_backend/internal/feature/user/domain"
	"courtier_backend/internal/feature/user/domain/entity"
)

// forgotPasswordSubject is the subject of the password-reset email.
const forgotPasswordSubject = "Forgot Password Link"

// dummyHash はユーザーが存在しない場合のタイミング攻撃緩和用のbcryptハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var resetMailTemplate = template.Must(template.New("reset").Parse(
	`<p>Click the link below to reset your password. It expires in one hour.</p><p><a href="{{.}}">{{.}}</a></p>`))

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。メールアドレス重複時は domain.ErrUserAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error
	// Save はユーザーの全カラムを更新します。
	Save(ctx context.Context, user *entity.User) error
	// FindByEmail は存在しない場合 domain.ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByEmailAndRole はメールアドレスとロールの両方が一致するユーザーを返します。
	FindByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error)
}

// TokenIssuer はJWTの発行と検証を抽象化します。
type TokenIssuer interface {
	// GenerateAccessToken はペイロード {email} のログイントークンを発行します。
	GenerateAccessToken(email string) (string, error)
	// GenerateResetToken はペイロード {id, email} のパスワードリセット用トークンを発行します。
	GenerateResetToken(userID uint, email string) (string, error)
	// ParseEmail は署名と有効期限を検証し、email クレームを返します。
	ParseEmail(token string) (string, error)
}

// Mailer はHTMLメールの送信を抽象化します。
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// RegisterInput is the data needed to register an account.
type RegisterInput struct {
	Email    string
	Name     string
	Phone    *string
	Password string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	AccessToken string
	User        *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	tokens   TokenIssuer
	mailer   Mailer
	resetURL string
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// resetURL はリセットトークンの前に付与されるリンクのプレフィックスです。
func NewAuthUsecase(users UserRepository, tokens TokenIssuer, mailer Mailer, resetURL string) *authUsecase {
	return &authUsecase{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		resetURL: resetURL,
	}
}

// Register は管理者アカウントを登録します。
// 重複チェックは ADMIN ロールのユーザーに限定され、作成されるロールは常に ADMIN です。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	_, err := u.users.FindByEmailAndRole(ctx, in.Email, entity.RoleAdmin)
	switch {
	case err == nil:
		return nil, domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashed)

	user := &entity.User{
		Email:    in.Email,
		Name:     in.Name,
		Phone:    in.Phone,
		Password: &hash,
		Role:     entity.RoleAdmin,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("admin registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login はユーザーを認証し、成功時にアクセストークンとユーザーを返します。
// 未登録のメールアドレスは401、パスワード不一致は400として区別されます。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// タイミング攻撃防止のため、常にbcrypt比較を実行
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// パスワード未設定のアカウントはログイン不可
	hash := user.PasswordHash()
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	token, err := u.tokens.GenerateAccessToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResult{AccessToken: token, User: user}, nil
}

// ForgotPassword はリセットトークンを発行してユーザーに保存し、リセットリンクをメール送信します。
// 新しいトークンは以前のトークンを上書きするため、未使用の古いリンクは無効になります。
// トークンは送信前に保存されるため、送信済みリンクのトークンが未保存になることはありません。
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ErrNoSuchAccount
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := u.tokens.GenerateResetToken(user.ID, user.Email)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	user.ResetPasswordToken = &token
	if err := u.users.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	var body strings.Builder
	if err := resetMailTemplate.Execute(&body, u.resetURL+token); err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}
	if err := u.mailer.Send(ctx, user.Email, forgotPasswordSubject, body.String()); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	slog.Info("password reset link sent", "user_id", user.ID)
	return nil
}

// ResetPassword はリセットトークンを検証してパスワードを更新し、保存済みトークンを消去します。
func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := u.tokens.ParseEmail(token)
	if err != nil {
		return ErrLinkExpired
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		// domain.ErrUserNotFound はそのまま404として返す
		return err
	}

	// 新しいトークン発行済み、または使用済みのトークンを拒否
	if user.ResetPasswordToken == nil || *user.ResetPasswordToken != token {
		return ErrLinkExpired
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	if hash := user.PasswordHash(); hash != "" {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(newPassword)) == nil {
			return ErrSamePassword
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashed)
	user.Password = &hash
	user.ResetPasswordToken = nil

	if err := u.users.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	slog.Info("password reset", "user_id", user.ID)
	return nil
}

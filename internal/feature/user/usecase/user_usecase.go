package usecase

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	leadentity "courtier_backend/internal/feature/lead/domain/entity"
	"courtier_backend/internal/feature/user/domain"
	"courtier_backend/internal/feature/user/domain/entity"
)

// leadMailSubject is the subject of the lead-details email.
const leadMailSubject = "Lead Details"

// maxPageSize caps the limit of list queries.
const maxPageSize = 100

//go:embed templates/*.html
var templateFS embed.FS

var leadTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// UserRepository はユーザー管理に必要な永続化操作を抽象化します。
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uint, p entity.ProfileUpdate) error
	ListByRole(ctx context.Context, role entity.Role, offset, limit int) ([]entity.User, int64, error)
	Delete(ctx context.Context, id uint) error
}

// LeadFinder はリード詳細メールの対象リードを取得します。
type LeadFinder interface {
	FindByID(ctx context.Context, id uint) (*leadentity.Lead, error)
}

// LeadCache はキャッシュ済みリードを破棄します。
// キャッシュされたリードは所有ユーザーを含むため、ユーザーの更新・削除後に呼び出します。
type LeadCache interface {
	InvalidateAll(ctx context.Context)
}

// Mailer はHTMLメールの送信を抽象化します。
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// CreateInput is the data for a user created without credentials.
type CreateInput struct {
	Name  string
	Email string
	Phone *string
}

// SendEmailInput selects the lead to mail and the template family.
type SendEmailInput struct {
	Email  string
	Type   leadentity.LeadType
	LeadID uint
}

// Page is one page of users with the total count.
type Page struct {
	Result []entity.User `json:"result"`
	Total  int64         `json:"total"`
}

// leadMail is the data passed to the lead-details templates.
type leadMail struct {
	User     *entity.User
	Lead     *leadentity.Lead
	Cities   []string
	Boroughs []string
}

// userUsecase はユーザー管理のビジネスロジックを実装します。
type userUsecase struct {
	users     UserRepository
	leads     LeadFinder
	leadCache LeadCache
	mailer    Mailer
	inbox     string
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
// leadCache はnilでもよく、その場合はキャッシュ破棄を行いません。
// inbox はリード詳細メールの送信先（送信元アカウント自身）です。
func NewUserUsecase(users UserRepository, leads LeadFinder, leadCache LeadCache, mailer Mailer, inbox string) *userUsecase {
	return &userUsecase{users: users, leads: leads, leadCache: leadCache, mailer: mailer, inbox: inbox}
}

// Create はパスワードなしの USER アカウントを作成します。
// メールアドレスはロールに関係なく一意で、既存の場合は domain.ErrUserAlreadyExists を返します。
func (u *userUsecase) Create(ctx context.Context, in CreateInput) (*entity.User, error) {
	_, err := u.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &entity.User{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Role:  entity.RoleUser,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("user created", "user_id", user.ID)
	return user, nil
}

// GetByEmail returns the user with the given email or domain.ErrUserNotFound.
func (u *userUsecase) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return u.users.FindByEmail(ctx, email)
}

// Get returns the user with the given id or domain.ErrUserNotFound.
func (u *userUsecase) Get(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Update は名前・メールアドレス・電話番号を更新します。ユーザーが存在しない場合は404です。
func (u *userUsecase) Update(ctx context.Context, id uint, p entity.ProfileUpdate) error {
	if _, err := u.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := u.users.UpdateProfile(ctx, id, p); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return err
		}
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	u.dropCachedLeads(ctx)
	return nil
}

// List returns USER accounts page by page. page starts at 1.
func (u *userUsecase) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 || limit < 1 {
		return nil, ErrInvalidPage
	}
	limit = min(limit, maxPageSize)
	users, total, err := u.users.ListByRole(ctx, entity.RoleUser, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return &Page{Result: users, Total: total}, nil
}

// Delete はユーザーを削除します。所有するリードも削除されます。
func (u *userUsecase) Delete(ctx context.Context, id uint) error {
	if err := u.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	u.dropCachedLeads(ctx)
	slog.Info("user deleted", "user_id", id)
	return nil
}

func (u *userUsecase) dropCachedLeads(ctx context.Context) {
	if u.leadCache != nil {
		u.leadCache.InvalidateAll(ctx)
	}
}

// SendLeadEmail はリード詳細をHTMLメールにして運営の受信箱へ送信します。
// テンプレートは種別（buyer/seller）と希望条件の有無で選択されます。
func (u *userUsecase) SendLeadEmail(ctx context.Context, in SendEmailInput) error {
	if !in.Type.Valid() {
		return ErrInvalidEmailType
	}
	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	lead, err := u.leads.FindByID(ctx, in.LeadID)
	if err != nil {
		return err
	}

	html, err := renderLeadMail(user, lead, in.Type)
	if err != nil {
		return err
	}
	if err := u.mailer.Send(ctx, u.inbox, leadMailSubject, html); err != nil {
		return fmt.Errorf("failed to send lead email: %w", err)
	}
	slog.Info("lead email sent", "lead_id", lead.ID, "type", in.Type)
	return nil
}

// leadTemplateName selects one of the four lead-details templates.
func leadTemplateName(t leadentity.LeadType, lead *leadentity.Lead) string {
	name := string(t)
	if lead.Preferences == nil {
		name += "-without-preferences"
	}
	return name
}

func renderLeadMail(user *entity.User, lead *leadentity.Lead, t leadentity.LeadType) (string, error) {
	places, err := lead.Places()
	if err != nil {
		return "", err
	}
	data := leadMail{User: user, Lead: lead}
	for _, p := range places {
		data.Cities = append(data.Cities, p.City)
		data.Boroughs = append(data.Boroughs, strings.Join(p.Boroughs, ", "))
	}

	var b strings.Builder
	if err := leadTemplates.ExecuteTemplate(&b, leadTemplateName(t, lead), data); err != nil {
		return "", fmt.Errorf("failed to render lead email: %w", err)
	}
	return b.String(), nil
}

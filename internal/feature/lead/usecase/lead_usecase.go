package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"courtier_backend/internal/feature/lead/domain"
	"courtier_backend/internal/feature/lead/domain/entity"
	userentity "courtier_backend/internal/feature/user/domain/entity"
	"courtier_backend/internal/platform/storage"
)

// imageFolder is the object key prefix for property images.
const imageFolder = "propertyImages"

// maxPageSize caps the limit of list queries.
const maxPageSize = 100

// LeadRepository はリードの永続化層を抽象化します。
type LeadRepository interface {
	Create(ctx context.Context, l *entity.Lead) error
	// FindByID は所有ユーザーを含めて取得します。存在しない場合 domain.ErrLeadNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Lead, error)
	List(ctx context.Context, offset, limit int) ([]entity.Lead, int64, error)
	Save(ctx context.Context, l *entity.Lead) error
	Delete(ctx context.Context, id uint) error
}

// UserFinder はリードの所有ユーザーの存在確認に使用します。
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
}

// ImageUploader は画像をオブジェクトストレージに保存し、公開URLを返します。
type ImageUploader interface {
	UploadFiles(ctx context.Context, folder string, files []storage.File) ([]string, error)
}

// CreateInput is the data needed to create a lead.
type CreateInput struct {
	UserID               uint
	LeadType             entity.LeadType
	PropertyType         entity.PropertyType
	PropertySaleTime     *string
	PropertyPurchaseTime *string
	Preferences          map[string]any
	Location             json.RawMessage
	Files                []storage.File
}

// PreferencesUpdate is the public update: preferences and timing only. Nil fields are left untouched.
type PreferencesUpdate struct {
	Preferences          map[string]any
	PropertySaleTime     *string
	PropertyPurchaseTime *string
}

// Patch is the administrative update. Nil fields are left untouched.
type Patch struct {
	LeadType             *entity.LeadType
	PropertyType         *entity.PropertyType
	PropertySaleTime     *string
	PropertyPurchaseTime *string
	Preferences          map[string]any
	Location             json.RawMessage
}

// Page is one page of leads with the total count.
type Page struct {
	Result []entity.Lead `json:"result"`
	Total  int64         `json:"total"`
}

// leadUsecase はリード管理のビジネスロジックを実装します。
type leadUsecase struct {
	leads    LeadRepository
	users    UserFinder
	uploader ImageUploader
}

// NewLeadUsecase はleadUsecaseの新しいインスタンスを生成します。
func NewLeadUsecase(leads LeadRepository, users UserFinder, uploader ImageUploader) *leadUsecase {
	return &leadUsecase{leads: leads, users: users, uploader: uploader}
}

// Create はリードを登録します。画像が添付されていればアップロードしてURLを保存します。
func (u *leadUsecase) Create(ctx context.Context, in CreateInput) (*entity.Lead, error) {
	if !in.LeadType.Valid() {
		return nil, ErrInvalidLeadType
	}
	if !in.PropertyType.Valid() {
		return nil, ErrInvalidPropertyType
	}
	if len(in.Files) > MaxImages {
		return nil, ErrTooManyImages
	}
	location, err := normalizeLocation(in.Location)
	if err != nil {
		return nil, err
	}
	// 所有ユーザーが存在しない場合は domain の NotFound をそのまま返す
	if _, err := u.users.FindByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		UserID:               in.UserID,
		LeadType:             in.LeadType,
		PropertyType:         in.PropertyType,
		PropertySaleTime:     in.PropertySaleTime,
		PropertyPurchaseTime: in.PropertyPurchaseTime,
		Preferences:          in.Preferences,
		Location:             location,
	}
	if len(in.Files) > 0 {
		urls, err := u.uploader.UploadFiles(ctx, imageFolder, in.Files)
		if err != nil {
			return nil, fmt.Errorf("failed to upload property images: %w", err)
		}
		lead.PropertyImage = urls
	}

	if err := u.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	slog.Info("lead created", "lead_id", lead.ID, "user_id", lead.UserID, "images", len(lead.PropertyImage))
	return lead, nil
}

// Update は公開フォームからの更新で、希望条件と売買時期のみを変更します。
func (u *leadUsecase) Update(ctx context.Context, id uint, in PreferencesUpdate) error {
	lead, err := u.leads.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if in.Preferences != nil {
		lead.Preferences = in.Preferences
	}
	if in.PropertySaleTime != nil {
		lead.PropertySaleTime = in.PropertySaleTime
	}
	if in.PropertyPurchaseTime != nil {
		lead.PropertyPurchaseTime = in.PropertyPurchaseTime
	}
	return u.save(ctx, lead)
}

// UpdateImages は画像を差し替えます。ファイルがない場合もリード未検出と同じ扱いです。
func (u *leadUsecase) UpdateImages(ctx context.Context, id uint, files []storage.File) error {
	if len(files) > MaxImages {
		return ErrTooManyImages
	}
	lead, err := u.leads.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return domain.ErrLeadNotFound
	}
	urls, err := u.uploader.UploadFiles(ctx, imageFolder, files)
	if err != nil {
		return fmt.Errorf("failed to upload property images: %w", err)
	}
	lead.PropertyImage = urls
	return u.save(ctx, lead)
}

// List returns leads page by page. page starts at 1.
func (u *leadUsecase) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 || limit < 1 {
		return nil, ErrInvalidPage
	}
	limit = min(limit, maxPageSize)
	leads, total, err := u.leads.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return &Page{Result: leads, Total: total}, nil
}

// Get returns one lead with its owner.
func (u *leadUsecase) Get(ctx context.Context, id uint) (*entity.Lead, error) {
	return u.leads.FindByID(ctx, id)
}

// AdminUpdate applies a partial update to any lead field except images and owner.
func (u *leadUsecase) AdminUpdate(ctx context.Context, id uint, p Patch) error {
	lead, err := u.leads.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.LeadType != nil {
		if !p.LeadType.Valid() {
			return ErrInvalidLeadType
		}
		lead.LeadType = *p.LeadType
	}
	if p.PropertyType != nil {
		if !p.PropertyType.Valid() {
			return ErrInvalidPropertyType
		}
		lead.PropertyType = *p.PropertyType
	}
	if p.PropertySaleTime != nil {
		lead.PropertySaleTime = p.PropertySaleTime
	}
	if p.PropertyPurchaseTime != nil {
		lead.PropertyPurchaseTime = p.PropertyPurchaseTime
	}
	if p.Preferences != nil {
		lead.Preferences = p.Preferences
	}
	if len(p.Location) > 0 {
		loc, err := normalizeLocation(p.Location)
		if err != nil {
			return err
		}
		lead.Location = loc
	}
	return u.save(ctx, lead)
}

// Delete removes a lead.
func (u *leadUsecase) Delete(ctx context.Context, id uint) error {
	return u.leads.Delete(ctx, id)
}

func (u *leadUsecase) save(ctx context.Context, lead *entity.Lead) error {
	if err := u.leads.Save(ctx, lead); err != nil {
		return fmt.Errorf("failed to update lead %d: %w", lead.ID, err)
	}
	return nil
}

// normalizeLocation validates raw as a list of places and returns its JSON text.
// A JSON string containing the list is accepted as well, as multipart forms send it that way.
func normalizeLocation(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		raw = json.RawMessage(inner)
	}
	var places []entity.Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, ErrInvalidLocation
	}
	s := string(raw)
	return &s, nil
}

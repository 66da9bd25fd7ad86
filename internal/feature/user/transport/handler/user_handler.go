// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	leadentity "courtier_backend/internal/feature/lead/domain/entity"
	"courtier_backend/internal/feature/user/domain/entity"
	"courtier_backend/internal/feature/user/transport/http/dto"
	"courtier_backend/internal/feature/user/usecase"
	httpx "courtier_backend/internal/platform/http"
)

// UserUsecase はユーザー管理のユースケースを定義します。
type UserUsecase interface {
	Create(ctx context.Context, in usecase.CreateInput) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	Update(ctx context.Context, id uint, p entity.ProfileUpdate) error
	List(ctx context.Context, page, limit int) (*usecase.Page, error)
	Delete(ctx context.Context, id uint) error
	SendLeadEmail(ctx context.Context, in usecase.SendEmailInput) error
}

// UserHandler はユーザー管理のHTTPリクエストを処理します。
type UserHandler struct {
	uc UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create はPOST /user/createとPOST /user/admin/addUserを処理します。
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	user, err := h.uc.Create(c.Request.Context(), usecase.CreateInput{Name: req.Name, Email: req.Email, Phone: req.Phone})
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusCreated, "User created successfully", user)
}

// GetByEmail はGET /user/getUserByEmail/:emailを処理します。
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.uc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "User fetched successfully", user)
}

// Update はPUT /user/update/:idを処理します。名前・メール・電話番号をまとめて更新します。
func (h *UserHandler) Update(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	if err := h.uc.Update(c.Request.Context(), id, req.Profile()); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "User updated successfully", nil)
}

// SendEmail はPOST /user/sendEmailを処理します。
func (h *UserHandler) SendEmail(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	err := h.uc.SendLeadEmail(c.Request.Context(), usecase.SendEmailInput{
		Email:  req.Email,
		Type:   leadentity.LeadType(req.Type),
		LeadID: req.LeadID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Email sent successfully", nil)
}

// List はPOST /user/admin/getAllUserを処理します。
func (h *UserHandler) List(c *gin.Context) {
	var req httpx.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	page, err := h.uc.List(c.Request.Context(), req.Page, req.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Users fetched successfully", page)
}

// FindOne はGET /user/admin/findOne/:idを処理します。
func (h *UserHandler) FindOne(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	user, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "User fetched successfully", user)
}

// AdminUpdate はPUT /user/admin/updateUser/:idを処理します。指定されたフィールドのみ更新します。
func (h *UserHandler) AdminUpdate(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	if err := h.uc.Update(c.Request.Context(), id, req.Profile()); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "User updated successfully", nil)
}

// Delete はDELETE /user/admin/delete/:idを処理します。
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "User deleted successfully", nil)
}

// Package handler はleadフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"courtier_backend/internal/feature/lead/domain/entity"
	"courtier_backend/internal/feature/lead/transport/http/dto"
	"courtier_backend/internal/feature/lead/usecase"
	httpx "courtier_backend/internal/platform/http"
	"courtier_backend/internal/platform/storage"
)

// filesField is the multipart field carrying property images.
const filesField = "files"

// LeadUsecase はリード管理のユースケースを定義します。
type LeadUsecase interface {
	Create(ctx context.Context, in usecase.CreateInput) (*entity.Lead, error)
	Update(ctx context.Context, id uint, in usecase.PreferencesUpdate) error
	UpdateImages(ctx context.Context, id uint, files []storage.File) error
	List(ctx context.Context, page, limit int) (*usecase.Page, error)
	Get(ctx context.Context, id uint) (*entity.Lead, error)
	AdminUpdate(ctx context.Context, id uint, p usecase.Patch) error
	Delete(ctx context.Context, id uint) error
}

// LeadHandler はリード管理のHTTPリクエストを処理します。
type LeadHandler struct {
	uc LeadUsecase
}

// NewLeadHandler はLeadHandlerの新しいインスタンスを生成します。
func NewLeadHandler(uc LeadUsecase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// Create はPOST /lead/createを処理します。multipart/form-dataで最大10枚の画像を受け付けます。
func (h *LeadHandler) Create(c *gin.Context) {
	var req dto.CreateLeadRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	in, err := req.Input()
	if err != nil {
		_ = c.Error(err)
		return
	}
	if in.Files, err = readFiles(c); err != nil {
		_ = c.Error(err)
		return
	}
	lead, err := h.uc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusCreated, "Lead created successfully", lead)
}

// Update はPUT /lead/update/:idを処理します。
func (h *LeadHandler) Update(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req dto.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	if err := h.uc.Update(c.Request.Context(), id, req.Update()); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Lead updated successfully", nil)
}

// UpdateImage はPUT /lead/updateImage/:idを処理します。
func (h *LeadHandler) UpdateImage(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	files, err := readFiles(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.uc.UpdateImages(c.Request.Context(), id, files); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Lead updated successfully", nil)
}

// List はPOST /lead/admin/getAllLeadを処理します。
func (h *LeadHandler) List(c *gin.Context) {
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
	httpx.JSON(c, http.StatusOK, "Leads fetched successfully", page)
}

// Get はPOST /lead/admin/getLead/:idを処理します。
func (h *LeadHandler) Get(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	lead, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Lead fetched successfully", lead)
}

// AdminUpdate はPUT /lead/admin/updateLead/:idを処理します。
func (h *LeadHandler) AdminUpdate(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req dto.AdminUpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httpx.BindError(err))
		return
	}
	if err := h.uc.AdminUpdate(c.Request.Context(), id, req.Patch()); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Lead updated successfully", nil)
}

// Delete はDELETE /lead/admin/deleteLead/:idを処理します。
func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	httpx.JSON(c, http.StatusOK, "Lead deleted successfully", nil)
}

// readFiles は multipart の files フィールドを読み込みます。multipart でないリクエストはファイルなしとして扱います。
func readFiles(c *gin.Context) ([]storage.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, httpx.BindError(err)
	}
	headers := form.File[filesField]
	if len(headers) > usecase.MaxImages {
		return nil, usecase.ErrTooManyImages
	}

	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
		}
		body, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %q: %w", fh.Filename, err)
		}
		files = append(files, storage.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        body,
		})
	}
	return files, nil
}

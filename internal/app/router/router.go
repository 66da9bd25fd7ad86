package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "courtier_backend/internal/feature/auth/transport/handler"
	chatbothandler "courtier_backend/internal/feature/chatbot/transport/handler"
	leadhandler "courtier_backend/internal/feature/lead/transport/handler"
	"courtier_backend/internal/feature/user/domain/entity"
	userhandler "courtier_backend/internal/feature/user/transport/handler"
	httpx "courtier_backend/internal/platform/http"
	"courtier_backend/internal/platform/http/handler"
	jwtmw "courtier_backend/internal/platform/jwt"
)

// Handlers groups the feature handlers mounted by NewRouter.
type Handlers struct {
	Auth    *authhandler.AuthHandler
	User    *userhandler.UserHandler
	Lead    *leadhandler.LeadHandler
	Chatbot *chatbothandler.ChatbotHandler
}

// Guard holds what the bearer-token middleware needs.
type Guard struct {
	Tokens jwtmw.TokenParser
	Users  jwtmw.UserFinder
}

func NewRouter(h Handlers, guard Guard, checks ...handler.Check) *gin.Engine {
	r := gin.Default()
	r.Use(httpx.ErrorHandler(), httpx.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(checks...))

	// 管理者専用ルート: トークン検証 → ロール確認
	adminOnly := []gin.HandlerFunc{
		jwtmw.AuthRequired(guard.Tokens, guard.Users),
		jwtmw.RequireRole(entity.RoleAdmin),
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/password-reset/:token", h.Auth.ResetPassword)
	}

	user := r.Group("/user")
	{
		user.POST("/create", h.User.Create)
		user.GET("/getUserByEmail/:email", h.User.GetByEmail)
		user.PUT("/update/:id", h.User.Update)
		user.POST("/sendEmail", h.User.SendEmail)
		user.POST("/chatbot", h.Chatbot.Ask)

		admin := user.Group("/admin", adminOnly...)
		admin.POST("/addUser", h.User.Create)
		admin.POST("/getAllUser", h.User.List)
		admin.GET("/findOne/:id", h.User.FindOne)
		admin.PUT("/updateUser/:id", h.User.AdminUpdate)
		admin.DELETE("/delete/:id", h.User.Delete)
	}

	lead := r.Group("/lead")
	{
		lead.POST("/create", h.Lead.Create)
		lead.PUT("/update/:id", h.Lead.Update)
		lead.PUT("/updateImage/:id", h.Lead.UpdateImage)

		admin := lead.Group("/admin", adminOnly...)
		admin.POST("/getAllLead", h.Lead.List)
		admin.POST("/getLead/:id", h.Lead.Get)
		admin.PUT("/updateLead/:id", h.Lead.AdminUpdate)
		admin.DELETE("/deleteLead/:id", h.Lead.Delete)
	}

	return r
}

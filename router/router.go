package router

import (
	"log"

	"accesscontrol/config"
	"accesscontrol/controllers"
	"accesscontrol/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize amarra rotas e middlewares: rotas públicas, rotas autenticadas
// e rotas administrativas (Adminizer).
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/login", Logger(), controllers.Login)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	auth.GET("/me", Logger(), controllers.Me)

	// Solicitações de acesso (usuário)
	auth.POST("/requests", Logger(), controllers.CreateAccessRequest)
	auth.GET("/requests", Logger(), controllers.GetAccessRequests)
	auth.GET("/requests/filter", Logger(), controllers.FilterAccessRequests)
	auth.GET("/requests/:id", Logger(), controllers.GetAccessRequestByID)
	auth.POST("/requests/:id/cancel", Logger(), controllers.CancelAccessRequest)
	auth.POST("/requests/:id/renew", Logger(), controllers.RenewAccessRequest)

	// Acessos (usuário)
	auth.GET("/accesses/user", Logger(), controllers.GetAccessesForUser)
	auth.POST("/accesses/:id/renew", Logger(), controllers.RenewAccess)

	// Catálogo de módulos (leitura autenticada)
	auth.GET("/modules", Logger(), controllers.GetModules)
	auth.GET("/modules/:id", Logger(), controllers.GetModuleByID)

	// Admin routes
	admin := auth.Group("")
	admin.Use(Adminizer())

	// Users CRUD (admin)
	admin.POST("/users", Logger(), controllers.CreateUser)
	admin.GET("/users", Logger(), controllers.GetUsers)
	admin.GET("/users/:id", Logger(), controllers.GetUserByID)
	admin.DELETE("/users/:id", Logger(), controllers.DeleteUser)

	// Modules CRUD (admin)
	admin.POST("/modules", Logger(), controllers.CreateModule)
	admin.PUT("/modules/:id", Logger(), controllers.UpdateModule)
	admin.DELETE("/modules/:id", Logger(), controllers.DeleteModule)

	// Incompatibilidades módulo <-> módulo (admin)
	admin.POST("/module-incompatibilities", Logger(), controllers.AddIncompatibility)
	admin.DELETE("/module-incompatibilities", Logger(), controllers.RemoveIncompatibility)

	// Acessos e solicitações (admin)
	admin.GET("/accesses", Logger(), controllers.GetAccesses)
	admin.GET("/accesses/:id", Logger(), controllers.GetAccessByID)
	admin.DELETE("/accesses/:id", Logger(), controllers.RevokeAccess)
	admin.DELETE("/requests/:id", Logger(), controllers.DeleteAccessRequest)

	log.Printf("Routes initialized")
}

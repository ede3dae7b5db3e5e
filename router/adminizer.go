package router

import (
	"net/http"

	"accesscontrol/controllers"
	"accesscontrol/models"

	"github.com/gin-gonic/gin"
)

// Adminizer barra rotas administrativas para quem não é de TI.
// TI é o departamento privilegiado do sistema.
func Adminizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if user.Department != models.DEPARTMENT_TI {
			controllers.RespondError(c, "acesso restrito à TI", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

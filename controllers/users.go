package controllers

import (
	"net/http"

	dbpkg "accesscontrol/db"
	"accesscontrol/models"
	"accesscontrol/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/users (admin)
func CreateUser(c *gin.Context) {
	var user models.User
	if err := c.Bind(&user); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if missing := user.MissingFields(); missing != "" {
		RespondError(c, missing+" é obrigatório", http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "email inválido", http.StatusBadRequest)
		return
	}
	if !models.IsDepartmentValid(user.Department) {
		RespondError(c, "department inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	user.Password = tools.EncodePassword(user.Email, user.Password)
	if err := db.Create(&user).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// GET /api/users (admin)
func GetUsers(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var users []models.User
	if err := db.Order("id asc").Find(&users).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	RespondSuccess(c, gin.H{"users": users})
}

// GET /api/users/:id (admin)
func GetUserByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}
	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// DELETE /api/users/:id (admin)
func DeleteUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if err := db.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

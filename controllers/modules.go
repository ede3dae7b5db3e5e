package controllers

import (
	"net/http"

	dbpkg "accesscontrol/db"
	"accesscontrol/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type ModulePayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Active      *bool    `json:"active"`
	Departments []string `json:"departments"`
}

type IncompatibilityPayload struct {
	ModuleID       int64 `json:"module_id"`
	IncompatibleID int64 `json:"incompatible_id"`
}

// moduleView devolve o módulo com os conjuntos que o acompanham.
type moduleView struct {
	models.Module
	Departments  []string `json:"departments"`
	Incompatible []string `json:"incompatible_modules"`
}

func toModuleView(db *gorm.DB, module models.Module) (moduleView, error) {
	view := moduleView{Module: module, Departments: []string{}, Incompatible: []string{}}

	var departments []models.ModuleDepartment
	if err := db.Where("module_id = ?", module.ID).Find(&departments).Error; err != nil {
		return view, err
	}
	for _, md := range departments {
		view.Departments = append(view.Departments, md.Department)
	}

	// incompatibilidade é simétrica: junta as duas direções
	var pairs []models.ModuleIncompatibility
	err := db.Where("module_id = ? OR incompatible_id = ?", module.ID, module.ID).Find(&pairs).Error
	if err != nil {
		return view, err
	}
	for _, pair := range pairs {
		otherID := pair.IncompatibleID
		if otherID == module.ID {
			otherID = pair.ModuleID
		}
		var other models.Module
		if err := db.First(&other, otherID).Error; err != nil {
			return view, err
		}
		view.Incompatible = append(view.Incompatible, other.Name)
	}
	return view, nil
}

// GET /api/modules
func GetModules(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var modules []models.Module
	if err := db.Order("id asc").Find(&modules).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	views := make([]moduleView, 0, len(modules))
	for _, module := range modules {
		view, err := toModuleView(db, module)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		views = append(views, view)
	}
	RespondSuccess(c, gin.H{"modules": views})
}

// GET /api/modules/:id
func GetModuleByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var module models.Module
	if err := db.First(&module, id).Error; err != nil {
		RespondError(c, "módulo não encontrado", http.StatusNotFound)
		return
	}
	view, err := toModuleView(db, module)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"module": view})
}

// POST /api/modules (admin)
func CreateModule(c *gin.Context) {
	var payload ModulePayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Name == "" {
		RespondError(c, "name é obrigatório", http.StatusBadRequest)
		return
	}
	for _, department := range payload.Departments {
		if !models.IsDepartmentValid(department) {
			RespondError(c, "department inválido: "+department, http.StatusBadRequest)
			return
		}
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	module := models.Module{Name: payload.Name, Description: payload.Description, Active: true}
	if payload.Active != nil {
		module.Active = *payload.Active
	}
	if err := db.Create(&module).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for _, department := range payload.Departments {
		md := models.ModuleDepartment{ModuleID: module.ID, Department: department}
		if err := db.Create(&md).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	view, err := toModuleView(db, module)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"module": view})
}

// PUT /api/modules/:id (admin)
func UpdateModule(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var payload ModulePayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var module models.Module
	if err := db.First(&module, id).Error; err != nil {
		RespondError(c, "módulo não encontrado", http.StatusNotFound)
		return
	}

	// o nome é identidade imutável; só descrição, ativo e departamentos mudam
	module.Description = payload.Description
	if payload.Active != nil {
		module.Active = *payload.Active
	}
	if err := db.Save(&module).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if payload.Departments != nil {
		for _, department := range payload.Departments {
			if !models.IsDepartmentValid(department) {
				RespondError(c, "department inválido: "+department, http.StatusBadRequest)
				return
			}
		}
		if err := db.Delete(&models.ModuleDepartment{}, "module_id = ?", module.ID).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		for _, department := range payload.Departments {
			md := models.ModuleDepartment{ModuleID: module.ID, Department: department}
			if err := db.Create(&md).Error; err != nil {
				RespondError(c, err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	view, err := toModuleView(db, module)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"module": view})
}

// DELETE /api/modules/:id (admin)
func DeleteModule(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if err := db.Delete(&models.Module{}, "id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := db.Delete(&models.ModuleDepartment{}, "module_id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := db.Delete(&models.ModuleIncompatibility{}, "module_id = ? OR incompatible_id = ?", id, id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

// POST /api/module-incompatibilities (admin)
func AddIncompatibility(c *gin.Context) {
	var payload IncompatibilityPayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.ModuleID <= 0 || payload.IncompatibleID <= 0 || payload.ModuleID == payload.IncompatibleID {
		RespondError(c, "module_id e incompatible_id são obrigatórios e distintos", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.First(&models.Module{}, payload.ModuleID).Error; err != nil {
		RespondError(c, "módulo não encontrado", http.StatusNotFound)
		return
	}
	if err := db.First(&models.Module{}, payload.IncompatibleID).Error; err != nil {
		RespondError(c, "módulo não encontrado", http.StatusNotFound)
		return
	}

	var existing models.ModuleIncompatibility
	err := db.
		Where("(module_id = ? AND incompatible_id = ?) OR (module_id = ? AND incompatible_id = ?)",
			payload.ModuleID, payload.IncompatibleID, payload.IncompatibleID, payload.ModuleID).
		First(&existing).Error
	if err == nil {
		RespondSuccess(c, gin.H{"status": "already_linked"})
		return
	}

	link := models.ModuleIncompatibility{
		ModuleID:       payload.ModuleID,
		IncompatibleID: payload.IncompatibleID,
	}
	if err := db.Create(&link).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "linked", "link": link})
}

// DELETE /api/module-incompatibilities (admin)
func RemoveIncompatibility(c *gin.Context) {
	var payload IncompatibilityPayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.ModuleID <= 0 || payload.IncompatibleID <= 0 {
		RespondError(c, "module_id e incompatible_id são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	err := db.
		Delete(&models.ModuleIncompatibility{},
			"(module_id = ? AND incompatible_id = ?) OR (module_id = ? AND incompatible_id = ?)",
			payload.ModuleID, payload.IncompatibleID, payload.IncompatibleID, payload.ModuleID).
		Error
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "unlinked"})
}

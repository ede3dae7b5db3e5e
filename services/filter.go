package services

import (
	"strings"
	"time"

	"accesscontrol/models"

	"github.com/jinzhu/gorm"
)

const FILTER_DEFAULT_PER_PAGE = 20
const FILTER_MAX_PER_PAGE = 100

// RequestFilter é a combinação opcional de filtros da listagem paginada.
// O escopo é sempre o usuário chamador; não há busca global.
type RequestFilter struct {
	Search    string     // protocolo ou nome de módulo, substring sem caixa
	Status    string     // ACTIVE | DENIED | CANCELED
	Urgent    *bool      //
	StartDate *time.Time // início do intervalo de criação (inclusivo)
	EndDate   *time.Time // fim do intervalo (dia inteiro, inclusivo)
	Page      int        // começa em 1
	PerPage   int
}

// FilterRequests devolve uma página das solicitações do usuário, mais o total
// de registros que casam com o filtro. Ordenação fixa: mais recentes antes.
func FilterRequests(db *gorm.DB, userID int64, filter RequestFilter) ([]models.AccessRequest, int, error) {
	query := db.Model(&models.AccessRequest{}).Where("user_id = ?", userID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(protocol) LIKE ? OR id IN ("+
				"SELECT access_request_modules.access_request_id FROM access_request_modules "+
				"JOIN modules ON modules.id = access_request_modules.module_id "+
				"WHERE LOWER(modules.name) LIKE ?)",
			like, like,
		)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Urgent != nil {
		query = query.Where("urgent = ?", *filter.Urgent)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// dia final inclusivo: tudo antes do início do dia seguinte
		query = query.Where("created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}

	var total int
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = FILTER_DEFAULT_PER_PAGE
	}
	if perPage > FILTER_MAX_PER_PAGE {
		perPage = FILTER_MAX_PER_PAGE
	}

	var requests []models.AccessRequest
	err := query.
		Order("created_at desc, id desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

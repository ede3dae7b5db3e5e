package services

import (
	"fmt"
	"strings"
	"time"

	"accesscontrol/models"
	"accesscontrol/rules"

	"github.com/jinzhu/gorm"
)

const CANCEL_REASON_MIN_LEN = 10
const CANCEL_REASON_MAX_LEN = 200

// CreateRequest cria uma solicitação de acesso e a avalia de forma síncrona
// e terminal: o resultado é ACTIVE (com acessos concedidos) ou DENIED (sem
// acesso, mas persistida do mesmo jeito — negação é registro permanente).
func CreateRequest(db *gorm.DB, userID int64, moduleIDs []int64, justification string, urgent bool) (*models.AccessRequest, error) {
	now := time.Now()

	ids := dedupeIDs(moduleIDs)
	if len(ids) < models.REQUEST_MIN_MODULES || len(ids) > models.REQUEST_MAX_MODULES {
		return nil, fmt.Errorf("%w: a solicitação deve ter entre %d e %d módulos",
			ErrValidation, models.REQUEST_MIN_MODULES, models.REQUEST_MAX_MODULES)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	request, err := evaluateRequestTx(tx, userID, ids, justification, urgent, nil, false, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return request, nil
}

// CancelRequest cancela uma solicitação ACTIVE do próprio usuário, revoga os
// acessos dos módulos dela e registra a ação no histórico.
func CancelRequest(db *gorm.DB, requestID, callerUserID int64, reason string) (*models.AccessRequest, error) {
	now := time.Now()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var request models.AccessRequest
	err := tx.Where("id = ? AND user_id = ?", requestID, callerUserID).First(&request).Error
	if err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: solicitação", ErrNotFound)
		}
		return nil, err
	}

	if request.Status != models.REQUEST_STATUS_ACTIVE {
		tx.Rollback()
		return nil, fmt.Errorf("%w: apenas solicitações ativas podem ser canceladas", ErrInvalidState)
	}

	trimmed := strings.TrimSpace(reason)
	if len(trimmed) < CANCEL_REASON_MIN_LEN || len(trimmed) > CANCEL_REASON_MAX_LEN {
		tx.Rollback()
		return nil, fmt.Errorf("%w: o motivo do cancelamento deve ter entre %d e %d caracteres",
			ErrValidation, CANCEL_REASON_MIN_LEN, CANCEL_REASON_MAX_LEN)
	}

	request.Status = models.REQUEST_STATUS_CANCELED
	request.DeniedReason = &trimmed
	request.ExpiresAt = nil
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Revogação em cascata: remove os acessos do usuário para os módulos da
	// solicitação cancelada.
	var links []models.AccessRequestModule
	if err := tx.Where("access_request_id = ?", request.ID).Find(&links).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, link := range links {
		err := tx.Delete(&models.Access{}, "user_id = ? AND module_id = ?", request.UserID, link.ModuleID).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := appendHistory(tx, request.ID, models.HISTORY_ACTION_CANCELED, trimmed, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// RenewRequest cria uma NOVA solicitação ligada à original (origin_request_id)
// e reavalia a cadeia de regras contra o estado atual. A original nunca é
// alterada; na aprovação os acessos dos módulos passam a vencer em now+180d.
func RenewRequest(db *gorm.DB, requestID int64) (*models.AccessRequest, error) {
	now := time.Now()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var origin models.AccessRequest
	if err := tx.First(&origin, requestID).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: solicitação", ErrNotFound)
		}
		return nil, err
	}

	if origin.Status != models.REQUEST_STATUS_ACTIVE {
		tx.Rollback()
		return nil, fmt.Errorf("%w: apenas solicitações ativas podem ser renovadas", ErrInvalidState)
	}

	// Janela de renovação: permitida apenas quando faltam 30 dias ou menos.
	window := now.AddDate(0, 0, models.REQUEST_RENEW_WINDOW_DAYS)
	if origin.ExpiresAt == nil || origin.ExpiresAt.After(window) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: renovação só é permitida a até %d dias do vencimento",
			ErrInvalidState, models.REQUEST_RENEW_WINDOW_DAYS)
	}

	var links []models.AccessRequestModule
	if err := tx.Where("access_request_id = ?", origin.ID).Find(&links).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	moduleIDs := make([]int64, 0, len(links))
	for _, link := range links {
		moduleIDs = append(moduleIDs, link.ModuleID)
	}

	justification := "Renovação automática da solicitação " + origin.Protocol
	request, err := evaluateRequestTx(tx, origin.UserID, moduleIDs, justification, false, &origin.ID, true, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindRequest busca uma solicitação do próprio usuário. Posse falha como
// não-encontrado de propósito, para não vazar existência.
func FindRequest(db *gorm.DB, requestID, callerUserID int64) (*models.AccessRequest, error) {
	var request models.AccessRequest
	err := db.Where("id = ? AND user_id = ?", requestID, callerUserID).First(&request).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: solicitação", ErrNotFound)
		}
		return nil, err
	}
	return &request, nil
}

func ListRequestsByUser(db *gorm.DB, userID int64) ([]models.AccessRequest, error) {
	if err := db.First(&models.User{}, userID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: usuário", ErrNotFound)
		}
		return nil, err
	}
	var requests []models.AccessRequest
	err := db.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// DeleteRequest remove a solicitação em definitivo (ação administrativa).
// Não mexe em acessos concedidos.
func DeleteRequest(db *gorm.DB, requestID int64) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var request models.AccessRequest
	if err := tx.First(&request, requestID).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("%w: solicitação", ErrNotFound)
		}
		return err
	}

	if err := tx.Delete(&models.AccessRequestModule{}, "access_request_id = ?", request.ID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.RequestHistory{}, "access_request_id = ?", request.ID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&request).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// RequestHistoryOf devolve o histórico da solicitação em ordem cronológica.
func RequestHistoryOf(db *gorm.DB, requestID int64) ([]models.RequestHistory, error) {
	var history []models.RequestHistory
	err := db.Where("access_request_id = ?", requestID).Order("timestamp asc, id asc").Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// RequestModulesOf devolve os módulos pedidos por uma solicitação.
func RequestModulesOf(db *gorm.DB, requestID int64) ([]models.Module, error) {
	var links []models.AccessRequestModule
	if err := db.Where("access_request_id = ?", requestID).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []models.Module{}, nil
	}
	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ModuleID)
	}
	var modules []models.Module
	if err := db.Where("id in (?)", ids).Order("id asc").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// evaluateRequestTx é o miolo compartilhado entre criação e renovações:
// carrega usuário e módulos, roda a cadeia de regras, gera o protocolo e
// persiste a solicitação com o desfecho (ACTIVE ou DENIED).
//
// renewal=true muda o efeito colateral da aprovação: em vez de criar acessos
// novos, estende os existentes para now+180d e registra RENEWED no histórico.
// Nesse modo o alvo da renovação sai do contexto das regras de duplicidade,
// senão toda renovação seria negada pelo próprio objeto renovado.
func evaluateRequestTx(tx *gorm.DB, userID int64, moduleIDs []int64, justification string, urgent bool, originID *int64, renewal bool, now time.Time) (*models.AccessRequest, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: usuário", ErrNotFound)
		}
		return nil, err
	}

	modules, err := loadModules(tx, moduleIDs)
	if err != nil {
		return nil, err
	}

	ctx, err := loadRuleContext(tx, user, modules, justification, urgent, now)
	if err != nil {
		return nil, err
	}
	if renewal {
		pruneRenewalSubject(ctx, moduleIDs)
	}

	// O protocolo é gerado para toda solicitação, aprovada ou não.
	protocol, err := NextProtocol(tx, now)
	if err != nil {
		return nil, err
	}

	result := rules.Evaluate(rules.Chain(), ctx)

	request := models.AccessRequest{
		UserID:          userID,
		Justification:   justification,
		Urgent:          urgent,
		Protocol:        protocol,
		CreatedAt:       now,
		OriginRequestID: originID,
	}

	if result.OK {
		expiresAt := now.AddDate(0, 0, models.REQUEST_VALIDITY_DAYS)
		request.Status = models.REQUEST_STATUS_ACTIVE
		request.ExpiresAt = &expiresAt
	} else {
		reason := result.Reason
		request.Status = models.REQUEST_STATUS_DENIED
		request.DeniedReason = &reason
	}

	if err := tx.Create(&request).Error; err != nil {
		return nil, err
	}
	for _, module := range modules {
		link := models.AccessRequestModule{AccessRequestID: request.ID, ModuleID: module.ID}
		if err := tx.Create(&link).Error; err != nil {
			return nil, err
		}
	}

	if !result.OK {
		return &request, nil
	}

	expiresAt := now.AddDate(0, 0, models.REQUEST_VALIDITY_DAYS)
	if renewal {
		for _, module := range modules {
			if err := extendAccess(tx, userID, module.ID, now, expiresAt); err != nil {
				return nil, err
			}
		}
		description := "Renovação do acesso"
		if err := appendHistory(tx, request.ID, models.HISTORY_ACTION_RENEWED, description, now); err != nil {
			return nil, err
		}
	} else {
		for _, module := range modules {
			access := models.Access{
				UserID:    userID,
				ModuleID:  module.ID,
				GrantedAt: now,
				ExpiresAt: expiresAt,
			}
			if err := tx.Create(&access).Error; err != nil {
				return nil, err
			}
		}
	}

	return &request, nil
}

// loadModules carrega os módulos pedidos; qualquer id desconhecido aborta
// com não-encontrado antes de qualquer escrita.
func loadModules(tx *gorm.DB, moduleIDs []int64) ([]models.Module, error) {
	modules := make([]models.Module, 0, len(moduleIDs))
	for _, id := range moduleIDs {
		var module models.Module
		if err := tx.First(&module, id).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return nil, fmt.Errorf("%w: módulo %d", ErrNotFound, id)
			}
			return nil, err
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// pruneRenewalSubject tira do contexto o próprio objeto da renovação: os
// acessos e a cobertura de solicitação ativa dos módulos renovados.
func pruneRenewalSubject(ctx *rules.Context, moduleIDs []int64) {
	renewed := map[int64]bool{}
	for _, id := range moduleIDs {
		renewed[id] = true
		delete(ctx.ActiveRequestModules, id)
	}

	kept := ctx.Accesses[:0]
	for _, access := range ctx.Accesses {
		if !renewed[access.ModuleID] {
			kept = append(kept, access)
		}
	}
	ctx.Accesses = kept
}

// extendAccess move o vencimento do acesso para expiresAt (contado de agora,
// não do vencimento antigo). Se o acesso não existe mais, recria.
func extendAccess(tx *gorm.DB, userID, moduleID int64, now, expiresAt time.Time) error {
	var access models.Access
	err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&access).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			access = models.Access{UserID: userID, ModuleID: moduleID, GrantedAt: now, ExpiresAt: expiresAt}
			return tx.Create(&access).Error
		}
		return err
	}
	access.ExpiresAt = expiresAt
	return tx.Save(&access).Error
}

func appendHistory(tx *gorm.DB, requestID int64, action, description string, now time.Time) error {
	entry := models.RequestHistory{
		AccessRequestID: requestID,
		Action:          action,
		Description:     description,
		Timestamp:       now,
	}
	return tx.Create(&entry).Error
}

func dedupeIDs(ids []int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

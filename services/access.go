package services

import (
	"fmt"
	"time"

	"accesscontrol/models"

	"github.com/jinzhu/gorm"
)

// RevokeAccess remove o acesso em definitivo (ação administrativa, sem fluxo
// de aprovação) e devolve o último estado conhecido para confirmação.
func RevokeAccess(db *gorm.DB, accessID int64) (*models.Access, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var access models.Access
	if err := tx.First(&access, accessID).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: acesso", ErrNotFound)
		}
		return nil, err
	}

	if err := tx.Delete(&access).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &access, nil
}

// RenewAccess renova um único acesso do próprio usuário: sintetiza uma
// solicitação de um módulo só, reavalia a cadeia de regras e, na aprovação,
// estende o vencimento para now+180d com registro RENEWED no histórico. Na
// negação o acesso fica intocado e a solicitação DENIED permanece como trilha
// de auditoria da tentativa.
func RenewAccess(db *gorm.DB, accessID, callerUserID int64) (*models.Access, error) {
	now := time.Now()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var access models.Access
	err := tx.Where("id = ? AND user_id = ?", accessID, callerUserID).First(&access).Error
	if err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: acesso", ErrNotFound)
		}
		return nil, err
	}

	if !access.ActiveAt(now) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: apenas acessos ativos podem ser renovados", ErrInvalidState)
	}

	window := now.AddDate(0, 0, models.REQUEST_RENEW_WINDOW_DAYS)
	if access.ExpiresAt.After(window) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: renovação só é permitida a até %d dias do vencimento",
			ErrInvalidState, models.REQUEST_RENEW_WINDOW_DAYS)
	}

	var module models.Module
	if err := tx.First(&module, access.ModuleID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	justification := "Renovação automática do módulo " + module.Name
	_, err = evaluateRequestTx(tx, access.UserID, []int64{access.ModuleID}, justification, false, nil, true, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Relê dentro da transação: na aprovação o vencimento já foi movido.
	if err := tx.First(&access, accessID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &access, nil
}

func FindAccess(db *gorm.DB, accessID int64) (*models.Access, error) {
	var access models.Access
	if err := db.First(&access, accessID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: acesso", ErrNotFound)
		}
		return nil, err
	}
	return &access, nil
}

func ListAccessByUser(db *gorm.DB, userID int64) ([]models.Access, error) {
	if err := db.First(&models.User{}, userID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: usuário", ErrNotFound)
		}
		return nil, err
	}
	var accesses []models.Access
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&accesses).Error; err != nil {
		return nil, err
	}
	return accesses, nil
}

func ListAllAccess(db *gorm.DB) ([]models.Access, error) {
	var accesses []models.Access
	if err := db.Order("id asc").Find(&accesses).Error; err != nil {
		return nil, err
	}
	return accesses, nil
}

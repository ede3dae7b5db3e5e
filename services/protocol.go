package services

import (
	"fmt"
	"time"

	"accesscontrol/models"

	"github.com/jinzhu/gorm"
)

const PROTOCOL_DATE_FORMAT = "20060102"

// NextProtocol gera o próximo protocolo do dia, no formato SOL-<yyyyMMdd>-NNNN.
// Deve rodar dentro da transação da operação chamadora. O incremento é um
// UPDATE único (atômico para chamadores concorrentes); quando a linha do dia
// ainda não existe, tentamos inserir e, se outro chamador inseriu antes
// (conflito na chave date_key), caímos de volta no UPDATE.
func NextProtocol(tx *gorm.DB, now time.Time) (string, error) {
	dateKey := now.Format(PROTOCOL_DATE_FORMAT)

	counter, err := incrementCounter(tx, dateKey)
	if err != nil {
		return "", err
	}
	if counter == 0 {
		seq := models.ProtocolSequence{DateKey: dateKey, Counter: 1}
		if err := tx.Create(&seq).Error; err != nil {
			// outro chamador criou a linha do dia primeiro
			counter, err = incrementCounter(tx, dateKey)
			if err != nil {
				return "", err
			}
			if counter == 0 {
				return "", fmt.Errorf("sequência de protocolo indisponível para %s", dateKey)
			}
		} else {
			counter = 1
		}
	}

	return fmt.Sprintf("SOL-%s-%04d", dateKey, counter), nil
}

// incrementCounter soma 1 no contador do dia e devolve o novo valor.
// Retorna 0 quando a linha do dia ainda não existe.
func incrementCounter(tx *gorm.DB, dateKey string) (int, error) {
	result := tx.Model(&models.ProtocolSequence{}).
		Where("date_key = ?", dateKey).
		Update("counter", gorm.Expr("counter + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}

	var seq models.ProtocolSequence
	if err := tx.Where("date_key = ?", dateKey).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Counter, nil
}

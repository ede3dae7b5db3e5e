package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"accesscontrol/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestApproved(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Bruno Finance", "bruno@corp.com", models.DEPARTMENT_FINANCE)
	fin := createModule(t, database, "GESTAO_FINANCEIRA", true, models.DEPARTMENT_TI, models.DEPARTMENT_FINANCE)
	portal := createModule(t, database, "PORTAL", true,
		models.DEPARTMENT_TI, models.DEPARTMENT_FINANCE, models.DEPARTMENT_RH,
		models.DEPARTMENT_OPERATIONS, models.DEPARTMENT_OTHER)

	request, err := CreateRequest(database, user.ID, []int64{fin.ID, portal.ID}, validJustification, false)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_ACTIVE, request.Status)
	require.NotNil(t, request.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 180), *request.ExpiresAt, time.Minute)
	assert.Nil(t, request.DeniedReason)
	assert.Regexp(t, regexp.MustCompile(`^SOL-\d{8}-\d{4}$`), request.Protocol)

	// exatamente um acesso por módulo pedido
	assert.Equal(t, 2, countAccesses(t, database, user.ID))

	var access models.Access
	require.NoError(t, database.Where("user_id = ? AND module_id = ?", user.ID, fin.ID).First(&access).Error)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 180), access.ExpiresAt, time.Minute)
	assert.True(t, access.ExpiresAt.After(access.GrantedAt) || access.ExpiresAt.Equal(access.GrantedAt))
}

func TestCreateRequestDeniedByDepartment(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Bruno Finance", "bruno@corp.com", models.DEPARTMENT_FINANCE)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	justification := "Controle de estoque para o fechamento mensal" // 44 chars, válida
	request, err := CreateRequest(database, user.ID, []int64{estoque.ID}, justification, false)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_DENIED, request.Status)
	require.NotNil(t, request.DeniedReason)
	assert.Equal(t, "Departamento sem permissão para solicitar o módulo: ESTOQUE", *request.DeniedReason)
	assert.Nil(t, request.ExpiresAt)
	assert.Equal(t, 0, countAccesses(t, database, user.ID))

	// negação é registro permanente, com protocolo próprio
	var persisted models.AccessRequest
	require.NoError(t, database.First(&persisted, request.ID).Error)
	assert.NotEmpty(t, persisted.Protocol)
}

func TestCreateRequestDeniedByJustification(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Eva Other", "eva@corp.com", models.DEPARTMENT_OTHER)
	portal := createModule(t, database, "PORTAL", true,
		models.DEPARTMENT_TI, models.DEPARTMENT_FINANCE, models.DEPARTMENT_RH,
		models.DEPARTMENT_OPERATIONS, models.DEPARTMENT_OTHER)

	request, err := CreateRequest(database, user.ID, []int64{portal.ID}, "teste", false)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_DENIED, request.Status)
	require.NotNil(t, request.DeniedReason)
	assert.Equal(t, "Justificativa deve ter entre 20 e 500 caracteres", *request.DeniedReason)
	assert.Equal(t, 0, countAccesses(t, database, user.ID))
}

func TestCreateRequestDeniedByDuplicateActiveAccess(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)
	grantAccess(t, database, user.ID, estoque.ID, 90)

	request, err := CreateRequest(database, user.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_DENIED, request.Status)
	require.NotNil(t, request.DeniedReason)
	assert.Equal(t, "Usuário já possui acesso ativo ao módulo: ESTOQUE", *request.DeniedReason)
	assert.Equal(t, 1, countAccesses(t, database, user.ID), "o acesso pré-existente fica como está")
}

func TestCreateRequestDeniedByInactiveModule(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Alice Dev", "alice@corp.com", models.DEPARTMENT_TI)
	auditoria := createModule(t, database, "AUDITORIA", false, models.DEPARTMENT_TI)

	request, err := CreateRequest(database, user.ID, []int64{auditoria.ID}, validJustification, false)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_DENIED, request.Status)
	require.NotNil(t, request.DeniedReason)
	assert.Equal(t, "Módulo inativo: AUDITORIA", *request.DeniedReason)
}

func TestCreateRequestModuleCountBounds(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Alice Dev", "alice@corp.com", models.DEPARTMENT_TI)
	var ids []int64
	for _, name := range []string{"A", "B", "C", "D"} {
		module := createModule(t, database, name, true, models.DEPARTMENT_TI)
		ids = append(ids, module.ID)
	}

	_, err := CreateRequest(database, user.ID, nil, validJustification, false)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = CreateRequest(database, user.ID, ids, validJustification, false)
	assert.True(t, errors.Is(err, ErrValidation))

	// nada pode ter sido gravado
	var count int
	require.NoError(t, database.Model(&models.AccessRequest{}).Count(&count).Error)
	assert.Equal(t, 0, count)
}

func TestCreateRequestUnknownUserOrModule(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Alice Dev", "alice@corp.com", models.DEPARTMENT_TI)

	_, err := CreateRequest(database, 999, []int64{1}, validJustification, false)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = CreateRequest(database, user.ID, []int64{999}, validJustification, false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCancelRequest(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)
	compras := createModule(t, database, "COMPRAS", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	request, err := CreateRequest(database, user.ID, []int64{estoque.ID, compras.ID}, validJustification, false)
	require.NoError(t, err)
	require.Equal(t, models.REQUEST_STATUS_ACTIVE, request.Status)
	require.Equal(t, 2, countAccesses(t, database, user.ID))

	reason := "Mudança de função dentro da equipe"
	canceled, err := CancelRequest(database, request.ID, user.ID, reason)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_CANCELED, canceled.Status)
	require.NotNil(t, canceled.DeniedReason)
	assert.Equal(t, reason, *canceled.DeniedReason)
	assert.Nil(t, canceled.ExpiresAt)

	// revogação em cascata dos acessos da solicitação
	assert.Equal(t, 0, countAccesses(t, database, user.ID))

	history, err := RequestHistoryOf(database, request.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HISTORY_ACTION_CANCELED, history[0].Action)
	assert.Equal(t, reason, history[0].Description)
}

func TestCancelRequestTwiceFails(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	request, err := CreateRequest(database, user.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)

	_, err = CancelRequest(database, request.ID, user.ID, "Mudança de função dentro da equipe")
	require.NoError(t, err)

	_, err = CancelRequest(database, request.ID, user.ID, "Tentativa repetida de cancelamento")
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestCancelRequestOwnershipAndValidation(t *testing.T) {
	database := setupTestDB(t)
	owner := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	other := createUser(t, database, "Eva Other", "eva@corp.com", models.DEPARTMENT_OTHER)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	request, err := CreateRequest(database, owner.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)

	// posse falha como não-encontrado, sem vazar existência
	_, err = CancelRequest(database, request.ID, other.ID, "Motivo longo o suficiente aqui")
	assert.True(t, errors.Is(err, ErrNotFound))

	// motivo curto demais é barrado antes de qualquer escrita
	_, err = CancelRequest(database, request.ID, owner.ID, "curto")
	assert.True(t, errors.Is(err, ErrValidation))

	var unchanged models.AccessRequest
	require.NoError(t, database.First(&unchanged, request.ID).Error)
	assert.Equal(t, models.REQUEST_STATUS_ACTIVE, unchanged.Status)
	assert.Equal(t, 1, countAccesses(t, database, owner.ID))
}

func TestRenewRequestOutsideWindowFails(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	request, err := CreateRequest(database, user.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)

	// recém-criada vence em 180 dias: bem fora da janela de 30
	_, err = RenewRequest(database, request.ID)
	assert.True(t, errors.Is(err, ErrInvalidState))

	// 31 dias também é fora
	setRequestExpiry(t, database, request.ID, time.Now().AddDate(0, 0, 31))
	_, err = RenewRequest(database, request.ID)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestRenewRequestApproved(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	original, err := CreateRequest(database, user.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)

	// dentro da janela: exatamente 30 dias restantes
	windowEdge := time.Now().AddDate(0, 0, 30)
	setRequestExpiry(t, database, original.ID, windowEdge)

	renewed, err := RenewRequest(database, original.ID)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_ACTIVE, renewed.Status)
	require.NotNil(t, renewed.OriginRequestID)
	assert.Equal(t, original.ID, *renewed.OriginRequestID)
	assert.NotEqual(t, original.Protocol, renewed.Protocol)
	assert.Contains(t, renewed.Justification, original.Protocol)
	require.NotNil(t, renewed.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 180), *renewed.ExpiresAt, time.Minute)

	// a original não muda com a renovação
	var after models.AccessRequest
	require.NoError(t, database.First(&after, original.ID).Error)
	assert.Equal(t, models.REQUEST_STATUS_ACTIVE, after.Status)
	assert.Equal(t, original.Protocol, after.Protocol)
	require.NotNil(t, after.ExpiresAt)
	assert.WithinDuration(t, windowEdge, *after.ExpiresAt, time.Second)

	// o acesso passa a vencer 180 dias contados de agora
	var access models.Access
	require.NoError(t, database.Where("user_id = ? AND module_id = ?", user.ID, estoque.ID).First(&access).Error)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 180), access.ExpiresAt, time.Minute)

	history, err := RequestHistoryOf(database, renewed.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HISTORY_ACTION_RENEWED, history[0].Action)
}

func TestRenewRequestDeniedWhenModuleBecameInactive(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	original, err := CreateRequest(database, user.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)
	setRequestExpiry(t, database, original.ID, time.Now().AddDate(0, 0, 10))

	require.NoError(t, database.Model(&models.Module{}).Where("id = ?", estoque.ID).Update("active", false).Error)

	var before models.Access
	require.NoError(t, database.Where("user_id = ? AND module_id = ?", user.ID, estoque.ID).First(&before).Error)

	renewed, err := RenewRequest(database, original.ID)
	require.NoError(t, err)

	assert.Equal(t, models.REQUEST_STATUS_DENIED, renewed.Status)
	require.NotNil(t, renewed.DeniedReason)
	assert.Equal(t, "Módulo inativo: ESTOQUE", *renewed.DeniedReason)

	// negado: o acesso segue com o vencimento antigo
	var after models.Access
	require.NoError(t, database.Where("user_id = ? AND module_id = ?", user.ID, estoque.ID).First(&after).Error)
	assert.WithinDuration(t, before.ExpiresAt, after.ExpiresAt, time.Second)
}

func TestRenewRequestInvalidStates(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	request, err := CreateRequest(database, user.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)
	_, err = CancelRequest(database, request.ID, user.ID, "Mudança de função dentro da equipe")
	require.NoError(t, err)

	_, err = RenewRequest(database, request.ID)
	assert.True(t, errors.Is(err, ErrInvalidState))

	denied, err := CreateRequest(database, user.ID, []int64{estoque.ID}, "teste", false)
	require.NoError(t, err)
	require.Equal(t, models.REQUEST_STATUS_DENIED, denied.Status)

	_, err = RenewRequest(database, denied.ID)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = RenewRequest(database, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFindAndListAndDelete(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "Diego Ops", "diego@corp.com", models.DEPARTMENT_OPERATIONS)
	other := createUser(t, database, "Eva Other", "eva@corp.com", models.DEPARTMENT_OTHER)
	estoque := createModule(t, database, "ESTOQUE", true, models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS)

	request, err := CreateRequest(database, user.ID, []int64{estoque.ID}, validJustification, false)
	require.NoError(t, err)

	found, err := FindRequest(database, request.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, request.Protocol, found.Protocol)

	_, err = FindRequest(database, request.ID, other.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := ListRequestsByUser(database, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	modules, err := RequestModulesOf(database, request.ID)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "ESTOQUE", modules[0].Name)

	require.NoError(t, DeleteRequest(database, request.ID))
	_, err = FindRequest(database, request.ID, user.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// remoção da solicitação não mexe nos acessos concedidos
	assert.Equal(t, 1, countAccesses(t, database, user.ID))

	err = DeleteRequest(database, request.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

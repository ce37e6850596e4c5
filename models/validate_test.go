package models_test

import (
	"strings"
	"testing"

	"github.com/alwitt/inovarea/models"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert := assert.New(t)

	assert.False(models.ValidateName("A"))
	assert.True(models.ValidateName("AB"))
	assert.True(models.ValidateName("  AB  "))
	assert.False(models.ValidateName("   "))
	assert.False(models.ValidateName("--"))
	assert.True(models.ValidateName("-é"))
	assert.True(models.ValidateName("Ação"))
	assert.True(models.ValidateName("42"))
	assert.True(models.ValidateName(strings.Repeat("x", 60)))
	assert.False(models.ValidateName(strings.Repeat("x", 61)))
	// Length counts characters, not bytes
	assert.True(models.ValidateName(strings.Repeat("é", 60)))
}

func TestValidateDescription(t *testing.T) {
	assert := assert.New(t)

	assert.False(models.ValidateDescription(""))
	assert.False(models.ValidateDescription(" ab "))
	assert.True(models.ValidateDescription("abc"))
	assert.True(models.ValidateDescription("ok-desc"))
	assert.True(models.ValidateDescription("!!!"))
	assert.True(models.ValidateDescription(strings.Repeat("d", 200)))
	assert.False(models.ValidateDescription(strings.Repeat("d", 201)))
}

func TestAuditActionValidation(t *testing.T) {
	assert := assert.New(t)

	v := validator.New()
	assert.Nil(models.RegisterWithValidator(v))

	assert.Nil(v.Var(string(models.AuditActionDelete), "audit_action"))
	assert.Nil(v.Var(string(models.AuditActionSaveDone), "audit_action"))
	assert.NotNil(v.Var("FINALIZADO", "audit_action"))
}

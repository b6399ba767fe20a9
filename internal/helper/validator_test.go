package helper

import (
	"testing"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	ok := dto.ApplicationRequest{Name: "Jane Doe", Email: "jane@x.com", Message: "Hello"}
	assert.NoError(t, ValidateStruct(ok))

	missing := ok
	missing.Message = ""
	assert.ErrorIs(t, ValidateStruct(missing), common.ErrMissingFields)

	badEmail := ok
	badEmail.Email = "jane"
	assert.ErrorIs(t, ValidateStruct(badEmail), common.ErrInvalidEmail)

	weak := dto.SignupRequest{Email: "a@b.co", Password: "123", ConfirmPassword: "123"}
	assert.ErrorIs(t, ValidateStruct(weak), common.ErrWeakPassword)

	badUpload := ok
	badUpload.UploadID = "not-a-uuid"
	err := ValidateStruct(badUpload)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorContains(t, err, "UploadID")
}

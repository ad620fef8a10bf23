// Package forms binds raw request fields to candidate objects and applies
// field-level constraints before any workflow sees the data. Validation
// failures come back as a list of user-facing messages.
package forms

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxImageSize is the upload limit for profile images.
const MaxImageSize = 10 << 20 // 10 MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// RegisterForm carries a raw registration submission. The plaintext
// password is deliberately not part of the persisted entity; the manager
// maps this DTO onto a User explicitly.
type RegisterForm struct {
	Login    string `validate:"required,min=4,max=20"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Validate returns every field error as a user-facing message.
// Password length and composition rules live in service.PasswordPolicy.
func (f *RegisterForm) Validate() []string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var msgs []string
	for _, fe := range err.(validator.ValidationErrors) {
		msgs = append(msgs, registerMessage(fe))
	}
	return msgs
}

func registerMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Login":
		return "The login must contain between 4 and 20 characters."
	case "Email":
		return "The email address is not valid."
	case "Password":
		return "The password cannot be empty."
	}
	return "Invalid value for " + fe.Field() + "."
}

// PublicationForm carries a raw publication submission. Only the message
// comes from the client; author and date are assigned server-side.
type PublicationForm struct {
	Message string `validate:"required,notblank,min=4,max=200"`
}

// Validate returns every field error as a user-facing message.
func (f *PublicationForm) Validate() []string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var msgs []string
	for _, fe := range err.(validator.ValidationErrors) {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, "The message cannot be blank.")
		default:
			msgs = append(msgs, "The message must contain between 4 and 200 characters.")
		}
	}
	return msgs
}

// ValidateProfileImage checks the optional profile image upload.
// A nil header is valid: the profile image is optional.
func ValidateProfileImage(fh *multipart.FileHeader) []string {
	if fh == nil {
		return nil
	}
	var msgs []string
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExts[ext] {
		msgs = append(msgs, "Only JPG and PNG formats are allowed.")
	}
	if fh.Size > MaxImageSize {
		msgs = append(msgs, "The file must not exceed 10 MB.")
	}
	return msgs
}

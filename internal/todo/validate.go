package todo

import (
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// textRule bounds task text. Struct tags cannot reference MaxTextLength,
// so the text is checked with Var.
var textRule = "nonblank,max=" + strconv.Itoa(MaxTextLength)

// draft is the user input accepted by Add.
type draft struct {
	Text     string
	Priority Priority `validate:"oneof=high medium low"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		if err := validate.RegisterValidation("nonblank", nonBlank); err != nil {
			panic(err)
		}
	})
	return validate
}

// nonBlank rejects strings that are empty after trimming whitespace.
func nonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidText reports whether text would be accepted by Add.
func ValidText(text string) bool {
	return draftValidator().Var(text, textRule) == nil
}

func (d draft) validate() error {
	if err := draftValidator().Var(d.Text, textRule); err != nil {
		return err
	}
	return draftValidator().Struct(d)
}

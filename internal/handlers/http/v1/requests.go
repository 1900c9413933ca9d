package v1

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
)

// CustomValidator wraps go-playground/validator to implement echo's Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator. Field errors name the
// json, query or param key rather than the Go field.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(wireName)
	return &CustomValidator{validator: v}
}

// Validate implements the echo.Validator interface. Failures come back as an
// InvalidArgument error listing each field.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.InvalidArgument(err.Error())
	}

	vb := errors.NewValidationBuilder()
	for _, fe := range fieldErrs {
		vb.Field(fe.Field(), describe(fe))
	}
	return vb.Build()
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query", "param"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// PokemonDataRequest is the query of the pokemon_data resource
type PokemonDataRequest struct {
	Name string `query:"name" validate:"required"`
}

// BattleRequest is the body of the battle_simulator tool. Omitted level and
// max_turns take the configured defaults.
type BattleRequest struct {
	Pokemon1 string `json:"pokemon1" validate:"required"`
	Pokemon2 string `json:"pokemon2" validate:"required"`
	Level    *int   `json:"level,omitempty" validate:"omitempty,min=1,max=1000"`
	MaxTurns *int   `json:"max_turns,omitempty" validate:"omitempty,min=1"`
	Seed     *int64 `json:"seed,omitempty"`
}

// GetBattleRequest addresses a stored battle
type GetBattleRequest struct {
	ID string `param:"id" validate:"required"`
}

// LeaderboardRequest is the query of the leaderboard resource
type LeaderboardRequest struct {
	Limit int `query:"limit" validate:"min=0"`
}

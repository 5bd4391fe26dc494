// Package validation provides input validation for streambridge requests
// and configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// recommended for config structs; the programmatic Validator suits request
// building where checks depend on runtime state.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    BaseURL string `json:"base_url" validate:"required,url"`
//	    Model   string `json:"model" validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("model", req.Model).Min("max_tokens", req.MaxTokens, 1)
//	err := v.Err()
package validation

package auth

import (
	"fmt"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes holds the mount paths for the JSON endpoints.
type AuthControllerRoutes struct {
	Register string
	Login    string
}

// AuthController exposes registration and login as a JSON API.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auth   Authenticator
	Routes *AuthControllerRoutes
}

// NewAuthController creates a controller bound to the given authenticator.
func NewAuthController(authenticator Authenticator) *AuthController {
	return &AuthController{
		Logger: defLogger{},
		Auth:   authenticator,
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
		},
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterRoutes mounts the auth endpoints on the given router.
func (a *AuthController) RegisterRoutes(app fiber.Router) {
	app.Post(a.Routes.Register, a.RegistrationCreate)
	app.Post(a.Routes.Login, a.LoginPost)
}

// RegistrationCreatePayload is the registration request body. Role tags are
// deliberately absent: accounts always start with the baseline role, and
// anything else is an admin operation, never self service.
type RegistrationCreatePayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClubName string `json:"club_name"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(6, 50),
			validation.By(validatePasswordStrength),
		),
		validation.Field(&r.ClubName, validation.Required, validation.Length(1, 200)),
	)
}

func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return writeError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to parse request body"))
	}

	payload.Email = NormalizeEmail(payload.Email)

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: ", "error", err)
		return writeError(c, validationError(err))
	}

	req := RegisterUserMessage{
		Email:    payload.Email,
		Password: payload.Password,
		ClubName: payload.ClubName,
	}

	res, err := a.Auth.Register(c.UserContext(), req)
	if err != nil {
		a.Logger.Error("register user error: ", "error", err)
		return writeError(c, err)
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(res))
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return writeError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to parse request body"))
	}

	payload.Email = NormalizeEmail(payload.Email)

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: ", "error", err)
		return writeError(c, validationError(err))
	}

	res, err := a.Auth.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login error: ", "error", err)
		return writeError(c, err)
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(res))
	}

	return c.JSON(res)
}

// validatePasswordStrength requires at least one uppercase letter, one
// lowercase letter, and one digit.
func validatePasswordStrength(value any) error {
	s, _ := value.(string)

	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("must contain an uppercase letter, a lowercase letter, and a number")
	}

	return nil
}

// validationError converts ozzo validation output into a categorized error
// carrying per field messages in metadata.
func validationError(err error) error {
	verr := goerrors.Wrap(err, goerrors.CategoryValidation, "request validation failed")

	if fieldErrs, ok := err.(validation.Errors); ok {
		fields := make(map[string]any, len(fieldErrs))
		for name, ferr := range fieldErrs {
			fields[name] = ferr.Error()
		}
		return verr.WithMetadata(map[string]any{"fields": fields})
	}

	return verr
}

// writeError renders an error as a JSON response using the category to
// status mapping. Unrecognized errors come back as opaque 500s.
func writeError(c *fiber.Ctx, err error) error {
	status := HTTPStatus(err)

	body := fiber.Map{
		"message": "internal server error",
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) && status < fiber.StatusInternalServerError {
		body["message"] = rich.Message
		if rich.TextCode != "" {
			body["code"] = rich.TextCode
		}
		if len(rich.Metadata) > 0 {
			if fields, ok := rich.Metadata["fields"]; ok {
				body["fields"] = fields
			}
			if field, ok := rich.Metadata["field"]; ok {
				body["field"] = field
			}
		}
	}

	return c.Status(status).JSON(fiber.Map{"error": body})
}

package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"orgadmin/internal/config"
	"orgadmin/internal/models"
)

type gotrueUser struct {
	Id        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// The signup endpoint answers with the bare user when email confirmation is
// on and with a session wrapping the user otherwise.
type gotrueSignUpResponse struct {
	gotrueUser
	User *gotrueUser `json:"user"`
}

type gotrueError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *gotrueError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return e.Error
	}
}

// signUpError classifies a rejected sign-up. GoTrue answers 422 when the
// email is already registered; weak passwords and malformed emails share the
// status but carry their own error_code.
func signUpError(status int, e *gotrueError) error {
	switch {
	case e.ErrorCode == "weak_password", e.ErrorCode == "validation_failed", e.ErrorCode == "email_address_invalid":
		return fmt.Errorf("%w: %s", models.ErrInvalidForm, e.text())
	case status == http.StatusUnprocessableEntity,
		e.ErrorCode == "user_already_exists", e.ErrorCode == "email_exists":
		return fmt.Errorf("%w: %s", models.ErrDuplicate, e.text())
	default:
		return fmt.Errorf("status %d: %s", status, e.text())
	}
}

type gotrueSignUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data"`
}

// GoTrue is a client of a hosted GoTrue compatible auth API.
type GoTrue struct {
	client     *resty.Client
	serviceKey string
}

func NewGoTrue(cfg *config.IdentityConfig) *GoTrue {
	client := resty.New().
		SetBaseURL(cfg.GoTrueURL).
		SetTimeout(cfg.GoTrueTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", cfg.GoTrueAnonKey)

	return &GoTrue{
		client:     client,
		serviceKey: cfg.GoTrueServiceKey,
	}
}

func (g *GoTrue) SignUp(ctx context.Context, params SignUpParams) (Identity, error) {
	var (
		result  gotrueSignUpResponse
		errBody gotrueError
	)

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(gotrueSignUpRequest{
			Email:    params.Email,
			Password: params.Password,
			Data:     params.Metadata(),
		}).
		SetResult(&result).
		SetError(&errBody).
		Post("/auth/v1/signup")
	if err != nil {
		return Identity{}, fmt.Errorf("identity.GoTrue.SignUp: %w", err)
	}
	if resp.IsError() {
		return Identity{}, fmt.Errorf("identity.GoTrue.SignUp: %w", signUpError(resp.StatusCode(), &errBody))
	}

	user := result.gotrueUser
	if result.User != nil {
		user = *result.User
	}
	if user.Id == "" {
		return Identity{}, fmt.Errorf("identity.GoTrue.SignUp: response carries no user id")
	}

	zerolog.Ctx(ctx).Debug().
		Str("user_id", user.Id).
		Str("email", user.Email).
		Msg("Signed up identity")

	return Identity{Id: user.Id, Email: user.Email, CreatedAt: user.CreatedAt}, nil
}

func (g *GoTrue) Delete(ctx context.Context, id string) error {
	var errBody gotrueError

	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.serviceKey).
		SetPathParam("id", id).
		SetError(&errBody).
		Delete("/auth/v1/admin/users/{id}")
	if err != nil {
		return fmt.Errorf("identity.GoTrue.Delete: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("identity.GoTrue.Delete: status %d: %s", resp.StatusCode(), errBody.text())
	}

	return nil
}

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/campus/internal/client/models"
)

const (
	MsgInvalidCredentials = "Credenciales inválidas"
	MsgLoginFailed        = "No se pudo iniciar sesión"
	MsgLoginMissingInput  = "Ingresa tu usuario y contraseña"
	MsgUserExists         = "El usuario ya existe"
	MsgRegisterFailed     = "No se pudo completar el registro"
	MsgRegisterInvalid    = "Revisa los datos del formulario"
	MsgBadAuthResponse    = "Respuesta de autenticación inválida"
)

var errIncompleteAuthResult = errors.New("auth response without token or profile")

type AuthService struct {
	r Requester
}

func NewAuthService(r Requester) *AuthService {
	return &AuthService{r: r}
}

// Login exchanges credentials for a token and profile.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.AuthResult, error) {
	const op = "auth.login"

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, invalid(op, MsgLoginMissingInput, nil)
	}

	var res models.AuthResult
	req := models.LoginRequest{Identifier: identifier, Password: password}
	if err := s.r.Post(ctx, "/auth/login", req, &res); err != nil {
		return nil, fail(op, MsgLoginFailed, map[int]string{
			http.StatusUnauthorized: MsgInvalidCredentials,
		}, err)
	}
	return checkAuthResult(op, &res)
}

// Register creates an account. The backend answers like Login.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	const op = "auth.register"

	if err := validate.StructCtx(ctx, req); err != nil {
		return nil, invalid(op, MsgRegisterInvalid, err)
	}

	var res models.AuthResult
	if err := s.r.Post(ctx, "/auth/register", req, &res); err != nil {
		return nil, fail(op, MsgRegisterFailed, map[int]string{
			http.StatusConflict:   MsgUserExists,
			http.StatusBadRequest: MsgRegisterInvalid,
		}, err)
	}
	return checkAuthResult(op, &res)
}

func checkAuthResult(op string, res *models.AuthResult) (*models.AuthResult, error) {
	if res.Token == "" || res.Profile == nil {
		return nil, fail(op, MsgBadAuthResponse, nil, errIncompleteAuthResult)
	}
	return res, nil
}

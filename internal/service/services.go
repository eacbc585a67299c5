package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kuowesley/securebank-technical-challenge/internal/config"
	"github.com/kuowesley/securebank-technical-challenge/internal/crypto"
	"github.com/kuowesley/securebank-technical-challenge/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Account *AccountService
}

func NewServices(repos *repository.Repositories, cryptoSvc *crypto.Service, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cryptoSvc, cfg),
		Account: NewAccountService(repos.Account, repos.Transaction),
	}
}

// ValidationError carries per-field messages so handlers can report every
// violated rule at once.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

func (e *ValidationError) add(field string, messages ...string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], messages...)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

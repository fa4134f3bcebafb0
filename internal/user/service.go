package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/badoux/checkmail"

	"financeapp/internal/apperrors"
	"financeapp/internal/events"
	"financeapp/internal/idp"
)

// defaultRole is granted to every freshly provisioned account.
const defaultRole = "user"

var ErrInvalidEmail = apperrors.NewValidationError("email address is not valid")

type CreateUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UpdateUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error)
	Deactivate(ctx context.Context, id int64) error
}

// service keeps the local directory and the identity provider from
// diverging. A user record exists in two independently failing systems;
// every write here is ordered so that the local store never references a
// credential the provider does not hold.
type service struct {
	repo      Repository
	idpClient idp.Client
	publisher events.Publisher
}

func NewUserService(repo Repository, idpClient idp.Client, publisher events.Publisher) Service {
	return &service{
		repo:      repo,
		idpClient: idpClient,
		publisher: publisher,
	}
}

func validateCreateRequest(req CreateUserRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return apperrors.NewValidationError("username must not be blank")
	}
	if strings.TrimSpace(req.Password) == "" {
		return apperrors.NewValidationError("password must not be blank")
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("email must not be blank")
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Create provisions a user in both systems. The IdP account is created
// first: if that fails nothing local is written, because the provider holds
// the only copy of the credentials and a local record must never point at a
// nonexistent account. The overall operation is not atomic; a failure after
// the IdP create leaves a detectable divergence rather than a silent
// rollback.
func (s *service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	accountID, err := s.idpClient.CreateAccount(ctx, idp.NewAccount{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}

	if err := s.idpClient.AssignRealmRole(ctx, accountID, defaultRole); err != nil {
		// Compensate: without the default role the account is unusable,
		// so take it back down instead of leaving an orphan behind.
		if delErr := s.idpClient.DeleteAccount(ctx, accountID); delErr != nil && !errors.Is(delErr, apperrors.ErrNotFound) {
			partial := &apperrors.PartialProvisioningError{
				Username:        req.Username,
				OrphanAccountID: accountID,
				Err:             fmt.Errorf("role assignment failed (%v) and cleanup failed (%v)", err, delErr),
			}
			s.reportPartial(ctx, partial)
			return nil, partial
		}
		return nil, err
	}

	newUser := &User{
		Username:     req.Username,
		IdPAccountID: accountID,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Active:       true,
	}
	if err := s.repo.insert(ctx, newUser); err != nil {
		partial := &apperrors.PartialProvisioningError{
			Username:        req.Username,
			OrphanAccountID: accountID,
			Err:             fmt.Errorf("idp account created but local insert failed: %v", err),
		}
		s.reportPartial(ctx, partial)
		return nil, partial
	}

	s.publish(ctx, events.Event{
		Type:         events.TypeUserProvisioned,
		Username:     newUser.Username,
		IdPAccountID: newUser.IdPAccountID,
	})
	return newUser, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.findByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.findAll(ctx)
}

// Update changes profile fields on the local record only; it never reaches
// the identity provider. Username, account id and the active flag are not
// touchable through this path.
func (s *service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperrors.NewValidationError("email must not be blank")
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	existing, err := s.repo.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Email = req.Email
	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	if err := s.repo.save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Deactivate soft-deletes a user: the IdP account is removed first and the
// local record flipped to inactive only afterwards. When the IdP delete
// fails the record stays active everywhere — "disabled locally but still
// valid at the provider" would look revoked while remaining authenticable.
func (s *service) Deactivate(ctx context.Context, id int64) error {
	existing, err := s.repo.findByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Active {
		return nil
	}

	accountID, err := s.idpClient.FindAccountIDByUsername(ctx, existing.Username)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		// Account already gone at the provider; only the local flag is left.
	case err != nil:
		return err
	default:
		if err := s.idpClient.DeleteAccount(ctx, accountID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
	}

	existing.Active = false
	if err := s.repo.save(ctx, existing); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:         events.TypeUserDeactivated,
		Username:     existing.Username,
		IdPAccountID: existing.IdPAccountID,
	})
	return nil
}

func (s *service) reportPartial(ctx context.Context, partial *apperrors.PartialProvisioningError) {
	// The "provisioning:" prefix keeps these separable from ordinary IdP
	// failures in the logs; operators reconcile orphans from this trail.
	log.Printf("provisioning: %v", partial)
	s.publish(ctx, events.Event{
		Type:            events.TypeProvisionFailed,
		Username:        partial.Username,
		OrphanAccountID: partial.OrphanAccountID,
		Detail:          partial.Err.Error(),
	})
}

func (s *service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("events: could not publish %s for %q: %v", event.Type, event.Username, err)
	}
}

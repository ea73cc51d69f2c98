package user

import (
	"log/slog"
	"time"

	"github.com/bossrus/workflow-go/internal"
	userDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/user"
	"github.com/bossrus/workflow-go/internal/notify"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/bossrus/workflow-go/internal/slug"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetAllActive() ([]*userDatamodel.User, error)
	GetActiveByID(id string) (*userDatamodel.User, error)
	GetActiveByLogin(login string) (*userDatamodel.User, error)
	FindByLoginOrSlug(login, loginSlug string) (*userDatamodel.User, error)
	GetByIDAndEmailToken(id, emailToken string) (*userDatamodel.User, error)
	Create(row *userDatamodel.User) error
	Update(row *userDatamodel.User) error
	SetLoginToken(id, token string) error
	SetEmail(id, email, emailToken string) error
	SoftDelete(id string, deletedAt int64) error
}

type Publisher interface {
	Publish(event notify.Event)
}

type AuditLog interface {
	Append(bd, operation, worker, subject, description string)
}

// Mailer is the outbound mail dependency; implementations must never fail
// the caller.
type Mailer interface {
	SendEmailConfirmation(email, name, confirmURL string)
}

type Service struct {
	repo       RepositoryAPI
	cache      *readmodel.Users
	notifier   Publisher
	audit      AuditLog
	mailer     Mailer
	logger     *slog.Logger
	bcryptCost int
	baseURL    string
}

func NewService(repo RepositoryAPI, cache *readmodel.Users, notifier Publisher, audit AuditLog, mailer Mailer, logger *slog.Logger, bcryptCost int, baseURL string) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		cache:      cache,
		notifier:   notifier,
		audit:      audit,
		mailer:     mailer,
		logger:     logger,
		bcryptCost: bcryptCost,
		baseURL:    baseURL,
	}
}

// LoadFromBase rebuilds the user cache and the session-token map from the
// store. Tokens ride on the store row but are split off here; they never
// enter the cached record.
func (s *Service) LoadFromBase() error {
	rows, err := s.repo.GetAllActive()
	if err != nil {
		return internal.NewInternalError("failed to load users from store", err)
	}
	users := make([]readmodel.User, 0, len(rows))
	tokens := make(map[string]string, len(rows))
	for _, row := range rows {
		users = append(users, cachedOf(row))
		if row.LoginToken != "" {
			tokens[row.ID] = row.LoginToken
		}
	}
	s.cache.ReplaceAll(users, tokens)
	s.logger.Info("user cache loaded", "count", len(users))
	return nil
}

// ListFull is for admins only; the gate enforces that upstream.
func (s *Service) ListFull() map[string]readmodel.User {
	return s.cache.All()
}

func (s *Service) ListShort() []readmodel.UserShort {
	return s.cache.AllShort()
}

// GetForCaller returns the full record when the caller asks about themself
// or is an admin, the short projection otherwise.
func (s *Service) GetForCaller(id, callerID string) (interface{}, error) {
	if callerID == id || s.callerIsAdmin(callerID) {
		user, ok := s.cache.FullProjection(id)
		if !ok {
			return nil, internal.ErrUserNotFound
		}
		return user, nil
	}
	short, ok := s.cache.ShortProjection(id)
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return short, nil
}

func (s *Service) Create(dto CreateDTO, actorID string) (readmodel.User, error) {
	if err := dto.Validate(); err != nil {
		return readmodel.User{}, err
	}
	if err := s.checkExist(dto.Login); err != nil {
		return readmodel.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return readmodel.User{}, internal.NewInternalError("failed to hash password", err)
	}

	currentDepartment := dto.CurrentDepartment
	if !contains(dto.Departments, currentDepartment) {
		currentDepartment = dto.Departments[0]
	}

	row := &userDatamodel.User{
		ID:                        uuid.NewString(),
		Login:                     dto.Login,
		LoginSlug:                 slug.Make(dto.Login),
		Name:                      dto.Name,
		Email:                     dto.Email,
		PasswordHash:              string(hash),
		CurrentDepartment:         currentDepartment,
		Departments:               dto.Departments,
		IsSendLetterAboutNewWorks: dto.IsSendLetterAboutNewWorks,
		CanStartStopWorks:         dto.CanStartStopWorks,
		CanSeeStatistics:          dto.CanSeeStatistics,
		IsAdmin:                   dto.IsAdmin,
		CanMakeModification:       dto.CanMakeModification,
		Version:                   0,
	}

	if err := s.repo.Create(row); err != nil {
		return readmodel.User{}, internal.NewInternalError("failed to create user", err)
	}

	user := cachedOf(row)
	s.cache.Upsert(user)
	s.notifier.Publish(notify.Event{
		EntityKind: notify.KindUsers,
		Operation:  notify.OpUpdate,
		ID:         user.ID,
		Version:    user.Version,
	})
	s.audit.Append(notify.KindUsers, "create", actorID, user.ID, "")
	return user, nil
}

// Update applies a partial update. A password change clears the session: the
// old token is dead the moment the store write lands. A patch touching only
// the currently held work is written through quietly.
func (s *Service) Update(dto UpdateDTO, actorID, description string) (readmodel.User, error) {
	if err := dto.Validate(); err != nil {
		return readmodel.User{}, err
	}

	row, err := s.repo.GetActiveByID(dto.ID)
	if err != nil {
		return readmodel.User{}, internal.NewInternalError("failed to read user", err)
	}
	if row == nil {
		return readmodel.User{}, internal.ErrUserNotFound
	}

	if dto.Login != nil && *dto.Login != row.Login {
		if err := s.checkExist(*dto.Login); err != nil {
			return readmodel.User{}, err
		}
		row.Login = *dto.Login
		row.LoginSlug = slug.Make(*dto.Login)
	}
	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Departments != nil {
		row.Departments = *dto.Departments
	}
	if dto.CurrentDepartment != nil {
		row.CurrentDepartment = *dto.CurrentDepartment
	}
	// currentDepartment must stay a member of departments; fall back to the
	// first listed one when the update removed it.
	if !contains(row.Departments, row.CurrentDepartment) {
		row.CurrentDepartment = row.Departments[0]
	}
	if dto.CurrentWorkflowInWork != nil {
		row.CurrentWorkflowInWork = *dto.CurrentWorkflowInWork
	}
	if dto.IsSendLetterAboutNewWorks != nil {
		row.IsSendLetterAboutNewWorks = *dto.IsSendLetterAboutNewWorks
	}
	if dto.CanStartStopWorks != nil {
		row.CanStartStopWorks = *dto.CanStartStopWorks
	}
	if dto.CanSeeStatistics != nil {
		row.CanSeeStatistics = *dto.CanSeeStatistics
	}
	if dto.IsAdmin != nil {
		row.IsAdmin = *dto.IsAdmin
	}
	if dto.CanMakeModification != nil {
		row.CanMakeModification = *dto.CanMakeModification
	}
	if dto.EmailConfirmed != nil {
		row.EmailConfirmed = *dto.EmailConfirmed
	}

	passwordChanged := dto.Password != nil
	if passwordChanged {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return readmodel.User{}, internal.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = string(hash)
		row.LoginToken = ""
	}
	row.Version++

	if err := s.repo.Update(row); err != nil {
		return readmodel.User{}, internal.NewInternalError("failed to update user", err)
	}

	user := cachedOf(row)
	s.cache.Upsert(user)
	if passwordChanged {
		s.cache.ClearToken(user.ID)
	}
	if !dto.onlyCurrentWork() {
		s.notifier.Publish(notify.Event{
			EntityKind: notify.KindUsers,
			Operation:  notify.OpUpdate,
			ID:         user.ID,
			Version:    user.Version,
		})
		s.audit.Append(notify.KindUsers, "edit", actorID, user.ID, description)
	}
	return user, nil
}

func (s *Service) Delete(id, actorID string) error {
	user, ok := s.cache.FullProjection(id)
	if !ok {
		return internal.ErrUserNotFound
	}

	if err := s.repo.SoftDelete(id, time.Now().UnixMilli()); err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}

	s.cache.Remove(id)
	s.notifier.Publish(notify.Event{
		EntityKind: notify.KindUsers,
		Operation:  notify.OpDelete,
		ID:         user.ID,
		Version:    user.Version,
	})
	s.audit.Append(notify.KindUsers, "delete", actorID, user.ID, "")
	return nil
}

// Login checks credentials against the store and issues a fresh token. A
// second login for the same id replaces the previous token.
func (s *Service) Login(dto LoginDTO) (LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return LoginResponse{}, err
	}

	row, err := s.repo.GetActiveByLogin(dto.Login)
	if err != nil {
		return LoginResponse{}, internal.NewInternalError("failed to read user", err)
	}
	if row == nil {
		return LoginResponse{}, internal.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(dto.Password)) != nil {
		return LoginResponse{}, internal.ErrBadCredentials
	}

	token, err := generateToken()
	if err != nil {
		return LoginResponse{}, internal.NewInternalError("failed to issue session token", err)
	}
	if err := s.repo.SetLoginToken(row.ID, token); err != nil {
		return LoginResponse{}, internal.NewInternalError("failed to persist session token", err)
	}
	s.cache.SetToken(row.ID, token)

	return LoginResponse{User: cachedOf(row), LoginToken: token}, nil
}

// VerifySessionAndFetch is the "who am I" operation: valid session in, full
// profile out.
func (s *Service) VerifySessionAndFetch(id, token string) (readmodel.User, error) {
	if !s.cache.VerifySession(id, token) {
		return readmodel.User{}, internal.ErrSessionInvalid
	}
	user, ok := s.cache.FullProjection(id)
	if !ok {
		return readmodel.User{}, internal.ErrSessionInvalid
	}
	return user, nil
}

// UpdateEmail lets a user attach an email to their own account. The address
// stays unconfirmed until the mailed link comes back.
func (s *Service) UpdateEmail(dto UpdateEmailDTO, callerID string) error {
	if dto.ID == "" {
		return internal.NewValidationError("user _id is required", internal.ErrCodeMissingID)
	}
	if dto.ID != callerID {
		return internal.NewValidationError("cannot change another account's email", internal.ErrCodeNotOwnAccount)
	}
	if dto.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeEmailNotSet)
	}

	emailToken, err := generateToken()
	if err != nil {
		return internal.NewInternalError("failed to issue email token", err)
	}
	if err := s.repo.SetEmail(dto.ID, dto.Email, emailToken); err != nil {
		return internal.NewInternalError("failed to store email", err)
	}

	name := dto.ID
	if user, ok := s.cache.FullProjection(dto.ID); ok {
		name = user.Name
		user.Email = dto.Email
		user.EmailConfirmed = false
		s.cache.Upsert(user)
	}

	s.mailer.SendEmailConfirmation(dto.Email, name, s.baseURL+"/users/confirmEmail/"+dto.ID+"/"+emailToken)
	s.audit.Append(notify.KindUsers, "edit", callerID, dto.ID, "add email")
	return nil
}

// ConfirmEmail completes the round trip; the actual flag flip goes through
// the normal update path so it versions and broadcasts like any other edit.
func (s *Service) ConfirmEmail(id, emailToken string) error {
	row, err := s.repo.GetByIDAndEmailToken(id, emailToken)
	if err != nil {
		return internal.NewInternalError("failed to read user", err)
	}
	if row == nil {
		return internal.NewValidationError("unknown confirmation token", internal.ErrCodeBadEmailToken)
	}

	confirmed := true
	_, err = s.Update(UpdateDTO{ID: id, EmailConfirmed: &confirmed}, id, "confirm email")
	return err
}

func (s *Service) callerIsAdmin(callerID string) bool {
	caller, ok := s.cache.FullProjection(callerID)
	return ok && caller.IsAdmin
}

// checkExist consults the store, including soft-deleted users: a login that
// ever existed stays taken.
func (s *Service) checkExist(login string) error {
	row, err := s.repo.FindByLoginOrSlug(login, slug.Make(login))
	if err != nil {
		return internal.NewInternalError("failed to check login", err)
	}
	if row != nil {
		return internal.ErrUserExists
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

package readmodel

import "sync"

// Users mirrors the users collection and additionally owns the detached
// id→session-token map. Tokens never travel on the cached user record, so a
// projection can never leak one.
type Users struct {
	Cache[User]

	tokenMu sync.RWMutex
	tokens  map[string]string
}

func NewUsers() *Users {
	return &Users{
		Cache: Cache[User]{
			entries:    make(map[string]User),
			tombstones: make(map[string]struct{}),
		},
		tokens: make(map[string]string),
	}
}

// ReplaceAll rebuilds the user mapping and the token map together. Tokens of
// users that disappeared from the store are dropped with the records.
func (u *Users) ReplaceAll(records []User, tokens map[string]string) {
	u.Cache.ReplaceAll(records)
	fresh := make(map[string]string, len(tokens))
	for id, token := range tokens {
		if token != "" {
			fresh[id] = token
		}
	}
	u.tokenMu.Lock()
	u.tokens = fresh
	u.tokenMu.Unlock()
}

// SetToken registers the session token for a user id. A second login for the
// same id overwrites the previous token: exactly one token is valid per id
// at any moment.
func (u *Users) SetToken(id, token string) {
	if id == "" || token == "" {
		return
	}
	u.tokenMu.Lock()
	u.tokens[id] = token
	u.tokenMu.Unlock()
}

func (u *Users) ClearToken(id string) {
	u.tokenMu.Lock()
	delete(u.tokens, id)
	u.tokenMu.Unlock()
}

// Remove drops the user and their session; a deleted user must not keep a
// live token.
func (u *Users) Remove(id string) {
	u.Cache.Remove(id)
	u.ClearToken(id)
}

// ShortProjection exposes only what other users may see.
func (u *Users) ShortProjection(id string) (UserShort, bool) {
	user, ok := u.GetByID(id)
	if !ok {
		return UserShort{}, false
	}
	return shortOf(user), true
}

// FullProjection is for the user themself or an admin.
func (u *Users) FullProjection(id string) (User, bool) {
	return u.GetByID(id)
}

// AllShort lists every cached user in short form.
func (u *Users) AllShort() []UserShort {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]UserShort, 0, len(u.entries))
	for _, user := range u.entries {
		out = append(out, shortOf(user))
	}
	return out
}

// EmailRecipientsForDepartment returns the opted-in members of a department,
// or nil when there is nobody to write to. Nil is a normal outcome for the
// mail path, not an error.
func (u *Users) EmailRecipientsForDepartment(departmentID string) []EmailRecipient {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var recipients []EmailRecipient
	for _, user := range u.entries {
		if !user.IsSendLetterAboutNewWorks || user.Email == "" {
			continue
		}
		for _, dep := range user.Departments {
			if dep == departmentID {
				recipients = append(recipients, EmailRecipient{Name: user.Name, Email: user.Email})
				break
			}
		}
	}
	return recipients
}

// VerifySession reports whether the presented token is the live session
// token for the id. All four conditions are mandatory; in particular a blank
// presented token never matches a blank stored one.
func (u *Users) VerifySession(id, token string) bool {
	if id == "" || token == "" {
		return false
	}
	if _, ok := u.GetByID(id); !ok {
		return false
	}
	u.tokenMu.RLock()
	stored, ok := u.tokens[id]
	u.tokenMu.RUnlock()
	return ok && stored != "" && stored == token
}

// VerifyRole is VerifySession plus a permission predicate; admins satisfy
// every predicate implicitly.
func (u *Users) VerifyRole(id, token string, predicate func(User) bool) bool {
	if !u.VerifySession(id, token) {
		return false
	}
	user, ok := u.GetByID(id)
	if !ok {
		return false
	}
	return user.IsAdmin || predicate(user)
}

// Permission predicates, one per flag.

func IsAdmin(u User) bool             { return u.IsAdmin }
func CanMakeModification(u User) bool { return u.CanMakeModification }
func CanStartStopWorks(u User) bool   { return u.CanStartStopWorks }
func CanSeeStatistics(u User) bool    { return u.CanSeeStatistics }

func shortOf(user User) UserShort {
	departments := make([]string, len(user.Departments))
	copy(departments, user.Departments)
	return UserShort{
		ID:          user.ID,
		Name:        user.Name,
		Departments: departments,
		Version:     user.Version,
	}
}

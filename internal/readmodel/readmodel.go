// Package readmodel holds the in-memory mirrors of the persistent
// collections. Every read path in the system is served from these caches;
// the database is only consulted on writes. Records are written through
// after a confirmed store commit, so the caches always hold a (possibly
// lagging) subset of committed state.
package readmodel

// Record is anything the generic cache can hold.
type Record interface {
	RecordID() string
	RecordVersion() int64
}

// Titled records additionally support lookup by title or slug.
type Titled interface {
	Record
	RecordTitle() string
	RecordTitleSlug() string
}

// CatalogEntry is the cached projection of a catalog row (department, firm,
// modification, type of work). The slug is kept for lookups but never
// serialized; password-class fields simply have no place in this struct,
// which is how the cache strip works in a typed world.
type CatalogEntry struct {
	ID               string `json:"_id"`
	Title            string `json:"title"`
	TitleSlug        string `json:"-"`
	NumberInWorkflow string `json:"numberInWorkflow,omitempty"`
	IsUsedInWorkflow bool   `json:"isUsedInWorkflow"`
	Version          int64  `json:"version"`
}

func (e CatalogEntry) RecordID() string         { return e.ID }
func (e CatalogEntry) RecordVersion() int64     { return e.Version }
func (e CatalogEntry) RecordTitle() string      { return e.Title }
func (e CatalogEntry) RecordTitleSlug() string  { return e.TitleSlug }

// User is the cached projection of a user row. Password hash, login slug and
// the session token never enter this struct: the token lives in the detached
// token map, the rest is dropped at conversion.
type User struct {
	ID                        string   `json:"_id"`
	Login                     string   `json:"login"`
	Name                      string   `json:"name"`
	Email                     string   `json:"email,omitempty"`
	EmailConfirmed            bool     `json:"emailConfirmed"`
	CurrentDepartment         string   `json:"currentDepartment"`
	CurrentWorkflowInWork     string   `json:"currentWorkflowInWork,omitempty"`
	Departments               []string `json:"departments"`
	IsSendLetterAboutNewWorks bool     `json:"isSendLetterAboutNewWorks"`
	CanStartStopWorks         bool     `json:"canStartStopWorks"`
	CanSeeStatistics          bool     `json:"canSeeStatistics"`
	IsAdmin                   bool     `json:"isAdmin"`
	CanMakeModification       bool     `json:"canMakeModification"`
	Version                   int64    `json:"version"`
}

func (u User) RecordID() string     { return u.ID }
func (u User) RecordVersion() int64 { return u.Version }

// UserShort is what anyone other than the user themself (or an admin) gets.
type UserShort struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Departments []string `json:"departments"`
	Version     int64    `json:"version"`
}

type EmailRecipient struct {
	Name  string
	Email string
}

// Copyright 2026 The Workshopd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store persists portal, environment and session records. All
// capacity affecting mutations happen inside a Transaction; work that must
// only run once the records are durable, such as scheduling a session
// deployment, is registered with Tx.AfterCommit and fires after the commit
// succeeds.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the relational database holding session manager state.
type Store struct {
	db *gorm.DB
}

// Open connects to the Postgres database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing gorm handle. Used by tests with an in-memory
// database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&TrainingPortal{},
		&WorkshopEnvironment{},
		&Session{},
		&ClientCredential{},
	)
}

// Tx is a single transaction over the store. Queries and mutations made
// through it are committed or rolled back together.
type Tx struct {
	db    *gorm.DB
	hooks []func()
}

// AfterCommit registers fn to run once the enclosing transaction has
// committed. Hooks run in registration order and never run on rollback.
func (t *Tx) AfterCommit(fn func()) {
	t.hooks = append(t.hooks, fn)
}

// Transaction runs fn inside a database transaction. Registered after
// commit hooks fire only when the commit succeeds, which is what guarantees
// a deployment task never observes an uncommitted session record.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	var hooks []func()

	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		tx := &Tx{db: db}
		if err := fn(tx); err != nil {
			return err
		}
		hooks = tx.hooks
		return nil
	})
	if err != nil {
		return err
	}

	for _, hook := range hooks {
		hook()
	}
	return nil
}

// SavePortal inserts or updates a portal record.
func (t *Tx) SavePortal(portal *TrainingPortal) error {
	return t.db.Save(portal).Error
}

// Portal looks up a portal by name.
func (t *Tx) Portal(name string) (*TrainingPortal, error) {
	var portal TrainingPortal
	if err := t.db.First(&portal, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &portal, nil
}

// SaveEnvironment inserts or updates an environment record.
func (t *Tx) SaveEnvironment(environment *WorkshopEnvironment) error {
	return t.db.Save(environment).Error
}

// Environment looks up an environment by name, with its portal loaded.
func (t *Tx) Environment(name string) (*WorkshopEnvironment, error) {
	var environment WorkshopEnvironment
	if err := t.db.Preload("Portal").First(&environment, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &environment, nil
}

// NextTally increments and persists the environment's session sequence
// counter, returning the new value. Must run under the portal lock.
func (t *Tx) NextTally(environment *WorkshopEnvironment) (int, error) {
	environment.Tally++
	if err := t.db.Model(environment).Update("tally", environment.Tally).Error; err != nil {
		return 0, fmt.Errorf("failed to increment tally for %s: %w", environment.Name, err)
	}
	return environment.Tally, nil
}

// CreateSession inserts a new session record.
func (t *Tx) CreateSession(session *Session) error {
	if session.Created.IsZero() {
		session.Created = time.Now().UTC()
	}
	return t.db.Create(session).Error
}

// SaveSession persists changes to a session record.
func (t *Tx) SaveSession(session *Session) error {
	return t.db.Save(session).Error
}

// Session looks up a session by name, with its environment and portal
// loaded.
func (t *Tx) Session(name string) (*Session, error) {
	var session Session
	err := t.db.Preload("Environment.Portal").Preload("Environment").First(&session, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateCredential inserts the OAuth application record for a session.
func (t *Tx) CreateCredential(credential *ClientCredential) error {
	return t.db.Create(credential).Error
}

// Credential looks up the OAuth application record for a session.
func (t *Tx) Credential(sessionName string) (*ClientCredential, error) {
	var credential ClientCredential
	if err := t.db.First(&credential, "session_name = ?", sessionName).Error; err != nil {
		return nil, err
	}
	return &credential, nil
}

// AllocatedSessionForUser returns the session in the environment owned by
// user and not stopping, or nil when the user has none.
func (t *Tx) AllocatedSessionForUser(environmentID uint, user string) (*Session, error) {
	var session Session
	err := t.db.
		Where("environment_id = ?", environmentID).
		Where("owner = ?", user).
		Where("state IN ?", liveStates).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AvailableSession returns the oldest unallocated session of the
// environment, or nil when the reserve pool is empty.
func (t *Tx) AvailableSession(environmentID uint) (*Session, error) {
	var session Session
	err := t.db.
		Where("environment_id = ?", environmentID).
		Where("owner = ''").
		Where("state IN ?", availableStates).
		Order("created asc").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ActiveSessionsCount counts sessions of the environment in a live state,
// reserved and allocated alike.
func (t *Tx) ActiveSessionsCount(environmentID uint) (int, error) {
	var count int64
	err := t.db.Model(&Session{}).
		Where("environment_id = ?", environmentID).
		Where("state IN ?", liveStates).
		Count(&count).Error
	return int(count), err
}

// AvailableSessionsCount counts the unallocated reserve sessions of the
// environment.
func (t *Tx) AvailableSessionsCount(environmentID uint) (int, error) {
	var count int64
	err := t.db.Model(&Session{}).
		Where("environment_id = ?", environmentID).
		Where("owner = ''").
		Where("state IN ?", availableStates).
		Count(&count).Error
	return int(count), err
}

// AllocatedPortalSessionsCount counts sessions allocated to users across
// all environments of the portal.
func (t *Tx) AllocatedPortalSessionsCount(portalID uint) (int, error) {
	var count int64
	err := t.portalSessions(portalID).
		Where("sessions.owner <> ''").
		Where("sessions.state IN ?", liveStates).
		Count(&count).Error
	return int(count), err
}

// AvailablePortalSessionsCount counts unallocated reserve sessions across
// all environments of the portal.
func (t *Tx) AvailablePortalSessionsCount(portalID uint) (int, error) {
	var count int64
	err := t.portalSessions(portalID).
		Where("sessions.owner = ''").
		Where("sessions.state IN ?", availableStates).
		Count(&count).Error
	return int(count), err
}

// ActivePortalSessionsCount counts all live sessions across the portal.
func (t *Tx) ActivePortalSessionsCount(portalID uint) (int, error) {
	var count int64
	err := t.portalSessions(portalID).
		Where("sessions.state IN ?", liveStates).
		Count(&count).Error
	return int(count), err
}

// OldestAvailablePortalSession returns the reserve session with the oldest
// creation timestamp across the whole portal. Session age stands in for
// least active since no usage statistics are tracked.
func (t *Tx) OldestAvailablePortalSession(portalID uint) (*Session, error) {
	var session Session
	err := t.portalSessions(portalID).
		Where("sessions.owner = ''").
		Where("sessions.state IN ?", availableStates).
		Order("sessions.created asc").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (t *Tx) portalSessions(portalID uint) *gorm.DB {
	return t.db.Model(&Session{}).
		Joins("JOIN workshop_environments ON workshop_environments.id = sessions.environment_id").
		Where("workshop_environments.portal_id = ?", portalID)
}

// MarkPending claims the session for user with an optional activation
// token. The lifecycle state is left for the deployment task to settle.
func (t *Tx) MarkPending(session *Session, user, token string) error {
	session.Owner = user
	session.Token = token
	return t.db.Model(session).Updates(map[string]interface{}{
		"owner": user,
		"token": token,
	}).Error
}

// MarkRunning claims the session for user with no activation step.
func (t *Tx) MarkRunning(session *Session, user string) error {
	session.Owner = user
	session.Token = ""
	session.State = SessionRunning
	return t.db.Model(session).Updates(map[string]interface{}{
		"owner": user,
		"token": "",
		"state": SessionRunning,
	}).Error
}

// MarkStopping flags the session for teardown by the reaper.
func (t *Tx) MarkStopping(session *Session) error {
	session.State = SessionStopping
	return t.db.Model(session).Update("state", SessionStopping).Error
}

// SetState transitions the session lifecycle state.
func (t *Tx) SetState(session *Session, state SessionState) error {
	session.State = state
	return t.db.Model(session).Update("state", state).Error
}

// StuckSessions returns sessions still in Starting that were created
// before cutoff. These are records whose deployment task was lost, for
// example across a process restart, and need the task re-triggered.
func (s *Store) StuckSessions(ctx context.Context, cutoff time.Time) ([]Session, error) {
	var sessions []Session
	err := s.db.WithContext(ctx).
		Where("state = ?", SessionStarting).
		Where("created < ?", cutoff).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

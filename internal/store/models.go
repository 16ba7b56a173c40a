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

package store

import (
	"encoding/json"
	"fmt"
	"time"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
)

// SessionState tracks a workshop session through its lifecycle. Terminated
// sessions are removed by the reaper, so no terminal state is recorded here.
type SessionState string

const (
	// SessionStarting means the database record exists but the cluster
	// resource has not been created yet.
	SessionStarting SessionState = "Starting"

	// SessionWaiting means the cluster resource exists and the session is
	// either an unallocated reserve or awaiting activation via its token.
	SessionWaiting SessionState = "Waiting"

	// SessionRunning means the session is materialized and claimed by a
	// user with no pending activation step.
	SessionRunning SessionState = "Running"

	// SessionStopping means the session is marked for teardown; actual
	// deletion is performed by the session reaper.
	SessionStopping SessionState = "Stopping"
)

// liveStates are the states counted against capacity.
var liveStates = []SessionState{SessionStarting, SessionWaiting, SessionRunning}

// availableStates are the states an unallocated reserve session can be in.
var availableStates = []SessionState{SessionStarting, SessionWaiting}

// TrainingPortal is the relational record for a deployed portal.
type TrainingPortal struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`

	// SessionsMaximum caps allocated sessions across all environments of
	// the portal. Zero means unbounded.
	SessionsMaximum int

	// Hostname is the resolved external hostname of the portal web
	// interface, hostname overrides from the portal spec applied.
	Hostname string

	// FrameAncestors is the comma separated list of sites allowed to embed
	// portal and session pages, empty when embedding is not configured.
	FrameAncestors string `gorm:"type:text"`
}

func (TrainingPortal) TableName() string {
	return "training_portals"
}

// WorkshopEnvironment is the relational record for a workshop definition
// bound to a portal.
type WorkshopEnvironment struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"uniqueIndex"`
	PortalID uint   `gorm:"index"`
	Portal   TrainingPortal

	// Capacity is the maximum number of concurrent sessions.
	Capacity int

	// Reserved is the target size of the pre-warmed session pool.
	Reserved int

	// Tally is the session sequence counter. It only ever increases, so
	// session names derived from it are unique for the lifetime of the
	// environment.
	Tally int

	// ResourceUID is the uid of the WorkshopEnvironment cluster resource,
	// used as the owner of session resources.
	ResourceUID string

	// DurationSeconds and InactivitySeconds are the session expiry limits,
	// zero when unset.
	DurationSeconds   int64
	InactivitySeconds int64

	// Env is the JSON encoded environment variable overlay applied to
	// sessions of this environment.
	Env string `gorm:"type:text"`
}

func (WorkshopEnvironment) TableName() string {
	return "workshop_environments"
}

// Duration returns the session duration limit, zero when unset.
func (e *WorkshopEnvironment) Duration() time.Duration {
	return time.Duration(e.DurationSeconds) * time.Second
}

// Inactivity returns the session inactivity limit, zero when unset.
func (e *WorkshopEnvironment) Inactivity() time.Duration {
	return time.Duration(e.InactivitySeconds) * time.Second
}

// EnvOverlay decodes the environment variable overlay.
func (e *WorkshopEnvironment) EnvOverlay() ([]trainingv1alpha1.EnvVar, error) {
	if e.Env == "" {
		return nil, nil
	}
	var env []trainingv1alpha1.EnvVar
	if err := json.Unmarshal([]byte(e.Env), &env); err != nil {
		return nil, fmt.Errorf("failed to decode env overlay for %s: %w", e.Name, err)
	}
	return env, nil
}

// SetEnvOverlay encodes and stores the environment variable overlay.
func (e *WorkshopEnvironment) SetEnvOverlay(env []trainingv1alpha1.EnvVar) error {
	if len(env) == 0 {
		e.Env = ""
		return nil
	}
	encoded, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode env overlay for %s: %w", e.Name, err)
	}
	e.Env = string(encoded)
	return nil
}

// Session is the relational record for one workshop instance.
type Session struct {
	// Name is `<environment>-s<tally:03>` and is globally unique.
	Name string `gorm:"primaryKey"`

	// SessionID is the short identifier, unique within the environment.
	SessionID string

	State SessionState `gorm:"index"`

	// Owner is the user the session is allocated to, empty for reserve
	// sessions.
	Owner string `gorm:"index"`

	// Token is the activation token handed out for REST initiated
	// sessions; the session stays in Waiting until it is redeemed.
	Token string

	Created time.Time

	EnvironmentID uint `gorm:"index"`
	Environment   WorkshopEnvironment
}

func (Session) TableName() string {
	return "sessions"
}

// IsPending reports whether the session has not reached Running yet.
func (s *Session) IsPending() bool {
	return s.State == SessionStarting || s.State == SessionWaiting
}

// IsAllocated reports whether the session is claimed by a user and still
// counts against the portal's allocated ceiling.
func (s *Session) IsAllocated() bool {
	return s.Owner != "" && (s.State == SessionStarting || s.State == SessionWaiting || s.State == SessionRunning)
}

// ClientCredential is the opaque OAuth application record minted per
// session, keyed by session name.
type ClientCredential struct {
	SessionName  string `gorm:"primaryKey"`
	ClientID     string
	Secret       string
	RedirectURIs string `gorm:"type:text"`
}

func (ClientCredential) TableName() string {
	return "client_credentials"
}

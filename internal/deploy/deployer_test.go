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

package deploy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
	"github.com/workshopd/workshopd/internal/locking"
	"github.com/workshopd/workshopd/internal/store"
)

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()

	scheme := runtime.NewScheme()
	require.NoError(t, trainingv1alpha1.AddToScheme(scheme))
	return scheme
}

type fixture struct {
	client   client.Client
	store    *store.Store
	deployer *Deployer
}

func newFixture(t *testing.T, objects ...client.Object) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := store.New(db)
	require.NoError(t, s.Migrate())

	c := fake.NewClientBuilder().
		WithScheme(newScheme(t)).
		WithObjects(objects...).
		Build()

	cfg := &config.Settings{
		IngressDomain:   "tests.workshopd.local",
		IngressProtocol: "https",
		IngressSecret:   "wildcard-tls",
	}
	return &fixture{
		client:   c,
		store:    s,
		deployer: New(c, s, locking.NewKeyedMutex(), cfg),
	}
}

type seed struct {
	owner             string
	token             string
	state             store.SessionState
	resourceUID       string
	durationSeconds   int64
	inactivitySeconds int64
	portalHostname    string
	frameAncestors    string
}

func (f *fixture) seedSession(t *testing.T, name string, sd seed) {
	t.Helper()

	if sd.state == "" {
		sd.state = store.SessionStarting
	}
	err := f.store.Transaction(context.Background(), func(tx *store.Tx) error {
		portal := &store.TrainingPortal{
			Name:           "lab-portal",
			Hostname:       sd.portalHostname,
			FrameAncestors: sd.frameAncestors,
		}
		if err := tx.SavePortal(portal); err != nil {
			return err
		}
		environment := &store.WorkshopEnvironment{
			Name:              "lab-w01",
			PortalID:          portal.ID,
			Capacity:          5,
			ResourceUID:       sd.resourceUID,
			DurationSeconds:   sd.durationSeconds,
			InactivitySeconds: sd.inactivitySeconds,
		}
		if err := tx.SaveEnvironment(environment); err != nil {
			return err
		}
		if err := tx.CreateCredential(&store.ClientCredential{
			SessionName: name,
			ClientID:    name,
			Secret:      "0123456789abcdef0123456789abcdef",
		}); err != nil {
			return err
		}
		return tx.CreateSession(&store.Session{
			Name:          name,
			SessionID:     "s001",
			State:         sd.state,
			Owner:         sd.owner,
			Token:         sd.token,
			Created:       time.Now().UTC(),
			EnvironmentID: environment.ID,
		})
	})
	require.NoError(t, err)
}

func (f *fixture) sessionState(t *testing.T, name string) store.SessionState {
	t.Helper()

	var state store.SessionState
	err := f.store.Transaction(context.Background(), func(tx *store.Tx) error {
		session, err := tx.Session(name)
		if err != nil {
			return err
		}
		state = session.State
		return nil
	})
	require.NoError(t, err)
	return state
}

func envValue(env []trainingv1alpha1.EnvVar, name string) (string, bool) {
	for _, item := range env {
		if item.Name == name {
			return item.Value, true
		}
	}
	return "", false
}

func TestDeployAllocatedSessionGoesRunning(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, "lab-w01-s001", seed{owner: "alice"})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	resource := &trainingv1alpha1.WorkshopSession{}
	err := f.client.Get(context.Background(), types.NamespacedName{Name: "lab-w01-s001"}, resource)
	require.NoError(t, err)

	assert.Equal(t, "lab-w01", resource.Spec.Environment.Name)
	assert.Equal(t, "s001", resource.Spec.Session.ID)
	assert.Equal(t, "tests.workshopd.local", resource.Spec.Session.Ingress.Domain)
	assert.Equal(t, "wildcard-tls", resource.Spec.Session.Ingress.Secret)

	clientID, ok := envValue(resource.Spec.Session.Env, "PORTAL_CLIENT_ID")
	require.True(t, ok)
	assert.Equal(t, "lab-w01-s001", clientID)

	apiURL, ok := envValue(resource.Spec.Session.Env, "PORTAL_API_URL")
	require.True(t, ok)
	assert.Equal(t, "https://lab-portal-ui.tests.workshopd.local", apiURL)

	restartURL, ok := envValue(resource.Spec.Session.Env, "RESTART_URL")
	require.True(t, ok)
	assert.Equal(t, "https://lab-portal-ui.tests.workshopd.local/workshops/catalog/", restartURL)

	_, ok = envValue(resource.Spec.Session.Env, "ENABLE_COUNTDOWN")
	assert.False(t, ok)

	assert.Equal(t, store.SessionRunning, f.sessionState(t, "lab-w01-s001"))
}

func TestDeployUnallocatedReserveGoesWaiting(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, "lab-w01-s001", seed{})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	assert.Equal(t, store.SessionWaiting, f.sessionState(t, "lab-w01-s001"))
}

func TestDeployTokenedSessionGoesWaiting(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, "lab-w01-s001", seed{owner: "alice", token: "token-1"})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	assert.Equal(t, store.SessionWaiting, f.sessionState(t, "lab-w01-s001"))
}

func TestDeploySkipsSessionNoLongerStarting(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, "lab-w01-s001", seed{state: store.SessionStopping})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	resource := &trainingv1alpha1.WorkshopSession{}
	err := f.client.Get(context.Background(), types.NamespacedName{Name: "lab-w01-s001"}, resource)
	// No resource must appear for a session on its way out.
	assert.Error(t, err)
	assert.Equal(t, store.SessionStopping, f.sessionState(t, "lab-w01-s001"))
}

func TestDeployToleratesExistingResource(t *testing.T) {
	existing := &trainingv1alpha1.WorkshopSession{}
	existing.Name = "lab-w01-s001"

	f := newFixture(t, existing)
	f.seedSession(t, "lab-w01-s001", seed{owner: "alice"})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	assert.Equal(t, store.SessionRunning, f.sessionState(t, "lab-w01-s001"))
}

func TestDeployExpiringSessionGetsCountdown(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, "lab-w01-s001", seed{owner: "alice", durationSeconds: 3600})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	resource := &trainingv1alpha1.WorkshopSession{}
	require.NoError(t, f.client.Get(context.Background(), types.NamespacedName{Name: "lab-w01-s001"}, resource))

	restartURL, ok := envValue(resource.Spec.Session.Env, "RESTART_URL")
	require.True(t, ok)
	assert.Equal(t, "https://lab-portal-ui.tests.workshopd.local/workshops/session/lab-w01-s001/delete/", restartURL)

	countdown, ok := envValue(resource.Spec.Session.Env, "ENABLE_COUNTDOWN")
	require.True(t, ok)
	assert.Equal(t, "true", countdown)
}

func TestDeployUsesRecordedPortalHostnameAndAncestors(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, "lab-w01-s001", seed{
		owner:          "alice",
		portalHostname: "labs.example.com",
		frameAncestors: "https://lms.example.com,https://intranet.example.com",
	})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	resource := &trainingv1alpha1.WorkshopSession{}
	require.NoError(t, f.client.Get(context.Background(), types.NamespacedName{Name: "lab-w01-s001"}, resource))

	// A portal with a hostname override must hand sessions that hostname,
	// not the derived one.
	apiURL, ok := envValue(resource.Spec.Session.Env, "PORTAL_API_URL")
	require.True(t, ok)
	assert.Equal(t, "https://labs.example.com", apiURL)

	ancestors, ok := envValue(resource.Spec.Session.Env, "FRAME_ANCESTORS")
	require.True(t, ok)
	assert.Equal(t, "https://lms.example.com,https://intranet.example.com", ancestors)
}

func TestDeploySetsEnvironmentOwnerReference(t *testing.T) {
	f := newFixture(t)
	f.seedSession(t, "lab-w01-s001", seed{owner: "alice", resourceUID: "env-uid-1234"})

	require.NoError(t, f.deployer.Deploy(context.Background(), "lab-w01-s001"))

	resource := &trainingv1alpha1.WorkshopSession{}
	require.NoError(t, f.client.Get(context.Background(), types.NamespacedName{Name: "lab-w01-s001"}, resource))

	require.Len(t, resource.OwnerReferences, 1)
	ref := resource.OwnerReferences[0]
	assert.Equal(t, "WorkshopEnvironment", ref.Kind)
	assert.Equal(t, "lab-w01", ref.Name)
	assert.Equal(t, types.UID("env-uid-1234"), ref.UID)
	require.NotNil(t, ref.Controller)
	assert.True(t, *ref.Controller)
}

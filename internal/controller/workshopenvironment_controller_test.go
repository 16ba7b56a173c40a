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

package controller

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
	"github.com/workshopd/workshopd/internal/locking"
	"github.com/workshopd/workshopd/internal/scheduler"
	"github.com/workshopd/workshopd/internal/store"
)

var _ = Describe("WorkshopEnvironment Controller", func() {
	const environmentName = "lab-w01"

	var (
		ctx        context.Context
		k8sClient  client.Client
		s          *store.Store
		reconciler *WorkshopEnvironmentReconciler
		deployed   []string
	)

	request := reconcile.Request{NamespacedName: types.NamespacedName{Name: environmentName}}

	newEnvironment := func() *trainingv1alpha1.WorkshopEnvironment {
		duration := metav1.Duration{Duration: time.Hour}
		return &trainingv1alpha1.WorkshopEnvironment{
			ObjectMeta: metav1.ObjectMeta{
				Name: environmentName,
				UID:  "environment-uid",
			},
			Spec: trainingv1alpha1.WorkshopEnvironmentSpec{
				Workshop: trainingv1alpha1.WorkshopRef{Name: "lab-markdown-sample"},
				Portal:   trainingv1alpha1.PortalRef{Name: "lab-portal"},
				Capacity: 5,
				Reserved: 2,
				Duration: &duration,
				Session: trainingv1alpha1.EnvironmentSession{
					Env: []trainingv1alpha1.EnvVar{{Name: "WORKSHOP_VARIANT", Value: "advanced"}},
				},
			},
		}
	}

	registerPortal := func() {
		Expect(s.Transaction(ctx, func(tx *store.Tx) error {
			return tx.SavePortal(&store.TrainingPortal{Name: "lab-portal"})
		})).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		scheme := newTestScheme()
		k8sClient = newTestClient(scheme, newEnvironment())
		s = newTestStore()
		deployed = nil

		cfg := &config.Settings{
			IngressDomain:   "tests.workshopd.local",
			IngressProtocol: "http",
		}
		reconciler = &WorkshopEnvironmentReconciler{
			Client: k8sClient,
			Scheme: scheme,
			Store:  s,
			Scheduler: scheduler.New(s, locking.NewKeyedMutex(), cfg, nil, func(name string) {
				deployed = append(deployed, name)
			}),
		}
	})

	It("requeues until the owning portal is registered", func() {
		result, err := reconciler.Reconcile(ctx, request)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RequeueAfter).To(Equal(retryDelay))
		Expect(deployed).To(BeEmpty())
	})

	It("surfaces storage failures instead of treating the portal as missing", func() {
		db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		broken := store.New(db)
		Expect(broken.Migrate()).To(Succeed())
		Expect(db.Migrator().DropTable(&store.TrainingPortal{})).To(Succeed())
		reconciler.Store = broken

		// A failing portal lookup must come back as an error, not as the
		// portal-not-registered requeue.
		_, err = reconciler.Reconcile(ctx, request)
		Expect(err).To(HaveOccurred())
	})

	It("records the environment and pre-warms its reserved pool", func() {
		registerPortal()

		result, err := reconciler.Reconcile(ctx, request)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(reconcile.Result{}))

		Expect(s.Transaction(ctx, func(tx *store.Tx) error {
			record, err := tx.Environment(environmentName)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Capacity).To(Equal(5))
			Expect(record.Reserved).To(Equal(2))
			Expect(record.ResourceUID).To(Equal("environment-uid"))
			Expect(record.DurationSeconds).To(Equal(int64(3600)))

			overlay, err := record.EnvOverlay()
			Expect(err).NotTo(HaveOccurred())
			Expect(overlay).To(ConsistOf(trainingv1alpha1.EnvVar{Name: "WORKSHOP_VARIANT", Value: "advanced"}))
			return nil
		})).To(Succeed())

		// Two reserve sessions were created and handed to the deployer.
		Expect(deployed).To(ConsistOf("lab-w01-s001", "lab-w01-s002"))
	})

	It("is idempotent across repeated events", func() {
		registerPortal()

		_, err := reconciler.Reconcile(ctx, request)
		Expect(err).NotTo(HaveOccurred())
		_, err = reconciler.Reconcile(ctx, request)
		Expect(err).NotTo(HaveOccurred())

		Expect(deployed).To(HaveLen(2))
	})
})

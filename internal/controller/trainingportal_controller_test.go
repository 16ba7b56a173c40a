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
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
	"github.com/workshopd/workshopd/internal/provision"
	"github.com/workshopd/workshopd/internal/store"
)

var _ = Describe("TrainingPortal Controller", func() {
	const portalName = "lab-portal"

	var (
		ctx        context.Context
		k8sClient  client.Client
		reconciler *TrainingPortalReconciler
		portal     *trainingv1alpha1.TrainingPortal
	)

	request := reconcile.Request{NamespacedName: types.NamespacedName{Name: portalName}}

	newPortal := func(phase trainingv1alpha1.PortalPhase) *trainingv1alpha1.TrainingPortal {
		p := &trainingv1alpha1.TrainingPortal{
			ObjectMeta: metav1.ObjectMeta{
				Name: portalName,
				UID:  "portal-uid",
			},
		}
		p.Status.Phase = phase
		if phase != "" {
			started := metav1.NewTime(time.Now().Add(-time.Minute))
			p.Status.ReconcileStartedAt = &started
		}
		return p
	}

	setup := func(objects ...client.Object) {
		ctx = context.Background()
		scheme := newTestScheme()
		k8sClient = newTestClient(scheme, objects...)

		cfg := &config.Settings{
			OperatorName:    "workshopd",
			IngressDomain:   "tests.workshopd.local",
			IngressProtocol: "http",
			PortalImage:     "workshopd/portal:2.0.1",
			AdminUsername:   "workshopd",
			AdminPassword:   "admin-secret",
			RobotUsername:   "robot@workshopd",
			RobotPassword:   "robot-secret",
			RobotClientID:   "robot-client",
		}
		reconciler = &TrainingPortalReconciler{
			Client:      k8sClient,
			Scheme:      scheme,
			Config:      cfg,
			Provisioner: provision.NewManager(k8sClient, scheme, cfg),
			Store:       newTestStore(),
		}
	}

	fetchPortal := func() *trainingv1alpha1.TrainingPortal {
		p := &trainingv1alpha1.TrainingPortal{}
		Expect(k8sClient.Get(ctx, types.NamespacedName{Name: portalName}, p)).To(Succeed())
		return p
	}

	Context("when provisioning a new portal", func() {
		BeforeEach(func() {
			portal = newPortal("")
			setup(portal)
		})

		It("reaches Running with all resources in place", func() {
			result, err := reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(reconcile.Result{}))

			updated := fetchPortal()
			Expect(updated.Status.Phase).To(Equal(trainingv1alpha1.PortalPhaseRunning))
			Expect(updated.Status.Namespace).To(Equal("lab-portal-ui"))
			Expect(updated.Status.URL).To(Equal("http://lab-portal-ui.tests.workshopd.local"))
			Expect(updated.Status.Credentials.Admin.Username).To(Equal("workshopd"))
			Expect(updated.Status.Credentials.Robot.Password).To(Equal("robot-secret"))
			Expect(updated.Status.Clients.Robot.ID).To(Equal("robot-client"))

			ns := &corev1.Namespace{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "lab-portal-ui"}, ns)).To(Succeed())
			Expect(ns.OwnerReferences).To(HaveLen(1))
			Expect(ns.OwnerReferences[0].UID).To(Equal(portal.UID))

			deployment := &appsv1.Deployment{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{
				Name:      provision.PortalResourceName,
				Namespace: "lab-portal-ui",
			}, deployment)).To(Succeed())
		})

		It("records the portal for the capacity scheduler", func() {
			current := fetchPortal()
			current.Spec.Portal.Sessions.Maximum = 8
			current.Spec.Portal.Ingress.Hostname = "labs.example.com"
			current.Spec.Portal.Theme.Frame.Ancestors = []string{"https://lms.example.com", "https://intranet.example.com"}
			Expect(k8sClient.Update(ctx, current)).To(Succeed())

			_, err := reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())

			Expect(reconciler.Store.Transaction(ctx, func(tx *store.Tx) error {
				record, err := tx.Portal(portalName)
				Expect(err).NotTo(HaveOccurred())
				Expect(record.SessionsMaximum).To(Equal(8))
				// Sessions read their portal URL and embedding policy from
				// the record, so the resolved values must land here.
				Expect(record.Hostname).To(Equal("labs.example.com"))
				Expect(record.FrameAncestors).To(Equal("https://lms.example.com,https://intranet.example.com"))
				return nil
			})).To(Succeed())
		})
	})

	Context("when the portal is already running", func() {
		BeforeEach(func() {
			portal = newPortal(trainingv1alpha1.PortalPhaseRunning)
			setup(portal)
		})

		It("reconciles as a no-op", func() {
			result, err := reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(reconcile.Result{}))

			// No namespace must appear from a no-op pass.
			ns := &corev1.Namespace{}
			err = k8sClient.Get(ctx, types.NamespacedName{Name: "lab-portal-ui"}, ns)
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
		})
	})

	Context("when the namespace is held by another owner", func() {
		BeforeEach(func() {
			portal = newPortal("")
			foreign := &corev1.Namespace{
				ObjectMeta: metav1.ObjectMeta{
					Name: "lab-portal-ui",
					OwnerReferences: []metav1.OwnerReference{{
						APIVersion: trainingv1alpha1.GroupVersion.String(),
						Kind:       "TrainingPortal",
						Name:       portalName,
						UID:        "previous-incarnation",
					}},
				},
			}
			setup(portal, foreign)
		})

		It("moves to Pending and waits without touching the namespace", func() {
			result, err := reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(Equal(retryDelay))

			Expect(fetchPortal().Status.Phase).To(Equal(trainingv1alpha1.PortalPhasePending))

			ns := &corev1.Namespace{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: "lab-portal-ui"}, ns)).To(Succeed())
			Expect(ns.OwnerReferences[0].UID).To(Equal(types.UID("previous-incarnation")))
		})
	})

	Context("when retrying after a failed attempt", func() {
		BeforeEach(func() {
			portal = newPortal(trainingv1alpha1.PortalPhaseRetrying)
			owned := &corev1.Namespace{
				ObjectMeta: metav1.ObjectMeta{
					Name: "lab-portal-ui",
					OwnerReferences: []metav1.OwnerReference{{
						APIVersion: trainingv1alpha1.GroupVersion.String(),
						Kind:       "TrainingPortal",
						Name:       portalName,
						UID:        "portal-uid",
					}},
				},
			}
			setup(portal, owned)
		})

		It("deletes the leftover namespace and schedules another attempt", func() {
			result, err := reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(Equal(retryDelay))

			ns := &corev1.Namespace{}
			err = k8sClient.Get(ctx, types.NamespacedName{Name: "lab-portal-ui"}, ns)
			Expect(apierrors.IsNotFound(err)).To(BeTrue())

			// The next attempt starts from scratch and heals fully.
			result, err = reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(reconcile.Result{}))
			Expect(fetchPortal().Status.Phase).To(Equal(trainingv1alpha1.PortalPhaseRunning))
		})
	})

	Context("when an owned namespace exists without a retry marker", func() {
		BeforeEach(func() {
			portal = newPortal(trainingv1alpha1.PortalPhasePending)
			owned := &corev1.Namespace{
				ObjectMeta: metav1.ObjectMeta{
					Name: "lab-portal-ui",
					OwnerReferences: []metav1.OwnerReference{{
						APIVersion: trainingv1alpha1.GroupVersion.String(),
						Kind:       "TrainingPortal",
						Name:       portalName,
						UID:        "portal-uid",
					}},
				},
			}
			setup(portal, owned)
		})

		It("flags the portal for operator attention", func() {
			result, err := reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RequeueAfter).To(Equal(retryDelay))
			Expect(fetchPortal().Status.Phase).To(Equal(trainingv1alpha1.PortalPhaseError))
		})
	})

	Context("when the provisioning budget is exhausted", func() {
		BeforeEach(func() {
			portal = newPortal(trainingv1alpha1.PortalPhaseRetrying)
			started := metav1.NewTime(time.Now().Add(-20 * time.Minute))
			portal.Status.ReconcileStartedAt = &started
			setup(portal)
		})

		It("gives up terminally", func() {
			result, err := reconciler.Reconcile(ctx, request)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(reconcile.Result{}))
			Expect(fetchPortal().Status.Phase).To(Equal(trainingv1alpha1.PortalPhaseError))
		})
	})
})

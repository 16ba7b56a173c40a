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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PortalPhase tracks provisioning progress for a training portal.
type PortalPhase string

const (
	// PortalPhasePending means the portal namespace is held by another party
	// and provisioning is waiting for it to be released.
	PortalPhasePending PortalPhase = "Pending"

	// PortalPhaseRunning means the portal namespace and all supporting
	// resources exist and the web interface deployment has been created.
	PortalPhaseRunning PortalPhase = "Running"

	// PortalPhaseError means provisioning reached a state that requires
	// operator attention and will not self heal.
	PortalPhaseError PortalPhase = "Error"

	// PortalPhaseRetrying means a previous provisioning attempt failed part
	// way through and the namespace will be deleted and recreated on the
	// next attempt.
	PortalPhaseRetrying PortalPhase = "Retrying"
)

// PortalIngress controls how the portal web interface is exposed.
type PortalIngress struct {
	// Hostname overrides the default `<name>-ui.<ingress-domain>` hostname
	// for the portal. A bare name is qualified with the configured ingress
	// domain; a fully qualified name is used verbatim.
	// +optional
	Hostname string `json:"hostname,omitempty"`
}

// UserCredential is a username and password pair for a portal account.
type UserCredential struct {
	// +optional
	Username string `json:"username,omitempty"`
	// +optional
	Password string `json:"password,omitempty"`
}

// PortalCredentials holds the accounts the portal is provisioned with.
type PortalCredentials struct {
	// Admin is the interactive management account.
	// +optional
	Admin UserCredential `json:"admin,omitempty"`
	// Robot is the account used for REST API access.
	// +optional
	Robot UserCredential `json:"robot,omitempty"`
}

// OAuthClient identifies an OAuth client application registration.
type OAuthClient struct {
	// +optional
	ID string `json:"id,omitempty"`
	// +optional
	Secret string `json:"secret,omitempty"`
}

// PortalClients holds the OAuth client registrations for the portal.
type PortalClients struct {
	// Robot is the OAuth client used by the robot account.
	// +optional
	Robot OAuthClient `json:"robot,omitempty"`
}

// PortalFrame controls browser frame embedding of the portal.
type PortalFrame struct {
	// Ancestors lists origins permitted to embed the portal in a frame.
	// +optional
	Ancestors []string `json:"ancestors,omitempty"`
}

// PortalTheme customises the look of the portal web interface.
type PortalTheme struct {
	// +optional
	Frame PortalFrame `json:"frame,omitempty"`
}

// PortalRegistration controls self service account registration.
type PortalRegistration struct {
	// Type selects the registration workflow.
	// +kubebuilder:validation:Enum=one-step;anonymous
	// +kubebuilder:default="one-step"
	// +optional
	Type string `json:"type,omitempty"`

	// Enabled turns registration on or off.
	// +kubebuilder:default=true
	// +optional
	Enabled *bool `json:"enabled,omitempty"`
}

// PortalCatalog controls visibility of the workshop catalog.
type PortalCatalog struct {
	// +kubebuilder:validation:Enum=private;public
	// +kubebuilder:default="private"
	// +optional
	Visibility string `json:"visibility,omitempty"`
}

// PortalSessions bounds session allocation across the whole portal.
type PortalSessions struct {
	// Maximum is the cap on sessions allocated across all workshop
	// environments served by the portal. Zero means unbounded.
	// +kubebuilder:validation:Minimum=0
	// +optional
	Maximum int32 `json:"maximum,omitempty"`
}

// PortalConfig collects the portal facing settings of a TrainingPortal.
type PortalConfig struct {
	// +optional
	Ingress PortalIngress `json:"ingress,omitempty"`

	// Title shown in the portal web interface.
	// +kubebuilder:default="Workshops"
	// +optional
	Title string `json:"title,omitempty"`

	// Password gates access to the whole portal when set.
	// +optional
	Password string `json:"password,omitempty"`

	// Index is the URL users are redirected to from the portal root.
	// +optional
	Index string `json:"index,omitempty"`

	// Logo is an image data URI shown in the portal banner.
	// +optional
	Logo string `json:"logo,omitempty"`

	// +optional
	Theme PortalTheme `json:"theme,omitempty"`

	// +optional
	Registration PortalRegistration `json:"registration,omitempty"`

	// +optional
	Catalog PortalCatalog `json:"catalog,omitempty"`

	// +optional
	Sessions PortalSessions `json:"sessions,omitempty"`

	// Credentials override the process wide default portal accounts.
	// +optional
	Credentials PortalCredentials `json:"credentials,omitempty"`

	// Clients override the process wide default OAuth registrations.
	// +optional
	Clients PortalClients `json:"clients,omitempty"`
}

// GoogleAnalytics enables Google Analytics tracking.
type GoogleAnalytics struct {
	TrackingID string `json:"trackingId"`
}

// WebhookAnalytics forwards analytics events to an external collector.
type WebhookAnalytics struct {
	URL string `json:"url"`
}

// AnalyticsConfig holds the analytics integrations for a portal.
type AnalyticsConfig struct {
	// +optional
	Google *GoogleAnalytics `json:"google,omitempty"`
	// +optional
	Webhook *WebhookAnalytics `json:"webhook,omitempty"`
}

// TrainingPortalSpec defines the desired state of TrainingPortal.
type TrainingPortalSpec struct {
	// +optional
	Portal PortalConfig `json:"portal,omitempty"`

	// +optional
	Analytics *AnalyticsConfig `json:"analytics,omitempty"`
}

// TrainingPortalStatus defines the observed state of TrainingPortal.
type TrainingPortalStatus struct {
	// Phase reports provisioning progress.
	// +kubebuilder:validation:Enum=Pending;Running;Error;Retrying
	// +optional
	Phase PortalPhase `json:"phase,omitempty"`

	// Namespace is the namespace holding the portal deployment.
	// +optional
	Namespace string `json:"namespace,omitempty"`

	// URL is the external address of the portal web interface.
	// +optional
	URL string `json:"url,omitempty"`

	// Credentials are the resolved portal accounts, after applying any
	// defaults from the operator configuration.
	// +optional
	Credentials PortalCredentials `json:"credentials,omitempty"`

	// Clients are the resolved OAuth client registrations.
	// +optional
	Clients PortalClients `json:"clients,omitempty"`

	// ReconcileStartedAt marks the first provisioning attempt and bounds
	// the overall retry budget.
	// +optional
	ReconcileStartedAt *metav1.Time `json:"reconcileStartedAt,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="URL",type=string,JSONPath=`.status.url`

// TrainingPortal is the Schema for the trainingportals API.
type TrainingPortal struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TrainingPortalSpec   `json:"spec,omitempty"`
	Status TrainingPortalStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// TrainingPortalList contains a list of TrainingPortal.
type TrainingPortalList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TrainingPortal `json:"items"`
}

func init() {
	SchemeBuilder.Register(&TrainingPortal{}, &TrainingPortalList{})
}

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

// EnvironmentRef names the workshop environment a session was created from.
type EnvironmentRef struct {
	Name string `json:"name"`
}

// SessionIngress describes how session ingresses are exposed.
type SessionIngress struct {
	// +optional
	Domain string `json:"domain,omitempty"`
	// Secret is the TLS secret securing session hostnames.
	// +optional
	Secret string `json:"secret,omitempty"`
}

// SessionDetail carries the per session identity and configuration.
type SessionDetail struct {
	// ID is the short session identifier unique within the environment.
	ID string `json:"id"`

	// +optional
	Username string `json:"username,omitempty"`
	// +optional
	Password string `json:"password,omitempty"`

	// +optional
	Ingress SessionIngress `json:"ingress,omitempty"`

	// Env is the environment variable overlay for the session containers.
	// +optional
	Env []EnvVar `json:"env,omitempty"`
}

// WorkshopSessionSpec defines the desired state of WorkshopSession.
type WorkshopSessionSpec struct {
	Environment EnvironmentRef `json:"environment"`

	Session SessionDetail `json:"session"`

	// +optional
	Analytics *AnalyticsConfig `json:"analytics,omitempty"`
}

// WorkshopSessionStatus defines the observed state of WorkshopSession.
type WorkshopSessionStatus struct {
	// +optional
	Phase string `json:"phase,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Environment",type=string,JSONPath=`.spec.environment.name`

// WorkshopSession is the Schema for the workshopsessions API.
type WorkshopSession struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   WorkshopSessionSpec   `json:"spec,omitempty"`
	Status WorkshopSessionStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// WorkshopSessionList contains a list of WorkshopSession.
type WorkshopSessionList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []WorkshopSession `json:"items"`
}

func init() {
	SchemeBuilder.Register(&WorkshopSession{}, &WorkshopSessionList{})
}

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

// EnvVar is a name and value pair added to the environment of workshop
// session containers.
type EnvVar struct {
	Name string `json:"name"`
	// +optional
	Value string `json:"value,omitempty"`
}

// WorkshopRef names the workshop definition an environment is bound to.
type WorkshopRef struct {
	Name string `json:"name"`
}

// PortalRef names the training portal an environment belongs to.
type PortalRef struct {
	Name string `json:"name"`
}

// EnvironmentSession carries per session defaults for an environment.
type EnvironmentSession struct {
	// Env is the environment variable overlay applied to every session
	// created for this environment.
	// +optional
	Env []EnvVar `json:"env,omitempty"`
}

// WorkshopEnvironmentSpec defines the desired state of WorkshopEnvironment.
type WorkshopEnvironmentSpec struct {
	Workshop WorkshopRef `json:"workshop"`

	// +optional
	Portal PortalRef `json:"portal,omitempty"`

	// +optional
	Session EnvironmentSession `json:"session,omitempty"`

	// Capacity is the maximum number of concurrent sessions for this
	// environment. Zero disables session creation.
	// +kubebuilder:validation:Minimum=0
	// +optional
	Capacity int32 `json:"capacity,omitempty"`

	// Reserved is the target number of pre-warmed, unallocated sessions
	// kept on hand for this environment.
	// +kubebuilder:validation:Minimum=0
	// +optional
	Reserved int32 `json:"reserved,omitempty"`

	// Duration is the hard expiry applied to sessions of this environment.
	// +optional
	Duration *metav1.Duration `json:"duration,omitempty"`

	// Inactivity is the idle expiry applied to sessions of this environment.
	// +optional
	Inactivity *metav1.Duration `json:"inactivity,omitempty"`
}

// WorkshopEnvironmentStatus defines the observed state of WorkshopEnvironment.
type WorkshopEnvironmentStatus struct {
	// +optional
	Phase string `json:"phase,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:subresource:status

// WorkshopEnvironment is the Schema for the workshopenvironments API.
type WorkshopEnvironment struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   WorkshopEnvironmentSpec   `json:"spec,omitempty"`
	Status WorkshopEnvironmentStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// WorkshopEnvironmentList contains a list of WorkshopEnvironment.
type WorkshopEnvironmentList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []WorkshopEnvironment `json:"items"`
}

func init() {
	SchemeBuilder.Register(&WorkshopEnvironment{}, &WorkshopEnvironmentList{})
}

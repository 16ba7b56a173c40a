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

package provision

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
)

const (
	// PortalResourceName is the name shared by the namespaced objects
	// making up a portal deployment.
	PortalResourceName = "training-portal"

	// PortalServicePort is the port the portal web interface listens on.
	PortalServicePort = 8080
)

// EnsureSupporting creates the objects backing the portal web interface in
// a fixed order, the deployment strictly last. Nothing consumes compute
// until storage, config, network and identity are all in place, which
// keeps a partial failure safe to retry with a namespace wipe.
func (m *Manager) EnsureSupporting(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	steps := []struct {
		name string
		fn   func(context.Context, *trainingv1alpha1.TrainingPortal, *corev1.Namespace) error
	}{
		{"service account", m.ensureServiceAccount},
		{"cluster role binding", m.ensureClusterRoleBinding},
		{"persistent volume claim", m.ensurePersistentVolumeClaim},
		{"config map", m.ensureConfigMap},
		{"service", m.ensureService},
		{"ingress", m.ensureIngress},
		{"security policy binding", m.ensureSecurityPolicyBinding},
		{"deployment", m.ensureDeployment},
	}

	for _, step := range steps {
		if err := step.fn(ctx, portal, ns); err != nil {
			return fmt.Errorf("failed to ensure %s for portal %s: %w", step.name, portal.Name, err)
		}
	}
	return nil
}

func (m *Manager) portalLabels(portal *trainingv1alpha1.TrainingPortal) map[string]string {
	return map[string]string{
		componentLabel: "portal",
		portalLabel:    portal.Name,
	}
}

func (m *Manager) ensureServiceAccount(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	account := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PortalResourceName,
			Namespace: ns.Name,
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, account, func() error {
		account.Labels = m.portalLabels(portal)
		return nil
	})
	return err
}

// ensureClusterRoleBinding grants the portal service account the operator
// provided portal role. The binding is cluster scoped so it is owned by
// the namespace, matching its lifetime to the namespace's own.
func (m *Manager) ensureClusterRoleBinding(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	controller := true
	binding := &rbacv1.ClusterRoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name: fmt.Sprintf("%s-training-portal-%s", m.cfg.OperatorName, ns.Name),
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, binding, func() error {
		binding.Labels = m.portalLabels(portal)
		binding.OwnerReferences = []metav1.OwnerReference{{
			APIVersion: "v1",
			Kind:       "Namespace",
			Name:       ns.Name,
			UID:        ns.UID,
			Controller: &controller,
		}}
		binding.RoleRef = rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     fmt.Sprintf("%s-training-portal", m.cfg.OperatorName),
		}
		binding.Subjects = []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      PortalResourceName,
			Namespace: ns.Name,
		}}
		return nil
	})
	return err
}

func (m *Manager) ensurePersistentVolumeClaim(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	claim := &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PortalResourceName,
			Namespace: ns.Name,
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, claim, func() error {
		claim.Labels = m.portalLabels(portal)
		if claim.CreationTimestamp.IsZero() {
			claim.Spec.AccessModes = []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce}
			claim.Spec.Resources = corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse("1Gi"),
				},
			}
			if m.cfg.StorageClass != "" {
				claim.Spec.StorageClassName = &m.cfg.StorageClass
			}
		}
		return nil
	})
	return err
}

func (m *Manager) ensureConfigMap(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PortalResourceName,
			Namespace: ns.Name,
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, configMap, func() error {
		configMap.Labels = m.portalLabels(portal)
		configMap.Data = map[string]string{
			"logo":      portal.Spec.Portal.Logo,
			"theme.js":  m.cfg.PortalScript,
			"theme.css": m.cfg.PortalStyle,
		}
		return nil
	})
	return err
}

func (m *Manager) ensureService(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	service := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PortalResourceName,
			Namespace: ns.Name,
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, service, func() error {
		service.Labels = m.portalLabels(portal)
		service.Spec.Type = corev1.ServiceTypeClusterIP
		service.Spec.Ports = []corev1.ServicePort{{
			Port:       PortalServicePort,
			Protocol:   corev1.ProtocolTCP,
			TargetPort: intstr.FromInt32(PortalServicePort),
		}}
		service.Spec.Selector = map[string]string{"deployment": PortalResourceName}
		return nil
	})
	return err
}

func (m *Manager) ensureIngress(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	ingress := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PortalResourceName,
			Namespace: ns.Name,
		},
	}

	host := Hostname(m.cfg, portal)

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, ingress, func() error {
		ingress.Labels = m.portalLabels(portal)

		if ingress.Annotations == nil {
			ingress.Annotations = make(map[string]string)
		}
		if m.cfg.IngressClass != "" {
			ingress.Annotations["kubernetes.io/ingress.class"] = m.cfg.IngressClass
		}
		if m.cfg.IngressProtocol == "https" {
			ingress.Annotations["ingress.kubernetes.io/force-ssl-redirect"] = "true"
			ingress.Annotations["nginx.ingress.kubernetes.io/ssl-redirect"] = "true"
			ingress.Annotations["nginx.ingress.kubernetes.io/force-ssl-redirect"] = "true"
		}

		pathType := networkingv1.PathTypePrefix
		ingress.Spec.Rules = []networkingv1.IngressRule{{
			Host: host,
			IngressRuleValue: networkingv1.IngressRuleValue{
				HTTP: &networkingv1.HTTPIngressRuleValue{
					Paths: []networkingv1.HTTPIngressPath{{
						Path:     "/",
						PathType: &pathType,
						Backend: networkingv1.IngressBackend{
							Service: &networkingv1.IngressServiceBackend{
								Name: PortalResourceName,
								Port: networkingv1.ServiceBackendPort{Number: PortalServicePort},
							},
						},
					}},
				},
			},
		}}

		if m.cfg.IngressSecret != "" {
			ingress.Spec.TLS = []networkingv1.IngressTLS{{
				Hosts:      []string{host},
				SecretName: m.cfg.IngressSecret,
			}}
		}
		return nil
	})
	return err
}

// ensureSecurityPolicyBinding binds the pod security policy role when the
// cluster enforces policies with that engine. A no-op otherwise.
func (m *Manager) ensureSecurityPolicyBinding(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	if m.cfg.SecurityPolicyEngine != "psp" {
		return nil
	}

	binding := &rbacv1.RoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PortalResourceName + "-psp",
			Namespace: ns.Name,
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, binding, func() error {
		binding.Labels = m.portalLabels(portal)
		binding.RoleRef = rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     fmt.Sprintf("%s-training-portal-psp", m.cfg.OperatorName),
		}
		binding.Subjects = []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      PortalResourceName,
			Namespace: ns.Name,
		}}
		return nil
	})
	return err
}

func (m *Manager) ensureDeployment(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, ns *corev1.Namespace) error {
	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PortalResourceName,
			Namespace: ns.Name,
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, deployment, func() error {
		labels := m.portalLabels(portal)
		labels["training.workshopd.io/portal.services.dashboard"] = "true"
		deployment.Labels = labels

		podLabels := map[string]string{"deployment": PortalResourceName}
		for k, v := range labels {
			podLabels[k] = v
		}

		replicas := int32(1)
		runAsUser := int64(1001)

		deployment.Spec.Replicas = &replicas
		deployment.Spec.Selector = &metav1.LabelSelector{
			MatchLabels: map[string]string{"deployment": PortalResourceName},
		}
		deployment.Spec.Strategy = appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType}
		deployment.Spec.Template = corev1.PodTemplateSpec{
			ObjectMeta: metav1.ObjectMeta{Labels: podLabels},
			Spec: corev1.PodSpec{
				ServiceAccountName: PortalResourceName,
				SecurityContext: &corev1.PodSecurityContext{
					RunAsUser:          &runAsUser,
					FSGroup:            &m.cfg.StorageGroup,
					SupplementalGroups: []int64{m.cfg.StorageGroup},
				},
				Containers: []corev1.Container{{
					Name:            "portal",
					Image:           m.cfg.PortalImage,
					ImagePullPolicy: imagePullPolicy(m.cfg.PortalImage),
					Resources: corev1.ResourceRequirements{
						Requests: corev1.ResourceList{corev1.ResourceMemory: resource.MustParse("256Mi")},
						Limits:   corev1.ResourceList{corev1.ResourceMemory: resource.MustParse("256Mi")},
					},
					Ports: []corev1.ContainerPort{{
						ContainerPort: PortalServicePort,
						Protocol:      corev1.ProtocolTCP,
					}},
					ReadinessProbe: &corev1.Probe{
						ProbeHandler: corev1.ProbeHandler{
							HTTPGet: &corev1.HTTPGetAction{
								Path: "/accounts/login/",
								Port: intstr.FromInt32(PortalServicePort),
							},
						},
						InitialDelaySeconds: 10,
						PeriodSeconds:       10,
					},
					LivenessProbe: &corev1.Probe{
						ProbeHandler: corev1.ProbeHandler{
							HTTPGet: &corev1.HTTPGetAction{
								Path: "/accounts/login/",
								Port: intstr.FromInt32(PortalServicePort),
							},
						},
						InitialDelaySeconds: 15,
						PeriodSeconds:       10,
					},
					Env: m.portalEnv(portal),
					VolumeMounts: []corev1.VolumeMount{
						{Name: "data", MountPath: "/opt/app-root/data"},
						{Name: "config", MountPath: "/opt/app-root/config"},
					},
				}},
				Volumes: []corev1.Volume{
					{
						Name: "data",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: PortalResourceName,
							},
						},
					},
					{
						Name: "config",
						VolumeSource: corev1.VolumeSource{
							ConfigMap: &corev1.ConfigMapVolumeSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: PortalResourceName},
							},
						},
					},
				},
			},
		}

		// Some clusters never fix up volume ownership themselves, so an
		// init container running as root makes the storage writable.
		// Only viable where pod security policies are not enforced.
		if m.cfg.StorageUser != 0 {
			rootUser := int64(0)
			deployment.Spec.Template.Spec.InitContainers = []corev1.Container{{
				Name:            "storage-permissions-initialization",
				Image:           m.cfg.PortalImage,
				ImagePullPolicy: imagePullPolicy(m.cfg.PortalImage),
				SecurityContext: &corev1.SecurityContext{RunAsUser: &rootUser},
				Command:         []string{"/bin/sh", "-c"},
				Args: []string{fmt.Sprintf("chown %d:%d /mnt && chmod og+rwx /mnt",
					m.cfg.StorageUser, m.cfg.StorageGroup)},
				Resources: corev1.ResourceRequirements{
					Requests: corev1.ResourceList{corev1.ResourceMemory: resource.MustParse("256Mi")},
					Limits:   corev1.ResourceList{corev1.ResourceMemory: resource.MustParse("256Mi")},
				},
				VolumeMounts: []corev1.VolumeMount{{Name: "data", MountPath: "/mnt"}},
			}}
		}
		return nil
	})
	return err
}

// portalEnv assembles the environment of the portal web interface, with
// per portal overrides already layered over the process wide defaults.
func (m *Manager) portalEnv(portal *trainingv1alpha1.TrainingPortal) []corev1.EnvVar {
	credentials := Credentials(m.cfg, portal)
	clients := Clients(m.cfg, portal)

	title := portal.Spec.Portal.Title
	if title == "" {
		title = "Workshops"
	}

	registrationType := portal.Spec.Portal.Registration.Type
	if registrationType == "" {
		registrationType = "one-step"
	}
	enableRegistration := true
	if portal.Spec.Portal.Registration.Enabled != nil {
		enableRegistration = *portal.Spec.Portal.Registration.Enabled
	}

	catalogVisibility := portal.Spec.Portal.Catalog.Visibility
	if catalogVisibility == "" {
		catalogVisibility = "private"
	}

	googleTrackingID := m.cfg.GoogleTrackingID
	analyticsWebhookURL := m.cfg.AnalyticsWebhookURL
	if analytics := portal.Spec.Analytics; analytics != nil {
		if analytics.Google != nil {
			googleTrackingID = analytics.Google.TrackingID
		}
		if analytics.Webhook != nil {
			analyticsWebhookURL = analytics.Webhook.URL
		}
	}

	return []corev1.EnvVar{
		{Name: "OPERATOR_NAME", Value: m.cfg.OperatorName},
		{Name: "TRAINING_PORTAL", Value: portal.Name},
		{Name: "PORTAL_UID", Value: string(portal.UID)},
		{Name: "PORTAL_HOSTNAME", Value: Hostname(m.cfg, portal)},
		{Name: "PORTAL_TITLE", Value: title},
		{Name: "PORTAL_PASSWORD", Value: portal.Spec.Portal.Password},
		{Name: "PORTAL_INDEX", Value: portal.Spec.Portal.Index},
		{Name: "FRAME_ANCESTORS", Value: strings.Join(portal.Spec.Portal.Theme.Frame.Ancestors, ",")},
		{Name: "ADMIN_USERNAME", Value: credentials.Admin.Username},
		{Name: "ADMIN_PASSWORD", Value: credentials.Admin.Password},
		{Name: "ROBOT_USERNAME", Value: credentials.Robot.Username},
		{Name: "ROBOT_PASSWORD", Value: credentials.Robot.Password},
		{Name: "ROBOT_CLIENT_ID", Value: clients.Robot.ID},
		{Name: "ROBOT_CLIENT_SECRET", Value: clients.Robot.Secret},
		{Name: "INGRESS_DOMAIN", Value: m.cfg.IngressDomain},
		{Name: "INGRESS_CLASS", Value: m.cfg.IngressClass},
		{Name: "INGRESS_PROTOCOL", Value: m.cfg.IngressProtocol},
		{Name: "INGRESS_SECRET", Value: m.cfg.IngressSecret},
		{Name: "REGISTRATION_TYPE", Value: registrationType},
		{Name: "ENABLE_REGISTRATION", Value: strconv.FormatBool(enableRegistration)},
		{Name: "CATALOG_VISIBILITY", Value: catalogVisibility},
		{Name: "GOOGLE_TRACKING_ID", Value: googleTrackingID},
		{Name: "ANALYTICS_WEBHOOK_URL", Value: analyticsWebhookURL},
		{Name: "DATABASE_URL", Value: m.cfg.DatabaseURL},
	}
}

// imagePullPolicy mirrors the convention of always pulling floating tags.
func imagePullPolicy(image string) corev1.PullPolicy {
	if strings.HasSuffix(image, ":main") || strings.HasSuffix(image, ":master") ||
		strings.HasSuffix(image, ":develop") || strings.HasSuffix(image, ":latest") ||
		!strings.Contains(image, ":") {
		return corev1.PullAlways
	}
	return corev1.PullIfNotPresent
}

// Package k8s provides Kubernetes client configuration for the kube store.
//
// Key features:
//   - REST config building from kubeconfig files and contexts (BuildRESTConfig)
//   - Clientset creation with a request timeout (NewClientset)
//   - Kubeconfig context discovery (ListContexts)
package k8s

package k8s

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultKubeconfigPath returns the default kubeconfig path for the current user.
// The path is constructed as ~/.kube/config using the user's home directory.
func DefaultKubeconfigPath() string {
	homeDir, _ := os.UserHomeDir()

	return filepath.Join(homeDir, ".kube", "config")
}

// BuildRESTConfig builds a Kubernetes REST config from kubeconfig path and optional context.
//
// The kubeconfig parameter must be a non-empty path to a valid kubeconfig file.
// If context is empty, the current context from the kubeconfig is used.
//
// Returns ErrKubeconfigPathEmpty if kubeconfig path is empty.
func BuildRESTConfig(kubeconfig, context string) (*rest.Config, error) {
	if kubeconfig == "" {
		return nil, ErrKubeconfigPathEmpty
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}

	overrides := &clientcmd.ConfigOverrides{}
	if context != "" {
		overrides.CurrentContext = context
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	return restConfig, nil
}

// NewClientset creates a Kubernetes clientset for kubeconfig and context.
// A positive timeout bounds every request made through the clientset.
func NewClientset(kubeconfig, context string, timeout time.Duration) (kubernetes.Interface, error) {
	restConfig, err := BuildRESTConfig(kubeconfig, context)
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}

	if timeout > 0 {
		restConfig.Timeout = timeout
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return clientset, nil
}

// ListContexts returns the context names defined in kubeconfig, sorted, and
// the current context.
func ListContexts(kubeconfig string) ([]string, string, error) {
	if kubeconfig == "" {
		return nil, "", ErrKubeconfigPathEmpty
	}

	config, err := clientcmd.LoadFromFile(kubeconfig)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	names := make([]string, 0, len(config.Contexts))
	for name := range config.Contexts {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, config.CurrentContext, nil
}

// EnsureContext verifies that context exists in kubeconfig. An empty context
// always passes and selects the current context.
func EnsureContext(kubeconfig, context string) error {
	if context == "" {
		return nil
	}

	names, _, err := ListContexts(kubeconfig)
	if err != nil {
		return err
	}

	if !slices.Contains(names, context) {
		return fmt.Errorf("%w: %q in %s", ErrContextNotFound, context, kubeconfig)
	}

	return nil
}

package configmanager

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	configmanagerinterface "github.com/devantler-tech/ksync/pkg/io/config-manager"
	"github.com/devantler-tech/ksync/pkg/utils/notify"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConfigFlag is the flag pointing at an explicit configuration file.
const ConfigFlag = "config"

// ErrInvalidConfig is returned when the loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigManager implements configuration management for ksync v1alpha1.Sync configurations.
type ConfigManager struct {
	Viper           *viper.Viper
	fieldSelectors  []FieldSelector[v1alpha1.Sync]
	Config          *v1alpha1.Sync
	configFileFound bool
	Writer          io.Writer      // Writer for output notifications
	command         *cobra.Command // Associated Cobra command for flag introspection
}

var _ configmanagerinterface.ConfigManager[v1alpha1.Sync] = (*ConfigManager)(nil)

// NewConfigManager creates a new configuration manager with the specified field selectors.
func NewConfigManager(writer io.Writer, fieldSelectors ...FieldSelector[v1alpha1.Sync]) *ConfigManager {
	viperInstance := InitializeViper()

	for _, selector := range fieldSelectors {
		if selector.Key != "" {
			_ = viperInstance.BindEnv(selector.Key)
		}
	}

	return &ConfigManager{
		Viper:          viperInstance,
		fieldSelectors: fieldSelectors,
		Config:         v1alpha1.NewSync(),
		Writer:         writer,
	}
}

// NewCommandConfigManager constructs a ConfigManager bound to the provided Cobra command.
// It registers the supplied field selectors as flags and writes output
// to the command's standard output writer.
func NewCommandConfigManager(cmd *cobra.Command, selectors []FieldSelector[v1alpha1.Sync]) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout(), selectors...)
	manager.command = cmd
	manager.AddFlagsFromFields(cmd)

	return manager
}

// AddFlagsFromFields registers one flag per field selector plus --config.
// Flags already defined on the command are left alone.
func (m *ConfigManager) AddFlagsFromFields(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Lookup(ConfigFlag) == nil {
		flags.String(ConfigFlag, "", "Path to a ksync.yaml file")
	}

	for _, selector := range m.fieldSelectors {
		if selector.Flag == "" || flags.Lookup(selector.Flag) != nil {
			continue
		}

		addFlag(flags, selector)
	}
}

//nolint:cyclop // one branch per supported field type
func addFlag(flags *pflag.FlagSet, selector FieldSelector[v1alpha1.Sync]) {
	switch selector.Selector(v1alpha1.NewSync()).(type) {
	case *v1alpha1.StoreType, *string:
		flags.String(selector.Flag, stringDefault(selector.DefaultValue), selector.Description)
	case *[]string:
		defaultValue, _ := selector.DefaultValue.([]string)
		flags.StringSlice(selector.Flag, defaultValue, selector.Description)
	case *bool:
		defaultValue, _ := selector.DefaultValue.(bool)
		flags.Bool(selector.Flag, defaultValue, selector.Description)
	case *int:
		defaultValue, _ := selector.DefaultValue.(int)
		flags.Int(selector.Flag, defaultValue, selector.Description)
	case *int64:
		defaultValue, _ := selector.DefaultValue.(int64)
		flags.Int64(selector.Flag, defaultValue, selector.Description)
	case *metav1.Duration:
		defaultValue, _ := selector.DefaultValue.(metav1.Duration)
		flags.Duration(selector.Flag, defaultValue.Duration, selector.Description)
	}
}

func stringDefault(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

// Load reads the configuration from files, environment variables and flags.
// Priority: defaults < config file < environment variables < flags.
func (m *ConfigManager) Load(opts configmanagerinterface.LoadOptions) (*v1alpha1.Sync, error) {
	start := time.Now()

	if !opts.Silent {
		m.notifyLoadingStart()
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	flagOverrides := m.captureChangedFlagValues()

	err := m.unmarshalAndApplyDefaults()
	if err != nil {
		return nil, err
	}

	err = m.applyFlagOverrides(flagOverrides)
	if err != nil {
		return nil, err
	}

	if !opts.SkipValidation {
		err = m.validateConfig()
		if err != nil {
			return nil, err
		}
	}

	if !opts.Silent {
		m.notifyLoadingComplete(time.Since(start))
	}

	return m.Config, nil
}

func (m *ConfigManager) readConfig(silent bool) error {
	if path := m.explicitConfigFile(); path != "" {
		m.Viper.SetConfigFile(path)
	}

	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		m.configFileFound = false

		if !silent {
			m.notifyUsingDefaults()
		}

		return nil
	}

	m.configFileFound = true

	if !silent {
		m.notifyConfigFound()
	}

	return nil
}

func (m *ConfigManager) explicitConfigFile() string {
	if m.command == nil {
		return ""
	}

	flag := m.command.Flags().Lookup(ConfigFlag)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}

func (m *ConfigManager) unmarshalAndApplyDefaults() error {
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			metav1DurationDecodeHook(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}

	// A config file must carry its own apiVersion and kind.
	if m.configFileFound {
		m.Config.APIVersion = ""
		m.Config.Kind = ""
	}

	err := m.Viper.Unmarshal(m.Config, decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	for _, fieldSelector := range m.fieldSelectors {
		fieldPtr := fieldSelector.Selector(m.Config)
		if fieldPtr != nil && isFieldEmpty(fieldPtr) && fieldSelector.DefaultValue != nil {
			setFieldValue(fieldPtr, fieldSelector.DefaultValue)
		}
	}

	return nil
}

func (m *ConfigManager) captureChangedFlagValues() map[string]string {
	if m.command == nil {
		return nil
	}

	overrides := make(map[string]string)

	m.command.Flags().Visit(func(f *pflag.Flag) {
		overrides[f.Name] = f.Value.String()
	})

	return overrides
}

func (m *ConfigManager) applyFlagOverrides(overrides map[string]string) error {
	if overrides == nil {
		return nil
	}

	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(m.Config)
		if fieldPtr == nil {
			continue
		}

		value, ok := overrides[selector.Flag]
		if !ok {
			continue
		}

		err := setFieldValueFromFlag(fieldPtr, value)
		if err != nil {
			return fmt.Errorf("failed to apply flag override for %s: %w", selector.Flag, err)
		}
	}

	return nil
}

func (m *ConfigManager) validateConfig() error {
	err := m.Config.Validate()
	if err == nil {
		return nil
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "%s",
		Args:    []any{err.Error()},
		Writer:  m.Writer,
	})

	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

// metav1DurationDecodeHook decodes duration strings such as "30s" into metav1.Duration.
func metav1DurationDecodeHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeFor[metav1.Duration]()

	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}

		switch value := data.(type) {
		case string:
			if value == "" {
				return metav1.Duration{}, nil
			}

			duration, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("parse duration %q: %w", value, err)
			}

			return metav1.Duration{Duration: duration}, nil
		case time.Duration:
			return metav1.Duration{Duration: value}, nil
		default:
			return data, nil
		}
	}
}

// isFieldEmpty checks if a field pointer points to an empty/zero value.
func isFieldEmpty(fieldPtr any) bool {
	fieldVal := reflect.ValueOf(fieldPtr)
	if fieldVal.Kind() != reflect.Ptr || fieldVal.IsNil() {
		return true
	}

	return fieldVal.Elem().IsZero()
}

// setFieldValue assigns value to the field behind fieldPtr when the types are compatible.
func setFieldValue(fieldPtr any, value any) {
	target := reflect.ValueOf(fieldPtr)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return
	}

	target = target.Elem()
	source := reflect.ValueOf(value)

	switch {
	case source.Type().AssignableTo(target.Type()):
		target.Set(source)
	case source.Type().ConvertibleTo(target.Type()):
		target.Set(source.Convert(target.Type()))
	}
}

func (m *ConfigManager) notifyLoadingStart() {
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Load config...",
		Emoji:   "⏳",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyUsingDefaults() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "using default config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyConfigFound() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "'%s' found",
		Args:    []any{m.Viper.ConfigFileUsed()},
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyLoadingComplete(elapsed time.Duration) {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config loaded",
		Elapsed: elapsed,
		Writer:  m.Writer,
	})
}

package cmd

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/decoderd/decoderd/internal/config"
	"github.com/decoderd/decoderd/pkg/duration"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing decoderd configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the default configuration",
	Long: `Dump the default configuration values in YAML format.

This shows all available configuration options with their default values.
You can redirect this output to a file to create a configuration template:

  decoderd config dump > config.yaml

Configuration can be set via:
  - Config file (config.yaml, ~/.decoderd/config.yaml, /etc/decoderd/config.yaml)
  - Environment variables (DECODERD_SERVER_PORT, DECODERD_DATABASE_DSN, etc.)
  - Command-line flags (for some options)

Environment variables use the DECODERD_ prefix and underscores for nesting.
Example: server.port -> DECODERD_SERVER_PORT`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

// toMap converts a struct to a map, formatting durations for human readability.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		key := fieldType.Tag.Get("mapstructure")
		if key == "" {
			key = fieldType.Tag.Get("yaml")
		}
		if key == "" {
			key = fieldType.Name
		}

		switch v := field.Interface().(type) {
		case time.Duration:
			result[key] = duration.Format(v)
		case config.Duration:
			result[key] = duration.Format(time.Duration(v))
		default:
			if field.Kind() == reflect.Struct {
				result[key] = toMap(field.Interface())
			} else {
				result[key] = field.Interface()
			}
		}
	}
	return result
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	// Load config with defaults (no file, just defaults)
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfgMap := toMap(cfg)

	yamlData, err := yaml.Marshal(cfgMap)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	fmt.Println("# decoderd Configuration File")
	fmt.Println("# ============================")
	fmt.Println("#")
	fmt.Println("# All values shown below are defaults.")
	fmt.Println("# Duration format: 30s, 5m, 1h, 30d")
	fmt.Println("#")
	fmt.Println("# Environment variable overrides:")
	fmt.Println("#   DECODERD_SERVER_HOST, DECODERD_SERVER_PORT")
	fmt.Println("#   DECODERD_DATABASE_DRIVER, DECODERD_DATABASE_DSN")
	fmt.Println("#   DECODERD_REGISTRY_KIND, DECODERD_REGISTRY_SNAPSHOT_PATH")
	fmt.Println("#   DECODERD_LOGGING_LEVEL, DECODERD_LOGGING_FORMAT")
	fmt.Println("#   etc.")
	fmt.Println("#")
	fmt.Println("")
	fmt.Print(string(yamlData))

	return nil
}

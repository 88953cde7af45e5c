package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/mode"
	"IoTDashboard/internal/models"

	"github.com/joho/godotenv"
)

const DefaultPath = "application.yml"

type Config struct {
	MockMode bool
	Services ServicesConfig
	MongoDB  MongoConfig
	UI       UIConfig
	Server   ServerConfig
	Security SecurityConfig
	Logging  LoggingConfig
	MQTT     MQTTConfig

	// Source is the settings file path, or "built-in mock defaults".
	Source string
}

type ServicesConfig struct {
	SimulatorURL string
	AnalyticsURL string
}

type MongoConfig struct {
	URI                    string
	Database               string
	AlertsCollection       string
	AnalyticsCollection    string
	ServerSelectionTimeout time.Duration
}

type UIConfig struct {
	RefreshSecondsDefault int
	AlertsLimitDefault    int
	AnalyticsLimitDefault int
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxHeaderBytes  int
}

type SecurityConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	RateLimitPerMinute int
	EnableRateLimit    bool
}

type LoggingConfig struct {
	Level     logger.Level
	Mode      logger.Mode
	FilePath  string
	UseColors bool
}

type MQTTConfig struct {
	Broker         string
	Port           int
	ClientID       string
	Username       string
	Password       string
	SnapshotTopic  string
	CommandTopic   string
	StatusTopic    string
	QoS            byte
	RetainMessages bool
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	AutoReconnect  bool
}

// Enabled reports whether an MQTT broker was configured.
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// RefreshInterval is the default auto-refresh period.
func (u UIConfig) RefreshInterval() time.Duration {
	return time.Duration(u.RefreshSecondsDefault) * time.Second
}

// Load builds the dashboard configuration. In mock mode the built-in defaults
// replace the settings file; otherwise the YAML file at path is parsed.
// Placeholders of the form ${NAME} or ${NAME:default} are resolved against the
// environment before any field is read.
func Load(path string, sw *mode.Switch) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	if path == "" {
		path = DefaultPath
	}

	var raw map[string]interface{}
	source := path
	if sw != nil && sw.IsMock() {
		raw = MockDefaults()
		source = "built-in mock defaults"
	} else {
		raw = readSettingsFile(path)
	}

	if len(raw) == 0 {
		return nil, &ConfigError{
			Kind: KindMissingFile,
			Path: path,
			Msg: fmt.Sprintf("configuration file '%s' is missing or invalid; "+
				"ensure it exists and is properly formatted", path),
		}
	}

	data := ResolveEnv(raw, os.LookupEnv)

	cfg, err := fromSettings(data)
	if err != nil {
		return nil, err
	}
	cfg.Source = source

	cfg.Server = loadServerConfig()
	cfg.Security = loadSecurityConfig()
	cfg.Logging = loadLoggingConfig()
	cfg.MQTT = loadMQTTConfig()
	cfg.MongoDB.ServerSelectionTimeout = getEnvAsDuration("MONGO_SERVER_SELECTION_TIMEOUT", "3s")

	return cfg, nil
}

func fromSettings(data map[string]interface{}) (*Config, error) {
	dashboard, ok := section(data, "dashboard")
	if !ok {
		return nil, &ConfigError{
			Kind:    KindMissingSection,
			Section: "dashboard",
			Msg:     "missing 'dashboard' section in configuration",
		}
	}

	cfg := &Config{
		MockMode: mode.IsTruthy(stringValue(dashboard["mock-mode"], "false")),
	}

	services, ok := section(dashboard, "services")
	if !ok && !cfg.MockMode {
		return nil, &ConfigError{
			Kind:    KindMissingSection,
			Section: "dashboard.services",
			Msg:     "missing 'dashboard.services' section in configuration",
		}
	}
	cfg.Services = ServicesConfig{
		SimulatorURL: nestedString(services, "simulator", "url"),
		AnalyticsURL: nestedString(services, "analytics", "url"),
	}
	if !cfg.MockMode {
		if missing := missingFields(map[string]string{
			"dashboard.services.simulator.url": cfg.Services.SimulatorURL,
			"dashboard.services.analytics.url": cfg.Services.AnalyticsURL,
		}); len(missing) > 0 {
			return nil, &ConfigError{
				Kind:    KindMissingField,
				Section: "dashboard.services",
				Field:   strings.Join(missing, ", "),
				Msg:     "missing service URLs in configuration: " + strings.Join(missing, ", "),
			}
		}
	}

	mongodb, ok := section(dashboard, "mongodb")
	if !ok && !cfg.MockMode {
		return nil, &ConfigError{
			Kind:    KindMissingSection,
			Section: "dashboard.mongodb",
			Msg:     "missing 'dashboard.mongodb' section in configuration",
		}
	}
	cfg.MongoDB = MongoConfig{
		URI:                 nestedString(mongodb, "uri"),
		Database:            nestedString(mongodb, "database"),
		AlertsCollection:    nestedString(mongodb, "collections", "alerts"),
		AnalyticsCollection: nestedString(mongodb, "collections", "analytics"),
	}
	if !cfg.MockMode {
		if missing := missingFields(map[string]string{
			"dashboard.mongodb.uri":                   cfg.MongoDB.URI,
			"dashboard.mongodb.database":              cfg.MongoDB.Database,
			"dashboard.mongodb.collections.alerts":    cfg.MongoDB.AlertsCollection,
			"dashboard.mongodb.collections.analytics": cfg.MongoDB.AnalyticsCollection,
		}); len(missing) > 0 {
			return nil, &ConfigError{
				Kind:    KindMissingField,
				Section: "dashboard.mongodb",
				Field:   strings.Join(missing, ", "),
				Msg:     "missing MongoDB configuration: " + strings.Join(missing, ", "),
			}
		}
	}

	ui, ok := section(dashboard, "ui")
	if !ok {
		return nil, &ConfigError{
			Kind:    KindMissingSection,
			Section: "dashboard.ui",
			Msg:     "missing 'dashboard.ui' section in configuration",
		}
	}

	var err error
	if cfg.UI.RefreshSecondsDefault, err = intField(ui, "refresh-seconds-default", 5); err != nil {
		return nil, err
	}
	if cfg.UI.AlertsLimitDefault, err = intField(ui, "alerts-limit-default", 50); err != nil {
		return nil, err
	}
	if cfg.UI.AnalyticsLimitDefault, err = intField(ui, "analytics-limit-default", 100); err != nil {
		return nil, err
	}

	return cfg, nil
}

func intField(ui map[string]interface{}, key string, def int) (int, error) {
	v, ok := ui[key]
	if !ok || v == nil {
		return def, nil
	}

	n, err := toInt(v)
	if err != nil {
		return 0, &ConfigError{
			Kind:    KindInvalidValue,
			Section: "dashboard.ui",
			Field:   key,
			Msg:     fmt.Sprintf("invalid UI configuration value for '%s': must be an integer", key),
			Err:     err,
		}
	}
	return n, nil
}

func toInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("%v is not a whole number", t)
		}
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for _, name := range []string{
		"dashboard.services.simulator.url",
		"dashboard.services.analytics.url",
		"dashboard.mongodb.uri",
		"dashboard.mongodb.database",
		"dashboard.mongodb.collections.alerts",
		"dashboard.mongodb.collections.analytics",
	} {
		if v, ok := fields[name]; ok && v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnvAsInt("SERVER_PORT", 8501),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "15s"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", "10s"),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", "10s"),
		MaxHeaderBytes:  getEnvAsInt("MAX_HEADER_BYTES", 1048576),
	}
}

func loadSecurityConfig() SecurityConfig {
	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	methods := getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,OPTIONS")

	return SecurityConfig{
		CORSAllowedOrigins: strings.Split(origins, ","),
		CORSAllowedMethods: strings.Split(methods, ","),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
		EnableRateLimit:    getEnvAsBool("ENABLE_RATE_LIMIT", true),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:     logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
		Mode:      logger.ParseMode(getEnv("LOG_MODE", "normal")),
		FilePath:  getEnv("LOG_FILE_PATH", ""),
		UseColors: getEnvAsBool("LOG_USE_COLORS", true),
	}
}

func loadMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:         getEnv("MQTT_BROKER", ""),
		Port:           getEnvAsInt("MQTT_PORT", 1883),
		ClientID:       getEnv("MQTT_CLIENT_ID", "iot-dashboard"),
		Username:       getEnv("MQTT_USERNAME", ""),
		Password:       getEnv("MQTT_PASSWORD", ""),
		SnapshotTopic:  getEnv("MQTT_SNAPSHOT_TOPIC", "dashboard/snapshot"),
		CommandTopic:   getEnv("MQTT_COMMAND_TOPIC", "dashboard/cmd"),
		StatusTopic:    getEnv("MQTT_STATUS_TOPIC", "dashboard/status"),
		QoS:            byte(getEnvAsInt("MQTT_QOS", 0)),
		RetainMessages: getEnvAsBool("MQTT_RETAIN", true),
		KeepAlive:      getEnvAsDuration("MQTT_KEEP_ALIVE", "60s"),
		ConnectTimeout: getEnvAsDuration("MQTT_CONNECT_TIMEOUT", "10s"),
		AutoReconnect:  getEnvAsBool("MQTT_AUTO_RECONNECT", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if c.UI.RefreshSecondsDefault < 1 {
		errors = append(errors, "dashboard.ui.refresh-seconds-default must be at least 1")
	}

	if c.UI.AlertsLimitDefault < 0 || c.UI.AlertsLimitDefault > models.MaxHistoryLimit {
		errors = append(errors, fmt.Sprintf("dashboard.ui.alerts-limit-default must be between 0 and %d", models.MaxHistoryLimit))
	}

	if c.UI.AnalyticsLimitDefault < 0 || c.UI.AnalyticsLimitDefault > models.MaxHistoryLimit {
		errors = append(errors, fmt.Sprintf("dashboard.ui.analytics-limit-default must be between 0 and %d", models.MaxHistoryLimit))
	}

	if c.MQTT.Enabled() && (c.MQTT.Port < 1 || c.MQTT.Port > 65535) {
		errors = append(errors, "MQTT_PORT must be between 1 and 65535")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (c *Config) Print() {
	mqttTarget := "disabled"
	if c.MQTT.Enabled() {
		mqttTarget = fmt.Sprintf("%s:%d -> %s", c.MQTT.Broker, c.MQTT.Port, c.MQTT.SnapshotTopic)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║              IoT Dashboard - Configuration               ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Printf("Source:          %s\n", c.Source)
	fmt.Printf("Mock Mode:       %v\n", c.MockMode)
	fmt.Printf("Server:          %s:%d\n", c.Server.Host, c.Server.Port)
	fmt.Printf("Simulator API:   %s\n", c.Services.SimulatorURL)
	fmt.Printf("Analytics API:   %s\n", c.Services.AnalyticsURL)
	fmt.Printf("MongoDB:         %s (%s, %s)\n", c.MongoDB.Database, c.MongoDB.AlertsCollection, c.MongoDB.AnalyticsCollection)
	fmt.Printf("Refresh:         %ds (alerts %d, analytics %d)\n",
		c.UI.RefreshSecondsDefault, c.UI.AlertsLimitDefault, c.UI.AnalyticsLimitDefault)
	fmt.Printf("MQTT:            %s\n", mqttTarget)
	fmt.Println("──────────────────────────────────────────────────────────")
}

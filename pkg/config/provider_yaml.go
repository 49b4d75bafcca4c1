package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Ingest  IngestYAML   `yaml:"ingest"`
		Storage StorageYAML  `yaml:"storage,omitempty"`
		Journal *JournalYAML `yaml:"journal,omitempty"`
		Status  *StatusYAML  `yaml:"status,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Ingest: IngestData{
			METARStations:         yamlConfig.Ingest.METARStations,
			TAFStations:           yamlConfig.Ingest.TAFStations,
			IntervalMinutes:       yamlConfig.Ingest.IntervalMinutes,
			MaxConcurrentFetches:  yamlConfig.Ingest.MaxConcurrentFetches,
			RequestTimeoutSeconds: yamlConfig.Ingest.RequestTimeoutSeconds,
			APIEndpoint:           yamlConfig.Ingest.APIEndpoint,
			UserAgent:             yamlConfig.Ingest.UserAgent,
		},
	}

	config.Storage = StorageData{
		Backend: yamlConfig.Storage.Backend,
	}
	if yamlConfig.Storage.S3 != nil {
		config.Storage.S3 = &S3Data{
			Bucket:       yamlConfig.Storage.S3.Bucket,
			Region:       yamlConfig.Storage.S3.Region,
			Endpoint:     yamlConfig.Storage.S3.Endpoint,
			AccessKey:    yamlConfig.Storage.S3.AccessKey,
			SecretKey:    yamlConfig.Storage.S3.SecretKey,
			UsePathStyle: yamlConfig.Storage.S3.UsePathStyle,
		}
	}
	if yamlConfig.Storage.GCS != nil {
		config.Storage.GCS = &GCSData{
			Bucket:          yamlConfig.Storage.GCS.Bucket,
			CredentialsJSON: yamlConfig.Storage.GCS.CredentialsJSON,
		}
	}

	if yamlConfig.Journal != nil {
		config.Journal = &JournalData{
			ConnectionString: yamlConfig.Journal.ConnectionString,
		}
	}
	if yamlConfig.Status != nil {
		config.Status = &StatusData{
			ListenAddr: yamlConfig.Status.ListenAddr,
			Port:       yamlConfig.Status.Port,
		}
	}

	y.config = config
	return config, nil
}

// GetIngestConfig returns the ingestion configuration
func (y *YAMLProvider) GetIngestConfig() (*IngestData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Ingest, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetJournalConfig returns the journal configuration; nil when the
// journal is not configured
func (y *YAMLProvider) GetJournalConfig() (*JournalData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Journal, nil
}

// GetStatusConfig returns the status server configuration; nil when the
// status server is not configured
func (y *YAMLProvider) GetStatusConfig() (*StatusData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Status, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format
type IngestYAML struct {
	METARStations         []string `yaml:"metar-stations,omitempty"`
	TAFStations           []string `yaml:"taf-stations,omitempty"`
	IntervalMinutes       int      `yaml:"interval-minutes,omitempty"`
	MaxConcurrentFetches  int      `yaml:"max-concurrent-fetches,omitempty"`
	RequestTimeoutSeconds int      `yaml:"request-timeout-seconds,omitempty"`
	APIEndpoint           string   `yaml:"api-endpoint,omitempty"`
	UserAgent             string   `yaml:"user-agent,omitempty"`
}

type StorageYAML struct {
	Backend string   `yaml:"backend,omitempty"`
	S3      *S3YAML  `yaml:"s3,omitempty"`
	GCS     *GCSYAML `yaml:"gcs,omitempty"`
}

type S3YAML struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	AccessKey    string `yaml:"access-key,omitempty"`
	SecretKey    string `yaml:"secret-key,omitempty"`
	UsePathStyle bool   `yaml:"use-path-style,omitempty"`
}

type GCSYAML struct {
	Bucket          string `yaml:"bucket"`
	CredentialsJSON string `yaml:"credentials-json,omitempty"`
}

type JournalYAML struct {
	ConnectionString string `yaml:"connection-string"`
}

type StatusYAML struct {
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
}

package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetIngestConfig() (*IngestData, error)
	GetStorageConfig() (*StorageData, error)
	GetJournalConfig() (*JournalData, error)
	GetStatusConfig() (*StatusData, error)

	// Configuration management (for future SQLite-specific operations)
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Ingest  IngestData   `json:"ingest"`
	Storage StorageData  `json:"storage,omitempty"`
	Journal *JournalData `json:"journal,omitempty"`
	Status  *StatusData  `json:"status,omitempty"`
}

// IngestData holds the scheduled-ingestion settings: which stations to
// pull for each report type and how the upstream client behaves
type IngestData struct {
	METARStations         []string `json:"metar_stations,omitempty"`
	TAFStations           []string `json:"taf_stations,omitempty"`
	IntervalMinutes       int      `json:"interval_minutes,omitempty"`
	MaxConcurrentFetches  int      `json:"max_concurrent_fetches,omitempty"`
	RequestTimeoutSeconds int      `json:"request_timeout_seconds,omitempty"`
	APIEndpoint           string   `json:"api_endpoint,omitempty"`
	UserAgent             string   `json:"user_agent,omitempty"`
}

// StorageData holds the configuration for object-store backends
type StorageData struct {
	Backend string   `json:"backend,omitempty"` // "s3", "gcs", or "memory"
	S3      *S3Data  `json:"s3,omitempty"`
	GCS     *GCSData `json:"gcs,omitempty"`
}

// S3Data configures the S3 (or S3-compatible) backend
type S3Data struct {
	Bucket       string `json:"bucket"`
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	AccessKey    string `json:"access_key,omitempty"`
	SecretKey    string `json:"secret_key,omitempty"`
	UsePathStyle bool   `json:"use_path_style,omitempty"`
}

// GCSData configures the Google Cloud Storage backend
type GCSData struct {
	Bucket          string `json:"bucket"`
	CredentialsJSON string `json:"credentials_json,omitempty"`
}

// JournalData configures the optional run journal database
type JournalData struct {
	ConnectionString string `json:"connection_string"`
}

// GetConnectionString returns the journal connection string, empty when
// the journal is not configured
func (j *JournalData) GetConnectionString() string {
	if j == nil {
		return ""
	}
	return j.ConnectionString
}

// StatusData configures the status HTTP server
type StatusData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

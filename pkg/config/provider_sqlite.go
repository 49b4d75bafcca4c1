package config

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// schema is applied on open so a fresh database is immediately usable.
const schema = `
CREATE TABLE IF NOT EXISTS configs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS ingest_configs (
	config_id INTEGER NOT NULL REFERENCES configs(id),
	interval_minutes INTEGER,
	max_concurrent_fetches INTEGER,
	request_timeout_seconds INTEGER,
	api_endpoint TEXT,
	user_agent TEXT
);
CREATE TABLE IF NOT EXISTS ingest_stations (
	config_id INTEGER NOT NULL REFERENCES configs(id),
	report_type TEXT NOT NULL,
	station_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS storage_configs (
	config_id INTEGER NOT NULL REFERENCES configs(id),
	backend_type TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	s3_bucket TEXT,
	s3_region TEXT,
	s3_endpoint TEXT,
	s3_access_key TEXT,
	s3_secret_key TEXT,
	s3_use_path_style INTEGER,
	gcs_bucket TEXT,
	gcs_credentials_json TEXT
);
CREATE TABLE IF NOT EXISTS journal_configs (
	config_id INTEGER NOT NULL REFERENCES configs(id),
	connection_string TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS status_configs (
	config_id INTEGER NOT NULL REFERENCES configs(id),
	listen_addr TEXT,
	port INTEGER
);
`

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply configuration schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	ingest, err := s.GetIngestConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingest config: %w", err)
	}
	config.Ingest = *ingest

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	journal, err := s.GetJournalConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load journal config: %w", err)
	}
	config.Journal = journal

	status, err := s.GetStatusConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load status config: %w", err)
	}
	config.Status = status

	return config, nil
}

// GetIngestConfig returns the ingestion configuration from the database
func (s *SQLiteProvider) GetIngestConfig() (*IngestData, error) {
	ingest := &IngestData{}

	query := `
		SELECT interval_minutes, max_concurrent_fetches, request_timeout_seconds,
		       api_endpoint, user_agent
		FROM ingest_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`
	var intervalMinutes, maxConcurrent, requestTimeout sql.NullInt64
	var apiEndpoint, userAgent sql.NullString

	err := s.db.QueryRow(query).Scan(
		&intervalMinutes, &maxConcurrent, &requestTimeout, &apiEndpoint, &userAgent,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query ingest config: %w", err)
	}

	if intervalMinutes.Valid {
		ingest.IntervalMinutes = int(intervalMinutes.Int64)
	}
	if maxConcurrent.Valid {
		ingest.MaxConcurrentFetches = int(maxConcurrent.Int64)
	}
	if requestTimeout.Valid {
		ingest.RequestTimeoutSeconds = int(requestTimeout.Int64)
	}
	if apiEndpoint.Valid {
		ingest.APIEndpoint = apiEndpoint.String
	}
	if userAgent.Valid {
		ingest.UserAgent = userAgent.String
	}

	stationsQuery := `
		SELECT report_type, station_id
		FROM ingest_stations
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY station_id
	`
	rows, err := s.db.Query(stationsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reportType, stationID string
		if err := rows.Scan(&reportType, &stationID); err != nil {
			return nil, fmt.Errorf("failed to scan ingest station row: %w", err)
		}
		switch reportType {
		case "metar":
			ingest.METARStations = append(ingest.METARStations, stationID)
		case "taf":
			ingest.TAFStations = append(ingest.TAFStations, stationID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingest station rows: %w", err)
	}

	return ingest, nil
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	query := `
		SELECT backend_type,
		       s3_bucket, s3_region, s3_endpoint, s3_access_key, s3_secret_key, s3_use_path_style,
		       gcs_bucket, gcs_credentials_json
		FROM storage_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default') AND enabled = 1
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query storage configs: %w", err)
	}
	defer rows.Close()

	storage := &StorageData{}

	for rows.Next() {
		var backendType string
		var s3Bucket, s3Region, s3Endpoint, s3AccessKey, s3SecretKey sql.NullString
		var s3UsePathStyle sql.NullBool
		var gcsBucket, gcsCredentialsJSON sql.NullString

		err := rows.Scan(
			&backendType,
			&s3Bucket, &s3Region, &s3Endpoint, &s3AccessKey, &s3SecretKey, &s3UsePathStyle,
			&gcsBucket, &gcsCredentialsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan storage config row: %w", err)
		}

		storage.Backend = backendType
		switch backendType {
		case "s3":
			storage.S3 = &S3Data{
				Bucket:       s3Bucket.String,
				Region:       s3Region.String,
				Endpoint:     s3Endpoint.String,
				AccessKey:    s3AccessKey.String,
				SecretKey:    s3SecretKey.String,
				UsePathStyle: s3UsePathStyle.Valid && s3UsePathStyle.Bool,
			}
		case "gcs":
			storage.GCS = &GCSData{
				Bucket:          gcsBucket.String,
				CredentialsJSON: gcsCredentialsJSON.String,
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage config rows: %w", err)
	}

	return storage, nil
}

// GetJournalConfig returns the journal configuration; nil when the
// journal is not configured
func (s *SQLiteProvider) GetJournalConfig() (*JournalData, error) {
	query := `
		SELECT connection_string
		FROM journal_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`
	var connectionString string
	err := s.db.QueryRow(query).Scan(&connectionString)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query journal config: %w", err)
	}
	return &JournalData{ConnectionString: connectionString}, nil
}

// GetStatusConfig returns the status server configuration; nil when the
// status server is not configured
func (s *SQLiteProvider) GetStatusConfig() (*StatusData, error) {
	query := `
		SELECT listen_addr, port
		FROM status_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`
	var listenAddr sql.NullString
	var port sql.NullInt64
	err := s.db.QueryRow(query).Scan(&listenAddr, &port)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query status config: %w", err)
	}

	status := &StatusData{}
	if listenAddr.Valid {
		status.ListenAddr = listenAddr.String
	}
	if port.Valid {
		status.Port = int(port.Int64)
	}
	return status, nil
}

// IsReadOnly returns false since SQLite configurations can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig writes a complete configuration, replacing whatever the
// database held for the default config
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return err
	}
	if err := s.clearExistingConfig(tx, configID); err != nil {
		return err
	}

	if err := s.insertIngestConfig(tx, configID, &configData.Ingest); err != nil {
		return err
	}
	if err := s.insertStorageConfig(tx, configID, &configData.Storage); err != nil {
		return err
	}
	if configData.Journal != nil {
		_, err = tx.Exec(`INSERT INTO journal_configs (config_id, connection_string) VALUES (?, ?)`,
			configID, configData.Journal.ConnectionString)
		if err != nil {
			return fmt.Errorf("failed to insert journal config: %w", err)
		}
	}
	if configData.Status != nil {
		_, err = tx.Exec(`INSERT INTO status_configs (config_id, listen_addr, port) VALUES (?, ?, ?)`,
			configID, configData.Status.ListenAddr, configData.Status.Port)
		if err != nil {
			return fmt.Errorf("failed to insert status config: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM configs WHERE name = 'default'`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		result, err := tx.Exec(`INSERT INTO configs (name) VALUES ('default')`)
		if err != nil {
			return 0, fmt.Errorf("failed to insert config row: %w", err)
		}
		return result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up config row: %w", err)
	}
	return id, nil
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	tables := []string{
		"ingest_configs", "ingest_stations", "storage_configs",
		"journal_configs", "status_configs",
	}
	for _, table := range tables {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE config_id = ?", table), configID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLiteProvider) insertIngestConfig(tx *sql.Tx, configID int64, ingest *IngestData) error {
	_, err := tx.Exec(`
		INSERT INTO ingest_configs
			(config_id, interval_minutes, max_concurrent_fetches, request_timeout_seconds, api_endpoint, user_agent)
		VALUES (?, ?, ?, ?, ?, ?)`,
		configID, ingest.IntervalMinutes, ingest.MaxConcurrentFetches,
		ingest.RequestTimeoutSeconds, ingest.APIEndpoint, ingest.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to insert ingest config: %w", err)
	}

	insert := `INSERT INTO ingest_stations (config_id, report_type, station_id) VALUES (?, ?, ?)`
	for _, station := range ingest.METARStations {
		if _, err := tx.Exec(insert, configID, "metar", station); err != nil {
			return fmt.Errorf("failed to insert METAR station %s: %w", station, err)
		}
	}
	for _, station := range ingest.TAFStations {
		if _, err := tx.Exec(insert, configID, "taf", station); err != nil {
			return fmt.Errorf("failed to insert TAF station %s: %w", station, err)
		}
	}
	return nil
}

func (s *SQLiteProvider) insertStorageConfig(tx *sql.Tx, configID int64, storage *StorageData) error {
	if storage.Backend == "" {
		return nil
	}
	var (
		s3Bucket, s3Region, s3Endpoint, s3AccessKey, s3SecretKey string
		s3UsePathStyle                                           bool
		gcsBucket, gcsCredentialsJSON                            string
	)
	if storage.S3 != nil {
		s3Bucket = storage.S3.Bucket
		s3Region = storage.S3.Region
		s3Endpoint = storage.S3.Endpoint
		s3AccessKey = storage.S3.AccessKey
		s3SecretKey = storage.S3.SecretKey
		s3UsePathStyle = storage.S3.UsePathStyle
	}
	if storage.GCS != nil {
		gcsBucket = storage.GCS.Bucket
		gcsCredentialsJSON = storage.GCS.CredentialsJSON
	}
	_, err := tx.Exec(`
		INSERT INTO storage_configs
			(config_id, backend_type, enabled,
			 s3_bucket, s3_region, s3_endpoint, s3_access_key, s3_secret_key, s3_use_path_style,
			 gcs_bucket, gcs_credentials_json)
		VALUES (?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		configID, storage.Backend,
		s3Bucket, s3Region, s3Endpoint, s3AccessKey, s3SecretKey, s3UsePathStyle,
		gcsBucket, gcsCredentialsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert storage config: %w", err)
	}
	return nil
}

package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "GUITARS_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/guitars", "Path the collection is served on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "GUITARS_BASE_PATH")
}

func corsOriginsFlag(v *viper.Viper) []string {
	return v.GetStringSlice("cors.origins")
}

func addCORSOriginsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringSlice("cors-origins", nil, "Origins allowed to call the collection from other sites")
	_ = v.BindPFlag("cors.origins", flags.Lookup("cors-origins"))
	_ = v.BindEnv("cors.origins", "GUITARS_CORS_ORIGINS")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", "filesystem", "Storage backend: filesystem, blob or postgres")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "GUITARS_STORAGE_TYPE")
}

func storageDirFlag(v *viper.Viper) string {
	return v.GetString("storage.dir")
}

func addStorageDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-dir", "/var/lib/guitarserver", "Where to put my data (filesystem storage)")
	_ = v.BindPFlag("storage.dir", flags.Lookup("storage-dir"))
	_ = v.BindEnv("storage.dir", "GUITARS_STORAGE_DIR")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-bucket", "", "Bucket url for blob storage (gs://, s3://, azblob://, file://)")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("storage-blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "GUITARS_STORAGE_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-prefix", "", "Key prefix inside the blob bucket")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("storage-blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "GUITARS_STORAGE_BLOB_PREFIX")
}

func storagePostgresDSNFlag(v *viper.Viper) string {
	return v.GetString("storage.postgres.dsn")
}

func addStoragePostgresDSNFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-postgres-dsn", "", "Connection string for postgres storage")
	_ = v.BindPFlag("storage.postgres.dsn", flags.Lookup("storage-postgres-dsn"))
	_ = v.BindEnv("storage.postgres.dsn", "GUITARS_STORAGE_POSTGRES_DSN")
}

func backupLimitFlag(v *viper.Viper) int {
	return v.GetInt("backup.limit")
}

func addBackupLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("backup-limit", 2, "Number of backups to keep, 0 disables backups")
	_ = v.BindPFlag("backup.limit", flags.Lookup("backup-limit"))
	_ = v.BindEnv("backup.limit", "GUITARS_BACKUP_LIMIT")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before shutting down")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "GUITARS_GRACEFUL_PERIOD")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}

func serverURLFlag(v *viper.Viper) string {
	return v.GetString("server.url")
}

func addServerURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("server-url", "http://localhost:8080", "Url of a running guitarserver")
	_ = v.BindPFlag("server.url", flags.Lookup("server-url"))
	_ = v.BindEnv("server.url", "GUITARS_SERVER_URL")
}

func clientTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("client.timeout")
}

func addClientTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("client-timeout", 10*time.Second, "Timeout for requests to the server")
	_ = v.BindPFlag("client.timeout", flags.Lookup("client-timeout"))
	_ = v.BindEnv("client.timeout", "GUITARS_CLIENT_TIMEOUT")
}

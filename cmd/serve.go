package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/foomo/guitarserver/pkg/guitars"
	"github.com/foomo/guitarserver/pkg/handler"
	"github.com/foomo/guitarserver/pkg/store"
	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func NewServeCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start http server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			basePath := basePathFlag(v)
			if strings.Trim(basePath, "/") == "" {
				return errors.New("base path must not be the root path")
			}

			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
				keel.WithOTLPGRPCTracer(otelEnabledFlag(v)),
			)

			l := svr.Logger()

			storage, err := createStorage(cmd.Context(), v, l)
			if err != nil {
				return fmt.Errorf("failed to create storage: %w", err)
			}

			s := store.New(l.Named("inst.store"), storage,
				store.WithBackupLimit(backupLimitFlag(v)),
			)

			svc := guitars.NewService(l.Named("inst.service"), s,
				guitars.WithBasePath(basePath),
			)
			if err := svc.Load(cmd.Context()); err != nil {
				return multierr.Append(err, s.Close())
			}

			isLoadedHealtherFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !svc.Loaded() {
					return errors.New("guitars not loaded yet")
				}
				return nil
			})
			svr.AddStartupHealthzers(isLoadedHealtherFn)
			svr.AddReadinessHealthzers(isLoadedHealtherFn)

			svr.AddClosers(func(ctx context.Context) error {
				return s.Close()
			})

			svr.AddServices(
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					handler.NewHTTP(l.Named("inst.handler"), svc,
						handler.WithCORSOrigins(corsOriginsFlag(v)...),
					),
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addAddressFlag(flags, v)
	addBasePathFlag(flags, v)
	addCORSOriginsFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageDirFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
	addStoragePostgresDSNFlag(flags, v)
	addBackupLimitFlag(flags, v)
	addGracefulPeriodFlag(flags, v)
	addOtelEnabledFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)

	return cmd
}

// supportedBlobSchemes lists the URL schemes supported by blob storage
var supportedBlobSchemes = []string{"gs://", "s3://", "azblob://", "file://"}

// createStorage creates a storage backend based on the configuration
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger) (store.Storage, error) {
	storageType := storageTypeFlag(v)
	blobBucket := storageBlobBucketFlag(v)
	postgresDSN := storagePostgresDSNFlag(v)

	if storageType != "blob" && blobBucket != "" {
		l.Warn("blob storage flags are set but storage-type is not 'blob'; blob config will be ignored",
			zap.String("storage-type", storageType),
			zap.String("blob-bucket", blobBucket),
		)
	}
	if storageType != "postgres" && postgresDSN != "" {
		l.Warn("postgres dsn is set but storage-type is not 'postgres'; it will be ignored",
			zap.String("storage-type", storageType),
		)
	}

	l.Info("creating storage", zap.String("type", storageType))

	switch storageType {
	case "blob":
		if blobBucket == "" {
			return nil, errors.New("blob bucket URL is required when storage-type is 'blob'")
		}
		if !isValidBlobScheme(blobBucket) {
			return nil, fmt.Errorf("unsupported blob storage URL scheme in %q; supported schemes: %s",
				blobBucket, strings.Join(supportedBlobSchemes, ", "))
		}
		l.Info("using blob storage",
			zap.String("bucket", blobBucket),
			zap.String("prefix", storageBlobPrefixFlag(v)),
		)
		return store.NewBlobStorage(ctx, blobBucket, storageBlobPrefixFlag(v))
	case "postgres":
		if postgresDSN == "" {
			return nil, errors.New("postgres dsn is required when storage-type is 'postgres'")
		}
		l.Info("using postgres storage")
		return store.NewPostgresStorage(ctx, postgresDSN)
	case "filesystem", "":
		dir := storageDirFlag(v)
		l.Info("using filesystem storage", zap.String("dir", dir))
		return store.NewFilesystemStorage(dir)
	default:
		return nil, fmt.Errorf("unknown storage type: %s (supported: filesystem, blob, postgres)", storageType)
	}
}

// isValidBlobScheme checks if the bucket URL has a supported scheme
func isValidBlobScheme(bucketURL string) bool {
	for _, scheme := range supportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}

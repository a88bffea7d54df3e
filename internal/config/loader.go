package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// Loader resolves the active configuration document.
type Loader interface {
	Load(ctx context.Context) (*domain.Settings, error)
}

// ObjectGetter is the subset of the S3 client used to fetch the remote document.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// FileLoader reads the configuration document from the local filesystem.
type FileLoader struct {
	Path string
}

func (l *FileLoader) Load(_ context.Context) (*domain.Settings, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.ConfigurationError{Source: l.Path, Err: fmt.Errorf("configuration file not found. Please check the path")}
		}
		return nil, &domain.ConfigurationError{Source: l.Path, Err: err}
	}
	defer f.Close()
	return decodeSettings(f, l.Path)
}

// ObjectLoader fetches the configuration document from an S3 object.
type ObjectLoader struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

func (l *ObjectLoader) source() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

func (l *ObjectLoader) Load(ctx context.Context) (*domain.Settings, error) {
	if l.Bucket == "" || l.Key == "" {
		return nil, &domain.ConfigurationError{Source: "remote", Err: errors.New("CONFIG_BUCKET and CONFIG_KEY are required to load the remote configuration")}
	}
	out, err := l.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.Bucket),
		Key:    aws.String(l.Key),
	})
	if err != nil {
		return nil, &domain.ConfigurationError{Source: l.source(), Err: fmt.Errorf("failed to fetch configuration object: %w", err)}
	}
	defer out.Body.Close()
	return decodeSettings(out.Body, l.source())
}

// Select picks the configuration strategy. The local document's
// features.use_local_config chooses between itself and the remote object; when
// the local document does not exist the remote object is used.
func Select(path string, objects ObjectGetter, bucket, key string, logger *slog.Logger) (Loader, error) {
	remote := &ObjectLoader{Client: objects, Bucket: bucket, Key: key}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if bucket == "" {
			return nil, &domain.ConfigurationError{
				Source: path,
				Err:    errors.New("neither a local configuration file nor a remote configuration object is available"),
			}
		}
		logger.Info("Local configuration not found, using remote configuration", "path", path, "source", remote.source())
		return remote, nil
	}
	if err != nil {
		return nil, &domain.ConfigurationError{Source: path, Err: err}
	}
	defer f.Close()

	features, err := decodeFeatures(f, path)
	if err != nil {
		return nil, err
	}
	if features.UseLocalConfig {
		logger.Info("Using local configuration", "path", path)
		return &FileLoader{Path: path}, nil
	}
	logger.Info("Using remote configuration", "source", remote.source())
	return remote, nil
}

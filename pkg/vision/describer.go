package vision

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"solemate-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// ErrorPrefix marks a failed description. Describe never returns an error value.
const ErrorPrefix = "ERROR_VISION:"

// StatusActive is the only staging status that allows a description request
const StatusActive = "ACTIVE"

const DefaultInstruction = "Describe this image in detail. If it contains footwear, describe the type of shoe, " +
	"its color, material, style and any visible brand. If it does not contain footwear, say plainly what the main object is."

// StagedObject is a file uploaded to the capability's addressable storage
type StagedObject struct {
	Name     string
	URI      string
	MIMEType string
	Status   string
}

// Stager uploads local files to the storage a vision model can reference.
// A Stager is opened per describe call and closed on every exit path.
type Stager interface {
	Stage(ctx context.Context, localPath, name, mimeType string) (*StagedObject, error)
	Release(ctx context.Context, obj *StagedObject) error
	Close() error
}

// StagerFactory opens a staging connection
type StagerFactory func(ctx context.Context) (Stager, error)

// Model issues the description request against a staged object
type Model interface {
	DescribeStaged(ctx context.Context, obj *StagedObject, instruction string) (string, error)
}

type Describer struct {
	openStager  StagerFactory
	model       Model
	logger      logger.ILogger
	timeout     time.Duration
	tempDir     string
	instruction string
}

func NewDescriber(openStager StagerFactory, model Model, log logger.ILogger, timeout time.Duration) *Describer {
	return &Describer{
		openStager:  openStager,
		model:       model,
		logger:      log,
		timeout:     timeout,
		tempDir:     os.TempDir(),
		instruction: DefaultInstruction,
	}
}

// WithTempDir overrides the directory used for the scoped temporary file
func (d *Describer) WithTempDir(dir string) *Describer {
	d.tempDir = dir
	return d
}

// Describe returns a natural-language description of the image, or a string
// starting with ErrorPrefix when any step fails.
func (d *Describer) Describe(ctx context.Context, data []byte, mimeType string) string {
	if len(data) == 0 {
		return ErrorPrefix + " empty image"
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	description, err := d.describe(ctx, data, mimeType)
	if err != nil {
		d.logger.Warn("VISION", "Image description failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Sprintf("%s %v", ErrorPrefix, err)
	}
	return description
}

func (d *Describer) describe(ctx context.Context, data []byte, mimeType string) (string, error) {
	tmp, err := os.CreateTemp(d.tempDir, "solemate-upload-*"+extensionFor(mimeType))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer d.removeTemp(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	stager, err := d.openStager(ctx)
	if err != nil {
		return "", fmt.Errorf("open stager: %w", err)
	}
	defer func() {
		if err := stager.Close(); err != nil {
			d.logger.Warn("VISION", "Failed to close stager", map[string]interface{}{"error": err.Error()})
		}
	}()

	obj, err := stager.Stage(ctx, tmpPath, stagedName(), mimeType)
	if err != nil {
		return "", fmt.Errorf("stage image: %w", err)
	}
	defer func() {
		// Release outlives the request context so a timed-out call still cleans up
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := stager.Release(releaseCtx, obj); err != nil {
			d.logger.Warn("VISION", "Failed to release staged image", map[string]interface{}{
				"name":  obj.Name,
				"error": err.Error(),
			})
		}
	}()

	if obj.Status != StatusActive {
		return "", fmt.Errorf("staged image not ready: status %q", obj.Status)
	}

	description, err := d.model.DescribeStaged(ctx, obj, d.instruction)
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("describe: empty description")
	}

	d.logger.Debug("VISION", "Image described", map[string]interface{}{
		"name":   obj.Name,
		"length": len(description),
	})
	return description, nil
}

func (d *Describer) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		d.logger.Warn("VISION", "Failed to remove temp file", map[string]interface{}{
			"path":  filepath.Base(path),
			"error": err.Error(),
		})
	}
}

// IsError reports whether a description is a failure sentinel
func IsError(description string) bool {
	return strings.HasPrefix(description, ErrorPrefix)
}

func stagedName() string {
	return "upload-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

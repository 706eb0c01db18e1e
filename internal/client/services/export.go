package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/filex"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var (
	ErrNotPermitted    = errors.New("not permitted")
	ErrUploadDisabled  = errors.New("upload is not configured (set PD_S3_BUCKET)")
	errEmptyExportBody = errors.New("export returned no data")
)

// S3Config locates the bucket exports are uploaded to.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}
)

// ExportService downloads backend exports and writes list pages to xlsx.
type ExportService struct {
	client client.Client
	dir    string
	s3     S3Config
	logger logging.Logger
}

func NewExportService(c client.Client, dir string, s3cfg S3Config, logger logging.Logger) *ExportService {
	return &ExportService{client: c, dir: dir, s3: s3cfg, logger: logger}
}

// Export downloads the full export in format and saves it under the export
// directory. Only staff and admins may export.
func (s *ExportService) Export(ctx context.Context, who models.Identity, format client.ExportFormat) (string, error) {
	if !who.Role().IsReviewer() {
		return "", ErrNotPermitted
	}

	data, err := s.client.Export(ctx, format)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", format, err)
	}
	if len(data) == 0 {
		return "", errEmptyExportBody
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, format.FileName())
	if err := filex.WriteFile(path, data); err != nil {
		return "", err
	}

	s.logger.Info(ctx, "export saved", "format", string(format), "path", path, "bytes", len(data))
	return path, nil
}

// Upload pushes a saved export to the configured bucket and returns its key.
func (s *ExportService) Upload(ctx context.Context, path string) (string, error) {
	if !s.s3.Enabled() {
		return "", ErrUploadDisabled
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	c, err := s.s3Client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	key := storageKey(filepath.Base(path))
	err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimetype.Detect(data).String()),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Info(ctx, "export uploaded", "bucket", s.s3.Bucket, "key", key)
	return key, nil
}

func (s *ExportService) s3Client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.s3.Region)}
	if s.s3.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.s3.AccessKey, s.s3.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.s3.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.s3.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func storageKey(name string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("exports/%d/%02d/%02d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), name)
}

var pageHeader = []any{"ID", "Title", "Student", "Department", "Supervisor", "Academic year", "Status", "Storage", "Submitted"}

// SavePage writes the given list rows to an xlsx workbook at path.
func (s *ExportService) SavePage(ctx context.Context, records []models.Prototype, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &pageHeader); err != nil {
		return err
	}

	for i, p := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		submitted := ""
		if !p.SubmissionDate.IsZero() {
			submitted = p.SubmissionDate.Format(time.DateOnly)
		}
		row := []any{
			p.ID, p.Title, p.Student.Username, p.Department.String(), p.Supervisor.Username,
			p.AcademicYear, p.Status.Label(), string(p.StorageLocation), submitted,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if _, err := filex.EnsureDir(dir); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	s.logger.Info(ctx, "page saved", "path", path, "rows", len(records))
	return nil
}

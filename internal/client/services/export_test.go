package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func staff() models.Identity {
	return models.Identity{User: models.User{ID: 3, Role: models.RoleStaff}, Resolved: true}
}

func TestExport_SavesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	fc := &fakeClient{ExportRet: []byte("%PDF-1.4 report")}
	s := NewExportService(fc, dir, S3Config{}, logging.Discard())

	path, err := s.Export(context.Background(), staff(), client.ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prototypes.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 report", string(data))
}

func TestExport_NotPermittedForStudents(t *testing.T) {
	fc := &fakeClient{ExportRet: []byte("x")}
	s := NewExportService(fc, t.TempDir(), S3Config{}, logging.Discard())

	student := models.Identity{User: models.User{ID: 7, Role: models.RoleStudent}, Resolved: true}
	_, err := s.Export(context.Background(), student, client.ExportExcel)
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, err = s.Export(context.Background(), models.Identity{}, client.ExportExcel)
	assert.ErrorIs(t, err, ErrNotPermitted)
	assert.Zero(t, fc.ExportCall, "no request without permission")
}

func TestExport_Errors(t *testing.T) {
	fc := &fakeClient{ExportErr: client.ErrUnavailable}
	s := NewExportService(fc, t.TempDir(), S3Config{}, logging.Discard())

	_, err := s.Export(context.Background(), staff(), client.ExportExcel)
	assert.ErrorIs(t, err, client.ErrUnavailable)

	fc.ExportErr = nil
	_, err = s.Export(context.Background(), staff(), client.ExportExcel)
	assert.ErrorIs(t, err, errEmptyExportBody)
}

func TestUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prototypes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 report"), 0o600))

	t.Run("disabled without bucket", func(t *testing.T) {
		s := NewExportService(&fakeClient{}, t.TempDir(), S3Config{}, logging.Discard())
		_, err := s.Upload(context.Background(), path)
		assert.ErrorIs(t, err, ErrUploadDisabled)
	})

	t.Run("puts object", func(t *testing.T) {
		var (
			gotIn   *s3.PutObjectInput
			gotBody []byte
			gotOpts s3.Options
		)
		oldLoad, oldNew, oldPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
		t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig, putObject = oldLoad, oldNew, oldPut })

		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
			return aws.Config{Region: "eu-north-1"}, nil
		}
		newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
			for _, fn := range optFns {
				fn(&gotOpts)
			}
			return s3.NewFromConfig(cfg, optFns...)
		}
		putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
			gotIn = in
			b, err := io.ReadAll(in.Body)
			gotBody = b
			return err
		}

		s := NewExportService(&fakeClient{}, t.TempDir(), S3Config{
			Bucket: "exports", Region: "eu-north-1", Endpoint: "http://127.0.0.1:9000", AccessKey: "k", SecretKey: "s",
		}, logging.Discard())

		key, err := s.Upload(context.Background(), path)
		require.NoError(t, err)

		require.NotNil(t, gotIn)
		assert.Equal(t, "exports", aws.ToString(gotIn.Bucket))
		assert.Equal(t, key, aws.ToString(gotIn.Key))
		assert.Contains(t, key, "exports/")
		assert.Contains(t, key, "-prototypes.pdf")
		assert.Equal(t, "application/pdf", aws.ToString(gotIn.ContentType))
		assert.Equal(t, "%PDF-1.4 report", string(gotBody))
		assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(gotOpts.BaseEndpoint))
		assert.True(t, gotOpts.UsePathStyle)
	})

	t.Run("put failure", func(t *testing.T) {
		oldLoad, oldPut := loadDefaultAWSConfig, putObject
		t.Cleanup(func() { loadDefaultAWSConfig, putObject = oldLoad, oldPut })

		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
			return aws.Config{Region: "eu-north-1"}, nil
		}
		putObject = func(*s3.Client, context.Context, *s3.PutObjectInput) error {
			return errors.New("access denied")
		}

		s := NewExportService(&fakeClient{}, t.TempDir(), S3Config{Bucket: "exports"}, logging.Discard())
		_, err := s.Upload(context.Background(), path)
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestSavePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages", "page1.xlsx")
	s := NewExportService(&fakeClient{}, t.TempDir(), S3Config{}, logging.Discard())

	records := []models.Prototype{
		{
			ID: 1, Title: "Line follower", Student: models.UserRef{ID: 7, Username: "ann"},
			Department: models.DepartmentRef{ID: 2, Name: "CS"}, Status: models.StatusReviewed,
			StorageLocation: "Shelf-12", SubmissionDate: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{ID: 2, Title: "Weather station", Status: models.StatusNotReviewed},
	}
	require.NoError(t, s.SavePage(context.Background(), records, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, []string{"1", "Line follower", "ann", "CS"}, rows[1][:4])
	assert.Equal(t, "Shelf-12", rows[1][7])
	assert.Equal(t, "2025-03-04", rows[1][8])
	assert.Equal(t, "Weather station", rows[2][1])
}

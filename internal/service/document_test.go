package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doclib/internal/model"
	"doclib/internal/repository"
	repoMocks "doclib/internal/repository/mocks"
	"doclib/internal/storage"
	storeMocks "doclib/internal/storage/mocks"
)

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		docName     string
		fileType    model.FileType
		contentType string
		size        int64
		setupMocks  func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader
		wantErr     error
		wantErrMsg  string
	}{
		{
			name:        "happy path",
			docName:     "notes",
			fileType:    model.FileTypeTXT,
			contentType: "text/plain",
			size:        11,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello world")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".txt")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "text/plain",
					Metadata:    map[string]string{"original-name": "notes", "file-type": "txt"},
				}).Return(storage.ObjectInfo{
					Key:         "documents/uuid.txt",
					Size:        11,
					ContentType: "text/plain",
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.Name == "notes" &&
						doc.StoragePath == "documents/uuid.txt" &&
						doc.DownloadCount == 0 &&
						doc.Icon == "/icons/text-icon.png" &&
						!doc.UploadDate.IsZero()
				})).Return(&model.Document{ID: 1}, nil)

				return r
			},
		},
		{
			name:     "validation error - nil reader",
			docName:  "notes",
			fileType: model.FileTypeTXT,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:     "validation error - empty name",
			docName:  "   ",
			fileType: model.FileTypeTXT,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name:     "validation error - unsupported file type",
			docName:  "setup",
			fileType: model.FileType("exe"),
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name:     "storage error",
			docName:  "notes",
			fileType: model.FileTypeTXT,
			size:     5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:     "repository error with successful rollback",
			docName:  "notes",
			fileType: model.FileTypeTXT,
			size:     5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:     "repository error with failed rollback",
			docName:  "notes",
			fileType: model.FileTypeTXT,
			size:     5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo)

			r := tt.setupMocks(mStore, mRepo)

			doc, err := svc.Upload(ctx, r, tt.docName, tt.fileType, tt.contentType, tt.size)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, doc)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		checkRes   func(t *testing.T, res *DocumentListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{
						Items: []model.Document{{ID: 1}, {ID: 2}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *DocumentListResult) {
				assert.Equal(t, 2, len(res.Items))
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(nil, mRepo)

			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, tt.limit, tt.offset)

			if tt.wantErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   3,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(3)).Return(&model.Document{ID: 3}, nil)
			},
		},
		{
			name:       "validation - non-positive id",
			id:         0,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   4,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(4)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   5,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(5)).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(nil, mRepo)

			tt.setupMocks(mRepo)

			doc, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrInvalidArgument) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, doc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, doc)
				assert.Equal(t, tt.id, doc.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   1,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(&model.Document{ID: 1, StoragePath: "path/to/obj"}, nil)
				mStore.On("Delete", ctx, "path/to/obj").Return(nil)
				mRepo.On("Delete", ctx, int64(1)).Return(nil)
			},
		},
		{
			name:       "validation - negative id",
			id:         -1,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name: "not found",
			id:   2,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(2)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "storage delete error",
			id:   3,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(3)).Return(&model.Document{ID: 3, StoragePath: "path"}, nil)
				mStore.On("Delete", ctx, "path").Return(errors.New("storage fail"))
			},
			wantErr: errors.New("delete storage: storage fail"),
		},
		{
			name: "repository delete error",
			id:   4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, int64(4)).Return(&model.Document{ID: 4, StoragePath: "path"}, nil)
				mStore.On("Delete", ctx, "path").Return(nil)
				mRepo.On("Delete", ctx, int64(4)).Return(errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo)

			tt.setupMocks(mStore, mRepo)

			err := svc.Delete(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrInvalidArgument) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("counts the download", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Document{ID: 1, StoragePath: "documents/a.pdf", DownloadCount: 2}, nil)
		mStore.On("Get", ctx, "documents/a.pdf").Return(io.NopCloser(strings.NewReader("pdf")), storage.ObjectInfo{Size: 3}, nil)
		mRepo.On("IncrementDownloadCount", ctx, int64(1)).Return(int64(3), nil)

		rc, doc, err := svc.Download(ctx, 1)
		require.NoError(t, err)
		defer rc.Close()

		body, _ := io.ReadAll(rc)
		assert.Equal(t, "pdf", string(body))
		assert.Equal(t, int64(3), doc.DownloadCount)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("storage failure does not count", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Document{ID: 1, StoragePath: "documents/a.pdf"}, nil)
		mStore.On("Get", ctx, "documents/a.pdf").Return(nil, storage.ObjectInfo{}, errors.New("no such key"))

		_, _, err := svc.Download(ctx, 1)
		assert.ErrorContains(t, err, "open storage: no such key")
		mRepo.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})

	t.Run("stored object gone", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo)

		mRepo.On("FindByID", ctx, int64(2)).Return(&model.Document{ID: 2, StoragePath: "documents/b.pdf"}, nil)
		mStore.On("Get", ctx, "documents/b.pdf").Return(nil, storage.ObjectInfo{}, fmt.Errorf("documents/b.pdf: %w", storage.ErrObjectNotFound))

		_, _, err := svc.Download(ctx, 2)
		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})

	t.Run("missing document", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo)

		mRepo.On("FindByID", ctx, int64(9)).Return(nil, sql.ErrNoRows)

		_, _, err := svc.Download(ctx, 9)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := NewDocumentService(nil, nil)
		_, _, err := svc.Download(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestDocumentService_DownloadMany(t *testing.T) {
	ctx := context.Background()

	t.Run("zips every document", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo)

		mRepo.On("FindByIDs", ctx, []int64{1, 2, 3}).Return([]model.Document{
			{ID: 1, Name: "a", FileType: model.FileTypePDF, StoragePath: "documents/1.pdf"},
			{ID: 2, Name: "b", FileType: model.FileTypeTXT, StoragePath: "documents/2.txt"},
			{ID: 3, Name: "a", FileType: model.FileTypePDF, StoragePath: "documents/3.pdf"},
		}, nil)
		mStore.On("Get", ctx, "documents/1.pdf").Return(io.NopCloser(strings.NewReader("one")), storage.ObjectInfo{}, nil)
		mStore.On("Get", ctx, "documents/2.txt").Return(io.NopCloser(strings.NewReader("two")), storage.ObjectInfo{}, nil)
		mStore.On("Get", ctx, "documents/3.pdf").Return(io.NopCloser(strings.NewReader("three")), storage.ObjectInfo{}, nil)
		mRepo.On("IncrementDownloadCounts", ctx, []int64{1, 2, 3}).Return(nil).Once()

		var buf bytes.Buffer
		require.NoError(t, svc.DownloadMany(ctx, []int64{1, 2, 3}, &buf))

		zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.NoError(t, err)

		got := map[string]string{}
		for _, f := range zr.File {
			rc, err := f.Open()
			require.NoError(t, err)
			b, _ := io.ReadAll(rc)
			rc.Close()
			got[f.Name] = string(b)
		}
		assert.Equal(t, map[string]string{"a.pdf": "one", "b.txt": "two", "a-3.pdf": "three"}, got)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("failed entry counts nothing", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo)

		mRepo.On("FindByIDs", ctx, []int64{1, 2}).Return([]model.Document{
			{ID: 1, Name: "a", FileType: model.FileTypePDF, StoragePath: "documents/1.pdf"},
			{ID: 2, Name: "b", FileType: model.FileTypeTXT, StoragePath: "documents/2.txt"},
		}, nil)
		mStore.On("Get", ctx, "documents/1.pdf").Return(io.NopCloser(strings.NewReader("one")), storage.ObjectInfo{}, nil)
		mStore.On("Get", ctx, "documents/2.txt").Return(nil, storage.ObjectInfo{}, errors.New("s3 down"))

		err := svc.DownloadMany(ctx, []int64{1, 2}, io.Discard)
		assert.ErrorContains(t, err, "s3 down")
		mRepo.AssertNotCalled(t, "IncrementDownloadCounts", mock.Anything, mock.Anything)
		mRepo.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})

	t.Run("count failure is reported", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo)

		mRepo.On("FindByIDs", ctx, []int64{1}).Return([]model.Document{
			{ID: 1, Name: "a", FileType: model.FileTypePDF, StoragePath: "documents/1.pdf"},
		}, nil)
		mStore.On("Get", ctx, "documents/1.pdf").Return(io.NopCloser(strings.NewReader("one")), storage.ObjectInfo{}, nil)
		mRepo.On("IncrementDownloadCounts", ctx, []int64{1}).Return(errors.New("db down"))

		err := svc.DownloadMany(ctx, []int64{1}, io.Discard)
		assert.ErrorContains(t, err, "increment download counts: db down")
	})

	t.Run("empty ids", func(t *testing.T) {
		svc := NewDocumentService(nil, nil)
		err := svc.DownloadMany(ctx, nil, io.Discard)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("non-positive id", func(t *testing.T) {
		svc := NewDocumentService(nil, nil)
		err := svc.DownloadMany(ctx, []int64{1, 0}, io.Discard)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("nothing found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo)
		mRepo.On("FindByIDs", ctx, []int64{8}).Return([]model.Document{}, nil)

		err := svc.DownloadMany(ctx, []int64{8}, io.Discard)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestArchiveName(t *testing.T) {
	seen := map[string]struct{}{}
	docs := []model.Document{
		{ID: 1, Name: "a", FileType: model.FileTypePDF},
		{ID: 2, Name: "a-3", FileType: model.FileTypePDF},
		{ID: 3, Name: "a", FileType: model.FileTypePDF},
		{ID: 4, Name: "a-3", FileType: model.FileTypePDF},
	}

	var got []string
	for i := range docs {
		name := archiveName(&docs[i], seen)
		seen[name] = struct{}{}
		got = append(got, name)
	}
	assert.Equal(t, []string{"a.pdf", "a-3.pdf", "a-3-2.pdf", "a-3-4.pdf"}, got)
}

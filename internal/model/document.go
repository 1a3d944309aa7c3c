package model

import (
	"strings"
	"time"
)

// FileType is the declared type of an uploaded document.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOC  FileType = "doc"
	FileTypeDOCX FileType = "docx"
	FileTypeXLS  FileType = "xls"
	FileTypeXLSX FileType = "xlsx"
	FileTypeTXT  FileType = "txt"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
)

const (
	DefaultIcon         = "/icons/default-icon.png"
	DefaultPreviewImage = "/previews/default.png"
)

// ParseFileType normalizes s (case-insensitive, optional leading dot) and reports whether it is known.
func ParseFileType(s string) (FileType, bool) {
	ft := FileType(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch ft {
	case FileTypePDF, FileTypeDOC, FileTypeDOCX, FileTypeXLS, FileTypeXLSX, FileTypeTXT, FileTypeJPG, FileTypePNG:
		return ft, true
	}
	return "", false
}

// Icon returns the icon path shown next to documents of this type.
func (ft FileType) Icon() string {
	switch ft {
	case FileTypePDF:
		return "/icons/pdf-icon.png"
	case FileTypeDOC, FileTypeDOCX:
		return "/icons/word-icon.png"
	case FileTypeXLS, FileTypeXLSX:
		return "/icons/excel-icon.png"
	case FileTypeTXT:
		return "/icons/text-icon.png"
	case FileTypeJPG, FileTypePNG:
		return "/icons/image-icon.png"
	default:
		return DefaultIcon
	}
}

// Document is an uploaded file and its metadata. StoragePath is the object key in the bucket.
type Document struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FileType      FileType  `json:"file_type"`
	StoragePath   string    `json:"storage_path"`
	Size          int64     `json:"size"`
	ContentType   string    `json:"content_type"`
	DownloadCount int64     `json:"download_count"`
	PreviewImage  string    `json:"preview_image"`
	Icon          string    `json:"icon"`
	UploadDate    time.Time `json:"upload_date"`
}

// FileName is the name used for the document in downloads and archives.
func (d *Document) FileName() string {
	return d.Name + "." + string(d.FileType)
}

// DocumentView is the read-only projection handed out to share-link holders.
type DocumentView struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FileType      FileType  `json:"file_type"`
	UploadDate    time.Time `json:"upload_date"`
	DownloadCount int64     `json:"download_count"`
	PreviewImage  string    `json:"preview_image"`
	Icon          string    `json:"icon"`
}

// View projects the document onto the fields that are safe to expose anonymously.
func (d *Document) View() DocumentView {
	return DocumentView{
		ID:            d.ID,
		Name:          d.Name,
		FileType:      d.FileType,
		UploadDate:    d.UploadDate,
		DownloadCount: d.DownloadCount,
		PreviewImage:  d.PreviewImage,
		Icon:          d.Icon,
	}
}
